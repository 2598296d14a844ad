package renewal

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/renewal-tracking-api/internal/domain"
	"github.com/jhoicas/renewal-tracking-api/internal/domain/renewal"
	"github.com/jhoicas/renewal-tracking-api/internal/domain/repository"
	"github.com/jhoicas/renewal-tracking-api/pkg/logger"
)

// ResolvedCurrency moneda base de la empresa y tasa a aplicar al documento.
type ResolvedCurrency struct {
	BaseCurrency string
	ExchangeRate decimal.Decimal
	IsForeign    bool
}

// CurrencyResolver resuelve moneda base y tasa antes de invocar los calculadores.
// Es el único punto con I/O del flujo de recálculo; los calculadores reciben su resultado.
type CurrencyResolver struct {
	companyRepo repository.CompanyRepository
	fxRepo      repository.CurrencyExchangeRepository
	cache       RateCache
	log         *logger.Logger
}

// NewCurrencyResolver construye el resolver. cache puede ser nil.
func NewCurrencyResolver(
	companyRepo repository.CompanyRepository,
	fxRepo repository.CurrencyExchangeRepository,
	cache RateCache,
	log *logger.Logger,
) *CurrencyResolver {
	if log == nil {
		log = logger.Nop()
	}
	return &CurrencyResolver{
		companyRepo: companyRepo,
		fxRepo:      fxRepo,
		cache:       cache,
		log:         log.WithComponent("currency-resolver"),
	}
}

// Resolve aplica las reglas del documento:
//   - sin empresa o sin moneda: no hay conversión (base = documento), tasa manual o 1.
//   - moneda del documento = moneda base: tasa 1.
//   - tasa manual > 0: se respeta.
//   - si no, se busca el par en Currency Exchange; si no existe, ErrMissingExchangeRate.
func (r *CurrencyResolver) Resolve(ctx context.Context, companyID, currency string, manualRate decimal.Decimal) (ResolvedCurrency, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if companyID == "" || currency == "" {
		return ResolvedCurrency{ExchangeRate: renewal.NormalizeExchangeRate(manualRate)}, nil
	}

	base, err := r.CompanyCurrency(ctx, companyID)
	if err != nil {
		return ResolvedCurrency{}, err
	}
	if base == "" {
		return ResolvedCurrency{ExchangeRate: renewal.NormalizeExchangeRate(manualRate)}, nil
	}
	if currency == base {
		return ResolvedCurrency{BaseCurrency: base, ExchangeRate: decimal.NewFromInt(1)}, nil
	}
	if manualRate.GreaterThan(decimal.Zero) {
		return ResolvedCurrency{BaseCurrency: base, ExchangeRate: manualRate, IsForeign: true}, nil
	}

	rate, err := r.LookupRate(ctx, currency, base)
	if err != nil {
		return ResolvedCurrency{}, err
	}
	return ResolvedCurrency{BaseCurrency: base, ExchangeRate: rate, IsForeign: true}, nil
}

// CompanyCurrency moneda base de la empresa (caché -> repositorio).
func (r *CurrencyResolver) CompanyCurrency(ctx context.Context, companyID string) (string, error) {
	if r.cache != nil {
		if c, ok := r.cache.GetCompanyCurrency(ctx, companyID); ok {
			return c, nil
		}
	}
	company, err := r.companyRepo.GetByID(companyID)
	if err != nil {
		return "", fmt.Errorf("obtener empresa: %w", err)
	}
	if company == nil {
		return "", domain.ErrNotFound
	}
	base := strings.ToUpper(strings.TrimSpace(company.DefaultCurrency))
	if r.cache != nil && base != "" {
		r.cache.SetCompanyCurrency(ctx, companyID, base)
	}
	return base, nil
}

// LookupRate tasa registrada más reciente del par; nunca inventa una tasa.
func (r *CurrencyResolver) LookupRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	if r.cache != nil {
		if rate, ok := r.cache.GetRate(ctx, from, to); ok {
			return rate, nil
		}
	}
	ce, err := r.fxRepo.GetLatest(ctx, from, to)
	if err != nil {
		return decimal.Zero, fmt.Errorf("buscar tasa %s->%s: %w", from, to, err)
	}
	if ce == nil || !ce.Rate.GreaterThan(decimal.Zero) {
		r.log.Warn().Str("from", from).Str("to", to).Msg("par de monedas sin tasa registrada")
		return decimal.Zero, fmt.Errorf("%w: %s a %s", domain.ErrMissingExchangeRate, from, to)
	}
	if r.cache != nil {
		r.cache.SetRate(ctx, from, to, ce.Rate)
	}
	return ce.Rate, nil
}
