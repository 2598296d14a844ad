package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/renewal-tracking-api/internal/application/dto"
	"github.com/jhoicas/renewal-tracking-api/internal/application/renewal"
	"github.com/jhoicas/renewal-tracking-api/internal/domain"
	"github.com/jhoicas/renewal-tracking-api/internal/domain/entity"
	"github.com/jhoicas/renewal-tracking-api/internal/domain/repository"
)

// RateWriter caché de tasas a refrescar cuando se registra una nueva.
type RateWriter interface {
	SetRate(ctx context.Context, from, to string, rate decimal.Decimal)
}

// CurrencyExchangeUseCase registro y consulta de tasas de cambio.
type CurrencyExchangeUseCase struct {
	repo     repository.CurrencyExchangeRepository
	resolver *renewal.CurrencyResolver
	cache    RateWriter
}

// NewCurrencyExchangeUseCase construye el caso de uso. cache puede ser nil.
func NewCurrencyExchangeUseCase(repo repository.CurrencyExchangeRepository, resolver *renewal.CurrencyResolver, cache RateWriter) *CurrencyExchangeUseCase {
	return &CurrencyExchangeUseCase{repo: repo, resolver: resolver, cache: cache}
}

// Create registra una tasa. Sin fecha se toma la de hoy.
func (uc *CurrencyExchangeUseCase) Create(ctx context.Context, in dto.CreateCurrencyExchangeRequest) (*dto.CurrencyExchangeResponse, error) {
	if !in.Rate.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	from := strings.ToUpper(strings.TrimSpace(in.FromCurrency))
	to := strings.ToUpper(strings.TrimSpace(in.ToCurrency))
	if from == "" || to == "" || from == to {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if in.Date != "" {
		d, err := time.Parse("2006-01-02", in.Date)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		date = d
	}
	ce := &entity.CurrencyExchange{
		ID:           uuid.New().String(),
		FromCurrency: from,
		ToCurrency:   to,
		Rate:         in.Rate,
		Date:         date,
		CreatedAt:    now,
	}
	if err := uc.repo.Create(ctx, ce); err != nil {
		return nil, err
	}
	// La caché debe reflejar la más reciente; releer evita pisarla con una tasa con fecha anterior.
	if uc.cache != nil {
		if latest, err := uc.repo.GetLatest(ctx, from, to); err == nil && latest != nil {
			uc.cache.SetRate(ctx, from, to, latest.Rate)
		}
	}
	return toCurrencyExchangeResponse(ce), nil
}

// List tasas registradas, más recientes primero.
func (uc *CurrencyExchangeUseCase) List(ctx context.Context, limit, offset int) ([]dto.CurrencyExchangeResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CurrencyExchangeResponse, 0, len(list))
	for _, ce := range list {
		out = append(out, *toCurrencyExchangeResponse(ce))
	}
	return out, nil
}

// Resolve moneda base y tasa que se aplicaría a un documento de la empresa.
func (uc *CurrencyExchangeUseCase) Resolve(ctx context.Context, companyID, currency string, manualRate decimal.Decimal) (*dto.ResolvedCurrencyResponse, error) {
	res, err := uc.resolver.Resolve(ctx, companyID, currency, manualRate)
	if err != nil {
		return nil, err
	}
	return &dto.ResolvedCurrencyResponse{
		Currency:     strings.ToUpper(currency),
		BaseCurrency: res.BaseCurrency,
		ExchangeRate: res.ExchangeRate,
		IsForeign:    res.IsForeign,
	}, nil
}

func toCurrencyExchangeResponse(ce *entity.CurrencyExchange) *dto.CurrencyExchangeResponse {
	return &dto.CurrencyExchangeResponse{
		ID:           ce.ID,
		FromCurrency: ce.FromCurrency,
		ToCurrency:   ce.ToCurrency,
		Rate:         ce.Rate,
		Date:         ce.Date.Format("2006-01-02"),
		CreatedAt:    ce.CreatedAt,
	}
}
