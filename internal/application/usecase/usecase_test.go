package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/renewal-tracking-api/internal/application/dto"
	"github.com/jhoicas/renewal-tracking-api/internal/application/renewal"
	"github.com/jhoicas/renewal-tracking-api/internal/domain"
	"github.com/jhoicas/renewal-tracking-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type memCompanies struct{ byID map[string]*entity.Company }

func newMemCompanies() *memCompanies { return &memCompanies{byID: map[string]*entity.Company{}} }

func (m *memCompanies) Create(c *entity.Company) error { m.byID[c.ID] = c; return nil }
func (m *memCompanies) GetByID(id string) (*entity.Company, error) {
	return m.byID[id], nil
}
func (m *memCompanies) GetByTaxID(taxID string) (*entity.Company, error) {
	for _, c := range m.byID {
		if c.TaxID == taxID {
			return c, nil
		}
	}
	return nil, nil
}
func (m *memCompanies) Update(c *entity.Company) error { m.byID[c.ID] = c; return nil }
func (m *memCompanies) List(int, int) ([]*entity.Company, error) {
	out := make([]*entity.Company, 0, len(m.byID))
	for _, c := range m.byID {
		out = append(out, c)
	}
	return out, nil
}
func (m *memCompanies) Delete(id string) error { delete(m.byID, id); return nil }

type memUsers struct{ byID map[string]*entity.User }

func (m *memUsers) Create(u *entity.User) error             { m.byID[u.ID] = u; return nil }
func (m *memUsers) GetByID(id string) (*entity.User, error) { return m.byID[id], nil }
func (m *memUsers) GetByEmail(string) (*entity.User, error) { return nil, nil }
func (m *memUsers) GetByEmailAndCompany(string, string) (*entity.User, error) {
	return nil, nil
}
func (m *memUsers) Update(u *entity.User) error { m.byID[u.ID] = u; return nil }
func (m *memUsers) ListByCompany(companyID string, _, _ int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range m.byID {
		if u.CompanyID == companyID {
			out = append(out, u)
		}
	}
	return out, nil
}
func (m *memUsers) Delete(id string) error { delete(m.byID, id); return nil }

type memRates struct{ list []*entity.CurrencyExchange }

func (m *memRates) Create(_ context.Context, ce *entity.CurrencyExchange) error {
	m.list = append(m.list, ce)
	return nil
}

func (m *memRates) GetLatest(_ context.Context, from, to string) (*entity.CurrencyExchange, error) {
	var latest *entity.CurrencyExchange
	for _, ce := range m.list {
		if ce.FromCurrency != from || ce.ToCurrency != to {
			continue
		}
		if latest == nil || ce.Date.After(latest.Date) {
			latest = ce
		}
	}
	return latest, nil
}

func (m *memRates) List(context.Context, int, int) ([]*entity.CurrencyExchange, error) {
	return m.list, nil
}

// recordingCache registra las escrituras de caché.
type recordingCache struct {
	currencies map[string]string
	rates      map[string]decimal.Decimal
}

func newRecordingCache() *recordingCache {
	return &recordingCache{currencies: map[string]string{}, rates: map[string]decimal.Decimal{}}
}

func (c *recordingCache) SetCompanyCurrency(_ context.Context, id, cur string) { c.currencies[id] = cur }
func (c *recordingCache) SetRate(_ context.Context, from, to string, r decimal.Decimal) {
	c.rates[from+"->"+to] = r
}

// ──────────────────────────────────────────────────────────────────────────────
// CompanyUseCase
// ──────────────────────────────────────────────────────────────────────────────

func TestCompanyCreate_NormalizaMonedaYRechazaDuplicado(t *testing.T) {
	uc := NewCompanyUseCase(newMemCompanies(), nil)
	in := dto.CreateCompanyRequest{Name: "Acme", TaxID: "900-1", DefaultCurrency: "ghs"}

	out, err := uc.Create(in)
	require.NoError(t, err)
	assert.Equal(t, "GHS", out.DefaultCurrency)
	assert.Equal(t, "active", out.Status)

	_, err = uc.Create(in)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCompanyUpdate_RefrescaCacheDeMoneda(t *testing.T) {
	repo := newMemCompanies()
	cache := newRecordingCache()
	uc := NewCompanyUseCase(repo, cache)
	created, err := uc.Create(dto.CreateCompanyRequest{Name: "Acme", TaxID: "1", DefaultCurrency: "GHS"})
	require.NoError(t, err)

	cur := "xof"
	out, err := uc.Update(context.Background(), created.ID, dto.UpdateCompanyRequest{DefaultCurrency: &cur})
	require.NoError(t, err)
	assert.Equal(t, "XOF", out.DefaultCurrency)
	assert.Equal(t, "XOF", cache.currencies[created.ID])
}

func TestCompanyUpdate_Inexistente(t *testing.T) {
	uc := NewCompanyUseCase(newMemCompanies(), nil)
	_, err := uc.Update(context.Background(), "nope", dto.UpdateCompanyRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// CurrencyExchangeUseCase
// ──────────────────────────────────────────────────────────────────────────────

func TestCurrencyCreate_CacheQuedaConLaTasaMasReciente(t *testing.T) {
	rates := &memRates{}
	cache := newRecordingCache()
	uc := NewCurrencyExchangeUseCase(rates, nil, cache)
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateCurrencyExchangeRequest{FromCurrency: "usd", ToCurrency: "ghs", Rate: decimal.NewFromInt(12), Date: "2026-03-01"})
	require.NoError(t, err)
	// Tasa con fecha anterior: se guarda pero no reemplaza la vigente en caché.
	out, err := uc.Create(ctx, dto.CreateCurrencyExchangeRequest{FromCurrency: "USD", ToCurrency: "GHS", Rate: decimal.NewFromInt(11), Date: "2026-02-01"})
	require.NoError(t, err)

	assert.Equal(t, "USD", out.FromCurrency)
	assert.Equal(t, "2026-02-01", out.Date)
	assert.True(t, decimal.NewFromInt(12).Equal(cache.rates["USD->GHS"]))
}

func TestCurrencyCreate_EntradasInvalidas(t *testing.T) {
	uc := NewCurrencyExchangeUseCase(&memRates{}, nil, nil)
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateCurrencyExchangeRequest{FromCurrency: "USD", ToCurrency: "USD", Rate: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, dto.CreateCurrencyExchangeRequest{FromCurrency: "USD", ToCurrency: "GHS", Rate: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCurrencyResolve_TasaRegistradaYFaltante(t *testing.T) {
	companies := newMemCompanies()
	companies.byID["c1"] = &entity.Company{ID: "c1", DefaultCurrency: "GHS"}
	rates := &memRates{}
	_ = rates.Create(context.Background(), &entity.CurrencyExchange{FromCurrency: "USD", ToCurrency: "GHS", Rate: decimal.NewFromInt(12), Date: time.Now()})
	uc := NewCurrencyExchangeUseCase(rates, renewal.NewCurrencyResolver(companies, rates, nil, nil), nil)

	out, err := uc.Resolve(context.Background(), "c1", "usd", decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, "USD", out.Currency)
	assert.Equal(t, "GHS", out.BaseCurrency)
	assert.True(t, out.IsForeign)
	assert.True(t, decimal.NewFromInt(12).Equal(out.ExchangeRate))

	_, err = uc.Resolve(context.Background(), "c1", "EUR", decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrMissingExchangeRate)
}

// ──────────────────────────────────────────────────────────────────────────────
// UserUseCase
// ──────────────────────────────────────────────────────────────────────────────

func newUsers() *memUsers {
	return &memUsers{byID: map[string]*entity.User{
		"admin": {ID: "admin", CompanyID: "c1", Role: entity.RoleAdmin, Status: "active"},
		"ana":   {ID: "ana", CompanyID: "c1", Role: entity.RoleVentas, Status: "active"},
		"otro":  {ID: "otro", CompanyID: "c2", Role: entity.RoleCompras, Status: "active"},
	}}
}

func TestUserMe_OtraEmpresa_Prohibido(t *testing.T) {
	uc := NewUserUseCase(newUsers())

	me, err := uc.Me("c1", "ana")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleVentas, me.Role)

	_, err = uc.Me("c1", "otro")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Me("c1", "nadie")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserList_SoloLaEmpresa(t *testing.T) {
	uc := NewUserUseCase(newUsers())
	out, err := uc.List("c1", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, 20, out.Page.Limit)
}

func TestUserUpdateRole(t *testing.T) {
	repo := newUsers()
	uc := NewUserUseCase(repo)

	out, err := uc.UpdateRole("c1", "admin", "ana", dto.UpdateUserRoleRequest{Role: entity.RoleCompras, Status: "inactive"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleCompras, out.Role)
	assert.Equal(t, "inactive", repo.byID["ana"].Status)

	// Un admin no puede quitarse su propio rol.
	_, err = uc.UpdateRole("c1", "admin", "admin", dto.UpdateUserRoleRequest{Role: entity.RoleVentas})
	assert.ErrorIs(t, err, domain.ErrConflict)
}
