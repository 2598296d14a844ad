package renewal

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/renewal-tracking-api/internal/domain"
	"github.com/jhoicas/renewal-tracking-api/internal/domain/entity"
	"github.com/jhoicas/renewal-tracking-api/pkg/logger"
)

func newResolver(cache RateCache) (*CurrencyResolver, *memCompanyRepo, *memFXRepo) {
	companies := &memCompanyRepo{companies: map[string]*entity.Company{
		"c1":      {ID: "c1", DefaultCurrency: "cop"},
		"sin-mon": {ID: "sin-mon"},
	}}
	fx := &memFXRepo{rates: map[string]decimal.Decimal{"USD->COP": dec("3900.5")}}
	return NewCurrencyResolver(companies, fx, cache, logger.Nop()), companies, fx
}

func TestResolve_SinEmpresaOMoneda_TasaManualNormalizada(t *testing.T) {
	r, _, _ := newResolver(nil)

	res, err := r.Resolve(context.Background(), "", "USD", decimal.Zero)
	require.NoError(t, err)
	assert.False(t, res.IsForeign)
	assertDec(t, "1", res.ExchangeRate)

	res, err = r.Resolve(context.Background(), "c1", "", dec("2.5"))
	require.NoError(t, err)
	assert.False(t, res.IsForeign)
	assertDec(t, "2.5", res.ExchangeRate)
}

func TestResolve_EmpresaSinMonedaBase(t *testing.T) {
	r, _, _ := newResolver(nil)

	res, err := r.Resolve(context.Background(), "sin-mon", "USD", decimal.Zero)
	require.NoError(t, err)
	assert.False(t, res.IsForeign)
	assertDec(t, "1", res.ExchangeRate)
}

func TestResolve_MismaMoneda_TasaUno(t *testing.T) {
	r, _, _ := newResolver(nil)

	res, err := r.Resolve(context.Background(), "c1", "cop", dec("7"))
	require.NoError(t, err)
	assert.False(t, res.IsForeign)
	assert.Equal(t, "COP", res.BaseCurrency)
	assertDec(t, "1", res.ExchangeRate)
}

func TestResolve_TasaManualSeRespeta(t *testing.T) {
	r, _, fx := newResolver(nil)

	res, err := r.Resolve(context.Background(), "c1", "USD", dec("4100"))
	require.NoError(t, err)
	assert.True(t, res.IsForeign)
	assertDec(t, "4100", res.ExchangeRate)
	assert.Equal(t, 0, fx.gets, "con tasa manual no se consulta Currency Exchange")
}

func TestResolve_TasaRegistradaYFaltante(t *testing.T) {
	r, _, _ := newResolver(nil)

	res, err := r.Resolve(context.Background(), "c1", "USD", decimal.Zero)
	require.NoError(t, err)
	assert.True(t, res.IsForeign)
	assertDec(t, "3900.5", res.ExchangeRate)

	_, err = r.Resolve(context.Background(), "c1", "GBP", decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrMissingExchangeRate)
}

func TestResolve_EmpresaInexistente(t *testing.T) {
	r, _, _ := newResolver(nil)

	_, err := r.Resolve(context.Background(), "nope", "USD", decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolve_UsaCache(t *testing.T) {
	cache := newMemCache()
	r, companies, fx := newResolver(cache)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := r.Resolve(ctx, "c1", "USD", decimal.Zero)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, companies.gets)
	assert.Equal(t, 1, fx.gets)
	assert.Equal(t, "COP", cache.currencies["c1"])
}
