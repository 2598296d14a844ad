package renewal_test

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/renewal-tracking-api/internal/domain/renewal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// assertDecimal compara por valor (1.50 == 1.5) y muestra ambos en caso de fallo.
func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "esperado %s, obtenido %s %v", want, got.String(), msgAndArgs)
}

// ──────────────────────────────────────────────────────────────────────────────
// ComputeLineValues
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeLineValues_MonedaExtranjera_EscenarioReferencia(t *testing.T) {
	got := renewal.ComputeLineValues(dec("10"), dec("25.555"), dec("1.2"), true)

	assertDecimal(t, "255.55", got.Amount)
	assertDecimal(t, "30.67", got.BaseRate)
	assertDecimal(t, "306.66", got.BaseAmount)
}

func TestComputeLineValues_MonedaBase_NoConvierte(t *testing.T) {
	got := renewal.ComputeLineValues(dec("10"), dec("25.555"), dec("1.2"), false)

	assertDecimal(t, "255.55", got.Amount)
	// base_rate = rate tal cual, sin redondear ni convertir
	assertDecimal(t, "25.555", got.BaseRate)
	assertDecimal(t, "255.55", got.BaseAmount)
}

func TestComputeLineValues_TasaCeroSeTomaComoUno(t *testing.T) {
	got := renewal.ComputeLineValues(dec("4"), dec("12.5"), decimal.Zero, true)

	assertDecimal(t, "50", got.Amount)
	assertDecimal(t, "12.5", got.BaseRate)
	assertDecimal(t, "50", got.BaseAmount)
}

func TestComputeLineValues_RedondeoMitadLejosDeCero(t *testing.T) {
	cases := []struct {
		qty, rate, want string
	}{
		{"1", "2.675", "2.68"},
		{"1", "-2.675", "-2.68"},
		{"1", "0.005", "0.01"},
		{"1", "0.004", "0"},
		{"2", "1.0025", "2.01"},
	}
	for _, tc := range cases {
		got := renewal.ComputeLineValues(dec(tc.qty), dec(tc.rate), dec("1"), false)
		assertDecimal(t, tc.want, got.Amount, tc.qty, tc.rate)
	}
}

// El producto se redondea una sola vez: las entradas no se pre-redondean.
// 3 x 0.335 = 1.005 -> 1.01 (pre-redondear la tarifa daría 3 x 0.34 = 1.02).
func TestComputeLineValues_SinPreRedondeoDeEntradas(t *testing.T) {
	got := renewal.ComputeLineValues(dec("3"), dec("0.335"), dec("1"), false)
	assertDecimal(t, "1.01", got.Amount)
}

// base_amount se calcula sobre amount ya redondeado, no sobre qty*rate crudo.
// 1 x 0.125 = 0.125 -> 0.13; 0.13 x 1.5 = 0.195 -> 0.20 (sobre el crudo: 0.1875 -> 0.19).
func TestComputeLineValues_BaseAmountSobreAmountRedondeado(t *testing.T) {
	got := renewal.ComputeLineValues(dec("1"), dec("0.125"), dec("1.5"), true)
	assertDecimal(t, "0.13", got.Amount)
	assertDecimal(t, "0.2", got.BaseAmount)
}

func TestComputeLineValues_PropiedadMonedaBase(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		qty := decimal.NewFromInt(rng.Int63n(1000)).Div(decimal.NewFromInt(10))
		rate := decimal.NewFromInt(rng.Int63n(1_000_000)).Div(decimal.NewFromInt(1000))

		got := renewal.ComputeLineValues(qty, rate, decimal.NewFromInt(1), false)

		require.True(t, got.Amount.Equal(qty.Mul(rate).Round(2)), "qty=%s rate=%s", qty, rate)
		require.True(t, got.BaseAmount.Equal(got.Amount), "qty=%s rate=%s", qty, rate)
	}
}

func TestComputeLineValues_PropiedadMonedaExtranjera(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		qty := decimal.NewFromInt(rng.Int63n(500))
		rate := decimal.NewFromInt(rng.Int63n(100_000)).Div(decimal.NewFromInt(1000))
		fx := decimal.NewFromInt(rng.Int63n(20_000) + 1).Div(decimal.NewFromInt(1000))

		got := renewal.ComputeLineValues(qty, rate, fx, true)

		want := qty.Mul(rate).Round(2).Mul(fx).Round(2)
		require.True(t, got.BaseAmount.Equal(want), "qty=%s rate=%s fx=%s", qty, rate, fx)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// ComputeTotals
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeTotals_SinLineas(t *testing.T) {
	got := renewal.ComputeTotals(nil)
	assert.True(t, got.NetTotal.IsZero())
	assert.True(t, got.NetTotalBase.IsZero())
}

func TestComputeTotals_RedondeaCadaSumando(t *testing.T) {
	lines := []renewal.LineAmounts{
		{Amount: dec("100.00"), BaseAmount: dec("120.00")},
		{Amount: dec("200.005"), BaseAmount: dec("240.006")},
		{Amount: decimal.Zero, BaseAmount: decimal.Zero},
	}
	got := renewal.ComputeTotals(lines)
	assertDecimal(t, "300.01", got.NetTotal)
	assertDecimal(t, "360.01", got.NetTotalBase)
}

func TestComputeTotals_IndependienteDelOrden(t *testing.T) {
	lines := []renewal.LineAmounts{
		{Amount: dec("10.10"), BaseAmount: dec("12.12")},
		{Amount: dec("0.01"), BaseAmount: dec("0.02")},
		{Amount: dec("999.99"), BaseAmount: dec("1199.99")},
		{Amount: dec("-5.50"), BaseAmount: dec("-6.60")},
	}
	want := renewal.ComputeTotals(lines)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		perm := make([]renewal.LineAmounts, len(lines))
		for j, k := range rng.Perm(len(lines)) {
			perm[j] = lines[k]
		}
		got := renewal.ComputeTotals(perm)
		require.True(t, want.NetTotal.Equal(got.NetTotal))
		require.True(t, want.NetTotalBase.Equal(got.NetTotalBase))
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Conversión permisiva
// ──────────────────────────────────────────────────────────────────────────────

func TestLenient_EntradasInvalidasSonCero(t *testing.T) {
	for _, s := range []string{"", "  ", "abc", "1.2.3", "--1"} {
		assert.True(t, renewal.Lenient(s).IsZero(), "%q debe convertirse a 0", s)
	}
	assertDecimal(t, "1234.5", renewal.Lenient(" 1,234.50 "))
	assertDecimal(t, "-3", renewal.Lenient("-3"))
}

func TestLenientAny_TiposSoportados(t *testing.T) {
	assertDecimal(t, "2.5", renewal.LenientAny(2.5))
	assertDecimal(t, "7", renewal.LenientAny(7))
	assertDecimal(t, "7", renewal.LenientAny(int64(7)))
	assertDecimal(t, "3.1", renewal.LenientAny("3.1"))
	assertDecimal(t, "0", renewal.LenientAny(nil))
	assertDecimal(t, "0", renewal.LenientAny(struct{}{}))
	assertDecimal(t, "9.99", renewal.LenientAny(dec("9.99")))
}

func TestLenient_ExponenteFueraDeRangoEsCero(t *testing.T) {
	for _, s := range []string{"1e50000000", "1e2000000000", "1e-50000000", "9E29"} {
		assert.True(t, renewal.Lenient(s).IsZero(), "%q debe convertirse a 0", s)
		assert.True(t, renewal.LenientAny(s).IsZero(), "%q debe convertirse a 0", s)
	}
	assert.True(t, renewal.LenientAny(1e300).IsZero())
	assert.True(t, renewal.LenientAny(decimal.New(1, 50000000)).IsZero())
	assertDecimal(t, "1", renewal.LenientExchangeRate("1e50000000"))
	assertDecimal(t, "12.5", renewal.Lenient("1.25e1"))
}

func TestLenientExchangeRate_CeroOInvalidoEsUno(t *testing.T) {
	assertDecimal(t, "1", renewal.LenientExchangeRate(""))
	assertDecimal(t, "1", renewal.LenientExchangeRate("0"))
	assertDecimal(t, "1", renewal.LenientExchangeRate("x"))
	assertDecimal(t, "0.0825", renewal.LenientExchangeRate("0.0825"))
}
