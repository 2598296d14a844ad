// Package renewal contiene la lógica pura de Renewal Tracking: valoración de líneas,
// totales del documento y estado de renovación de la licencia.
//
// Las funciones no hacen I/O ni guardan estado; quien llama resuelve moneda y tasa
// antes de invocarlas y se encarga de persistir los valores devueltos.
package renewal

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/renewal-tracking-api/pkg/money"
)

// moneyPlaces decimales de redondeo para montos y tarifas.
const moneyPlaces = 2

// LineValues valores derivados de una línea de ítem.
type LineValues struct {
	Amount     decimal.Decimal
	BaseRate   decimal.Decimal
	BaseAmount decimal.Decimal
}

// LineAmounts lo mínimo que el agregador necesita de cada línea.
type LineAmounts struct {
	Amount     decimal.Decimal
	BaseAmount decimal.Decimal
}

// Totals totales del documento en moneda del documento y moneda base.
type Totals struct {
	NetTotal     decimal.Decimal
	NetTotalBase decimal.Decimal
}

// Round2 redondea a 2 decimales, mitad alejándose de cero (5.555 -> 5.56, -5.555 -> -5.56).
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyPlaces)
}

// NormalizeExchangeRate devuelve 1 cuando la tasa es cero (ausente o no definida).
func NormalizeExchangeRate(rate decimal.Decimal) decimal.Decimal {
	if rate.IsZero() {
		return decimal.NewFromInt(1)
	}
	return rate
}

// ComputeLineValues calcula amount, base_rate y base_amount de una línea.
// El redondeo se aplica después de cada multiplicación, nunca sobre intermedios sin redondear.
func ComputeLineValues(quantity, rate, exchangeRate decimal.Decimal, isForeignCurrency bool) LineValues {
	amount := Round2(quantity.Mul(rate))
	if !isForeignCurrency {
		return LineValues{Amount: amount, BaseRate: rate, BaseAmount: amount}
	}
	fx := NormalizeExchangeRate(exchangeRate)
	return LineValues{
		Amount:     amount,
		BaseRate:   Round2(rate.Mul(fx)),
		BaseAmount: Round2(amount.Mul(fx)),
	}
}

// ComputeTotals suma amount y base_amount de todas las líneas en el orden recibido.
// Cada sumando se redondea a 2 decimales antes de acumular. Sin líneas ambos totales son 0.
func ComputeTotals(lines []LineAmounts) Totals {
	netTotal := decimal.Zero
	netTotalBase := decimal.Zero
	for _, l := range lines {
		netTotal = netTotal.Add(Round2(l.Amount))
		netTotalBase = netTotalBase.Add(Round2(l.BaseAmount))
	}
	return Totals{NetTotal: netTotal, NetTotalBase: netTotalBase}
}

// Lenient convierte texto a decimal sin fallar: vacío, inválido o fuera de rango -> 0.
// Acepta separadores de miles con coma ("1,234.50").
func Lenient(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !money.InRange(d) {
		return decimal.Zero
	}
	return d
}

// LenientAny como Lenient pero para valores sin tipo (celdas de hoja de cálculo, JSON genérico).
func LenientAny(v any) decimal.Decimal {
	d := lenientAny(v)
	if !money.InRange(d) {
		return decimal.Zero
	}
	return d
}

func lenientAny(v any) decimal.Decimal {
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return x
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero
		}
		return *x
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(x)
	case float32:
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat32(x)
	case int:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case int32:
		return decimal.NewFromInt32(x)
	case string:
		return Lenient(x)
	case fmt.Stringer:
		return Lenient(x.String())
	default:
		return decimal.Zero
	}
}

// LenientExchangeRate como Lenient pero devuelve 1 cuando el resultado es 0.
func LenientExchangeRate(s string) decimal.Decimal {
	return NormalizeExchangeRate(Lenient(s))
}
