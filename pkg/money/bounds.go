package money

import "github.com/shopspring/decimal"

// Límites de un monto aceptable. decimal admite exponentes int32 ("1e50000000") y
// redondear un valor así reescala un big.Int de millones de dígitos.
const (
	MaxExponent = 28
	MaxDigits   = 40
)

// InRange true si el exponente y la cantidad de dígitos del coeficiente están dentro de los límites.
func InRange(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp > MaxExponent || exp < -MaxExponent {
		return false
	}
	return d.NumDigits() <= MaxDigits
}
