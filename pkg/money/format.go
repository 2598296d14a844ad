// Package money formatea montos con símbolo de moneda para documentos impresos.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Format devuelve el monto con el símbolo de la moneda ISO y separador de miles,
// redondeado a 2 decimales ("GH¢ 1,234.50"). Un código desconocido se antepone tal cual.
func Format(amount decimal.Decimal, code string) string {
	f, _ := amount.Round(2).Float64()
	unit, err := currency.ParseISO(code)
	if err != nil {
		return code + " " + printer.Sprintf("%.2f", f)
	}
	return printer.Sprintf("%v", currency.Symbol(unit.Amount(f)))
}
