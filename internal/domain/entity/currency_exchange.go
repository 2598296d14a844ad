package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyExchange tasa de conversión de FromCurrency a ToCurrency.
// 1 unidad de FromCurrency = Rate unidades de ToCurrency.
type CurrencyExchange struct {
	ID           string
	FromCurrency string
	ToCurrency   string
	Rate         decimal.Decimal
	Date         time.Time // fecha de vigencia; se usa la más reciente
	CreatedAt    time.Time
}
