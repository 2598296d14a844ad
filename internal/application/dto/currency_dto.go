package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCurrencyExchangeRequest body para POST /api/currency-exchanges.
type CreateCurrencyExchangeRequest struct {
	FromCurrency string          `json:"from_currency" validate:"required,iso4217"`
	ToCurrency   string          `json:"to_currency" validate:"required,iso4217,nefield=FromCurrency"`
	Rate         decimal.Decimal `json:"rate" validate:"money,gt=0"`
	Date         string          `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// CurrencyExchangeResponse tasa registrada.
type CurrencyExchangeResponse struct {
	ID           string          `json:"id"`
	FromCurrency string          `json:"from_currency"`
	ToCurrency   string          `json:"to_currency"`
	Rate         decimal.Decimal `json:"rate"`
	Date         string          `json:"date"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ResolvedCurrencyResponse resultado de resolver moneda base y tasa para un documento.
type ResolvedCurrencyResponse struct {
	Currency     string          `json:"currency"`
	BaseCurrency string          `json:"base_currency"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	IsForeign    bool            `json:"is_foreign"`
}
