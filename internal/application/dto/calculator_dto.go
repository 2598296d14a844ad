package dto

import "github.com/shopspring/decimal"

// LineCalcRequest body para POST /api/calculator/line.
// Los valores se aceptan como texto o número; inválidos cuentan como 0 (tasa: 1).
type LineCalcRequest struct {
	Qty               interface{} `json:"qty"`
	Rate              interface{} `json:"rate"`
	ExchangeRate      interface{} `json:"exchange_rate"`
	IsForeignCurrency bool        `json:"is_foreign_currency"`
}

// LineCalcResponse valores derivados de la línea.
type LineCalcResponse struct {
	Amount     decimal.Decimal `json:"amount"`
	BaseRate   decimal.Decimal `json:"base_rate"`
	BaseAmount decimal.Decimal `json:"base_amount"`
}

// TotalsCalcLine montos de una línea ya calculada.
type TotalsCalcLine struct {
	Amount     interface{} `json:"amount"`
	BaseAmount interface{} `json:"base_amount"`
}

// TotalsCalcRequest body para POST /api/calculator/totals.
type TotalsCalcRequest struct {
	Lines []TotalsCalcLine `json:"lines"`
}

// TotalsCalcResponse totales del documento.
type TotalsCalcResponse struct {
	NetTotal     decimal.Decimal `json:"net_total"`
	NetTotalBase decimal.Decimal `json:"net_total_base"`
}

// RenewalStatusRequest body para POST /api/calculator/renewal-status (fechas YYYY-MM-DD).
// Today vacío = fecha actual del servidor.
type RenewalStatusRequest struct {
	LicenseStart string `json:"license_start" validate:"omitempty,datetime=2006-01-02"`
	LicenseEnd   string `json:"license_end" validate:"omitempty,datetime=2006-01-02"`
	Today        string `json:"today" validate:"omitempty,datetime=2006-01-02"`
}

// RenewalStatusResponse Evaluated=false cuando falta alguna fecha.
type RenewalStatusResponse struct {
	Evaluated     bool          `json:"evaluated"`
	DaysRemaining *int          `json:"days_remaining,omitempty"`
	Badge         *RenewalBadge `json:"badge,omitempty"`
}
