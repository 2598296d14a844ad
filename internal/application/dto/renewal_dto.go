package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RenewalItemRequest línea de ítem enviada por el cliente. Los campos derivados
// (amount, base_rate, base_amount) se ignoran en la entrada: siempre se recalculan.
type RenewalItemRequest struct {
	ItemCode    string          `json:"item_code" validate:"max=140"`
	ItemName    string          `json:"item_name" validate:"max=140"`
	Description string          `json:"description"`
	Brand       string          `json:"brand" validate:"max=140"`
	ItemGroup   string          `json:"item_group" validate:"max=140"`
	UOM         string          `json:"uom" validate:"max=40"`
	Qty         decimal.Decimal `json:"qty" validate:"money"`
	Rate        decimal.Decimal `json:"rate" validate:"money"`
}

// CreateRenewalRequest body para POST /api/renewals.
// ExchangeRate es opcional: cero o ausente = buscar en Currency Exchange.
type CreateRenewalRequest struct {
	CustomerName string               `json:"customer_name" validate:"required,max=200"`
	RenewalStage string               `json:"renewal_stage" validate:"omitempty,oneof=Identified Quoted Negotiation Renewed Lost"`
	Currency     string               `json:"currency" validate:"required,iso4217"`
	ExchangeRate decimal.Decimal      `json:"exchange_rate" validate:"money,gte=0"`
	LicenseStart string               `json:"license_start,omitempty" validate:"omitempty,datetime=2006-01-02"`
	LicenseEnd   string               `json:"license_end,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Items        []RenewalItemRequest `json:"items" validate:"dive"`
}

// UpdateRenewalRequest body para PUT /api/renewals/:id (campos opcionales).
// Items no nil reemplaza todas las líneas.
type UpdateRenewalRequest struct {
	CustomerName *string               `json:"customer_name" validate:"omitempty,max=200"`
	RenewalStage *string               `json:"renewal_stage" validate:"omitempty,oneof=Identified Quoted Negotiation Renewed Lost"`
	Currency     *string               `json:"currency" validate:"omitempty,iso4217"`
	ExchangeRate *decimal.Decimal      `json:"exchange_rate" validate:"omitempty,money,gte=0"`
	LicenseStart *string               `json:"license_start" validate:"omitempty,datetime=2006-01-02"`
	LicenseEnd   *string               `json:"license_end" validate:"omitempty,datetime=2006-01-02"`
	Items        *[]RenewalItemRequest `json:"items" validate:"omitempty,dive"`
}

// RenewalItemResponse línea con valores derivados.
type RenewalItemResponse struct {
	ID          string          `json:"id"`
	Idx         int             `json:"idx"`
	ItemCode    string          `json:"item_code"`
	ItemName    string          `json:"item_name"`
	Description string          `json:"description"`
	Brand       string          `json:"brand"`
	ItemGroup   string          `json:"item_group"`
	UOM         string          `json:"uom"`
	Qty         decimal.Decimal `json:"qty"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
	BaseRate    decimal.Decimal `json:"base_rate"`
	BaseAmount  decimal.Decimal `json:"base_amount"`
}

// RenewalBadge insignia de días restantes para la vista de lista.
type RenewalBadge struct {
	Severity string `json:"severity"`
	Label    string `json:"label"`
	Color    string `json:"color"`
}

// RenewalResponse renovación completa para GET /api/renewals/:id.
type RenewalResponse struct {
	ID            string                `json:"id"`
	CompanyID     string                `json:"company_id"`
	Name          string                `json:"name"`
	CustomerName  string                `json:"customer_name"`
	RenewalStage  string                `json:"renewal_stage"`
	Currency      string                `json:"currency"`
	ExchangeRate  decimal.Decimal       `json:"exchange_rate"`
	NetTotal      decimal.Decimal       `json:"net_total"`
	NetTotalBase  decimal.Decimal       `json:"net_total_base"`
	LicenseStart  string                `json:"license_start,omitempty"`
	LicenseEnd    string                `json:"license_end,omitempty"`
	DaysRemaining *int                  `json:"days_remaining"`
	Badge         *RenewalBadge         `json:"badge,omitempty"`
	DocStatus     int                   `json:"docstatus"`
	Items         []RenewalItemResponse `json:"items"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// RenewalListItem fila de la vista de lista.
type RenewalListItem struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	CustomerName  string          `json:"customer_name"`
	RenewalStage  string          `json:"renewal_stage"`
	Currency      string          `json:"currency"`
	NetTotal      decimal.Decimal `json:"net_total"`
	NetTotalBase  decimal.Decimal `json:"net_total_base"`
	LicenseStart  string          `json:"license_start,omitempty"`
	LicenseEnd    string          `json:"license_end,omitempty"`
	DaysRemaining *int            `json:"days_remaining"`
	Badge         *RenewalBadge   `json:"badge,omitempty"`
	DocStatus     int             `json:"docstatus"`
}

// RenewalListResponse lista paginada.
type RenewalListResponse struct {
	Items []RenewalListItem `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ImportItemsResponse resultado de importar ítems desde archivo.
type ImportItemsResponse struct {
	Imported int             `json:"imported"`
	Renewal  RenewalResponse `json:"renewal"`
}

// QuotationItemResponse línea de un documento derivado.
type QuotationItemResponse struct {
	Idx          int             `json:"idx"`
	ItemCode     string          `json:"item_code"`
	ItemName     string          `json:"item_name"`
	Description  string          `json:"description"`
	Brand        string          `json:"brand"`
	UOM          string          `json:"uom"`
	Qty          decimal.Decimal `json:"qty"`
	Rate         decimal.Decimal `json:"rate"`
	Amount       decimal.Decimal `json:"amount"`
	ScheduleDate string          `json:"schedule_date,omitempty"`
}

// QuotationResponse documento derivado de una renovación enviada.
type QuotationResponse struct {
	ID                string                  `json:"id"`
	Kind              string                  `json:"kind"`
	RenewalTrackingID string                  `json:"renewal_tracking"`
	Status            string                  `json:"status"`
	TransactionDate   string                  `json:"transaction_date"`
	ValidTill         string                  `json:"valid_till,omitempty"`
	Currency          string                  `json:"currency,omitempty"`
	ConversionRate    decimal.Decimal         `json:"conversion_rate"`
	Items             []QuotationItemResponse `json:"items"`
}
