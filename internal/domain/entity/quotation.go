package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de documento generados a partir de una renovación enviada.
const (
	QuotationKindRFQ      = "request_for_quotation"
	QuotationKindSupplier = "supplier_quotation"
	QuotationKindCustomer = "quotation"
)

// Quotation documento derivado (solicitud de cotización, cotización de proveedor o de cliente).
// RenewalTrackingID enlaza con el documento de origen.
type Quotation struct {
	ID                string
	CompanyID         string
	Kind              string
	RenewalTrackingID string
	Status            string // Draft
	TransactionDate   time.Time
	ValidTill         *time.Time // solo cotización de cliente (hoy + 30)
	Currency          string
	ConversionRate    decimal.Decimal
	Items             []*QuotationItem
	CreatedAt         time.Time
}

// QuotationItem línea copiada desde RenewalTrackingItem.
type QuotationItem struct {
	ID           string
	QuotationID  string
	Idx          int
	ItemCode     string
	ItemName     string
	Description  string
	Brand        string
	UOM          string
	Qty          decimal.Decimal
	Rate         decimal.Decimal
	Amount       decimal.Decimal
	ScheduleDate *time.Time // solo solicitud de cotización (hoy + 7)
}
