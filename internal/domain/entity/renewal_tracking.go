package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del documento (docstatus).
const (
	DocStatusDraft     = 0
	DocStatusSubmitted = 1
	DocStatusCancelled = 2
)

// Etapas comerciales de la renovación.
const (
	StageIdentified  = "Identified"
	StageQuoted      = "Quoted"
	StageNegotiation = "Negotiation"
	StageRenewed     = "Renewed"
	StageLost        = "Lost"
)

// RenewalTracking cabecera de un seguimiento de renovación de licencias.
// Los campos derivados (totales, base_*, DaysRemaining) se recalculan en cada cambio;
// nunca se actualizan de forma incremental.
type RenewalTracking struct {
	ID            string
	CompanyID     string
	Name          string // consecutivo legible, ej. RT-2026-00012
	CustomerName  string
	RenewalStage  string
	Currency      string
	ExchangeRate  decimal.Decimal // moneda del documento -> moneda base de la empresa
	NetTotal      decimal.Decimal
	NetTotalBase  decimal.Decimal
	LicenseStart  *time.Time
	LicenseEnd    *time.Time
	DaysRemaining *int // nil mientras falte alguna fecha
	DocStatus     int
	Items         []*RenewalTrackingItem
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsSubmitted indica si el documento ya fue enviado.
func (r *RenewalTracking) IsSubmitted() bool { return r.DocStatus == DocStatusSubmitted }

// RenewalTrackingItem línea de ítem de una renovación.
type RenewalTrackingItem struct {
	ID          string
	RenewalID   string
	Idx         int // posición 1..n dentro del documento
	ItemCode    string
	ItemName    string
	Description string
	Brand       string
	ItemGroup   string
	UOM         string
	Qty         decimal.Decimal
	Rate        decimal.Decimal
	Amount      decimal.Decimal
	BaseRate    decimal.Decimal
	BaseAmount  decimal.Decimal
}
