package entity

import "time"

// Company representa una organización/tenant del sistema (multi-tenant).
// DefaultCurrency es la moneda contable (moneda base) a la que se convierten los montos.
type Company struct {
	ID              string
	Name            string
	TaxID           string
	DefaultCurrency string // código ISO 4217, ej. GHS, XOF
	Address         string
	Phone           string
	Email           string
	Status          string // active, suspended, inactive
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
