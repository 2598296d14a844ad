package repository

import (
	"context"

	"github.com/jhoicas/renewal-tracking-api/internal/domain/entity"
)

// RenewalFilter filtros del listado de renovaciones.
type RenewalFilter struct {
	RenewalStage string
	DocStatus    *int
	// ExpiringWithin > 0 limita a documentos con days_remaining <= ExpiringWithin (incluye vencidos).
	ExpiringWithin int
}

// RenewalRepository define el puerto de persistencia para RenewalTracking y sus ítems.
type RenewalRepository interface {
	// Create persiste cabecera e ítems.
	Create(ctx context.Context, r *entity.RenewalTracking) error
	// Update actualiza la cabecera (incluye totales y days_remaining).
	Update(ctx context.Context, r *entity.RenewalTracking) error
	// ReplaceItems borra las líneas actuales e inserta las recibidas.
	ReplaceItems(ctx context.Context, renewalID string, items []*entity.RenewalTrackingItem) error
	// GetByID devuelve la cabecera con sus ítems ordenados por idx (nil, nil si no existe).
	GetByID(ctx context.Context, id string) (*entity.RenewalTracking, error)
	// List devuelve cabeceras (sin ítems) y el total de registros que cumplen el filtro.
	List(ctx context.Context, companyID string, f RenewalFilter, limit, offset int) ([]*entity.RenewalTracking, int, error)
	Delete(ctx context.Context, id string) error
	// ListWithLicenseDates cabeceras no canceladas con ambas fechas de licencia (para refrescar días restantes).
	ListWithLicenseDates(ctx context.Context) ([]*entity.RenewalTracking, error)
	UpdateDaysRemaining(ctx context.Context, id string, days *int) error
	// NextName genera el siguiente consecutivo de la empresa para el año dado.
	NextName(ctx context.Context, companyID string, year int) (string, error)
}

// QuotationRepository puerto para los documentos derivados de una renovación.
type QuotationRepository interface {
	Create(ctx context.Context, q *entity.Quotation) error
	ListByRenewal(ctx context.Context, renewalID string) ([]*entity.Quotation, error)
}
