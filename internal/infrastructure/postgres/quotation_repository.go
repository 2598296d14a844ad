package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/renewal-tracking-api/internal/domain/entity"
	"github.com/jhoicas/renewal-tracking-api/internal/domain/repository"
)

var _ repository.QuotationRepository = (*QuotationRepo)(nil)

// QuotationRepo documentos derivados de renovaciones (quotations + quotation_items).
type QuotationRepo struct {
	q Querier
}

// NewQuotationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewQuotationRepository(q Querier) *QuotationRepo {
	return &QuotationRepo{q: q}
}

// Create persiste cabecera y líneas.
func (r *QuotationRepo) Create(ctx context.Context, q *entity.Quotation) error {
	query := `
		INSERT INTO quotations (id, company_id, kind, renewal_tracking_id, status, transaction_date, valid_till, currency, conversion_rate, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		q.ID, q.CompanyID, q.Kind, q.RenewalTrackingID, q.Status, q.TransactionDate, q.ValidTill,
		nullIfEmpty(q.Currency), q.ConversionRate, q.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert quotation: %w", err)
	}

	itemQuery := `
		INSERT INTO quotation_items (id, quotation_id, idx, item_code, item_name, description, brand, uom, qty, rate, amount, schedule_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	for _, it := range q.Items {
		if _, err := r.q.Exec(ctx, itemQuery,
			it.ID, q.ID, it.Idx, it.ItemCode, it.ItemName, it.Description, it.Brand, it.UOM,
			it.Qty, it.Rate, it.Amount, it.ScheduleDate,
		); err != nil {
			return fmt.Errorf("insert quotation item %d: %w", it.Idx, err)
		}
	}
	return nil
}

// ListByRenewal documentos derivados de una renovación con sus líneas, más recientes primero.
func (r *QuotationRepo) ListByRenewal(ctx context.Context, renewalID string) ([]*entity.Quotation, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, company_id, kind, renewal_tracking_id, status, transaction_date, valid_till,
		       COALESCE(currency, ''), conversion_rate, created_at
		  FROM quotations
		 WHERE renewal_tracking_id = $1
		 ORDER BY created_at DESC`, renewalID)
	if err != nil {
		return nil, fmt.Errorf("list quotations: %w", err)
	}
	var list []*entity.Quotation
	byID := map[string]*entity.Quotation{}
	for rows.Next() {
		var q entity.Quotation
		if err := rows.Scan(
			&q.ID, &q.CompanyID, &q.Kind, &q.RenewalTrackingID, &q.Status, &q.TransactionDate, &q.ValidTill,
			&q.Currency, &q.ConversionRate, &q.CreatedAt,
		); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan quotation: %w", err)
		}
		list = append(list, &q)
		byID[q.ID] = &q
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return list, nil
	}

	itemRows, err := r.q.Query(ctx, `
		SELECT i.id, i.quotation_id, i.idx, i.item_code, i.item_name, i.description, i.brand, i.uom,
		       i.qty, i.rate, i.amount, i.schedule_date
		  FROM quotation_items i
		  JOIN quotations q ON q.id = i.quotation_id
		 WHERE q.renewal_tracking_id = $1
		 ORDER BY i.quotation_id, i.idx`, renewalID)
	if err != nil {
		return nil, fmt.Errorf("list quotation items: %w", err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var it entity.QuotationItem
		if err := itemRows.Scan(
			&it.ID, &it.QuotationID, &it.Idx, &it.ItemCode, &it.ItemName, &it.Description, &it.Brand, &it.UOM,
			&it.Qty, &it.Rate, &it.Amount, &it.ScheduleDate,
		); err != nil {
			return nil, fmt.Errorf("scan quotation item: %w", err)
		}
		if q, ok := byID[it.QuotationID]; ok {
			q.Items = append(q.Items, &it)
		}
	}
	return list, itemRows.Err()
}
