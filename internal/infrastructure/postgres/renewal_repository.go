package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/renewal-tracking-api/internal/domain/entity"
	"github.com/jhoicas/renewal-tracking-api/internal/domain/repository"
)

var _ repository.RenewalRepository = (*RenewalRepo)(nil)

const renewalColumns = `id, company_id, name, customer_name, renewal_stage, currency, exchange_rate,
	net_total, net_total_base, license_start, license_end, days_remaining, docstatus,
	created_by, created_at, updated_at`

const renewalItemColumns = `id, renewal_id, idx, item_code, item_name, description, brand, item_group,
	uom, qty, rate, amount, base_rate, base_amount`

// RenewalRepo persistencia de renewal_trackings y renewal_tracking_items (pool o tx).
type RenewalRepo struct {
	q Querier
}

// NewRenewalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRenewalRepository(q Querier) *RenewalRepo {
	return &RenewalRepo{q: q}
}

func scanRenewal(row rowScanner) (*entity.RenewalTracking, error) {
	var d entity.RenewalTracking
	var createdBy *string
	if err := row.Scan(
		&d.ID, &d.CompanyID, &d.Name, &d.CustomerName, &d.RenewalStage, &d.Currency, &d.ExchangeRate,
		&d.NetTotal, &d.NetTotalBase, &d.LicenseStart, &d.LicenseEnd, &d.DaysRemaining, &d.DocStatus,
		&createdBy, &d.CreatedAt, &d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if createdBy != nil {
		d.CreatedBy = *createdBy
	}
	return &d, nil
}

// Create persiste cabecera e ítems. Usar dentro de una tx para que sea atómico.
func (r *RenewalRepo) Create(ctx context.Context, d *entity.RenewalTracking) error {
	query := `INSERT INTO renewal_trackings (` + renewalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.CompanyID, d.Name, d.CustomerName, d.RenewalStage, d.Currency, d.ExchangeRate,
		d.NetTotal, d.NetTotalBase, d.LicenseStart, d.LicenseEnd, d.DaysRemaining, d.DocStatus,
		nullIfEmpty(d.CreatedBy), d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("renewal name %s already exists: %w", d.Name, err)
		}
		return fmt.Errorf("insert renewal: %w", err)
	}
	return r.insertItems(ctx, d.ID, d.Items)
}

// Update actualiza la cabecera, incluidos los campos derivados.
func (r *RenewalRepo) Update(ctx context.Context, d *entity.RenewalTracking) error {
	query := `
		UPDATE renewal_trackings
		   SET customer_name = $2, renewal_stage = $3, currency = $4, exchange_rate = $5,
		       net_total = $6, net_total_base = $7, license_start = $8, license_end = $9,
		       days_remaining = $10, docstatus = $11, updated_at = $12
		 WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.CustomerName, d.RenewalStage, d.Currency, d.ExchangeRate,
		d.NetTotal, d.NetTotalBase, d.LicenseStart, d.LicenseEnd,
		d.DaysRemaining, d.DocStatus, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update renewal: %w", err)
	}
	return nil
}

// ReplaceItems borra las líneas actuales e inserta las recibidas.
func (r *RenewalRepo) ReplaceItems(ctx context.Context, renewalID string, items []*entity.RenewalTrackingItem) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM renewal_tracking_items WHERE renewal_id = $1`, renewalID); err != nil {
		return fmt.Errorf("delete renewal items: %w", err)
	}
	return r.insertItems(ctx, renewalID, items)
}

func (r *RenewalRepo) insertItems(ctx context.Context, renewalID string, items []*entity.RenewalTrackingItem) error {
	query := `INSERT INTO renewal_tracking_items (` + renewalItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	for _, it := range items {
		_, err := r.q.Exec(ctx, query,
			it.ID, renewalID, it.Idx, it.ItemCode, it.ItemName, it.Description, it.Brand, it.ItemGroup,
			it.UOM, it.Qty, it.Rate, it.Amount, it.BaseRate, it.BaseAmount,
		)
		if err != nil {
			return fmt.Errorf("insert renewal item %d: %w", it.Idx, err)
		}
	}
	return nil
}

// GetByID cabecera con ítems ordenados por idx; nil, nil si no existe.
func (r *RenewalRepo) GetByID(ctx context.Context, id string) (*entity.RenewalTracking, error) {
	d, err := scanRenewal(r.q.QueryRow(ctx, `SELECT `+renewalColumns+` FROM renewal_trackings WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get renewal: %w", err)
	}

	rows, err := r.q.Query(ctx,
		`SELECT `+renewalItemColumns+` FROM renewal_tracking_items WHERE renewal_id = $1 ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("list renewal items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.RenewalTrackingItem
		if err := rows.Scan(
			&it.ID, &it.RenewalID, &it.Idx, &it.ItemCode, &it.ItemName, &it.Description, &it.Brand, &it.ItemGroup,
			&it.UOM, &it.Qty, &it.Rate, &it.Amount, &it.BaseRate, &it.BaseAmount,
		); err != nil {
			return nil, fmt.Errorf("scan renewal item: %w", err)
		}
		d.Items = append(d.Items, &it)
	}
	return d, rows.Err()
}

// List cabeceras de la empresa (sin ítems), las que vencen antes primero.
func (r *RenewalRepo) List(ctx context.Context, companyID string, f repository.RenewalFilter, limit, offset int) ([]*entity.RenewalTracking, int, error) {
	where := []string{"company_id = $1"}
	args := []any{companyID}
	if f.RenewalStage != "" {
		args = append(args, f.RenewalStage)
		where = append(where, fmt.Sprintf("renewal_stage = $%d", len(args)))
	}
	if f.DocStatus != nil {
		args = append(args, *f.DocStatus)
		where = append(where, fmt.Sprintf("docstatus = $%d", len(args)))
	}
	if f.ExpiringWithin > 0 {
		args = append(args, f.ExpiringWithin)
		where = append(where, fmt.Sprintf("days_remaining IS NOT NULL AND days_remaining <= $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM renewal_trackings WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count renewals: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM renewal_trackings WHERE %s
		ORDER BY days_remaining ASC NULLS LAST, created_at DESC
		LIMIT $%d OFFSET $%d`, renewalColumns, cond, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list renewals: %w", err)
	}
	defer rows.Close()

	var list []*entity.RenewalTracking
	for rows.Next() {
		d, err := scanRenewal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan renewal: %w", err)
		}
		list = append(list, d)
	}
	return list, total, rows.Err()
}

// Delete elimina la renovación; los ítems se borran en cascada.
func (r *RenewalRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM renewal_trackings WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete renewal: %w", err)
	}
	return nil
}

// ListWithLicenseDates cabeceras no canceladas con ambas fechas de licencia.
func (r *RenewalRepo) ListWithLicenseDates(ctx context.Context) ([]*entity.RenewalTracking, error) {
	query := `SELECT ` + renewalColumns + ` FROM renewal_trackings
		WHERE license_start IS NOT NULL AND license_end IS NOT NULL AND docstatus <> 2`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list renewals with license dates: %w", err)
	}
	defer rows.Close()

	var list []*entity.RenewalTracking
	for rows.Next() {
		d, err := scanRenewal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan renewal: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// UpdateDaysRemaining solo toca days_remaining (también en documentos enviados).
func (r *RenewalRepo) UpdateDaysRemaining(ctx context.Context, id string, days *int) error {
	if _, err := r.q.Exec(ctx, `UPDATE renewal_trackings SET days_remaining = $2 WHERE id = $1`, id, days); err != nil {
		return fmt.Errorf("update days remaining: %w", err)
	}
	return nil
}

// NextName reserva el siguiente consecutivo RT-<año>-<n> de la empresa.
func (r *RenewalRepo) NextName(ctx context.Context, companyID string, year int) (string, error) {
	query := `
		INSERT INTO renewal_name_series (company_id, year, last_value) VALUES ($1, $2, 1)
		ON CONFLICT (company_id, year)
		DO UPDATE SET last_value = renewal_name_series.last_value + 1
		RETURNING last_value`
	var n int
	if err := r.q.QueryRow(ctx, query, companyID, year).Scan(&n); err != nil {
		return "", fmt.Errorf("next renewal name: %w", err)
	}
	return fmt.Sprintf("RT-%d-%05d", year, n), nil
}
