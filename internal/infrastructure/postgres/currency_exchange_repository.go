package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/renewal-tracking-api/internal/domain/entity"
	"github.com/jhoicas/renewal-tracking-api/internal/domain/repository"
)

var _ repository.CurrencyExchangeRepository = (*CurrencyExchangeRepo)(nil)

// CurrencyExchangeRepo tasas de cambio registradas (tabla currency_exchanges).
type CurrencyExchangeRepo struct {
	q Querier
}

// NewCurrencyExchangeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCurrencyExchangeRepository(q Querier) *CurrencyExchangeRepo {
	return &CurrencyExchangeRepo{q: q}
}

// Create registra una tasa. Un par puede tener varias tasas con distinta fecha.
func (r *CurrencyExchangeRepo) Create(ctx context.Context, ce *entity.CurrencyExchange) error {
	query := `
		INSERT INTO currency_exchanges (id, from_currency, to_currency, exchange_rate, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, ce.ID, ce.FromCurrency, ce.ToCurrency, ce.Rate, ce.Date, ce.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert currency exchange: %w", err)
	}
	return nil
}

// GetLatest tasa del par con la fecha más reciente; ante empate gana la registrada de último.
func (r *CurrencyExchangeRepo) GetLatest(ctx context.Context, from, to string) (*entity.CurrencyExchange, error) {
	query := `
		SELECT id, from_currency, to_currency, exchange_rate, date, created_at
		  FROM currency_exchanges
		 WHERE from_currency = $1 AND to_currency = $2
		 ORDER BY date DESC, created_at DESC
		 LIMIT 1`
	var ce entity.CurrencyExchange
	err := r.q.QueryRow(ctx, query, from, to).Scan(
		&ce.ID, &ce.FromCurrency, &ce.ToCurrency, &ce.Rate, &ce.Date, &ce.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest exchange rate: %w", err)
	}
	return &ce, nil
}

// List tasas registradas, más recientes primero.
func (r *CurrencyExchangeRepo) List(ctx context.Context, limit, offset int) ([]*entity.CurrencyExchange, error) {
	query := `
		SELECT id, from_currency, to_currency, exchange_rate, date, created_at
		  FROM currency_exchanges
		 ORDER BY date DESC, created_at DESC
		 LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list currency exchanges: %w", err)
	}
	defer rows.Close()

	var list []*entity.CurrencyExchange
	for rows.Next() {
		var ce entity.CurrencyExchange
		if err := rows.Scan(&ce.ID, &ce.FromCurrency, &ce.ToCurrency, &ce.Rate, &ce.Date, &ce.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan currency exchange: %w", err)
		}
		list = append(list, &ce)
	}
	return list, rows.Err()
}
