package repository

import (
	"context"

	"github.com/jhoicas/renewal-tracking-api/internal/domain/entity"
)

// CurrencyExchangeRepository puerto para las tasas de cambio registradas.
type CurrencyExchangeRepository interface {
	Create(ctx context.Context, ce *entity.CurrencyExchange) error
	// GetLatest devuelve la tasa más reciente del par (nil, nil si no existe).
	GetLatest(ctx context.Context, fromCurrency, toCurrency string) (*entity.CurrencyExchange, error)
	List(ctx context.Context, limit, offset int) ([]*entity.CurrencyExchange, error)
}
