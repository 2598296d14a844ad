// Package cache adaptadores Redis: caché de monedas/tasas y bloqueo por documento.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/renewal-tracking-api/internal/application/renewal"
	"github.com/jhoicas/renewal-tracking-api/pkg/config"
	"github.com/jhoicas/renewal-tracking-api/pkg/logger"
	"github.com/jhoicas/renewal-tracking-api/pkg/money"
)

var (
	_ renewal.RateCache      = (*RateCache)(nil)
	_ renewal.DocumentLocker = (*Locker)(nil)
)

// NewClient conecta con Redis y verifica la conexión con PING.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// RateCache caché de moneda base por empresa y tasa por par.
// Los errores de Redis se registran y se tratan como "no encontrado": la base de datos manda.
type RateCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *logger.Logger
}

// NewRateCache ttl <= 0 usa 10 minutos.
func NewRateCache(rdb *redis.Client, ttl time.Duration, log *logger.Logger) *RateCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RateCache{rdb: rdb, ttl: ttl, log: log.WithComponent("rate-cache")}
}

func companyKey(companyID string) string { return "renewal:company_currency:" + companyID }
func rateKey(from, to string) string     { return "renewal:rate:" + from + ":" + to }

// GetCompanyCurrency moneda base en caché.
func (c *RateCache) GetCompanyCurrency(ctx context.Context, companyID string) (string, bool) {
	v, err := c.rdb.Get(ctx, companyKey(companyID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("company_id", companyID).Msg("leer moneda de caché")
		}
		return "", false
	}
	return v, true
}

// SetCompanyCurrency guarda la moneda base.
func (c *RateCache) SetCompanyCurrency(ctx context.Context, companyID, currency string) {
	if err := c.rdb.Set(ctx, companyKey(companyID), currency, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("company_id", companyID).Msg("guardar moneda en caché")
	}
}

// GetRate tasa del par en caché. Un valor corrupto se ignora.
func (c *RateCache) GetRate(ctx context.Context, from, to string) (decimal.Decimal, bool) {
	v, err := c.rdb.Get(ctx, rateKey(from, to)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("pair", from+"/"+to).Msg("leer tasa de caché")
		}
		return decimal.Zero, false
	}
	rate, err := decimal.NewFromString(v)
	if err != nil || !money.InRange(rate) || !rate.IsPositive() {
		return decimal.Zero, false
	}
	return rate, true
}

// SetRate guarda la tasa como texto para no perder precisión.
func (c *RateCache) SetRate(ctx context.Context, from, to string, rate decimal.Decimal) {
	if err := c.rdb.Set(ctx, rateKey(from, to), rate.String(), c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("pair", from+"/"+to).Msg("guardar tasa en caché")
	}
}

// Locker bloqueo distribuido por documento con redislock.
type Locker struct {
	client *redislock.Client
	retry  redislock.RetryStrategy
}

// NewLocker reintenta 5 veces con espera creciente (100 ms, 200 ms ... 500 ms) antes de rendirse.
func NewLocker(rdb *redis.Client) *Locker {
	return &Locker{
		client: redislock.New(rdb),
		retry:  redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 5),
	}
}

// Obtain toma el bloqueo key; renewal.ErrLockNotObtained si otro proceso lo tiene.
func (l *Locker) Obtain(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	lock, err := l.client.Obtain(ctx, key, ttl, &redislock.Options{RetryStrategy: l.retry})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, renewal.ErrLockNotObtained
	}
	if err != nil {
		return nil, fmt.Errorf("obtener bloqueo %s: %w", key, err)
	}
	return func() {
		// Contexto propio: el de la petición puede estar cancelado al liberar.
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = lock.Release(rctx)
	}, nil
}
