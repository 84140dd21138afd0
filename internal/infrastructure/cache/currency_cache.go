package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/autopartes-api/internal/application/ports"
	"github.com/jhoicas/autopartes-api/internal/domain/entity"
	"github.com/jhoicas/autopartes-api/internal/domain/repository"
	"github.com/jhoicas/autopartes-api/pkg/logger"
)

var _ ports.CurrencyCache = (*CurrencyCache)(nil)

const versionKey = "divisas:version"

// NewClient crea el cliente Redis y verifica la conexión.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: ping: %w", err)
	}
	return client, nil
}

// CurrencyCache lectura de divisas con caché en Redis (read-through).
// Las claves llevan la versión actual; Invalidate incrementa la versión y las entradas viejas expiran por TTL.
// Si Redis falla se lee directo de la base: la caché nunca bloquea una conversión.
type CurrencyCache struct {
	client *redis.Client
	next   repository.CurrencyReader
	ttl    time.Duration
	log    *logger.Logger
}

// NewCurrencyCache envuelve next con Redis.
func NewCurrencyCache(client *redis.Client, next repository.CurrencyReader, ttl time.Duration, log *logger.Logger) *CurrencyCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CurrencyCache{client: client, next: next, ttl: ttl, log: logger.OrNop(log)}
}

// cachedCurrency forma serializada; la tasa viaja como texto para no perder precisión.
type cachedCurrency struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Symbol    string    `json:"symbol"`
	Rate      string    `json:"rate"`
	IsBase    bool      `json:"is_base"`
	Active    bool      `json:"active"`
	UpdatedAt time.Time `json:"updated_at"`
}

func fromEntity(c *entity.Currency) cachedCurrency {
	return cachedCurrency{
		ID:        c.ID,
		Code:      c.Code,
		Name:      c.Name,
		Symbol:    c.Symbol,
		Rate:      c.ExchangeRate().String(),
		IsBase:    c.IsBase(),
		Active:    c.Active,
		UpdatedAt: c.UpdatedAt,
	}
}

func (cc cachedCurrency) toEntity() (*entity.Currency, error) {
	c := &entity.Currency{
		ID:        cc.ID,
		Code:      cc.Code,
		Name:      cc.Name,
		Symbol:    cc.Symbol,
		Active:    cc.Active,
		UpdatedAt: cc.UpdatedAt,
	}
	if cc.IsBase {
		c.Rate = entity.BaseRate()
		return c, nil
	}
	value, err := decimal.NewFromString(cc.Rate)
	if err != nil {
		return nil, err
	}
	if c.Rate, err = entity.PeggedRate(value); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *CurrencyCache) GetByID(ctx context.Context, id string) (*entity.Currency, error) {
	return c.one(ctx, "id:"+id, func(ctx context.Context) (*entity.Currency, error) {
		return c.next.GetByID(ctx, id)
	})
}

func (c *CurrencyCache) GetByCode(ctx context.Context, code string) (*entity.Currency, error) {
	code = entity.NormalizeCurrencyCode(code)
	return c.one(ctx, "code:"+code, func(ctx context.Context) (*entity.Currency, error) {
		return c.next.GetByCode(ctx, code)
	})
}

func (c *CurrencyCache) GetBase(ctx context.Context) (*entity.Currency, error) {
	return c.one(ctx, "base", c.next.GetBase)
}

func (c *CurrencyCache) List(ctx context.Context, activeOnly bool) ([]*entity.Currency, error) {
	part := "list:all"
	if activeOnly {
		part = "list:active"
	}
	key, ok := c.key(ctx, part)
	if ok {
		if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
			var cached []cachedCurrency
			if err := json.Unmarshal(raw, &cached); err == nil {
				if list, err := toEntities(cached); err == nil {
					return list, nil
				}
			}
		} else if !errors.Is(err, redis.Nil) {
			c.warn(err, key)
		}
	}
	list, err := c.next.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	if ok {
		cached := make([]cachedCurrency, 0, len(list))
		for _, cur := range list {
			cached = append(cached, fromEntity(cur))
		}
		c.store(ctx, key, cached)
	}
	return list, nil
}

// Invalidate descarta todas las entradas incrementando la versión.
func (c *CurrencyCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, versionKey).Err(); err != nil {
		return fmt.Errorf("cache: invalidar divisas: %w", err)
	}
	return nil
}

// one lee una divisa de la caché o del lector real. Los "no existe" no se cachean.
func (c *CurrencyCache) one(ctx context.Context, part string, load func(context.Context) (*entity.Currency, error)) (*entity.Currency, error) {
	key, ok := c.key(ctx, part)
	if ok {
		raw, err := c.client.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			var cached cachedCurrency
			if err := json.Unmarshal(raw, &cached); err == nil {
				if cur, err := cached.toEntity(); err == nil {
					return cur, nil
				}
			}
		case !errors.Is(err, redis.Nil):
			c.warn(err, key)
		}
	}
	cur, err := load(ctx)
	if err != nil || cur == nil {
		return cur, err
	}
	if ok {
		c.store(ctx, key, fromEntity(cur))
	}
	return cur, nil
}

// key arma la clave versionada. ok=false si Redis no responde.
func (c *CurrencyCache) key(ctx context.Context, part string) (string, bool) {
	ver, err := c.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		ver = 0
	} else if err != nil {
		c.warn(err, versionKey)
		return "", false
	}
	return strings.Join([]string{"divisas", fmt.Sprintf("v%d", ver), part}, ":"), true
}

func (c *CurrencyCache) store(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.warn(err, key)
	}
}

func (c *CurrencyCache) warn(err error, key string) {
	c.log.Warn().Err(err).Str("key", key).Msg("caché de divisas no disponible, leyendo de la base")
}

func toEntities(cached []cachedCurrency) ([]*entity.Currency, error) {
	out := make([]*entity.Currency, 0, len(cached))
	for _, cc := range cached {
		cur, err := cc.toEntity()
		if err != nil {
			return nil, err
		}
		out = append(out, cur)
	}
	return out, nil
}
