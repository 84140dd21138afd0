package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/autopartes-api/internal/domain/entity"
	"github.com/jhoicas/autopartes-api/internal/domain/repository"
	"github.com/jhoicas/autopartes-api/internal/testutil/memstore"
)

// countingReader cuenta las lecturas que llegan a la base.
type countingReader struct {
	repository.CurrencyReader
	calls int
}

func (r *countingReader) GetByID(ctx context.Context, id string) (*entity.Currency, error) {
	r.calls++
	return r.CurrencyReader.GetByID(ctx, id)
}

func (r *countingReader) GetByCode(ctx context.Context, code string) (*entity.Currency, error) {
	r.calls++
	return r.CurrencyReader.GetByCode(ctx, code)
}

func (r *countingReader) GetBase(ctx context.Context) (*entity.Currency, error) {
	r.calls++
	return r.CurrencyReader.GetBase(ctx)
}

func (r *countingReader) List(ctx context.Context, activeOnly bool) ([]*entity.Currency, error) {
	r.calls++
	return r.CurrencyReader.List(ctx, activeOnly)
}

func setup(t *testing.T) (*CurrencyCache, *countingReader, *memstore.DB, *miniredis.Miniredis) {
	t.Helper()
	db := memstore.New()
	db.SeedCurrencies(true)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	reader := &countingReader{CurrencyReader: db.Store().Currencies}
	return NewCurrencyCache(client, reader, time.Minute, nil), reader, db, mr
}

func TestCurrencyCache_ReadThrough(t *testing.T) {
	ctx := context.Background()
	c, reader, _, _ := setup(t)

	first, err := c.GetByCode(ctx, "usd")
	require.NoError(t, err)
	second, err := c.GetByCode(ctx, "USD")
	require.NoError(t, err)

	assert.Equal(t, 1, reader.calls)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.ExchangeRate().Equal(decimal.RequireFromString("0.00435")))
	assert.False(t, second.IsBase())
}

func TestCurrencyCache_BaseKeepsTag(t *testing.T) {
	ctx := context.Background()
	c, reader, _, _ := setup(t)

	_, err := c.GetBase(ctx)
	require.NoError(t, err)
	base, err := c.GetBase(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, reader.calls)
	assert.True(t, base.IsBase())
	assert.Equal(t, memstore.CurrencyVES, base.ID)
}

func TestCurrencyCache_InvalidateReloads(t *testing.T) {
	ctx := context.Background()
	c, reader, db, _ := setup(t)

	_, err := c.GetByID(ctx, memstore.CurrencyUSD)
	require.NoError(t, err)

	usd := db.Currency(memstore.CurrencyUSD)
	require.NoError(t, usd.UpdateRate(decimal.RequireFromString("0.005"), time.Now()))
	require.NoError(t, db.Store().Currencies.Update(ctx, usd))

	stale, err := c.GetByID(ctx, memstore.CurrencyUSD)
	require.NoError(t, err)
	assert.True(t, stale.ExchangeRate().Equal(decimal.RequireFromString("0.00435")))

	require.NoError(t, c.Invalidate(ctx))
	fresh, err := c.GetByID(ctx, memstore.CurrencyUSD)
	require.NoError(t, err)
	assert.True(t, fresh.ExchangeRate().Equal(decimal.RequireFromString("0.005")))
	assert.Equal(t, 2, reader.calls)
}

func TestCurrencyCache_MissIsNotCached(t *testing.T) {
	ctx := context.Background()
	c, reader, _, _ := setup(t)

	for i := 0; i < 2; i++ {
		cur, err := c.GetByCode(ctx, "GBP")
		require.NoError(t, err)
		assert.Nil(t, cur)
	}
	assert.Equal(t, 2, reader.calls)
}

func TestCurrencyCache_ListSeparatesActive(t *testing.T) {
	ctx := context.Background()
	c, reader, _, _ := setup(t)

	all, err := c.List(ctx, false)
	require.NoError(t, err)
	active, err := c.List(ctx, true)
	require.NoError(t, err)
	_, err = c.List(ctx, true)
	require.NoError(t, err)

	assert.Len(t, all, 4)
	assert.Len(t, active, 3)
	assert.Equal(t, 2, reader.calls)
}

func TestCurrencyCache_RedisDownFallsBack(t *testing.T) {
	ctx := context.Background()
	c, reader, _, mr := setup(t)
	mr.Close()

	cur, err := c.GetByCode(ctx, "COP")
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.True(t, cur.ExchangeRate().Equal(decimal.RequireFromString("16.67")))
	assert.Equal(t, 1, reader.calls)

	assert.Error(t, c.Invalidate(ctx))
}
