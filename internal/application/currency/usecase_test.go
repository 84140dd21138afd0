package currency_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/autopartes-api/internal/application/currency"
	"github.com/jhoicas/autopartes-api/internal/application/dto"
	"github.com/jhoicas/autopartes-api/internal/domain"
	"github.com/jhoicas/autopartes-api/internal/domain/repository"
	"github.com/jhoicas/autopartes-api/internal/testutil/memstore"
)

// spyCache lector que cuenta las invalidaciones.
type spyCache struct {
	repository.CurrencyReader
	invalidations int
}

func (s *spyCache) Invalidate(context.Context) error {
	s.invalidations++
	return nil
}

func newUseCase(t *testing.T) (*currency.UseCase, *memstore.DB) {
	t.Helper()
	db := memstore.New()
	db.SeedCurrencies(true)
	return currency.NewUseCase(db, db.Store().Currencies, nil, nil), db
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestConvert_USDAPrincipal(t *testing.T) {
	uc, _ := newUseCase(t)
	out, err := uc.Convert(context.Background(), dto.ConvertRequest{Amount: dec("1"), From: "usd", To: "VES"})
	require.NoError(t, err)
	assert.Equal(t, "229.89", out.ConvertedAmount.StringFixed(2))
	assert.Equal(t, "USD", out.From)
	assert.Equal(t, "VES", out.To)
	assert.NotEmpty(t, out.Formatted)
}

func TestConvert_PorIDYErrores(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	out, err := uc.Convert(ctx, dto.ConvertRequest{Amount: dec("1000"), From: memstore.CurrencyVES, To: memstore.CurrencyUSD})
	require.NoError(t, err)
	assert.Equal(t, "4.35", out.ConvertedAmount.StringFixed(2))

	_, err = uc.Convert(ctx, dto.ConvertRequest{Amount: dec("-1"), From: "USD", To: "VES"})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = uc.Convert(ctx, dto.ConvertRequest{Amount: dec("1"), From: "GBP", To: "VES"})
	assert.ErrorIs(t, err, domain.ErrCurrencyNotFound)
}

func TestUpdateRate_PrincipalRechazada(t *testing.T) {
	uc, db := newUseCase(t)
	ctx := context.Background()

	_, err := uc.UpdateRate(ctx, memstore.CurrencyVES, dec("2"))
	assert.ErrorIs(t, err, domain.ErrInvalidCurrencyOperation)

	_, err = uc.UpdateRate(ctx, memstore.CurrencyUSD, dec("0"))
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	out, err := uc.UpdateRate(ctx, memstore.CurrencyUSD, dec("0.005"))
	require.NoError(t, err)
	assert.Equal(t, "0.005", out.ExchangeRate.String())
	assert.Equal(t, "0.005", db.Currency(memstore.CurrencyUSD).ExchangeRate().String())
}

func TestSetActive_NoDesactivaPrincipal(t *testing.T) {
	uc, db := newUseCase(t)
	ctx := context.Background()

	_, err := uc.SetActive(ctx, memstore.CurrencyVES, false)
	assert.ErrorIs(t, err, domain.ErrInvalidCurrencyOperation)
	assert.True(t, db.Currency(memstore.CurrencyVES).Active)

	out, err := uc.SetActive(ctx, memstore.CurrencyEUR, true)
	require.NoError(t, err)
	assert.True(t, out.Active)
}

func TestDesignateBase_ReexpresaTasas(t *testing.T) {
	uc, db := newUseCase(t)
	ctx := context.Background()

	_, err := uc.DesignateBase(ctx, memstore.CurrencyUSD)
	require.NoError(t, err)

	usd := db.Currency(memstore.CurrencyUSD)
	ves := db.Currency(memstore.CurrencyVES)
	assert.True(t, usd.IsBase())
	assert.False(t, ves.IsBase())
	assert.Equal(t, "1", usd.ExchangeRate().String())
	assert.Equal(t, "229.885", ves.ExchangeRate().Round(3).String())

	base, err := uc.GetBase(ctx)
	require.NoError(t, err)
	assert.Equal(t, "USD", base.Code)
}

func TestDesignateBase_DivisaInactiva(t *testing.T) {
	uc, db := newUseCase(t)
	_, err := uc.DesignateBase(context.Background(), memstore.CurrencyEUR)
	assert.ErrorIs(t, err, domain.ErrInvalidCurrencyOperation)
	assert.True(t, db.Currency(memstore.CurrencyVES).IsBase(), "sin cambios tras el error")
}

func TestForOrder(t *testing.T) {
	_, db := newUseCase(t)
	ctx := context.Background()
	reader := db.Store().Currencies

	cur, base, err := currency.ForOrder(ctx, reader, "")
	require.NoError(t, err)
	assert.Nil(t, cur)
	assert.Nil(t, base)

	cur, base, err = currency.ForOrder(ctx, reader, "usd")
	require.NoError(t, err)
	assert.Equal(t, "USD", cur.Code)
	assert.Equal(t, "VES", base.Code)

	_, _, err = currency.ForOrder(ctx, reader, "EUR")
	assert.ErrorIs(t, err, domain.ErrInvalidCurrencyOperation, "divisa inactiva")
}

func TestMutaciones_InvalidanCache(t *testing.T) {
	db := memstore.New()
	db.SeedCurrencies(false)
	cache := &spyCache{CurrencyReader: db.Store().Currencies}
	uc := currency.NewUseCase(db, db.Store().Currencies, cache, nil)
	ctx := context.Background()

	_, err := uc.UpdateRate(ctx, memstore.CurrencyCOP, dec("17"))
	require.NoError(t, err)
	_, err = uc.DesignateBase(ctx, memstore.CurrencyUSD)
	require.NoError(t, err)
	assert.Equal(t, 2, cache.invalidations)

	_, err = uc.UpdateRate(ctx, memstore.CurrencyUSD, dec("2"))
	assert.Error(t, err)
	assert.Equal(t, 2, cache.invalidations, "un cambio fallido no invalida")
}
