package order_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/autopartes-api/internal/domain"
	"github.com/jhoicas/autopartes-api/internal/domain/entity"
	"github.com/jhoicas/autopartes-api/internal/domain/order"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Totales
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeTotals_SumaLineasMenosDescuento(t *testing.T) {
	lines := []order.LineAmount{
		{Quantity: 3, UnitPrice: dec("10.50")},
		{Quantity: 2, UnitPrice: dec("4.25")},
	}
	totals, err := order.ComputeTotals(lines, dec("5"), dec("6.16"))
	require.NoError(t, err)

	assert.Equal(t, "40.00", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "35.00", totals.Total.StringFixed(2), "total = subtotal - descuento")
	assert.Equal(t, "41.16", totals.GrandTotal.StringFixed(2), "total con impuesto")
}

func TestComputeTotals_RedondeoMitadHaciaArriba(t *testing.T) {
	totals, err := order.ComputeTotals([]order.LineAmount{{Quantity: 1, UnitPrice: dec("0.125")}}, decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, "0.13", totals.Total.StringFixed(2))

	totals, err = order.ComputeTotals([]order.LineAmount{{Quantity: 3, UnitPrice: dec("3.335")}}, decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, "10.01", totals.Total.StringFixed(2), "10.005 -> 10.01")
}

func TestComputeTotals_Validaciones(t *testing.T) {
	ok := []order.LineAmount{{Quantity: 1, UnitPrice: dec("10")}}

	_, err := order.ComputeTotals(nil, decimal.Zero, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas")

	_, err = order.ComputeTotals([]order.LineAmount{{Quantity: 0, UnitPrice: dec("1")}}, decimal.Zero, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = order.ComputeTotals([]order.LineAmount{{Quantity: 1, UnitPrice: dec("-1")}}, decimal.Zero, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = order.ComputeTotals(ok, dec("-1"), decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount, "descuento negativo")

	_, err = order.ComputeTotals(ok, dec("10.01"), decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount, "descuento mayor al subtotal")

	_, err = order.ComputeTotals(ok, decimal.Zero, dec("-0.5"))
	assert.ErrorIs(t, err, domain.ErrInvalidAmount, "impuesto negativo")
}

func TestPriceInBase_SinDivisaNoGuardaSnapshot(t *testing.T) {
	base := &entity.Currency{ID: "ves", Code: "VES", Rate: entity.BaseRate(), Active: true}
	priced, err := order.PriceInBase([]order.LineAmount{{Quantity: 2, UnitPrice: dec("5")}}, decimal.Zero, decimal.Zero, nil, base)
	require.NoError(t, err)
	assert.Nil(t, priced.Snapshot)
	assert.Equal(t, "10.00", priced.Totals.Total.StringFixed(2))

	priced, err = order.PriceInBase([]order.LineAmount{{Quantity: 2, UnitPrice: dec("5")}}, decimal.Zero, decimal.Zero, base, base)
	require.NoError(t, err)
	assert.Nil(t, priced.Snapshot, "la divisa principal no genera snapshot")
}

func TestPriceInBase_GuardaAmbosTotales(t *testing.T) {
	base := &entity.Currency{ID: "ves", Code: "VES", Rate: entity.BaseRate(), Active: true}
	rate, err := entity.PeggedRate(dec("0.004"))
	require.NoError(t, err)
	usd := &entity.Currency{ID: "usd", Code: "USD", Rate: rate, Active: true}

	priced, err := order.PriceInBase([]order.LineAmount{{Quantity: 2, UnitPrice: dec("10")}}, dec("1"), decimal.Zero, usd, base)
	require.NoError(t, err)

	require.NotNil(t, priced.Snapshot)
	assert.Equal(t, "USD", priced.Snapshot.CurrencyCode)
	assert.Equal(t, "19.00", priced.Snapshot.OriginalTotal.StringFixed(2), "total en la divisa de la orden")
	assert.Equal(t, "250.00", priced.Snapshot.AppliedRate.StringFixed(2))
	assert.Equal(t, "2500.00", priced.Lines[0].UnitPrice.StringFixed(2), "precio de línea en la divisa principal")
	assert.Equal(t, "4750.00", priced.Totals.Total.StringFixed(2), "total autoritativo en la divisa principal")
}

// ──────────────────────────────────────────────────────────────────────────────
// Máquina de estados de compras
// ──────────────────────────────────────────────────────────────────────────────

func TestPurchaseTransition_Tabla(t *testing.T) {
	cases := []struct {
		from, to entity.PurchaseStatus
		effect   order.PurchaseEffect
		ok       bool
	}{
		{entity.PurchasePending, entity.PurchaseCompleted, order.PurchaseReceive, true},
		{entity.PurchasePending, entity.PurchaseCancelled, order.PurchaseNoEffect, true},
		{entity.PurchaseCompleted, entity.PurchasePending, order.PurchaseReverseReceipt, true},
		{entity.PurchaseCompleted, entity.PurchaseCancelled, order.PurchaseReverseReceipt, true},
		{entity.PurchaseCancelled, entity.PurchaseCompleted, order.PurchaseReceive, true},
		{entity.PurchaseCancelled, entity.PurchasePending, order.PurchaseNoEffect, true},
		{entity.PurchaseCompleted, entity.PurchaseCompleted, order.PurchaseNoEffect, false},
		{entity.PurchasePending, entity.PurchaseStatus("recibida"), order.PurchaseNoEffect, false},
	}
	for _, tc := range cases {
		effect, err := order.PurchaseTransition(tc.from, tc.to)
		if tc.ok {
			require.NoError(t, err, "%s -> %s", tc.from, tc.to)
			assert.Equal(t, tc.effect, effect, "%s -> %s", tc.from, tc.to)
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInvalidStateTransition, "%s -> %s", tc.from, tc.to)
		var te *domain.TransitionError
		assert.True(t, errors.As(err, &te))
	}
}

func TestPurchaseCompletion_SoloDesdePendiente(t *testing.T) {
	effect, err := order.PurchaseCompletion(entity.PurchasePending)
	require.NoError(t, err)
	assert.Equal(t, order.PurchaseReceive, effect)

	_, err = order.PurchaseCompletion(entity.PurchaseCancelled)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	_, err = order.PurchaseCompletion(entity.PurchaseCompleted)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestPurchaseDeletable(t *testing.T) {
	assert.NoError(t, order.PurchaseDeletable(entity.PurchasePending))
	assert.NoError(t, order.PurchaseDeletable(entity.PurchaseCancelled))
	assert.ErrorIs(t, order.PurchaseDeletable(entity.PurchaseCompleted), domain.ErrInvalidStateTransition)
}

// ──────────────────────────────────────────────────────────────────────────────
// Máquina de estados de ventas
// ──────────────────────────────────────────────────────────────────────────────

func TestSaleTransition_Tabla(t *testing.T) {
	cases := []struct {
		from, to entity.SaleStatus
		effect   order.SaleEffect
		err      error
	}{
		{entity.SalePending, entity.SaleCompleted, order.SaleNoEffect, nil},
		{entity.SalePending, entity.SaleVoided, order.SaleRestock, nil},
		{entity.SaleCompleted, entity.SaleVoided, order.SaleRestock, nil},
		{entity.SaleCompleted, entity.SaleReturned, order.SaleRestock, nil},
		{entity.SalePending, entity.SaleReturned, order.SaleNoEffect, domain.ErrInvalidStateTransition},
		{entity.SaleCompleted, entity.SalePending, order.SaleNoEffect, domain.ErrInvalidStateTransition},
		{entity.SaleCompleted, entity.SaleCompleted, order.SaleNoEffect, domain.ErrInvalidStateTransition},
		{entity.SaleVoided, entity.SaleReturned, order.SaleNoEffect, domain.ErrAlreadyReversed},
		{entity.SaleReturned, entity.SaleVoided, order.SaleNoEffect, domain.ErrAlreadyReversed},
		{entity.SaleVoided, entity.SaleVoided, order.SaleNoEffect, domain.ErrAlreadyReversed},
		{entity.SaleVoided, entity.SaleCompleted, order.SaleNoEffect, domain.ErrInvalidStateTransition},
	}
	for _, tc := range cases {
		effect, err := order.SaleTransition(tc.from, tc.to)
		if tc.err == nil {
			require.NoError(t, err, "%s -> %s", tc.from, tc.to)
			assert.Equal(t, tc.effect, effect, "%s -> %s", tc.from, tc.to)
			continue
		}
		assert.ErrorIs(t, err, tc.err, "%s -> %s", tc.from, tc.to)
	}
}

func TestSaleOperaciones_Guardas(t *testing.T) {
	assert.NoError(t, order.SaleCompletion(entity.SalePending))
	assert.ErrorIs(t, order.SaleCompletion(entity.SaleCompleted), domain.ErrInvalidStateTransition)

	assert.NoError(t, order.SaleVoid(entity.SalePending))
	assert.NoError(t, order.SaleVoid(entity.SaleCompleted))
	assert.ErrorIs(t, order.SaleVoid(entity.SaleVoided), domain.ErrAlreadyReversed)
	assert.ErrorIs(t, order.SaleVoid(entity.SaleReturned), domain.ErrAlreadyReversed)

	assert.NoError(t, order.SaleReturn(entity.SaleCompleted))
	assert.ErrorIs(t, order.SaleReturn(entity.SalePending), domain.ErrInvalidStateTransition)
	assert.ErrorIs(t, order.SaleReturn(entity.SaleReturned), domain.ErrAlreadyReversed)

	assert.NoError(t, order.SaleInitial(entity.SalePending))
	assert.NoError(t, order.SaleInitial(entity.SaleCompleted))
	assert.ErrorIs(t, order.SaleInitial(entity.SaleVoided), domain.ErrInvalidStateTransition)
}
