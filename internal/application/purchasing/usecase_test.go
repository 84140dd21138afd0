package purchasing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/autopartes-api/internal/application/inventory"
	"github.com/jhoicas/autopartes-api/internal/application/purchasing"
	"github.com/jhoicas/autopartes-api/internal/domain"
	"github.com/jhoicas/autopartes-api/internal/domain/entity"
	"github.com/jhoicas/autopartes-api/internal/domain/repository"
	"github.com/jhoicas/autopartes-api/internal/testutil/memstore"
)

const (
	supplierID = "11111111-1111-1111-1111-111111111111"
	productA   = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	productB   = "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"
	actorID    = "99999999-9999-9999-9999-999999999999"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setup(t *testing.T) (*purchasing.UseCase, *memstore.DB) {
	t.Helper()
	db := memstore.New()
	db.SeedCurrencies(false)
	db.AddSupplier(&entity.Supplier{ID: supplierID, Name: "Repuestos del Centro"})
	db.SeedProduct(productA, "FIL-001", 0)
	db.SeedProduct(productB, "BUJ-002", 4)

	store := db.Store()
	ledger := inventory.NewStockLedger(db, store.Products, store.Movements, nil)
	return purchasing.NewUseCase(db, ledger, store.Purchases, nil), db
}

func completedInput(lines ...purchasing.LineInput) purchasing.CreateInput {
	return purchasing.CreateInput{
		SupplierID: supplierID,
		OrderDate:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:     entity.PurchaseCompleted,
		Lines:      lines,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro y recepción
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_CompletadaRecibeStock(t *testing.T) {
	uc, db := setup(t)
	ctx := context.Background()

	po, err := uc.Create(ctx, actorID, completedInput(purchasing.LineInput{ProductID: productA, Quantity: 10, UnitPrice: dec("5.00")}))
	require.NoError(t, err)

	assert.Equal(t, entity.PurchaseCompleted, po.Status)
	assert.Equal(t, "50.00", po.Total.StringFixed(2))
	assert.Nil(t, po.Currency)

	p := db.Product(productA)
	assert.Equal(t, 10, p.StockOnHand)
	assert.Equal(t, "5.00", p.PurchaseCost.StringFixed(2))
	assert.Contains(t, p.SupplierIDs, supplierID, "vínculo proveedor-producto")

	movs := db.Movements(productA)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementInflow, movs[0].Kind)
	assert.Equal(t, 10, movs[0].Quantity)
	assert.Equal(t, entity.SourcePurchase, movs[0].Source)
	assert.Equal(t, "Compra #"+po.ID, movs[0].Reason)
	require.NotNil(t, movs[0].ReferenceID)
	assert.Equal(t, po.ID, *movs[0].ReferenceID)
}

func TestCreate_PendienteNoMueveStock(t *testing.T) {
	uc, db := setup(t)
	ctx := context.Background()

	po, err := uc.Create(ctx, actorID, purchasing.CreateInput{
		SupplierID: supplierID,
		Lines:      []purchasing.LineInput{{ProductID: productB, Quantity: 3, UnitPrice: dec("7")}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PurchasePending, po.Status)
	assert.Equal(t, 4, db.Product(productB).StockOnHand)
	assert.Len(t, db.Movements(productB), 1, "solo el stock inicial")

	po, err = uc.Complete(ctx, actorID, po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseCompleted, po.Status)
	assert.Equal(t, 7, db.Product(productB).StockOnHand)

	_, err = uc.Complete(ctx, actorID, po.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition, "no se recibe dos veces")
	assert.Equal(t, 7, db.Product(productB).StockOnHand)
}

func TestCreate_CostoPromedioPonderado(t *testing.T) {
	uc, db := setup(t)
	ctx := context.Background()

	// B: 4 unidades a 5.00 + 4 a 7.00 -> 6.00
	_, err := uc.Create(ctx, actorID, completedInput(purchasing.LineInput{ProductID: productB, Quantity: 4, UnitPrice: dec("7.00")}))
	require.NoError(t, err)

	p := db.Product(productB)
	assert.Equal(t, "6.0000", p.AverageCost.StringFixed(4))
	assert.Equal(t, "7.00", p.PurchaseCost.StringFixed(2), "la última compra fija el precio de compra")
}

func TestCreate_EnDivisaExtranjeraGuardaSnapshot(t *testing.T) {
	uc, db := setup(t)
	in := completedInput(purchasing.LineInput{ProductID: productA, Quantity: 2, UnitPrice: dec("10")})
	in.CurrencyCode = "USD"

	po, err := uc.Create(context.Background(), actorID, in)
	require.NoError(t, err)
	require.NotNil(t, po.Currency)
	assert.Equal(t, "USD", po.Currency.CurrencyCode)
	assert.Equal(t, "20.00", po.Currency.OriginalTotal.StringFixed(2))
	// 10 USD / 0.00435 = 2298.85 VES
	assert.Equal(t, "2298.85", po.Lines[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "2298.85", db.Product(productA).PurchaseCost.StringFixed(2))
}

func TestCreate_Validaciones(t *testing.T) {
	uc, db := setup(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, actorID, completedInput(purchasing.LineInput{ProductID: productA, Quantity: 0, UnitPrice: dec("1")}))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = uc.Create(ctx, actorID, completedInput(purchasing.LineInput{ProductID: productA, Quantity: 1, UnitPrice: dec("-1")}))
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = uc.Create(ctx, actorID, completedInput(purchasing.LineInput{ProductID: "cccccccc-cccc-cccc-cccc-cccccccccccc", Quantity: 1, UnitPrice: dec("1")}))
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	in := completedInput(purchasing.LineInput{ProductID: productA, Quantity: 1, UnitPrice: dec("1")})
	in.SupplierID = "22222222-2222-2222-2222-222222222222"
	_, err = uc.Create(ctx, actorID, in)
	assert.ErrorIs(t, err, domain.ErrReferenceNotFound)

	in = completedInput(purchasing.LineInput{ProductID: productA, Quantity: 1, UnitPrice: dec("1")})
	in.Status = entity.PurchaseCancelled
	_, err = uc.Create(ctx, actorID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	assert.Zero(t, db.PurchaseCount())
	assert.Equal(t, 0, db.Product(productA).StockOnHand)
}

func TestCreate_FalloDePersistenciaRevierteTodo(t *testing.T) {
	uc, db := setup(t)
	db.FailMovementAfter = 1
	before := db.MovementCount()

	_, err := uc.Create(context.Background(), actorID, completedInput(
		purchasing.LineInput{ProductID: productA, Quantity: 5, UnitPrice: dec("8")},
		purchasing.LineInput{ProductID: productB, Quantity: 5, UnitPrice: dec("8")},
	))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.True(t, errors.Is(err, memstore.ErrInjected))

	assert.Zero(t, db.PurchaseCount())
	assert.Equal(t, before, db.MovementCount())
	assert.Equal(t, 0, db.Product(productA).StockOnHand)
	assert.Equal(t, 4, db.Product(productB).StockOnHand)
	assert.Equal(t, "5.00", db.Product(productA).PurchaseCost.StringFixed(2), "costo sin cambios")
}

// ──────────────────────────────────────────────────────────────────────────────
// Reversión y cambios de estado
// ──────────────────────────────────────────────────────────────────────────────

func TestSetState_RevierteRecepcion(t *testing.T) {
	uc, db := setup(t)
	ctx := context.Background()

	po, err := uc.Create(ctx, actorID, completedInput(purchasing.LineInput{ProductID: productA, Quantity: 10, UnitPrice: dec("5")}))
	require.NoError(t, err)

	po, err = uc.SetState(ctx, actorID, po.ID, entity.PurchaseCancelled)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseCancelled, po.Status)
	assert.Equal(t, 0, db.Product(productA).StockOnHand)

	movs := db.Movements(productA)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementOutflow, movs[1].Kind)
	assert.Equal(t, entity.SourcePurchaseReversal, movs[1].Source)
	assert.Equal(t, "Reversión Compra #"+po.ID, movs[1].Reason)
	assert.Equal(t, 0, db.LedgerSum(productA))
}

func TestSetState_ReversionSinStockSuficiente(t *testing.T) {
	uc, db := setup(t)
	ctx := context.Background()
	store := db.Store()
	ledger := inventory.NewStockLedger(db, store.Products, store.Movements, nil)

	po, err := uc.Create(ctx, actorID, completedInput(purchasing.LineInput{ProductID: productA, Quantity: 10, UnitPrice: dec("5")}))
	require.NoError(t, err)

	// Se venden 4 de las 10 unidades recibidas.
	_, err = ledger.PostMovement(ctx, inventory.MovementInput{ProductID: productA, Kind: entity.MovementOutflow, Quantity: 4, Reason: "venta mostrador"})
	require.NoError(t, err)
	movements := db.MovementCount()

	_, err = uc.SetState(ctx, actorID, po.ID, entity.PurchasePending)
	require.Error(t, err)
	var ise *domain.InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, 6, ise.Available)
	assert.Equal(t, 10, ise.Requested)

	assert.Equal(t, movements, db.MovementCount(), "sin movimientos parciales")
	assert.Equal(t, 6, db.Product(productA).StockOnHand)
	got, err := uc.Get(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseCompleted, got.Status)
}

func TestSetState_TransicionesInvalidas(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()

	po, err := uc.Create(ctx, actorID, purchasing.CreateInput{
		SupplierID: supplierID,
		Lines:      []purchasing.LineInput{{ProductID: productA, Quantity: 1, UnitPrice: dec("1")}},
	})
	require.NoError(t, err)

	_, err = uc.SetState(ctx, actorID, po.ID, entity.PurchasePending)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	_, err = uc.SetState(ctx, actorID, po.ID, entity.PurchaseStatus("recibida"))
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	_, err = uc.SetState(ctx, actorID, "00000000-0000-0000-0000-00000000ffff", entity.PurchaseCompleted)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Borrado y consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestDelete_SoloPendienteOCancelada(t *testing.T) {
	uc, db := setup(t)
	ctx := context.Background()

	completed, err := uc.Create(ctx, actorID, completedInput(purchasing.LineInput{ProductID: productA, Quantity: 2, UnitPrice: dec("5")}))
	require.NoError(t, err)
	assert.ErrorIs(t, uc.Delete(ctx, completed.ID), domain.ErrInvalidStateTransition)

	_, err = uc.SetState(ctx, actorID, completed.ID, entity.PurchaseCancelled)
	require.NoError(t, err)
	require.NoError(t, uc.Delete(ctx, completed.ID))

	pending, err := uc.Create(ctx, actorID, purchasing.CreateInput{
		SupplierID: supplierID,
		Lines:      []purchasing.LineInput{{ProductID: productB, Quantity: 1, UnitPrice: dec("5")}},
	})
	require.NoError(t, err)
	require.NoError(t, uc.Delete(ctx, pending.ID))

	assert.Zero(t, db.PurchaseCount())
	_, err = uc.Get(ctx, pending.ID)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestGetYList(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()

	po, err := uc.Create(ctx, actorID, completedInput(
		purchasing.LineInput{ProductID: productA, Quantity: 2, UnitPrice: dec("5")},
		purchasing.LineInput{ProductID: productB, Quantity: 1, UnitPrice: dec("3")},
	))
	require.NoError(t, err)
	_, err = uc.Create(ctx, actorID, purchasing.CreateInput{
		SupplierID: supplierID,
		Lines:      []purchasing.LineInput{{ProductID: productB, Quantity: 1, UnitPrice: dec("5")}},
	})
	require.NoError(t, err)

	got, err := uc.Get(ctx, po.ID)
	require.NoError(t, err)
	assert.Len(t, got.Lines, 2)
	assert.Equal(t, "13.00", got.Total.StringFixed(2))

	list, err := uc.List(ctx, repository.PurchaseFilter{Status: entity.PurchaseCompleted})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, po.ID, list[0].ID)
}
