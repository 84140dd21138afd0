package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/autopartes-api/internal/application/dto"
	"github.com/jhoicas/autopartes-api/internal/application/inventory"
	"github.com/jhoicas/autopartes-api/internal/domain"
	"github.com/jhoicas/autopartes-api/internal/domain/entity"
	"github.com/jhoicas/autopartes-api/internal/testutil/memstore"
)

const (
	productID = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	actorID   = "99999999-9999-9999-9999-999999999999"
)

func newLedger(stock int) (*inventory.StockLedger, *memstore.DB) {
	db := memstore.New()
	db.SeedProduct(productID, "FIL-001", stock)
	store := db.Store()
	return inventory.NewStockLedger(db, store.Products, store.Movements, nil), db
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestPostMovement_EntradaSalidaAjuste(t *testing.T) {
	ledger, db := newLedger(10)
	ctx := context.Background()

	mov, err := ledger.PostMovement(ctx, inventory.MovementInput{ProductID: productID, Kind: entity.MovementInflow, Quantity: 5, ActorID: actorID})
	require.NoError(t, err)
	assert.Equal(t, 10, mov.StockBefore)
	assert.Equal(t, 15, mov.StockAfter)
	assert.Equal(t, 5, mov.Delta)
	assert.Equal(t, entity.SourceManual, mov.Source)

	mov, err = ledger.PostMovement(ctx, inventory.MovementInput{ProductID: productID, Kind: entity.MovementOutflow, Quantity: 15, ActorID: actorID})
	require.NoError(t, err)
	assert.Equal(t, 0, mov.StockAfter, "se puede vender hasta cero")

	mov, err = ledger.PostMovement(ctx, inventory.MovementInput{ProductID: productID, Kind: entity.MovementAdjustment, Quantity: 7, ActorID: actorID})
	require.NoError(t, err)
	assert.Equal(t, 7, mov.Delta, "el ajuste fija el stock absoluto")

	stock, err := ledger.CurrentStock(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 7, stock)
	assert.Equal(t, 7, db.LedgerSum(productID))
}

func TestPostMovement_SalidaMayorAlStock(t *testing.T) {
	ledger, db := newLedger(3)
	movements := db.MovementCount()

	_, err := ledger.PostMovement(context.Background(), inventory.MovementInput{ProductID: productID, Kind: entity.MovementOutflow, Quantity: 4})
	require.Error(t, err)
	var ise *domain.InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, "FIL-001", ise.Code)
	assert.Equal(t, 3, ise.Available)
	assert.Equal(t, movements, db.MovementCount())
	assert.Equal(t, 3, db.Product(productID).StockOnHand)
}

func TestPostMovement_Validaciones(t *testing.T) {
	ledger, _ := newLedger(3)
	ctx := context.Background()

	_, err := ledger.PostMovement(ctx, inventory.MovementInput{ProductID: productID, Kind: entity.MovementInflow, Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = ledger.PostMovement(ctx, inventory.MovementInput{ProductID: productID, Kind: entity.MovementAdjustment, Quantity: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = ledger.PostMovement(ctx, inventory.MovementInput{ProductID: productID, Kind: entity.MovementKind("traslado"), Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = ledger.PostMovement(ctx, inventory.MovementInput{ProductID: "00000000-0000-0000-0000-00000000ffff", Kind: entity.MovementInflow, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestPostMovement_ConcurrenteNoPierdeActualizaciones(t *testing.T) {
	ledger, db := newLedger(0)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.PostMovement(ctx, inventory.MovementInput{ProductID: productID, Kind: entity.MovementInflow, Quantity: 2})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 40, db.Product(productID).StockOnHand)
	assert.Equal(t, 40, db.LedgerSum(productID))
}

func TestPostMovement_SalidasConcurrentesNoSobrevenden(t *testing.T) {
	ledger, db := newLedger(10)
	ctx := context.Background()

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		ok, rejected int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.PostMovement(ctx, inventory.MovementInput{ProductID: productID, Kind: entity.MovementOutflow, Quantity: 1, ActorID: actorID})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, 10, rejected)
	assert.Equal(t, 0, db.Product(productID).StockOnHand)

	res, err := ledger.Reconcile(ctx, productID)
	require.NoError(t, err)
	assert.True(t, res.Consistent)
	assert.Equal(t, 0, res.LedgerSum)
}

func TestRegisterMovementFromRequest_MotivoPorDefecto(t *testing.T) {
	ledger, _ := newLedger(10)
	ctx := context.Background()

	out, err := ledger.RegisterMovementFromRequest(ctx, actorID, dto.RegisterMovementRequest{ProductID: productID, Kind: "ajuste", Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, "Ajuste de inventario", out.Reason)
	assert.Equal(t, -6, out.Delta)

	_, err = ledger.RegisterMovementFromRequest(ctx, "", dto.RegisterMovementRequest{ProductID: productID, Kind: "entrada", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// ──────────────────────────────────────────────────────────────────────────────
// Conciliación y bloqueo
// ──────────────────────────────────────────────────────────────────────────────

func TestReconcile(t *testing.T) {
	ledger, db := newLedger(10)
	ctx := context.Background()

	res, err := ledger.Reconcile(ctx, productID)
	require.NoError(t, err)
	assert.True(t, res.Consistent)

	// Escritura directa que salta el libro.
	require.NoError(t, db.Store().Products.UpdateStock(ctx, productID, 12))
	res, err = ledger.Reconcile(ctx, productID)
	require.NoError(t, err)
	assert.False(t, res.Consistent)
	assert.Equal(t, 12, res.StockOnHand)
	assert.Equal(t, 10, res.LedgerSum)
}

func TestCheckAvailability_PrimerFaltanteEnOrden(t *testing.T) {
	products := map[string]*entity.Product{
		"a": {ID: "a", Code: "A", StockOnHand: 1},
		"b": {ID: "b", Code: "B", StockOnHand: 1},
	}
	err := inventory.CheckAvailability(products, map[string]int{"b": 2, "a": 2})
	var ise *domain.InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, "a", ise.ProductID)

	assert.NoError(t, inventory.CheckAvailability(products, map[string]int{"a": 1, "b": 1}))
	assert.ErrorIs(t, inventory.CheckAvailability(products, map[string]int{"z": 1}), domain.ErrProductNotFound)
}
