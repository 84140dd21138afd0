package sales_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/autopartes-api/internal/application/inventory"
	"github.com/jhoicas/autopartes-api/internal/application/sales"
	"github.com/jhoicas/autopartes-api/internal/domain"
	"github.com/jhoicas/autopartes-api/internal/domain/entity"
	"github.com/jhoicas/autopartes-api/internal/domain/repository"
	"github.com/jhoicas/autopartes-api/internal/testutil/memstore"
)

const (
	customerID = "33333333-3333-3333-3333-333333333333"
	productP1  = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	productP2  = "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"
	sellerID   = "99999999-9999-9999-9999-999999999999"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setup(t *testing.T) (*sales.UseCase, *memstore.DB) {
	t.Helper()
	db := memstore.New()
	db.SeedCurrencies(false)
	db.AddCustomer(&entity.Customer{ID: customerID, Name: "Taller Los Andes"})
	db.SeedProduct(productP1, "AMO-010", 10)
	db.SeedProduct(productP2, "PAS-020", 10)

	store := db.Store()
	ledger := inventory.NewStockLedger(db, store.Products, store.Movements, nil)
	return sales.NewUseCase(db, ledger, store.Sales, nil), db
}

func saleInput(lines ...sales.LineInput) sales.CreateInput {
	return sales.CreateInput{CustomerID: customerID, Lines: lines}
}

func line(productID string, qty int, price string) sales.LineInput {
	return sales.LineInput{ProductID: productID, Quantity: qty, UnitPrice: dec(price)}
}

func assertLedgerConsistent(t *testing.T, db *memstore.DB, ids ...string) {
	t.Helper()
	for _, id := range ids {
		assert.Equal(t, db.Product(id).StockOnHand, db.LedgerSum(id), "stock de %s debe igualar la suma del libro", id)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_DescuentaStockYCalculaTotales(t *testing.T) {
	uc, db := setup(t)

	in := saleInput(line(productP1, 3, "10.00"), line(productP2, 2, "4.50"))
	in.Discount = dec("4")
	in.Tax = dec("4.16")
	so, err := uc.Create(context.Background(), sellerID, in)
	require.NoError(t, err)

	assert.Equal(t, entity.SaleCompleted, so.Status)
	assert.Equal(t, "35.00", so.Total.StringFixed(2), "39.00 - 4.00")
	assert.Equal(t, "4.16", so.Tax.StringFixed(2))
	assert.Equal(t, 7, db.Product(productP1).StockOnHand)
	assert.Equal(t, 8, db.Product(productP2).StockOnHand)

	movs := db.Movements(productP1)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.SourceSale, movs[1].Source)
	assert.Equal(t, "Venta #"+so.ID, movs[1].Reason)
	assert.Equal(t, -3, movs[1].Delta)
	assertLedgerConsistent(t, db, productP1, productP2)
}

func TestCreate_StockInsuficienteNoPersisteNada(t *testing.T) {
	uc, db := setup(t)
	movements := db.MovementCount()

	_, err := uc.Create(context.Background(), sellerID, saleInput(line(productP1, 1, "10"), line(productP2, 12, "10")))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, productP2, ise.ProductID)
	assert.Equal(t, 10, ise.Available)
	assert.Equal(t, 12, ise.Requested)

	assert.Zero(t, db.SaleCount())
	assert.Zero(t, db.SaleLineCount())
	assert.Equal(t, movements, db.MovementCount())
	assert.Equal(t, 10, db.Product(productP1).StockOnHand)
}

func TestCreate_LineasRepetidasSeSumanParaVerificarStock(t *testing.T) {
	uc, db := setup(t)
	_, err := uc.Create(context.Background(), sellerID, saleInput(line(productP1, 6, "10"), line(productP1, 6, "10")))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 10, db.Product(productP1).StockOnHand)
}

func TestCreate_ApartadoYCompletar(t *testing.T) {
	uc, db := setup(t)
	ctx := context.Background()

	in := saleInput(line(productP1, 2, "10"))
	in.Status = entity.SalePending
	so, err := uc.Create(ctx, sellerID, in)
	require.NoError(t, err)
	assert.Equal(t, 8, db.Product(productP1).StockOnHand, "el apartado reserva stock")
	movs := db.Movements(productP1)
	assert.Equal(t, entity.SourceLayaway, movs[len(movs)-1].Source)
	assert.Equal(t, "Apartado #"+so.ID, movs[len(movs)-1].Reason)

	so, err = uc.Complete(ctx, sellerID, so.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleCompleted, so.Status)
	assert.Equal(t, 8, db.Product(productP1).StockOnHand)
	assert.Len(t, db.Movements(productP1), 2, "completar no mueve stock")

	_, err = uc.Complete(ctx, sellerID, so.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestCreate_Validaciones(t *testing.T) {
	uc, db := setup(t)
	ctx := context.Background()

	in := saleInput(line(productP1, 1, "10"))
	in.Discount = dec("10.01")
	_, err := uc.Create(ctx, sellerID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	in = saleInput(line(productP1, 1, "10"))
	in.CustomerID = "44444444-4444-4444-4444-444444444444"
	_, err = uc.Create(ctx, sellerID, in)
	assert.ErrorIs(t, err, domain.ErrReferenceNotFound)

	in = saleInput(line(productP1, 1, "10"))
	in.Status = entity.SaleReturned
	_, err = uc.Create(ctx, sellerID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	_, err = uc.Create(ctx, sellerID, saleInput(line("cccccccc-cccc-cccc-cccc-cccccccccccc", 1, "10")))
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	assert.Zero(t, db.SaleCount())
}

func TestCreate_EnDolares(t *testing.T) {
	uc, _ := setup(t)
	in := saleInput(line(productP1, 1, "1"))
	in.CurrencyCode = "USD"

	so, err := uc.Create(context.Background(), sellerID, in)
	require.NoError(t, err)
	require.NotNil(t, so.Currency)
	assert.Equal(t, "1.00", so.Currency.OriginalTotal.StringFixed(2))
	assert.Equal(t, "229.89", so.Total.StringFixed(2))
}

// ──────────────────────────────────────────────────────────────────────────────
// Devoluciones
// ──────────────────────────────────────────────────────────────────────────────

func TestReturnItems_ParcialNoCambiaEstado(t *testing.T) {
	uc, db := setup(t)
	ctx := context.Background()

	so, err := uc.Create(ctx, sellerID, saleInput(line(productP1, 3, "10"), line(productP2, 2, "10")))
	require.NoError(t, err)

	so, err = uc.ReturnItems(ctx, sellerID, so.ID, sales.ReturnInput{Lines: []sales.ReturnLine{{ProductID: productP1, Quantity: 3}}})
	require.NoError(t, err)

	assert.Equal(t, entity.SaleCompleted, so.Status)
	assert.Equal(t, 10, db.Product(productP1).StockOnHand)
	assert.Equal(t, 8, db.Product(productP2).StockOnHand)

	require.Len(t, so.Returns, 1)
	assert.Equal(t, "Sin motivo especificado", so.Returns[0].Reason)
	movs := db.Movements(productP1)
	last := movs[len(movs)-1]
	assert.Equal(t, entity.SourceSaleReturn, last.Source)
	assert.Equal(t, "Devolución Venta #"+so.ID+" - Sin motivo especificado", last.Reason)

	for _, m := range append(db.Movements(productP1), db.Movements(productP2)...) {
		assert.NotZero(t, m.Quantity, "no se registran movimientos de cantidad cero")
	}
	assertLedgerConsistent(t, db, productP1, productP2)
}

func TestReturnItems_AcumuladoHastaDevolucionTotal(t *testing.T) {
	uc, db := setup(t)
	ctx := context.Background()

	so, err := uc.Create(ctx, sellerID, saleInput(line(productP1, 3, "10"), line(productP2, 2, "10")))
	require.NoError(t, err)

	_, err = uc.ReturnItems(ctx, sellerID, so.ID, sales.ReturnInput{
		Lines:  []sales.ReturnLine{{ProductID: productP1, Quantity: 1}, {ProductID: productP1, Quantity: 1}},
		Reason: "pieza equivocada",
	})
	require.NoError(t, err)
	assert.Equal(t, 9, db.Product(productP1).StockOnHand, "líneas repetidas se suman")

	_, err = uc.ReturnItems(ctx, sellerID, so.ID, sales.ReturnInput{Lines: []sales.ReturnLine{{ProductID: productP1, Quantity: 2}}})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "solo queda 1 unidad por devolver")

	so, err = uc.ReturnItems(ctx, sellerID, so.ID, sales.ReturnInput{Lines: []sales.ReturnLine{
		{ProductID: productP1, Quantity: 1},
		{ProductID: productP2, Quantity: 2},
	}})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleReturned, so.Status)
	assert.Len(t, so.Returns, 2)
	assert.Equal(t, 10, db.Product(productP1).StockOnHand)
	assert.Equal(t, 10, db.Product(productP2).StockOnHand)

	_, err = uc.ReturnItems(ctx, sellerID, so.ID, sales.ReturnInput{Lines: []sales.ReturnLine{{ProductID: productP1, Quantity: 1}}})
	assert.ErrorIs(t, err, domain.ErrAlreadyReversed)
	assertLedgerConsistent(t, db, productP1, productP2)
}

func TestReturnItems_Validaciones(t *testing.T) {
	uc, db := setup(t)
	ctx := context.Background()

	so, err := uc.Create(ctx, sellerID, saleInput(line(productP1, 3, "10")))
	require.NoError(t, err)
	movements := db.MovementCount()

	_, err = uc.ReturnItems(ctx, sellerID, so.ID, sales.ReturnInput{Lines: []sales.ReturnLine{{ProductID: productP2, Quantity: 1}}})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "producto fuera de la venta")

	_, err = uc.ReturnItems(ctx, sellerID, so.ID, sales.ReturnInput{Lines: []sales.ReturnLine{{ProductID: productP1, Quantity: 0}}})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = uc.ReturnItems(ctx, sellerID, so.ID, sales.ReturnInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	pending := saleInput(line(productP1, 1, "10"))
	pending.Status = entity.SalePending
	layaway, err := uc.Create(ctx, sellerID, pending)
	require.NoError(t, err)
	movements++
	_, err = uc.ReturnItems(ctx, sellerID, layaway.ID, sales.ReturnInput{Lines: []sales.ReturnLine{{ProductID: productP1, Quantity: 1}}})
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition, "un apartado no se devuelve")

	assert.Equal(t, movements, db.MovementCount())
}

// ──────────────────────────────────────────────────────────────────────────────
// Anulación y cambios de estado
// ──────────────────────────────────────────────────────────────────────────────

func TestVoid_RestauraStockYEsIdempotente(t *testing.T) {
	uc, db := setup(t)
	ctx := context.Background()

	so, err := uc.Create(ctx, sellerID, saleInput(line(productP1, 4, "10")))
	require.NoError(t, err)
	assert.Equal(t, 6, db.Product(productP1).StockOnHand)

	so, err = uc.Void(ctx, sellerID, so.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleVoided, so.Status)
	assert.Equal(t, 10, db.Product(productP1).StockOnHand)

	movs := db.Movements(productP1)
	require.Len(t, movs, 3, "stock inicial, venta y anulación")
	assert.Equal(t, entity.SourceSaleVoid, movs[2].Source)
	assert.Equal(t, "Anulación Venta #"+so.ID, movs[2].Reason)

	movements := db.MovementCount()
	_, err = uc.Void(ctx, sellerID, so.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyReversed)
	_, err = uc.SetState(ctx, sellerID, so.ID, entity.SaleReturned)
	assert.ErrorIs(t, err, domain.ErrAlreadyReversed)
	assert.Equal(t, movements, db.MovementCount())
	assert.Equal(t, 10, db.Product(productP1).StockOnHand)
	assertLedgerConsistent(t, db, productP1)
}

func TestVoid_TrasDevolucionParcialSoloReponeElRemanente(t *testing.T) {
	uc, db := setup(t)
	ctx := context.Background()

	so, err := uc.Create(ctx, sellerID, saleInput(line(productP1, 3, "10"), line(productP2, 2, "10")))
	require.NoError(t, err)
	_, err = uc.ReturnItems(ctx, sellerID, so.ID, sales.ReturnInput{Lines: []sales.ReturnLine{{ProductID: productP1, Quantity: 2}}})
	require.NoError(t, err)

	_, err = uc.Void(ctx, sellerID, so.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, db.Product(productP1).StockOnHand, "no se repone dos veces lo devuelto")
	assert.Equal(t, 10, db.Product(productP2).StockOnHand)
	assertLedgerConsistent(t, db, productP1, productP2)
}

func TestVoid_Apartado(t *testing.T) {
	uc, db := setup(t)
	ctx := context.Background()

	in := saleInput(line(productP1, 5, "10"))
	in.Status = entity.SalePending
	so, err := uc.Create(ctx, sellerID, in)
	require.NoError(t, err)

	_, err = uc.Void(ctx, sellerID, so.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, db.Product(productP1).StockOnHand)
}

func TestSetState_DevolucionTotalRegistraRemanente(t *testing.T) {
	uc, db := setup(t)
	ctx := context.Background()

	so, err := uc.Create(ctx, sellerID, saleInput(line(productP1, 3, "10"), line(productP2, 2, "10")))
	require.NoError(t, err)
	_, err = uc.ReturnItems(ctx, sellerID, so.ID, sales.ReturnInput{Lines: []sales.ReturnLine{{ProductID: productP1, Quantity: 1}}})
	require.NoError(t, err)

	so, err = uc.SetState(ctx, sellerID, so.ID, entity.SaleReturned)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleReturned, so.Status)
	require.Len(t, so.Returns, 2)
	assert.Equal(t, "Devolución total", so.Returns[1].Reason)
	assert.Equal(t, map[string]int{productP1: 3, productP2: 2}, so.ReturnedByProduct())
	assert.Equal(t, 10, db.Product(productP1).StockOnHand)
	assert.Equal(t, 10, db.Product(productP2).StockOnHand)

	_, err = uc.SetState(ctx, sellerID, so.ID, entity.SaleCompleted)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestSetState_TransicionesInvalidas(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()

	so, err := uc.Create(ctx, sellerID, saleInput(line(productP1, 1, "10")))
	require.NoError(t, err)

	_, err = uc.SetState(ctx, sellerID, so.ID, entity.SalePending)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	var te *domain.TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "completada", te.From)

	_, err = uc.Void(ctx, sellerID, "00000000-0000-0000-0000-00000000ffff")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestVoid_FalloDePersistenciaRevierte(t *testing.T) {
	uc, db := setup(t)
	ctx := context.Background()

	so, err := uc.Create(ctx, sellerID, saleInput(line(productP1, 2, "10"), line(productP2, 2, "10")))
	require.NoError(t, err)

	db.FailMovementAfter = 3 // venta (2) + primera reposición
	_, err = uc.Void(ctx, sellerID, so.ID)
	require.ErrorIs(t, err, domain.ErrPersistence)

	got, err := uc.Get(ctx, so.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleCompleted, got.Status)
	assert.Equal(t, 8, db.Product(productP1).StockOnHand)
	assert.Equal(t, 8, db.Product(productP2).StockOnHand)
	assertLedgerConsistent(t, db, productP1, productP2)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestGetYList(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()

	so, err := uc.Create(ctx, sellerID, saleInput(line(productP1, 3, "10"), line(productP2, 1, "5")))
	require.NoError(t, err)
	_, err = uc.ReturnItems(ctx, sellerID, so.ID, sales.ReturnInput{Lines: []sales.ReturnLine{{ProductID: productP2, Quantity: 1}}})
	require.NoError(t, err)

	pending := saleInput(line(productP1, 1, "10"))
	pending.Status = entity.SalePending
	_, err = uc.Create(ctx, sellerID, pending)
	require.NoError(t, err)

	got, err := uc.Get(ctx, so.ID)
	require.NoError(t, err)
	assert.Len(t, got.Lines, 2)
	assert.Len(t, got.Returns, 1)

	list, err := uc.List(ctx, repository.SaleFilter{Status: entity.SalePending, SellerID: sellerID})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = uc.List(ctx, repository.SaleFilter{CustomerID: customerID, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
