package sales

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/autopartes-api/internal/application/currency"
	"github.com/jhoicas/autopartes-api/internal/application/inventory"
	"github.com/jhoicas/autopartes-api/internal/application/ports"
	"github.com/jhoicas/autopartes-api/internal/domain"
	"github.com/jhoicas/autopartes-api/internal/domain/entity"
	"github.com/jhoicas/autopartes-api/internal/domain/order"
	"github.com/jhoicas/autopartes-api/internal/domain/repository"
	"github.com/jhoicas/autopartes-api/pkg/logger"
)

const (
	defaultReturnReason = "Sin motivo especificado"
	fullReturnReason    = "Devolución total"
)

// LineInput línea de una venta nueva. UnitPrice en la divisa de la orden.
type LineInput struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// CreateInput datos para registrar una venta.
type CreateInput struct {
	CustomerID   string
	SaleDate     time.Time
	Status       entity.SaleStatus // vacío = completada; pendiente = apartado
	Discount     decimal.Decimal
	Tax          decimal.Decimal
	CurrencyCode string
	Lines        []LineInput
}

// ReturnLine producto y cantidad devuelta.
type ReturnLine struct {
	ProductID string
	Quantity  int
}

// ReturnInput devolución parcial o total de una venta completada.
type ReturnInput struct {
	Lines  []ReturnLine
	Reason string
}

// UseCase máquina de estados de ventas. Crear descuenta stock; anular y devolver lo reponen.
// Cada operación corre en una sola transacción con los productos bloqueados en orden de ID.
type UseCase struct {
	txRunner ports.TxRunner
	ledger   *inventory.StockLedger
	saleRepo repository.SaleRepository
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso. saleRepo se usa para lecturas fuera de tx.
func NewUseCase(txRunner ports.TxRunner, ledger *inventory.StockLedger, saleRepo repository.SaleRepository, log *logger.Logger) *UseCase {
	return &UseCase{
		txRunner: txRunner,
		ledger:   ledger,
		saleRepo: saleRepo,
		log:      logger.OrNop(log),
		now:      time.Now,
	}
}

// Create registra la venta: verifica stock de todas las líneas antes de escribir y luego descuenta.
func (uc *UseCase) Create(ctx context.Context, sellerID string, in CreateInput) (*entity.SalesOrder, error) {
	status := in.Status
	if status == "" {
		status = entity.SaleCompleted
	}
	if err := order.SaleInitial(status); err != nil {
		return nil, err
	}
	if in.CustomerID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	amounts := make([]order.LineAmount, len(in.Lines))
	required := make(map[string]int, len(in.Lines))
	ids := make([]string, len(in.Lines))
	for i, l := range in.Lines {
		if l.ProductID == "" {
			return nil, domain.ErrInvalidInput
		}
		amounts[i] = order.LineAmount{Quantity: l.Quantity, UnitPrice: l.UnitPrice}
		required[l.ProductID] += l.Quantity
		ids[i] = l.ProductID
	}
	if _, err := order.ComputeTotals(amounts, in.Discount, in.Tax); err != nil {
		return nil, err
	}

	now := uc.now()
	saleDate := in.SaleDate
	if saleDate.IsZero() {
		saleDate = now
	}

	var so *entity.SalesOrder
	err := uc.txRunner.Run(ctx, func(store ports.Store) error {
		customer, err := store.Customers.GetByID(ctx, in.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return domain.ErrReferenceNotFound
		}
		locked, err := inventory.LockProducts(ctx, store, ids)
		if err != nil {
			return err
		}
		if err := inventory.CheckAvailability(locked, required); err != nil {
			return err
		}
		orderCur, base, err := currency.ForOrder(ctx, store.Currencies, in.CurrencyCode)
		if err != nil {
			return err
		}
		priced, err := order.PriceInBase(amounts, in.Discount, in.Tax, orderCur, base)
		if err != nil {
			return err
		}

		so = &entity.SalesOrder{
			ID:         uuid.New().String(),
			CustomerID: in.CustomerID,
			SellerID:   sellerID,
			SaleDate:   saleDate,
			Status:     status,
			Discount:   priced.Totals.Discount,
			Tax:        priced.Totals.Tax,
			Total:      priced.Totals.Total,
			Currency:   priced.Snapshot,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		so.Lines = make([]entity.SalesLine, len(in.Lines))
		for i, l := range in.Lines {
			so.Lines[i] = entity.SalesLine{
				ID:        uuid.New().String(),
				SaleID:    so.ID,
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				UnitPrice: priced.Lines[i].UnitPrice,
				Subtotal:  priced.Lines[i].Subtotal(),
			}
		}
		if err := store.Sales.Create(ctx, so); err != nil {
			return err
		}
		if err := store.Sales.CreateLines(ctx, so.Lines); err != nil {
			return err
		}

		reason, source := fmt.Sprintf("Venta #%s", so.ID), entity.SourceSale
		if status == entity.SalePending {
			reason, source = fmt.Sprintf("Apartado #%s", so.ID), entity.SourceLayaway
		}
		for _, l := range so.Lines {
			if _, err := uc.ledger.PostMovementInTx(ctx, store, inventory.MovementInput{
				ProductID:   l.ProductID,
				Kind:        entity.MovementOutflow,
				Quantity:    l.Quantity,
				Reason:      reason,
				Source:      source,
				ReferenceID: &so.ID,
				ActorID:     sellerID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("sale_id", so.ID).
		Str("from", "nueva").
		Str("to", string(so.Status)).
		Int("movements", len(so.Lines)).
		Str("actor_id", sellerID).
		Msg("venta registrada")
	return so, nil
}

// Complete confirma un apartado. El stock ya se descontó al crearlo.
func (uc *UseCase) Complete(ctx context.Context, actorID, id string) (*entity.SalesOrder, error) {
	return uc.transition(ctx, actorID, id, entity.SaleCompleted, func(from entity.SaleStatus) (order.SaleEffect, error) {
		return order.SaleNoEffect, order.SaleCompletion(from)
	})
}

// Void anula la venta y repone lo vendido que no se haya devuelto ya.
func (uc *UseCase) Void(ctx context.Context, actorID, id string) (*entity.SalesOrder, error) {
	return uc.transition(ctx, actorID, id, entity.SaleVoided, func(from entity.SaleStatus) (order.SaleEffect, error) {
		if err := order.SaleVoid(from); err != nil {
			return order.SaleNoEffect, err
		}
		return order.SaleRestock, nil
	})
}

// SetState transición genérica. Devolver por esta vía equivale a una devolución total de lo pendiente.
func (uc *UseCase) SetState(ctx context.Context, actorID, id string, to entity.SaleStatus) (*entity.SalesOrder, error) {
	return uc.transition(ctx, actorID, id, to, func(from entity.SaleStatus) (order.SaleEffect, error) {
		return order.SaleTransition(from, to)
	})
}

func (uc *UseCase) transition(
	ctx context.Context,
	actorID, id string,
	to entity.SaleStatus,
	decide func(from entity.SaleStatus) (order.SaleEffect, error),
) (*entity.SalesOrder, error) {
	var (
		so        *entity.SalesOrder
		from      entity.SaleStatus
		movements int
	)
	err := uc.txRunner.Run(ctx, func(store ports.Store) error {
		var err error
		so, err = uc.loadForUpdate(ctx, store, id)
		if err != nil {
			return err
		}
		from = so.Status
		effect, err := decide(from)
		if err != nil {
			return err
		}
		if effect == order.SaleRestock {
			if err := uc.ensureNotReversed(ctx, store, so); err != nil {
				return err
			}
			movements, err = uc.restockRemaining(ctx, store, so, to, actorID)
			if err != nil {
				return err
			}
		}
		return uc.setStatus(ctx, store, so, to)
	})
	if err != nil {
		uc.warnIfReversed(err, id, to, actorID)
		return nil, err
	}
	uc.log.Info().
		Str("sale_id", so.ID).
		Str("from", string(from)).
		Str("to", string(so.Status)).
		Int("movements", movements).
		Str("actor_id", actorID).
		Msg("estado de venta actualizado")
	return so, nil
}

// ReturnItems registra una devolución (parcial o total) sobre una venta completada. Las cantidades
// se acumulan entre devoluciones; cuando se devuelve todo lo vendido la venta pasa a devuelta.
func (uc *UseCase) ReturnItems(ctx context.Context, actorID, id string, in ReturnInput) (*entity.SalesOrder, error) {
	requested, err := mergeReturnLines(in.Lines)
	if err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = defaultReturnReason
	}

	var (
		so   *entity.SalesOrder
		from entity.SaleStatus
	)
	err = uc.txRunner.Run(ctx, func(store ports.Store) error {
		var err error
		so, err = uc.loadForUpdate(ctx, store, id)
		if err != nil {
			return err
		}
		from = so.Status
		if err := order.SaleReturn(from); err != nil {
			return err
		}
		sold, returned := so.SoldByProduct(), so.ReturnedByProduct()
		for productID, qty := range requested {
			if returned[productID]+qty > sold[productID] {
				return domain.ErrInvalidQuantity
			}
		}
		if _, err := inventory.LockProducts(ctx, store, keys(requested)); err != nil {
			return err
		}
		if _, err := uc.recordReturn(ctx, store, so, requested, reason, actorID); err != nil {
			return err
		}
		if fullyReturned(so) {
			return uc.setStatus(ctx, store, so, entity.SaleReturned)
		}
		return nil
	})
	if err != nil {
		uc.warnIfReversed(err, id, entity.SaleReturned, actorID)
		return nil, err
	}
	uc.log.Info().
		Str("sale_id", so.ID).
		Str("from", string(from)).
		Str("to", string(so.Status)).
		Int("movements", len(requested)).
		Str("actor_id", actorID).
		Msg("devolución registrada")
	return so, nil
}

func (uc *UseCase) warnIfReversed(err error, id string, to entity.SaleStatus, actorID string) {
	if !errors.Is(err, domain.ErrAlreadyReversed) {
		return
	}
	uc.log.Warn().
		Str("sale_id", id).
		Str("to", string(to)).
		Str("actor_id", actorID).
		Msg("reversión rechazada: la venta ya fue revertida")
}

// loadForUpdate bloquea la venta y carga sus líneas y devoluciones.
func (uc *UseCase) loadForUpdate(ctx context.Context, store ports.Store, id string) (*entity.SalesOrder, error) {
	so, err := store.Sales.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if so.Lines, err = store.Sales.ListLines(ctx, id); err != nil {
		return nil, err
	}
	if so.Returns, err = store.Sales.ListReturns(ctx, id); err != nil {
		return nil, err
	}
	return so, nil
}

// ensureNotReversed comprueba en el libro que no exista ya una reposición que cubra toda la venta.
func (uc *UseCase) ensureNotReversed(ctx context.Context, store ports.Store, so *entity.SalesOrder) error {
	movs, err := store.Movements.ListByReference(ctx, so.ID, entity.SourceSaleVoid, entity.SourceSaleReturn)
	if err != nil {
		return err
	}
	restocked := 0
	for _, m := range movs {
		restocked += m.Delta
	}
	sold := 0
	for _, l := range so.Lines {
		sold += l.Quantity
	}
	if restocked >= sold {
		return domain.ErrAlreadyReversed
	}
	return nil
}

// restockRemaining repone lo vendido menos lo ya devuelto. Hacia devuelta además queda registrada
// la devolución de ese remanente.
func (uc *UseCase) restockRemaining(ctx context.Context, store ports.Store, so *entity.SalesOrder, to entity.SaleStatus, actorID string) (int, error) {
	sold, returned := so.SoldByProduct(), so.ReturnedByProduct()
	remaining := make(map[string]int, len(sold))
	for productID, qty := range sold {
		if left := qty - returned[productID]; left > 0 {
			remaining[productID] = left
		}
	}
	if len(remaining) == 0 {
		return 0, nil
	}
	if _, err := inventory.LockProducts(ctx, store, keys(remaining)); err != nil {
		return 0, err
	}
	if to == entity.SaleReturned {
		return uc.recordReturn(ctx, store, so, remaining, fullReturnReason, actorID)
	}

	reason := fmt.Sprintf("Anulación Venta #%s", so.ID)
	for _, productID := range keys(remaining) {
		if _, err := uc.ledger.PostMovementInTx(ctx, store, inventory.MovementInput{
			ProductID:   productID,
			Kind:        entity.MovementInflow,
			Quantity:    remaining[productID],
			Reason:      reason,
			Source:      entity.SourceSaleVoid,
			ReferenceID: &so.ID,
			ActorID:     actorID,
		}); err != nil {
			return 0, err
		}
	}
	return len(remaining), nil
}

// recordReturn registra las entradas de stock y el registro de devolución. qty ya validadas (> 0).
func (uc *UseCase) recordReturn(ctx context.Context, store ports.Store, so *entity.SalesOrder, qty map[string]int, reason, actorID string) (int, error) {
	ret := entity.SalesReturn{
		ID:        uuid.New().String(),
		SaleID:    so.ID,
		Reason:    reason,
		ActorID:   actorID,
		CreatedAt: uc.now(),
	}
	movReason := fmt.Sprintf("Devolución Venta #%s - %s", so.ID, reason)
	for _, productID := range keys(qty) {
		if _, err := uc.ledger.PostMovementInTx(ctx, store, inventory.MovementInput{
			ProductID:   productID,
			Kind:        entity.MovementInflow,
			Quantity:    qty[productID],
			Reason:      movReason,
			Source:      entity.SourceSaleReturn,
			ReferenceID: &so.ID,
			ActorID:     actorID,
		}); err != nil {
			return 0, err
		}
		ret.Lines = append(ret.Lines, entity.SalesReturnLine{
			ID:        uuid.New().String(),
			ReturnID:  ret.ID,
			ProductID: productID,
			Quantity:  qty[productID],
		})
	}
	if err := store.Sales.CreateReturn(ctx, &ret); err != nil {
		return 0, err
	}
	so.Returns = append(so.Returns, ret)
	return len(ret.Lines), nil
}

func (uc *UseCase) setStatus(ctx context.Context, store ports.Store, so *entity.SalesOrder, to entity.SaleStatus) error {
	now := uc.now()
	if err := store.Sales.UpdateStatus(ctx, so.ID, to, now); err != nil {
		return err
	}
	so.Status = to
	so.UpdatedAt = now
	return nil
}

// Get devuelve la venta con sus líneas y devoluciones.
func (uc *UseCase) Get(ctx context.Context, id string) (*entity.SalesOrder, error) {
	var (
		so      *entity.SalesOrder
		lines   []entity.SalesLine
		returns []entity.SalesReturn
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		so, err = uc.saleRepo.GetByID(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		lines, err = uc.saleRepo.ListLines(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		returns, err = uc.saleRepo.ListReturns(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if so == nil {
		return nil, domain.ErrOrderNotFound
	}
	so.Lines, so.Returns = lines, returns
	return so, nil
}

// List lista ventas con filtros y paginación.
func (uc *UseCase) List(ctx context.Context, filter repository.SaleFilter) ([]*entity.SalesOrder, error) {
	return uc.saleRepo.List(ctx, filter)
}

// mergeReturnLines suma líneas repetidas del mismo producto.
func mergeReturnLines(lines []ReturnLine) (map[string]int, error) {
	if len(lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	out := make(map[string]int, len(lines))
	for _, l := range lines {
		if l.ProductID == "" {
			return nil, domain.ErrInvalidInput
		}
		if l.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		out[l.ProductID] += l.Quantity
	}
	return out, nil
}

func fullyReturned(so *entity.SalesOrder) bool {
	sold, returned := 0, 0
	for _, q := range so.SoldByProduct() {
		sold += q
	}
	for _, q := range so.ReturnedByProduct() {
		returned += q
	}
	return returned >= sold
}

func keys(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
