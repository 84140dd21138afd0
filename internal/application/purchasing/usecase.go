package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/autopartes-api/internal/application/currency"
	"github.com/jhoicas/autopartes-api/internal/application/inventory"
	"github.com/jhoicas/autopartes-api/internal/application/ports"
	"github.com/jhoicas/autopartes-api/internal/domain"
	"github.com/jhoicas/autopartes-api/internal/domain/entity"
	domaininv "github.com/jhoicas/autopartes-api/internal/domain/inventory"
	"github.com/jhoicas/autopartes-api/internal/domain/order"
	"github.com/jhoicas/autopartes-api/internal/domain/repository"
	"github.com/jhoicas/autopartes-api/pkg/logger"
)

// LineInput línea de una compra nueva. UnitPrice en la divisa de la orden.
type LineInput struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// CreateInput datos para registrar una compra.
type CreateInput struct {
	SupplierID   string
	OrderDate    time.Time
	Status       entity.PurchaseStatus // vacío = pendiente
	CurrencyCode string                // vacío = divisa principal
	Lines        []LineInput
}

// UseCase máquina de estados de compras: toda transición pasa por PurchaseTransition y sus
// efectos de stock (recepción y reversión) se aplican aquí, dentro de una única transacción.
type UseCase struct {
	txRunner     ports.TxRunner
	ledger       *inventory.StockLedger
	purchaseRepo repository.PurchaseRepository
	log          *logger.Logger
	now          func() time.Time
}

// NewUseCase construye el caso de uso. purchaseRepo se usa para lecturas fuera de tx.
func NewUseCase(txRunner ports.TxRunner, ledger *inventory.StockLedger, purchaseRepo repository.PurchaseRepository, log *logger.Logger) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		ledger:       ledger,
		purchaseRepo: purchaseRepo,
		log:          logger.OrNop(log),
		now:          time.Now,
	}
}

// Create registra la compra y sus líneas. Si se crea como completada, la recepción
// (costo, entradas de stock) ocurre en la misma transacción.
func (uc *UseCase) Create(ctx context.Context, actorID string, in CreateInput) (*entity.PurchaseOrder, error) {
	status := in.Status
	if status == "" {
		status = entity.PurchasePending
	}
	effect, err := order.PurchaseInitial(status)
	if err != nil {
		return nil, err
	}
	if in.SupplierID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	amounts := make([]order.LineAmount, len(in.Lines))
	for i, l := range in.Lines {
		if l.ProductID == "" {
			return nil, domain.ErrInvalidInput
		}
		amounts[i] = order.LineAmount{Quantity: l.Quantity, UnitPrice: l.UnitPrice}
	}
	// Validación de montos antes de abrir la transacción.
	if _, err := order.ComputeTotals(amounts, decimal.Zero, decimal.Zero); err != nil {
		return nil, err
	}

	now := uc.now()
	orderDate := in.OrderDate
	if orderDate.IsZero() {
		orderDate = now
	}

	var po *entity.PurchaseOrder
	var movements int
	err = uc.txRunner.Run(ctx, func(store ports.Store) error {
		supplier, err := store.Suppliers.GetByID(ctx, in.SupplierID)
		if err != nil {
			return err
		}
		if supplier == nil {
			return domain.ErrReferenceNotFound
		}
		for _, l := range in.Lines {
			p, err := store.Products.GetByID(ctx, l.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return domain.ErrProductNotFound
			}
		}
		orderCur, base, err := currency.ForOrder(ctx, store.Currencies, in.CurrencyCode)
		if err != nil {
			return err
		}
		priced, err := order.PriceInBase(amounts, decimal.Zero, decimal.Zero, orderCur, base)
		if err != nil {
			return err
		}

		po = &entity.PurchaseOrder{
			ID:         uuid.New().String(),
			SupplierID: in.SupplierID,
			OrderDate:  orderDate,
			Status:     entity.PurchasePending,
			Total:      priced.Totals.Total,
			Currency:   priced.Snapshot,
			CreatedBy:  actorID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		po.Lines = make([]entity.PurchaseLine, len(in.Lines))
		for i, l := range in.Lines {
			po.Lines[i] = entity.PurchaseLine{
				ID:         uuid.New().String(),
				PurchaseID: po.ID,
				ProductID:  l.ProductID,
				Quantity:   l.Quantity,
				UnitPrice:  priced.Lines[i].UnitPrice,
				Subtotal:   priced.Lines[i].Subtotal(),
			}
		}
		if err := store.Purchases.Create(ctx, po); err != nil {
			return err
		}
		if err := store.Purchases.CreateLines(ctx, po.Lines); err != nil {
			return err
		}
		movements, err = uc.apply(ctx, store, po, effect, status, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("purchase_id", po.ID).
		Str("from", "nueva").
		Str("to", string(po.Status)).
		Int("movements", movements).
		Str("actor_id", actorID).
		Msg("compra registrada")
	return po, nil
}

// Complete marca como completada una compra pendiente: actualiza costos y da entrada al stock.
func (uc *UseCase) Complete(ctx context.Context, actorID, id string) (*entity.PurchaseOrder, error) {
	return uc.transition(ctx, actorID, id, entity.PurchaseCompleted, func(from entity.PurchaseStatus) (order.PurchaseEffect, error) {
		return order.PurchaseCompletion(from)
	})
}

// SetState transición genérica (correcciones). Salir de completada revierte la recepción si el stock
// lo permite; entrar a completada equivale a Complete.
func (uc *UseCase) SetState(ctx context.Context, actorID, id string, to entity.PurchaseStatus) (*entity.PurchaseOrder, error) {
	return uc.transition(ctx, actorID, id, to, func(from entity.PurchaseStatus) (order.PurchaseEffect, error) {
		return order.PurchaseTransition(from, to)
	})
}

func (uc *UseCase) transition(
	ctx context.Context,
	actorID, id string,
	to entity.PurchaseStatus,
	decide func(from entity.PurchaseStatus) (order.PurchaseEffect, error),
) (*entity.PurchaseOrder, error) {
	var (
		po        *entity.PurchaseOrder
		from      entity.PurchaseStatus
		movements int
	)
	err := uc.txRunner.Run(ctx, func(store ports.Store) error {
		var err error
		po, err = store.Purchases.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		from = po.Status
		effect, err := decide(from)
		if err != nil {
			return err
		}
		po.Lines, err = store.Purchases.ListLines(ctx, id)
		if err != nil {
			return err
		}
		movements, err = uc.apply(ctx, store, po, effect, to, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("purchase_id", po.ID).
		Str("from", string(from)).
		Str("to", string(po.Status)).
		Int("movements", movements).
		Str("actor_id", actorID).
		Msg("estado de compra actualizado")
	return po, nil
}

// apply ejecuta el efecto de la transición y persiste el nuevo estado. Devuelve los movimientos creados.
func (uc *UseCase) apply(ctx context.Context, store ports.Store, po *entity.PurchaseOrder, effect order.PurchaseEffect, to entity.PurchaseStatus, actorID string) (int, error) {
	var (
		n   int
		err error
	)
	switch effect {
	case order.PurchaseReceive:
		n, err = uc.receive(ctx, store, po, actorID)
	case order.PurchaseReverseReceipt:
		n, err = uc.reverseReceipt(ctx, store, po, actorID)
	}
	if err != nil {
		return 0, err
	}
	now := uc.now()
	if po.Status != to {
		if err := store.Purchases.UpdateStatus(ctx, po.ID, to, now); err != nil {
			return 0, err
		}
	}
	po.Status = to
	po.UpdatedAt = now
	return n, nil
}

// receive por cada línea: precio de compra = precio de la línea (la última compra gana), costo promedio,
// vínculo proveedor-producto y movimiento de entrada.
func (uc *UseCase) receive(ctx context.Context, store ports.Store, po *entity.PurchaseOrder, actorID string) (int, error) {
	if _, err := inventory.LockProducts(ctx, store, productIDs(po.Lines)); err != nil {
		return 0, err
	}
	reason := fmt.Sprintf("Compra #%s", po.ID)
	for _, l := range po.Lines {
		p, err := store.Products.GetForUpdate(ctx, l.ProductID)
		if err != nil {
			return 0, err
		}
		avg := domaininv.AverageCostAfterReceipt(p.StockOnHand, p.AverageCost, l.Quantity, l.UnitPrice)
		if err := store.Products.UpdatePurchaseCost(ctx, p.ID, l.UnitPrice, avg); err != nil {
			return 0, err
		}
		if err := store.Products.LinkSupplier(ctx, p.ID, po.SupplierID); err != nil {
			return 0, err
		}
		if _, err := uc.ledger.PostMovementInTx(ctx, store, inventory.MovementInput{
			ProductID:   l.ProductID,
			Kind:        entity.MovementInflow,
			Quantity:    l.Quantity,
			Reason:      reason,
			Source:      entity.SourcePurchase,
			ReferenceID: &po.ID,
			ActorID:     actorID,
		}); err != nil {
			return 0, err
		}
	}
	return len(po.Lines), nil
}

// reverseReceipt verifica que todo el stock recibido siga disponible y registra las salidas.
// El costo de compra no se revierte.
func (uc *UseCase) reverseReceipt(ctx context.Context, store ports.Store, po *entity.PurchaseOrder, actorID string) (int, error) {
	locked, err := inventory.LockProducts(ctx, store, productIDs(po.Lines))
	if err != nil {
		return 0, err
	}
	required := make(map[string]int, len(po.Lines))
	for _, l := range po.Lines {
		required[l.ProductID] += l.Quantity
	}
	if err := inventory.CheckAvailability(locked, required); err != nil {
		return 0, err
	}
	reason := fmt.Sprintf("Reversión Compra #%s", po.ID)
	for _, l := range po.Lines {
		if _, err := uc.ledger.PostMovementInTx(ctx, store, inventory.MovementInput{
			ProductID:   l.ProductID,
			Kind:        entity.MovementOutflow,
			Quantity:    l.Quantity,
			Reason:      reason,
			Source:      entity.SourcePurchaseReversal,
			ReferenceID: &po.ID,
			ActorID:     actorID,
		}); err != nil {
			return 0, err
		}
	}
	return len(po.Lines), nil
}

// Delete elimina una compra pendiente o cancelada (primero sus líneas). Una compra completada
// debe revertirse con SetState antes.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	err := uc.txRunner.Run(ctx, func(store ports.Store) error {
		po, err := store.Purchases.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := order.PurchaseDeletable(po.Status); err != nil {
			return err
		}
		if err := store.Purchases.DeleteLines(ctx, id); err != nil {
			return err
		}
		return store.Purchases.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("purchase_id", id).Msg("compra eliminada")
	return nil
}

// Get devuelve la compra con sus líneas.
func (uc *UseCase) Get(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	var (
		po    *entity.PurchaseOrder
		lines []entity.PurchaseLine
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		po, err = uc.purchaseRepo.GetByID(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		lines, err = uc.purchaseRepo.ListLines(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrOrderNotFound
	}
	po.Lines = lines
	return po, nil
}

// List lista compras con filtros y paginación.
func (uc *UseCase) List(ctx context.Context, filter repository.PurchaseFilter) ([]*entity.PurchaseOrder, error) {
	return uc.purchaseRepo.List(ctx, filter)
}

func productIDs(lines []entity.PurchaseLine) []string {
	ids := make([]string, len(lines))
	for i, l := range lines {
		ids[i] = l.ProductID
	}
	return ids
}
