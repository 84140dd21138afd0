package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/autopartes-api/internal/application/ports"
	"github.com/jhoicas/autopartes-api/internal/domain"
	"github.com/jhoicas/autopartes-api/internal/domain/entity"
	"github.com/jhoicas/autopartes-api/internal/domain/repository"
	"github.com/jhoicas/autopartes-api/pkg/logger"
)

// MovementInput datos para registrar un movimiento en el libro de inventario.
type MovementInput struct {
	ProductID   string
	Kind        entity.MovementKind
	Quantity    int // para ajuste: stock absoluto resultante
	Reason      string
	Source      entity.MovementSource
	ReferenceID *string
	ActorID     string
}

// StockLedger es la única vía de escritura del stock de un producto: bloquea la fila del producto
// (SELECT FOR UPDATE), valida, crea el movimiento inmutable y actualiza stock_on_hand en la misma tx.
type StockLedger struct {
	txRunner    ports.TxRunner
	productRepo repository.ProductRepository
	movRepo     repository.StockMovementRepository
	log         *logger.Logger
	now         func() time.Time
}

// NewStockLedger construye el libro de inventario. productRepo y movRepo se usan para lecturas fuera de tx.
func NewStockLedger(
	txRunner ports.TxRunner,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	log *logger.Logger,
) *StockLedger {
	return &StockLedger{
		txRunner:    txRunner,
		productRepo: productRepo,
		movRepo:     movRepo,
		log:         logger.OrNop(log),
		now:         time.Now,
	}
}

// PostMovement registra un movimiento en su propia transacción.
func (l *StockLedger) PostMovement(ctx context.Context, in MovementInput) (*entity.StockMovement, error) {
	var mov *entity.StockMovement
	err := l.txRunner.Run(ctx, func(store ports.Store) error {
		var err error
		mov, err = l.PostMovementInTx(ctx, store, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// PostMovementInTx registra un movimiento usando los repositorios de la transacción del llamador.
// Usado por compras y ventas para que líneas, movimientos y stock se confirmen juntos.
func (l *StockLedger) PostMovementInTx(ctx context.Context, store ports.Store, in MovementInput) (*entity.StockMovement, error) {
	if err := validateMovement(in); err != nil {
		return nil, err
	}
	product, err := store.Products.GetForUpdate(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}

	before := product.StockOnHand
	var after int
	switch in.Kind {
	case entity.MovementInflow:
		after = before + in.Quantity
	case entity.MovementOutflow:
		if in.Quantity > before {
			return nil, &domain.InsufficientStockError{
				ProductID: product.ID, Code: product.Code,
				Available: before, Requested: in.Quantity,
			}
		}
		after = before - in.Quantity
	case entity.MovementAdjustment:
		after = in.Quantity
	}

	source := in.Source
	if source == "" {
		source = entity.SourceManual
	}
	mov := &entity.StockMovement{
		ID:          uuid.New().String(),
		ProductID:   product.ID,
		Kind:        in.Kind,
		Quantity:    in.Quantity,
		Delta:       after - before,
		StockBefore: before,
		StockAfter:  after,
		Reason:      in.Reason,
		Source:      source,
		ReferenceID: in.ReferenceID,
		ActorID:     in.ActorID,
		CreatedAt:   l.now(),
	}
	if err := store.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	if err := store.Products.UpdateStock(ctx, product.ID, after); err != nil {
		return nil, err
	}
	product.StockOnHand = after

	l.log.Debug().
		Str("product_id", product.ID).
		Str("kind", string(in.Kind)).
		Int("quantity", in.Quantity).
		Int("stock_before", before).
		Int("stock_after", after).
		Msg("movimiento de inventario registrado")
	return mov, nil
}

func validateMovement(in MovementInput) error {
	if in.ProductID == "" {
		return domain.ErrInvalidInput
	}
	switch in.Kind {
	case entity.MovementInflow, entity.MovementOutflow:
		if in.Quantity <= 0 {
			return domain.ErrInvalidQuantity
		}
	case entity.MovementAdjustment:
		if in.Quantity < 0 {
			return domain.ErrInvalidQuantity
		}
	default:
		return domain.ErrInvalidInput
	}
	return nil
}

// LockProducts bloquea los productos indicados en orden ascendente de ID (evita deadlocks entre
// órdenes concurrentes con los mismos productos) y los devuelve indexados por ID.
func LockProducts(ctx context.Context, store ports.Store, productIDs []string) (map[string]*entity.Product, error) {
	ids := uniqueSorted(productIDs)
	out := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		p, err := store.Products.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		out[id] = p
	}
	return out, nil
}

// CheckAvailability verifica que cada producto tenga el stock requerido (cantidades ya agregadas
// por producto). Devuelve un *domain.InsufficientStockError con el primer producto que no alcanza.
func CheckAvailability(products map[string]*entity.Product, required map[string]int) error {
	ids := make([]string, 0, len(required))
	for id := range required {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		p, ok := products[id]
		if !ok {
			return domain.ErrProductNotFound
		}
		if required[id] > p.StockOnHand {
			return &domain.InsufficientStockError{
				ProductID: p.ID, Code: p.Code,
				Available: p.StockOnHand, Requested: required[id],
			}
		}
	}
	return nil
}

func uniqueSorted(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// CurrentStock stock actual del producto.
func (l *StockLedger) CurrentStock(ctx context.Context, productID string) (int, error) {
	p, err := l.productRepo.GetByID(ctx, productID)
	if err != nil {
		return 0, err
	}
	if p == nil {
		return 0, domain.ErrProductNotFound
	}
	return p.StockOnHand, nil
}

// Movements historial de movimientos del producto (más recientes primero).
func (l *StockLedger) Movements(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	if _, err := l.CurrentStock(ctx, productID); err != nil {
		return nil, err
	}
	return l.movRepo.ListByProduct(ctx, productID, limit, offset)
}

// ReconcileResult resultado de comparar el stock con la suma del libro.
type ReconcileResult struct {
	ProductID   string
	StockOnHand int
	LedgerSum   int
	Consistent  bool
}

// Reconcile comprueba que stock_on_hand sea igual a la suma de los deltas de sus movimientos.
func (l *StockLedger) Reconcile(ctx context.Context, productID string) (ReconcileResult, error) {
	stock, err := l.CurrentStock(ctx, productID)
	if err != nil {
		return ReconcileResult{}, err
	}
	sum, err := l.movRepo.SumDelta(ctx, productID)
	if err != nil {
		return ReconcileResult{}, err
	}
	res := ReconcileResult{ProductID: productID, StockOnHand: stock, LedgerSum: sum, Consistent: stock == sum}
	if !res.Consistent {
		l.log.Warn().
			Str("product_id", productID).
			Int("stock_on_hand", stock).
			Int("ledger_sum", sum).
			Msg("stock no coincide con el libro de movimientos")
	}
	return res, nil
}
