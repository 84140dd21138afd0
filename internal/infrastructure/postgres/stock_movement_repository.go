package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/autopartes-api/internal/domain/entity"
	"github.com/jhoicas/autopartes-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, product_id, kind, quantity, delta, stock_before, stock_after, reason, source, reference_id, actor_id, created_at`

// StockMovementRepo libro de inventario en PostgreSQL. No hay UPDATE ni DELETE.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta un movimiento.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, string(m.Kind), m.Quantity, m.Delta, m.StockBefore, m.StockAfter,
		m.Reason, string(m.Source), m.ReferenceID, m.ActorID, m.CreatedAt,
	)
	return translate("insert stock movement", err)
}

// ListByProduct historial del producto, más reciente primero.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.q.Query(ctx, `
		SELECT `+movementColumns+` FROM stock_movements
		WHERE product_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`, productID, limit, offset)
	if err != nil {
		return nil, translate("list movements by product", err)
	}
	return collectMovements(rows)
}

// ListByReference movimientos de una orden en orden cronológico.
func (r *StockMovementRepo) ListByReference(ctx context.Context, referenceID string, sources ...entity.MovementSource) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE reference_id = $1`
	args := []any{referenceID}
	if len(sources) > 0 {
		names := make([]string, len(sources))
		for i, s := range sources {
			names[i] = string(s)
		}
		query += ` AND source = ANY($2)`
		args = append(args, names)
	}
	query += ` ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, translate("list movements by reference", err)
	}
	return collectMovements(rows)
}

// SumDelta suma de deltas del producto; debe coincidir con stock_on_hand.
func (r *StockMovementRepo) SumDelta(ctx context.Context, productID string) (int, error) {
	var sum int
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(delta), 0) FROM stock_movements WHERE product_id = $1`, productID).Scan(&sum)
	if err != nil {
		return 0, translate("sum movement deltas", err)
	}
	return sum, nil
}

func collectMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var (
			m      entity.StockMovement
			kind   string
			source string
		)
		if err := rows.Scan(
			&m.ID, &m.ProductID, &kind, &m.Quantity, &m.Delta, &m.StockBefore, &m.StockAfter,
			&m.Reason, &source, &m.ReferenceID, &m.ActorID, &m.CreatedAt,
		); err != nil {
			return nil, translate("scan stock movement", err)
		}
		m.Kind = entity.MovementKind(kind)
		m.Source = entity.MovementSource(source)
		list = append(list, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("iterate stock movements", err)
	}
	return list, nil
}
