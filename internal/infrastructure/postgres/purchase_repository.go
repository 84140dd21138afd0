package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/autopartes-api/internal/domain"
	"github.com/jhoicas/autopartes-api/internal/domain/entity"
	"github.com/jhoicas/autopartes-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

const purchaseColumns = `id, supplier_id, order_date, status, total, created_by, created_at, updated_at,
	currency_id, currency_code, applied_rate, original_total`

// PurchaseRepo compras y líneas de compra (usable con pool o tx).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create persiste la cabecera de la compra.
func (r *PurchaseRepo) Create(ctx context.Context, p *entity.PurchaseOrder) error {
	snap := snapshotArgs(p.Currency)
	query := `
		INSERT INTO purchases (` + purchaseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.SupplierID, p.OrderDate, string(p.Status), p.Total, p.CreatedBy, p.CreatedAt, p.UpdatedAt,
		snap.CurrencyID, snap.CurrencyCode, snap.AppliedRate, snap.OriginalTotal,
	)
	return translate("insert purchase", err)
}

// CreateLines inserta las líneas en un solo batch.
func (r *PurchaseRepo) CreateLines(ctx context.Context, lines []entity.PurchaseLine) error {
	if len(lines) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, l := range lines {
		batch.Queue(`
			INSERT INTO purchase_lines (id, purchase_id, product_id, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			l.ID, l.PurchaseID, l.ProductID, l.Quantity, l.UnitPrice, l.Subtotal,
		)
	}
	return sendBatch(ctx, r.q, batch, "insert purchase lines")
}

// GetByID obtiene una compra. (nil, nil) si no existe.
func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	p, err := scanPurchase(r.q.QueryRow(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translate("get purchase", err)
	}
	return p, nil
}

// GetForUpdate bloquea la compra hasta el fin de la transacción.
func (r *PurchaseRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	p, err := scanPurchase(r.q.QueryRow(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, notFoundOr("lock purchase", err, domain.ErrOrderNotFound)
	}
	return p, nil
}

// ListLines líneas de la compra en orden de inserción.
func (r *PurchaseRepo) ListLines(ctx context.Context, purchaseID string) ([]entity.PurchaseLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, purchase_id, product_id, quantity, unit_price, subtotal
		FROM purchase_lines WHERE purchase_id = $1 ORDER BY seq`, purchaseID)
	if err != nil {
		return nil, translate("list purchase lines", err)
	}
	defer rows.Close()
	var lines []entity.PurchaseLine
	for rows.Next() {
		var l entity.PurchaseLine
		if err := rows.Scan(&l.ID, &l.PurchaseID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return nil, translate("scan purchase line", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("iterate purchase lines", err)
	}
	return lines, nil
}

// UpdateStatus cambia el estado de la compra.
func (r *PurchaseRepo) UpdateStatus(ctx context.Context, id string, status entity.PurchaseStatus, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE purchases SET status = $2, updated_at = $3 WHERE id = $1`, id, string(status), at)
	if err != nil {
		return translate("update purchase status", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// DeleteLines borra las líneas de una compra.
func (r *PurchaseRepo) DeleteLines(ctx context.Context, purchaseID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM purchase_lines WHERE purchase_id = $1`, purchaseID)
	return translate("delete purchase lines", err)
}

// Delete borra la cabecera de la compra.
func (r *PurchaseRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM purchases WHERE id = $1`, id)
	if err != nil {
		return translate("delete purchase", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// List compras más recientes primero, con filtros opcionales.
func (r *PurchaseRepo) List(ctx context.Context, f repository.PurchaseFilter) ([]*entity.PurchaseOrder, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE 1=1`
	var args []any
	if f.Status != "" {
		args = append(args, string(f.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.SupplierID != "" {
		args = append(args, f.SupplierID)
		query += fmt.Sprintf(" AND supplier_id = $%d", len(args))
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY order_date DESC, created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, translate("list purchases", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrder
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, translate("scan purchase", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("iterate purchases", err)
	}
	return list, nil
}

func scanPurchase(row pgx.Row) (*entity.PurchaseOrder, error) {
	var (
		p      entity.PurchaseOrder
		status string
		snap   snapshotColumns
	)
	dest := append([]any{
		&p.ID, &p.SupplierID, &p.OrderDate, &status, &p.Total, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	}, snap.dest()...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	p.Status = entity.PurchaseStatus(status)
	p.Currency = snap.toEntity()
	return &p, nil
}

// sendBatch ejecuta un batch de Exec y cierra los resultados.
func sendBatch(ctx context.Context, q Querier, batch *pgx.Batch, op string) error {
	br := q.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return translate(op, err)
		}
	}
	return translate(op, br.Close())
}
