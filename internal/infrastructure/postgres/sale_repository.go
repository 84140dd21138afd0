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

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, customer_id, seller_id, sale_date, status, discount, tax, total, created_at, updated_at,
	currency_id, currency_code, applied_rate, original_total`

// SaleRepo ventas, líneas y devoluciones (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera de la venta.
func (r *SaleRepo) Create(ctx context.Context, s *entity.SalesOrder) error {
	snap := snapshotArgs(s.Currency)
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.CustomerID, s.SellerID, s.SaleDate, string(s.Status), s.Discount, s.Tax, s.Total,
		s.CreatedAt, s.UpdatedAt,
		snap.CurrencyID, snap.CurrencyCode, snap.AppliedRate, snap.OriginalTotal,
	)
	return translate("insert sale", err)
}

// CreateLines inserta las líneas de la venta.
func (r *SaleRepo) CreateLines(ctx context.Context, lines []entity.SalesLine) error {
	if len(lines) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, l := range lines {
		batch.Queue(`
			INSERT INTO sale_lines (id, sale_id, product_id, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			l.ID, l.SaleID, l.ProductID, l.Quantity, l.UnitPrice, l.Subtotal,
		)
	}
	return sendBatch(ctx, r.q, batch, "insert sale lines")
}

// GetByID obtiene una venta. (nil, nil) si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.SalesOrder, error) {
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translate("get sale", err)
	}
	return s, nil
}

// GetForUpdate bloquea la venta; serializa anulaciones y devoluciones concurrentes.
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.SalesOrder, error) {
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, notFoundOr("lock sale", err, domain.ErrOrderNotFound)
	}
	return s, nil
}

// ListLines líneas de la venta en orden de inserción.
func (r *SaleRepo) ListLines(ctx context.Context, saleID string) ([]entity.SalesLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, quantity, unit_price, subtotal
		FROM sale_lines WHERE sale_id = $1 ORDER BY seq`, saleID)
	if err != nil {
		return nil, translate("list sale lines", err)
	}
	defer rows.Close()
	var lines []entity.SalesLine
	for rows.Next() {
		var l entity.SalesLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return nil, translate("scan sale line", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("iterate sale lines", err)
	}
	return lines, nil
}

// UpdateStatus cambia el estado de la venta.
func (r *SaleRepo) UpdateStatus(ctx context.Context, id string, status entity.SaleStatus, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE sales SET status = $2, updated_at = $3 WHERE id = $1`, id, string(status), at)
	if err != nil {
		return translate("update sale status", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// List ventas más recientes primero, con filtros opcionales.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.SalesOrder, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE 1=1`
	var args []any
	if f.Status != "" {
		args = append(args, string(f.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.CustomerID != "" {
		args = append(args, f.CustomerID)
		query += fmt.Sprintf(" AND customer_id = $%d", len(args))
	}
	if f.SellerID != "" {
		args = append(args, f.SellerID)
		query += fmt.Sprintf(" AND seller_id = $%d", len(args))
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, translate("list sales", err)
	}
	defer rows.Close()
	var list []*entity.SalesOrder
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, translate("scan sale", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("iterate sales", err)
	}
	return list, nil
}

// CreateReturn persiste una devolución con sus líneas.
func (r *SaleRepo) CreateReturn(ctx context.Context, ret *entity.SalesReturn) error {
	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO sale_returns (id, sale_id, reason, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		ret.ID, ret.SaleID, ret.Reason, ret.ActorID, ret.CreatedAt,
	)
	for _, l := range ret.Lines {
		batch.Queue(`
			INSERT INTO sale_return_lines (id, return_id, product_id, quantity)
			VALUES ($1, $2, $3, $4)`,
			l.ID, ret.ID, l.ProductID, l.Quantity,
		)
	}
	return sendBatch(ctx, r.q, batch, "insert sale return")
}

// ListReturns devoluciones de la venta con sus líneas, en orden cronológico.
func (r *SaleRepo) ListReturns(ctx context.Context, saleID string) ([]entity.SalesReturn, error) {
	rows, err := r.q.Query(ctx, `
		SELECT sr.id, sr.sale_id, sr.reason, sr.actor_id, sr.created_at, l.id, l.product_id, l.quantity
		FROM sale_returns sr
		JOIN sale_return_lines l ON l.return_id = sr.id
		WHERE sr.sale_id = $1
		ORDER BY sr.created_at, sr.id, l.seq`, saleID)
	if err != nil {
		return nil, translate("list sale returns", err)
	}
	defer rows.Close()
	var out []entity.SalesReturn
	for rows.Next() {
		var (
			ret  entity.SalesReturn
			line entity.SalesReturnLine
		)
		if err := rows.Scan(&ret.ID, &ret.SaleID, &ret.Reason, &ret.ActorID, &ret.CreatedAt,
			&line.ID, &line.ProductID, &line.Quantity); err != nil {
			return nil, translate("scan sale return", err)
		}
		line.ReturnID = ret.ID
		if n := len(out); n > 0 && out[n-1].ID == ret.ID {
			out[n-1].Lines = append(out[n-1].Lines, line)
			continue
		}
		ret.Lines = []entity.SalesReturnLine{line}
		out = append(out, ret)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("iterate sale returns", err)
	}
	return out, nil
}

// UnitsSoldSince unidades por producto en ventas no anuladas desde since.
func (r *SaleRepo) UnitsSoldSince(ctx context.Context, since time.Time) (map[string]int, error) {
	rows, err := r.q.Query(ctx, `
		SELECT l.product_id, SUM(l.quantity)::int
		FROM sale_lines l
		JOIN sales s ON s.id = l.sale_id
		WHERE s.status <> $1 AND s.sale_date >= $2
		GROUP BY l.product_id`, string(entity.SaleVoided), since)
	if err != nil {
		return nil, translate("units sold since", err)
	}
	defer rows.Close()
	out := make(map[string]int)
	for rows.Next() {
		var (
			productID string
			units     int
		)
		if err := rows.Scan(&productID, &units); err != nil {
			return nil, translate("scan units sold", err)
		}
		out[productID] = units
	}
	if err := rows.Err(); err != nil {
		return nil, translate("iterate units sold", err)
	}
	return out, nil
}

func scanSale(row pgx.Row) (*entity.SalesOrder, error) {
	var (
		s      entity.SalesOrder
		status string
		snap   snapshotColumns
	)
	dest := append([]any{
		&s.ID, &s.CustomerID, &s.SellerID, &s.SaleDate, &status, &s.Discount, &s.Tax, &s.Total,
		&s.CreatedAt, &s.UpdatedAt,
	}, snap.dest()...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	s.Status = entity.SaleStatus(status)
	s.Currency = snap.toEntity()
	return &s, nil
}
