package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/autopartes-api/internal/domain"
	"github.com/jhoicas/autopartes-api/internal/domain/entity"
	"github.com/jhoicas/autopartes-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `
	p.id, p.code, p.description, p.category_id, p.brand_id, p.purchase_cost, p.sale_price,
	p.average_cost, p.stock_on_hand, p.stock_minimum,
	ARRAY(SELECT ps.supplier_id::text FROM product_suppliers ps WHERE ps.product_id = p.id ORDER BY ps.supplier_id),
	p.created_at, p.updated_at`

// ProductRepo implementación de ProductRepository (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un producto con stock cero; el stock inicial entra por el libro.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, code, description, category_id, brand_id, purchase_cost, sale_price,
			average_cost, stock_on_hand, stock_minimum, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Code, p.Description, p.CategoryID, p.BrandID, p.PurchaseCost, p.SalePrice,
		p.AverageCost, p.StockMinimum, p.CreatedAt, p.UpdatedAt,
	)
	return translate("insert product", err)
}

// GetByID obtiene un producto por ID. (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, "get product", `SELECT `+productColumns+` FROM products p WHERE p.id = $1`, id)
}

// GetByCode obtiene un producto por código. (nil, nil) si no existe.
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	return r.getOne(ctx, "get product by code", `SELECT `+productColumns+` FROM products p WHERE p.code = $1`, code)
}

// GetForUpdate bloquea la fila del producto hasta el fin de la transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	p, err := r.getOne(ctx, "lock product", `SELECT `+productColumns+` FROM products p WHERE p.id = $1 FOR UPDATE OF p`, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

func (r *ProductRepo) getOne(ctx context.Context, op, query string, arg any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translate(op, err)
	}
	return p, nil
}

// Update actualiza datos de catálogo. Nunca toca stock_on_hand ni average_cost.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products
		SET description = $2, category_id = $3, brand_id = $4, purchase_cost = $5, sale_price = $6,
			stock_minimum = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		p.ID, p.Description, p.CategoryID, p.BrandID, p.PurchaseCost, p.SalePrice, p.StockMinimum, p.UpdatedAt,
	)
	if err != nil {
		return translate("update product", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// UpdateStock fija el stock; solo lo llama el libro de inventario después de insertar el movimiento.
func (r *ProductRepo) UpdateStock(ctx context.Context, productID string, stock int) error {
	tag, err := r.q.Exec(ctx, `UPDATE products SET stock_on_hand = $2, updated_at = now() WHERE id = $1`, productID, stock)
	if err != nil {
		return translate("update stock", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// UpdatePurchaseCost registra el último precio de compra y el nuevo costo promedio.
func (r *ProductRepo) UpdatePurchaseCost(ctx context.Context, productID string, purchaseCost, averageCost decimal.Decimal) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE products SET purchase_cost = $2, average_cost = $3, updated_at = now() WHERE id = $1`,
		productID, purchaseCost, averageCost,
	)
	if err != nil {
		return translate("update purchase cost", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// LinkSupplier asocia proveedor y producto; idempotente.
func (r *ProductRepo) LinkSupplier(ctx context.Context, productID, supplierID string) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO product_suppliers (product_id, supplier_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, productID, supplierID)
	return translate("link supplier", err)
}

// List lista productos por código con paginación.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products p ORDER BY p.code LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, translate("list products", err)
	}
	return collectProducts(rows)
}

// ListBelowMinimum productos con stock igual o inferior al mínimo.
func (r *ProductRepo) ListBelowMinimum(ctx context.Context) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+productColumns+` FROM products p
		WHERE p.stock_on_hand <= p.stock_minimum
		ORDER BY p.code`)
	if err != nil {
		return nil, translate("list products below minimum", err)
	}
	return collectProducts(rows)
}

func collectProducts(rows pgx.Rows) ([]*entity.Product, error) {
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, translate("scan product", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("iterate products", err)
	}
	return list, nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Code, &p.Description, &p.CategoryID, &p.BrandID, &p.PurchaseCost, &p.SalePrice,
		&p.AverageCost, &p.StockOnHand, &p.StockMinimum, &p.SupplierIDs, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
