package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/autopartes-api/internal/domain/entity"
	"github.com/jhoicas/autopartes-api/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo implementación de SupplierRepository (usable con pool o tx).
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

// Create inserta un proveedor.
func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO suppliers (id, name, tax_id, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.Name, s.TaxID, s.Email, s.Phone, s.CreatedAt, s.UpdatedAt,
	)
	return translate("create supplier", err)
}

// GetByID obtiene un proveedor por ID. (nil, nil) si no existe.
func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	return r.getOne(ctx, "get supplier", `WHERE id = $1`, id)
}

// GetByTaxID obtiene un proveedor por RIF. (nil, nil) si no existe.
func (r *SupplierRepo) GetByTaxID(ctx context.Context, taxID string) (*entity.Supplier, error) {
	return r.getOne(ctx, "get supplier by tax id", `WHERE tax_id = $1`, taxID)
}

func (r *SupplierRepo) getOne(ctx context.Context, op, where string, arg string) (*entity.Supplier, error) {
	var s entity.Supplier
	err := r.q.QueryRow(ctx, `
		SELECT id, name, tax_id, email, phone, created_at, updated_at
		FROM suppliers `+where, arg,
	).Scan(&s.ID, &s.Name, &s.TaxID, &s.Email, &s.Phone, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translate(op, err)
	}
	return &s, nil
}

// List lista proveedores; search filtra por nombre o RIF.
func (r *SupplierRepo) List(ctx context.Context, search string, limit, offset int) ([]*entity.Supplier, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, name, tax_id, email, phone, created_at, updated_at
		FROM suppliers
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%' OR tax_id ILIKE '%' || $1 || '%'
		ORDER BY name, id
		LIMIT $2 OFFSET $3`, search, limit, offset)
	if err != nil {
		return nil, translate("list suppliers", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Supplier, error) {
		var s entity.Supplier
		err := row.Scan(&s.ID, &s.Name, &s.TaxID, &s.Email, &s.Phone, &s.CreatedAt, &s.UpdatedAt)
		return &s, err
	})
	if err != nil {
		return nil, translate("scan suppliers", err)
	}
	return list, nil
}
