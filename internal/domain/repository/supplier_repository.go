package repository

import (
	"context"

	"github.com/jhoicas/autopartes-api/internal/domain/entity"
)

// SupplierRepository puerto de persistencia para proveedores.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	GetByTaxID(ctx context.Context, taxID string) (*entity.Supplier, error)
	List(ctx context.Context, search string, limit, offset int) ([]*entity.Supplier, error)
}
