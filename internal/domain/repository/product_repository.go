package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/autopartes-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID devuelve (nil, nil) si no existe; GetForUpdate devuelve domain.ErrProductNotFound.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto hasta el fin de la transacción (SELECT ... FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// Update modifica los datos de catálogo; nunca el stock.
	Update(ctx context.Context, product *entity.Product) error
	UpdateStock(ctx context.Context, productID string, stock int) error
	UpdatePurchaseCost(ctx context.Context, productID string, purchaseCost, averageCost decimal.Decimal) error
	LinkSupplier(ctx context.Context, productID, supplierID string) error
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	ListBelowMinimum(ctx context.Context) ([]*entity.Product, error)
}
