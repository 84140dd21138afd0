package repository

import (
	"context"
	"time"

	"github.com/jhoicas/autopartes-api/internal/domain/entity"
)

// PurchaseFilter filtros para listar compras.
type PurchaseFilter struct {
	Status     entity.PurchaseStatus
	SupplierID string
	Limit      int
	Offset     int
}

// PurchaseRepository define el puerto de persistencia para compras y sus líneas.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.PurchaseOrder) error
	CreateLines(ctx context.Context, lines []entity.PurchaseLine) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	// GetForUpdate bloquea la compra; devuelve domain.ErrOrderNotFound si no existe.
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	ListLines(ctx context.Context, purchaseID string) ([]entity.PurchaseLine, error)
	UpdateStatus(ctx context.Context, id string, status entity.PurchaseStatus, at time.Time) error
	DeleteLines(ctx context.Context, purchaseID string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter PurchaseFilter) ([]*entity.PurchaseOrder, error)
}
