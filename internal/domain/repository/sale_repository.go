package repository

import (
	"context"
	"time"

	"github.com/jhoicas/autopartes-api/internal/domain/entity"
)

// SaleFilter filtros para listar ventas.
type SaleFilter struct {
	Status     entity.SaleStatus
	CustomerID string
	SellerID   string
	Limit      int
	Offset     int
}

// SaleRepository define el puerto de persistencia para ventas, líneas y devoluciones.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.SalesOrder) error
	CreateLines(ctx context.Context, lines []entity.SalesLine) error
	GetByID(ctx context.Context, id string) (*entity.SalesOrder, error)
	// GetForUpdate bloquea la venta; devuelve domain.ErrOrderNotFound si no existe.
	GetForUpdate(ctx context.Context, id string) (*entity.SalesOrder, error)
	ListLines(ctx context.Context, saleID string) ([]entity.SalesLine, error)
	UpdateStatus(ctx context.Context, id string, status entity.SaleStatus, at time.Time) error
	List(ctx context.Context, filter SaleFilter) ([]*entity.SalesOrder, error)

	CreateReturn(ctx context.Context, ret *entity.SalesReturn) error
	ListReturns(ctx context.Context, saleID string) ([]entity.SalesReturn, error)

	// UnitsSoldSince unidades vendidas por producto (ventas no anuladas) desde la fecha dada.
	UnitsSoldSince(ctx context.Context, since time.Time) (map[string]int, error)
}
