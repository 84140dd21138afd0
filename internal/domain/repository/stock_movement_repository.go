package repository

import (
	"context"

	"github.com/jhoicas/autopartes-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia del libro de inventario.
// Solo permite insertar y leer: los movimientos son inmutables.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error)
	// ListByReference movimientos de una orden, opcionalmente filtrados por origen.
	ListByReference(ctx context.Context, referenceID string, sources ...entity.MovementSource) ([]*entity.StockMovement, error)
	// SumDelta suma de los deltas firmados de todos los movimientos del producto.
	SumDelta(ctx context.Context, productID string) (int, error)
}
