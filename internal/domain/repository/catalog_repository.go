package repository

import (
	"context"

	"github.com/jhoicas/autopartes-api/internal/domain/entity"
)

// CategoryRepository puerto de persistencia para categorías de producto.
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	// GetByName compara sin distinguir mayúsculas. (nil, nil) si no existe.
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	List(ctx context.Context) ([]*entity.Category, error)
}

// BrandRepository puerto de persistencia para marcas de repuestos.
type BrandRepository interface {
	Create(ctx context.Context, brand *entity.Brand) error
	GetByID(ctx context.Context, id string) (*entity.Brand, error)
	GetByName(ctx context.Context, name string) (*entity.Brand, error)
	List(ctx context.Context) ([]*entity.Brand, error)
}
