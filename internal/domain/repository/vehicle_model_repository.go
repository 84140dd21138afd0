package repository

import (
	"context"

	"github.com/jhoicas/autopartes-api/internal/domain/entity"
)

// VehicleModelFilter filtros del listado. Year selecciona los modelos cuyo rango incluye ese año.
type VehicleModelFilter struct {
	Make   string
	Model  string
	Year   *int
	Active *bool
}

// VehicleModelRepository puerto de persistencia para modelos de vehículo y su compatibilidad con productos.
type VehicleModelRepository interface {
	Create(ctx context.Context, model *entity.VehicleModel) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.VehicleModel, error)
	// FindSame busca un modelo con la misma marca, modelo, años y motor. (nil, nil) si no hay.
	FindSame(ctx context.Context, model *entity.VehicleModel) (*entity.VehicleModel, error)
	// List ordena por marca, modelo y año de inicio descendente.
	List(ctx context.Context, f VehicleModelFilter) ([]*entity.VehicleModel, error)
	// UpsertCompatibility crea o reemplaza la asociación; created indica si era nueva.
	UpsertCompatibility(ctx context.Context, c *entity.Compatibility) (created bool, err error)
	GetCompatibility(ctx context.Context, productID, modelID string) (*entity.Compatibility, error)
	// DeleteCompatibility devuelve false si la asociación no existía.
	DeleteCompatibility(ctx context.Context, productID, modelID string) (bool, error)
	ListCompatibleProducts(ctx context.Context, modelID string) ([]entity.CompatibleProduct, error)
}
