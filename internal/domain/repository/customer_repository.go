package repository

import (
	"context"

	"github.com/jhoicas/autopartes-api/internal/domain/entity"
)

// CustomerRepository puerto de persistencia para clientes.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	// GetByTaxID busca por cédula/RIF. (nil, nil) si no existe.
	GetByTaxID(ctx context.Context, taxID string) (*entity.Customer, error)
	// List filtra por nombre, identificación o teléfono cuando search no está vacío.
	List(ctx context.Context, search string, limit, offset int) ([]*entity.Customer, error)
}
