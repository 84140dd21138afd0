package repository

import (
	"context"

	"github.com/jhoicas/autopartes-api/internal/domain/entity"
)

// CurrencyReader lecturas de divisas (lo que consume la conversión y la caché).
// GetByID/GetByCode/GetBase devuelven (nil, nil) si no existe.
type CurrencyReader interface {
	GetByID(ctx context.Context, id string) (*entity.Currency, error)
	GetByCode(ctx context.Context, code string) (*entity.Currency, error)
	GetBase(ctx context.Context) (*entity.Currency, error)
	List(ctx context.Context, activeOnly bool) ([]*entity.Currency, error)
}

// CurrencyRepository define el puerto de persistencia para divisas.
type CurrencyRepository interface {
	CurrencyReader
	// ListForUpdate bloquea todas las divisas (cambio de divisa principal).
	ListForUpdate(ctx context.Context) ([]*entity.Currency, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Currency, error)
	// Update persiste tasa, is_base, active y updated_at.
	Update(ctx context.Context, currency *entity.Currency) error
	// Upsert inserta o actualiza por código (siembra de datos).
	Upsert(ctx context.Context, currency *entity.Currency, overwriteRate bool) error
}
