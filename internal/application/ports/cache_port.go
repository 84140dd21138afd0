package ports

import (
	"context"

	"github.com/jhoicas/autopartes-api/internal/domain/repository"
)

// CurrencyCache puerto de salida para la caché de divisas. Un adaptador (Redis) envuelve el
// lector real; Invalidate se llama después de cada cambio confirmado sobre divisas.
type CurrencyCache interface {
	repository.CurrencyReader
	Invalidate(ctx context.Context) error
}
