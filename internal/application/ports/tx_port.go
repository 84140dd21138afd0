package ports

import (
	"context"

	"github.com/jhoicas/autopartes-api/internal/domain/repository"
)

// Store agrupa los repositorios atados a una misma transacción.
type Store struct {
	Products   repository.ProductRepository
	Movements  repository.StockMovementRepository
	Purchases  repository.PurchaseRepository
	Sales      repository.SaleRepository
	Currencies repository.CurrencyRepository
	Suppliers  repository.SupplierRepository
	Customers  repository.CustomerRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y ningún cambio queda persistido; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(store Store) error) error
}
