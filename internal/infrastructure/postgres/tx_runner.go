package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/autopartes-api/internal/application/ports"
	"github.com/jhoicas/autopartes-api/internal/domain"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(store ports.Store) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return domain.NewPersistenceError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStore(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.NewPersistenceError("commit transaction", err)
	}
	return nil
}

// NewStore agrupa los repositorios sobre q (pool para lecturas, tx dentro de Run).
func NewStore(q Querier) ports.Store {
	return ports.Store{
		Products:   NewProductRepository(q),
		Movements:  NewStockMovementRepository(q),
		Purchases:  NewPurchaseRepository(q),
		Sales:      NewSaleRepository(q),
		Currencies: NewCurrencyRepository(q),
		Suppliers:  NewSupplierRepository(q),
		Customers:  NewCustomerRepository(q),
	}
}
