package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/autopartes-api/internal/domain"
	"github.com/jhoicas/autopartes-api/internal/domain/entity"
	"github.com/jhoicas/autopartes-api/internal/domain/repository"
)

var _ repository.CurrencyRepository = (*CurrencyRepo)(nil)

const currencyColumns = `id, code, name, symbol, exchange_rate, is_base, active, updated_at`

// CurrencyRepo divisas y sus tasas (usable con pool o tx).
type CurrencyRepo struct {
	q Querier
}

// NewCurrencyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCurrencyRepository(q Querier) *CurrencyRepo {
	return &CurrencyRepo{q: q}
}

func (r *CurrencyRepo) GetByID(ctx context.Context, id string) (*entity.Currency, error) {
	return r.getOne(ctx, "get currency", `SELECT `+currencyColumns+` FROM currencies WHERE id = $1`, id)
}

func (r *CurrencyRepo) GetByCode(ctx context.Context, code string) (*entity.Currency, error) {
	return r.getOne(ctx, "get currency by code",
		`SELECT `+currencyColumns+` FROM currencies WHERE code = $1`, entity.NormalizeCurrencyCode(code))
}

// GetBase divisa principal. (nil, nil) si todavía no se sembraron divisas.
func (r *CurrencyRepo) GetBase(ctx context.Context) (*entity.Currency, error) {
	return r.getOne(ctx, "get base currency", `SELECT `+currencyColumns+` FROM currencies WHERE is_base`, nil)
}

// GetForUpdate bloquea la divisa; devuelve domain.ErrCurrencyNotFound si no existe.
func (r *CurrencyRepo) GetForUpdate(ctx context.Context, id string) (*entity.Currency, error) {
	c, err := r.getOne(ctx, "lock currency", `SELECT `+currencyColumns+` FROM currencies WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrCurrencyNotFound
	}
	return c, nil
}

func (r *CurrencyRepo) getOne(ctx context.Context, op, query string, arg any) (*entity.Currency, error) {
	var row pgx.Row
	if arg == nil {
		row = r.q.QueryRow(ctx, query)
	} else {
		row = r.q.QueryRow(ctx, query, arg)
	}
	c, err := scanCurrency(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translate(op, err)
	}
	return c, nil
}

// List divisas ordenadas por código.
func (r *CurrencyRepo) List(ctx context.Context, activeOnly bool) ([]*entity.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies`
	if activeOnly {
		query += ` WHERE active`
	}
	return r.list(ctx, "list currencies", query+` ORDER BY code`)
}

// ListForUpdate bloquea todas las divisas en orden de código.
func (r *CurrencyRepo) ListForUpdate(ctx context.Context) ([]*entity.Currency, error) {
	return r.list(ctx, "lock currencies", `SELECT `+currencyColumns+` FROM currencies ORDER BY code FOR UPDATE`)
}

func (r *CurrencyRepo) list(ctx context.Context, op, query string) ([]*entity.Currency, error) {
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, translate(op, err)
	}
	defer rows.Close()
	var list []*entity.Currency
	for rows.Next() {
		c, err := scanCurrency(rows)
		if err != nil {
			return nil, translate(op, err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(op, err)
	}
	return list, nil
}

// Update persiste tasa, is_base, active y updated_at.
func (r *CurrencyRepo) Update(ctx context.Context, c *entity.Currency) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE currencies SET exchange_rate = $2, is_base = $3, active = $4, updated_at = $5
		WHERE id = $1`,
		c.ID, c.ExchangeRate(), c.IsBase(), c.Active, c.UpdatedAt,
	)
	if err != nil {
		return translate("update currency", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCurrencyNotFound
	}
	return nil
}

// Upsert inserta o actualiza por código. Sin overwriteRate conserva tasa, base y estado existentes.
func (r *CurrencyRepo) Upsert(ctx context.Context, c *entity.Currency, overwriteRate bool) error {
	onConflict := `name = EXCLUDED.name, symbol = EXCLUDED.symbol`
	if overwriteRate {
		onConflict += `, exchange_rate = EXCLUDED.exchange_rate, is_base = EXCLUDED.is_base,
			active = EXCLUDED.active, updated_at = EXCLUDED.updated_at`
	}
	query := fmt.Sprintf(`
		INSERT INTO currencies (id, code, name, symbol, exchange_rate, is_base, active, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (code) DO UPDATE SET %s
		RETURNING id`, onConflict)
	err := r.q.QueryRow(ctx, query,
		c.ID, entity.NormalizeCurrencyCode(c.Code), c.Name, c.Symbol, c.ExchangeRate(), c.IsBase(), c.Active, c.UpdatedAt,
	).Scan(&c.ID)
	return translate("upsert currency", err)
}

func scanCurrency(row pgx.Row) (*entity.Currency, error) {
	var (
		c      entity.Currency
		rate   decimal.Decimal
		isBase bool
	)
	if err := row.Scan(&c.ID, &c.Code, &c.Name, &c.Symbol, &rate, &isBase, &c.Active, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if isBase {
		c.Rate = entity.BaseRate()
		return &c, nil
	}
	pegged, err := entity.PeggedRate(rate)
	if err != nil {
		return nil, fmt.Errorf("divisa %s con tasa inválida %s: %w", c.Code, rate, err)
	}
	c.Rate = pegged
	return &c, nil
}
