package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/autopartes-api/internal/domain/entity"
	"github.com/jhoicas/autopartes-api/internal/domain/repository"
)

var (
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.BrandRepository    = (*BrandRepo)(nil)
)

// CategoryRepo implementación de CategoryRepository.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	_, err := r.q.Exec(ctx, `INSERT INTO categories (id, name, created_at) VALUES ($1, $2, $3)`, c.ID, c.Name, c.CreatedAt)
	return translate("create category", err)
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	var c entity.Category
	err := r.q.QueryRow(ctx, `SELECT id, name, created_at FROM categories WHERE id = $1`, id).Scan(&c.ID, &c.Name, &c.CreatedAt)
	return nilIfNoRows(&c, "get category", err)
}

func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	var c entity.Category
	err := r.q.QueryRow(ctx, `SELECT id, name, created_at FROM categories WHERE lower(name) = lower($1)`, name).Scan(&c.ID, &c.Name, &c.CreatedAt)
	return nilIfNoRows(&c, "get category by name", err)
}

func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, translate("list categories", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Category, error) {
		var c entity.Category
		err := row.Scan(&c.ID, &c.Name, &c.CreatedAt)
		return &c, err
	})
	if err != nil {
		return nil, translate("scan categories", err)
	}
	return list, nil
}

// BrandRepo implementación de BrandRepository.
type BrandRepo struct {
	q Querier
}

// NewBrandRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBrandRepository(q Querier) *BrandRepo {
	return &BrandRepo{q: q}
}

func (r *BrandRepo) Create(ctx context.Context, b *entity.Brand) error {
	_, err := r.q.Exec(ctx, `INSERT INTO brands (id, name, created_at) VALUES ($1, $2, $3)`, b.ID, b.Name, b.CreatedAt)
	return translate("create brand", err)
}

func (r *BrandRepo) GetByID(ctx context.Context, id string) (*entity.Brand, error) {
	var b entity.Brand
	err := r.q.QueryRow(ctx, `SELECT id, name, created_at FROM brands WHERE id = $1`, id).Scan(&b.ID, &b.Name, &b.CreatedAt)
	return nilIfNoRows(&b, "get brand", err)
}

func (r *BrandRepo) GetByName(ctx context.Context, name string) (*entity.Brand, error) {
	var b entity.Brand
	err := r.q.QueryRow(ctx, `SELECT id, name, created_at FROM brands WHERE lower(name) = lower($1)`, name).Scan(&b.ID, &b.Name, &b.CreatedAt)
	return nilIfNoRows(&b, "get brand by name", err)
}

func (r *BrandRepo) List(ctx context.Context) ([]*entity.Brand, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, created_at FROM brands ORDER BY name`)
	if err != nil {
		return nil, translate("list brands", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Brand, error) {
		var b entity.Brand
		err := row.Scan(&b.ID, &b.Name, &b.CreatedAt)
		return &b, err
	})
	if err != nil {
		return nil, translate("scan brands", err)
	}
	return list, nil
}

// nilIfNoRows convierte pgx.ErrNoRows en (nil, nil).
func nilIfNoRows[T any](v *T, op string, err error) (*T, error) {
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translate(op, err)
	}
	return v, nil
}
