package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/autopartes-api/internal/domain"
	"github.com/jhoicas/autopartes-api/internal/domain/entity"
	"github.com/jhoicas/autopartes-api/internal/domain/repository"
)

type compatKey struct{ product, model string }

// Categories repositorio de categorías.
func (db *DB) Categories() repository.CategoryRepository { return (*categoryRepo)(db) }

// Brands repositorio de marcas.
func (db *DB) Brands() repository.BrandRepository { return (*brandRepo)(db) }

// VehicleModels repositorio de modelos de vehículo y compatibilidades.
func (db *DB) VehicleModels() repository.VehicleModelRepository { return (*vehicleModelRepo)(db) }

// catalogRefsExist emula las llaves foráneas de products.category_id y products.brand_id. Requiere db.mu.
func (db *DB) catalogRefsExist(p *entity.Product) bool {
	if p.CategoryID != nil {
		if _, ok := db.categories[*p.CategoryID]; !ok {
			return false
		}
	}
	if p.BrandID != nil {
		if _, ok := db.brands[*p.BrandID]; !ok {
			return false
		}
	}
	return true
}

// ──────────────────────────────────────────────────────────────────────────────
// Categorías y marcas
// ──────────────────────────────────────────────────────────────────────────────

type categoryRepo DB

func (r *categoryRepo) Create(_ context.Context, c *entity.Category) error {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, existing := range db.categories {
		if strings.EqualFold(existing.Name, c.Name) {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	db.categories[c.ID] = &cp
	return nil
}

func (r *categoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	if c, ok := db.categories[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *categoryRepo) GetByName(_ context.Context, name string) (*entity.Category, error) {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, c := range db.categories {
		if strings.EqualFold(c.Name, name) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *categoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]*entity.Category, 0, len(db.categories))
	for _, c := range db.categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type brandRepo DB

func (r *brandRepo) Create(_ context.Context, b *entity.Brand) error {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, existing := range db.brands {
		if strings.EqualFold(existing.Name, b.Name) {
			return domain.ErrDuplicate
		}
	}
	cp := *b
	db.brands[b.ID] = &cp
	return nil
}

func (r *brandRepo) GetByID(_ context.Context, id string) (*entity.Brand, error) {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	if b, ok := db.brands[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (r *brandRepo) GetByName(_ context.Context, name string) (*entity.Brand, error) {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, b := range db.brands {
		if strings.EqualFold(b.Name, name) {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *brandRepo) List(_ context.Context) ([]*entity.Brand, error) {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]*entity.Brand, 0, len(db.brands))
	for _, b := range db.brands {
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Modelos de vehículo
// ──────────────────────────────────────────────────────────────────────────────

type vehicleModelRepo DB

func (r *vehicleModelRepo) Create(_ context.Context, m *entity.VehicleModel) error {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	cp := *m
	db.vehicleModels[m.ID] = &cp
	return nil
}

func (r *vehicleModelRepo) GetByID(_ context.Context, id string) (*entity.VehicleModel, error) {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	if m, ok := db.vehicleModels[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}

func (r *vehicleModelRepo) FindSame(_ context.Context, m *entity.VehicleModel) (*entity.VehicleModel, error) {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, existing := range db.vehicleModels {
		if strings.EqualFold(existing.Make, m.Make) && strings.EqualFold(existing.Model, m.Model) &&
			sameYear(existing.YearFrom, m.YearFrom) && sameYear(existing.YearTo, m.YearTo) &&
			strings.EqualFold(existing.Engine, m.Engine) {
			cp := *existing
			return &cp, nil
		}
	}
	return nil, nil
}

func sameYear(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (r *vehicleModelRepo) List(_ context.Context, f repository.VehicleModelFilter) ([]*entity.VehicleModel, error) {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []*entity.VehicleModel
	for _, m := range db.vehicleModels {
		if f.Make != "" && !matches(f.Make, m.Make) {
			continue
		}
		if f.Model != "" && !matches(f.Model, m.Model) {
			continue
		}
		if f.Year != nil && !m.CoversYear(*f.Year) {
			continue
		}
		if f.Active != nil && m.Active != *f.Active {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Make != b.Make {
			return a.Make < b.Make
		}
		if a.Model != b.Model {
			return a.Model < b.Model
		}
		return yearOrZero(a.YearFrom) > yearOrZero(b.YearFrom)
	})
	return out, nil
}

func yearOrZero(y *int) int {
	if y == nil {
		return 0
	}
	return *y
}

func (r *vehicleModelRepo) UpsertCompatibility(_ context.Context, c *entity.Compatibility) (bool, error) {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.products[c.ProductID]; !ok {
		return false, domain.ErrReferenceNotFound
	}
	if _, ok := db.vehicleModels[c.VehicleModelID]; !ok {
		return false, domain.ErrReferenceNotFound
	}
	key := compatKey{c.ProductID, c.VehicleModelID}
	_, existed := db.compat[key]
	db.compat[key] = *c
	return !existed, nil
}

func (r *vehicleModelRepo) GetCompatibility(_ context.Context, productID, modelID string) (*entity.Compatibility, error) {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	if c, ok := db.compat[compatKey{productID, modelID}]; ok {
		return &c, nil
	}
	return nil, nil
}

func (r *vehicleModelRepo) DeleteCompatibility(_ context.Context, productID, modelID string) (bool, error) {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	key := compatKey{productID, modelID}
	if _, ok := db.compat[key]; !ok {
		return false, nil
	}
	delete(db.compat, key)
	return true, nil
}

func (r *vehicleModelRepo) ListCompatibleProducts(_ context.Context, modelID string) ([]entity.CompatibleProduct, error) {
	db := (*DB)(r)
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []entity.CompatibleProduct
	for key, c := range db.compat {
		if key.model != modelID {
			continue
		}
		p, ok := db.products[key.product]
		if !ok {
			continue
		}
		out = append(out, entity.CompatibleProduct{Product: *p, Notes: c.Notes, Original: c.Original})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Product.Code < out[j].Product.Code })
	return out, nil
}
