package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/autopartes-api/internal/application/dto"
	"github.com/jhoicas/autopartes-api/internal/domain"
	"github.com/jhoicas/autopartes-api/internal/domain/entity"
	"github.com/jhoicas/autopartes-api/internal/domain/repository"
)

// CatalogUseCase categorías y marcas referenciadas por los productos.
type CatalogUseCase struct {
	categories repository.CategoryRepository
	brands     repository.BrandRepository
	now        func() time.Time
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(categories repository.CategoryRepository, brands repository.BrandRepository) *CatalogUseCase {
	return &CatalogUseCase{categories: categories, brands: brands, now: time.Now}
}

// CreateCategory registra una categoría. Nombre repetido (sin distinguir mayúsculas) → domain.ErrDuplicate.
func (uc *CatalogUseCase) CreateCategory(ctx context.Context, in dto.CreateNamedRequest) (*dto.NamedResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.categories.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	c := &entity.Category{ID: uuid.New().String(), Name: name, CreatedAt: uc.now()}
	if err := uc.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return &dto.NamedResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}, nil
}

func (uc *CatalogUseCase) ListCategories(ctx context.Context) ([]dto.NamedResponse, error) {
	list, err := uc.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NamedResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.NamedResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt})
	}
	return out, nil
}

// CreateBrand registra una marca de repuestos.
func (uc *CatalogUseCase) CreateBrand(ctx context.Context, in dto.CreateNamedRequest) (*dto.NamedResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.brands.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	b := &entity.Brand{ID: uuid.New().String(), Name: name, CreatedAt: uc.now()}
	if err := uc.brands.Create(ctx, b); err != nil {
		return nil, err
	}
	return &dto.NamedResponse{ID: b.ID, Name: b.Name, CreatedAt: b.CreatedAt}, nil
}

func (uc *CatalogUseCase) ListBrands(ctx context.Context) ([]dto.NamedResponse, error) {
	list, err := uc.brands.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NamedResponse, 0, len(list))
	for _, b := range list {
		out = append(out, dto.NamedResponse{ID: b.ID, Name: b.Name, CreatedAt: b.CreatedAt})
	}
	return out, nil
}
