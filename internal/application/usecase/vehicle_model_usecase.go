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

// VehicleModelUseCase modelos de vehículo y compatibilidad de repuestos.
type VehicleModelUseCase struct {
	models   repository.VehicleModelRepository
	products repository.ProductRepository
	now      func() time.Time
}

// NewVehicleModelUseCase construye el caso de uso.
func NewVehicleModelUseCase(models repository.VehicleModelRepository, products repository.ProductRepository) *VehicleModelUseCase {
	return &VehicleModelUseCase{models: models, products: products, now: time.Now}
}

// Create registra un modelo activo. Si ya existe uno con la misma marca, modelo, años y motor → domain.ErrDuplicate.
func (uc *VehicleModelUseCase) Create(ctx context.Context, in dto.CreateVehicleModelRequest) (*dto.VehicleModelResponse, error) {
	m := &entity.VehicleModel{
		Make:     strings.TrimSpace(in.Make),
		Model:    strings.TrimSpace(in.Model),
		YearFrom: in.YearFrom,
		YearTo:   in.YearTo,
		Engine:   strings.TrimSpace(in.Engine),
		Notes:    strings.TrimSpace(in.Notes),
		Active:   true,
	}
	if m.Make == "" || m.Model == "" {
		return nil, domain.ErrInvalidInput
	}
	if m.YearFrom != nil && m.YearTo != nil && *m.YearFrom > *m.YearTo {
		return nil, domain.ErrInvalidInput
	}
	same, err := uc.models.FindSame(ctx, m)
	if err != nil {
		return nil, err
	}
	if same != nil {
		return nil, domain.ErrDuplicate
	}
	m.ID = uuid.New().String()
	m.CreatedAt = uc.now()
	m.UpdatedAt = m.CreatedAt
	if err := uc.models.Create(ctx, m); err != nil {
		return nil, err
	}
	return toVehicleModelResponse(m), nil
}

// GetByID domain.ErrNotFound si no existe.
func (uc *VehicleModelUseCase) GetByID(ctx context.Context, id string) (*dto.VehicleModelResponse, error) {
	m, err := uc.models.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return toVehicleModelResponse(m), nil
}

func (uc *VehicleModelUseCase) List(ctx context.Context, f repository.VehicleModelFilter) ([]dto.VehicleModelResponse, error) {
	f.Make = strings.TrimSpace(f.Make)
	f.Model = strings.TrimSpace(f.Model)
	list, err := uc.models.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VehicleModelResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *toVehicleModelResponse(m))
	}
	return out, nil
}

// Associate crea la compatibilidad o actualiza la existente. Notas vacías y Original nil conservan lo anterior.
func (uc *VehicleModelUseCase) Associate(ctx context.Context, in dto.AssociateRequest) (*dto.CompatibilityResponse, error) {
	product, err := uc.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	model, err := uc.models.GetByID(ctx, in.VehicleModelID)
	if err != nil {
		return nil, err
	}
	if model == nil {
		return nil, domain.ErrNotFound
	}
	c := entity.Compatibility{ProductID: in.ProductID, VehicleModelID: in.VehicleModelID, Notes: strings.TrimSpace(in.Notes)}
	prev, err := uc.models.GetCompatibility(ctx, in.ProductID, in.VehicleModelID)
	if err != nil {
		return nil, err
	}
	if prev != nil {
		if c.Notes == "" {
			c.Notes = prev.Notes
		}
		c.Original = prev.Original
	}
	if in.Original != nil {
		c.Original = *in.Original
	}
	created, err := uc.models.UpsertCompatibility(ctx, &c)
	if err != nil {
		return nil, err
	}
	return &dto.CompatibilityResponse{
		ProductID:      c.ProductID,
		VehicleModelID: c.VehicleModelID,
		Notes:          c.Notes,
		Original:       c.Original,
		Created:        created,
	}, nil
}

// Dissociate elimina la compatibilidad; domain.ErrNotFound si no existía.
func (uc *VehicleModelUseCase) Dissociate(ctx context.Context, productID, modelID string) error {
	found, err := uc.models.DeleteCompatibility(ctx, productID, modelID)
	if err != nil {
		return err
	}
	if !found {
		return domain.ErrNotFound
	}
	return nil
}

// CompatibleProducts productos compatibles con el modelo; domain.ErrNotFound si el modelo no existe.
func (uc *VehicleModelUseCase) CompatibleProducts(ctx context.Context, modelID string) ([]dto.CompatibleProductResponse, error) {
	model, err := uc.models.GetByID(ctx, modelID)
	if err != nil {
		return nil, err
	}
	if model == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.models.ListCompatibleProducts(ctx, modelID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CompatibleProductResponse, 0, len(list))
	for _, cp := range list {
		out = append(out, dto.CompatibleProductResponse{
			ID:          cp.Product.ID,
			Code:        cp.Product.Code,
			Description: cp.Product.Description,
			SalePrice:   cp.Product.SalePrice,
			StockOnHand: cp.Product.StockOnHand,
			Notes:       cp.Notes,
			Original:    cp.Original,
		})
	}
	return out, nil
}

func toVehicleModelResponse(m *entity.VehicleModel) *dto.VehicleModelResponse {
	return &dto.VehicleModelResponse{
		ID:        m.ID,
		Make:      m.Make,
		Model:     m.Model,
		YearFrom:  m.YearFrom,
		YearTo:    m.YearTo,
		Engine:    m.Engine,
		Notes:     m.Notes,
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
	}
}
