package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/autopartes-api/internal/application/dto"
	"github.com/jhoicas/autopartes-api/internal/application/inventory"
	"github.com/jhoicas/autopartes-api/internal/application/ports"
	"github.com/jhoicas/autopartes-api/internal/domain"
	"github.com/jhoicas/autopartes-api/internal/domain/entity"
	"github.com/jhoicas/autopartes-api/internal/domain/repository"
)

// ProductUseCase casos de uso de catálogo de productos. El stock y el costo promedio se manejan vía movimientos.
type ProductUseCase struct {
	txRunner   ports.TxRunner
	repo       repository.ProductRepository
	ledger     *inventory.StockLedger
	defaultMin int
	now        func() time.Time
}

// NewProductUseCase construye el caso de uso. defaultMin es el stock mínimo si el request no lo indica.
func NewProductUseCase(txRunner ports.TxRunner, repo repository.ProductRepository, ledger *inventory.StockLedger, defaultMin int) *ProductUseCase {
	if defaultMin <= 0 {
		defaultMin = entity.DefaultStockMinimum
	}
	return &ProductUseCase{txRunner: txRunner, repo: repo, ledger: ledger, defaultMin: defaultMin, now: time.Now}
}

// Create crea un producto. El stock inicial se registra como movimiento de entrada para que el libro cuadre.
func (uc *ProductUseCase) Create(ctx context.Context, actorID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" || in.InitialStock < 0 || in.PurchaseCost.IsNegative() || in.SalePrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	minimum := uc.defaultMin
	if in.StockMinimum != nil {
		if *in.StockMinimum < 0 {
			return nil, domain.ErrInvalidInput
		}
		minimum = *in.StockMinimum
	}
	now := uc.now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		Code:         code,
		Description:  strings.TrimSpace(in.Description),
		CategoryID:   in.CategoryID,
		BrandID:      in.BrandID,
		PurchaseCost: in.PurchaseCost,
		SalePrice:    in.SalePrice,
		AverageCost:  in.PurchaseCost,
		StockMinimum: minimum,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err := uc.txRunner.Run(ctx, func(store ports.Store) error {
		existing, err := store.Products.GetByCode(ctx, code)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		if err := store.Products.Create(ctx, product); err != nil {
			return err
		}
		if in.InitialStock == 0 {
			return nil
		}
		_, err = uc.ledger.PostMovementInTx(ctx, store, inventory.MovementInput{
			ProductID: product.ID,
			Kind:      entity.MovementInflow,
			Quantity:  in.InitialStock,
			Reason:    "Stock inicial",
			Source:    entity.SourceInitialStock,
			ActorID:   actorID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	product.StockOnHand = in.InitialStock
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID. Devuelve domain.ErrProductNotFound si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza datos de catálogo. No permite modificar stock ni costo promedio.
// La fila queda bloqueada durante la lectura y escritura para no pisar el costo que registre una recepción concurrente.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if in.PurchaseCost != nil && in.PurchaseCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.SalePrice != nil && in.SalePrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.StockMinimum != nil && *in.StockMinimum < 0 {
		return nil, domain.ErrInvalidInput
	}
	var product *entity.Product
	err := uc.txRunner.Run(ctx, func(store ports.Store) error {
		p, err := store.Products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if in.Description != nil {
			p.Description = strings.TrimSpace(*in.Description)
		}
		if in.CategoryID != nil {
			p.CategoryID = in.CategoryID
		}
		if in.BrandID != nil {
			p.BrandID = in.BrandID
		}
		if in.PurchaseCost != nil {
			p.PurchaseCost = *in.PurchaseCost
		}
		if in.SalePrice != nil {
			p.SalePrice = *in.SalePrice
		}
		if in.StockMinimum != nil {
			p.StockMinimum = *in.StockMinimum
		}
		p.UpdatedAt = uc.now()
		if err := store.Products.Update(ctx, p); err != nil {
			return err
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// LowStock productos con stock igual o por debajo del mínimo.
func (uc *ProductUseCase) LowStock(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.repo.ListBelowMinimum(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toProductResponse(p))
	}
	return out, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		Code:         p.Code,
		Description:  p.Description,
		CategoryID:   p.CategoryID,
		BrandID:      p.BrandID,
		PurchaseCost: p.PurchaseCost,
		SalePrice:    p.SalePrice,
		AverageCost:  p.AverageCost,
		StockOnHand:  p.StockOnHand,
		StockMinimum: p.StockMinimum,
		SupplierIDs:  p.SupplierIDs,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
