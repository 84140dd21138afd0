package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. InitialStock se registra como movimiento.
type CreateProductRequest struct {
	Code         string          `json:"codigo" validate:"required,min=1,max=50"`
	Description  string          `json:"descripcion" validate:"required,min=1,max=255"`
	CategoryID   *string         `json:"categoria_id" validate:"omitempty,uuid"`
	BrandID      *string         `json:"marca_id" validate:"omitempty,uuid"`
	PurchaseCost decimal.Decimal `json:"precio_compra"`
	SalePrice    decimal.Decimal `json:"precio_venta"`
	InitialStock int             `json:"stock_inicial" validate:"min=0"`
	StockMinimum *int            `json:"stock_minimo" validate:"omitempty,min=0"`
}

// UpdateProductRequest entrada para actualizar un producto (sin stock ni costo promedio).
type UpdateProductRequest struct {
	Description  *string          `json:"descripcion" validate:"omitempty,min=1,max=255"`
	CategoryID   *string          `json:"categoria_id" validate:"omitempty,uuid"`
	BrandID      *string          `json:"marca_id" validate:"omitempty,uuid"`
	PurchaseCost *decimal.Decimal `json:"precio_compra"`
	SalePrice    *decimal.Decimal `json:"precio_venta"`
	StockMinimum *int             `json:"stock_minimo" validate:"omitempty,min=0"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	Code         string          `json:"codigo"`
	Description  string          `json:"descripcion"`
	CategoryID   *string         `json:"categoria_id,omitempty"`
	BrandID      *string         `json:"marca_id,omitempty"`
	PurchaseCost decimal.Decimal `json:"precio_compra"`
	SalePrice    decimal.Decimal `json:"precio_venta"`
	AverageCost  decimal.Decimal `json:"costo_promedio"`
	StockOnHand  int             `json:"stock_actual"`
	StockMinimum int             `json:"stock_minimo"`
	SupplierIDs  []string        `json:"proveedores,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
