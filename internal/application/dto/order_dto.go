package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineRequest línea de compra o venta. UnitPrice en la divisa de la orden.
type OrderLineRequest struct {
	ProductID string          `json:"producto_id" validate:"required,uuid"`
	Quantity  int             `json:"cantidad" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"precio_unitario"`
}

// CreatePurchaseRequest body para POST /api/compras.
type CreatePurchaseRequest struct {
	SupplierID   string             `json:"proveedor_id" validate:"required,uuid"`
	OrderDate    *time.Time         `json:"fecha_compra"`
	Status       string             `json:"estado" validate:"omitempty,oneof=pendiente completada"`
	CurrencyCode string             `json:"divisa" validate:"omitempty,min=3,max=10"`
	Lines        []OrderLineRequest `json:"productos" validate:"required,min=1,dive"`
}

// CreateSaleRequest body para POST /api/ventas.
type CreateSaleRequest struct {
	CustomerID   string             `json:"cliente_id" validate:"required,uuid"`
	SaleDate     *time.Time         `json:"fecha_venta"`
	Status       string             `json:"estado" validate:"omitempty,oneof=pendiente completada"`
	Discount     decimal.Decimal    `json:"descuento"`
	Tax          decimal.Decimal    `json:"iva"`
	CurrencyCode string             `json:"divisa" validate:"omitempty,min=3,max=10"`
	Lines        []OrderLineRequest `json:"productos" validate:"required,min=1,dive"`
}

// ChangeStatusRequest body para PUT /:id/estado.
type ChangeStatusRequest struct {
	Status string `json:"estado" validate:"required"`
}

// ReturnLineRequest producto y cantidad devuelta.
type ReturnLineRequest struct {
	ProductID string `json:"producto_id" validate:"required,uuid"`
	Quantity  int    `json:"cantidad" validate:"required,gt=0"`
}

// ReturnRequest body para POST /api/ventas/:id/devolucion.
type ReturnRequest struct {
	Lines  []ReturnLineRequest `json:"productos_devueltos" validate:"required,min=1,dive"`
	Reason string              `json:"motivo" validate:"max=255"`
}

// OrderLineResponse línea de una orden (precio en la divisa principal).
type OrderLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"producto_id"`
	Quantity  int             `json:"cantidad"`
	UnitPrice decimal.Decimal `json:"precio_unitario"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CurrencySnapshotResponse divisa y tasa de la orden.
type CurrencySnapshotResponse struct {
	CurrencyID    string          `json:"divisa_id"`
	CurrencyCode  string          `json:"divisa"`
	AppliedRate   decimal.Decimal `json:"tasa_cambio_aplicada"`
	OriginalTotal decimal.Decimal `json:"monto_total_divisa_original"`
}

// PurchaseResponse salida de una compra.
type PurchaseResponse struct {
	ID         string                    `json:"id"`
	SupplierID string                    `json:"proveedor_id"`
	OrderDate  time.Time                 `json:"fecha_compra"`
	Status     string                    `json:"estado"`
	Total      decimal.Decimal           `json:"monto_total"`
	Currency   *CurrencySnapshotResponse `json:"divisa,omitempty"`
	CreatedBy  string                    `json:"usuario_id"`
	Lines      []OrderLineResponse       `json:"productos,omitempty"`
	CreatedAt  time.Time                 `json:"created_at"`
	UpdatedAt  time.Time                 `json:"updated_at"`
}

// ReturnLineResponse cantidad devuelta de un producto.
type ReturnLineResponse struct {
	ProductID string `json:"producto_id"`
	Quantity  int    `json:"cantidad"`
}

// ReturnResponse devolución registrada sobre una venta.
type ReturnResponse struct {
	ID        string               `json:"id"`
	Reason    string               `json:"motivo"`
	ActorID   string               `json:"usuario_id"`
	Lines     []ReturnLineResponse `json:"productos"`
	CreatedAt time.Time            `json:"fecha"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID         string                    `json:"id"`
	CustomerID string                    `json:"cliente_id"`
	SellerID   string                    `json:"usuario_id"`
	SaleDate   time.Time                 `json:"fecha_venta"`
	Status     string                    `json:"estado"`
	Discount   decimal.Decimal           `json:"descuento"`
	Tax        decimal.Decimal           `json:"iva"`
	Total      decimal.Decimal           `json:"monto_total"`
	GrandTotal decimal.Decimal           `json:"monto_total_con_iva"`
	Currency   *CurrencySnapshotResponse `json:"divisa,omitempty"`
	Lines      []OrderLineResponse       `json:"productos,omitempty"`
	Returns    []ReturnResponse          `json:"devoluciones,omitempty"`
	CreatedAt  time.Time                 `json:"created_at"`
	UpdatedAt  time.Time                 `json:"updated_at"`
}

// OrderListQuery filtros de listado de compras/ventas.
type OrderListQuery struct {
	PageRequest
	Status     string `query:"estado"`
	SupplierID string `query:"proveedor_id" validate:"omitempty,uuid"`
	CustomerID string `query:"cliente_id" validate:"omitempty,uuid"`
	SellerID   string `query:"usuario_id" validate:"omitempty,uuid"`
}
