package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseStatus estado de una compra.
type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "pendiente"
	PurchaseCompleted PurchaseStatus = "completada"
	PurchaseCancelled PurchaseStatus = "cancelada"
)

// Valid indica si el estado es conocido.
func (s PurchaseStatus) Valid() bool {
	switch s {
	case PurchasePending, PurchaseCompleted, PurchaseCancelled:
		return true
	}
	return false
}

// CurrencySnapshot divisa y tasa vigentes cuando se registró la orden. Es informativo:
// el total en la divisa principal es el autoritativo.
type CurrencySnapshot struct {
	CurrencyID    string
	CurrencyCode  string
	AppliedRate   decimal.Decimal // tasa aplicada de la divisa de la orden a la principal
	OriginalTotal decimal.Decimal // total en la divisa de la orden
}

// PurchaseOrder compra a un proveedor. Total está en la divisa principal.
type PurchaseOrder struct {
	ID         string
	SupplierID string
	OrderDate  time.Time
	Status     PurchaseStatus
	Total      decimal.Decimal
	Currency   *CurrencySnapshot
	CreatedBy  string
	Lines      []PurchaseLine
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PurchaseLine línea de compra. UnitPrice en la divisa principal.
type PurchaseLine struct {
	ID         string
	PurchaseID string
	ProductID  string
	Quantity   int
	UnitPrice  decimal.Decimal
	Subtotal   decimal.Decimal
}
