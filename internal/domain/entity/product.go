package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultStockMinimum umbral de reorden cuando el producto no define uno.
const DefaultStockMinimum = 10

// Product representa un repuesto del catálogo.
// StockOnHand solo cambia a través de un StockMovement (nunca se escribe directo).
type Product struct {
	ID           string
	Code         string // código único
	Description  string
	CategoryID   *string
	BrandID      *string
	PurchaseCost decimal.Decimal // precio de compra, última compra gana
	SalePrice    decimal.Decimal // precio de venta
	AverageCost  decimal.Decimal // costo promedio ponderado de las entradas por compra
	StockOnHand  int
	StockMinimum int
	SupplierIDs  []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BelowMinimum indica si el producto está en o por debajo del umbral de reorden.
func (p *Product) BelowMinimum() bool {
	return p.StockOnHand <= p.StockMinimum
}
