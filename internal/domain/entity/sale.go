package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleStatus estado de una venta.
type SaleStatus string

const (
	SalePending   SaleStatus = "pendiente" // apartado: el stock ya está reservado
	SaleCompleted SaleStatus = "completada"
	SaleReturned  SaleStatus = "devuelta"
	SaleVoided    SaleStatus = "anulada"
)

// Valid indica si el estado es conocido.
func (s SaleStatus) Valid() bool {
	switch s {
	case SalePending, SaleCompleted, SaleReturned, SaleVoided:
		return true
	}
	return false
}

// Reversed indica si la venta ya devolvió su stock (anulada o devuelta).
func (s SaleStatus) Reversed() bool {
	return s == SaleVoided || s == SaleReturned
}

// SalesOrder venta a un cliente. Total = Σ(cantidad × precio) − descuento, en la divisa principal.
// Tax se guarda aparte; el total con impuesto es Total + Tax.
type SalesOrder struct {
	ID         string
	CustomerID string
	SellerID   string
	SaleDate   time.Time
	Status     SaleStatus
	Discount   decimal.Decimal
	Tax        decimal.Decimal
	Total      decimal.Decimal
	Currency   *CurrencySnapshot
	Lines      []SalesLine
	Returns    []SalesReturn
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SalesLine línea de venta. UnitPrice en la divisa principal.
type SalesLine struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// SalesReturn devolución (total o parcial) registrada sobre una venta completada.
type SalesReturn struct {
	ID        string
	SaleID    string
	Reason    string
	ActorID   string
	Lines     []SalesReturnLine
	CreatedAt time.Time
}

// SalesReturnLine cantidad devuelta de un producto.
type SalesReturnLine struct {
	ID        string
	ReturnID  string
	ProductID string
	Quantity  int
}

// ReturnedByProduct suma las cantidades devueltas por producto en todas las devoluciones.
func (o *SalesOrder) ReturnedByProduct() map[string]int {
	out := make(map[string]int)
	for _, r := range o.Returns {
		for _, l := range r.Lines {
			out[l.ProductID] += l.Quantity
		}
	}
	return out
}

// SoldByProduct suma las cantidades vendidas por producto.
func (o *SalesOrder) SoldByProduct() map[string]int {
	out := make(map[string]int)
	for _, l := range o.Lines {
		out[l.ProductID] += l.Quantity
	}
	return out
}
