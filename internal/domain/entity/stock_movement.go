package entity

import "time"

// MovementKind tipo de movimiento de inventario.
type MovementKind string

const (
	MovementInflow     MovementKind = "entrada"
	MovementOutflow    MovementKind = "salida"
	MovementAdjustment MovementKind = "ajuste" // Quantity es el stock absoluto resultante
)

// Valid indica si el tipo es uno de los soportados.
func (k MovementKind) Valid() bool {
	switch k {
	case MovementInflow, MovementOutflow, MovementAdjustment:
		return true
	}
	return false
}

// MovementSource contexto que originó el movimiento. Permite consultar reversiones sin parsear Reason.
type MovementSource string

const (
	SourceManual           MovementSource = "manual"
	SourceInitialStock     MovementSource = "stock_inicial"
	SourcePurchase         MovementSource = "compra"
	SourcePurchaseReversal MovementSource = "reversion_compra"
	SourceSale             MovementSource = "venta"
	SourceLayaway          MovementSource = "apartado"
	SourceSaleVoid         MovementSource = "anulacion_venta"
	SourceSaleReturn       MovementSource = "devolucion_venta"
)

// StockMovement entrada inmutable del libro de inventario.
// Delta es el cambio firmado aplicado al stock; para ajustes puede ser negativo o cero.
type StockMovement struct {
	ID          string
	ProductID   string
	Kind        MovementKind
	Quantity    int
	Delta       int
	StockBefore int
	StockAfter  int
	Reason      string
	Source      MovementSource
	ReferenceID *string // ID de la compra o venta, si aplica
	ActorID     string
	CreatedAt   time.Time
}
