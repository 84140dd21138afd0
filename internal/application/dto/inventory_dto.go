package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventario/movimientos (movimiento manual).
// Para "ajuste", Quantity es el stock absoluto resultante.
type RegisterMovementRequest struct {
	ProductID string `json:"producto_id" validate:"required,uuid"`
	Kind      string `json:"tipo" validate:"required,oneof=entrada salida ajuste"`
	Quantity  int    `json:"cantidad" validate:"min=0"`
	Reason    string `json:"motivo" validate:"max=255"`
}

// MovementResponse salida de un movimiento de inventario.
type MovementResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"producto_id"`
	Kind        string    `json:"tipo"`
	Quantity    int       `json:"cantidad"`
	Delta       int       `json:"delta"`
	StockBefore int       `json:"stock_anterior"`
	StockAfter  int       `json:"stock_nuevo"`
	Reason      string    `json:"motivo"`
	Source      string    `json:"origen"`
	ReferenceID *string   `json:"referencia_id,omitempty"`
	ActorID     string    `json:"usuario_id"`
	CreatedAt   time.Time `json:"fecha"`
}

// ReconcileResponse compara el stock del producto con la suma del libro de movimientos.
type ReconcileResponse struct {
	ProductID   string `json:"producto_id"`
	StockOnHand int    `json:"stock_actual"`
	LedgerSum   int    `json:"suma_movimientos"`
	Consistent  bool   `json:"consistente"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un producto en o bajo su stock mínimo.
type ReplenishmentSuggestionDTO struct {
	ProductID           string          `json:"producto_id"`
	Code                string          `json:"codigo"`
	Description         string          `json:"descripcion"`
	CurrentStock        int             `json:"stock_actual"`
	StockMinimum        int             `json:"stock_minimo"`
	IdealStock          int             `json:"stock_ideal"`       // StockMinimum * 1.5, redondeado hacia arriba
	SuggestedOrderQty   int             `json:"cantidad_sugerida"` // IdealStock - CurrentStock
	UnitCost            decimal.Decimal `json:"costo_unitario"`    // precio de compra vigente
	EstimatedOrderCost  decimal.Decimal `json:"costo_estimado"`    // SuggestedOrderQty * UnitCost
	GrossMarginPct      decimal.Decimal `json:"margen_bruto_pct"`  // (venta - costo) / venta
	UnitsSoldLast90Days int             `json:"unidades_vendidas_90d"`
	Priority            int             `json:"prioridad"` // 1 = más urgente
}
