package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/autopartes-api/internal/application/dto"
	"github.com/jhoicas/autopartes-api/internal/domain/repository"
	"github.com/jhoicas/autopartes-api/pkg/logger"
)

// ReplenishmentUseCase genera la lista de reposición: productos en o bajo su stock mínimo,
// priorizados por margen y volumen de ventas recientes.
type ReplenishmentUseCase struct {
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	log         *logger.Logger
	now         func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso de reposición. log puede ser nil.
func NewReplenishmentUseCase(productRepo repository.ProductRepository, saleRepo repository.SaleRepository, log *logger.Logger) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{productRepo: productRepo, saleRepo: saleRepo, log: logger.OrNop(log), now: time.Now}
}

// GenerateReplenishmentList devuelve los productos con stock bajo con la cantidad sugerida de pedido.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	products, err := uc.productRepo.ListBelowMinimum(ctx)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	// Unidades vendidas en los últimos 90 días; si falla se prioriza solo por margen.
	sold, err := uc.saleRepo.UnitsSoldSince(ctx, uc.now().AddDate(0, 0, -90))
	if err != nil {
		uc.log.Warn().Err(err).Int("productos", len(products)).
			Msg("no se pudieron leer las ventas recientes; reposición sin volumen de ventas")
		sold = map[string]int{}
	}

	hundred := decimal.NewFromInt(100)
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(products))
	for _, p := range products {
		ideal := int(decimal.NewFromInt(int64(p.StockMinimum)).Mul(decimal.NewFromFloat(1.5)).Ceil().IntPart())
		suggested := ideal - p.StockOnHand
		if suggested < 0 {
			suggested = 0
		}
		var margin decimal.Decimal
		if p.SalePrice.GreaterThan(decimal.Zero) {
			margin = p.SalePrice.Sub(p.PurchaseCost).Div(p.SalePrice).Mul(hundred).Round(2)
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:           p.ID,
			Code:                p.Code,
			Description:         p.Description,
			CurrentStock:        p.StockOnHand,
			StockMinimum:        p.StockMinimum,
			IdealStock:          ideal,
			SuggestedOrderQty:   suggested,
			UnitCost:            p.PurchaseCost,
			EstimatedOrderCost:  p.PurchaseCost.Mul(decimal.NewFromInt(int64(suggested))).Round(2),
			GrossMarginPct:      margin,
			UnitsSoldLast90Days: sold[p.ID],
		})
	}

	// Orden: mayor margen, luego mayor volumen de ventas, luego mayor déficit.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if !a.GrossMarginPct.Equal(b.GrossMarginPct) {
			return a.GrossMarginPct.GreaterThan(b.GrossMarginPct)
		}
		if a.UnitsSoldLast90Days != b.UnitsSoldLast90Days {
			return a.UnitsSoldLast90Days > b.UnitsSoldLast90Days
		}
		return a.StockMinimum-a.CurrentStock > b.StockMinimum-b.CurrentStock
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
