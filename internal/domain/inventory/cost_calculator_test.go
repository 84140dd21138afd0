package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCostCalculator_PromedioPonderado(t *testing.T) {
	// 10 u a 4.00 + 10 u a 6.00 = 5.00
	got := CostCalculator(decimal.NewFromInt(10), decimal.NewFromInt(4), decimal.NewFromInt(10), decimal.NewFromInt(6))
	assert.True(t, got.Equal(decimal.NewFromInt(5)), "esperado 5, obtenido %s", got)
}

func TestCostCalculator_SinStockPrevioTomaCostoEntrada(t *testing.T) {
	got := AverageCostAfterReceipt(0, decimal.Zero, 10, decimal.RequireFromString("5.00"))
	assert.Equal(t, "5.0000", got.StringFixed(4))
}

func TestCostCalculator_CantidadTotalCero(t *testing.T) {
	got := CostCalculator(decimal.Zero, decimal.Zero, decimal.Zero, decimal.NewFromInt(9))
	assert.True(t, got.IsZero())
}

func TestAverageCostAfterReceipt_Redondea(t *testing.T) {
	// (3*1 + 1*2) / 4 = 1.25 ; (1*1 + 2*2)/3 = 1.6667
	assert.Equal(t, "1.2500", AverageCostAfterReceipt(3, decimal.NewFromInt(1), 1, decimal.NewFromInt(2)).StringFixed(4))
	assert.Equal(t, "1.6667", AverageCostAfterReceipt(1, decimal.NewFromInt(1), 2, decimal.NewFromInt(2)).StringFixed(4))
}
