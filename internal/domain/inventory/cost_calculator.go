package inventory

import "github.com/shopspring/decimal"

// CostCalculator costo promedio ponderado tras una entrada por compra (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func CostCalculator(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	sum := stockActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum)
}

// AverageCostAfterReceipt aplica CostCalculator con cantidades enteras y redondea a 4 decimales.
func AverageCostAfterReceipt(stock int, currentAvg decimal.Decimal, received int, unitCost decimal.Decimal) decimal.Decimal {
	if stock < 0 {
		stock = 0
	}
	return CostCalculator(
		decimal.NewFromInt(int64(stock)), currentAvg,
		decimal.NewFromInt(int64(received)), unitCost,
	).Round(4)
}
