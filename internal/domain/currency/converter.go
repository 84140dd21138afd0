// Package currency contiene el motor de conversión entre divisas (servicio de dominio puro).
// Toda conversión pasa por la divisa principal.
package currency

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/autopartes-api/internal/domain"
	"github.com/jhoicas/autopartes-api/internal/domain/entity"
)

var one = decimal.NewFromInt(1)

// Conversion resultado de convertir un monto.
type Conversion struct {
	Amount      decimal.Decimal // sin redondear
	AppliedRate decimal.Decimal
}

// Rounded devuelve el monto convertido a 2 decimales (half-up).
func (c Conversion) Rounded() decimal.Decimal {
	return c.Amount.Round(2)
}

// Convert convierte amount de la divisa from a la divisa to.
// amountBase = amount / from.rate (o amount si from es la base); result = amountBase * to.rate (o amountBase si to es la base).
func Convert(amount decimal.Decimal, from, to *entity.Currency) (Conversion, error) {
	if amount.IsNegative() {
		return Conversion{}, domain.ErrInvalidAmount
	}
	if from == nil || to == nil {
		return Conversion{}, domain.ErrCurrencyNotFound
	}
	if from.ID == to.ID && from.ID != "" {
		return Conversion{Amount: amount, AppliedRate: one}, nil
	}

	fromRate := from.ExchangeRate()
	toRate := to.ExchangeRate()

	amountBase := amount
	if !from.IsBase() {
		amountBase = amount.Div(fromRate)
	}
	result := amountBase
	if !to.IsBase() {
		result = amountBase.Mul(toRate)
	}

	var applied decimal.Decimal
	switch {
	case to.IsBase() && from.IsBase():
		applied = one
	case to.IsBase():
		applied = one.Div(fromRate)
	case from.IsBase():
		applied = toRate
	default:
		applied = toRate.Div(fromRate)
	}
	return Conversion{Amount: result, AppliedRate: applied}, nil
}
