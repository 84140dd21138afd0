// Package order contiene el cálculo de totales y las máquinas de estado de compras y ventas.
// Todo es puro: sin persistencia ni efectos de stock.
package order

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/autopartes-api/internal/domain"
	"github.com/jhoicas/autopartes-api/internal/domain/currency"
	"github.com/jhoicas/autopartes-api/internal/domain/entity"
)

// LineAmount cantidad y precio unitario de una línea.
type LineAmount struct {
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal cantidad × precio unitario, redondeado a 2 decimales.
func (l LineAmount) Subtotal() decimal.Decimal {
	return Round2(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
}

// Totals montos de una orden.
type Totals struct {
	Subtotal   decimal.Decimal // Σ(cantidad × precio)
	Discount   decimal.Decimal
	Tax        decimal.Decimal
	Total      decimal.Decimal // Subtotal − Discount
	GrandTotal decimal.Decimal // Total + Tax
}

// Round2 redondea a 2 decimales, mitad hacia arriba para montos no negativos.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ComputeTotals calcula los totales de una orden a partir de sus líneas.
func ComputeTotals(lines []LineAmount, discount, tax decimal.Decimal) (Totals, error) {
	if len(lines) == 0 {
		return Totals{}, domain.ErrInvalidInput
	}
	subtotal := decimal.Zero
	for _, l := range lines {
		if l.Quantity <= 0 {
			return Totals{}, domain.ErrInvalidQuantity
		}
		if l.UnitPrice.IsNegative() {
			return Totals{}, domain.ErrInvalidAmount
		}
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	subtotal = Round2(subtotal)
	discount = Round2(discount)
	tax = Round2(tax)
	if discount.IsNegative() || tax.IsNegative() || discount.GreaterThan(subtotal) {
		return Totals{}, domain.ErrInvalidAmount
	}
	total := subtotal.Sub(discount)
	return Totals{
		Subtotal:   subtotal,
		Discount:   discount,
		Tax:        tax,
		Total:      total,
		GrandTotal: total.Add(tax),
	}, nil
}

// Priced resultado de expresar las líneas de una orden en la divisa principal.
type Priced struct {
	Lines    []LineAmount // precios en la divisa principal
	Totals   Totals       // en la divisa principal (autoritativo)
	Snapshot *entity.CurrencySnapshot
}

// PriceInBase convierte las líneas (con precios en orderCurrency) a la divisa principal y calcula
// los totales. Si orderCurrency es nil o es la principal, no se guarda snapshot.
// discount y tax vienen en la misma divisa que las líneas.
func PriceInBase(lines []LineAmount, discount, tax decimal.Decimal, orderCurrency, base *entity.Currency) (Priced, error) {
	if orderCurrency == nil || orderCurrency.IsBase() {
		totals, err := ComputeTotals(lines, discount, tax)
		if err != nil {
			return Priced{}, err
		}
		return Priced{Lines: lines, Totals: totals}, nil
	}

	original, err := ComputeTotals(lines, discount, tax)
	if err != nil {
		return Priced{}, err
	}

	toBase := func(amount decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
		conv, err := currency.Convert(amount, orderCurrency, base)
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		return conv.Rounded(), conv.AppliedRate, nil
	}

	baseLines := make([]LineAmount, len(lines))
	var applied decimal.Decimal
	for i, l := range lines {
		price, rate, err := toBase(l.UnitPrice)
		if err != nil {
			return Priced{}, err
		}
		applied = rate
		baseLines[i] = LineAmount{Quantity: l.Quantity, UnitPrice: price}
	}
	baseDiscount, _, err := toBase(original.Discount)
	if err != nil {
		return Priced{}, err
	}
	baseTax, _, err := toBase(original.Tax)
	if err != nil {
		return Priced{}, err
	}
	baseSubtotal := decimal.Zero
	for _, l := range baseLines {
		baseSubtotal = baseSubtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	// el redondeo por línea puede dejar el descuento convertido un centavo por encima del subtotal
	if baseDiscount.GreaterThan(Round2(baseSubtotal)) {
		baseDiscount = Round2(baseSubtotal)
	}
	totals, err := ComputeTotals(baseLines, baseDiscount, baseTax)
	if err != nil {
		return Priced{}, err
	}
	return Priced{
		Lines:  baseLines,
		Totals: totals,
		Snapshot: &entity.CurrencySnapshot{
			CurrencyID:    orderCurrency.ID,
			CurrencyCode:  orderCurrency.Code,
			AppliedRate:   applied,
			OriginalTotal: original.Total,
		},
	}, nil
}
