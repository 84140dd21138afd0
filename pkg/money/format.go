// Package money formatea montos para mostrarlos al usuario.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Divisas cuyo símbolo va después del monto.
var suffixSymbol = map[string]bool{"EUR": true}

// Format devuelve el monto con 2 decimales en formato es (coma decimal) y el símbolo de la divisa.
// El euro lleva el símbolo al final ("12,50 €"); el resto al inicio ("$ 12,50").
func Format(amount decimal.Decimal, code, symbol string) string {
	f, _ := amount.Round(2).Float64()
	p := message.NewPrinter(language.Spanish)
	n := p.Sprint(number.Decimal(f, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
	if symbol == "" {
		symbol = strings.ToUpper(code)
	}
	if suffixSymbol[strings.ToUpper(code)] {
		return n + " " + symbol
	}
	return symbol + " " + n
}
