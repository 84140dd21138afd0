package money

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat_SimboloAntesDelMonto(t *testing.T) {
	got := Format(decimal.RequireFromString("12.5"), "USD", "$")
	assert.Equal(t, "$ 12,50", got)
}

func TestFormat_EuroSimboloAlFinal(t *testing.T) {
	got := Format(decimal.RequireFromString("7"), "eur", "€")
	assert.Equal(t, "7,00 €", got)
}

func TestFormat_RedondeaADosDecimales(t *testing.T) {
	got := Format(decimal.RequireFromString("229.885"), "VES", "Bs.")
	assert.True(t, strings.HasPrefix(got, "Bs. "), got)
	assert.True(t, strings.HasSuffix(got, ",89"), got)
}

func TestFormat_SinSimboloUsaCodigo(t *testing.T) {
	got := Format(decimal.NewFromInt(3), "cop", "")
	assert.Equal(t, "COP 3,00", got)
}
