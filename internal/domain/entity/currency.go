package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/autopartes-api/internal/domain"
)

// CurrencyRate tasa de una divisa: o es la base (tasa 1) o está anclada a la base con una tasa > 0.
// Los campos no se exportan para que no exista una base con tasa distinta de 1 ni una divisa anclada sin tasa.
type CurrencyRate struct {
	base    bool
	perBase decimal.Decimal
}

// BaseRate tasa de la divisa principal.
func BaseRate() CurrencyRate {
	return CurrencyRate{base: true, perBase: decimal.NewFromInt(1)}
}

// PeggedRate tasa de una divisa no principal: unidades de la divisa por 1 unidad de la base.
func PeggedRate(perBase decimal.Decimal) (CurrencyRate, error) {
	if !perBase.IsPositive() {
		return CurrencyRate{}, domain.ErrInvalidAmount
	}
	return CurrencyRate{perBase: perBase}, nil
}

// IsBase indica si es la tasa de la divisa principal.
func (r CurrencyRate) IsBase() bool { return r.base }

// Value devuelve la tasa relativa a la base (1 para la base).
func (r CurrencyRate) Value() decimal.Decimal {
	if r.base {
		return decimal.NewFromInt(1)
	}
	return r.perBase
}

// Currency divisa con su tasa respecto a la divisa principal.
type Currency struct {
	ID        string
	Code      string // ISO: VES, USD, EUR, COP
	Name      string
	Symbol    string
	Rate      CurrencyRate
	Active    bool
	UpdatedAt time.Time
}

// IsBase indica si la divisa es la principal.
func (c *Currency) IsBase() bool { return c.Rate.IsBase() }

// ExchangeRate tasa respecto a la divisa principal.
func (c *Currency) ExchangeRate() decimal.Decimal { return c.Rate.Value() }

// UpdateRate cambia la tasa de una divisa no principal.
func (c *Currency) UpdateRate(perBase decimal.Decimal, now time.Time) error {
	if c.IsBase() {
		return domain.ErrInvalidCurrencyOperation
	}
	rate, err := PeggedRate(perBase)
	if err != nil {
		return err
	}
	c.Rate = rate
	c.UpdatedAt = now
	return nil
}

// SetActive activa o desactiva la divisa. La principal no se puede desactivar.
func (c *Currency) SetActive(active bool, now time.Time) error {
	if !active && c.IsBase() {
		return domain.ErrInvalidCurrencyOperation
	}
	c.Active = active
	c.UpdatedAt = now
	return nil
}

// NormalizeCurrencyCode normaliza el código para búsquedas (mayúsculas, sin espacios).
func NormalizeCurrencyCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
