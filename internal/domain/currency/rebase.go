package currency

import (
	"time"

	"github.com/jhoicas/autopartes-api/internal/domain"
	"github.com/jhoicas/autopartes-api/internal/domain/entity"
)

// Rebase designa newBaseID como divisa principal y reexpresa todas las tasas respecto a ella:
// rate_i' = rate_i / rate_nuevaBase. La base anterior queda anclada con 1 / rate_nuevaBase.
// Modifica las divisas in place; el llamador persiste todas en la misma transacción.
func Rebase(currencies []*entity.Currency, newBaseID string, now time.Time) error {
	var target *entity.Currency
	for _, c := range currencies {
		if c.ID == newBaseID {
			target = c
			break
		}
	}
	if target == nil {
		return domain.ErrCurrencyNotFound
	}
	if !target.Active {
		return domain.ErrInvalidCurrencyOperation
	}
	if target.IsBase() {
		return nil
	}

	pivot := target.ExchangeRate()
	for _, c := range currencies {
		if c.ID == newBaseID {
			continue
		}
		rate, err := entity.PeggedRate(c.ExchangeRate().Div(pivot))
		if err != nil {
			return err
		}
		c.Rate = rate
		c.UpdatedAt = now
	}
	target.Rate = entity.BaseRate()
	target.UpdatedAt = now
	return nil
}
