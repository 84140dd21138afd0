package postgres

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/autopartes-api/internal/domain/entity"
)

// snapshotColumns columnas nulas de la divisa congelada en compras y ventas.
type snapshotColumns struct {
	CurrencyID    *string
	CurrencyCode  *string
	AppliedRate   *decimal.Decimal
	OriginalTotal *decimal.Decimal
}

func snapshotArgs(s *entity.CurrencySnapshot) snapshotColumns {
	if s == nil {
		return snapshotColumns{}
	}
	return snapshotColumns{
		CurrencyID:    &s.CurrencyID,
		CurrencyCode:  &s.CurrencyCode,
		AppliedRate:   &s.AppliedRate,
		OriginalTotal: &s.OriginalTotal,
	}
}

func (c *snapshotColumns) dest() []any {
	return []any{&c.CurrencyID, &c.CurrencyCode, &c.AppliedRate, &c.OriginalTotal}
}

// toEntity nil cuando la orden se registró directamente en la divisa principal sin conversión.
func (c *snapshotColumns) toEntity() *entity.CurrencySnapshot {
	if c.CurrencyID == nil || c.AppliedRate == nil {
		return nil
	}
	s := &entity.CurrencySnapshot{CurrencyID: *c.CurrencyID, AppliedRate: *c.AppliedRate}
	if c.CurrencyCode != nil {
		s.CurrencyCode = *c.CurrencyCode
	}
	if c.OriginalTotal != nil {
		s.OriginalTotal = *c.OriginalTotal
	}
	return s
}
