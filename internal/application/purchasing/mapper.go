package purchasing

import (
	"github.com/jhoicas/autopartes-api/internal/application/dto"
	"github.com/jhoicas/autopartes-api/internal/domain/entity"
)

// ToPurchaseResponse mapea la compra (con sus líneas, si se cargaron) al DTO de salida.
func ToPurchaseResponse(p *entity.PurchaseOrder) dto.PurchaseResponse {
	out := dto.PurchaseResponse{
		ID:         p.ID,
		SupplierID: p.SupplierID,
		OrderDate:  p.OrderDate,
		Status:     string(p.Status),
		Total:      p.Total,
		Currency:   ToSnapshotResponse(p.Currency),
		CreatedBy:  p.CreatedBy,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	for _, l := range p.Lines {
		out.Lines = append(out.Lines, dto.OrderLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal,
		})
	}
	return out
}

// ToSnapshotResponse nil si la orden no guardó divisa.
func ToSnapshotResponse(s *entity.CurrencySnapshot) *dto.CurrencySnapshotResponse {
	if s == nil {
		return nil
	}
	return &dto.CurrencySnapshotResponse{
		CurrencyID:    s.CurrencyID,
		CurrencyCode:  s.CurrencyCode,
		AppliedRate:   s.AppliedRate,
		OriginalTotal: s.OriginalTotal,
	}
}
