package sales

import (
	"github.com/jhoicas/autopartes-api/internal/application/dto"
	"github.com/jhoicas/autopartes-api/internal/domain/entity"
)

// ToSaleResponse mapea la venta con sus líneas y devoluciones al DTO de salida.
func ToSaleResponse(s *entity.SalesOrder) dto.SaleResponse {
	out := dto.SaleResponse{
		ID:         s.ID,
		CustomerID: s.CustomerID,
		SellerID:   s.SellerID,
		SaleDate:   s.SaleDate,
		Status:     string(s.Status),
		Discount:   s.Discount,
		Tax:        s.Tax,
		Total:      s.Total,
		GrandTotal: s.Total.Add(s.Tax),
		Currency:   snapshotResponse(s.Currency),
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
	for _, l := range s.Lines {
		out.Lines = append(out.Lines, dto.OrderLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal,
		})
	}
	for _, r := range s.Returns {
		ret := dto.ReturnResponse{ID: r.ID, Reason: r.Reason, ActorID: r.ActorID, CreatedAt: r.CreatedAt}
		for _, l := range r.Lines {
			ret.Lines = append(ret.Lines, dto.ReturnLineResponse{ProductID: l.ProductID, Quantity: l.Quantity})
		}
		out.Returns = append(out.Returns, ret)
	}
	return out
}

func snapshotResponse(s *entity.CurrencySnapshot) *dto.CurrencySnapshotResponse {
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
