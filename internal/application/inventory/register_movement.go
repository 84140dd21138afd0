package inventory

import (
	"context"

	"github.com/jhoicas/autopartes-api/internal/application/dto"
	"github.com/jhoicas/autopartes-api/internal/domain"
	"github.com/jhoicas/autopartes-api/internal/domain/entity"
)

// Motivos por defecto de movimientos manuales.
const (
	defaultManualReason     = "Movimiento manual"
	defaultAdjustmentReason = "Ajuste de inventario"
)

// RegisterMovementFromRequest adapta el request HTTP de movimiento manual al libro de inventario.
// Usar desde handlers HTTP; las compras y ventas llaman PostMovementInTx directamente.
func (l *StockLedger) RegisterMovementFromRequest(ctx context.Context, actorID string, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	if actorID == "" {
		return nil, domain.ErrUnauthorized
	}
	kind := entity.MovementKind(in.Kind)
	reason := in.Reason
	if reason == "" {
		reason = defaultManualReason
		if kind == entity.MovementAdjustment {
			reason = defaultAdjustmentReason
		}
	}
	mov, err := l.PostMovement(ctx, MovementInput{
		ProductID: in.ProductID,
		Kind:      kind,
		Quantity:  in.Quantity,
		Reason:    reason,
		Source:    entity.SourceManual,
		ActorID:   actorID,
	})
	if err != nil {
		return nil, err
	}
	out := ToMovementResponse(mov)
	return &out, nil
}

// ToMovementResponse mapea la entidad al DTO de salida.
func ToMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		Kind:        string(m.Kind),
		Quantity:    m.Quantity,
		Delta:       m.Delta,
		StockBefore: m.StockBefore,
		StockAfter:  m.StockAfter,
		Reason:      m.Reason,
		Source:      string(m.Source),
		ReferenceID: m.ReferenceID,
		ActorID:     m.ActorID,
		CreatedAt:   m.CreatedAt,
	}
}
