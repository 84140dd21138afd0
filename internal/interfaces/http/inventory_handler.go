package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/autopartes-api/internal/application/dto"
	"github.com/jhoicas/autopartes-api/internal/application/inventory"
	"github.com/jhoicas/autopartes-api/internal/application/usecase"
	"github.com/jhoicas/autopartes-api/internal/domain"
	"github.com/jhoicas/autopartes-api/pkg/logger"
)

// InventoryHandler movimientos manuales, historial, conciliación y alertas de stock.
type InventoryHandler struct {
	ledger        *inventory.StockLedger
	products      *usecase.ProductUseCase
	replenishment *inventory.ReplenishmentUseCase
	log           *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	ledger *inventory.StockLedger,
	products *usecase.ProductUseCase,
	replenishment *inventory.ReplenishmentUseCase,
	log *logger.Logger,
) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, products: products, replenishment: replenishment, log: logger.OrNop(log)}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento manual de inventario
// @Tags         inventario
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "producto_id, tipo (entrada|salida|ajuste), cantidad, motivo"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventario/movimientos [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return nil
	}
	var in dto.RegisterMovementRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	out, err := h.ledger.RegisterMovementFromRequest(c.UserContext(), userID, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Movements historial del producto, más reciente primero.
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	productID, ok := pathID(c, h.log, "productId", domain.ErrProductNotFound)
	if !ok {
		return nil
	}
	page := pageFromQuery(c)
	list, err := h.ledger.Movements(c.UserContext(), productID, page.Limit, page.Offset)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, inventory.ToMovementResponse(m))
	}
	return c.JSON(out)
}

// Reconcile compara stock_actual con la suma del libro.
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	productID, ok := pathID(c, h.log, "productId", domain.ErrProductNotFound)
	if !ok {
		return nil
	}
	res, err := h.ledger.Reconcile(c.UserContext(), productID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ReconcileResponse{
		ProductID:   res.ProductID,
		StockOnHand: res.StockOnHand,
		LedgerSum:   res.LedgerSum,
		Consistent:  res.Consistent,
	})
}

// LowStock productos en o bajo su stock mínimo.
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.products.LowStock(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición sugerida
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Router       /api/inventario/reposicion [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	out, err := h.replenishment.GenerateReplenishmentList(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
