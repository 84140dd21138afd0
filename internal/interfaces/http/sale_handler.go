package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/autopartes-api/internal/application/dto"
	"github.com/jhoicas/autopartes-api/internal/application/sales"
	"github.com/jhoicas/autopartes-api/internal/domain"
	"github.com/jhoicas/autopartes-api/internal/domain/entity"
	"github.com/jhoicas/autopartes-api/internal/domain/repository"
	"github.com/jhoicas/autopartes-api/pkg/logger"
)

// SaleHandler ventas: alta, completar apartado, anular, devolver y consultas.
type SaleHandler struct {
	uc  *sales.UseCase
	log *logger.Logger
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.UseCase, log *logger.Logger) *SaleHandler {
	return &SaleHandler{uc: uc, log: logger.OrNop(log)}
}

// Create godoc
// @Summary      Registrar venta (o apartado con estado pendiente)
// @Tags         ventas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "cliente_id, productos, descuento, iva, divisa"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ventas [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return nil
	}
	var in dto.CreateSaleRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	input := sales.CreateInput{
		CustomerID:   in.CustomerID,
		Status:       entity.SaleStatus(in.Status),
		Discount:     in.Discount,
		Tax:          in.Tax,
		CurrencyCode: in.CurrencyCode,
	}
	if in.SaleDate != nil {
		input.SaleDate = *in.SaleDate
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, sales.LineInput{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}
	so, err := h.uc.Create(c.UserContext(), userID, input)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sales.ToSaleResponse(so))
}

// Get venta con líneas y devoluciones.
func (h *SaleHandler) Get(c *fiber.Ctx) error {
	id, ok := pathID(c, h.log, "id", domain.ErrOrderNotFound)
	if !ok {
		return nil
	}
	so, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(sales.ToSaleResponse(so))
}

// List filtros: estado, cliente_id, usuario_id, limit, offset.
func (h *SaleHandler) List(c *fiber.Ctx) error {
	var q dto.OrderListQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	page := pageFromQuery(c)
	status := entity.SaleStatus(q.Status)
	if status != "" && !status.Valid() {
		return writeError(c, h.log, domain.ErrInvalidInput)
	}
	list, err := h.uc.List(c.UserContext(), repository.SaleFilter{
		Status:     status,
		CustomerID: q.CustomerID,
		SellerID:   q.SellerID,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := make([]dto.SaleResponse, 0, len(list))
	for _, so := range list {
		out = append(out, sales.ToSaleResponse(so))
	}
	return c.JSON(out)
}

// Complete apartado -> completada. No mueve stock.
func (h *SaleHandler) Complete(c *fiber.Ctx) error {
	return h.run(c, h.uc.Complete)
}

// Void anula la venta y repone lo que no se haya devuelto.
func (h *SaleHandler) Void(c *fiber.Ctx) error {
	return h.run(c, h.uc.Void)
}

// Return godoc
// @Summary      Devolución parcial o total
// @Tags         ventas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la venta"
// @Param        body  body  dto.ReturnRequest  true  "productos_devueltos, motivo"
// @Success      200   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ventas/{id}/devolucion [post]
func (h *SaleHandler) Return(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return nil
	}
	var in dto.ReturnRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	input := sales.ReturnInput{Reason: in.Reason}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, sales.ReturnLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	id, ok := pathID(c, h.log, "id", domain.ErrOrderNotFound)
	if !ok {
		return nil
	}
	so, err := h.uc.ReturnItems(c.UserContext(), userID, id, input)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(sales.ToSaleResponse(so))
}

// SetState cambio de estado genérico; mismas reglas que Complete/Void/Return.
func (h *SaleHandler) SetState(c *fiber.Ctx) error {
	var in dto.ChangeStatusRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	to := entity.SaleStatus(in.Status)
	if !to.Valid() {
		return writeError(c, h.log, domain.ErrInvalidInput)
	}
	return h.run(c, func(ctx context.Context, actorID, id string) (*entity.SalesOrder, error) {
		return h.uc.SetState(ctx, actorID, id, to)
	})
}

func (h *SaleHandler) run(c *fiber.Ctx, op func(ctx context.Context, actorID, id string) (*entity.SalesOrder, error)) error {
	userID, ok := requireUser(c)
	if !ok {
		return nil
	}
	id, ok := pathID(c, h.log, "id", domain.ErrOrderNotFound)
	if !ok {
		return nil
	}
	so, err := op(c.UserContext(), userID, id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(sales.ToSaleResponse(so))
}
