package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/autopartes-api/internal/application/dto"
	"github.com/jhoicas/autopartes-api/internal/application/purchasing"
	"github.com/jhoicas/autopartes-api/internal/domain"
	"github.com/jhoicas/autopartes-api/internal/domain/entity"
	"github.com/jhoicas/autopartes-api/internal/domain/repository"
	"github.com/jhoicas/autopartes-api/pkg/logger"
)

// PurchaseHandler compras: alta, completar, cambio de estado, borrado y consultas.
type PurchaseHandler struct {
	uc  *purchasing.UseCase
	log *logger.Logger
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(uc *purchasing.UseCase, log *logger.Logger) *PurchaseHandler {
	return &PurchaseHandler{uc: uc, log: logger.OrNop(log)}
}

// Create godoc
// @Summary      Registrar compra
// @Tags         compras
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseRequest  true  "proveedor_id, productos, estado, divisa"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/compras [post]
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return nil
	}
	var in dto.CreatePurchaseRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	input := purchasing.CreateInput{
		SupplierID:   in.SupplierID,
		Status:       entity.PurchaseStatus(in.Status),
		CurrencyCode: in.CurrencyCode,
	}
	if in.OrderDate != nil {
		input.OrderDate = *in.OrderDate
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, purchasing.LineInput{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}
	po, err := h.uc.Create(c.UserContext(), userID, input)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(purchasing.ToPurchaseResponse(po))
}

// Get compra con sus líneas.
func (h *PurchaseHandler) Get(c *fiber.Ctx) error {
	id, ok := pathID(c, h.log, "id", domain.ErrOrderNotFound)
	if !ok {
		return nil
	}
	po, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(purchasing.ToPurchaseResponse(po))
}

// List filtros: estado, proveedor_id, limit, offset.
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	var q dto.OrderListQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	page := pageFromQuery(c)
	status := entity.PurchaseStatus(q.Status)
	if status != "" && !status.Valid() {
		return writeError(c, h.log, domain.ErrInvalidInput)
	}
	list, err := h.uc.List(c.UserContext(), repository.PurchaseFilter{
		Status:     status,
		SupplierID: q.SupplierID,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := make([]dto.PurchaseResponse, 0, len(list))
	for _, po := range list {
		out = append(out, purchasing.ToPurchaseResponse(po))
	}
	return c.JSON(out)
}

// Complete pendiente -> completada: recibe la mercancía.
func (h *PurchaseHandler) Complete(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return nil
	}
	id, ok := pathID(c, h.log, "id", domain.ErrOrderNotFound)
	if !ok {
		return nil
	}
	po, err := h.uc.Complete(c.UserContext(), userID, id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(purchasing.ToPurchaseResponse(po))
}

// SetState cambio de estado genérico; pasa por la misma máquina de estados que Complete.
func (h *PurchaseHandler) SetState(c *fiber.Ctx) error {
	userID, ok := requireUser(c)
	if !ok {
		return nil
	}
	var in dto.ChangeStatusRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	to := entity.PurchaseStatus(in.Status)
	if !to.Valid() {
		return writeError(c, h.log, domain.ErrInvalidInput)
	}
	id, ok := pathID(c, h.log, "id", domain.ErrOrderNotFound)
	if !ok {
		return nil
	}
	po, err := h.uc.SetState(c.UserContext(), userID, id, to)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(purchasing.ToPurchaseResponse(po))
}

// Delete solo compras que no movieron stock.
func (h *PurchaseHandler) Delete(c *fiber.Ctx) error {
	id, ok := pathID(c, h.log, "id", domain.ErrOrderNotFound)
	if !ok {
		return nil
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"id": id, "eliminada": true, "fecha": time.Now().UTC()})
}
