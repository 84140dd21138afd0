package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/autopartes-api/internal/application/dto"
	"github.com/jhoicas/autopartes-api/internal/application/usecase"
	"github.com/jhoicas/autopartes-api/internal/domain"
	"github.com/jhoicas/autopartes-api/pkg/logger"
)

// PartyHandler maneja clientes y proveedores (terceros referenciados por ventas y compras).
type PartyHandler struct {
	customers *usecase.CustomerUseCase
	suppliers *usecase.SupplierUseCase
	log       *logger.Logger
}

// NewPartyHandler construye el handler.
func NewPartyHandler(customers *usecase.CustomerUseCase, suppliers *usecase.SupplierUseCase, log *logger.Logger) *PartyHandler {
	return &PartyHandler{customers: customers, suppliers: suppliers, log: logger.OrNop(log)}
}

// CreateCustomer POST /api/clientes
func (h *PartyHandler) CreateCustomer(c *fiber.Ctx) error {
	var in dto.CreateCustomerRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	out, err := h.customers.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetCustomer GET /api/clientes/:id
func (h *PartyHandler) GetCustomer(c *fiber.Ctx) error {
	id, ok := pathID(c, h.log, "id", domain.ErrNotFound)
	if !ok {
		return nil
	}
	out, err := h.customers.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListCustomers GET /api/clientes?buscar=&limit=20&offset=0
func (h *PartyHandler) ListCustomers(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	out, err := h.customers.List(c.UserContext(), c.Query("buscar"), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// CreateSupplier POST /api/proveedores
func (h *PartyHandler) CreateSupplier(c *fiber.Ctx) error {
	var in dto.CreateSupplierRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	out, err := h.suppliers.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetSupplier GET /api/proveedores/:id
func (h *PartyHandler) GetSupplier(c *fiber.Ctx) error {
	id, ok := pathID(c, h.log, "id", domain.ErrNotFound)
	if !ok {
		return nil
	}
	out, err := h.suppliers.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListSuppliers GET /api/proveedores?buscar=
func (h *PartyHandler) ListSuppliers(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	out, err := h.suppliers.List(c.UserContext(), c.Query("buscar"), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
