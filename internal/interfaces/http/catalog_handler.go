package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/autopartes-api/internal/application/dto"
	"github.com/jhoicas/autopartes-api/internal/application/usecase"
	"github.com/jhoicas/autopartes-api/internal/domain"
	"github.com/jhoicas/autopartes-api/internal/domain/repository"
	"github.com/jhoicas/autopartes-api/pkg/logger"
)

// CatalogHandler categorías, marcas y modelos de vehículo con su compatibilidad.
type CatalogHandler struct {
	catalog *usecase.CatalogUseCase
	models  *usecase.VehicleModelUseCase
	log     *logger.Logger
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(catalog *usecase.CatalogUseCase, models *usecase.VehicleModelUseCase, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, models: models, log: logger.OrNop(log)}
}

// CreateCategory POST /api/categorias
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var in dto.CreateNamedRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	out, err := h.catalog.CreateCategory(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListCategories GET /api/categorias
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	out, err := h.catalog.ListCategories(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// CreateBrand POST /api/marcas
func (h *CatalogHandler) CreateBrand(c *fiber.Ctx) error {
	var in dto.CreateNamedRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	out, err := h.catalog.CreateBrand(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListBrands GET /api/marcas
func (h *CatalogHandler) ListBrands(c *fiber.Ctx) error {
	out, err := h.catalog.ListBrands(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListVehicleModels GET /api/modelos-vehiculos?marca=&modelo=&anio=&activo=
func (h *CatalogHandler) ListVehicleModels(c *fiber.Ctx) error {
	f := repository.VehicleModelFilter{Make: c.Query("marca"), Model: c.Query("modelo")}
	if raw := c.Query("anio"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return writeError(c, h.log, domain.ErrInvalidInput)
		}
		f.Year = &year
	}
	if raw := c.Query("activo"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return writeError(c, h.log, domain.ErrInvalidInput)
		}
		f.Active = &active
	}
	out, err := h.models.List(c.UserContext(), f)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetVehicleModel GET /api/modelos-vehiculos/:id
func (h *CatalogHandler) GetVehicleModel(c *fiber.Ctx) error {
	id, ok := pathID(c, h.log, "id", domain.ErrNotFound)
	if !ok {
		return nil
	}
	out, err := h.models.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// CreateVehicleModel POST /api/modelos-vehiculos
func (h *CatalogHandler) CreateVehicleModel(c *fiber.Ctx) error {
	var in dto.CreateVehicleModelRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	out, err := h.models.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CompatibleProducts GET /api/modelos-vehiculos/:id/productos
func (h *CatalogHandler) CompatibleProducts(c *fiber.Ctx) error {
	id, ok := pathID(c, h.log, "id", domain.ErrNotFound)
	if !ok {
		return nil
	}
	out, err := h.models.CompatibleProducts(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Associate POST /api/modelos-vehiculos/asociar. 201 si la asociación es nueva, 200 si se actualizó.
func (h *CatalogHandler) Associate(c *fiber.Ctx) error {
	var in dto.AssociateRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	out, err := h.models.Associate(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	status := fiber.StatusOK
	if out.Created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(out)
}

// Dissociate DELETE /api/modelos-vehiculos/asociar/:productoId/:modeloId
func (h *CatalogHandler) Dissociate(c *fiber.Ctx) error {
	productID, ok := pathID(c, h.log, "productoId", domain.ErrNotFound)
	if !ok {
		return nil
	}
	modelID, ok := pathID(c, h.log, "modeloId", domain.ErrNotFound)
	if !ok {
		return nil
	}
	if err := h.models.Dissociate(c.UserContext(), productID, modelID); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
