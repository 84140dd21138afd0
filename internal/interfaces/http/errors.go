package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/autopartes-api/internal/application/dto"
	"github.com/jhoicas/autopartes-api/internal/domain"
	"github.com/jhoicas/autopartes-api/pkg/logger"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// Primero los errores con tipo (su mensaje nombra el producto o los estados), luego los genéricos.
var errorMappings = []errorMapping{
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrInvalidStateTransition, fiber.StatusConflict, "INVALID_STATE_TRANSITION"},
	{domain.ErrAlreadyReversed, fiber.StatusConflict, "ALREADY_REVERSED"},
	{domain.ErrInvalidCurrencyOperation, fiber.StatusConflict, "INVALID_CURRENCY_OPERATION"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrInvalidAmount, fiber.StatusBadRequest, "INVALID_AMOUNT"},
	{domain.ErrInvalidQuantity, fiber.StatusBadRequest, "INVALID_QUANTITY"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrProductNotFound, fiber.StatusNotFound, "PRODUCT_NOT_FOUND"},
	{domain.ErrOrderNotFound, fiber.StatusNotFound, "ORDER_NOT_FOUND"},
	{domain.ErrCurrencyNotFound, fiber.StatusNotFound, "CURRENCY_NOT_FOUND"},
	{domain.ErrReferenceNotFound, fiber.StatusNotFound, "REFERENCE_NOT_FOUND"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
}

// writeError traduce un error de dominio a status + ErrorResponse. Los 5xx se registran con el detalle
// y al cliente solo le llega un mensaje genérico.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	logger.OrNop(log).Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Str("user_id", GetUserID(c)).
		Msg("error interno")
	code := "INTERNAL"
	if errors.Is(err, domain.ErrPersistence) {
		code = "PERSISTENCE"
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: code, Message: "error interno del servidor"})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func requireUser(c *fiber.Ctx) (string, bool) {
	userID := GetUserID(c)
	if userID == "" {
		_ = c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
		return "", false
	}
	return userID, true
}

// pathID lee un parámetro de ruta que debe ser UUID. Si no lo es responde con notFound
// (no existe ningún recurso con ese ID) y devuelve false.
func pathID(c *fiber.Ctx, log *logger.Logger, name string, notFound error) (string, bool) {
	id := c.Params(name)
	if _, err := uuid.Parse(id); err != nil {
		_ = writeError(c, log, notFound)
		return "", false
	}
	return id, true
}
