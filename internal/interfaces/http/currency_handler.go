package http

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/autopartes-api/internal/application/currency"
	"github.com/jhoicas/autopartes-api/internal/application/dto"
	"github.com/jhoicas/autopartes-api/internal/domain"
	"github.com/jhoicas/autopartes-api/pkg/logger"
)

// CurrencyHandler consultas y administración de divisas.
type CurrencyHandler struct {
	uc  *currency.UseCase
	log *logger.Logger
}

// NewCurrencyHandler construye el handler.
func NewCurrencyHandler(uc *currency.UseCase, log *logger.Logger) *CurrencyHandler {
	return &CurrencyHandler{uc: uc, log: logger.OrNop(log)}
}

// List godoc
// @Summary      Listar divisas
// @Tags         divisas
// @Produce      json
// @Param        activas  query  bool  false  "Solo activas"
// @Success      200  {object}  dto.CurrencyListResponse
// @Router       /api/divisas [get]
func (h *CurrencyHandler) List(c *fiber.Ctx) error {
	ctx := c.UserContext()
	activeOnly := c.QueryBool("activas", false)
	var out dto.CurrencyListResponse
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := h.uc.List(gctx, activeOnly)
		out.Items = list
		return err
	})
	g.Go(func() error {
		base, err := h.uc.GetBase(gctx)
		if err != nil {
			return err
		}
		resp := currency.ToCurrencyResponse(base)
		out.Base = &resp
		return nil
	})
	if err := g.Wait(); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetBase devuelve la divisa principal.
func (h *CurrencyHandler) GetBase(c *fiber.Ctx) error {
	base, err := h.uc.GetBase(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(currency.ToCurrencyResponse(base))
}

// GetByID acepta UUID o código ISO.
func (h *CurrencyHandler) GetByID(c *fiber.Ctx) error {
	cur, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(currency.ToCurrencyResponse(cur))
}

// Convert godoc
// @Summary      Convertir monto entre divisas
// @Tags         divisas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConvertRequest  true  "monto, divisa_origen, divisa_destino"
// @Success      200   {object}  dto.ConvertResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/divisas/convertir [post]
func (h *CurrencyHandler) Convert(c *fiber.Ctx) error {
	var in dto.ConvertRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	out, err := h.uc.Convert(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// UpdateRate cambia la tasa de una divisa que no es la principal.
func (h *CurrencyHandler) UpdateRate(c *fiber.Ctx) error {
	id, ok := pathID(c, h.log, "id", domain.ErrCurrencyNotFound)
	if !ok {
		return nil
	}
	var in dto.UpdateRateRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	out, err := h.uc.UpdateRate(c.UserContext(), id, in.ExchangeRate)
	if err != nil {
		return writeError(c, h.log, err)
	}
	h.log.Info().Str("currency_id", out.ID).Str("user_id", GetUserID(c)).Msg("tasa actualizada vía API")
	return c.JSON(out)
}

// SetActive activa o desactiva una divisa; la principal no se puede desactivar.
func (h *CurrencyHandler) SetActive(c *fiber.Ctx) error {
	id, ok := pathID(c, h.log, "id", domain.ErrCurrencyNotFound)
	if !ok {
		return nil
	}
	var in dto.SetActiveRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	out, err := h.uc.SetActive(c.UserContext(), id, *in.Active)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// DesignateBase convierte la divisa en principal y devuelve todas con las tasas reexpresadas.
func (h *CurrencyHandler) DesignateBase(c *fiber.Ctx) error {
	id, ok := pathID(c, h.log, "id", domain.ErrCurrencyNotFound)
	if !ok {
		return nil
	}
	out, err := h.uc.DesignateBase(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
