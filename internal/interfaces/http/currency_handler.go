package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/renewal-tracking-api/internal/application/dto"
	"github.com/jhoicas/renewal-tracking-api/internal/application/usecase"
	"github.com/jhoicas/renewal-tracking-api/internal/domain"
	"github.com/jhoicas/renewal-tracking-api/pkg/money"
)

// CurrencyExchangeHandler tasas de cambio registradas y resolución de moneda base.
type CurrencyExchangeHandler struct {
	uc *usecase.CurrencyExchangeUseCase
}

// NewCurrencyExchangeHandler construye el handler.
func NewCurrencyExchangeHandler(uc *usecase.CurrencyExchangeUseCase) *CurrencyExchangeHandler {
	return &CurrencyExchangeHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar tasa de cambio
// @Tags         currency-exchanges
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateCurrencyExchangeRequest  true  "Par de monedas y tasa"
// @Success      201   {object}  dto.CurrencyExchangeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/currency-exchanges [post]
func (h *CurrencyExchangeHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCurrencyExchangeRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar tasas de cambio
// @Tags         currency-exchanges
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.CurrencyExchangeResponse
// @Router       /api/currency-exchanges [get]
func (h *CurrencyExchangeHandler) List(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	out, err := h.uc.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Resolve godoc
// @Summary      Resolver moneda base y tasa para la empresa del token
// @Tags         currency-exchanges
// @Produce      json
// @Security     BearerAuth
// @Param        currency       query  string  true   "Moneda del documento"
// @Param        exchange_rate  query  string  false  "Tasa manual"
// @Success      200  {object}  dto.ResolvedCurrencyResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/currency-exchanges/resolve [get]
func (h *CurrencyExchangeHandler) Resolve(c *fiber.Ctx) error {
	companyID, err := tenant(c)
	if err != nil {
		return writeError(c, err)
	}
	currency := c.Query("currency")
	if currency == "" {
		return writeError(c, domain.ErrInvalidInput)
	}
	manual := decimal.Zero
	if raw := c.Query("exchange_rate"); raw != "" {
		manual, err = decimal.NewFromString(raw)
		if err != nil || !money.InRange(manual) {
			return writeError(c, domain.ErrInvalidInput)
		}
	}
	out, err := h.uc.Resolve(c.Context(), companyID, currency, manual)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
