package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/renewal-tracking-api/internal/application/dto"
	"github.com/jhoicas/renewal-tracking-api/internal/application/renewal"
)

// CalculatorHandler expone los cálculos puros (línea, totales, estado de renovación)
// para que el cliente muestre valores en vivo sin persistir nada.
type CalculatorHandler struct {
	calc *renewal.Calculator
}

// NewCalculatorHandler construye el handler.
func NewCalculatorHandler(calc *renewal.Calculator) *CalculatorHandler {
	return &CalculatorHandler{calc: calc}
}

// Line godoc
// @Summary      Calcular amount, base_rate y base_amount de una línea
// @Tags         calculator
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.LineCalcRequest  true  "qty, rate, exchange_rate"
// @Success      200   {object}  dto.LineCalcResponse
// @Router       /api/calculator/line [post]
func (h *CalculatorHandler) Line(c *fiber.Ctx) error {
	var in dto.LineCalcRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.calc.Line(in))
}

// Totals godoc
// @Summary      Sumar totales del documento
// @Tags         calculator
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.TotalsCalcRequest  true  "Líneas"
// @Success      200   {object}  dto.TotalsCalcResponse
// @Router       /api/calculator/totals [post]
func (h *CalculatorHandler) Totals(c *fiber.Ctx) error {
	var in dto.TotalsCalcRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.calc.Totals(in))
}

// RenewalStatus godoc
// @Summary      Días restantes e insignia de una licencia
// @Tags         calculator
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.RenewalStatusRequest  true  "Fechas YYYY-MM-DD"
// @Success      200   {object}  dto.RenewalStatusResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/calculator/renewal-status [post]
func (h *CalculatorHandler) RenewalStatus(c *fiber.Ctx) error {
	var in dto.RenewalStatusRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.calc.RenewalStatus(in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
