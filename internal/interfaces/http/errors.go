package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/renewal-tracking-api/internal/application/dto"
	"github.com/jhoicas/renewal-tracking-api/internal/domain"
	"github.com/jhoicas/renewal-tracking-api/pkg/validate"
)

// errorMapping traduce un error de dominio a status HTTP + código.
type errorMapping struct {
	err    error
	status int
	code   string
}

// El orden importa: el primer errors.Is que coincida gana.
var errorMappings = []errorMapping{
	{errInvalidBody, fiber.StatusBadRequest, "INVALID_BODY"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrUserNotFound, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrInvalidRange, fiber.StatusUnprocessableEntity, "INVALID_RANGE"},
	{domain.ErrMissingExchangeRate, fiber.StatusUnprocessableEntity, "MISSING_EXCHANGE_RATE"},
	{domain.ErrDocumentSubmitted, fiber.StatusConflict, "DOCUMENT_SUBMITTED"},
	{domain.ErrNotSubmitted, fiber.StatusConflict, "NOT_SUBMITTED"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
}

// writeError responde con el dto.ErrorResponse correspondiente a err.
// Errores no mapeados se devuelven como 500 INTERNAL.
func writeError(c *fiber.Ctx, err error) error {
	var verr *validate.Error
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos", Details: verr.Fields})
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// errInvalidBody el cuerpo no se pudo decodificar.
var errInvalidBody = errors.New("cuerpo inválido")

// bind parsea el body en out y aplica las reglas `validate`.
func bind(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return errInvalidBody
	}
	return validate.Struct(out)
}

// tenant devuelve el company_id del token; ErrUnauthorized si falta.
func tenant(c *fiber.Ctx) (string, error) {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return "", domain.ErrUnauthorized
	}
	return companyID, nil
}
