package http

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/renewal-tracking-api/internal/application/dto"
	"github.com/jhoicas/renewal-tracking-api/internal/application/renewal"
	"github.com/jhoicas/renewal-tracking-api/internal/domain"
	"github.com/jhoicas/renewal-tracking-api/internal/domain/entity"
	"github.com/jhoicas/renewal-tracking-api/internal/domain/repository"
)

// quotationKinds segmento de ruta -> tipo de documento derivado.
var quotationKinds = map[string]string{
	"request-for-quotation": entity.QuotationKindRFQ,
	"supplier-quotation":    entity.QuotationKindSupplier,
	"quotation":             entity.QuotationKindCustomer,
}

// RenewalHandler maneja las peticiones HTTP de Renewal Tracking (protegido).
type RenewalHandler struct {
	uc          *renewal.RenewalUseCase
	maxUploadMB int
}

// NewRenewalHandler construye el handler. maxUploadMB limita el archivo de importación.
func NewRenewalHandler(uc *renewal.RenewalUseCase, maxUploadMB int) *RenewalHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	return &RenewalHandler{uc: uc, maxUploadMB: maxUploadMB}
}

// Create godoc
// @Summary      Crear seguimiento de renovación
// @Description  Resuelve moneda base y tasa, calcula montos, totales y días restantes.
// @Tags         renewals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateRenewalRequest  true  "Cabecera e ítems"
// @Success      201   {object}  dto.RenewalResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/renewals [post]
func (h *RenewalHandler) Create(c *fiber.Ctx) error {
	companyID, err := tenant(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.CreateRenewalRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.Context(), companyID, GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar renovaciones (ordenadas por días restantes)
// @Tags         renewals
// @Produce      json
// @Security     BearerAuth
// @Param        stage            query  string  false  "Etapa"
// @Param        docstatus        query  int     false  "0 borrador, 1 enviado, 2 cancelado"
// @Param        expiring_within  query  int     false  "Solo las que vencen en N días o menos"
// @Param        limit            query  int     false  "Límite"  default(20)
// @Param        offset           query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.RenewalListResponse
// @Router       /api/renewals [get]
func (h *RenewalHandler) List(c *fiber.Ctx) error {
	companyID, err := tenant(c)
	if err != nil {
		return writeError(c, err)
	}
	f := repository.RenewalFilter{
		RenewalStage:   c.Query("stage"),
		ExpiringWithin: c.QueryInt("expiring_within", 0),
	}
	if raw := c.Query("docstatus"); raw != "" {
		ds, err := strconv.Atoi(raw)
		if err != nil || ds < entity.DocStatusDraft || ds > entity.DocStatusCancelled {
			return writeError(c, fmt.Errorf("%w: docstatus debe ser 0, 1 o 2", domain.ErrInvalidInput))
		}
		f.DocStatus = &ds
	}
	out, err := h.uc.List(c.Context(), companyID, f, pageFromQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener renovación
// @Tags         renewals
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.RenewalResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/renewals/{id} [get]
func (h *RenewalHandler) GetByID(c *fiber.Ctx) error {
	companyID, err := tenant(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Get(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar borrador (recalcula todo)
// @Tags         renewals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                    true  "ID"
// @Param        body  body  dto.UpdateRenewalRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.RenewalResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/renewals/{id} [put]
func (h *RenewalHandler) Update(c *fiber.Ctx) error {
	companyID, err := tenant(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.UpdateRenewalRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.Context(), companyID, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar renovación (no enviada)
// @Tags         renewals
// @Security     BearerAuth
// @Param        id   path  string  true  "ID"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/renewals/{id} [delete]
func (h *RenewalHandler) Delete(c *fiber.Ctx) error {
	companyID, err := tenant(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Delete(c.Context(), companyID, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Recalculate POST /api/renewals/:id/recalculate
func (h *RenewalHandler) Recalculate(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Recalculate)
}

// Submit POST /api/renewals/:id/submit
func (h *RenewalHandler) Submit(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Submit)
}

// Cancel POST /api/renewals/:id/cancel
func (h *RenewalHandler) Cancel(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Cancel)
}

func (h *RenewalHandler) transition(c *fiber.Ctx, op func(ctx context.Context, companyID, id string) (*dto.RenewalResponse, error)) error {
	companyID, err := tenant(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := op(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ExportItems godoc
// @Summary      Descargar ítems (o plantilla vacía)
// @Tags         renewals
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        id      path   string  true   "ID"
// @Param        format  query  string  false  "csv | xlsx"  default(csv)
// @Success      200
// @Router       /api/renewals/{id}/items/export [get]
func (h *RenewalHandler) ExportItems(c *fiber.Ctx) error {
	companyID, err := tenant(c)
	if err != nil {
		return writeError(c, err)
	}
	data, filename, contentType, err := h.uc.ExportItems(c.Context(), companyID, c.Params("id"), c.Query("format", "csv"))
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, data, filename, contentType)
}

// ImportItems godoc
// @Summary      Reemplazar ítems desde archivo (.csv, .xlsx)
// @Tags         renewals
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true  "ID"
// @Param        file  formData  file    true  "Archivo con columnas Item Code, Qty, Rate..."
// @Success      200   {object}  dto.ImportItemsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      413   {object}  dto.ErrorResponse
// @Router       /api/renewals/{id}/items/import [post]
func (h *RenewalHandler) ImportItems(c *fiber.Ctx) error {
	companyID, err := tenant(c)
	if err != nil {
		return writeError(c, err)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "campo 'file' requerido"})
	}
	if fh.Size > int64(h.maxUploadMB)<<20 {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("el archivo supera %d MB", h.maxUploadMB),
		})
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, err)
	}
	defer f.Close()

	out, err := h.uc.ImportItems(c.Context(), companyID, c.Params("id"), fh.Filename, f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Resumen imprimible de la renovación
// @Tags         renewals
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path  string  true  "ID"
// @Success      200
// @Router       /api/renewals/{id}/pdf [get]
func (h *RenewalHandler) PDF(c *fiber.Ctx) error {
	companyID, err := tenant(c)
	if err != nil {
		return writeError(c, err)
	}
	data, filename, err := h.uc.RenewalPDF(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, data, filename, "application/pdf")
}

// MakeQuotation godoc
// @Summary      Crear documento derivado de una renovación enviada
// @Tags         renewals
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string  true  "ID"
// @Param        kind  path  string  true  "request-for-quotation | supplier-quotation | quotation"
// @Success      201   {object}  dto.QuotationResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/renewals/{id}/{kind} [post]
func (h *RenewalHandler) MakeQuotation(kind string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, err := tenant(c)
		if err != nil {
			return writeError(c, err)
		}
		out, err := h.uc.MakeQuotation(c.Context(), companyID, c.Params("id"), quotationKinds[kind])
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(out)
	}
}

// ListQuotations GET /api/renewals/:id/quotations
func (h *RenewalHandler) ListQuotations(c *fiber.Ctx) error {
	companyID, err := tenant(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListQuotations(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func sendFile(c *fiber.Ctx, data []byte, filename, contentType string) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}
