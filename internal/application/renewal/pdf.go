package renewal

import (
	"context"
	"fmt"

	"github.com/jhoicas/renewal-tracking-api/internal/domain"
)

// RenewalPDF genera el resumen PDF del documento. Devuelve bytes y nombre de archivo.
func (uc *RenewalUseCase) RenewalPDF(ctx context.Context, companyID, id string) ([]byte, string, error) {
	if uc.pdf == nil {
		return nil, "", fmt.Errorf("%w: generador PDF no configurado", domain.ErrInvalidInput)
	}
	doc, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, "", err
	}
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, "", err
	}
	if company == nil {
		return nil, "", domain.ErrNotFound
	}
	data, err := uc.pdf.GenerateRenewalPDF(ctx, doc, company, BadgeOf(doc))
	if err != nil {
		return nil, "", fmt.Errorf("generar PDF: %w", err)
	}
	name := doc.Name
	if name == "" {
		name = doc.ID
	}
	return data, name + ".pdf", nil
}
