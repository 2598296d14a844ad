package renewal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/renewal-tracking-api/internal/application/dto"
	"github.com/jhoicas/renewal-tracking-api/internal/domain"
	"github.com/jhoicas/renewal-tracking-api/internal/domain/entity"
	"github.com/jhoicas/renewal-tracking-api/internal/domain/repository"
)

const (
	rfqScheduleDays      = 7
	quotationValidDays   = 30
	quotationStatusDraft = "Draft"
)

// MakeQuotation genera un documento derivado (RFQ, cotización de proveedor o de cliente)
// a partir de una renovación enviada.
func (uc *RenewalUseCase) MakeQuotation(ctx context.Context, companyID, id, kind string) (*dto.QuotationResponse, error) {
	doc, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if !doc.IsSubmitted() {
		return nil, domain.ErrNotSubmitted
	}
	q, err := BuildQuotation(doc, kind, uc.today())
	if err != nil {
		return nil, err
	}
	q.CreatedAt = uc.now()

	err = uc.txRunner.RunRenewal(ctx, func(_ repository.RenewalRepository, quotations repository.QuotationRepository) error {
		return quotations.Create(ctx, q)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("renewal_id", doc.ID).Str("kind", kind).Str("quotation_id", q.ID).Msg("documento derivado creado")
	return toQuotationResponse(q), nil
}

// ListQuotations documentos derivados de una renovación.
func (uc *RenewalUseCase) ListQuotations(ctx context.Context, companyID, id string) ([]*dto.QuotationResponse, error) {
	if _, err := uc.load(ctx, companyID, id); err != nil {
		return nil, err
	}
	list, err := uc.quotationRepo.ListByRenewal(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.QuotationResponse, 0, len(list))
	for _, q := range list {
		out = append(out, toQuotationResponse(q))
	}
	return out, nil
}

// BuildQuotation mapea la renovación al documento derivado:
//   - RFQ: estado Draft, sin precios, fecha requerida hoy + 7 en cada línea.
//   - cotización de proveedor: moneda, tasa (conversion_rate), tarifa y monto.
//   - cotización de cliente: igual que la de proveedor más valid_till hoy + 30.
func BuildQuotation(doc *entity.RenewalTracking, kind string, today time.Time) (*entity.Quotation, error) {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	q := &entity.Quotation{
		ID:                uuid.New().String(),
		CompanyID:         doc.CompanyID,
		Kind:              kind,
		RenewalTrackingID: doc.ID,
		Status:            quotationStatusDraft,
		TransactionDate:   day,
		CreatedAt:         time.Now(),
	}

	withPrices := true
	var schedule *time.Time
	switch kind {
	case entity.QuotationKindRFQ:
		withPrices = false
		s := day.AddDate(0, 0, rfqScheduleDays)
		schedule = &s
	case entity.QuotationKindSupplier:
	case entity.QuotationKindCustomer:
		v := day.AddDate(0, 0, quotationValidDays)
		q.ValidTill = &v
	default:
		return nil, fmt.Errorf("%w: tipo de documento %q", domain.ErrInvalidInput, kind)
	}
	if withPrices {
		q.Currency = doc.Currency
		q.ConversionRate = doc.ExchangeRate
	}

	for i, it := range doc.Items {
		qi := &entity.QuotationItem{
			ID:           uuid.New().String(),
			QuotationID:  q.ID,
			Idx:          i + 1,
			ItemCode:     it.ItemCode,
			ItemName:     it.ItemName,
			Description:  it.Description,
			Brand:        it.Brand,
			UOM:          it.UOM,
			Qty:          it.Qty,
			ScheduleDate: schedule,
		}
		if withPrices {
			qi.Rate = it.Rate
			qi.Amount = it.Amount
		}
		q.Items = append(q.Items, qi)
	}
	return q, nil
}
