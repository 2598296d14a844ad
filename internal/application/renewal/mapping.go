package renewal

import (
	"strings"
	"time"

	"github.com/jhoicas/renewal-tracking-api/internal/application/dto"
	"github.com/jhoicas/renewal-tracking-api/internal/domain"
	"github.com/jhoicas/renewal-tracking-api/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// parseDate "" -> nil; formato YYYY-MM-DD.
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	return &t, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func itemsFromRequest(in []dto.RenewalItemRequest) []*entity.RenewalTrackingItem {
	items := make([]*entity.RenewalTrackingItem, 0, len(in))
	for _, it := range in {
		items = append(items, &entity.RenewalTrackingItem{
			ItemCode:    strings.TrimSpace(it.ItemCode),
			ItemName:    it.ItemName,
			Description: it.Description,
			Brand:       it.Brand,
			ItemGroup:   it.ItemGroup,
			UOM:         it.UOM,
			Qty:         it.Qty,
			Rate:        it.Rate,
		})
	}
	return items
}

func toBadgeDTO(doc *entity.RenewalTracking) *dto.RenewalBadge {
	b := BadgeOf(doc)
	if b == nil {
		return nil
	}
	return &dto.RenewalBadge{Severity: string(b.Severity), Label: b.Label, Color: b.Color}
}

func toRenewalResponse(doc *entity.RenewalTracking) *dto.RenewalResponse {
	resp := &dto.RenewalResponse{
		ID:            doc.ID,
		CompanyID:     doc.CompanyID,
		Name:          doc.Name,
		CustomerName:  doc.CustomerName,
		RenewalStage:  doc.RenewalStage,
		Currency:      doc.Currency,
		ExchangeRate:  doc.ExchangeRate,
		NetTotal:      doc.NetTotal,
		NetTotalBase:  doc.NetTotalBase,
		LicenseStart:  formatDate(doc.LicenseStart),
		LicenseEnd:    formatDate(doc.LicenseEnd),
		DaysRemaining: doc.DaysRemaining,
		Badge:         toBadgeDTO(doc),
		DocStatus:     doc.DocStatus,
		Items:         make([]dto.RenewalItemResponse, 0, len(doc.Items)),
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
	for _, it := range doc.Items {
		resp.Items = append(resp.Items, dto.RenewalItemResponse{
			ID:          it.ID,
			Idx:         it.Idx,
			ItemCode:    it.ItemCode,
			ItemName:    it.ItemName,
			Description: it.Description,
			Brand:       it.Brand,
			ItemGroup:   it.ItemGroup,
			UOM:         it.UOM,
			Qty:         it.Qty,
			Rate:        it.Rate,
			Amount:      it.Amount,
			BaseRate:    it.BaseRate,
			BaseAmount:  it.BaseAmount,
		})
	}
	return resp
}

func toRenewalListItem(doc *entity.RenewalTracking) dto.RenewalListItem {
	return dto.RenewalListItem{
		ID:            doc.ID,
		Name:          doc.Name,
		CustomerName:  doc.CustomerName,
		RenewalStage:  doc.RenewalStage,
		Currency:      doc.Currency,
		NetTotal:      doc.NetTotal,
		NetTotalBase:  doc.NetTotalBase,
		LicenseStart:  formatDate(doc.LicenseStart),
		LicenseEnd:    formatDate(doc.LicenseEnd),
		DaysRemaining: doc.DaysRemaining,
		Badge:         toBadgeDTO(doc),
		DocStatus:     doc.DocStatus,
	}
}

func toQuotationResponse(q *entity.Quotation) *dto.QuotationResponse {
	resp := &dto.QuotationResponse{
		ID:                q.ID,
		Kind:              q.Kind,
		RenewalTrackingID: q.RenewalTrackingID,
		Status:            q.Status,
		TransactionDate:   q.TransactionDate.Format(dateLayout),
		ValidTill:         formatDate(q.ValidTill),
		Currency:          q.Currency,
		ConversionRate:    q.ConversionRate,
		Items:             make([]dto.QuotationItemResponse, 0, len(q.Items)),
	}
	for _, it := range q.Items {
		resp.Items = append(resp.Items, dto.QuotationItemResponse{
			Idx:          it.Idx,
			ItemCode:     it.ItemCode,
			ItemName:     it.ItemName,
			Description:  it.Description,
			Brand:        it.Brand,
			UOM:          it.UOM,
			Qty:          it.Qty,
			Rate:         it.Rate,
			Amount:       it.Amount,
			ScheduleDate: formatDate(it.ScheduleDate),
		})
	}
	return resp
}
