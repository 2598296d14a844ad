package renewal

import (
	"time"

	"github.com/jhoicas/renewal-tracking-api/internal/domain/entity"
	"github.com/jhoicas/renewal-tracking-api/internal/domain/renewal"
)

// ApplyValuation recalcula todas las líneas y los totales del documento en sitio.
// Se invoca tras cualquier cambio de qty, rate, tasa o moneda; siempre recalcula todo.
func ApplyValuation(doc *entity.RenewalTracking, isForeign bool) {
	lines := make([]renewal.LineAmounts, 0, len(doc.Items))
	for i, item := range doc.Items {
		item.Idx = i + 1
		v := renewal.ComputeLineValues(item.Qty, item.Rate, doc.ExchangeRate, isForeign)
		item.Amount = v.Amount
		item.BaseRate = v.BaseRate
		item.BaseAmount = v.BaseAmount
		lines = append(lines, renewal.LineAmounts{Amount: item.Amount, BaseAmount: item.BaseAmount})
	}
	totals := renewal.ComputeTotals(lines)
	doc.NetTotal = totals.NetTotal
	doc.NetTotalBase = totals.NetTotalBase
}

// ApplyRenewalStatus recalcula days_remaining a partir de las fechas de licencia.
// Con rango inválido limpia LicenseEnd y DaysRemaining y devuelve domain.ErrInvalidRange.
// Si falta alguna fecha, DaysRemaining queda en nil.
func ApplyRenewalStatus(doc *entity.RenewalTracking, today time.Time) (*renewal.RenewalStatus, error) {
	var start, end time.Time
	if doc.LicenseStart != nil {
		start = *doc.LicenseStart
	}
	if doc.LicenseEnd != nil {
		end = *doc.LicenseEnd
	}
	st, err := renewal.EvaluateRenewal(start, end, today)
	if err != nil {
		doc.LicenseEnd = nil
		doc.DaysRemaining = nil
		return nil, err
	}
	if st == nil {
		doc.DaysRemaining = nil
		return nil, nil
	}
	days := st.DaysRemaining
	doc.DaysRemaining = &days
	return st, nil
}

// BadgeOf insignia de la vista de lista; nil si no hay días calculados.
func BadgeOf(doc *entity.RenewalTracking) *renewal.Badge {
	if doc.DaysRemaining == nil {
		return nil
	}
	b := renewal.BadgeFor(*doc.DaysRemaining)
	return &b
}
