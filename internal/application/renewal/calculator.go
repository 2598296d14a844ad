package renewal

import (
	"time"

	"github.com/jhoicas/renewal-tracking-api/internal/application/dto"
	"github.com/jhoicas/renewal-tracking-api/internal/domain/renewal"
)

// Calculator expone los calculadores puros sin persistencia (vista previa en el cliente).
type Calculator struct {
	loc *time.Location
	now func() time.Time
}

// NewCalculator loc nil = UTC.
func NewCalculator(loc *time.Location) *Calculator {
	if loc == nil {
		loc = time.UTC
	}
	return &Calculator{loc: loc, now: time.Now}
}

// Line valores derivados de una línea; entradas inválidas cuentan como 0 y la tasa 0 como 1.
func (c *Calculator) Line(in dto.LineCalcRequest) dto.LineCalcResponse {
	v := renewal.ComputeLineValues(
		renewal.LenientAny(in.Qty),
		renewal.LenientAny(in.Rate),
		renewal.NormalizeExchangeRate(renewal.LenientAny(in.ExchangeRate)),
		in.IsForeignCurrency,
	)
	return dto.LineCalcResponse{Amount: v.Amount, BaseRate: v.BaseRate, BaseAmount: v.BaseAmount}
}

// Totals totales a partir de las líneas recibidas.
func (c *Calculator) Totals(in dto.TotalsCalcRequest) dto.TotalsCalcResponse {
	lines := make([]renewal.LineAmounts, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, renewal.LineAmounts{
			Amount:     renewal.LenientAny(l.Amount),
			BaseAmount: renewal.LenientAny(l.BaseAmount),
		})
	}
	t := renewal.ComputeTotals(lines)
	return dto.TotalsCalcResponse{NetTotal: t.NetTotal, NetTotalBase: t.NetTotalBase}
}

// RenewalStatus días restantes e insignia. Devuelve domain.ErrInvalidRange si fin <= inicio.
func (c *Calculator) RenewalStatus(in dto.RenewalStatusRequest) (*dto.RenewalStatusResponse, error) {
	start, err := parseDate(in.LicenseStart)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(in.LicenseEnd)
	if err != nil {
		return nil, err
	}
	today := c.now().In(c.loc)
	if in.Today != "" {
		t, err := parseDate(in.Today)
		if err != nil {
			return nil, err
		}
		today = *t
	}
	var s, e time.Time
	if start != nil {
		s = *start
	}
	if end != nil {
		e = *end
	}
	st, err := renewal.EvaluateRenewal(s, e, today)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return &dto.RenewalStatusResponse{Evaluated: false}, nil
	}
	days := st.DaysRemaining
	b := renewal.BadgeFor(days)
	return &dto.RenewalStatusResponse{
		Evaluated:     true,
		DaysRemaining: &days,
		Badge:         &dto.RenewalBadge{Severity: string(b.Severity), Label: b.Label, Color: b.Color},
	}, nil
}
