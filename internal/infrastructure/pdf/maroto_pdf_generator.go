// Package pdf genera el resumen imprimible de una renovación con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + Tax ID    │  N° Renovación + Fecha        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre / Etapa / Estado                            │
//	│  LICENCIA: Inicio - Fin  │  Insignia de días restantes       │
//	│  MONEDA: Documento / Base / Tasa                             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Código | Ítem | Cant | Tarifa | Monto | Base     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Total neto / Total neto en moneda base             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	apprenewal "github.com/jhoicas/renewal-tracking-api/internal/application/renewal"
	"github.com/jhoicas/renewal-tracking-api/internal/domain/entity"
	"github.com/jhoicas/renewal-tracking-api/internal/domain/renewal"
	"github.com/jhoicas/renewal-tracking-api/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// badgeColors colores RGB de la insignia por nombre.
var badgeColors = map[string]*props.Color{
	"red":    {Red: 200, Green: 30, Blue: 30},
	"orange": {Red: 230, Green: 120, Blue: 0},
	"yellow": {Red: 190, Green: 150, Blue: 0},
	"green":  {Red: 30, Green: 140, Blue: 60},
}

var docStatusLabel = map[int]string{
	entity.DocStatusDraft:     "Draft",
	entity.DocStatusSubmitted: "Submitted",
	entity.DocStatusCancelled: "Cancelled",
}

// ── Generator ─────────────────────────────────────────────────────────────────

var _ apprenewal.RenewalPDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa renewal.RenewalPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	now func() time.Time
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{now: time.Now} }

// GenerateRenewalPDF genera el PDF y devuelve sus bytes. badge puede ser nil (sin fechas de licencia).
func (g *MarotoPDFGenerator) GenerateRenewalPDF(
	_ context.Context,
	doc *entity.RenewalTracking,
	company *entity.Company,
	badge *renewal.Badge,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Renewal Tracking "+doc.Name, true).
		WithAuthor(company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc, company, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(doc))
	m.AddRows(licenseRow(doc, badge))
	m.AddRows(currencyRow(doc, company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(doc, company)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(doc, company))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(doc *entity.RenewalTracking, company *entity.Company, printed time.Time) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Tax ID: "+nonEmpty(company.TaxID, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("RENEWAL TRACKING", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(doc.Name, doc.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Impreso: "+printed.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func customerRow(doc *entity.RenewalTracking) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(doc.CustomerName, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
		),
		col.New(4).Add(
			text.New("Etapa: "+nonEmpty(doc.RenewalStage, "—"), props.Text{Size: 8, Align: align.Right, Top: 2}),
			text.New("Estado: "+docStatusLabel[doc.DocStatus], props.Text{Size: 8, Align: align.Right, Top: 7, Color: colorGray}),
		),
	)
}

func licenseRow(doc *entity.RenewalTracking, badge *renewal.Badge) core.Row {
	period := fmt.Sprintf("%s  a  %s", formatDate(doc.LicenseStart), formatDate(doc.LicenseEnd))
	status := text.New("Sin fechas de licencia", props.Text{Size: 9, Align: align.Right, Top: 6, Color: colorGray})
	if badge != nil {
		c, ok := badgeColors[badge.Color]
		if !ok {
			c = colorGray
		}
		status = text.New(badge.Label, props.Text{
			Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 5, Color: c,
		})
	}
	return row.New(14).Add(
		col.New(8).Add(
			text.New("LICENCIA", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(period, props.Text{Size: 9, Top: 6}),
		),
		col.New(4).Add(status),
	)
}

func currencyRow(doc *entity.RenewalTracking, company *entity.Company) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Moneda: %s   |   Moneda base: %s   |   Tasa de cambio: %s",
				doc.Currency,
				nonEmpty(company.DefaultCurrency, doc.Currency),
				doc.ExchangeRate.String(),
			), props.Text{Size: 8, Top: 2, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Código", 2, align.Left),
		h("Ítem", 3, align.Left),
		h("Cant.", 1, align.Right),
		h("Tarifa", 2, align.Right),
		h("Monto", 2, align.Right),
		h("Base", 1, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func itemRows(doc *entity.RenewalTracking, company *entity.Company) []core.Row {
	base := nonEmpty(company.DefaultCurrency, doc.Currency)
	rows := make([]core.Row, 0, len(doc.Items))
	for _, it := range doc.Items {
		name := nonEmpty(it.ItemName, apprenewal.StripHTML(it.Description))
		rows = append(rows, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprint(it.Idx), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(it.ItemCode, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(it.Qty.String(), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(2).Add(text.New(money.Format(it.Rate, doc.Currency), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(money.Format(it.Amount, doc.Currency), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(money.Format(it.BaseAmount, base), props.Text{Size: 7, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	if len(rows) == 0 {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New("Sin ítems", props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray}),
		)))
	}
	return rows
}

func totalsRow(doc *entity.RenewalTracking, company *entity.Company) core.Row {
	base := nonEmpty(company.DefaultCurrency, doc.Currency)
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	return row.New(14).Add(
		col.New(5),
		col.New(4).Add(
			label("Total neto:"),
			text.New("Total neto ("+base+"):", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 6,
			}),
		),
		col.New(3).Add(
			text.New(money.Format(doc.NetTotal, doc.Currency), props.Text{Size: 9, Align: align.Right, Right: 1}),
			text.New(money.Format(doc.NetTotalBase, base), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 6,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return t.Format("02/01/2006")
}
