package renewal

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jhoicas/renewal-tracking-api/internal/application/dto"
	"github.com/jhoicas/renewal-tracking-api/internal/domain"
	"github.com/jhoicas/renewal-tracking-api/internal/domain/entity"
	"github.com/jhoicas/renewal-tracking-api/internal/domain/renewal"
)

// Columnas del archivo de ítems. Las importadas son las primeras ocho.
const (
	colItemCode    = "Item Code"
	colItemName    = "Item Name"
	colDescription = "Description"
	colBrand       = "Brand"
	colItemGroup   = "Item Group"
	colUOM         = "UOM"
	colQty         = "Qty"
	colRate        = "Rate"
	colAmount      = "Amount"
	colBaseRate    = "Base Rate"
	colBaseAmount  = "Base Amount"
)

var exportHeader = []string{
	colItemCode, colItemName, colDescription, colBrand, colItemGroup, colUOM,
	colQty, colRate, colAmount, colBaseRate, colBaseAmount,
}

var exportNumeric = []bool{false, false, false, false, false, false, true, true, true, true, true}

// templateRows filas vacías de la plantilla cuando el documento no tiene ítems.
const templateRows = 5

// ImportItems reemplaza los ítems de un borrador con el contenido del archivo y recalcula.
// El formato se decide por la extensión de filename (.csv, .xlsx).
func (uc *RenewalUseCase) ImportItems(ctx context.Context, companyID, id, filename string, r io.Reader) (*dto.ImportItemsResponse, error) {
	codec, err := uc.codecFor(filepath.Ext(filename))
	if err != nil {
		return nil, err
	}

	var out *dto.ImportItemsResponse
	err = uc.withLock(ctx, id, func() error {
		doc, err := uc.load(ctx, companyID, id)
		if err != nil {
			return err
		}
		if doc.DocStatus != entity.DocStatusDraft {
			return domain.ErrDocumentSubmitted
		}

		table, err := codec.ReadTable(r)
		if err != nil {
			return fmt.Errorf("%w: error leyendo archivo: %v", domain.ErrInvalidInput, err)
		}
		items, err := itemsFromTable(table, uc.cfg.MaxImportRows)
		if err != nil {
			return err
		}

		doc.Items = items
		assignItemIDs(doc)
		if err := uc.recalculate(ctx, doc); err != nil {
			return err
		}
		if err := uc.save(ctx, doc); err != nil {
			return err
		}
		uc.log.Info().Str("renewal_id", doc.ID).Str("file", filename).Int("items", len(items)).Msg("ítems importados")
		out = &dto.ImportItemsResponse{Imported: len(items), Renewal: *toRenewalResponse(doc)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ExportItems genera el archivo de ítems del documento (o la plantilla vacía).
// Devuelve contenido, nombre de archivo y content type.
func (uc *RenewalUseCase) ExportItems(ctx context.Context, companyID, id, format string) ([]byte, string, string, error) {
	ext := "." + strings.TrimPrefix(strings.ToLower(strings.TrimSpace(format)), ".")
	if ext == "." {
		ext = ".csv"
	}
	codec, err := uc.codecFor(ext)
	if err != nil {
		return nil, "", "", err
	}
	doc, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, "", "", err
	}

	var buf bytes.Buffer
	if err := codec.WriteTable(&buf, tableFromItems(doc.Items)); err != nil {
		return nil, "", "", fmt.Errorf("escribir archivo de ítems: %w", err)
	}
	return buf.Bytes(), ExportFilename(doc.Name, codec.Extension()), codec.ContentType(), nil
}

// ExportFilename renewal_tracking_items_<nombre>.<ext>; "template" si el documento no tiene nombre.
func ExportFilename(name, ext string) string {
	if strings.TrimSpace(name) == "" {
		name = "template"
	}
	return "renewal_tracking_items_" + name + ext
}

// RecalculateTable recalcula un archivo de ítems sin documento persistido: aplica la tasa
// a cada fila y devuelve la tabla lista para escribir junto con los totales.
func RecalculateTable(t *Table, exchangeRate decimal.Decimal, isForeign bool, maxRows int) (*Table, renewal.Totals, error) {
	items, err := itemsFromTable(t, maxRows)
	if err != nil {
		return nil, renewal.Totals{}, err
	}
	doc := &entity.RenewalTracking{ExchangeRate: renewal.NormalizeExchangeRate(exchangeRate), Items: items}
	ApplyValuation(doc, isForeign)
	return tableFromItems(doc.Items), renewal.Totals{NetTotal: doc.NetTotal, NetTotalBase: doc.NetTotalBase}, nil
}

func (uc *RenewalUseCase) codecFor(ext string) (TableCodec, error) {
	c, ok := uc.codecs[strings.ToLower(ext)]
	if !ok {
		return nil, fmt.Errorf("%w: formato de archivo no soportado %q", domain.ErrInvalidInput, ext)
	}
	return c, nil
}

// itemsFromTable convierte filas en ítems. Las filas sin Item Code se omiten;
// qty y rate inválidos cuentan como 0.
func itemsFromTable(t *Table, maxRows int) ([]*entity.RenewalTrackingItem, error) {
	if t == nil || len(t.Header) == 0 {
		return nil, fmt.Errorf("%w: archivo sin encabezado", domain.ErrInvalidInput)
	}
	cols := make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	if _, ok := cols[strings.ToLower(colItemCode)]; !ok {
		return nil, fmt.Errorf("%w: falta la columna %q", domain.ErrInvalidInput, colItemCode)
	}

	get := func(row []string, name string) string {
		i, ok := cols[strings.ToLower(name)]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	items := make([]*entity.RenewalTrackingItem, 0, len(t.Rows))
	for _, row := range t.Rows {
		code := strings.TrimSpace(get(row, colItemCode))
		if code == "" {
			continue
		}
		if maxRows > 0 && len(items) >= maxRows {
			return nil, fmt.Errorf("%w: el archivo supera el máximo de %d ítems", domain.ErrInvalidInput, maxRows)
		}
		items = append(items, &entity.RenewalTrackingItem{
			ItemCode:    code,
			ItemName:    strings.TrimSpace(get(row, colItemName)),
			Description: get(row, colDescription),
			Brand:       strings.TrimSpace(get(row, colBrand)),
			ItemGroup:   strings.TrimSpace(get(row, colItemGroup)),
			UOM:         strings.TrimSpace(get(row, colUOM)),
			Qty:         renewal.Lenient(get(row, colQty)),
			Rate:        renewal.Lenient(get(row, colRate)),
		})
	}
	return items, nil
}

func tableFromItems(items []*entity.RenewalTrackingItem) *Table {
	t := &Table{Header: exportHeader, Numeric: exportNumeric}
	if len(items) == 0 {
		for i := 0; i < templateRows; i++ {
			t.Rows = append(t.Rows, make([]string, len(exportHeader)))
		}
		// La plantilla no lleva números.
		t.Numeric = make([]bool, len(exportHeader))
		return t
	}
	for _, it := range items {
		t.Rows = append(t.Rows, []string{
			it.ItemCode,
			it.ItemName,
			StripHTML(it.Description),
			it.Brand,
			it.ItemGroup,
			it.UOM,
			numberCell(it.Qty),
			numberCell(it.Rate),
			numberCell(it.Amount),
			numberCell(it.BaseRate),
			numberCell(it.BaseAmount),
		})
	}
	return t
}

func numberCell(d decimal.Decimal) string {
	return d.String()
}

// StripHTML devuelve solo el texto de un fragmento HTML (descripciones con formato).
// Si el texto no es HTML válido se devuelve tal cual.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	nodes, err := html.ParseFragment(strings.NewReader(s), &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	})
	if err != nil {
		return s
	}
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return b.String()
}
