package spreadsheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/renewal-tracking-api/internal/application/renewal"
	"github.com/jhoicas/renewal-tracking-api/pkg/money"
)

var _ renewal.TableCodec = XLSXCodec{}

const itemsSheet = "Items"

// XLSXCodec libro de Excel; se lee la hoja activa y se escribe una hoja "Items".
type XLSXCodec struct{}

// Extension extensión asociada.
func (XLSXCodec) Extension() string { return ".xlsx" }

// ContentType tipo MIME de la descarga.
func (XLSXCodec) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// ReadTable lee la hoja activa: la primera fila es el encabezado.
func (XLSXCodec) ReadTable(r io.Reader) (*renewal.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("abrir xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrEmptyFile
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("leer hoja %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	return &renewal.Table{Header: header, Rows: rows[1:]}, nil
}

// WriteTable escribe encabezado en negrita; las columnas numéricas se guardan como número.
func (XLSXCodec) WriteTable(w io.Writer, t *renewal.Table) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", itemsSheet); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	for c, h := range t.Header {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(itemsSheet, cell, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(itemsSheet, cell, cell, bold); err != nil {
			return err
		}
	}

	for r, row := range t.Rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(itemsSheet, cell, cellValue(t, c, v)); err != nil {
				return err
			}
		}
	}

	if len(t.Header) > 0 {
		last, err := excelize.ColumnNumberToName(len(t.Header))
		if err != nil {
			return err
		}
		if err := f.SetColWidth(itemsSheet, "A", last, 16); err != nil {
			return err
		}
	}
	return f.Write(w)
}

// cellValue número para columnas numéricas con valor; texto en otro caso.
func cellValue(t *renewal.Table, col int, v string) interface{} {
	if v == "" || col >= len(t.Numeric) || !t.Numeric[col] {
		return v
	}
	d, err := decimal.NewFromString(v)
	if err != nil || !money.InRange(d) {
		return v
	}
	return d.InexactFloat64()
}
