// Package spreadsheet codecs de archivo para importar/exportar ítems (CSV y XLSX).
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/renewal-tracking-api/internal/application/renewal"
)

var _ renewal.TableCodec = CSVCodec{}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrEmptyFile el archivo no tiene encabezado.
var ErrEmptyFile = errors.New("archivo vacío")

// CSVCodec CSV separado por comas. Acepta BOM UTF-8 y archivos Windows-1252 (Excel en español).
type CSVCodec struct{}

// Extension extensión asociada.
func (CSVCodec) Extension() string { return ".csv" }

// ContentType tipo MIME de la descarga.
func (CSVCodec) ContentType() string { return "text/csv; charset=utf-8" }

// ReadTable lee encabezado y filas. Las filas pueden tener distinta cantidad de columnas.
func (CSVCodec) ReadTable(r io.Reader) (*renewal.Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("leer csv: %w", err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if !utf8.Valid(raw) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, fmt.Errorf("decodificar csv: %w", err)
		}
		raw = decoded
	}

	cr := csv.NewReader(bytes.NewReader(raw))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsear csv: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}
	return &renewal.Table{Header: records[0], Rows: records[1:]}, nil
}

// WriteTable escribe la tabla en CSV (UTF-8, sin BOM, fin de línea \n).
func (CSVCodec) WriteTable(w io.Writer, t *renewal.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}
