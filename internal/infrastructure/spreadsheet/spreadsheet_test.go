package spreadsheet_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/renewal-tracking-api/internal/application/renewal"
	"github.com/jhoicas/renewal-tracking-api/internal/infrastructure/spreadsheet"
)

// ──────────────────────────────────────────────────────────────────────────────
// CSV
// ──────────────────────────────────────────────────────────────────────────────

func TestCSVReadTable_ConBOM(t *testing.T) {
	in := "\xEF\xBB\xBFItem Code,Item Name,Qty\nA-1,\"Licencia, anual\",\"1,000\"\nB-2,Soporte\n"

	table, err := spreadsheet.CSVCodec{}.ReadTable(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"Item Code", "Item Name", "Qty"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"A-1", "Licencia, anual", "1,000"}, table.Rows[0])
	assert.Equal(t, []string{"B-2", "Soporte"}, table.Rows[1], "filas incompletas se aceptan")
}

func TestCSVReadTable_Windows1252(t *testing.T) {
	utf := "Item Code,Description\nA-1,Licencia año\n"
	latin, err := charmap.Windows1252.NewEncoder().String(utf)
	require.NoError(t, err)

	table, err := spreadsheet.CSVCodec{}.ReadTable(strings.NewReader(latin))
	require.NoError(t, err)
	assert.Equal(t, "Licencia año", table.Rows[0][1])
}

func TestCSVReadTable_Vacio(t *testing.T) {
	_, err := spreadsheet.CSVCodec{}.ReadTable(strings.NewReader(""))
	assert.ErrorIs(t, err, spreadsheet.ErrEmptyFile)
}

func TestCSVWriteTable_Escapa(t *testing.T) {
	table := &renewal.Table{
		Header: []string{"Item Code", "Description"},
		Rows:   [][]string{{"A-1", `Dice "hola", adiós`}},
	}
	var buf bytes.Buffer
	require.NoError(t, spreadsheet.CSVCodec{}.WriteTable(&buf, table))
	assert.Equal(t, "Item Code,Description\nA-1,\"Dice \"\"hola\"\", adiós\"\n", buf.String())
}

// ──────────────────────────────────────────────────────────────────────────────
// XLSX
// ──────────────────────────────────────────────────────────────────────────────

func TestXLSX_EscribirYLeer(t *testing.T) {
	codec := spreadsheet.XLSXCodec{}
	table := &renewal.Table{
		Header:  []string{"Item Code", "Item Name", "Qty", "Amount"},
		Rows:    [][]string{{"A-1", "Licencia", "10", "255.55"}, {"B-2", "Soporte", "", "0"}},
		Numeric: []bool{false, false, true, true},
	}

	var buf bytes.Buffer
	require.NoError(t, codec.WriteTable(&buf, table))
	assert.NotZero(t, buf.Len())

	back, err := codec.ReadTable(&buf)
	require.NoError(t, err)
	assert.Equal(t, table.Header, back.Header)
	require.Len(t, back.Rows, 2)
	assert.Equal(t, []string{"A-1", "Licencia", "10", "255.55"}, back.Rows[0])
	assert.Equal(t, "B-2", back.Rows[1][0])
	assert.Equal(t, "0", back.Rows[1][3])
}

func TestXLSX_ArchivoInvalido(t *testing.T) {
	_, err := spreadsheet.XLSXCodec{}.ReadTable(strings.NewReader("no es un zip"))
	assert.Error(t, err)
}

func TestCodecs_Extensiones(t *testing.T) {
	assert.Equal(t, ".csv", spreadsheet.CSVCodec{}.Extension())
	assert.Equal(t, ".xlsx", spreadsheet.XLSXCodec{}.Extension())
	assert.Contains(t, spreadsheet.XLSXCodec{}.ContentType(), "spreadsheetml")
}
