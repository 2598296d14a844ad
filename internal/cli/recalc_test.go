package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRecalc_CSV(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "items.csv")
	require.NoError(t, os.WriteFile(in, []byte("Item Code,Qty,Rate\nLIC-1,2,10\n,5,5\nLIC-2,1,\"1,000\"\n"), 0o600))

	var stdout bytes.Buffer
	err := runRecalc(recalcOptions{in: in, rate: "12", foreign: true, maxRows: 10}, &stdout)
	require.NoError(t, err)

	out, err := os.ReadFile(filepath.Join(dir, "items_recalc.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Item Code,Item Name,Description,Brand,Item Group,UOM,Qty,Rate,Amount,Base Rate,Base Amount", lines[0])
	assert.Equal(t, "LIC-1,,,,,,2,10,20,120,240", lines[1])
	assert.Equal(t, "LIC-2,,,,,,1,1000,1000,12000,12000", lines[2])

	assert.Contains(t, stdout.String(), "ítems: 2")
	assert.Contains(t, stdout.String(), "net_total: 1020.00")
	assert.Contains(t, stdout.String(), "net_total_base: 12240.00")
}

func TestRunRecalc_CSVaXLSX(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "items.csv")
	require.NoError(t, os.WriteFile(in, []byte("Item Code,Qty,Rate\nLIC-1,3,7\n"), 0o600))
	out := filepath.Join(dir, "salida.xlsx")

	var stdout bytes.Buffer
	require.NoError(t, runRecalc(recalcOptions{in: in, out: out, rate: "1", maxRows: 10}, &stdout))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	table, err := codecs[".xlsx"].ReadTable(f)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "LIC-1", table.Rows[0][0])
	assert.Equal(t, "21", table.Rows[0][8])
}

func TestRunRecalc_Errores(t *testing.T) {
	var stdout bytes.Buffer
	err := runRecalc(recalcOptions{in: "items.ods", rate: "1"}, &stdout)
	assert.ErrorContains(t, err, "formato no soportado")

	dir := t.TempDir()
	in := filepath.Join(dir, "items.csv")
	require.NoError(t, os.WriteFile(in, []byte("Item Code,Qty\nA,1\n"), 0o600))
	err = runRecalc(recalcOptions{in: in, out: filepath.Join(dir, "items.pdf"), rate: "1"}, &stdout)
	assert.ErrorContains(t, err, "formato no soportado")
}

func TestRunRecalc_TasaIlegibleCuentaComoUno(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "items.csv")
	require.NoError(t, os.WriteFile(in, []byte("Item Code,Qty,Rate\nLIC-1,2,10\n"), 0o600))

	for _, rate := range []string{"abc", "", "0", "1e50000000"} {
		var stdout bytes.Buffer
		require.NoError(t, runRecalc(recalcOptions{in: in, rate: rate, foreign: true, maxRows: 10}, &stdout), rate)
		assert.Contains(t, stdout.String(), "net_total_base: 20.00", rate)
	}
}
