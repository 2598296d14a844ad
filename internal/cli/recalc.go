package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/renewal-tracking-api/internal/application/renewal"
	domrenewal "github.com/jhoicas/renewal-tracking-api/internal/domain/renewal"
	"github.com/jhoicas/renewal-tracking-api/internal/infrastructure/spreadsheet"
)

// codecs formatos de archivo soportados por extensión.
var codecs = map[string]renewal.TableCodec{
	".csv":  spreadsheet.CSVCodec{},
	".xlsx": spreadsheet.XLSXCodec{},
}

type recalcOptions struct {
	in      string
	out     string
	rate    string
	foreign bool
	maxRows int
}

func newRecalcCommand(e *env) *cobra.Command {
	var o recalcOptions
	cmd := &cobra.Command{
		Use:   "recalc",
		Short: "Recalcular montos de un archivo de ítems sin base de datos",
		Long: `Lee un archivo de ítems (.csv o .xlsx), recalcula Amount, Base Rate y Base Amount
con la tasa indicada y escribe el resultado. Las filas sin Item Code se omiten.`,
		Example: `  renewalctl recalc --in items.csv --rate 12.5 --foreign
  renewalctl recalc --in items.xlsx --out items_usd.csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if o.maxRows <= 0 {
				o.maxRows = e.cfg.Renewal.MaxImportRows
			}
			return runRecalc(o, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&o.in, "in", "", "Archivo de entrada (.csv, .xlsx)")
	cmd.Flags().StringVar(&o.out, "out", "", "Archivo de salida (por defecto <entrada>_recalc<ext>)")
	cmd.Flags().StringVar(&o.rate, "rate", "1", "Tasa de cambio moneda del documento -> moneda base")
	cmd.Flags().BoolVar(&o.foreign, "foreign", false, "La moneda del documento es distinta de la moneda base")
	cmd.Flags().IntVar(&o.maxRows, "max-rows", 0, "Máximo de ítems (por defecto RENEWAL_MAX_IMPORT_ROWS)")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func runRecalc(o recalcOptions, stdout io.Writer) error {
	inCodec, err := codecForPath(o.in)
	if err != nil {
		return err
	}
	if o.out == "" {
		ext := filepath.Ext(o.in)
		o.out = strings.TrimSuffix(o.in, ext) + "_recalc" + ext
	}
	outCodec, err := codecForPath(o.out)
	if err != nil {
		return err
	}
	// Tasa vacía, cero o ilegible cuenta como 1, igual que en el formulario.
	rate := domrenewal.LenientExchangeRate(o.rate)

	f, err := os.Open(o.in)
	if err != nil {
		return fmt.Errorf("abrir %s: %w", o.in, err)
	}
	defer f.Close()
	table, err := inCodec.ReadTable(f)
	if err != nil {
		return fmt.Errorf("leer %s: %w", o.in, err)
	}

	result, totals, err := renewal.RecalculateTable(table, rate, o.foreign, o.maxRows)
	if err != nil {
		return err
	}

	w, err := os.Create(o.out)
	if err != nil {
		return fmt.Errorf("crear %s: %w", o.out, err)
	}
	if err := outCodec.WriteTable(w, result); err != nil {
		w.Close()
		return fmt.Errorf("escribir %s: %w", o.out, err)
	}
	if err := w.Close(); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "ítems: %d\nnet_total: %s\nnet_total_base: %s\nsalida: %s\n",
		len(result.Rows), totals.NetTotal.StringFixed(2), totals.NetTotalBase.StringFixed(2), o.out)
	return nil
}

func codecForPath(path string) (renewal.TableCodec, error) {
	c, ok := codecs[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("formato no soportado: %s (use .csv o .xlsx)", path)
	}
	return c, nil
}
