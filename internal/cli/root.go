// Package cli comandos de renewalctl: migraciones, refresco diario de días restantes
// y recálculo fuera de línea de archivos de ítems.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/renewal-tracking-api/internal/infrastructure/postgres"
	"github.com/jhoicas/renewal-tracking-api/pkg/config"
	"github.com/jhoicas/renewal-tracking-api/pkg/logger"
)

var version = "1.0.0"

// env estado compartido por los subcomandos, cargado en PersistentPreRunE.
type env struct {
	cfg *config.Config
	log *logger.Logger
}

// NewRootCommand arma el árbol de comandos.
func NewRootCommand() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:           "renewalctl",
		Short:         "Herramientas de operación de Renewal Tracking",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("cargar configuración: %w", err)
			}
			e.cfg = cfg
			e.log = logger.New(logger.Config{
				Env:    cfg.App.Env,
				Level:  cfg.App.LogLevel,
				Output: cmd.ErrOrStderr(),
			})
			return nil
		},
	}
	root.AddCommand(
		newMigrateCommand(e),
		newStatusCommand(e),
		newRefreshDaysCommand(e),
		newRecalcCommand(e),
	)
	return root
}

// Execute ejecuta renewalctl y devuelve el código de salida.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// location zona horaria de "hoy" para el cálculo de días restantes.
func (e *env) location() (*time.Location, error) {
	loc, err := time.LoadLocation(e.cfg.Renewal.Timezone)
	if err != nil {
		return nil, fmt.Errorf("zona horaria %q: %w", e.cfg.Renewal.Timezone, err)
	}
	return loc, nil
}

func (e *env) openPool(ctx context.Context) (*pgxpool.Pool, error) {
	pool, err := postgres.NewPool(ctx, e.cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	return pool, nil
}
