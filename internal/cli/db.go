package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/renewal-tracking-api/internal/application/renewal"
	"github.com/jhoicas/renewal-tracking-api/internal/infrastructure/postgres"
)

func newMigrateCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplicar migraciones pendientes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			pool, err := e.openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := postgres.Migrate(ctx, pool); err != nil {
				return err
			}
			v, err := postgres.MigrationVersion(ctx, pool)
			if err != nil {
				return err
			}
			e.log.Info().Int64("version", v).Msg("migraciones aplicadas")
			return nil
		},
	}
}

func newStatusCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Mostrar la versión del esquema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			pool, err := e.openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			v, err := postgres.MigrationVersion(ctx, pool)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "versión del esquema: %d\n", v)
			return nil
		},
	}
}

func newRefreshDaysCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh-days",
		Short: "Recalcular days_remaining de todas las renovaciones abiertas",
		Long: `Recalcula los días restantes de cada renovación no cancelada con fechas de licencia.
Pensado para ejecutarse una vez al día (cron) en la zona RENEWAL_TIMEZONE.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			loc, err := e.location()
			if err != nil {
				return err
			}
			pool, err := e.openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			uc := renewal.NewRenewalUseCase(renewal.Deps{
				TxRunner:    postgres.NewTxRunner(pool),
				RenewalRepo: postgres.NewRenewalRepository(pool),
				Config:      renewal.Config{Location: loc},
				Log:         e.log,
			})
			n, err := uc.RefreshDaysRemaining(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "renovaciones actualizadas: %d\n", n)
			return nil
		},
	}
}
