package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/asaskevich/EventBus"
	"github.com/spf13/cobra"

	appanalytics "github.com/jhoicas/bodega-api/internal/application/analytics"
	"github.com/jhoicas/bodega-api/internal/application/inventory"
	"github.com/jhoicas/bodega-api/internal/application/monitor"
	"github.com/jhoicas/bodega-api/internal/domain/expiry"
	"github.com/jhoicas/bodega-api/internal/infrastructure/postgres"
	"github.com/jhoicas/bodega-api/pkg/config"
	"github.com/jhoicas/bodega-api/pkg/logger"
)

// systemUser autor del kardex en correcciones lanzadas desde la CLI.
const systemUser = "bodegactl"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bodegactl",
		Short:         "Operación de bodega-api",
		SilenceUsage:  true,
	}
	root.AddCommand(newMigrateCmd(), newSyncCmd(), newTriageCmd())
	return root
}

func loadEnv() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("cargar configuración: %w", err)
	}
	return cfg, logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "bodegactl", Output: os.Stderr}), nil
}

func newMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica o revierte las migraciones embebidas",
	}
	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Aplica las migraciones pendientes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadEnv()
			if err != nil {
				return err
			}
			return postgres.MigrateUp(cfg.DB.ConnectionString(), log)
		},
	})
	down := &cobra.Command{
		Use:   "down",
		Short: "Revierte migraciones (por defecto una)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			cfg, log, err := loadEnv()
			if err != nil {
				return err
			}
			return postgres.MigrateDown(cfg.DB.ConnectionString(), steps, log)
		},
	}
	down.Flags().Int("steps", 1, "cantidad de migraciones a revertir")
	migrateCmd.AddCommand(down)
	return migrateCmd
}

func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Iguala el stock de cada producto con la suma de sus lotes",
		Long:  "Sin --company recorre todas las empresas. Cada corrección emite una alerta de Sincronización.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			company, _ := cmd.Flags().GetString("company")
			cfg, log, err := loadEnv()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			pool, err := postgres.NewPool(ctx, cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()

			syncUC := inventory.NewSyncUseCase(
				postgres.NewTxRunner(pool),
				inventory.NewStockWriter(cfg.Alerts.DefaultMinStock),
				postgres.NewProductRepository(pool),
				postgres.NewLotRepository(pool),
				cfg.Jobs.SyncWorkers,
				log,
			)
			if company == "" {
				return syncUC.RunAll(ctx)
			}
			report, err := syncUC.Run(ctx, company, systemUser)
			if err != nil {
				return err
			}
			return printJSON(cmd, report)
		},
	}
	cmd.Flags().String("company", "", "ID de la empresa (vacío = todas)")
	return cmd
}

func newTriageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "triage",
		Short: "Calcula el triage de vencimientos de una empresa",
		RunE: func(cmd *cobra.Command, _ []string) error {
			company, _ := cmd.Flags().GetString("company")
			cfg, log, err := loadEnv()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			pool, err := postgres.NewPool(ctx, cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()

			productRepo := postgres.NewProductRepository(pool)
			lotRepo := postgres.NewLotRepository(pool)
			mon := monitor.New(EventBus.New(), productRepo, lotRepo, expiry.Policy{
				CriticalDays:   cfg.Alerts.CriticalDays,
				ProjectionDays: cfg.Alerts.ProjectionDays,
				Strict:         cfg.Alerts.StrictDates,
				Loc:            cfg.App.Location(),
			}, log)
			out, err := appanalytics.NewDashboardUseCase(mon, productRepo, lotRepo, cfg.Alerts.ProjectionDays).Expiry(ctx, company)
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
	cmd.Flags().String("company", "", "ID de la empresa")
	_ = cmd.MarkFlagRequired("company")
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
