package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/bodega-api/internal/application/alerts"
	appanalytics "github.com/jhoicas/bodega-api/internal/application/analytics"
	"github.com/jhoicas/bodega-api/internal/application/counting"
	"github.com/jhoicas/bodega-api/internal/application/inventory"
	"github.com/jhoicas/bodega-api/internal/application/monitor"
	"github.com/jhoicas/bodega-api/internal/application/usecase"
	"github.com/jhoicas/bodega-api/internal/domain/expiry"
	"github.com/jhoicas/bodega-api/internal/infrastructure/export"
	infrapdf "github.com/jhoicas/bodega-api/internal/infrastructure/pdf"
	"github.com/jhoicas/bodega-api/internal/infrastructure/postgres"
	"github.com/jhoicas/bodega-api/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/bodega-api/internal/interfaces/http"
	"github.com/jhoicas/bodega-api/pkg/config"
	"github.com/jhoicas/bodega-api/pkg/jwt"
	"github.com/jhoicas/bodega-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
		Global:  true,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.DB.AutoMigrate {
		if err := postgres.MigrateUp(cfg.DB.ConnectionString(), log.Component("migrate")); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	loc := cfg.App.Location()
	policy := expiry.Policy{
		CriticalDays:   cfg.Alerts.CriticalDays,
		ProjectionDays: cfg.Alerts.ProjectionDays,
		Strict:         cfg.Alerts.StrictDates,
		Loc:            loc,
	}

	productRepo := postgres.NewProductRepository(pool)
	lotRepo := postgres.NewLotRepository(pool)
	countRepo := postgres.NewCountRepository(pool)
	alertRepo := postgres.NewAlertRepository(pool)
	movementRepo := postgres.NewInventoryMovementRepository(pool)
	returnRepo := postgres.NewReturnRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	writer := inventory.NewStockWriter(cfg.Alerts.DefaultMinStock)

	// Snapshots: NOTIFY → EventBus → monitor (consumidor único por empresa).
	bus := EventBus.New()
	mon := monitor.New(bus, productRepo, lotRepo, policy, log.Component("monitor"))
	if err := mon.Start(); err != nil {
		log.Fatal().Err(err).Msg("monitor de inventario")
	}
	listener := postgres.NewListener(pool, cfg.DB.SnapshotChannel, bus, log.Component("listener"))
	go listener.Run(ctx)

	productUC := usecase.NewProductUseCase(txRunner, writer, productRepo, movementRepo, policy, log)
	lotUC := usecase.NewLotUseCase(lotRepo, productRepo, policy, log)
	countUC := counting.NewUseCase(txRunner, writer, countRepo, productRepo,
		infrapdf.NewCountSheetGenerator(loc), export.NewCountCSVExporter())
	wasteUC := inventory.NewWasteUseCase(txRunner, writer)
	returnUC := inventory.NewReturnUseCase(txRunner, writer, productRepo, returnRepo)
	syncUC := inventory.NewSyncUseCase(txRunner, writer, productRepo, lotRepo, cfg.Jobs.SyncWorkers, log.Component("sync"))
	alertUC := alerts.NewUseCase(alertRepo, productRepo, mon, loc, log)
	dashboardUC := appanalytics.NewDashboardUseCase(mon, productRepo, lotRepo, cfg.Alerts.ProjectionDays)

	jobs := scheduler.New(loc, log.Component("scheduler"))
	if err := jobs.Add("stock-sync", cfg.Jobs.SyncSchedule, syncUC.RunAll); err != nil {
		log.Fatal().Err(err).Msg("scheduler")
	}
	if err := jobs.Add("expiry-digest", cfg.Jobs.DigestSchedule, alertUC.DigestAll); err != nil {
		log.Fatal().Err(err).Msg("scheduler")
	}
	jobs.Start()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs (requiere `swag init` previo)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Bodega API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	verifier, err := jwt.NewVerifier(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.Expiration)*time.Minute)
	if err != nil {
		log.Fatal().Err(err).Msg("JWT_SECRET requerido")
	}
	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:   productUC,
		LotUC:       lotUC,
		CountUC:     countUC,
		WasteUC:     wasteUC,
		ReturnUC:    returnUC,
		SyncUC:      syncUC,
		AlertUC:     alertUC,
		DashboardUC: dashboardUC,
		Verifier:    verifier,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	jobs.Stop()
	stop()
	mon.Stop()

	log.Info().Msg("aplicación detenida")
}
