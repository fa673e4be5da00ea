package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/Costeo-api/internal/application/inventory"
	"github.com/jhoicas/Costeo-api/internal/application/pricing"
	invdomain "github.com/jhoicas/Costeo-api/internal/domain/inventory"
	"github.com/jhoicas/Costeo-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Costeo-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Costeo-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Costeo-api/internal/infrastructure/redis"
	"github.com/jhoicas/Costeo-api/internal/infrastructure/tracing"
	httpRouter "github.com/jhoicas/Costeo-api/internal/interfaces/http"
	"github.com/jhoicas/Costeo-api/pkg/config"
	"github.com/jhoicas/Costeo-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	loc, _ := time.LoadLocation(cfg.App.TimeZone) // validado en config.Load

	ctx := context.Background()

	tp, err := tracing.NewProvider(ctx, cfg.Tracing, cfg.App)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar tracing")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	// Cache de materiales: opcional, sin Redis se lee siempre de la BD.
	var ledgerCache inventory.LedgerCache = inventory.NopCache{}
	if cfg.Redis.Enabled() {
		rc, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, se continúa sin cache")
		} else {
			defer func() { _ = rc.Close() }()
			ledgerCache = infraredis.NewLedgerCache(rc, cfg.Redis.TTL)
		}
	}

	txRunner := postgres.NewTxRunner(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	ledgerRepo := postgres.NewMaterialLedgerRepository(pool)
	priceRepo := postgres.NewProductPriceRepository(pool)

	calculator, err := invdomain.NewPriceCalculator(cfg.Pricing.Margin1Rate, cfg.Pricing.Margin2Rate)
	if err != nil {
		log.Fatal().Err(err).Msg("tasas de margen")
	}

	purchaseUC := inventory.NewPurchaseUseCase(txRunner, purchaseRepo,
		inventory.WithMaxAttempts(cfg.Ledger.MaxAttempts),
		inventory.WithBackoff(cfg.Ledger.Backoff),
		inventory.WithCache(ledgerCache),
		inventory.WithLogger(log.Component("inventory")),
	)
	materialUC := inventory.NewMaterialQueryUseCase(ledgerRepo, ledgerCache, log.Component("materials"))
	priceUC := pricing.NewProductPriceUseCase(pricing.Deps{
		TxRunner:     txRunner,
		LedgerRepo:   ledgerRepo,
		PurchaseRepo: purchaseRepo,
		PriceRepo:    priceRepo,
		Calculator:   calculator,
		PDF:          infrapdf.NewMarotoCostSheetGenerator(cfg.App.Name),
		Cache:        ledgerCache,
		Logger:       log.Component("pricing"),
		Location:     loc,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.HTTP.AllowOrigins}))
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	if cfg.Metrics.Enabled {
		app.Use(metrics.Middleware())
		app.Get("/metrics", metrics.Handler())
	}

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.Swagger.FilePath); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.Swagger.FilePath,
			Path:     "docs",
			Title:    "Costeo API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Purchases:     purchaseUC,
		Materials:     materialUC,
		ProductPrices: priceUC,
		JWTSecret:     cfg.JWT.Secret,
		Location:      loc,
		HealthCheck:   pool.Ping,
		ServiceName:   cfg.App.Name,
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
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del tracing")
	}

	log.Info().Msg("aplicación detenida")
}
