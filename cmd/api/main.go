package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/invorya/pos-sync-api/internal/application/auth"
	"github.com/invorya/pos-sync-api/internal/application/catalog"
	"github.com/invorya/pos-sync-api/internal/application/inventory"
	"github.com/invorya/pos-sync-api/internal/application/sales"
	"github.com/invorya/pos-sync-api/internal/application/usecase"
	infrapdf "github.com/invorya/pos-sync-api/internal/infrastructure/pdf"
	"github.com/invorya/pos-sync-api/internal/infrastructure/postgres"
	httpRouter "github.com/invorya/pos-sync-api/internal/interfaces/http"
	"github.com/invorya/pos-sync-api/pkg/config"
	"github.com/invorya/pos-sync-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Bool("reject_negative_stock", cfg.Inventory.RejectNegativeStock).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	alertRepo := postgres.NewAlertRepository(pool)
	prefRepo := postgres.NewAlertPreferenceRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ledger := inventory.NewStockLedger(txRunner, productRepo, inventory.Config{
		RejectNegativeStock: cfg.Inventory.RejectNegativeStock,
	}, log)
	alertEngine := inventory.NewAlertEngine(alertRepo, log)

	syncUC := sales.NewSyncUseCase(txRunner, saleRepo, productRepo, ledger, alertEngine, log)
	receiptUC := sales.NewReceiptUseCase(saleRepo, productRepo, userRepo, infrapdf.NewMarotoReceiptGenerator(), log)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	productUC := usecase.NewProductUseCase(productRepo)
	movementUC := usecase.NewMovementUseCase(ledger, alertEngine, movementRepo, productRepo, log)
	alertUC := usecase.NewAlertUseCase(alertRepo, prefRepo)
	analyticsUC := usecase.NewAnalyticsUseCase(analyticsRepo, saleRepo, productRepo)
	importUC := catalog.NewImportUseCase(productRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "POS Sync API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ProductUC:   productUC,
		MovementUC:  movementUC,
		AlertUC:     alertUC,
		AnalyticsUC: analyticsUC,
		SyncUC:      syncUC,
		ReceiptUC:   receiptUC,
		ImportUC:    importUC,
		JWTSecret:   cfg.JWT.Secret,
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

	log.Info().Msg("aplicación detenida")
}
