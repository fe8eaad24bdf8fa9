package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gaming-marketplace/backend/internal/config"
	"github.com/gaming-marketplace/backend/internal/db"
	"github.com/gaming-marketplace/backend/internal/events"
	apphttp "github.com/gaming-marketplace/backend/internal/http"
	"github.com/gaming-marketplace/backend/internal/http/handlers"
	"github.com/gaming-marketplace/backend/internal/metrics"
	"github.com/gaming-marketplace/backend/internal/repositories"
	"github.com/gaming-marketplace/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	// Run migrations
	if err := db.RunMigrations(ctx, pool, "migrations", log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repositories
	adminRepo := repositories.NewAdminRepo(pool)
	gameRepo := repositories.NewGameRepo(pool)
	realmRepo := repositories.NewRealmRepo(pool)
	walletRepo := repositories.NewWalletRepo(pool)
	feeRepo := repositories.NewFeeRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)
	errorLogRepo := repositories.NewErrorLogRepo(pool)

	// Events
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	ledgerMetrics := metrics.NewLedgerMetrics()

	// Services
	authService := services.NewAuthService(adminRepo, cfg, log)
	catalogService := services.NewCatalogService(gameRepo, realmRepo, auditRepo, publisher, log)
	walletService := services.NewWalletService(walletRepo, realmRepo, feeRepo, auditRepo, errorLogRepo, publisher, ledgerMetrics, cfg, log)
	feeService := services.NewFeeService(feeRepo, auditRepo, publisher, ledgerMetrics, cfg, log)
	exportService := services.NewExportService(walletRepo, gameRepo, realmRepo, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, log)
	catalogHandler := handlers.NewCatalogHandler(catalogService, log)
	walletHandler := handlers.NewWalletHandler(walletService, log)
	feeHandler := handlers.NewFeeHandler(feeService, log)
	exportHandler := handlers.NewExportHandler(exportService, log)
	auditHandler := handlers.NewAuditHandler(auditRepo, errorLogRepo, log)
	wsHub := handlers.NewWSHub(cfg, subscriber, log)

	// Start WS hub
	wsHub.Start(ctx)

	// Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	apphttp.SetupRouter(app, cfg, log, rdb, authHandler, catalogHandler, walletHandler, feeHandler, exportHandler, auditHandler, wsHub)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
