package http

import (
	"time"

	"github.com/gaming-marketplace/backend/internal/config"
	"github.com/gaming-marketplace/backend/internal/http/handlers"
	"github.com/gaming-marketplace/backend/internal/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	authHandler *handlers.AuthHandler,
	catalogHandler *handlers.CatalogHandler,
	walletHandler *handlers.WalletHandler,
	feeHandler *handlers.FeeHandler,
	exportHandler *handlers.ExportHandler,
	auditHandler *handlers.AuditHandler,
	wsHub *handlers.WSHub,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api/v1")

	// Auth (public)
	api.Post("/auth/login", authHandler.Login)

	api.Use(middleware.RateLimitMiddleware(rdb, 100, time.Minute))

	// Protected endpoints; mutations additionally require the admin role.
	protected := api.Group("", middleware.AuthMiddleware(cfg, log))
	admin := middleware.RequireAdmin()

	// Games
	protected.Post("/games", admin, catalogHandler.CreateGame)
	protected.Get("/games", catalogHandler.ListGames)
	protected.Get("/games/:id", catalogHandler.GetGame)
	protected.Put("/games/:id", admin, catalogHandler.UpdateGame)
	protected.Post("/games/:id/deactivate", admin, catalogHandler.SetGameActive(false))
	protected.Post("/games/:id/reactivate", admin, catalogHandler.SetGameActive(true))

	// Realms
	protected.Post("/games/:id/realms", admin, catalogHandler.CreateRealm)
	protected.Get("/games/:id/realms", catalogHandler.ListRealms)
	protected.Get("/realms/:id", catalogHandler.GetRealm)
	protected.Put("/realms/:id", admin, catalogHandler.UpdateRealm)
	protected.Post("/realms/:id/deactivate", admin, catalogHandler.SetRealmActive(false))
	protected.Post("/realms/:id/reactivate", admin, catalogHandler.SetRealmActive(true))
	protected.Get("/realms/:id/status", catalogHandler.GetRealmStatus)

	// Wallets
	protected.Get("/users/:userId/wallet", walletHandler.GetWallet)
	protected.Post("/users/:userId/wallet/gold", admin, walletHandler.CreateGoldWallet)
	protected.Post("/users/:userId/wallet/deposits", admin, walletHandler.AddSuspendedGold)
	protected.Post("/users/:userId/wallet/convert", admin, walletHandler.ConvertSuspendedGold)
	protected.Post("/users/:userId/wallet/withdraw", admin, walletHandler.WithdrawGold)
	protected.Post("/users/:userId/wallet/credit", admin, walletHandler.CreditStatic)
	protected.Post("/users/:userId/wallet/debit", admin, walletHandler.DebitStatic)

	// Conversion fees
	protected.Get("/fees", feeHandler.GetCurrent)
	protected.Put("/fees", admin, feeHandler.UpdateFees)
	protected.Post("/fees/enable", admin, feeHandler.SetEnabled(true))
	protected.Post("/fees/disable", admin, feeHandler.SetEnabled(false))
	protected.Post("/fees/reset", admin, feeHandler.ResetToDefaults)
	protected.Get("/fees/history", feeHandler.History)
	protected.Post("/fees/quote", feeHandler.Quote)

	// Exports
	protected.Get("/exports/wallets", exportHandler.Wallets)
	protected.Get("/exports/deposits", exportHandler.Deposits)
	protected.Get("/exports/catalog", exportHandler.Catalog)

	// Audit and error consoles
	protected.Get("/audit/:entityType/:id", auditHandler.GetByEntity)
	protected.Get("/errors", auditHandler.RecentErrors)

	// WebSocket
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(wsHub.HandleWS))
}
