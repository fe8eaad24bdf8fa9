package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gaming-marketplace/backend/internal/config"
	"github.com/gaming-marketplace/backend/internal/db"
	"github.com/gaming-marketplace/backend/internal/events"
	"github.com/gaming-marketplace/backend/internal/metrics"
	"github.com/gaming-marketplace/backend/internal/models"
	"github.com/gaming-marketplace/backend/internal/ops"
	"github.com/gaming-marketplace/backend/internal/realmstatus"
	"github.com/gaming-marketplace/backend/internal/repositories"
	"github.com/gaming-marketplace/backend/internal/services"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repos
	walletRepo := repositories.NewWalletRepo(pool)
	realmRepo := repositories.NewRealmRepo(pool)
	feeRepo := repositories.NewFeeRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)
	errorLogRepo := repositories.NewErrorLogRepo(pool)

	// Services
	publisher := events.NewRedisPublisher(rdb, log)
	ledgerMetrics := metrics.NewLedgerMetrics()
	walletService := services.NewWalletService(walletRepo, realmRepo, feeRepo, auditRepo, errorLogRepo, publisher, ledgerMetrics, cfg, log)
	parser := realmstatus.NewParser(cfg.StatusFetchTimeoutMS, cfg.StatusFetchMaxRetries, log)

	log.Info("worker started")

	sweepTicker := time.NewTicker(cfg.MaturitySweepInterval)
	statusTicker := time.NewTicker(cfg.RealmStatusInterval)
	defer sweepTicker.Stop()
	defer statusTicker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sweepTicker.C:
			runMaturitySweep(ctx, walletService, cfg, log)
		case <-statusTicker.C:
			runRealmStatusFetch(ctx, realmRepo, parser, log)
		case <-sigCh:
			log.Info("shutting down worker")
			cancel()
			return
		case <-ctx.Done():
			return
		}
	}
}

func runMaturitySweep(ctx context.Context, walletService *services.WalletService, cfg *config.Config, log *zap.Logger) {
	_, err := ops.Do(ctx, log, func(ctx context.Context) (any, error) {
		return walletService.ReconcileDueWallets(ctx)
	}, ops.Options{
		RetryAttempts: cfg.SweepRetryAttempts,
		RetryDelay:    cfg.SweepRetryDelay,
	})
	if err != nil {
		log.Error("maturity sweep failed", zap.Error(err))
	}
}

func runRealmStatusFetch(ctx context.Context, realmRepo *repositories.RealmRepo, parser *realmstatus.Parser, log *zap.Logger) {
	realms, err := realmRepo.ListWithStatusURL(ctx)
	if err != nil {
		log.Error("failed to list realms for status fetch", zap.Error(err))
		return
	}

	for _, realm := range realms {
		if realm.StatusURL == nil {
			continue
		}
		status, err := parser.FetchAndParse(ctx, *realm.StatusURL)
		if err != nil {
			log.Warn("failed to fetch realm status",
				zap.String("realm_id", realm.ID.String()),
				zap.Error(err),
			)
			continue
		}

		snap := models.RealmStatusSnapshot{
			RealmID:    realm.ID,
			Population: status.Population,
			Online:     status.Online,
			Queue:      status.Queue,
			FetchedAt:  status.FetchedAt,
		}
		if err := realmRepo.SaveStatusSnapshot(ctx, &snap); err != nil {
			log.Error("failed to save realm status",
				zap.String("realm_id", realm.ID.String()),
				zap.Error(err),
			)
		}

		time.Sleep(500 * time.Millisecond) // rate limiting
	}
}
