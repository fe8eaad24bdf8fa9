package services

import (
	"context"
	"errors"
	"time"

	"github.com/gaming-marketplace/backend/internal/apperrors"
	"github.com/gaming-marketplace/backend/internal/config"
	"github.com/gaming-marketplace/backend/internal/events"
	"github.com/gaming-marketplace/backend/internal/metrics"
	"github.com/gaming-marketplace/backend/internal/models"
	"github.com/gaming-marketplace/backend/internal/repositories"
	"github.com/gaming-marketplace/backend/internal/validation"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// WalletService is the suspended-gold ledger. Every mutation loads the
// wallet document, reconciles deposit maturity against the clock, applies
// the change, and persists — deposit status is always derived, never read
// back from storage.
type WalletService struct {
	walletRepo *repositories.WalletRepo
	realmRepo  *repositories.RealmRepo
	feeRepo    *repositories.FeeRepo
	auditRepo  *repositories.AuditRepo
	errorRepo  *repositories.ErrorLogRepo
	publisher  events.Publisher
	metrics    *metrics.LedgerMetrics
	cfg        *config.Config
	log        *zap.Logger

	// now is swappable for tests.
	now func() time.Time
}

func NewWalletService(
	walletRepo *repositories.WalletRepo,
	realmRepo *repositories.RealmRepo,
	feeRepo *repositories.FeeRepo,
	auditRepo *repositories.AuditRepo,
	errorRepo *repositories.ErrorLogRepo,
	publisher events.Publisher,
	m *metrics.LedgerMetrics,
	cfg *config.Config,
	log *zap.Logger,
) *WalletService {
	return &WalletService{
		walletRepo: walletRepo,
		realmRepo:  realmRepo,
		feeRepo:    feeRepo,
		auditRepo:  auditRepo,
		errorRepo:  errorRepo,
		publisher:  publisher,
		metrics:    m,
		cfg:        cfg,
		log:        log,
		now:        time.Now,
	}
}

// GetWallet returns the user's wallet with maturity reconciled as of now.
// Reconciliation that moved gold is persisted and announced.
func (s *WalletService) GetWallet(ctx context.Context, userID uuid.UUID) (*models.MultiWallet, error) {
	wallet, err := s.walletRepo.Get(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.Newf(apperrors.CodeWalletNotFound, "no wallet for user %s", userID)
	}
	if err != nil {
		return nil, apperrors.New(apperrors.CodeStorageError, "failed to load wallet").WithCause(err)
	}

	if matured := wallet.Reconcile(s.now()); len(matured) > 0 {
		if err := s.walletRepo.Save(ctx, wallet); err != nil {
			return nil, apperrors.New(apperrors.CodeStorageError, "failed to persist reconciliation").WithCause(err)
		}
		for _, realmID := range matured {
			s.publishWallet(ctx, events.EventDepositMatured, userID, realmID)
		}
	}
	return wallet, nil
}

// CreateGoldWallet opens an empty gold wallet for (user, realm); at most one
// may exist per pair.
func (s *WalletService) CreateGoldWallet(ctx context.Context, userID, realmID uuid.UUID, adminID uuid.UUID) (*models.MultiWallet, error) {
	if err := s.requireActiveRealm(ctx, realmID); err != nil {
		return nil, err
	}

	wallet, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := wallet.CreateGoldWallet(realmID); err != nil {
		return nil, s.fail(ctx, err)
	}
	if err := s.walletRepo.Save(ctx, wallet); err != nil {
		return nil, s.fail(ctx, apperrors.New(apperrors.CodeStorageError, "failed to save wallet").WithCause(err))
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &adminID,
		ActorType:   "admin",
		Action:      "gold_wallet_created",
		EntityType:  "wallet",
		EntityID:    &userID,
		Meta:        map[string]any{"realm_id": realmID.String()},
	})
	s.publishWallet(ctx, events.EventWalletUpdated, userID, realmID)
	return wallet, nil
}

// DepositReceipt pairs the created deposit with any validation warnings so
// the dashboard can surface "large amount" notices.
type DepositReceipt struct {
	Deposit  *models.SuspendedDeposit  `json:"deposit"`
	Warnings []validation.FieldWarning `json:"warnings,omitempty"`
}

// AddSuspendedGold records one admin deposit, locked until now + the
// configured suspension period.
func (s *WalletService) AddSuspendedGold(ctx context.Context, userID, realmID uuid.UUID, amount float64, adminID uuid.UUID) (*DepositReceipt, error) {
	res := validation.Amount(validation.FieldAmount, amount, s.cfg.MaxDepositGold)
	if err := res.Err(); err != nil {
		s.metrics.ValidationFailures.WithLabelValues(string(validation.FieldAmount)).Inc()
		return nil, err
	}
	if err := s.requireActiveRealm(ctx, realmID); err != nil {
		return nil, err
	}

	wallet, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	wallet.Reconcile(now)

	deposit, err := wallet.AddSuspendedGold(realmID, amount, adminID, s.cfg.SuspensionMonths, now)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	if err := s.walletRepo.Save(ctx, wallet); err != nil {
		return nil, s.fail(ctx, apperrors.New(apperrors.CodeStorageError, "failed to save wallet").WithCause(err))
	}

	s.metrics.RecordDeposit(realmID.String(), amount)
	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &adminID,
		ActorType:   "admin",
		Action:      "suspended_gold_deposited",
		EntityType:  "wallet",
		EntityID:    &userID,
		Meta: map[string]any{
			"realm_id":        realmID.String(),
			"amount":          amount,
			"withdrawable_at": deposit.WithdrawableAt,
		},
	})
	s.publishWallet(ctx, events.EventWalletUpdated, userID, realmID)

	s.log.Info("suspended gold deposited",
		zap.String("user_id", userID.String()),
		zap.String("realm_id", realmID.String()),
		zap.Float64("amount", amount),
	)
	return &DepositReceipt{Deposit: deposit, Warnings: res.Warnings}, nil
}

// ConvertSuspendedGold exchanges suspended gold for a fiat balance, applying
// the current conversion fee. A disabled fee config converts fee-free.
func (s *WalletService) ConvertSuspendedGold(ctx context.Context, userID, realmID uuid.UUID, amount float64, currency models.Currency, adminID uuid.UUID) (*models.ConversionResult, error) {
	res := validation.Amount(validation.FieldAmount, amount, s.cfg.MaxDepositGold)
	if err := res.Err(); err != nil {
		s.metrics.ValidationFailures.WithLabelValues(string(validation.FieldAmount)).Inc()
		return nil, err
	}

	feeCfg, err := s.feeRepo.GetCurrent(ctx)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.New(apperrors.CodeConfigNotFound, "conversion fee config is not initialized")
	}
	if err != nil {
		return nil, apperrors.New(apperrors.CodeStorageError, "failed to load fee config").WithCause(err)
	}
	feePercent := 0.0
	if feeCfg.IsActive {
		feePercent = feeCfg.FeeFor(currency)
	}

	wallet, err := s.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	result, err := wallet.ConvertSuspendedGold(realmID, amount, currency, feePercent, s.now())
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	if err := s.walletRepo.Save(ctx, wallet); err != nil {
		return nil, s.fail(ctx, apperrors.New(apperrors.CodeStorageError, "failed to save wallet").WithCause(err))
	}

	s.metrics.RecordConversion(string(currency), result.Fee)
	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &adminID,
		ActorType:   "admin",
		Action:      "suspended_gold_converted",
		EntityType:  "wallet",
		EntityID:    &userID,
		Meta: map[string]any{
			"realm_id":    realmID.String(),
			"currency":    currency,
			"gold_amount": result.GoldAmount,
			"fee":         result.Fee,
			"net":         result.Net,
		},
	})
	s.publishWallet(ctx, events.EventWalletUpdated, userID, realmID)
	return result, nil
}

// WithdrawGold removes matured gold from the withdrawable balance.
func (s *WalletService) WithdrawGold(ctx context.Context, userID, realmID uuid.UUID, amount float64, adminID uuid.UUID) error {
	wallet, err := s.GetWallet(ctx, userID)
	if err != nil {
		return err
	}
	if err := wallet.WithdrawGold(realmID, amount, s.now()); err != nil {
		return s.fail(ctx, err)
	}
	if err := s.walletRepo.Save(ctx, wallet); err != nil {
		return s.fail(ctx, apperrors.New(apperrors.CodeStorageError, "failed to save wallet").WithCause(err))
	}

	s.metrics.RecordWithdrawal(realmID.String())
	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &adminID,
		ActorType:   "admin",
		Action:      "gold_withdrawn",
		EntityType:  "wallet",
		EntityID:    &userID,
		Meta:        map[string]any{"realm_id": realmID.String(), "amount": amount},
	})
	s.publishWallet(ctx, events.EventWalletUpdated, userID, realmID)
	return nil
}

// CreditStatic adds fiat to a user's static wallet; the wallet document is
// created on first credit.
func (s *WalletService) CreditStatic(ctx context.Context, userID uuid.UUID, currency models.Currency, amount float64, adminID uuid.UUID) error {
	wallet, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	if err := wallet.CreditStatic(currency, amount, s.now()); err != nil {
		return s.fail(ctx, err)
	}
	return s.saveStaticChange(ctx, wallet, "static_wallet_credited", userID, currency, amount, adminID)
}

// DebitStatic subtracts fiat; the balance check happens before mutation.
func (s *WalletService) DebitStatic(ctx context.Context, userID uuid.UUID, currency models.Currency, amount float64, adminID uuid.UUID) error {
	wallet, err := s.GetWallet(ctx, userID)
	if err != nil {
		return err
	}
	if err := wallet.DebitStatic(currency, amount, s.now()); err != nil {
		return s.fail(ctx, err)
	}
	return s.saveStaticChange(ctx, wallet, "static_wallet_debited", userID, currency, amount, adminID)
}

func (s *WalletService) saveStaticChange(ctx context.Context, wallet *models.MultiWallet, action string, userID uuid.UUID, currency models.Currency, amount float64, adminID uuid.UUID) error {
	if err := s.walletRepo.Save(ctx, wallet); err != nil {
		return s.fail(ctx, apperrors.New(apperrors.CodeStorageError, "failed to save wallet").WithCause(err))
	}
	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &adminID,
		ActorType:   "admin",
		Action:      action,
		EntityType:  "wallet",
		EntityID:    &userID,
		Meta:        map[string]any{"currency": currency, "amount": amount},
	})
	s.publishWallet(ctx, events.EventWalletUpdated, userID, uuid.Nil)
	return nil
}

// ReconcileDueWallets is the worker sweep: it reconciles every wallet whose
// earliest maturity has passed and persists the moved balances. The lazy
// read-path reconciliation stays authoritative; the sweep just keeps the
// stored documents and dashboard views fresh.
func (s *WalletService) ReconcileDueWallets(ctx context.Context) (int, error) {
	start := s.now()
	due, err := s.walletRepo.ListDueForMaturity(ctx, start)
	if err != nil {
		return 0, apperrors.New(apperrors.CodeStorageError, "failed to list due wallets").WithCause(err)
	}

	reconciled := 0
	for _, userID := range due {
		wallet, err := s.walletRepo.Get(ctx, userID)
		if err != nil {
			s.log.Warn("sweep: failed to load wallet", zap.String("user_id", userID.String()), zap.Error(err))
			continue
		}
		var movedTotal float64
		for _, gw := range wallet.GoldWallets {
			before := gw.SuspendedGold
			gw.Reconcile(start)
			movedTotal += before - gw.SuspendedGold
		}
		if movedTotal <= 0 {
			continue
		}
		if err := s.walletRepo.Save(ctx, wallet); err != nil {
			s.log.Warn("sweep: failed to save wallet", zap.String("user_id", userID.String()), zap.Error(err))
			continue
		}
		s.metrics.RecordMatured(movedTotal)
		s.publishWallet(ctx, events.EventDepositMatured, userID, uuid.Nil)
		reconciled++
	}

	s.metrics.SweepDuration.Observe(time.Since(start).Seconds())
	if reconciled > 0 {
		s.log.Info("maturity sweep finished", zap.Int("wallets", reconciled))
	}
	return reconciled, nil
}

func (s *WalletService) loadOrCreate(ctx context.Context, userID uuid.UUID) (*models.MultiWallet, error) {
	wallet, err := s.walletRepo.Get(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.NewMultiWallet(userID), nil
	}
	if err != nil {
		return nil, apperrors.New(apperrors.CodeStorageError, "failed to load wallet").WithCause(err)
	}
	wallet.Reconcile(s.now())
	return wallet, nil
}

func (s *WalletService) requireActiveRealm(ctx context.Context, realmID uuid.UUID) error {
	realm, err := s.realmRepo.GetByID(ctx, realmID)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.Newf(apperrors.CodeRealmNotFound, "realm %s not found", realmID)
	}
	if err != nil {
		return apperrors.New(apperrors.CodeStorageError, "failed to load realm").WithCause(err)
	}
	if !realm.IsActive {
		return apperrors.Newf(apperrors.CodeInvalidInput, "realm %q is deactivated", realm.RealmName)
	}
	return nil
}

// fail records the error in the error log and metrics before returning it.
func (s *WalletService) fail(ctx context.Context, err error) error {
	app := apperrors.Normalize(err)
	s.metrics.RecordError(app.Code)
	_ = s.errorRepo.Log(ctx, app)
	return app
}

func (s *WalletService) publishWallet(ctx context.Context, eventType string, userID, realmID uuid.UUID) {
	payload := map[string]any{"user_id": userID.String()}
	if realmID != uuid.Nil {
		payload["realm_id"] = realmID.String()
	}
	_ = s.publisher.Publish(ctx, events.ChannelWallet, events.Event{
		Type:    eventType,
		Payload: payload,
	})
}
