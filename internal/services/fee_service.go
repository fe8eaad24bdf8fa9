package services

import (
	"context"
	"errors"

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

// FeeService manages the conversion-fee configuration. Fee values are never
// edited in place: each change appends a new config row, so the full history
// survives. Only the enabled flag flips on the current row directly.
type FeeService struct {
	feeRepo   *repositories.FeeRepo
	auditRepo *repositories.AuditRepo
	publisher events.Publisher
	metrics   *metrics.LedgerMetrics
	cfg       *config.Config
	log       *zap.Logger
}

func NewFeeService(
	feeRepo *repositories.FeeRepo,
	auditRepo *repositories.AuditRepo,
	publisher events.Publisher,
	m *metrics.LedgerMetrics,
	cfg *config.Config,
	log *zap.Logger,
) *FeeService {
	return &FeeService{
		feeRepo:   feeRepo,
		auditRepo: auditRepo,
		publisher: publisher,
		metrics:   m,
		cfg:       cfg,
		log:       log,
	}
}

func (s *FeeService) GetCurrent(ctx context.Context) (*models.ConversionFeeConfig, error) {
	c, err := s.feeRepo.GetCurrent(ctx)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.New(apperrors.CodeConfigNotFound, "conversion fee config is not initialized")
	}
	if err != nil {
		return nil, apperrors.New(apperrors.CodeStorageError, "failed to load fee config").WithCause(err)
	}
	return c, nil
}

// FeeUpdate carries the new percentages plus any high-fee warnings raised
// during validation. Warnings do not block the update.
type FeeUpdate struct {
	Config   *models.ConversionFeeConfig `json:"config"`
	Warnings []validation.FieldWarning   `json:"warnings,omitempty"`
}

// UpdateFees appends a new config with the given percentages, preserving the
// current enabled flag.
func (s *FeeService) UpdateFees(ctx context.Context, usdFee, tomanFee float64, adminID uuid.UUID) (*FeeUpdate, error) {
	res := validation.FeePercent(validation.FieldUsdFee, usdFee, s.cfg.HighFeeWarnAbove)
	res.Merge(validation.FeePercent(validation.FieldTomanFee, tomanFee, s.cfg.HighFeeWarnAbove))
	if err := res.Err(); err != nil {
		s.metrics.ValidationFailures.WithLabelValues(string(validation.FieldUsdFee)).Inc()
		return nil, err
	}

	current, err := s.GetCurrent(ctx)
	if err != nil {
		return nil, err
	}

	next := &models.ConversionFeeConfig{
		SuspendedGoldToUSD:   usdFee,
		SuspendedGoldToToman: tomanFee,
		IsActive:             current.IsActive,
		UpdatedBy:            adminID,
	}
	if err := s.feeRepo.Insert(ctx, next); err != nil {
		return nil, apperrors.New(apperrors.CodeStorageError, "failed to save fee config").WithCause(err)
	}

	s.metrics.FeeConfigUpdates.Inc()
	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &adminID,
		ActorType:   "admin",
		Action:      "fee_config_updated",
		EntityType:  "fee_config",
		EntityID:    &next.ID,
		Meta:        map[string]any{"usd_fee": usdFee, "toman_fee": tomanFee},
	})
	s.publishFees(ctx)

	s.log.Info("fee config updated",
		zap.Float64("usd_fee", usdFee),
		zap.Float64("toman_fee", tomanFee),
		zap.String("admin_id", adminID.String()),
	)
	return &FeeUpdate{Config: next, Warnings: res.Warnings}, nil
}

// SetEnabled flips the enabled flag on the current config. Disabled fees mean
// conversions proceed fee-free, not that conversions stop.
func (s *FeeService) SetEnabled(ctx context.Context, enabled bool, adminID uuid.UUID) (*models.ConversionFeeConfig, error) {
	if _, err := s.GetCurrent(ctx); err != nil {
		return nil, err
	}
	if err := s.feeRepo.SetActive(ctx, enabled, adminID); err != nil {
		return nil, apperrors.New(apperrors.CodeStorageError, "failed to update fee config").WithCause(err)
	}

	action := "fee_config_disabled"
	if enabled {
		action = "fee_config_enabled"
	}
	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &adminID,
		ActorType:   "admin",
		Action:      action,
		EntityType:  "fee_config",
	})
	s.publishFees(ctx)
	return s.GetCurrent(ctx)
}

// ResetToDefaults appends a config with the deployment defaults, enabled.
func (s *FeeService) ResetToDefaults(ctx context.Context, adminID uuid.UUID) (*models.ConversionFeeConfig, error) {
	next := &models.ConversionFeeConfig{
		SuspendedGoldToUSD:   s.cfg.DefaultUsdFee,
		SuspendedGoldToToman: s.cfg.DefaultTomanFee,
		IsActive:             true,
		UpdatedBy:            adminID,
	}
	if err := s.feeRepo.Insert(ctx, next); err != nil {
		return nil, apperrors.New(apperrors.CodeStorageError, "failed to save fee config").WithCause(err)
	}

	s.metrics.FeeConfigUpdates.Inc()
	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &adminID,
		ActorType:   "admin",
		Action:      "fee_config_reset",
		EntityType:  "fee_config",
		EntityID:    &next.ID,
	})
	s.publishFees(ctx)
	return next, nil
}

func (s *FeeService) History(ctx context.Context, limit, offset int) ([]models.ConversionFeeConfig, error) {
	history, err := s.feeRepo.History(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeStorageError, "failed to load fee history").WithCause(err)
	}
	return history, nil
}

// Quote previews the fee math for an amount without touching any wallet.
func (s *FeeService) Quote(ctx context.Context, amount float64, currency models.Currency) (*models.ConversionQuote, error) {
	res := validation.Amount(validation.FieldAmount, amount, s.cfg.MaxDepositGold)
	if err := res.Err(); err != nil {
		return nil, err
	}

	current, err := s.GetCurrent(ctx)
	if err != nil {
		return nil, err
	}
	pct := 0.0
	if current.IsActive {
		pct = current.FeeFor(currency)
	}
	quote := models.QuoteConversion(amount, pct)
	return &quote, nil
}

func (s *FeeService) publishFees(ctx context.Context) {
	_ = s.publisher.Publish(ctx, events.ChannelFees, events.Event{
		Type: events.EventFeeConfigUpdated,
	})
}
