package repositories

import (
	"context"

	"github.com/gaming-marketplace/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FeeRepo manages the append-only conversion-fee configuration log. The
// newest row is the current config; everything older is history,
// most-recent-first.
type FeeRepo struct {
	pool *pgxpool.Pool
}

func NewFeeRepo(pool *pgxpool.Pool) *FeeRepo {
	return &FeeRepo{pool: pool}
}

func (r *FeeRepo) Insert(ctx context.Context, c *models.ConversionFeeConfig) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO fee_configs (usd_fee, toman_fee, is_active, updated_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, updated_at
	`, c.SuspendedGoldToUSD, c.SuspendedGoldToToman, c.IsActive, c.UpdatedBy).
		Scan(&c.ID, &c.UpdatedAt)
}

func (r *FeeRepo) GetCurrent(ctx context.Context) (*models.ConversionFeeConfig, error) {
	var c models.ConversionFeeConfig
	err := r.pool.QueryRow(ctx, `
		SELECT id, usd_fee, toman_fee, is_active, updated_by, updated_at
		FROM fee_configs ORDER BY seq DESC LIMIT 1
	`).Scan(&c.ID, &c.SuspendedGoldToUSD, &c.SuspendedGoldToToman, &c.IsActive, &c.UpdatedBy, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// SetActive flips the enabled flag on the current config in place; fee
// values and history are untouched.
func (r *FeeRepo) SetActive(ctx context.Context, active bool, adminID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE fee_configs SET is_active = $1, updated_by = $2, updated_at = now()
		WHERE seq = (SELECT MAX(seq) FROM fee_configs)
	`, active, adminID)
	return err
}

// History returns past configs newest-first, excluding the current one.
func (r *FeeRepo) History(ctx context.Context, limit, offset int) ([]models.ConversionFeeConfig, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, usd_fee, toman_fee, is_active, updated_by, updated_at
		FROM fee_configs
		ORDER BY seq DESC
		OFFSET 1 + $2 LIMIT $1
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []models.ConversionFeeConfig
	for rows.Next() {
		var c models.ConversionFeeConfig
		if err := rows.Scan(&c.ID, &c.SuspendedGoldToUSD, &c.SuspendedGoldToToman, &c.IsActive, &c.UpdatedBy, &c.UpdatedAt); err != nil {
			return nil, err
		}
		configs = append(configs, c)
	}
	return configs, rows.Err()
}
