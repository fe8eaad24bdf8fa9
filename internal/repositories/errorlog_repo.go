package repositories

import (
	"context"

	"github.com/gaming-marketplace/backend/internal/apperrors"
	"github.com/gaming-marketplace/backend/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrorLogRepo persists normalized operation errors for the dashboard's
// error console. Writes are fire-and-forget at call sites.
type ErrorLogRepo struct {
	pool *pgxpool.Pool
}

func NewErrorLogRepo(pool *pgxpool.Pool) *ErrorLogRepo {
	return &ErrorLogRepo{pool: pool}
}

func (r *ErrorLogRepo) Log(ctx context.Context, appErr *apperrors.AppError) error {
	if appErr == nil {
		return nil
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO error_log (code, message, details, created_at)
		VALUES ($1, $2, $3, $4)
	`, appErr.Code, appErr.Message, appErr.Details, appErr.Timestamp)
	return err
}

func (r *ErrorLogRepo) Recent(ctx context.Context, limit int) ([]models.ErrorLogEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, code, message, details, created_at
		FROM error_log ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.ErrorLogEntry
	for rows.Next() {
		var e models.ErrorLogEntry
		if err := rows.Scan(&e.ID, &e.Code, &e.Message, &e.Details, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
