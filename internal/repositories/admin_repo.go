package repositories

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/gaming-marketplace/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AdminRepo struct {
	pool *pgxpool.Pool
}

func NewAdminRepo(pool *pgxpool.Pool) *AdminRepo {
	return &AdminRepo{pool: pool}
}

// GetByCredentials returns the active admin matching username + API key.
func (r *AdminRepo) GetByCredentials(ctx context.Context, username, apiKey string) (*models.Admin, error) {
	var a models.Admin
	err := r.pool.QueryRow(ctx, `
		SELECT id, username, display_name, role, is_active, created_at, last_login_at
		FROM admins
		WHERE username = $1 AND api_key_hash = $2 AND is_active = true
	`, username, HashAPIKey(apiKey)).Scan(
		&a.ID, &a.Username, &a.DisplayName, &a.Role, &a.IsActive, &a.CreatedAt, &a.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdminRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	var a models.Admin
	err := r.pool.QueryRow(ctx, `
		SELECT id, username, display_name, role, is_active, created_at, last_login_at
		FROM admins WHERE id = $1
	`, id).Scan(&a.ID, &a.Username, &a.DisplayName, &a.Role, &a.IsActive, &a.CreatedAt, &a.LastLoginAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdminRepo) TouchLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE admins SET last_login_at = now() WHERE id = $1`, id)
	return err
}

func HashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
