package repositories

import (
	"context"

	"github.com/gaming-marketplace/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GameRepo struct {
	pool *pgxpool.Pool
}

func NewGameRepo(pool *pgxpool.Pool) *GameRepo {
	return &GameRepo{pool: pool}
}

func (r *GameRepo) Create(ctx context.Context, g *models.GameDefinition) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO games (name, slug, icon, is_active, created_by)
		VALUES ($1, $2, $3, true, $4)
		RETURNING id, is_active, created_at, updated_at
	`, g.Name, g.Slug, g.Icon, g.CreatedBy).Scan(&g.ID, &g.IsActive, &g.CreatedAt, &g.UpdatedAt)
}

func (r *GameRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.GameDefinition, error) {
	var g models.GameDefinition
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, slug, icon, is_active, created_by, created_at, updated_at
		FROM games WHERE id = $1
	`, id).Scan(&g.ID, &g.Name, &g.Slug, &g.Icon, &g.IsActive, &g.CreatedBy, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GameRepo) List(ctx context.Context, includeInactive bool) ([]models.GameDefinition, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, slug, icon, is_active, created_by, created_at, updated_at
		FROM games
		WHERE is_active OR $1
		ORDER BY created_at DESC
	`, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []models.GameDefinition
	for rows.Next() {
		var g models.GameDefinition
		if err := rows.Scan(&g.ID, &g.Name, &g.Slug, &g.Icon, &g.IsActive, &g.CreatedBy, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// Update persists name/slug/icon/is_active. Identity and creation fields are
// never touched.
func (r *GameRepo) Update(ctx context.Context, g *models.GameDefinition) error {
	return r.pool.QueryRow(ctx, `
		UPDATE games SET name = $1, slug = $2, icon = $3, is_active = $4, updated_at = now()
		WHERE id = $5
		RETURNING updated_at
	`, g.Name, g.Slug, g.Icon, g.IsActive, g.ID).Scan(&g.UpdatedAt)
}

func (r *GameRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE games SET is_active = $1, updated_at = now() WHERE id = $2
	`, active, id)
	return err
}

// SlugExists reports a case-insensitive slug collision, optionally excluding
// one game (the record being updated).
func (r *GameRepo) SlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM games
			WHERE LOWER(slug) = LOWER($1) AND ($2::uuid IS NULL OR id <> $2)
		)
	`, slug, excludeID).Scan(&exists)
	return exists, err
}
