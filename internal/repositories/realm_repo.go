package repositories

import (
	"context"

	"github.com/gaming-marketplace/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RealmRepo struct {
	pool *pgxpool.Pool
}

func NewRealmRepo(pool *pgxpool.Pool) *RealmRepo {
	return &RealmRepo{pool: pool}
}

const realmSelect = `
	SELECT r.id, r.game_id, g.name, r.realm_name, r.display_name, r.status_url,
	       r.is_active, r.created_by, r.created_at, r.updated_at
	FROM realms r
	JOIN games g ON g.id = r.game_id
`

func scanRealm(row interface{ Scan(...any) error }) (*models.GameRealm, error) {
	var rm models.GameRealm
	err := row.Scan(&rm.ID, &rm.GameID, &rm.GameName, &rm.RealmName, &rm.DisplayName,
		&rm.StatusURL, &rm.IsActive, &rm.CreatedBy, &rm.CreatedAt, &rm.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rm, nil
}

func (r *RealmRepo) Create(ctx context.Context, rm *models.GameRealm) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO realms (game_id, realm_name, display_name, status_url, is_active, created_by)
		VALUES ($1, $2, $3, $4, true, $5)
		RETURNING id, is_active, created_at, updated_at
	`, rm.GameID, rm.RealmName, rm.DisplayName, rm.StatusURL, rm.CreatedBy).
		Scan(&rm.ID, &rm.IsActive, &rm.CreatedAt, &rm.UpdatedAt)
}

func (r *RealmRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.GameRealm, error) {
	return scanRealm(r.pool.QueryRow(ctx, realmSelect+` WHERE r.id = $1`, id))
}

func (r *RealmRepo) ListByGame(ctx context.Context, gameID uuid.UUID, includeInactive bool) ([]models.GameRealm, error) {
	rows, err := r.pool.Query(ctx, realmSelect+`
		WHERE r.game_id = $1 AND (r.is_active OR $2)
		ORDER BY r.created_at DESC
	`, gameID, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var realms []models.GameRealm
	for rows.Next() {
		rm, err := scanRealm(rows)
		if err != nil {
			return nil, err
		}
		realms = append(realms, *rm)
	}
	return realms, rows.Err()
}

// ListWithStatusURL returns active realms the worker can poll for status.
func (r *RealmRepo) ListWithStatusURL(ctx context.Context) ([]models.GameRealm, error) {
	rows, err := r.pool.Query(ctx, realmSelect+`
		WHERE r.is_active AND r.status_url IS NOT NULL
		ORDER BY r.created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var realms []models.GameRealm
	for rows.Next() {
		rm, err := scanRealm(rows)
		if err != nil {
			return nil, err
		}
		realms = append(realms, *rm)
	}
	return realms, rows.Err()
}

// Update persists realm_name/display_name/status_url/is_active. GameID and
// creation fields are immutable.
func (r *RealmRepo) Update(ctx context.Context, rm *models.GameRealm) error {
	return r.pool.QueryRow(ctx, `
		UPDATE realms SET realm_name = $1, display_name = $2, status_url = $3,
		       is_active = $4, updated_at = now()
		WHERE id = $5
		RETURNING updated_at
	`, rm.RealmName, rm.DisplayName, rm.StatusURL, rm.IsActive, rm.ID).Scan(&rm.UpdatedAt)
}

func (r *RealmRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE realms SET is_active = $1, updated_at = now() WHERE id = $2
	`, active, id)
	return err
}

// NameExists reports a case-insensitive realm-name collision within one game,
// optionally excluding the realm being updated.
func (r *RealmRepo) NameExists(ctx context.Context, gameID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM realms
			WHERE game_id = $1 AND LOWER(realm_name) = LOWER($2)
			  AND ($3::uuid IS NULL OR id <> $3)
		)
	`, gameID, name, excludeID).Scan(&exists)
	return exists, err
}

func (r *RealmRepo) SaveStatusSnapshot(ctx context.Context, s *models.RealmStatusSnapshot) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO realm_status_snapshots (realm_id, population, online, queue, fetched_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, s.RealmID, s.Population, s.Online, s.Queue, s.FetchedAt).Scan(&s.ID)
}

func (r *RealmRepo) GetLatestStatus(ctx context.Context, realmID uuid.UUID) (*models.RealmStatusSnapshot, error) {
	var s models.RealmStatusSnapshot
	err := r.pool.QueryRow(ctx, `
		SELECT id, realm_id, population, online, queue, fetched_at
		FROM realm_status_snapshots
		WHERE realm_id = $1
		ORDER BY fetched_at DESC LIMIT 1
	`, realmID).Scan(&s.ID, &s.RealmID, &s.Population, &s.Online, &s.Queue, &s.FetchedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
