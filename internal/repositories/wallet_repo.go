package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gaming-marketplace/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WalletRepo stores each user's MultiWallet as a single JSON document, one
// row per user. Dates travel as ISO strings inside the document and are
// rehydrated by encoding/json on every read. next_maturity_at is a derived
// index column for the maturity sweep; deposit status is never read from it.
type WalletRepo struct {
	pool *pgxpool.Pool
}

func NewWalletRepo(pool *pgxpool.Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

func (r *WalletRepo) Get(ctx context.Context, userID uuid.UUID) (*models.MultiWallet, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx, `
		SELECT data FROM wallets WHERE user_id = $1
	`, userID).Scan(&raw)
	if err != nil {
		return nil, err
	}
	var w models.MultiWallet
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// Save upserts the wallet document. Last write wins: the original system had
// no concurrency control over wallet blobs and the admin dashboard is the
// only writer.
func (r *WalletRepo) Save(ctx context.Context, w *models.MultiWallet) error {
	raw, err := json.Marshal(w)
	if err != nil {
		return err
	}

	var next *time.Time
	if n := w.NextMaturity(time.Now()); !n.IsZero() {
		next = &n
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO wallets (user_id, data, next_maturity_at, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id) DO UPDATE SET
			data = EXCLUDED.data,
			next_maturity_at = EXCLUDED.next_maturity_at,
			updated_at = now()
	`, w.UserID, raw, next)
	return err
}

// ListDueForMaturity returns users whose earliest suspended deposit has
// passed its maturity timestamp.
func (r *WalletRepo) ListDueForMaturity(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id FROM wallets
		WHERE next_maturity_at IS NOT NULL AND next_maturity_at <= $1
	`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListAll loads every wallet document, for exports.
func (r *WalletRepo) ListAll(ctx context.Context) ([]models.MultiWallet, error) {
	rows, err := r.pool.Query(ctx, `SELECT data FROM wallets ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wallets []models.MultiWallet
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var w models.MultiWallet
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}
