package services

import (
	"context"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/gaming-marketplace/backend/internal/apperrors"
	"github.com/gaming-marketplace/backend/internal/export"
	"github.com/gaming-marketplace/backend/internal/models"
	"github.com/gaming-marketplace/backend/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ExportService renders wallet balances, deposit logs, and the game catalog
// as CSV or JSON downloads. Rows are ordered deterministically so repeated
// exports of unchanged data are byte-identical.
type ExportService struct {
	walletRepo *repositories.WalletRepo
	gameRepo   *repositories.GameRepo
	realmRepo  *repositories.RealmRepo
	log        *zap.Logger
}

func NewExportService(
	walletRepo *repositories.WalletRepo,
	gameRepo *repositories.GameRepo,
	realmRepo *repositories.RealmRepo,
	log *zap.Logger,
) *ExportService {
	return &ExportService{
		walletRepo: walletRepo,
		gameRepo:   gameRepo,
		realmRepo:  realmRepo,
		log:        log,
	}
}

var walletHeader = []string{
	"user_id", "realm_id", "suspended_gold", "withdrawable_gold", "total_gold",
	"usd_balance", "toman_balance", "updated_at",
}

// WalletRow is one gold wallet flattened with the owner's fiat balances.
type WalletRow struct {
	UserID           uuid.UUID `json:"user_id"`
	RealmID          uuid.UUID `json:"realm_id"`
	SuspendedGold    float64   `json:"suspended_gold"`
	WithdrawableGold float64   `json:"withdrawable_gold"`
	TotalGold        float64   `json:"total_gold"`
	UsdBalance       float64   `json:"usd_balance"`
	TomanBalance     float64   `json:"toman_balance"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (s *ExportService) walletRows(ctx context.Context, now time.Time) ([]WalletRow, error) {
	wallets, err := s.walletRepo.ListAll(ctx)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeStorageError, "failed to load wallets").WithCause(err)
	}

	var out []WalletRow
	for i := range wallets {
		w := &wallets[i]
		w.Reconcile(now)

		realmIDs := make([]uuid.UUID, 0, len(w.GoldWallets))
		for id := range w.GoldWallets {
			realmIDs = append(realmIDs, id)
		}
		sort.Slice(realmIDs, func(i, j int) bool { return realmIDs[i].String() < realmIDs[j].String() })

		usd := w.StaticWallets[models.CurrencyUSD].Balance
		toman := w.StaticWallets[models.CurrencyToman].Balance
		for _, id := range realmIDs {
			gw := w.GoldWallets[id]
			out = append(out, WalletRow{
				UserID:           w.UserID,
				RealmID:          id,
				SuspendedGold:    gw.SuspendedGold,
				WithdrawableGold: gw.WithdrawableGold,
				TotalGold:        gw.TotalGold,
				UsdBalance:       usd,
				TomanBalance:     toman,
				UpdatedAt:        w.UpdatedAt,
			})
		}
		// Users with only fiat balances still get one row.
		if len(realmIDs) == 0 {
			out = append(out, WalletRow{
				UserID:       w.UserID,
				UsdBalance:   usd,
				TomanBalance: toman,
				UpdatedAt:    w.UpdatedAt,
			})
		}
	}
	return out, nil
}

func (s *ExportService) WalletsCSV(ctx context.Context, w io.Writer, includeHeader bool) error {
	rows, err := s.walletRows(ctx, time.Now())
	if err != nil {
		return err
	}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.UserID.String(),
			r.RealmID.String(),
			formatFloat(r.SuspendedGold),
			formatFloat(r.WithdrawableGold),
			formatFloat(r.TotalGold),
			formatFloat(r.UsdBalance),
			formatFloat(r.TomanBalance),
			r.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	return export.WriteCSV(w, walletHeader, records, includeHeader)
}

func (s *ExportService) WalletsJSON(ctx context.Context, w io.Writer) error {
	rows, err := s.walletRows(ctx, time.Now())
	if err != nil {
		return err
	}
	return export.WriteJSON(w, export.NewEnvelope(rows, len(rows), nil, nil))
}

var depositHeader = []string{
	"user_id", "realm_id", "deposit_id", "amount", "status",
	"deposited_at", "deposited_by", "withdrawable_at",
}

// DepositRow is one suspended-deposit log entry with its derived status.
type DepositRow struct {
	UserID         uuid.UUID `json:"user_id"`
	RealmID        uuid.UUID `json:"realm_id"`
	DepositID      uuid.UUID `json:"deposit_id"`
	Amount         float64   `json:"amount"`
	Status         string    `json:"status"`
	DepositedAt    time.Time `json:"deposited_at"`
	DepositedBy    uuid.UUID `json:"deposited_by"`
	WithdrawableAt time.Time `json:"withdrawable_at"`
}

func (s *ExportService) depositRows(ctx context.Context, rng *export.DateRange, now time.Time) ([]DepositRow, error) {
	wallets, err := s.walletRepo.ListAll(ctx)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeStorageError, "failed to load wallets").WithCause(err)
	}

	var out []DepositRow
	for i := range wallets {
		w := &wallets[i]

		realmIDs := make([]uuid.UUID, 0, len(w.GoldWallets))
		for id := range w.GoldWallets {
			realmIDs = append(realmIDs, id)
		}
		sort.Slice(realmIDs, func(i, j int) bool { return realmIDs[i].String() < realmIDs[j].String() })

		for _, id := range realmIDs {
			gw := w.GoldWallets[id]
			for j := range gw.Deposits {
				d := &gw.Deposits[j]
				if rng != nil {
					if rng.From != nil && d.DepositedAt.Before(*rng.From) {
						continue
					}
					if rng.To != nil && d.DepositedAt.After(*rng.To) {
						continue
					}
				}
				out = append(out, DepositRow{
					UserID:         w.UserID,
					RealmID:        id,
					DepositID:      d.ID,
					Amount:         d.Amount,
					Status:         d.StatusAt(now),
					DepositedAt:    d.DepositedAt,
					DepositedBy:    d.DepositedBy,
					WithdrawableAt: d.WithdrawableAt,
				})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DepositedAt.Before(out[j].DepositedAt) })
	return out, nil
}

func (s *ExportService) DepositsCSV(ctx context.Context, w io.Writer, rng *export.DateRange, includeHeader bool) error {
	rows, err := s.depositRows(ctx, rng, time.Now())
	if err != nil {
		return err
	}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.UserID.String(),
			r.RealmID.String(),
			r.DepositID.String(),
			formatFloat(r.Amount),
			r.Status,
			r.DepositedAt.UTC().Format(time.RFC3339),
			r.DepositedBy.String(),
			r.WithdrawableAt.UTC().Format(time.RFC3339),
		})
	}
	return export.WriteCSV(w, depositHeader, records, includeHeader)
}

func (s *ExportService) DepositsJSON(ctx context.Context, w io.Writer, rng *export.DateRange) error {
	rows, err := s.depositRows(ctx, rng, time.Now())
	if err != nil {
		return err
	}
	return export.WriteJSON(w, export.NewEnvelope(rows, len(rows), nil, rng))
}

var catalogHeader = []string{
	"game_id", "game_name", "game_slug", "game_active",
	"realm_id", "realm_name", "display_name", "realm_active",
}

// CatalogRow is one game/realm pair; games without realms export with empty
// realm columns.
type CatalogRow struct {
	GameID      uuid.UUID  `json:"game_id"`
	GameName    string     `json:"game_name"`
	GameSlug    string     `json:"game_slug"`
	GameActive  bool       `json:"game_active"`
	RealmID     *uuid.UUID `json:"realm_id,omitempty"`
	RealmName   string     `json:"realm_name,omitempty"`
	DisplayName string     `json:"display_name,omitempty"`
	RealmActive *bool      `json:"realm_active,omitempty"`
}

func (s *ExportService) catalogRows(ctx context.Context) ([]CatalogRow, error) {
	games, err := s.gameRepo.List(ctx, true)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeStorageError, "failed to load games").WithCause(err)
	}

	var out []CatalogRow
	for i := range games {
		g := &games[i]
		realms, err := s.realmRepo.ListByGame(ctx, g.ID, true)
		if err != nil {
			return nil, apperrors.New(apperrors.CodeStorageError, "failed to load realms").WithCause(err)
		}
		if len(realms) == 0 {
			out = append(out, CatalogRow{
				GameID: g.ID, GameName: g.Name, GameSlug: g.Slug, GameActive: g.IsActive,
			})
			continue
		}
		for j := range realms {
			r := &realms[j]
			active := r.IsActive
			out = append(out, CatalogRow{
				GameID:      g.ID,
				GameName:    g.Name,
				GameSlug:    g.Slug,
				GameActive:  g.IsActive,
				RealmID:     &r.ID,
				RealmName:   r.RealmName,
				DisplayName: r.DisplayName,
				RealmActive: &active,
			})
		}
	}
	return out, nil
}

func (s *ExportService) CatalogCSV(ctx context.Context, w io.Writer, includeHeader bool) error {
	rows, err := s.catalogRows(ctx)
	if err != nil {
		return err
	}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		realmID, realmActive := "", ""
		if r.RealmID != nil {
			realmID = r.RealmID.String()
		}
		if r.RealmActive != nil {
			realmActive = strconv.FormatBool(*r.RealmActive)
		}
		records = append(records, []string{
			r.GameID.String(),
			r.GameName,
			r.GameSlug,
			strconv.FormatBool(r.GameActive),
			realmID,
			r.RealmName,
			r.DisplayName,
			realmActive,
		})
	}
	return export.WriteCSV(w, catalogHeader, records, includeHeader)
}

func (s *ExportService) CatalogJSON(ctx context.Context, w io.Writer) error {
	rows, err := s.catalogRows(ctx)
	if err != nil {
		return err
	}
	return export.WriteJSON(w, export.NewEnvelope(rows, len(rows), nil, nil))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
