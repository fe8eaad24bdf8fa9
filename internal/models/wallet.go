package models

import (
	"math"
	"sort"
	"time"

	"github.com/gaming-marketplace/backend/internal/apperrors"
	"github.com/google/uuid"
)

type Currency string

const (
	CurrencyUSD   Currency = "usd"
	CurrencyToman Currency = "toman"
)

func IsValidCurrency(c Currency) bool {
	return c == CurrencyUSD || c == CurrencyToman
}

// Deposit statuses
const (
	DepositStatusSuspended    = "suspended"
	DepositStatusWithdrawable = "withdrawable"
)

// SuspendedDeposit is a single admin deposit locked until WithdrawableAt.
// Status is derived from the clock, never trusted from storage: callers go
// through StatusAt / GoldWallet.Reconcile rather than reading the field raw.
type SuspendedDeposit struct {
	ID             uuid.UUID `json:"id"`
	Amount         float64   `json:"amount"`
	DepositedAt    time.Time `json:"deposited_at"`
	DepositedBy    uuid.UUID `json:"deposited_by"`
	WithdrawableAt time.Time `json:"withdrawable_at"`
	Status         string    `json:"status"`
}

// StatusAt computes the deposit status as a pure function of the clock.
func (d *SuspendedDeposit) StatusAt(now time.Time) string {
	if !now.Before(d.WithdrawableAt) {
		return DepositStatusWithdrawable
	}
	return DepositStatusSuspended
}

type StaticWallet struct {
	Balance float64 `json:"balance"`
}

// GoldWallet holds one realm's gold split into suspended and withdrawable
// sub-balances. Invariant after every mutation:
// TotalGold == SuspendedGold + WithdrawableGold.
type GoldWallet struct {
	RealmID          uuid.UUID          `json:"realm_id"`
	SuspendedGold    float64            `json:"suspended_gold"`
	WithdrawableGold float64            `json:"withdrawable_gold"`
	TotalGold        float64            `json:"total_gold"`
	Deposits         []SuspendedDeposit `json:"deposits"`
}

// Reconcile moves matured deposit amounts from suspended to withdrawable and
// refreshes each deposit's stored status. TotalGold is unchanged. Returns the
// amount moved.
func (w *GoldWallet) Reconcile(now time.Time) float64 {
	var moved float64
	for i := range w.Deposits {
		d := &w.Deposits[i]
		status := d.StatusAt(now)
		if status == DepositStatusWithdrawable && d.Status == DepositStatusSuspended {
			moved += d.Amount
		}
		d.Status = status
	}
	if moved > 0 {
		w.SuspendedGold -= moved
		w.WithdrawableGold += moved
		w.TotalGold = w.SuspendedGold + w.WithdrawableGold
	}
	return moved
}

// NextMaturity returns the earliest future maturity among still-suspended
// deposits, or zero time when none remain.
func (w *GoldWallet) NextMaturity(now time.Time) time.Time {
	var next time.Time
	for i := range w.Deposits {
		d := &w.Deposits[i]
		if d.StatusAt(now) != DepositStatusSuspended {
			continue
		}
		if next.IsZero() || d.WithdrawableAt.Before(next) {
			next = d.WithdrawableAt
		}
	}
	return next
}

// CheckInvariant verifies balance conservation.
func (w *GoldWallet) CheckInvariant() bool {
	return math.Abs(w.TotalGold-(w.SuspendedGold+w.WithdrawableGold)) < 1e-9
}

// MultiWallet is the full per-user wallet document: two static fiat wallets
// plus at most one gold wallet per realm.
type MultiWallet struct {
	UserID        uuid.UUID                  `json:"user_id"`
	StaticWallets map[Currency]*StaticWallet `json:"static_wallets"`
	GoldWallets   map[uuid.UUID]*GoldWallet  `json:"gold_wallets"`
	UpdatedAt     time.Time                  `json:"updated_at"`
}

func NewMultiWallet(userID uuid.UUID) *MultiWallet {
	return &MultiWallet{
		UserID: userID,
		StaticWallets: map[Currency]*StaticWallet{
			CurrencyUSD:   {},
			CurrencyToman: {},
		},
		GoldWallets: make(map[uuid.UUID]*GoldWallet),
	}
}

// CreateGoldWallet adds an empty gold wallet for the realm.
func (m *MultiWallet) CreateGoldWallet(realmID uuid.UUID) (*GoldWallet, error) {
	if _, ok := m.GoldWallets[realmID]; ok {
		return nil, apperrors.Newf(apperrors.CodeDuplicateWallet, "gold wallet for realm %s already exists", realmID)
	}
	w := &GoldWallet{RealmID: realmID}
	m.GoldWallets[realmID] = w
	return w, nil
}

func (m *MultiWallet) GoldWallet(realmID uuid.UUID) (*GoldWallet, error) {
	w, ok := m.GoldWallets[realmID]
	if !ok {
		return nil, apperrors.Newf(apperrors.CodeWalletNotFound, "no gold wallet for realm %s", realmID)
	}
	return w, nil
}

// AddSuspendedGold records one suspended deposit locked for lockMonths.
// The realm wallet is created on first deposit. Amount sanity is re-checked
// here so the ledger stays consistent even if a caller skips the validation
// layer; the 1,000,000 UI bound is deliberately not enforced at this level.
func (m *MultiWallet) AddSuspendedGold(realmID uuid.UUID, amount float64, adminID uuid.UUID, lockMonths int, now time.Time) (*SuspendedDeposit, error) {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "deposit amount must be a positive finite number")
	}
	w, ok := m.GoldWallets[realmID]
	if !ok {
		w = &GoldWallet{RealmID: realmID}
		m.GoldWallets[realmID] = w
	}

	deposit := SuspendedDeposit{
		ID:             uuid.New(),
		Amount:         amount,
		DepositedAt:    now,
		DepositedBy:    adminID,
		WithdrawableAt: now.AddDate(0, lockMonths, 0),
		Status:         DepositStatusSuspended,
	}
	w.Deposits = append(w.Deposits, deposit)
	w.SuspendedGold += amount
	w.TotalGold = w.SuspendedGold + w.WithdrawableGold
	m.UpdatedAt = now
	return &deposit, nil
}

// ConversionResult describes a suspended-gold-to-fiat conversion.
type ConversionResult struct {
	RealmID    uuid.UUID `json:"realm_id"`
	Currency   Currency  `json:"currency"`
	GoldAmount float64   `json:"gold_amount"`
	FeePercent float64   `json:"fee_percent"`
	Fee        float64   `json:"fee"`
	Net        float64   `json:"net"`
}

// ConvertSuspendedGold exchanges suspended gold for a fiat balance before
// maturity, deducting feePercent. Consumes the oldest suspended deposits
// first; a deposit may be partially consumed. Balance checks precede any
// mutation.
func (m *MultiWallet) ConvertSuspendedGold(realmID uuid.UUID, amount float64, currency Currency, feePercent float64, now time.Time) (*ConversionResult, error) {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "conversion amount must be a positive finite number")
	}
	if !IsValidCurrency(currency) {
		return nil, apperrors.Newf(apperrors.CodeInvalidInput, "unknown currency %q", currency)
	}
	w, err := m.GoldWallet(realmID)
	if err != nil {
		return nil, err
	}
	w.Reconcile(now)
	if w.SuspendedGold < amount {
		return nil, apperrors.Newf(apperrors.CodeInsufficientBalance,
			"suspended balance %.2f is less than requested %.2f", w.SuspendedGold, amount)
	}

	fee := amount * feePercent / 100
	net := amount - fee

	consumeSuspended(w, amount, now)
	w.SuspendedGold -= amount
	w.TotalGold = w.SuspendedGold + w.WithdrawableGold
	m.StaticWallets[currency].Balance += net
	m.UpdatedAt = now

	return &ConversionResult{
		RealmID:    realmID,
		Currency:   currency,
		GoldAmount: amount,
		FeePercent: feePercent,
		Fee:        fee,
		Net:        net,
	}, nil
}

// consumeSuspended reduces suspended deposit records oldest-first by amount.
// Fully consumed deposits are removed from the log.
func consumeSuspended(w *GoldWallet, amount float64, now time.Time) {
	sort.SliceStable(w.Deposits, func(i, j int) bool {
		return w.Deposits[i].DepositedAt.Before(w.Deposits[j].DepositedAt)
	})
	remaining := amount
	kept := w.Deposits[:0]
	for i := range w.Deposits {
		d := w.Deposits[i]
		if remaining <= 0 || d.StatusAt(now) != DepositStatusSuspended {
			kept = append(kept, d)
			continue
		}
		if d.Amount > remaining {
			d.Amount -= remaining
			remaining = 0
			kept = append(kept, d)
			continue
		}
		remaining -= d.Amount
	}
	w.Deposits = kept
}

// WithdrawGold removes matured gold from the withdrawable balance.
func (m *MultiWallet) WithdrawGold(realmID uuid.UUID, amount float64, now time.Time) error {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return apperrors.New(apperrors.CodeInvalidInput, "withdrawal amount must be a positive finite number")
	}
	w, err := m.GoldWallet(realmID)
	if err != nil {
		return err
	}
	w.Reconcile(now)
	if w.WithdrawableGold < amount {
		return apperrors.Newf(apperrors.CodeInsufficientBalance,
			"withdrawable balance %.2f is less than requested %.2f", w.WithdrawableGold, amount)
	}
	w.WithdrawableGold -= amount
	w.TotalGold = w.SuspendedGold + w.WithdrawableGold
	m.UpdatedAt = now
	return nil
}

// CreditStatic adds to a fiat wallet balance.
func (m *MultiWallet) CreditStatic(currency Currency, amount float64, now time.Time) error {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return apperrors.New(apperrors.CodeInvalidInput, "credit amount must be a positive finite number")
	}
	if !IsValidCurrency(currency) {
		return apperrors.Newf(apperrors.CodeInvalidInput, "unknown currency %q", currency)
	}
	m.StaticWallets[currency].Balance += amount
	m.UpdatedAt = now
	return nil
}

// DebitStatic subtracts from a fiat wallet balance. The balance check happens
// before any mutation.
func (m *MultiWallet) DebitStatic(currency Currency, amount float64, now time.Time) error {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return apperrors.New(apperrors.CodeInvalidInput, "debit amount must be a positive finite number")
	}
	if !IsValidCurrency(currency) {
		return apperrors.Newf(apperrors.CodeInvalidInput, "unknown currency %q", currency)
	}
	if m.StaticWallets[currency].Balance < amount {
		return apperrors.Newf(apperrors.CodeInsufficientBalance,
			"%s balance %.2f is less than requested %.2f", currency, m.StaticWallets[currency].Balance, amount)
	}
	m.StaticWallets[currency].Balance -= amount
	m.UpdatedAt = now
	return nil
}

// Reconcile runs maturity reconciliation across all gold wallets and returns
// realm ids where gold matured.
func (m *MultiWallet) Reconcile(now time.Time) []uuid.UUID {
	var matured []uuid.UUID
	for id, w := range m.GoldWallets {
		if w.Reconcile(now) > 0 {
			matured = append(matured, id)
		}
	}
	if len(matured) > 0 {
		m.UpdatedAt = now
	}
	return matured
}

// NextMaturity returns the earliest maturity across all gold wallets, or zero
// time when nothing is suspended.
func (m *MultiWallet) NextMaturity(now time.Time) time.Time {
	var next time.Time
	for _, w := range m.GoldWallets {
		n := w.NextMaturity(now)
		if n.IsZero() {
			continue
		}
		if next.IsZero() || n.Before(next) {
			next = n
		}
	}
	return next
}
