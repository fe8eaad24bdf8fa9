package models

import (
	"testing"
	"time"

	"github.com/gaming-marketplace/backend/internal/apperrors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testNow   = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	testAdmin = uuid.New()
)

func TestAddSuspendedGold(t *testing.T) {
	w := NewMultiWallet(uuid.New())
	realmID := uuid.New()

	deposit, err := w.AddSuspendedGold(realmID, 1000, testAdmin, 2, testNow)
	require.NoError(t, err)

	assert.Equal(t, testNow.AddDate(0, 2, 0), deposit.WithdrawableAt)
	assert.Equal(t, DepositStatusSuspended, deposit.Status)

	gw := w.GoldWallets[realmID]
	require.NotNil(t, gw, "gold wallet should be created on first deposit")
	assert.Equal(t, 1000.0, gw.SuspendedGold)
	assert.Equal(t, 0.0, gw.WithdrawableGold)
	assert.Equal(t, 1000.0, gw.TotalGold)
	assert.True(t, gw.CheckInvariant())
}

func TestAddSuspendedGoldRejectsBadAmounts(t *testing.T) {
	w := NewMultiWallet(uuid.New())
	for _, amount := range []float64{0, -5} {
		_, err := w.AddSuspendedGold(uuid.New(), amount, testAdmin, 2, testNow)
		if !apperrors.Is(err, apperrors.CodeInvalidInput) {
			t.Errorf("AddSuspendedGold(%v) error = %v, want INVALID_INPUT", amount, err)
		}
	}
}

func TestDepositStatusAt(t *testing.T) {
	d := SuspendedDeposit{WithdrawableAt: testNow.AddDate(0, 2, 0)}

	tests := []struct {
		name     string
		at       time.Time
		expected string
	}{
		{"just deposited", testNow, DepositStatusSuspended},
		{"one second before maturity", d.WithdrawableAt.Add(-time.Second), DepositStatusSuspended},
		{"exactly at maturity", d.WithdrawableAt, DepositStatusWithdrawable},
		{"after maturity", d.WithdrawableAt.Add(time.Hour), DepositStatusWithdrawable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.StatusAt(tt.at); got != tt.expected {
				t.Errorf("StatusAt(%v) = %q, want %q", tt.at, got, tt.expected)
			}
		})
	}
}

func TestReconcileMovesMaturedGold(t *testing.T) {
	w := NewMultiWallet(uuid.New())
	realmID := uuid.New()

	_, err := w.AddSuspendedGold(realmID, 600, testAdmin, 2, testNow)
	require.NoError(t, err)
	_, err = w.AddSuspendedGold(realmID, 400, testAdmin, 2, testNow.AddDate(0, 1, 0))
	require.NoError(t, err)

	// Two months and a day later only the first deposit has matured.
	matured := w.Reconcile(testNow.AddDate(0, 2, 1))
	require.Len(t, matured, 1)
	assert.Equal(t, realmID, matured[0])

	gw := w.GoldWallets[realmID]
	assert.Equal(t, 400.0, gw.SuspendedGold)
	assert.Equal(t, 600.0, gw.WithdrawableGold)
	assert.Equal(t, 1000.0, gw.TotalGold)
	assert.True(t, gw.CheckInvariant())

	// Reconciling again moves nothing.
	assert.Empty(t, w.Reconcile(testNow.AddDate(0, 2, 1)))
}

func TestConvertSuspendedGold(t *testing.T) {
	w := NewMultiWallet(uuid.New())
	realmID := uuid.New()
	_, err := w.AddSuspendedGold(realmID, 2000, testAdmin, 2, testNow)
	require.NoError(t, err)

	result, err := w.ConvertSuspendedGold(realmID, 1000, CurrencyUSD, 5, testNow)
	require.NoError(t, err)

	assert.Equal(t, 50.0, result.Fee)
	assert.Equal(t, 950.0, result.Net)
	assert.Equal(t, 950.0, w.StaticWallets[CurrencyUSD].Balance)
	assert.Equal(t, 0.0, w.StaticWallets[CurrencyToman].Balance)

	gw := w.GoldWallets[realmID]
	assert.Equal(t, 1000.0, gw.SuspendedGold)
	assert.Equal(t, 1000.0, gw.TotalGold)
	assert.True(t, gw.CheckInvariant())
}

func TestConvertSuspendedGoldZeroFee(t *testing.T) {
	w := NewMultiWallet(uuid.New())
	realmID := uuid.New()
	_, err := w.AddSuspendedGold(realmID, 500, testAdmin, 2, testNow)
	require.NoError(t, err)

	result, err := w.ConvertSuspendedGold(realmID, 500, CurrencyToman, 0, testNow)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Fee)
	assert.Equal(t, 500.0, result.Net)
	assert.Equal(t, 500.0, w.StaticWallets[CurrencyToman].Balance)
}

func TestConvertInsufficientBalance(t *testing.T) {
	w := NewMultiWallet(uuid.New())
	realmID := uuid.New()
	_, err := w.AddSuspendedGold(realmID, 100, testAdmin, 2, testNow)
	require.NoError(t, err)

	_, err = w.ConvertSuspendedGold(realmID, 200, CurrencyUSD, 5, testNow)
	assert.True(t, apperrors.Is(err, apperrors.CodeInsufficientBalance))

	// Wallet untouched after the failed conversion.
	assert.Equal(t, 100.0, w.GoldWallets[realmID].SuspendedGold)
	assert.Equal(t, 0.0, w.StaticWallets[CurrencyUSD].Balance)
}

func TestConvertIgnoresMaturedGold(t *testing.T) {
	w := NewMultiWallet(uuid.New())
	realmID := uuid.New()
	_, err := w.AddSuspendedGold(realmID, 300, testAdmin, 2, testNow)
	require.NoError(t, err)

	// Past maturity the gold is withdrawable, not convertible.
	after := testNow.AddDate(0, 3, 0)
	_, err = w.ConvertSuspendedGold(realmID, 300, CurrencyUSD, 5, after)
	assert.True(t, apperrors.Is(err, apperrors.CodeInsufficientBalance))
	assert.Equal(t, 300.0, w.GoldWallets[realmID].WithdrawableGold)
}

func TestConvertConsumesOldestDepositsFirst(t *testing.T) {
	w := NewMultiWallet(uuid.New())
	realmID := uuid.New()
	_, err := w.AddSuspendedGold(realmID, 100, testAdmin, 2, testNow)
	require.NoError(t, err)
	second, err := w.AddSuspendedGold(realmID, 200, testAdmin, 2, testNow.Add(time.Hour))
	require.NoError(t, err)

	_, err = w.ConvertSuspendedGold(realmID, 150, CurrencyUSD, 0, testNow.Add(2*time.Hour))
	require.NoError(t, err)

	gw := w.GoldWallets[realmID]
	require.Len(t, gw.Deposits, 1, "fully consumed deposit should be removed")
	assert.Equal(t, second.ID, gw.Deposits[0].ID)
	assert.Equal(t, 150.0, gw.Deposits[0].Amount, "newest deposit partially consumed")
	assert.Equal(t, 150.0, gw.SuspendedGold)
}

func TestWithdrawGold(t *testing.T) {
	w := NewMultiWallet(uuid.New())
	realmID := uuid.New()
	_, err := w.AddSuspendedGold(realmID, 1000, testAdmin, 2, testNow)
	require.NoError(t, err)

	after := testNow.AddDate(0, 2, 0)

	// Withdrawing more than matured fails.
	err = w.WithdrawGold(realmID, 1500, after)
	assert.True(t, apperrors.Is(err, apperrors.CodeInsufficientBalance))

	require.NoError(t, w.WithdrawGold(realmID, 400, after))
	gw := w.GoldWallets[realmID]
	assert.Equal(t, 600.0, gw.WithdrawableGold)
	assert.Equal(t, 600.0, gw.TotalGold)
	assert.True(t, gw.CheckInvariant())
}

func TestCreateGoldWalletDuplicate(t *testing.T) {
	w := NewMultiWallet(uuid.New())
	realmID := uuid.New()

	_, err := w.CreateGoldWallet(realmID)
	require.NoError(t, err)
	_, err = w.CreateGoldWallet(realmID)
	assert.True(t, apperrors.Is(err, apperrors.CodeDuplicateWallet))
}

func TestGoldWalletNotFound(t *testing.T) {
	w := NewMultiWallet(uuid.New())
	_, err := w.GoldWallet(uuid.New())
	assert.True(t, apperrors.Is(err, apperrors.CodeWalletNotFound))
}

func TestStaticWalletDebitChecksBalance(t *testing.T) {
	w := NewMultiWallet(uuid.New())
	require.NoError(t, w.CreditStatic(CurrencyUSD, 100, testNow))

	err := w.DebitStatic(CurrencyUSD, 150, testNow)
	assert.True(t, apperrors.Is(err, apperrors.CodeInsufficientBalance))
	assert.Equal(t, 100.0, w.StaticWallets[CurrencyUSD].Balance, "failed debit must not mutate")

	require.NoError(t, w.DebitStatic(CurrencyUSD, 100, testNow))
	assert.Equal(t, 0.0, w.StaticWallets[CurrencyUSD].Balance)
}

func TestNextMaturity(t *testing.T) {
	w := NewMultiWallet(uuid.New())
	assert.True(t, w.NextMaturity(testNow).IsZero())

	realmA := uuid.New()
	realmB := uuid.New()
	_, err := w.AddSuspendedGold(realmA, 100, testAdmin, 2, testNow)
	require.NoError(t, err)
	_, err = w.AddSuspendedGold(realmB, 100, testAdmin, 2, testNow.AddDate(0, 0, -10))
	require.NoError(t, err)

	next := w.NextMaturity(testNow)
	assert.Equal(t, testNow.AddDate(0, 0, -10).AddDate(0, 2, 0), next)
}
