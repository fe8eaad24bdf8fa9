package models

import (
	"time"

	"github.com/google/uuid"
)

// ConversionFeeConfig holds the admin-set percentage fees applied when
// suspended gold is converted to a fiat wallet before maturity. Configs are
// append-only: the newest row is current, older rows form the history.
type ConversionFeeConfig struct {
	ID                   uuid.UUID `json:"id"`
	SuspendedGoldToUSD   float64   `json:"suspended_gold_to_usd"`
	SuspendedGoldToToman float64   `json:"suspended_gold_to_toman"`
	IsActive             bool      `json:"is_active"`
	UpdatedBy            uuid.UUID `json:"updated_by"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// FeeFor returns the percentage for a target currency.
func (c *ConversionFeeConfig) FeeFor(currency Currency) float64 {
	if currency == CurrencyToman {
		return c.SuspendedGoldToToman
	}
	return c.SuspendedGoldToUSD
}

// ConversionQuote is the preview math shown in the admin UI before a
// conversion is committed. The same computation backs the live ledger path.
type ConversionQuote struct {
	Amount     float64 `json:"amount"`
	FeePercent float64 `json:"fee_percent"`
	Fee        float64 `json:"fee"`
	Net        float64 `json:"net"`
}

// QuoteConversion computes fee and net exactly, with no rounding beyond
// display formatting: fee = amount * pct / 100, net = amount - fee.
func QuoteConversion(amount, feePercent float64) ConversionQuote {
	fee := amount * feePercent / 100
	return ConversionQuote{
		Amount:     amount,
		FeePercent: feePercent,
		Fee:        fee,
		Net:        amount - fee,
	}
}
