package models

import "testing"

func TestQuoteConversion(t *testing.T) {
	tests := []struct {
		name    string
		amount  float64
		percent float64
		fee     float64
		net     float64
	}{
		{"five percent", 1000, 5, 50, 950},
		{"three percent", 1000, 3, 30, 970},
		{"zero percent", 1000, 0, 0, 1000},
		{"full fee", 1000, 100, 1000, 0},
		{"fractional", 250, 4, 10, 240},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := QuoteConversion(tt.amount, tt.percent)
			if q.Fee != tt.fee {
				t.Errorf("fee = %v, want %v", q.Fee, tt.fee)
			}
			if q.Net != tt.net {
				t.Errorf("net = %v, want %v", q.Net, tt.net)
			}
			if q.Fee+q.Net != tt.amount {
				t.Errorf("fee + net = %v, want %v", q.Fee+q.Net, tt.amount)
			}
		})
	}
}

func TestFeeFor(t *testing.T) {
	c := ConversionFeeConfig{SuspendedGoldToUSD: 5, SuspendedGoldToToman: 3}
	if got := c.FeeFor(CurrencyUSD); got != 5 {
		t.Errorf("FeeFor(usd) = %v, want 5", got)
	}
	if got := c.FeeFor(CurrencyToman); got != 3 {
		t.Errorf("FeeFor(toman) = %v, want 3", got)
	}
}
