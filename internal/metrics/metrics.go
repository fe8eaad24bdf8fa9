package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LedgerMetrics covers the wallet and fee subsystem.
type LedgerMetrics struct {
	DepositsTotal       prometheus.CounterVec
	DepositAmountTotal  prometheus.CounterVec
	ConversionsTotal    prometheus.CounterVec
	ConversionFeeTotal  prometheus.CounterVec
	WithdrawalsTotal    prometheus.CounterVec
	MaturedGoldTotal    prometheus.Counter
	SweepDuration       prometheus.Histogram
	FeeConfigUpdates    prometheus.Counter
	ValidationFailures  prometheus.CounterVec
	LedgerErrorsTotal   prometheus.CounterVec
}

func NewLedgerMetrics() *LedgerMetrics {
	return &LedgerMetrics{
		DepositsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "suspended_deposits_total",
				Help: "Number of suspended gold deposits created",
			},
			[]string{"realm_id"},
		),
		DepositAmountTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "suspended_deposit_amount_total",
				Help: "Total gold deposited as suspended",
			},
			[]string{"realm_id"},
		),
		ConversionsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gold_conversions_total",
				Help: "Number of suspended-gold-to-fiat conversions",
			},
			[]string{"currency"},
		),
		ConversionFeeTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "conversion_fee_collected_total",
				Help: "Total conversion fees collected, in gold units",
			},
			[]string{"currency"},
		),
		WithdrawalsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gold_withdrawals_total",
				Help: "Number of withdrawable-gold withdrawals",
			},
			[]string{"realm_id"},
		),
		MaturedGoldTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "matured_gold_total",
				Help: "Total gold moved from suspended to withdrawable",
			},
		),
		SweepDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "maturity_sweep_duration_seconds",
				Help:    "Duration of maturity reconciliation sweeps",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
			},
		),
		FeeConfigUpdates: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "fee_config_updates_total",
				Help: "Number of conversion fee config changes",
			},
		),
		ValidationFailures: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "validation_failures_total",
				Help: "Validation rejections by field",
			},
			[]string{"field"},
		),
		LedgerErrorsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_errors_total",
				Help: "Ledger operation failures by error code",
			},
			[]string{"code"},
		),
	}
}

func (m *LedgerMetrics) RecordDeposit(realmID string, amount float64) {
	m.DepositsTotal.WithLabelValues(realmID).Inc()
	m.DepositAmountTotal.WithLabelValues(realmID).Add(amount)
}

func (m *LedgerMetrics) RecordConversion(currency string, fee float64) {
	m.ConversionsTotal.WithLabelValues(currency).Inc()
	m.ConversionFeeTotal.WithLabelValues(currency).Add(fee)
}

func (m *LedgerMetrics) RecordWithdrawal(realmID string) {
	m.WithdrawalsTotal.WithLabelValues(realmID).Inc()
}

func (m *LedgerMetrics) RecordMatured(amount float64) {
	m.MaturedGoldTotal.Add(amount)
}

func (m *LedgerMetrics) RecordError(code string) {
	m.LedgerErrorsTotal.WithLabelValues(code).Inc()
}
