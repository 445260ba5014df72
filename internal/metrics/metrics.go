package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SnapshotFetches counts snapshot fetch attempts by read backend and status
	SnapshotFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "presale_snapshot_fetches_total",
			Help: "Total number of sale snapshot fetches",
		},
		[]string{"source", "status"},
	)

	// SnapshotFetchDuration tracks how long a snapshot fan-out takes
	SnapshotFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "presale_snapshot_fetch_duration_seconds",
			Help:    "Snapshot fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	// SaleTotalUSDCIn tracks the contract's totalUsdcIn in whole USDC
	SaleTotalUSDCIn = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "presale_total_usdc_in",
			Help: "Total USDC contributed to the presale",
		},
	)

	// SaleSoldTokens tracks sold tokens in whole tokens
	SaleSoldTokens = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "presale_sold_tokens",
			Help: "Tokens sold by the presale",
		},
	)

	// SaleLive is 1 while the sale accepts purchases
	SaleLive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "presale_live",
			Help: "Whether the presale is live (1) or not (0)",
		},
	)

	// PurchaseEvents counts Buy events seen by the event deriver and the indexer
	PurchaseEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "presale_purchase_events_total",
			Help: "Total number of Buy events decoded",
		},
		[]string{"source"},
	)

	// Participants tracks the number of distinct buyers in the latest roster
	Participants = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "presale_participants",
			Help: "Distinct buyer addresses",
		},
	)

	// TransactionsSent counts orchestrated transactions by kind and outcome
	TransactionsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "presale_transactions_total",
			Help: "Total number of presale transactions submitted",
		},
		[]string{"kind", "status"},
	)

	// TransactionDuration tracks submit-to-receipt time
	TransactionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "presale_transaction_duration_seconds",
			Help:    "Time from wallet prompt to mined receipt",
			Buckets: []float64{1, 2, 5, 10, 20, 30, 60, 120, 300},
		},
		[]string{"kind"},
	)

	// GasUsed tracks gas used by orchestrated transactions
	GasUsed = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "presale_gas_used",
			Help:    "Gas used by presale transactions",
			Buckets: []float64{21000, 50000, 100000, 200000, 300000, 500000},
		},
		[]string{"kind"},
	)

	// ErrorsTotal counts errors by component and type
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "presale_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	// LastIndexedBlock tracks the purchase index position
	LastIndexedBlock = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "presale_last_indexed_block",
			Help: "Last block covered by the purchase index",
		},
	)

	// LastRefresh records the unix time of the last successful dashboard refresh
	LastRefresh = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "presale_last_refresh_timestamp_seconds",
			Help: "Unix time of the last successful refresh by part",
		},
		[]string{"part"},
	)
)
