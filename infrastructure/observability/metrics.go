package observability

import (
	"time"

	"gambler/wager-engine/domain/entities"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records engine activity as Prometheus series. It implements
// interfaces.MetricsRecorder.
type Metrics struct {
	WagersSettled   *prometheus.CounterVec
	WagerStake      *prometheus.HistogramVec
	WagerDuration   *prometheus.HistogramVec
	HousePayout     *prometheus.CounterVec
	HouseStake      *prometheus.CounterVec
	LedgerEntries   *prometheus.CounterVec
	Rejections      *prometheus.CounterVec
	ConflictRetries *prometheus.CounterVec
	Reconciliations *prometheus.CounterVec
}

// NewMetrics creates and registers all engine metrics on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		WagersSettled: factory.NewCounterVec(prometheus.CounterOpts{
			Name: MetricPrefix + "wagers_settled_total",
			Help: "Total number of settled wagers by game and result",
		}, []string{LabelGame, LabelResult}),
		WagerStake: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    MetricPrefix + "wager_stake",
			Help:    "Stake of settled wagers",
			Buckets: []float64{10, 100, 1000, 10000, 100000, 1000000, 10000000},
		}, []string{LabelGame}),
		WagerDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    MetricPrefix + "wager_duration_seconds",
			Help:    "Time from lock to commit for a wager",
			Buckets: prometheus.DefBuckets,
		}, []string{LabelGame}),
		HouseStake: factory.NewCounterVec(prometheus.CounterOpts{
			Name: MetricPrefix + "stake_total",
			Help: "Sum of stakes by game",
		}, []string{LabelGame}),
		HousePayout: factory.NewCounterVec(prometheus.CounterOpts{
			Name: MetricPrefix + "payout_total",
			Help: "Sum of payouts by game",
		}, []string{LabelGame}),
		LedgerEntries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: MetricPrefix + "ledger_entries_total",
			Help: "Total number of ledger entries by source",
		}, []string{LabelSource}),
		Rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: MetricPrefix + "commands_rejected_total",
			Help: "Rejected commands by command and reason",
		}, []string{LabelCommand, LabelReason}),
		ConflictRetries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: MetricPrefix + "conflict_retries_total",
			Help: "Units of work retried after a balance conflict",
		}, []string{LabelOperation}),
		Reconciliations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: MetricPrefix + "reconciliations_total",
			Help: "Ledger reconciliation checks by outcome",
		}, []string{LabelResult}),
	}
}

func (m *Metrics) WagerSettled(game entities.Game, stake, payout int64, duration time.Duration) {
	result := ResultLoss
	switch {
	case payout > stake:
		result = ResultWin
	case payout == stake:
		result = ResultPush
	}
	g := string(game)
	m.WagersSettled.WithLabelValues(g, result).Inc()
	m.WagerStake.WithLabelValues(g).Observe(float64(stake))
	m.WagerDuration.WithLabelValues(g).Observe(duration.Seconds())
	m.HouseStake.WithLabelValues(g).Add(float64(stake))
	m.HousePayout.WithLabelValues(g).Add(float64(payout))
}

func (m *Metrics) LedgerEntryRecorded(source entities.EntrySource) {
	m.LedgerEntries.WithLabelValues(string(source)).Inc()
}

func (m *Metrics) CommandRejected(command, reason string) {
	m.Rejections.WithLabelValues(command, reason).Inc()
}

func (m *Metrics) ConflictRetried(operation string) {
	m.ConflictRetries.WithLabelValues(operation).Inc()
}

func (m *Metrics) ReconciliationChecked(consistent bool) {
	result := ResultConsistent
	if !consistent {
		result = ResultDrift
	}
	m.Reconciliations.WithLabelValues(result).Inc()
}
