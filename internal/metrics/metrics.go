package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Game Metrics
var (
	RoundsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRoundsTotal,
			Help: HelpTextRoundsTotal,
		},
		[]string{LabelGame, LabelOutcome},
	)

	CoinsWonTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCoinsWonTotal,
			Help: HelpTextCoinsWonTotal,
		},
		[]string{LabelGame},
	)

	CoinsLostTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCoinsLostTotal,
			Help: HelpTextCoinsLostTotal,
		},
		[]string{LabelGame},
	)

	GuardFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameGuardFailuresTotal,
			Help: HelpTextGuardFailuresTotal,
		},
		[]string{LabelReason},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameActiveSessions,
			Help: HelpTextActiveSessions,
		},
	)
)

// Discord Metrics
var (
	InteractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameInteractionsTotal,
			Help: HelpTextInteractionsTotal,
		},
		[]string{LabelType},
	)

	DuplicateInteractions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameDuplicateInteractions,
			Help: HelpTextDuplicateInteractions,
		},
	)

	StaleComponentsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameStaleComponentsTotal,
			Help: HelpTextStaleComponentsTotal,
		},
	)
)

// Event Metrics
var (
	SpamEventsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSpamEventsTotal,
			Help: HelpTextSpamEventsTotal,
		},
	)

	SpamEventCoinsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSpamEventCoinsTotal,
			Help: HelpTextSpamEventCoinsTotal,
		},
	)
)

// Storage Metrics
var (
	StoreErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameStoreErrorsTotal,
			Help: HelpTextStoreErrorsTotal,
		},
		[]string{LabelOperation},
	)
)
