package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gbax_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gbax_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gbax_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)
)

// Game-system Metrics
var (
	OperationsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gbax_operations_started_total",
			Help: "Timed operations started, by kind",
		},
		[]string{"kind"},
	)

	OperationsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gbax_operations_completed_total",
			Help: "Timed operations completed, by kind",
		},
		[]string{"kind"},
	)

	OperationsCancelled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gbax_operations_cancelled_total",
			Help: "Timed operations cancelled, by kind",
		},
		[]string{"kind"},
	)

	ActiveEffects = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gbax_active_effects",
			Help: "Currently active consumable effects across all players",
		},
	)
)

// Sync Metrics
var (
	SyncAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gbax_sync_attempts_total",
			Help: "Remote ledger sync attempts, by outcome",
		},
		[]string{"outcome"},
	)

	SyncConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gbax_sync_conflicts_total",
			Help: "Fields observed diverging between local and remote state",
		},
	)

	SyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gbax_sync_duration_seconds",
			Help:    "Remote ledger sync latency",
			Buckets: prometheus.DefBuckets,
		},
	)
)
