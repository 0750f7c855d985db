// Package metrics exposes Prometheus instrumentation for the bot.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values for feed message outcomes.
const (
	OutcomeDrop       = "drop"
	OutcomeCollection = "collection"
	OutcomeUnknown    = "unknown"
)

// Label values for event sources.
const (
	SourceFeed    = "feed"
	SourceCommand = "command"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lootbot_http_requests_total",
			Help: "Total HTTP requests by method, path and status.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lootbot_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lootbot_http_requests_in_flight",
			Help: "HTTP requests currently being served.",
		},
	)
)

// Feed ingestion metrics
var (
	FeedMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lootbot_feed_messages_total",
			Help: "Feed messages by extraction outcome (drop, collection, unknown).",
		},
		[]string{"outcome"},
	)

	FeedUnlinkedHandles = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lootbot_feed_unlinked_handles_total",
			Help: "Feed events dropped because the handle resolved to no identity.",
		},
	)
)

// Ledger metrics
var (
	EventsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lootbot_events_recorded_total",
			Help: "Ledger events recorded by kind and source.",
		},
		[]string{"kind", "source"},
	)

	EventsRemoved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lootbot_events_removed_total",
			Help: "Ledger events removed by kind.",
		},
		[]string{"kind"},
	)

	RankNotificationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lootbot_rank_notification_failures_total",
			Help: "Rank announcements that failed to deliver after commit.",
		},
	)
)

// Oracle metrics
var (
	OracleRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lootbot_oracle_refreshes_total",
			Help: "Oracle snapshot refreshes by oracle name and result.",
		},
		[]string{"oracle", "result"},
	)
)

// Discord metrics
var (
	CommandsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lootbot_commands_handled_total",
			Help: "Slash commands handled by name.",
		},
		[]string{"command"},
	)
)
