package stream

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActiveConnections tracks whether the inner transport currently holds a live session.
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arb_stream_active_connections",
		Help: "Whether the market data stream currently has a live connection (0 or 1)",
	})

	// ReconnectAttemptsTotal counts reconnection attempts made by the wrapper.
	ReconnectAttemptsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arb_stream_reconnect_attempts_total",
		Help: "Total number of reconnection attempts",
	})

	// ReconnectFailuresTotal counts failed reconnection attempts.
	ReconnectFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arb_stream_reconnect_failures_total",
		Help: "Total number of failed reconnection attempts",
	})

	// ResubscribeFailuresTotal counts resubscribe failures after a successful reconnect.
	ResubscribeFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arb_stream_resubscribe_failures_total",
		Help: "Total number of resubscribe failures following a reconnect",
	})

	// EventsReceivedTotal counts events surfaced to the consumer, by kind.
	EventsReceivedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arb_stream_events_received_total",
			Help: "Total number of market events surfaced to the consumer",
		},
		[]string{"kind"},
	)

	// SubscriptionCount tracks the size of the remembered subscription set.
	SubscriptionCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arb_stream_subscription_count",
		Help: "Number of token ids currently subscribed",
	})

	// ConnectionDuration tracks session lifetime before a disconnect.
	ConnectionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arb_stream_connection_duration_seconds",
		Help:    "Duration of stream connections before disconnect",
		Buckets: []float64{60, 300, 600, 1800, 3600, 7200, 14400, 28800, 43200, 86400},
	})

	// CurrentBackoff tracks the reconnect wrapper's current backoff delay.
	CurrentBackoff = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arb_stream_current_backoff_seconds",
		Help: "Current reconnect backoff delay, before jitter",
	})
)
