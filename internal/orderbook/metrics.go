package orderbook

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpdatesTotal tracks cache updates, split by whether they were
	// applied or dropped as stale (out-of-order sequence number).
	UpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arb_orderbook_updates_total",
			Help: "Total number of order book cache updates",
		},
		[]string{"outcome"},
	)

	// BooksTracked tracks the number of token order books held in memory.
	BooksTracked = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arb_orderbook_books_tracked",
		Help: "Number of token order books tracked in memory",
	})

	// NotificationsDroppedTotal tracks change notifications dropped
	// because the bounded notification channel was full.
	NotificationsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arb_orderbook_notifications_dropped_total",
		Help: "Total number of change notifications dropped (channel full)",
	})

	// UpdateDuration tracks cache.update latency.
	UpdateDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arb_orderbook_update_duration_seconds",
		Help:    "Time to apply a single order book update",
		Buckets: []float64{0.0001, 0.0002, 0.0005, 0.001, 0.002, 0.005, 0.01, 0.025, 0.05, 0.1},
	})
)
