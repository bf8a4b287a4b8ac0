package execution

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ExecutionsTotal tracks execution outcomes by classification.
	ExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arb_execution_results_total",
			Help: "Execution outcomes by classification (success, partial_fill, failed).",
		},
		[]string{"result"},
	)

	// ExecutionDurationSeconds tracks leg submission + recovery latency.
	ExecutionDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arb_execution_duration_seconds",
		Help:    "Wall-clock duration of one opportunity's leg submission and recovery.",
		Buckets: prometheus.DefBuckets,
	})

	// UnwindsTotal tracks partial-fill unwind attempts by outcome.
	UnwindsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arb_execution_unwinds_total",
			Help: "Partial-fill unwind attempts by outcome (recovered, residual).",
		},
		[]string{"outcome"},
	)
)
