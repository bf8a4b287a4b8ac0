package risk

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arb_risk_checks_total",
			Help: "Risk check outcomes by result and rejection reason.",
		},
		[]string{"result", "reason"},
	)

	SlippageObserved = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arb_risk_slippage_observed",
		Help:    "Observed fractional slippage between detected and current ask at pre-execution check.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5},
	})
)
