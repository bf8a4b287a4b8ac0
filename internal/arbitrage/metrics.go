package arbitrage

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OpportunitiesDetectedTotal tracks arbitrage opportunities detected, by strategy.
	OpportunitiesDetectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arb_opportunities_detected_total",
			Help: "Total number of arbitrage opportunities detected",
		},
		[]string{"strategy"},
	)

	// OpportunityEdgeBPS tracks detected edge (payout - cost) in basis points.
	OpportunityEdgeBPS = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "arb_opportunity_edge_bps",
			Help:    "Arbitrage opportunity edge in basis points",
			Buckets: []float64{10, 25, 50, 100, 200, 500, 1000, 2000, 5000},
		},
		[]string{"strategy"},
	)

	// OpportunitySizeUSD tracks trade sizes, by strategy.
	OpportunitySizeUSD = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "arb_opportunity_size_usd",
			Help:    "Arbitrage opportunity trade size in USD",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10),
		},
		[]string{"strategy"},
	)

	// DetectionDurationSeconds tracks per-strategy detection latency.
	DetectionDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "arb_detection_duration_seconds",
			Help:    "Duration of a single strategy's Detect call",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"strategy"},
	)

	// OpportunitiesRejectedTotal tracks rejected candidates by strategy and reason.
	OpportunitiesRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arb_opportunities_rejected_total",
			Help: "Total number of candidate opportunities rejected before emission",
		},
		[]string{"strategy", "reason"},
	)

	// CombinatorialIterations tracks Frank-Wolfe outer loop iterations to convergence.
	CombinatorialIterations = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arb_combinatorial_iterations",
		Help:    "Frank-Wolfe outer loop iterations until convergence or cap",
		Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
	})

	// CombinatorialDualityGap tracks the final duality gap of the projection.
	CombinatorialDualityGap = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arb_combinatorial_duality_gap",
		Help:    "Final duality gap of the combinatorial strategy's projection",
		Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5},
	})
)
