package markets

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MarketsRegistered tracks the number of markets in the registry.
	MarketsRegistered = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arb_markets_registered",
		Help: "Number of markets currently held in the registry",
	})

	// RegistrationsSkippedTotal tracks Add calls that were no-ops because
	// the market id was already present (idempotence, spec §8).
	RegistrationsSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arb_markets_registrations_skipped_total",
		Help: "Total number of Add calls skipped because the market was already registered",
	})
)
