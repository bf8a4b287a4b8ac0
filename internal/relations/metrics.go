package relations

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RelationsStored tracks the number of relations currently held.
	RelationsStored = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arb_relations_stored",
		Help: "Number of relations currently held in the store",
	})

	// RelationsPrunedTotal counts relations removed by PruneExpired.
	RelationsPrunedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arb_relations_pruned_total",
		Help: "Total number of expired relations removed by PruneExpired",
	})

	// RelationsPersistErrorsTotal counts postgres write-behind failures.
	RelationsPersistErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arb_relations_persist_errors_total",
			Help: "Total number of relation store postgres persistence errors",
		},
		[]string{"operation"},
	)

	// ClustersStored tracks the number of clusters currently held.
	ClustersStored = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arb_clusters_stored",
		Help: "Number of clusters currently held in the store",
	})
)
