package types

import "github.com/arbengine/predictarb/pkg/ids"

// Cluster is an equivalence-like grouping of markets built from one or
// more relations, used by the combinatorial strategy to bound search.
type Cluster struct {
	ID         ids.ClusterID
	Markets    []ids.MarketID
	RelationID []ids.RelationID
}

// Contains reports whether market belongs to the cluster.
func (c Cluster) Contains(market ids.MarketID) bool {
	for _, m := range c.Markets {
		if m == market {
			return true
		}
	}
	return false
}
