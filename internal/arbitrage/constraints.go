package arbitrage

import (
	"github.com/shopspring/decimal"

	"github.com/arbengine/predictarb/pkg/ids"
	"github.com/arbengine/predictarb/pkg/types"
)

// constraint is one relation projected onto the cluster's local market
// index space (indices into ConstraintSet.markets), the form the
// combinatorial strategy's linear minimization oracle searches over.
type constraint struct {
	kind    types.RelationKind
	implies [2]int // kind == RelationImplies: [ifYesIdx, thenYesIdx]
	group   []int  // kind == RelationMutuallyExclusive/RelationExactlyOne
}

// ConstraintSet is the admissible-world polytope for a cluster: every
// market resolves Yes (x[i]=true) or No, subject to the relations bound
// over the cluster. Feasibility is checked by exhaustive backtracking,
// which is exact (not a relaxation) since cluster size is bounded by
// configuration (spec §4.F.3 "the combinatorial strategy must bound
// [cluster size]").
type ConstraintSet struct {
	markets     []ids.MarketID
	index       map[ids.MarketID]int
	constraints []constraint
}

// NewConstraintSet projects relations onto the markets of a cluster.
// An Implies relation with an endpoint outside the cluster is skipped; a
// MutuallyExclusive or ExactlyOne relation keeps only its in-cluster
// members and is skipped if fewer than two remain. Clusters partition the
// relation graph's connected components, so a relation from that graph
// lies inside one cluster by construction.
func NewConstraintSet(marketIDs []ids.MarketID, rels []types.Relation) *ConstraintSet {
	cs := &ConstraintSet{
		markets: marketIDs,
		index:   make(map[ids.MarketID]int, len(marketIDs)),
	}
	for i, m := range marketIDs {
		cs.index[m] = i
	}

	for _, r := range rels {
		switch r.Kind {
		case types.RelationImplies:
			ifIdx, ifOK := cs.index[r.IfYes]
			thenIdx, thenOK := cs.index[r.ThenYes]
			if !ifOK || !thenOK {
				continue
			}
			cs.constraints = append(cs.constraints, constraint{
				kind:    types.RelationImplies,
				implies: [2]int{ifIdx, thenIdx},
			})
		case types.RelationMutuallyExclusive, types.RelationExactlyOne:
			group := make([]int, 0, len(r.Markets))
			for _, m := range r.Markets {
				if idx, ok := cs.index[m]; ok {
					group = append(group, idx)
				}
			}
			if len(group) >= 2 {
				cs.constraints = append(cs.constraints, constraint{kind: r.Kind, group: group})
			}
		}
	}
	return cs
}

// Size returns the number of markets in the constraint set.
func (cs *ConstraintSet) Size() int { return len(cs.markets) }

// feasible reports whether assignment x (one bool per market, true =
// resolves Yes) satisfies every constraint.
func (cs *ConstraintSet) feasible(x []bool) bool {
	for _, c := range cs.constraints {
		switch c.kind {
		case types.RelationImplies:
			if x[c.implies[0]] && !x[c.implies[1]] {
				return false
			}
		case types.RelationMutuallyExclusive:
			count := 0
			for _, idx := range c.group {
				if x[idx] {
					count++
				}
			}
			if count > 1 {
				return false
			}
		case types.RelationExactlyOne:
			count := 0
			for _, idx := range c.group {
				if x[idx] {
					count++
				}
			}
			if count != 1 {
				return false
			}
		}
	}
	return true
}

// Worst is the linear minimization oracle: finds the feasible world x
// that minimizes sum(weights[i] for x[i]==true), by exhaustive
// backtracking over the bounded market set. Returns the minimizing
// assignment and its weighted value.
func (cs *ConstraintSet) Worst(weights []decimal.Decimal) ([]bool, decimal.Decimal) {
	n := len(cs.markets)
	best := make([]bool, n)
	bestVal := decimal.Zero
	found := false

	x := make([]bool, n)
	var search func(i int, val decimal.Decimal)
	search = func(i int, val decimal.Decimal) {
		if i == n {
			if !cs.feasible(x) {
				return
			}
			if !found || val.LessThan(bestVal) {
				found = true
				bestVal = val
				copy(best, x)
			}
			return
		}
		x[i] = false
		search(i+1, val)
		x[i] = true
		search(i+1, val.Add(weights[i]))
		x[i] = false
	}
	search(0, decimal.Zero)

	if !found {
		// No feasible world exists (contradictory relations); treat the
		// all-false world as worst case so the caller sees a zero guarantee.
		return best, decimal.Zero
	}
	return best, bestVal
}
