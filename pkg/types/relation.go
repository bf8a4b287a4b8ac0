package types

import (
	"time"

	"github.com/arbengine/predictarb/pkg/ids"
)

// RelationKind names a typed logical link between markets.
type RelationKind string

const (
	// RelationImplies: if_yes resolving Yes implies then_yes resolves Yes.
	RelationImplies RelationKind = "implies"
	// RelationMutuallyExclusive: at most one of Markets resolves Yes.
	RelationMutuallyExclusive RelationKind = "mutually_exclusive"
	// RelationExactlyOne: exactly one of Markets resolves Yes.
	RelationExactlyOne RelationKind = "exactly_one"
)

// Relation is a typed logical link between markets with a TTL. Created
// by an inferrer collaborator (§6), stored keyed by ID, pruned once
// ExpiresAt has passed.
type Relation struct {
	ID         ids.RelationID
	Kind       RelationKind
	IfYes      ids.MarketID   // RelationImplies only
	ThenYes    ids.MarketID   // RelationImplies only
	Markets    []ids.MarketID // RelationMutuallyExclusive / RelationExactlyOne
	Confidence float64        // in [0,1]
	Reasoning  string
	InferredAt time.Time
	ExpiresAt  time.Time
}

// Expired reports whether the relation's TTL has elapsed as of now.
func (r Relation) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}

// MarketSet returns every market id this relation constrains, regardless
// of kind, for use by integrity scans and cluster construction.
func (r Relation) MarketSet() []ids.MarketID {
	switch r.Kind {
	case RelationImplies:
		return []ids.MarketID{r.IfYes, r.ThenYes}
	default:
		return r.Markets
	}
}
