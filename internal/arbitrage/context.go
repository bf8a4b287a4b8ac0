package arbitrage

import (
	"strings"

	"github.com/arbengine/predictarb/internal/markets"
	"github.com/arbengine/predictarb/internal/orderbook"
	"github.com/arbengine/predictarb/internal/relations"
	"github.com/arbengine/predictarb/pkg/ids"
	"github.com/arbengine/predictarb/pkg/types"
)

// DetectionContext is the read-only view a Strategy inspects: the
// market whose book just changed, the shared order-book cache, the
// market registry, and (for the combinatorial strategy) the relation
// graph. Strategies never mutate any of these; every value handed to a
// Strategy is already a defensive copy where it matters (order books
// are cloned on Get).
type DetectionContext struct {
	Market    types.Market
	Cache     *orderbook.Cache
	Registry  *markets.Registry
	Clusters  *relations.ClusterStore
	Relations *relations.Store
}

// MarketYesToken resolves the Yes-outcome token for any market id, used
// by the combinatorial strategy to read every cluster member's book
// (not just the market that triggered detection). A market's Yes
// outcome is the one named "Yes" (case-insensitive); a market with no
// such outcome has no Yes token, and the combinatorial strategy then
// skips its whole cluster.
func (ctx DetectionContext) MarketYesToken(id ids.MarketID) (ids.TokenID, bool) {
	m, ok := ctx.Registry.Get(id)
	if !ok {
		return "", false
	}
	for _, o := range m.Outcomes {
		if strings.EqualFold(o.Name, "yes") {
			return o.TokenID, true
		}
	}
	return "", false
}
