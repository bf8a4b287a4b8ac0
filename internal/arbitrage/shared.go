package arbitrage

import (
	"github.com/shopspring/decimal"

	"github.com/arbengine/predictarb/pkg/types"
)

// bestAsks reads the best ask and available size for every outcome of
// market from the cache, in outcome order. ok is false if any outcome's
// book is missing or has no ask side.
func bestAsks(ctx DetectionContext) (asks []types.Price, sizes []types.Volume, ok bool) {
	asks = make([]types.Price, len(ctx.Market.Outcomes))
	sizes = make([]types.Volume, len(ctx.Market.Outcomes))

	for i, o := range ctx.Market.Outcomes {
		book, found := ctx.Cache.Get(o.TokenID)
		if !found {
			return nil, nil, false
		}
		ask, hasAsk := book.BestAsk()
		if !hasAsk {
			return nil, nil, false
		}
		asks[i] = ask.Price
		sizes[i] = ask.Size
	}
	return asks, sizes, true
}

// straightArbitrage implements the shared shape of single-condition and
// market-rebalancing detection (spec §4.F.1/§4.F.2): both emit a single
// opportunity with one leg per outcome at its best ask, sized by the
// tightest available liquidity, whenever the ask sum undercuts the
// market's payout by at least min_edge.
func straightArbitrage(ctx DetectionContext, cfg Config, strategyName string, strategy types.Strategy) []types.Opportunity {
	asks, sizes, ok := bestAsks(ctx)
	if !ok {
		return nil
	}

	sum := decimal.Zero
	for _, a := range asks {
		sum = sum.Add(a.Decimal)
	}

	edge := ctx.Market.Payout.Sub(sum)
	if edge.LessThan(cfg.MinEdge.Decimal) {
		OpportunitiesRejectedTotal.WithLabelValues(strategyName, "below_min_edge").Inc()
		return nil
	}

	volume := sizes[0]
	for _, s := range sizes[1:] {
		volume = volume.Min(s)
	}
	volume = volume.Min(cfg.Cap)

	if volume.LessThan(cfg.MinSize.Decimal) {
		OpportunitiesRejectedTotal.WithLabelValues(strategyName, "below_min_size").Inc()
		return nil
	}

	legs := make([]types.Leg, len(ctx.Market.Outcomes))
	for i, o := range ctx.Market.Outcomes {
		legs[i] = types.Leg{TokenID: o.TokenID, MarketID: ctx.Market.ID, AskPrice: asks[i]}
	}

	opp, err := types.NewOpportunity(ctx.Market.ID, ctx.Market.Question, legs, volume, ctx.Market.Payout, strategy)
	if err != nil {
		OpportunitiesRejectedTotal.WithLabelValues(strategyName, "construction_failed").Inc()
		return nil
	}

	if opp.ExpectedProfit().LessThan(cfg.MinProfit.Decimal) {
		OpportunitiesRejectedTotal.WithLabelValues(strategyName, "below_min_profit").Inc()
		return nil
	}

	OpportunitiesDetectedTotal.WithLabelValues(strategyName).Inc()
	OpportunityEdgeBPS.WithLabelValues(strategyName).Observe(bps(edge))
	OpportunitySizeUSD.WithLabelValues(strategyName).Observe(opp.Volume.Decimal.InexactFloat64())

	return []types.Opportunity{opp}
}

// bps converts a [0,1]-scale decimal edge to basis points for metrics.
func bps(d decimal.Decimal) float64 {
	return d.Mul(decimal.NewFromInt(10000)).InexactFloat64()
}
