package arbitrage

import "github.com/arbengine/predictarb/pkg/types"

// MarketRebalancing is the multi-outcome strategy (spec §4.F.2): for a
// market with N >= 2 outcomes, buy every outcome at its best ask
// whenever the ask sum undercuts the payout by at least MinEdge. Ties
// on equal ask prices are broken by outcome order, the order the market
// registry already holds outcomes in.
type MarketRebalancing struct {
	cfg Config
}

// NewMarketRebalancing builds the market-rebalancing strategy.
func NewMarketRebalancing(cfg Config) *MarketRebalancing {
	return &MarketRebalancing{cfg: cfg}
}

func (s *MarketRebalancing) Name() string { return "market_rebalancing" }

func (s *MarketRebalancing) Detect(ctx DetectionContext) []types.Opportunity {
	if len(ctx.Market.Outcomes) < 2 {
		return nil
	}
	return straightArbitrage(ctx, s.cfg, s.Name(), types.StrategyMarketRebalancing)
}
