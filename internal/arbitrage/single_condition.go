package arbitrage

import "github.com/arbengine/predictarb/pkg/types"

// SingleCondition is the binary-market strategy (spec §4.F.1): for a
// market with exactly two outcomes (Yes/No), buy both at their best ask
// whenever ask_yes + ask_no undercuts the payout by at least MinEdge.
type SingleCondition struct {
	cfg Config
}

// NewSingleCondition builds the single-condition strategy.
func NewSingleCondition(cfg Config) *SingleCondition {
	return &SingleCondition{cfg: cfg}
}

func (s *SingleCondition) Name() string { return "single_condition" }

// Detect runs the shared straight-arbitrage check, restricted to binary
// markets; any other market shape is silently out of scope for this
// strategy (market rebalancing covers N > 2 outcomes).
func (s *SingleCondition) Detect(ctx DetectionContext) []types.Opportunity {
	if !ctx.Market.IsBinary() {
		return nil
	}
	return straightArbitrage(ctx, s.cfg, s.Name(), types.StrategySingleCondition)
}
