// Package arbitrage holds the detection strategies (spec §4.F): pure
// functions from a DetectionContext to a list of candidate Opportunity
// values. No strategy performs I/O or holds mutable state across calls.
package arbitrage

import (
	"time"

	"go.uber.org/zap"

	"github.com/arbengine/predictarb/pkg/types"
)

// Strategy maps a changed market's order-book state to zero or more
// candidate opportunities. Implementations must be safe for concurrent
// use across distinct DetectionContext values; they hold no per-call state.
type Strategy interface {
	Name() string
	Detect(ctx DetectionContext) []types.Opportunity
}

// Config bounds every strategy's emission decision. A single Config is
// shared across strategy kinds; strategies.*.min_edge and
// strategies.*.min_profit (spec §6) are per-kind in principle but this
// core ships one threshold set applied uniformly, since the registry is
// told which kinds are enabled rather than how to parameterize them
// individually.
type Config struct {
	MinEdge       types.Price  // minimum payout-minus-cost to emit
	MinProfit     types.Volume // minimum edge*volume to emit
	MinSize       types.Volume // minimum available size at every leg
	Cap           types.Volume // maximum position size per opportunity
	Combinatorial CombinatorialConfig
}

// CombinatorialConfig bounds the Frank-Wolfe + ILP projection (spec §4.F.3).
type CombinatorialConfig struct {
	MaxClusterSize int
	MaxIterations  int
	GapTolerance   float64 // ε: stop when the duality gap falls below this
}

// Registry runs every configured strategy against a DetectionContext and
// concatenates their output, in configuration order.
type Registry struct {
	strategies []Strategy
	logger     *zap.Logger
}

// NewRegistry builds a registry from the strategies enabled by
// configuration (spec §6 strategies.enabled), in the order given.
func NewRegistry(logger *zap.Logger, strategies ...Strategy) *Registry {
	return &Registry{strategies: strategies, logger: logger}
}

// DetectAll runs every strategy and returns the concatenated candidates.
func (r *Registry) DetectAll(ctx DetectionContext) []types.Opportunity {
	var out []types.Opportunity
	for _, s := range r.strategies {
		start := time.Now()
		opps := s.Detect(ctx)
		DetectionDurationSeconds.WithLabelValues(s.Name()).Observe(time.Since(start).Seconds())
		if len(opps) == 0 {
			continue
		}
		r.logger.Debug("strategy-emitted-opportunities",
			zap.String("strategy", s.Name()),
			zap.String("market-id", string(ctx.Market.ID)),
			zap.Int("count", len(opps)))
		out = append(out, opps...)
	}
	return out
}
