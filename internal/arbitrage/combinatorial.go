package arbitrage

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/arbengine/predictarb/pkg/ids"
	"github.com/arbengine/predictarb/pkg/types"
)

// Combinatorial is the cluster strategy (spec §4.F.3): given a changed
// market, looks up its cluster and poses a minimum-cost-portfolio
// projection against every admissible world the cluster's relations
// allow, via a Frank-Wolfe outer loop over an ILP linear minimization
// oracle (ConstraintSet.Worst).
//
// Simplification (documented as the Open Question 2 resolution): the
// portfolio only longs the Yes outcome of each market in the cluster,
// never the No side. This covers the dominant real-world shape of
// mutually-exclusive / exactly-one clusters exactly (buying Yes on
// every member of an ExactlyOne set guarantees a $1 payoff regardless
// of which member resolves), while Implies relations still tighten the
// admissible-world polytope the oracle searches, even though the
// strategy cannot short a No leg to exploit them directly. Legs on the
// No side are left to a future strategy.
type Combinatorial struct {
	cfg    Config
	logger *zap.Logger
}

// NewCombinatorial builds the combinatorial strategy.
func NewCombinatorial(cfg Config, logger *zap.Logger) *Combinatorial {
	return &Combinatorial{cfg: cfg, logger: logger}
}

func (s *Combinatorial) Name() string { return "combinatorial" }

func (s *Combinatorial) Detect(ctx DetectionContext) []types.Opportunity {
	if ctx.Clusters == nil || ctx.Relations == nil {
		return nil
	}

	cluster, ok := ctx.Clusters.ForMarket(ctx.Market.ID)
	if !ok {
		return nil
	}
	if len(cluster.Markets) < 2 || len(cluster.Markets) > s.cfg.Combinatorial.MaxClusterSize {
		OpportunitiesRejectedTotal.WithLabelValues(s.Name(), "cluster_size_out_of_bounds").Inc()
		return nil
	}

	rels := make([]types.Relation, 0, len(cluster.RelationID))
	for _, rid := range cluster.RelationID {
		if r, found := ctx.Relations.Get(rid); found {
			rels = append(rels, r)
		}
	}
	if len(rels) == 0 {
		return nil
	}

	yesTokens, asks, ok := s.clusterYesAsks(ctx, cluster.Markets)
	if !ok {
		OpportunitiesRejectedTotal.WithLabelValues(s.Name(), "missing_book").Inc()
		return nil
	}

	cs := NewConstraintSet(cluster.Markets, rels)
	weights, gap, iterations, converged := s.project(cs)

	CombinatorialIterations.Observe(float64(iterations))
	CombinatorialDualityGap.Observe(gap)

	if !converged {
		OpportunitiesRejectedTotal.WithLabelValues(s.Name(), "did_not_converge").Inc()
		return nil
	}

	legs := make([]types.Leg, 0, len(cluster.Markets))
	cost := decimal.Zero
	volume := decimal.Zero
	first := true
	for i, w := range weights {
		if !w.Equal(decimal.NewFromInt(1)) {
			continue
		}
		legs = append(legs, types.Leg{TokenID: yesTokens[i], MarketID: cluster.Markets[i], AskPrice: asks[i]})
		cost = cost.Add(asks[i].Decimal)

		book, found := ctx.Cache.Get(yesTokens[i])
		if !found {
			continue
		}
		ask, _ := book.BestAsk()
		if first {
			volume = ask.Size.Decimal
			first = false
			continue
		}
		if ask.Size.Decimal.LessThan(volume) {
			volume = ask.Size.Decimal
		}
	}
	if len(legs) == 0 {
		OpportunitiesRejectedTotal.WithLabelValues(s.Name(), "empty_portfolio").Inc()
		return nil
	}
	payout := decimal.NewFromInt(1)
	vol := types.NewVolume(volume).Min(s.cfg.Cap)
	if vol.LessThan(s.cfg.MinSize.Decimal) {
		OpportunitiesRejectedTotal.WithLabelValues(s.Name(), "below_min_size").Inc()
		return nil
	}

	opp, err := types.NewOpportunity(ctx.Market.ID, ctx.Market.Question, legs, vol, payout, types.StrategyCombinatorial)
	if err != nil {
		OpportunitiesRejectedTotal.WithLabelValues(s.Name(), "construction_failed").Inc()
		return nil
	}
	if opp.Edge().LessThan(s.cfg.MinEdge.Decimal) {
		OpportunitiesRejectedTotal.WithLabelValues(s.Name(), "below_min_edge").Inc()
		return nil
	}
	if opp.ExpectedProfit().LessThan(s.cfg.MinProfit.Decimal) {
		OpportunitiesRejectedTotal.WithLabelValues(s.Name(), "below_min_profit").Inc()
		return nil
	}

	OpportunitiesDetectedTotal.WithLabelValues(s.Name()).Inc()
	OpportunityEdgeBPS.WithLabelValues(s.Name()).Observe(bps(opp.Edge()))
	OpportunitySizeUSD.WithLabelValues(s.Name()).Observe(opp.Volume.Decimal.InexactFloat64())

	return []types.Opportunity{opp}
}

// clusterYesAsks reads the Yes-outcome token and best ask for every
// market in the cluster, in cluster order, via the registry (so cluster
// members other than ctx.Market are resolvable too). ok is false if any
// market has no Yes outcome or is missing its Yes-token book.
func (s *Combinatorial) clusterYesAsks(ctx DetectionContext, marketIDs []ids.MarketID) ([]ids.TokenID, []types.Price, bool) {
	tokens := make([]ids.TokenID, len(marketIDs))
	asks := make([]types.Price, len(marketIDs))

	for i, mid := range marketIDs {
		token, found := ctx.MarketYesToken(mid)
		if !found {
			return nil, nil, false
		}
		book, found := ctx.Cache.Get(token)
		if !found {
			return nil, nil, false
		}
		ask, hasAsk := book.BestAsk()
		if !hasAsk {
			return nil, nil, false
		}
		tokens[i] = token
		asks[i] = ask.Price
	}
	return tokens, asks, true
}

// project runs the Frank-Wolfe outer loop in its fully-corrective form: at
// each iteration the oracle names the world most adversarial to the
// current portfolio, and every market the oracle left exposed is absorbed
// into the portfolio at full weight (a full conditional-gradient step
// rather than a diminishing one, since the atoms here are small and cheap
// to re-evaluate exactly). The active set only grows, so this converges
// within n+1 iterations (at most n absorbing steps plus the confirming
// check) or proves no covering portfolio exists.
func (s *Combinatorial) project(cs *ConstraintSet) (weights []decimal.Decimal, gap float64, iterations int, converged bool) {
	n := cs.Size()
	w := make([]decimal.Decimal, n)
	payout := decimal.NewFromInt(1)
	maxIter := s.cfg.Combinatorial.MaxIterations
	if maxIter <= 0 {
		maxIter = 50
	}

	for iter := 1; iter <= maxIter; iter++ {
		worstWorld, worstPayoff := cs.Worst(w)
		gapDec := payout.Sub(worstPayoff)
		gap = gapDec.InexactFloat64()
		if gapDec.LessThanOrEqual(decimal.NewFromFloat(s.cfg.Combinatorial.GapTolerance)) {
			return w, gap, iter, true
		}

		absorbed := false
		for i, exposed := range worstWorld {
			if exposed && w[i].IsZero() {
				w[i] = decimal.NewFromInt(1)
				absorbed = true
			}
		}
		if !absorbed {
			return w, gap, iter, false
		}
	}
	return w, gap, maxIter, false
}
