package execution

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/arbengine/predictarb/internal/risk"
	"github.com/arbengine/predictarb/pkg/errs"
	"github.com/arbengine/predictarb/pkg/ids"
	"github.com/arbengine/predictarb/pkg/types"
)

// Executor submits every leg of an approved Opportunity concurrently and
// recovers from partial fills (spec §4.H). It holds no exchange-specific
// knowledge or key material: all order I/O goes through a Gateway.
type Executor struct {
	gateway    Gateway
	ledger     *risk.Ledger
	logger     *zap.Logger
	posCounter atomic.Uint64
}

// NewExecutor builds an Executor against a concrete Gateway and the shared
// position ledger.
func NewExecutor(gateway Gateway, ledger *risk.Ledger, logger *zap.Logger) *Executor {
	return &Executor{gateway: gateway, ledger: ledger, logger: logger}
}

type legOutcome struct {
	leg    types.Leg
	result OrderResult
	err    error
}

// Execute submits opp's legs in parallel, classifies the outcome, and on a
// partial fill attempts to cancel every filled leg. Callers are expected
// to hold the per-market execution lock (spec §4.H step 5) for the
// duration of this call; Execute itself does no locking.
func (e *Executor) Execute(ctx context.Context, opp types.Opportunity) types.ExecutionResult {
	start := time.Now()
	outcomes := e.submitAll(ctx, opp)

	var filled, failed []legOutcome
	for _, o := range outcomes {
		if o.err != nil {
			failed = append(failed, o)
		} else {
			filled = append(filled, o)
		}
	}

	result := types.ExecutionResult{
		OpportunityID: opp.ID,
		ExecutedAt:    start,
	}
	for _, f := range failed {
		result.Failed = append(result.Failed, &errs.LegError{
			Code:    errs.ExecOrderRejected,
			TokenID: string(f.leg.TokenID),
			Message: f.err.Error(),
		})
	}

	switch {
	case len(failed) == 0:
		result.Status = types.ExecutionSuccess
		result.Filled = filledLegs(opp, filled)
		e.recordPosition(opp, filled)
		ExecutionsTotal.WithLabelValues("success").Inc()

	case len(filled) == 0:
		result.Status = types.ExecutionFailed
		ExecutionsTotal.WithLabelValues("failed").Inc()

	default:
		result.Status = types.ExecutionPartialFill
		result.Filled = filledLegs(opp, filled)
		result.Unwound = e.unwind(ctx, filled)
		if !result.Unwound {
			e.recordPartialPosition(opp, filled, failed)
		}
		ExecutionsTotal.WithLabelValues("partial_fill").Inc()
	}

	ExecutionDurationSeconds.Observe(time.Since(start).Seconds())
	return result
}

func (e *Executor) submitAll(ctx context.Context, opp types.Opportunity) []legOutcome {
	outcomes := make([]legOutcome, len(opp.Legs))
	var wg sync.WaitGroup
	for i, leg := range opp.Legs {
		wg.Add(1)
		go func(i int, leg types.Leg) {
			defer wg.Done()
			sizeUSD := types.NewVolume(leg.AskPrice.Mul(opp.Volume))
			res, err := e.gateway.SubmitOrder(ctx, OrderRequest{
				TokenID:  leg.TokenID,
				AskPrice: leg.AskPrice,
				SizeUSD:  sizeUSD,
			})
			outcomes[i] = legOutcome{leg: leg, result: res, err: err}
		}(i, leg)
	}
	wg.Wait()
	return outcomes
}

// unwind attempts to cancel every filled leg. It returns true only if
// every cancel succeeds.
func (e *Executor) unwind(ctx context.Context, filled []legOutcome) bool {
	recovered := true
	for _, o := range filled {
		if err := e.gateway.CancelOrder(ctx, o.result.OrderID); err != nil {
			e.logger.Warn("unwind-failed",
				zap.String("token_id", string(o.leg.TokenID)),
				zap.String("order_id", string(o.result.OrderID)),
				zap.Error(err))
			recovered = false
		}
	}
	if recovered {
		UnwindsTotal.WithLabelValues("recovered").Inc()
	} else {
		UnwindsTotal.WithLabelValues("residual").Inc()
	}
	return recovered
}

func filledLegs(opp types.Opportunity, filled []legOutcome) []types.FilledLeg {
	out := make([]types.FilledLeg, 0, len(filled))
	for _, o := range filled {
		out = append(out, types.FilledLeg{
			TokenID: o.leg.TokenID,
			OrderID: o.result.OrderID,
			Price:   o.leg.AskPrice,
			Size:    opp.Volume,
		})
	}
	return out
}

func positionLegs(filled []legOutcome, volume types.Volume) []types.PositionLeg {
	out := make([]types.PositionLeg, 0, len(filled))
	for _, o := range filled {
		out = append(out, types.PositionLeg{
			TokenID:    o.leg.TokenID,
			Size:       volume,
			EntryPrice: o.leg.AskPrice,
		})
	}
	return out
}

// recordPosition appends a fully-open Position after a Success (spec §4.H
// step 6).
func (e *Executor) recordPosition(opp types.Opportunity, filled []legOutcome) {
	pos, err := types.NewPosition(
		ids.PositionID(e.posCounter.Add(1)),
		opp.MarketID,
		positionLegs(filled, opp.Volume),
		opp.TotalCost().Mul(opp.Volume.Decimal),
		opp.Payout.Mul(opp.Volume.Decimal),
	)
	if err != nil {
		e.logger.Error("position-record-failed", zap.Error(err))
		return
	}
	e.ledger.Open(pos)
}

// recordPartialPosition appends a Position with PositionPartialFill status
// after an unwind that didn't fully recover (spec §4.H step 4), so
// subsequent risk checks see the residual exposure.
func (e *Executor) recordPartialPosition(opp types.Opportunity, filled, failed []legOutcome) {
	entryCost := decimal.Zero
	filledIDs := make([]ids.TokenID, 0, len(filled))
	for _, o := range filled {
		entryCost = entryCost.Add(o.leg.AskPrice.Decimal)
		filledIDs = append(filledIDs, o.leg.TokenID)
	}
	entryCost = entryCost.Mul(opp.Volume.Decimal)

	missingIDs := make([]ids.TokenID, 0, len(failed))
	for _, o := range failed {
		missingIDs = append(missingIDs, o.leg.TokenID)
	}

	pos, err := types.NewPosition(
		ids.PositionID(e.posCounter.Add(1)),
		opp.MarketID,
		positionLegs(filled, opp.Volume),
		entryCost,
		opp.Payout.Mul(opp.Volume.Decimal),
	)
	if err != nil {
		e.logger.Error("partial-position-record-failed", zap.Error(err))
		return
	}
	pos.Status = types.PositionStatus{Kind: types.PositionPartialFill, Filled: filledIDs, Missing: missingIDs}
	e.ledger.Open(pos)
}
