package risk

import (
	"github.com/shopspring/decimal"

	"github.com/arbengine/predictarb/internal/orderbook"
	"github.com/arbengine/predictarb/pkg/errs"
	"github.com/arbengine/predictarb/pkg/types"
)

// CheckSlippage is the pre-execution slippage gate (spec §4.G): the
// orchestrator runs this against the live order-book cache immediately
// before execution, separately from Manager.Check's ordered limit
// checks, since it needs a collaborator (the cache) the risk manager
// itself has no reason to hold.
//
// For each leg, a missing book is treated as slippage too high rather
// than skipped: if the book vanished between detection and execution,
// the opportunity cannot be safely priced.
func CheckSlippage(opp types.Opportunity, cache *orderbook.Cache, maxSlippage decimal.Decimal) RiskCheckResult {
	for _, leg := range opp.Legs {
		book, ok := cache.Get(leg.TokenID)
		if !ok {
			return slippageRejected()
		}
		ask, ok := book.BestAsk()
		if !ok {
			return slippageRejected()
		}

		diff := ask.Price.Decimal.Sub(leg.AskPrice.Decimal).Abs()
		fraction := diff.Div(leg.AskPrice.Decimal)
		SlippageObserved.Observe(fraction.InexactFloat64())

		if fraction.GreaterThan(maxSlippage) {
			return slippageRejected()
		}
	}

	ChecksTotal.WithLabelValues("approved", "").Inc()
	return RiskCheckResult{Approved: true}
}

func slippageRejected() RiskCheckResult {
	ChecksTotal.WithLabelValues("rejected", string(errs.RiskSlippageTooHigh)).Inc()
	return RiskCheckResult{Approved: false, Reason: errs.RiskSlippageTooHigh}
}
