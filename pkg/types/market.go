package types

import (
	"github.com/shopspring/decimal"

	"github.com/arbengine/predictarb/pkg/errs"
	"github.com/arbengine/predictarb/pkg/ids"
)

// Outcome is one (token, name) pair within a Market's ordered outcome list.
type Outcome struct {
	TokenID ids.TokenID
	Name    string
}

// Market is (market_id, question, outcomes, payout). Outcomes is
// non-empty and ordered; payout is the guaranteed amount paid to a
// holder of one share of every outcome on resolution.
type Market struct {
	ID       ids.MarketID
	Question string
	Outcomes []Outcome
	Payout   decimal.Decimal
}

// NewMarket validates and constructs a Market. Rejects empty outcomes,
// non-positive payout, and duplicate token ids within the market. It
// does not check the outcome count: a market is binary exactly when it
// has two outcomes (see IsBinary).
func NewMarket(id ids.MarketID, question string, outcomes []Outcome, payout decimal.Decimal) (Market, error) {
	if len(outcomes) == 0 {
		return Market{}, errs.New(errs.KindDomain, "market must have at least one outcome")
	}
	if !payout.IsPositive() {
		return Market{}, errs.New(errs.KindDomain, "market payout must be positive")
	}

	seen := make(map[ids.TokenID]struct{}, len(outcomes))
	for _, o := range outcomes {
		if _, dup := seen[o.TokenID]; dup {
			return Market{}, errs.New(errs.KindDomain, "duplicate token id within market: "+string(o.TokenID))
		}
		seen[o.TokenID] = struct{}{}
	}

	return Market{ID: id, Question: question, Outcomes: outcomes, Payout: payout}, nil
}

// IsBinary reports whether the market has exactly two outcomes (Yes/No).
func (m Market) IsBinary() bool { return len(m.Outcomes) == 2 }

// TokenIDs returns the token ids of every outcome, in outcome order.
func (m Market) TokenIDs() []ids.TokenID {
	out := make([]ids.TokenID, len(m.Outcomes))
	for i, o := range m.Outcomes {
		out[i] = o.TokenID
	}
	return out
}
