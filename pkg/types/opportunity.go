package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arbengine/predictarb/pkg/errs"
	"github.com/arbengine/predictarb/pkg/ids"
)

// Strategy names which detection strategy produced an Opportunity.
type Strategy string

const (
	StrategySingleCondition   Strategy = "single_condition"
	StrategyMarketRebalancing Strategy = "market_rebalancing"
	StrategyCombinatorial     Strategy = "combinatorial"
)

// Leg is one constituent order of an Opportunity: the token to buy and
// the ask price it was detected at.
type Leg struct {
	TokenID  ids.TokenID
	MarketID ids.MarketID
	AskPrice Price
}

// Opportunity is a candidate arbitrage: buying every leg at its quoted
// ask price costs strictly less than the guaranteed Payout.
//
// Derived quantities (TotalCost, Edge, ExpectedProfit) are computed on
// demand from Legs and Volume; they are never stored, to eliminate drift.
type Opportunity struct {
	ID         string
	MarketID   ids.MarketID
	Question   string
	Legs       []Leg
	Volume     Volume
	Payout     decimal.Decimal
	Strategy   Strategy
	DetectedAt time.Time
}

// NewOpportunity validates and constructs an Opportunity. Rejects non-positive
// volume, payout <= total cost, and legs whose market id doesn't match
// (for single-market strategies; combinatorial opportunities may span
// markets bound by a relation and are exempt from that check).
func NewOpportunity(marketID ids.MarketID, question string, legs []Leg, volume Volume, payout decimal.Decimal, strategy Strategy) (Opportunity, error) {
	if len(legs) == 0 {
		return Opportunity{}, errs.New(errs.KindDomain, "opportunity must have at least one leg")
	}
	if !volume.IsPositive() {
		return Opportunity{}, errs.New(errs.KindDomain, "opportunity volume must be positive")
	}

	if strategy != StrategyCombinatorial {
		for _, l := range legs {
			if l.MarketID != marketID {
				return Opportunity{}, errs.New(errs.KindDomain, "leg token does not belong to opportunity market: "+string(l.TokenID))
			}
		}
	}

	o := Opportunity{
		ID:         uuid.New().String(),
		MarketID:   marketID,
		Question:   question,
		Legs:       legs,
		Volume:     volume,
		Payout:     payout,
		Strategy:   strategy,
		DetectedAt: time.Now(),
	}

	if !payout.GreaterThan(o.TotalCost()) {
		return Opportunity{}, errs.New(errs.KindDomain, "opportunity payout must exceed total leg cost")
	}

	return o, nil
}

// TotalCost is the sum of leg ask prices.
func (o Opportunity) TotalCost() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range o.Legs {
		sum = sum.Add(l.AskPrice.Decimal)
	}
	return sum
}

// Edge is Payout minus TotalCost.
func (o Opportunity) Edge() decimal.Decimal {
	return o.Payout.Sub(o.TotalCost())
}

// ExpectedProfit is Edge times Volume.
func (o Opportunity) ExpectedProfit() decimal.Decimal {
	return o.Edge().Mul(o.Volume.Decimal)
}

// Cost is the per-share cost (TotalCost), used by the risk manager when
// scaling by volume for exposure checks.
func (o Opportunity) Cost() decimal.Decimal { return o.TotalCost() }
