package types

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/arbengine/predictarb/pkg/errs"
	"github.com/arbengine/predictarb/pkg/ids"
)

// PositionStatusKind discriminates Position.Status.
type PositionStatusKind string

const (
	PositionOpen        PositionStatusKind = "open"
	PositionPartialFill PositionStatusKind = "partial_fill"
	PositionClosed      PositionStatusKind = "closed"
)

// PositionStatus is Position's status union. Only the fields matching
// Kind are meaningful.
type PositionStatus struct {
	Kind    PositionStatusKind
	Filled  []ids.TokenID // PositionPartialFill
	Missing []ids.TokenID // PositionPartialFill
	PNL     decimal.Decimal
}

// PositionLeg is one constituent fill of an executed Position.
type PositionLeg struct {
	TokenID    ids.TokenID
	Size       Volume
	EntryPrice Price
}

// Position is an executed (or partially executed) arbitrage.
// Invariants: legs non-empty; GuaranteedPayout > EntryCost.
type Position struct {
	ID               ids.PositionID
	MarketID         ids.MarketID
	Legs             []PositionLeg
	EntryCost        decimal.Decimal
	GuaranteedPayout decimal.Decimal
	OpenedAt         time.Time
	Status           PositionStatus
}

// NewPosition validates and constructs a Position.
func NewPosition(id ids.PositionID, marketID ids.MarketID, legs []PositionLeg, entryCost, guaranteedPayout decimal.Decimal) (Position, error) {
	if len(legs) == 0 {
		return Position{}, errs.New(errs.KindDomain, "position must have at least one leg")
	}
	if !guaranteedPayout.GreaterThan(entryCost) {
		return Position{}, errs.New(errs.KindDomain, "position guaranteed payout must exceed entry cost")
	}

	return Position{
		ID:               id,
		MarketID:         marketID,
		Legs:             legs,
		EntryCost:        entryCost,
		GuaranteedPayout: guaranteedPayout,
		OpenedAt:         time.Now(),
		Status:           PositionStatus{Kind: PositionOpen},
	}, nil
}
