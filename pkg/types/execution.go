package types

import (
	"time"

	"github.com/arbengine/predictarb/pkg/errs"
	"github.com/arbengine/predictarb/pkg/ids"
)

// ExecutionStatusKind discriminates ExecutionResult's three variants (spec
// §4.H): Success (every leg filled), PartialFill (some filled, some
// didn't), Failed (none filled).
type ExecutionStatusKind string

const (
	ExecutionSuccess     ExecutionStatusKind = "success"
	ExecutionPartialFill ExecutionStatusKind = "partial_fill"
	ExecutionFailed      ExecutionStatusKind = "failed"
)

// FilledLeg records a leg the gateway confirmed as submitted/filled.
type FilledLeg struct {
	TokenID ids.TokenID
	OrderID ids.OrderID
	Price   Price
	Size    Volume
}

// ExecutionResult is the outcome of attempting to execute every leg of one
// Opportunity. Unwound is only meaningful when Status is PartialFill: true
// means every filled leg was successfully canceled and no Position was
// recorded; false means at least one unwind failed and a Position with
// PositionPartialFill status now reflects the residual exposure.
type ExecutionResult struct {
	OpportunityID string
	Status        ExecutionStatusKind
	Filled        []FilledLeg
	Failed        []*errs.LegError
	Unwound       bool
	ExecutedAt    time.Time
}
