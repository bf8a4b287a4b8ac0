// Package notify implements the fan-out notifier registry spec.md §4.J
// names as a collaborator contract: Telegram/console bot UIs are out of
// scope, but the Notifier contract and a structured-log implementation
// of it are not.
package notify

import (
	"time"

	"github.com/arbengine/predictarb/pkg/errs"
	"github.com/arbengine/predictarb/pkg/ids"
	"github.com/arbengine/predictarb/pkg/types"
)

// EventKind names one of the seven event kinds spec.md §4.J lists.
type EventKind string

const (
	EventOpportunityDetected     EventKind = "opportunity_detected"
	EventExecutionCompleted      EventKind = "execution_completed"
	EventRiskRejected            EventKind = "risk_rejected"
	EventCircuitBreakerActivated EventKind = "circuit_breaker_activated"
	EventCircuitBreakerReset     EventKind = "circuit_breaker_reset"
	EventDailySummary            EventKind = "daily_summary"
	EventRelationsDiscovered     EventKind = "relations_discovered"
)

// Event is the fan-out payload. Only the fields matching Kind are
// meaningful; the rest are left zero.
type Event struct {
	Kind            EventKind
	At              time.Time
	Opportunity     *types.Opportunity
	ExecutionResult *types.ExecutionResult
	Success         bool
	RiskReason      errs.RiskRejectionKind
	Reason          string
	Summary         string
	MarketIDs       []ids.MarketID
}

// Notifier is a single fan-out subscriber.
type Notifier interface {
	Notify(e Event)
}

// OpportunityDetected builds an OpportunityDetected event.
func OpportunityDetected(opp types.Opportunity) Event {
	return Event{Kind: EventOpportunityDetected, At: time.Now(), Opportunity: &opp}
}

// ExecutionCompleted builds an ExecutionCompleted event.
func ExecutionCompleted(result types.ExecutionResult) Event {
	return Event{
		Kind:            EventExecutionCompleted,
		At:              time.Now(),
		ExecutionResult: &result,
		Success:         result.Status == types.ExecutionSuccess,
	}
}

// RiskRejected builds a RiskRejected event.
func RiskRejected(reason errs.RiskRejectionKind) Event {
	return Event{Kind: EventRiskRejected, At: time.Now(), RiskReason: reason}
}

// CircuitBreakerActivated builds a CircuitBreakerActivated event.
func CircuitBreakerActivated(reason string) Event {
	return Event{Kind: EventCircuitBreakerActivated, At: time.Now(), Reason: reason}
}

// CircuitBreakerReset builds a CircuitBreakerReset event.
func CircuitBreakerReset() Event {
	return Event{Kind: EventCircuitBreakerReset, At: time.Now()}
}

// DailySummary builds a DailySummary event.
func DailySummary(summary string) Event {
	return Event{Kind: EventDailySummary, At: time.Now(), Summary: summary}
}

// RelationsDiscovered builds a RelationsDiscovered event.
func RelationsDiscovered(marketIDs []ids.MarketID) Event {
	return Event{Kind: EventRelationsDiscovered, At: time.Now(), MarketIDs: marketIDs}
}
