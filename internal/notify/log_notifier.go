package notify

import "go.uber.org/zap"

// LogNotifier is the default Notifier: it logs every event via zap,
// matching the structured-logging idiom the rest of the engine uses
// rather than a print-based fallback.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier builds a LogNotifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(e Event) {
	switch e.Kind {
	case EventOpportunityDetected:
		n.logger.Info("opportunity-detected",
			zap.String("market_id", string(e.Opportunity.MarketID)),
			zap.String("strategy", string(e.Opportunity.Strategy)),
			zap.String("expected_profit", e.Opportunity.ExpectedProfit().String()))

	case EventExecutionCompleted:
		n.logger.Info("execution-completed",
			zap.Bool("success", e.Success),
			zap.String("status", string(e.ExecutionResult.Status)),
			zap.String("opportunity_id", e.ExecutionResult.OpportunityID))

	case EventRiskRejected:
		n.logger.Warn("risk-rejected", zap.String("reason", string(e.RiskReason)))

	case EventCircuitBreakerActivated:
		n.logger.Warn("circuit-breaker-activated", zap.String("reason", e.Reason))

	case EventCircuitBreakerReset:
		n.logger.Info("circuit-breaker-reset")

	case EventDailySummary:
		n.logger.Info("daily-summary", zap.String("summary", e.Summary))

	case EventRelationsDiscovered:
		n.logger.Info("relations-discovered", zap.Int("market_count", len(e.MarketIDs)))

	default:
		n.logger.Warn("unknown-notify-event", zap.String("kind", string(e.Kind)))
	}
}
