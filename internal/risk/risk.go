// Package risk implements the risk manager (spec §4.G): a pure decision
// function over live state it does not own (circuit-breaker flag, open
// position exposure), checked in a fixed order with short-circuit on the
// first rejection.
package risk

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/arbengine/predictarb/pkg/errs"
	"github.com/arbengine/predictarb/pkg/ids"
	"github.com/arbengine/predictarb/pkg/types"
)

// CircuitBreaker is the signal source for check #1. internal/circuitbreaker's
// BalanceCircuitBreaker satisfies this directly.
type CircuitBreaker interface {
	IsEnabled() bool
}

// ExposureTracker reports live exposure from the position ledger for
// checks #3 and #4.
type ExposureTracker interface {
	MarketExposure(market ids.MarketID) decimal.Decimal
	TotalExposure() decimal.Decimal
}

// RiskCheckResult is the outcome of Manager.Check or CheckSlippage:
// either Approved, or Rejected with one of the five stable kinds.
type RiskCheckResult struct {
	Approved bool
	Reason   errs.RiskRejectionKind
}

// Manager checks opportunities against configured limits in the exact
// order spec §4.G specifies. It holds no position state itself; it reads
// it from the ExposureTracker collaborator (the app's position ledger).
type Manager struct {
	limits   types.RiskLimits
	breaker  CircuitBreaker
	exposure ExposureTracker
	logger   *zap.Logger
}

// NewManager builds a risk manager.
func NewManager(limits types.RiskLimits, breaker CircuitBreaker, exposure ExposureTracker, logger *zap.Logger) *Manager {
	return &Manager{limits: limits, breaker: breaker, exposure: exposure, logger: logger}
}

// Check runs the ordered risk checks and short-circuits on first failure.
func (m *Manager) Check(opp types.Opportunity) RiskCheckResult {
	if !m.breaker.IsEnabled() {
		return m.reject(errs.RiskCircuitBreakerActive)
	}
	if opp.ExpectedProfit().LessThan(m.limits.MinProfitThreshold) {
		return m.reject(errs.RiskProfitBelowThreshold)
	}

	cost := opp.Cost().Mul(opp.Volume.Decimal)
	if m.exposure.MarketExposure(opp.MarketID).Add(cost).GreaterThan(m.limits.MaxPositionPerMarket) {
		return m.reject(errs.RiskPositionLimitExceeded)
	}
	if m.exposure.TotalExposure().Add(cost).GreaterThan(m.limits.MaxTotalExposure) {
		return m.reject(errs.RiskExposureLimitExceeded)
	}

	ChecksTotal.WithLabelValues("approved", "").Inc()
	return RiskCheckResult{Approved: true}
}

func (m *Manager) reject(kind errs.RiskRejectionKind) RiskCheckResult {
	ChecksTotal.WithLabelValues("rejected", string(kind)).Inc()
	m.logger.Debug("risk-check-rejected", zap.String("reason", string(kind)))
	return RiskCheckResult{Approved: false, Reason: kind}
}
