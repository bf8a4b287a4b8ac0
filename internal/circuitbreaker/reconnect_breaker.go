package circuitbreaker

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// ReconnectBreaker trips after a run of consecutive stream reconnect
// failures and holds the stream closed for a cooldown period, so that
// a dead upstream feed doesn't spin the reconnect loop forever. It is
// a second, independent circuit breaker from BalanceCircuitBreaker:
// that one gates trade execution on collateral, this one gates the
// data stream on connectivity (spec.md §4.D).
type ReconnectBreaker struct {
	failureThreshold int
	cooldown         time.Duration
	logger           *zap.Logger

	mu                  sync.Mutex
	consecutiveFailures int
	openUntil           time.Time
}

// NewReconnectBreaker creates a breaker that opens after failureThreshold
// consecutive failures and stays open for cooldown.
func NewReconnectBreaker(failureThreshold int, cooldown time.Duration, logger *zap.Logger) *ReconnectBreaker {
	return &ReconnectBreaker{
		failureThreshold: failureThreshold,
		cooldown:         cooldown,
		logger:           logger,
	}
}

// Allow reports whether a reconnect attempt may proceed right now.
func (b *ReconnectBreaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.openUntil.IsZero() {
		return true
	}
	if time.Now().Before(b.openUntil) {
		return false
	}
	// Cooldown elapsed: allow a probe attempt, stay "open" bookkeeping-wise
	// until RecordSuccess clears it.
	return true
}

// RecordFailure registers a failed reconnect attempt. Once the
// consecutive-failure count reaches the threshold, the breaker opens
// for cooldown.
func (b *ReconnectBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.consecutiveFailures++
	ReconnectBreakerConsecutiveFailures.Set(float64(b.consecutiveFailures))

	if b.consecutiveFailures >= b.failureThreshold {
		b.openUntil = time.Now().Add(b.cooldown)
		ReconnectBreakerOpen.Set(1)
		ReconnectBreakerTripsTotal.Inc()
		b.logger.Warn("reconnect-breaker-opened",
			zap.Int("consecutive-failures", b.consecutiveFailures),
			zap.Duration("cooldown", b.cooldown))
	}
}

// RecordSuccess resets the failure streak and closes the breaker.
func (b *ReconnectBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	wasOpen := !b.openUntil.IsZero()
	b.consecutiveFailures = 0
	b.openUntil = time.Time{}
	ReconnectBreakerConsecutiveFailures.Set(0)
	ReconnectBreakerOpen.Set(0)

	if wasOpen {
		b.logger.Info("reconnect-breaker-closed")
	}
}

// CooldownRemaining returns how long until the breaker allows another attempt.
func (b *ReconnectBreaker) CooldownRemaining() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.openUntil.IsZero() {
		return 0
	}
	remaining := time.Until(b.openUntil)
	if remaining < 0 {
		return 0
	}
	return remaining
}
