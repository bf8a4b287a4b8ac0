package stream

import (
	"math/rand"
	"sync"
	"time"
)

// BackoffConfig parameterizes exponential backoff with jitter: initial
// delay d0, multiplier m per failure, capped at dMax, plus up to
// jitterPercent extra delay to avoid reconnect storms (spec §4.D).
type BackoffConfig struct {
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64
	JitterPercent     float64
}

// backoff tracks the current delay across reconnect attempts.
type backoff struct {
	cfg     BackoffConfig
	mu      sync.Mutex
	current time.Duration
}

func newBackoff(cfg BackoffConfig) *backoff {
	return &backoff{cfg: cfg, current: cfg.InitialDelay}
}

// next returns the delay to wait before the next attempt, with jitter
// applied, then advances current toward dMax for the attempt after.
func (b *backoff) next() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	jitter := rand.Float64() * b.cfg.JitterPercent
	delay := time.Duration(float64(b.current) * (1.0 + jitter))

	CurrentBackoff.Set(b.current.Seconds())

	advanced := time.Duration(float64(b.current) * b.cfg.BackoffMultiplier)
	if advanced > b.cfg.MaxDelay {
		advanced = b.cfg.MaxDelay
	}
	b.current = advanced

	return delay
}

// reset returns the backoff to its initial delay, on a successful reconnect.
func (b *backoff) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = b.cfg.InitialDelay
	CurrentBackoff.Set(b.current.Seconds())
}
