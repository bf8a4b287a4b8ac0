package stream

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/arbengine/predictarb/internal/circuitbreaker"
	"github.com/arbengine/predictarb/pkg/ids"
)

// ReconnectingConfig configures the wrapper's backoff and circuit breaker.
type ReconnectingConfig struct {
	Backoff          BackoffConfig
	FailureThreshold int           // F: consecutive failures before the breaker opens
	Cooldown         time.Duration // C: how long the breaker stays open
}

// Reconnecting composes an inner DataStream and adds subscription memory,
// exponential backoff with jitter, and a circuit breaker around
// reconnection (spec §4.D). It hides Disconnected events from its own
// consumer: NextEvent only ever returns Connected/BookSnapshot/BookDelta,
// transparently reconnecting and resubscribing behind the scenes.
type Reconnecting struct {
	inner   DataStream
	connect func(ctx context.Context) (DataStream, error)
	logger  *zap.Logger
	backoff *backoff
	breaker *circuitbreaker.ReconnectBreaker

	mu            sync.Mutex
	subscriptions map[ids.TokenID]struct{}
	connectedAt   time.Time
	closed        bool
}

// NewReconnecting wraps connect (a factory that creates and connects a
// fresh inner DataStream each time it's called) with reconnection
// behavior.
func NewReconnecting(connect func(ctx context.Context) (DataStream, error), cfg ReconnectingConfig, logger *zap.Logger) *Reconnecting {
	return &Reconnecting{
		connect:       connect,
		logger:        logger,
		backoff:       newBackoff(cfg.Backoff),
		breaker:       circuitbreaker.NewReconnectBreaker(cfg.FailureThreshold, cfg.Cooldown, logger),
		subscriptions: make(map[ids.TokenID]struct{}),
	}
}

// Connect establishes the initial session.
func (r *Reconnecting) Connect(ctx context.Context) error {
	inner, err := r.dial(ctx)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.inner = inner
	r.connectedAt = time.Now()
	r.mu.Unlock()
	return nil
}

// Subscribe registers tokens for the lifetime of this stream: the set is
// remembered and replayed on every future reconnect, in addition to
// being sent to the currently connected inner stream right away.
func (r *Reconnecting) Subscribe(ctx context.Context, tokenIDs []ids.TokenID) error {
	r.mu.Lock()
	for _, t := range tokenIDs {
		r.subscriptions[t] = struct{}{}
	}
	inner := r.inner
	r.mu.Unlock()

	if inner == nil {
		return nil
	}
	return inner.Subscribe(ctx, tokenIDs)
}

// NextEvent returns the next event, transparently reconnecting on
// disconnect. It only returns false when Close has been called or ctx
// is cancelled.
func (r *Reconnecting) NextEvent(ctx context.Context) (MarketEvent, bool) {
	for {
		r.mu.Lock()
		closed := r.closed
		inner := r.inner
		r.mu.Unlock()

		if closed {
			return MarketEvent{}, false
		}
		if inner == nil {
			if !r.reconnect(ctx) {
				return MarketEvent{}, false
			}
			continue
		}

		event, ok := inner.NextEvent(ctx)
		if !ok {
			continue
		}

		if event.Kind == Disconnected {
			r.recordDisconnect(event.Reason)
			if !r.reconnect(ctx) {
				return MarketEvent{}, false
			}
			continue
		}

		return event, true
	}
}

// Close permanently shuts down the stream.
func (r *Reconnecting) Close() error {
	r.mu.Lock()
	r.closed = true
	inner := r.inner
	r.inner = nil
	r.mu.Unlock()

	if inner == nil {
		return nil
	}
	return inner.Close()
}

func (r *Reconnecting) recordDisconnect(reason string) {
	r.mu.Lock()
	startedAt := r.connectedAt
	r.inner = nil
	r.mu.Unlock()

	if !startedAt.IsZero() {
		ConnectionDuration.Observe(time.Since(startedAt).Seconds())
	}
	r.logger.Warn("stream-disconnected", zap.String("reason", reason))
}

// reconnect loops until it either establishes a fresh session and
// replays subscriptions, or the context is cancelled / the stream is
// closed out from under it. Returns false only in those terminal cases.
func (r *Reconnecting) reconnect(ctx context.Context) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		default:
		}

		r.mu.Lock()
		if r.closed {
			r.mu.Unlock()
			return false
		}
		r.mu.Unlock()

		if !r.breaker.Allow() {
			wait := r.breaker.CooldownRemaining()
			if wait <= 0 {
				wait = 100 * time.Millisecond
			}
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return false
			}
			continue
		}

		delay := r.backoff.next()
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return false
		}

		ReconnectAttemptsTotal.Inc()
		inner, err := r.dial(ctx)
		if err != nil {
			r.logger.Warn("reconnect-failed", zap.Error(err))
			ReconnectFailuresTotal.Inc()
			r.breaker.RecordFailure()
			continue
		}

		if err := r.resubscribeAll(ctx, inner); err != nil {
			r.logger.Error("resubscribe-failed", zap.Error(err))
			ResubscribeFailuresTotal.Inc()
			r.breaker.RecordFailure()
			_ = inner.Close()
			continue
		}

		r.backoff.reset()
		r.breaker.RecordSuccess()

		r.mu.Lock()
		r.inner = inner
		r.connectedAt = time.Now()
		r.mu.Unlock()

		r.logger.Info("stream-reconnected")
		return true
	}
}

func (r *Reconnecting) dial(ctx context.Context) (DataStream, error) {
	return r.connect(ctx)
}

func (r *Reconnecting) resubscribeAll(ctx context.Context, inner DataStream) error {
	r.mu.Lock()
	tokens := make([]ids.TokenID, 0, len(r.subscriptions))
	for t := range r.subscriptions {
		tokens = append(tokens, t)
	}
	r.mu.Unlock()

	if len(tokens) == 0 {
		return nil
	}
	return inner.Subscribe(ctx, tokens)
}
