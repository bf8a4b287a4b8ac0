// Package markets holds the market registry (spec §4.C): a set of
// markets plus a TokenID -> MarketID reverse index. The registry is
// built once at startup (from an external market-selection step, out
// of the core's scope per spec §1) and treated as immutable thereafter;
// reads take only a shared read lock.
package markets

import (
	"sync"

	"go.uber.org/zap"

	"github.com/arbengine/predictarb/pkg/ids"
	"github.com/arbengine/predictarb/pkg/types"
)

// Registry maps MarketID -> Market and TokenID -> MarketID.
type Registry struct {
	mu      sync.RWMutex
	markets map[ids.MarketID]types.Market
	byToken map[ids.TokenID]ids.MarketID
	logger  *zap.Logger
}

// New creates an empty registry.
func New(logger *zap.Logger) *Registry {
	return &Registry{
		markets: make(map[ids.MarketID]types.Market),
		byToken: make(map[ids.TokenID]ids.MarketID),
		logger:  logger,
	}
}

// Add registers a market, idempotent by market id: applying Add twice
// with the same market id leaves the registry unchanged.
func (r *Registry) Add(m types.Market) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.markets[m.ID]; exists {
		RegistrationsSkippedTotal.Inc()
		r.logger.Debug("market-already-registered", zap.String("market-id", string(m.ID)))
		return
	}

	r.markets[m.ID] = m
	for _, o := range m.Outcomes {
		r.byToken[o.TokenID] = m.ID
	}
	MarketsRegistered.Set(float64(len(r.markets)))
}

// Get returns the market for a market id.
func (r *Registry) Get(id ids.MarketID) (types.Market, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.markets[id]
	return m, ok
}

// GetByToken returns the market owning a token id, O(1) via the reverse index.
func (r *Registry) GetByToken(token ids.TokenID) (types.Market, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	marketID, ok := r.byToken[token]
	if !ok {
		return types.Market{}, false
	}
	m, ok := r.markets[marketID]
	return m, ok
}

// Has reports whether token belongs to a registered market.
func (r *Registry) Has(token ids.TokenID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byToken[token]
	return ok
}

// Len returns the number of registered markets.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.markets)
}

// AllTokenIDs returns every token id owned by a registered market, for
// the orchestrator's initial stream subscription.
func (r *Registry) AllTokenIDs() []ids.TokenID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tokens := make([]ids.TokenID, 0, len(r.byToken))
	for t := range r.byToken {
		tokens = append(tokens, t)
	}
	return tokens
}
