package app

import (
	"sync"

	"github.com/arbengine/predictarb/pkg/ids"
)

// executionLocks is the per-market execution lock set spec.md §4.H
// step 5 / §4.I call for: a concurrent set keyed by market id. At most
// one handle_opportunity call holds the lock for a given market at a
// time; the rest are dropped rather than queued.
type executionLocks struct {
	mu    sync.Mutex
	inUse map[string]struct{}
}

func newExecutionLocks() *executionLocks {
	return &executionLocks{inUse: make(map[string]struct{})}
}

// tryLock attempts to acquire the lock for market, returning false if
// another execution is already in flight for it.
func (l *executionLocks) tryLock(market ids.MarketID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := string(market)
	if _, held := l.inUse[key]; held {
		return false
	}
	l.inUse[key] = struct{}{}
	return true
}

// release frees the lock for market. Safe to call even if the lock
// isn't held.
func (l *executionLocks) release(market ids.MarketID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.inUse, string(market))
}
