package risk

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/arbengine/predictarb/pkg/ids"
	"github.com/arbengine/predictarb/pkg/types"
)

// Ledger is the position ledger spec §4.G/§4.I call out as part of the
// shared app state: every open (or partially-filled) Position, keyed by
// id, with per-market and total exposure derived on demand from
// EntryCost so exposure never drifts independently of the positions
// that back it.
type Ledger struct {
	mu        sync.RWMutex
	positions map[ids.PositionID]types.Position
}

// NewLedger creates an empty position ledger.
func NewLedger() *Ledger {
	return &Ledger{positions: make(map[ids.PositionID]types.Position)}
}

// Open records a new position, or replaces an existing one with the same id
// (used when partial-fill recovery updates a position's status in place).
func (l *Ledger) Open(p types.Position) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.positions[p.ID] = p
}

// Close removes a position from the ledger (its exposure is released).
func (l *Ledger) Close(id ids.PositionID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.positions, id)
}

// Get returns the position for id, if present.
func (l *Ledger) Get(id ids.PositionID) (types.Position, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.positions[id]
	return p, ok
}

// MarketExposure sums EntryCost across every open position on market.
func (l *Ledger) MarketExposure(market ids.MarketID) decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()

	sum := decimal.Zero
	for _, p := range l.positions {
		if p.MarketID == market {
			sum = sum.Add(p.EntryCost)
		}
	}
	return sum
}

// TotalExposure sums EntryCost across every open position.
func (l *Ledger) TotalExposure() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()

	sum := decimal.Zero
	for _, p := range l.positions {
		sum = sum.Add(p.EntryCost)
	}
	return sum
}

// Len returns the number of open positions, for status reporting
// (spec §6 status file's runtime.positions_open).
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.positions)
}
