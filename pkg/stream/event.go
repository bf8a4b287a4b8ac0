// Package stream holds the reconnecting market data stream (spec §4.D):
// an inner, exchange-specific transport plus a wrapper that adds
// subscription memory, exponential backoff with jitter, and a circuit
// breaker around reconnection.
package stream

import (
	"github.com/arbengine/predictarb/pkg/ids"
	"github.com/arbengine/predictarb/pkg/types"
)

// Kind discriminates MarketEvent variants.
type Kind int

const (
	// BookSnapshot carries a full order book replacing any prior state for TokenID.
	BookSnapshot Kind = iota
	// BookDelta carries an already-applied book update (the adapter folds
	// deltas into a full book before publishing, per spec §4.D).
	BookDelta
	// Connected reports a (re)established session.
	Connected
	// Disconnected reports a lost session; the reconnecting wrapper never
	// surfaces this variant to its own consumer.
	Disconnected
)

func (k Kind) String() string {
	switch k {
	case BookSnapshot:
		return "book_snapshot"
	case BookDelta:
		return "book_delta"
	case Connected:
		return "connected"
	case Disconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// MarketEvent is the single event type produced by a DataStream.
type MarketEvent struct {
	Kind    Kind
	TokenID ids.TokenID
	Book    types.OrderBook
	Reason  string // populated for Disconnected
}
