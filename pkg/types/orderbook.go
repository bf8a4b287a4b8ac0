package types

import (
	"github.com/arbengine/predictarb/pkg/errs"
	"github.com/arbengine/predictarb/pkg/ids"
)

// Level is a single price level in an order book.
type Level struct {
	Price Price
	Size  Volume
}

// OrderBook is the ordered bid/ask ladder for one token, plus the
// feed-provided sequence number used to drop out-of-order updates.
// Invariants: best_bid < best_ask when both present; levels unique by
// price; a level with size 0 is absent from Bids/Asks.
type OrderBook struct {
	TokenID  ids.TokenID
	Bids     []Level // price descending
	Asks     []Level // price ascending
	Sequence uint64
}

// BestBid returns the highest bid level, if any.
func (b OrderBook) BestBid() (Level, bool) {
	if len(b.Bids) == 0 {
		return Level{}, false
	}
	return b.Bids[0], true
}

// BestAsk returns the lowest ask level, if any.
func (b OrderBook) BestAsk() (Level, bool) {
	if len(b.Asks) == 0 {
		return Level{}, false
	}
	return b.Asks[0], true
}

// Validate checks the book invariants from spec §3/§8: best_bid <
// best_ask when both sides are present.
func (b OrderBook) Validate() error {
	bid, hasBid := b.BestBid()
	ask, hasAsk := b.BestAsk()
	if hasBid && hasAsk && !bid.Price.LessThan(ask.Price.Decimal) {
		return errs.New(errs.KindDomain, "best_bid must be less than best_ask")
	}
	return nil
}
