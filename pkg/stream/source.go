package stream

import (
	"context"

	"github.com/arbengine/predictarb/pkg/ids"
)

// DataStream is the external contract of spec §4.D: connect, subscribe,
// and a pull-based event stream. A false return from NextEvent means no
// event was delivered: Reconnecting returns false only once the stream
// has ended (closed, or its context cancelled), while an inner transport
// such as CLOBStream also returns false for a frame that carries no book
// update, which Reconnecting skips. Connection failures are surfaced
// through a Disconnected event instead of an error, so that reconnection
// stays internal to implementations that want it.
type DataStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context, tokenIDs []ids.TokenID) error
	NextEvent(ctx context.Context) (MarketEvent, bool)
	Close() error
}
