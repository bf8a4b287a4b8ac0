package execution

import (
	"context"
	"fmt"

	"github.com/arbengine/predictarb/pkg/ids"
	"github.com/arbengine/predictarb/pkg/types"
)

// OrderRequest is one leg's buy order: size is USD notional to spend at
// (or better than) the detected ask, the same size-as-spend convention
// the Polymarket client already used.
type OrderRequest struct {
	TokenID  ids.TokenID
	AskPrice types.Price
	SizeUSD  types.Volume
}

// OrderResult is a gateway's confirmation that an order was accepted.
// Every leg is a marketable limit order crossing the book, so acceptance
// is treated as a fill; Gateway carries no separate fill-polling step.
type OrderResult struct {
	OrderID ids.OrderID
}

// Gateway is the exchange-polymorphic order submission contract (spec
// §4.H): the executor holds no exchange-specific knowledge beyond this
// interface, and no key material at all.
type Gateway interface {
	SubmitOrder(ctx context.Context, req OrderRequest) (OrderResult, error)
	CancelOrder(ctx context.Context, orderID ids.OrderID) error
	ExchangeName() string
}

// GatewayConfig selects and configures the concrete Gateway from the
// "exchange" configuration key (spec §6).
type GatewayConfig struct {
	Exchange   string
	Polymarket *OrderClientConfig
	TickSize   float64
}

// NewGateway is the executor factory spec §4.H calls for: it picks the
// concrete Gateway implementation by exchange name.
func NewGateway(cfg GatewayConfig) (Gateway, error) {
	switch cfg.Exchange {
	case "", "polymarket":
		client, err := NewOrderClient(cfg.Polymarket)
		if err != nil {
			return nil, fmt.Errorf("build polymarket order client: %w", err)
		}
		return NewPolymarketGateway(client, cfg.TickSize), nil
	default:
		return nil, fmt.Errorf("unknown exchange gateway: %s", cfg.Exchange)
	}
}
