package execution

import (
	"context"
	"fmt"

	"github.com/polymarket/go-order-utils/pkg/model"

	"github.com/arbengine/predictarb/pkg/ids"
)

// PolymarketGateway adapts OrderClient's signing/submission to the Gateway
// contract: one marketable limit order per call, buying SizeUSD worth of
// the token at the quoted ask.
type PolymarketGateway struct {
	client   *OrderClient
	tickSize float64
}

// NewPolymarketGateway wraps an OrderClient as a Gateway. tickSize drives
// the CLOB's amount-rounding table for this market.
func NewPolymarketGateway(client *OrderClient, tickSize float64) *PolymarketGateway {
	return &PolymarketGateway{client: client, tickSize: tickSize}
}

func (g *PolymarketGateway) ExchangeName() string { return "polymarket" }

func (g *PolymarketGateway) SubmitOrder(ctx context.Context, req OrderRequest) (OrderResult, error) {
	price, _ := req.AskPrice.Decimal.Float64()
	if price <= 0 {
		return OrderResult{}, fmt.Errorf("submit order: non-positive ask price for token %s", req.TokenID)
	}
	sizeUSD, _ := req.SizeUSD.Decimal.Float64()

	sizePrecision, amountPrecision := getRoundingConfig(g.tickSize)
	takerTokens := roundAmount(sizeUSD/price, sizePrecision)
	makerUSD := roundAmount(takerTokens*price, amountPrecision)

	makerAddress := g.client.address
	if g.client.proxyAddress != "" {
		makerAddress = g.client.proxyAddress
	}

	orderData := &model.OrderData{
		Maker:         makerAddress,
		Taker:         "0x0000000000000000000000000000000000000000",
		TokenId:       string(req.TokenID),
		MakerAmount:   usdToRawAmount(makerUSD),
		TakerAmount:   usdToRawAmount(takerTokens),
		Side:          model.BUY,
		FeeRateBps:    "0",
		Nonce:         "0",
		Signer:        g.client.address,
		Expiration:    "0",
		SignatureType: g.client.signatureType,
	}

	resp, err := g.client.PlaceSingleOrder(ctx, orderData)
	if err != nil {
		return OrderResult{}, err
	}
	if !resp.Success {
		return OrderResult{}, fmt.Errorf("order rejected for token %s: %s", req.TokenID, resp.ErrorMsg)
	}
	return OrderResult{OrderID: ids.OrderID(resp.OrderID)}, nil
}

func (g *PolymarketGateway) CancelOrder(ctx context.Context, orderID ids.OrderID) error {
	return g.client.CancelOrder(ctx, string(orderID))
}
