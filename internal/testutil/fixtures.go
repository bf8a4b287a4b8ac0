package testutil

import (
	"github.com/shopspring/decimal"

	"github.com/arbengine/predictarb/pkg/ids"
	"github.com/arbengine/predictarb/pkg/types"
)

// NewBinaryMarket builds a two-outcome (Yes/No) test market with a $1 payout.
func NewBinaryMarket(id ids.MarketID, question string) types.Market {
	m, err := types.NewMarket(id, question, []types.Outcome{
		{TokenID: ids.TokenID(string(id) + "-yes"), Name: "Yes"},
		{TokenID: ids.TokenID(string(id) + "-no"), Name: "No"},
	}, decimal.NewFromInt(1))
	if err != nil {
		panic(err)
	}
	return m
}

// NewOrderBook builds a single-level order book for a token at the given ask price.
func NewOrderBook(token ids.TokenID, sequence uint64, bidPrice, askPrice string) types.OrderBook {
	return types.OrderBook{
		TokenID:  token,
		Sequence: sequence,
		Bids: []types.Level{{
			Price: types.NewPrice(decimal.RequireFromString(bidPrice)),
			Size:  types.NewVolume(decimal.NewFromInt(100)),
		}},
		Asks: []types.Level{{
			Price: types.NewPrice(decimal.RequireFromString(askPrice)),
			Size:  types.NewVolume(decimal.NewFromInt(100)),
		}},
	}
}

// NewBinaryArbitrageOpportunity builds an opportunity whose legs sum below the
// market's $1 payout, i.e. a detectable arbitrage.
func NewBinaryArbitrageOpportunity(m types.Market) (types.Opportunity, error) {
	legs := make([]types.Leg, len(m.Outcomes))
	for i, o := range m.Outcomes {
		price := decimal.RequireFromString("0.48")
		if i > 0 {
			price = decimal.RequireFromString("0.49")
		}
		legs[i] = types.Leg{
			TokenID:  o.TokenID,
			MarketID: m.ID,
			AskPrice: types.NewPrice(price),
		}
	}

	return types.NewOpportunity(
		m.ID,
		m.Question,
		legs,
		types.NewVolume(decimal.NewFromInt(100)),
		m.Payout,
		types.StrategySingleCondition,
	)
}
