package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/arbengine/predictarb/pkg/ids"
	"github.com/arbengine/predictarb/pkg/types"
)

// seedMarket is the on-disk shape of one entry in a markets file.
// Market selection itself is out of scope (spec.md §1); operators hand
// the orchestrator a fixed set this way instead of a live discovery feed.
type seedMarket struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Payout   string   `json:"payout"`
	Outcomes []struct {
		TokenID string `json:"token_id"`
		Name    string `json:"name"`
	} `json:"outcomes"`
}

// loadMarketsFile reads a JSON array of seedMarket from path and
// constructs validated types.Market values. If singleMarket is
// non-empty, every other market id is dropped.
func loadMarketsFile(path, singleMarket string) ([]types.Market, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read markets file: %w", err)
	}

	var seeds []seedMarket
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("parse markets file: %w", err)
	}

	out := make([]types.Market, 0, len(seeds))
	for _, s := range seeds {
		if singleMarket != "" && s.ID != singleMarket {
			continue
		}

		payout, err := decimal.NewFromString(s.Payout)
		if err != nil {
			return nil, fmt.Errorf("market %s: parse payout: %w", s.ID, err)
		}

		outcomes := make([]types.Outcome, len(s.Outcomes))
		for i, o := range s.Outcomes {
			outcomes[i] = types.Outcome{TokenID: ids.TokenID(o.TokenID), Name: o.Name}
		}

		m, err := types.NewMarket(ids.MarketID(s.ID), s.Question, outcomes, payout)
		if err != nil {
			return nil, fmt.Errorf("market %s: %w", s.ID, err)
		}
		out = append(out, m)
	}

	return out, nil
}
