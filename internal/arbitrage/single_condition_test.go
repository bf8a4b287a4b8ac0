package arbitrage

import (
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/arbengine/predictarb/internal/orderbook"
	"github.com/arbengine/predictarb/pkg/types"
)

func testConfig() Config {
	return Config{
		MinEdge:   types.NewPrice(decimal.NewFromFloat(0.01)),
		MinProfit: types.NewVolume(decimal.NewFromFloat(0.01)),
		MinSize:   types.NewVolume(decimal.NewFromInt(1)),
		Cap:       types.NewVolume(decimal.NewFromInt(1000)),
	}
}

func seedBinaryBooks(cache *orderbook.Cache, m types.Market, yesAsk, noAsk string) {
	cache.Update(types.OrderBook{
		TokenID:  m.Outcomes[0].TokenID,
		Sequence: 1,
		Asks:     []types.Level{{Price: types.NewPrice(decimal.RequireFromString(yesAsk)), Size: types.NewVolume(decimal.NewFromInt(100))}},
	})
	cache.Update(types.OrderBook{
		TokenID:  m.Outcomes[1].TokenID,
		Sequence: 1,
		Asks:     []types.Level{{Price: types.NewPrice(decimal.RequireFromString(noAsk)), Size: types.NewVolume(decimal.NewFromInt(100))}},
	})
}

func TestSingleCondition_DetectsUnderpricedBinaryMarket(t *testing.T) {
	m, err := types.NewMarket("m1", "Will X happen?", []types.Outcome{
		{TokenID: "m1-yes", Name: "Yes"},
		{TokenID: "m1-no", Name: "No"},
	}, decimal.NewFromInt(1))
	if err != nil {
		t.Fatalf("NewMarket() error = %v", err)
	}

	cache := orderbook.New(zap.NewNop())
	seedBinaryBooks(cache, m, "0.48", "0.49")

	s := NewSingleCondition(testConfig())
	opps := s.Detect(DetectionContext{Market: m, Cache: cache})
	if len(opps) != 1 {
		t.Fatalf("Detect() = %d opportunities, want 1", len(opps))
	}
	if opps[0].Strategy != types.StrategySingleCondition {
		t.Errorf("Strategy = %s, want single_condition", opps[0].Strategy)
	}
}

func TestSingleCondition_RejectsAboveThreshold(t *testing.T) {
	m, _ := types.NewMarket("m1", "Will X happen?", []types.Outcome{
		{TokenID: "m1-yes", Name: "Yes"},
		{TokenID: "m1-no", Name: "No"},
	}, decimal.NewFromInt(1))

	cache := orderbook.New(zap.NewNop())
	seedBinaryBooks(cache, m, "0.50", "0.51")

	s := NewSingleCondition(testConfig())
	opps := s.Detect(DetectionContext{Market: m, Cache: cache})
	if len(opps) != 0 {
		t.Errorf("Detect() = %d opportunities, want 0", len(opps))
	}
}

func TestSingleCondition_SkipsNonBinaryMarket(t *testing.T) {
	m, _ := types.NewMarket("m1", "Which of three?", []types.Outcome{
		{TokenID: "m1-a", Name: "A"},
		{TokenID: "m1-b", Name: "B"},
		{TokenID: "m1-c", Name: "C"},
	}, decimal.NewFromInt(1))

	cache := orderbook.New(zap.NewNop())
	s := NewSingleCondition(testConfig())
	opps := s.Detect(DetectionContext{Market: m, Cache: cache})
	if len(opps) != 0 {
		t.Errorf("Detect() on non-binary market = %d, want 0", len(opps))
	}
}

func TestSingleCondition_RejectsMissingBook(t *testing.T) {
	m, _ := types.NewMarket("m1", "Will X happen?", []types.Outcome{
		{TokenID: "m1-yes", Name: "Yes"},
		{TokenID: "m1-no", Name: "No"},
	}, decimal.NewFromInt(1))

	cache := orderbook.New(zap.NewNop())
	s := NewSingleCondition(testConfig())
	opps := s.Detect(DetectionContext{Market: m, Cache: cache})
	if len(opps) != 0 {
		t.Errorf("Detect() with no books = %d, want 0", len(opps))
	}
}
