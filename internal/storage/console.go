package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/arbengine/predictarb/pkg/types"
)

// ConsoleStorage implements Storage by pretty-printing to console.
type ConsoleStorage struct {
	logger *zap.Logger
}

// NewConsoleStorage creates a new console storage.
func NewConsoleStorage(logger *zap.Logger) *ConsoleStorage {
	logger.Info("console-storage-initialized")
	return &ConsoleStorage{
		logger: logger,
	}
}

// StoreOpportunity pretty-prints a detected opportunity to console.
func (c *ConsoleStorage) StoreOpportunity(ctx context.Context, opp *types.Opportunity) error {
	fmt.Println("\n" + "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("ARBITRAGE OPPORTUNITY DETECTED (%s)\n", opp.Strategy)
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("ID:       %s\n", opp.ID[:8])
	fmt.Printf("Market:   %s\n", opp.MarketID)
	fmt.Printf("Question: %s\n", opp.Question)
	fmt.Printf("Time:     %s\n", opp.DetectedAt.Format("2006-01-02 15:04:05"))
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("LEGS (%d)\n", len(opp.Legs))

	for _, leg := range opp.Legs {
		fmt.Printf("  %-15s %s @ %s\n", leg.MarketID, leg.TokenID, leg.AskPrice.Decimal.StringFixed(4))
	}

	fmt.Printf("  ───────────────────────────────\n")
	fmt.Printf("  Total Cost: %s   Payout: %s   Edge: %s\n", opp.TotalCost().StringFixed(4), opp.Payout.StringFixed(4), opp.Edge().StringFixed(4))

	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("PROFIT ANALYSIS\n")
	fmt.Printf("  Volume:          %s\n", opp.Volume.Decimal.StringFixed(2))
	fmt.Printf("  Expected Profit: $%s\n", opp.ExpectedProfit().StringFixed(2))
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	return nil
}

// Close is a no-op for console storage.
func (c *ConsoleStorage) Close() error {
	c.logger.Info("closing-console-storage")
	return nil
}
