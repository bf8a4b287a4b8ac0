package testutil

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/arbengine/predictarb/internal/circuitbreaker"
)

// MockBalanceFetcher is a mock implementation of circuitbreaker.BalanceFetcher
// for testing the balance circuit breaker without a live chain client.
type MockBalanceFetcher struct {
	mu             sync.Mutex
	balance        *big.Int
	getBalancesErr error
}

// NewMockBalanceFetcher creates a new mock balance fetcher with a zero balance.
func NewMockBalanceFetcher() *MockBalanceFetcher {
	return &MockBalanceFetcher{
		balance: big.NewInt(0),
	}
}

// GetBalances returns the configured mock USDC balance.
func (m *MockBalanceFetcher) GetBalances(ctx context.Context, address common.Address) (*circuitbreaker.Balances, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getBalancesErr != nil {
		return nil, m.getBalancesErr
	}

	return &circuitbreaker.Balances{USDC: new(big.Int).Set(m.balance)}, nil
}

// SetUSDCBalance sets the USDC balance (in 6-decimal units) returned by GetBalances.
func (m *MockBalanceFetcher) SetUSDCBalance(usdc *big.Int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balance = usdc
}

// SetGetBalancesError sets an error to be returned by GetBalances.
func (m *MockBalanceFetcher) SetGetBalancesError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getBalancesErr = err
}

// ResetErrors clears all error states.
func (m *MockBalanceFetcher) ResetErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getBalancesErr = nil
}

// NewUSDCBigInt is a helper to create a *big.Int representing a USDC amount.
// USDC has 6 decimals, so 1000000 = $1.00.
func NewUSDCBigInt(dollars float64) *big.Int {
	usdcUnits := int64(dollars * 1e6)
	return big.NewInt(usdcUnits)
}
