// Package app wires every component spec.md §4.B-§4.K names into the
// orchestrator (spec §4.I): the event loop that drives the reconnecting
// data stream, runs detection strategies, gates opportunities through
// risk and slippage checks, and dispatches execution.
package app

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/arbengine/predictarb/internal/arbitrage"
	"github.com/arbengine/predictarb/internal/execution"
	"github.com/arbengine/predictarb/internal/markets"
	"github.com/arbengine/predictarb/internal/notify"
	"github.com/arbengine/predictarb/internal/orderbook"
	"github.com/arbengine/predictarb/internal/relations"
	"github.com/arbengine/predictarb/internal/risk"
	"github.com/arbengine/predictarb/internal/status"
	"github.com/arbengine/predictarb/internal/storage"
	"github.com/arbengine/predictarb/pkg/config"
	"github.com/arbengine/predictarb/pkg/healthprobe"
	"github.com/arbengine/predictarb/pkg/httpserver"
	"github.com/arbengine/predictarb/pkg/stream"
)

// App is the main application orchestrator.
type App struct {
	cfg    *config.Config
	logger *zap.Logger

	healthChecker *healthprobe.HealthChecker
	httpServer    *httpserver.Server

	dataStream stream.DataStream
	cache      *orderbook.Cache
	registry   *markets.Registry
	clusters   *relations.ClusterStore
	relations  *relations.Store
	detectors  *arbitrage.Registry

	riskManager *risk.Manager
	ledger      *risk.Ledger
	breaker     risk.CircuitBreaker
	executor    *execution.Executor
	maxSlippage decimal.Decimal

	notifier  *notify.Registry
	recorder  *status.Recorder
	publisher *status.Publisher
	storage   storage.Storage

	locks *executionLocks

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Options holds application options.
type Options struct {
	// SingleMarket, if set, restricts market seeding to one market id
	// (for debugging).
	SingleMarket string
}
