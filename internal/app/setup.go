package app

import (
	"context"
	"fmt"
	"os"

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
	"github.com/arbengine/predictarb/pkg/cache"
	"github.com/arbengine/predictarb/pkg/config"
	"github.com/arbengine/predictarb/pkg/healthprobe"
	"github.com/arbengine/predictarb/pkg/httpserver"
	"github.com/arbengine/predictarb/pkg/stream"
	"github.com/arbengine/predictarb/pkg/types"
)

// New creates a new application instance.
func New(cfg *config.Config, logger *zap.Logger, opts *Options) (*App, error) {
	if opts == nil {
		opts = &Options{}
	}

	ctx, cancel := context.WithCancel(context.Background())

	healthChecker := healthprobe.New()

	obCache := orderbook.New(logger)
	registry := markets.New(logger)
	if err := seedMarkets(registry, cfg, opts); err != nil {
		cancel()
		return nil, fmt.Errorf("seed markets: %w", err)
	}

	hotCache, err := setupHotCache(logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup relation cache: %w", err)
	}

	healthChecker.RegisterCheck("markets_registered", healthprobe.CriticalityRequired, func() bool {
		return registry.Len() > 0
	})

	clusterStore := relations.NewClusterStore(nil, logger)
	relationStore := relations.New(hotCache, nil, logger)

	detectors := setupStrategyRegistry(cfg, logger)

	ledger := risk.NewLedger()
	breaker := setupCircuitBreaker(ctx, cfg, logger)
	riskManager := risk.NewManager(riskLimits(cfg), breaker, ledger, logger)

	executor, err := setupExecutor(cfg, logger, ledger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup executor: %w", err)
	}

	notifier := notify.NewRegistry(logger, notify.NewLogNotifier(logger))

	recorder := status.NewRecorder(0)
	publisher := status.NewPublisher(recorder, cfg.StatusSnapshotPath, cfg.StatusPublishInterval, ledger.Len, logger)

	httpServer := httpserver.New(&httpserver.Config{
		Port:               cfg.HTTPPort,
		Logger:             logger,
		HealthChecker:      healthChecker,
		StatusSnapshotPath: cfg.StatusSnapshotPath,
	})

	dataStream := setupDataStream(cfg, logger)

	persistence, err := setupStorage(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup storage: %w", err)
	}

	return &App{
		cfg:           cfg,
		logger:        logger,
		healthChecker: healthChecker,
		httpServer:    httpServer,
		dataStream:    dataStream,
		cache:         obCache,
		registry:      registry,
		clusters:      clusterStore,
		relations:     relationStore,
		detectors:     detectors,
		riskManager:   riskManager,
		ledger:        ledger,
		breaker:       breaker,
		executor:      executor,
		maxSlippage:   decimal.NewFromFloat(cfg.RiskMaxSlippage),
		notifier:      notifier,
		recorder:      recorder,
		publisher:     publisher,
		storage:       persistence,
		locks:         newExecutionLocks(),
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

func seedMarkets(registry *markets.Registry, cfg *config.Config, opts *Options) error {
	if cfg.MarketsFile == "" {
		return nil
	}
	seeded, err := loadMarketsFile(cfg.MarketsFile, opts.SingleMarket)
	if err != nil {
		return err
	}
	for _, m := range seeded {
		registry.Add(m)
	}
	return nil
}

func setupHotCache(logger *zap.Logger) (cache.Cache, error) {
	return cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: 10000,
		MaxCost:     1000,
		BufferItems: 64,
		Logger:      logger,
	})
}

func setupStrategyRegistry(cfg *config.Config, logger *zap.Logger) *arbitrage.Registry {
	sCfg := arbitrage.Config{
		MinEdge:   types.NewPrice(decimal.NewFromFloat(cfg.StrategyMinEdge)),
		MinProfit: types.NewVolume(decimal.NewFromFloat(cfg.StrategyMinProfit)),
		MinSize:   types.NewVolume(decimal.NewFromFloat(cfg.StrategyMinSize)),
		Cap:       types.NewVolume(decimal.NewFromFloat(cfg.StrategyCap)),
		Combinatorial: arbitrage.CombinatorialConfig{
			MaxClusterSize: cfg.CombinatorialMaxClusterSize,
			MaxIterations:  cfg.CombinatorialMaxIterations,
			GapTolerance:   cfg.CombinatorialGapTolerance,
		},
	}

	var strategies []arbitrage.Strategy
	for _, name := range cfg.StrategiesEnabled {
		switch name {
		case "single_condition":
			strategies = append(strategies, arbitrage.NewSingleCondition(sCfg))
		case "market_rebalancing":
			strategies = append(strategies, arbitrage.NewMarketRebalancing(sCfg))
		case "combinatorial":
			strategies = append(strategies, arbitrage.NewCombinatorial(sCfg, logger))
		}
	}

	return arbitrage.NewRegistry(logger, strategies...)
}

func riskLimits(cfg *config.Config) types.RiskLimits {
	return types.RiskLimits{
		MaxPositionPerMarket: decimal.NewFromFloat(cfg.RiskMaxPositionPerMarket),
		MaxTotalExposure:     decimal.NewFromFloat(cfg.RiskMaxTotalExposure),
		MinProfitThreshold:   decimal.NewFromFloat(cfg.RiskMinProfitThreshold),
		MaxSlippage:          decimal.NewFromFloat(cfg.RiskMaxSlippage),
	}
}

// setupCircuitBreaker always returns alwaysEnabledBreaker and never
// builds the on-chain balance circuit breaker; when the feature is
// enabled in configuration it only logs a warning. Wallet/approval flows
// are scoped out of the core (spec.md §1), so this workspace has no
// BalanceFetcher implementation to hand circuitbreaker.New: trading is
// never tripped by balance, matching the teacher's own
// "circuit-breaker-disabled" fallback when no wallet client is configured.
func setupCircuitBreaker(ctx context.Context, cfg *config.Config, logger *zap.Logger) risk.CircuitBreaker {
	_ = ctx
	if cfg.CircuitBreakerEnabled {
		logger.Warn("circuit-breaker-disabled-no-wallet-client")
	}
	return alwaysEnabledBreaker{}
}

func setupExecutor(cfg *config.Config, logger *zap.Logger, ledger *risk.Ledger) (*execution.Executor, error) {
	if cfg.DryRun {
		logger.Info("executor-disabled-dry-run-mode")
		return nil, nil
	}

	privateKey := os.Getenv("POLYMARKET_PRIVATE_KEY")
	if privateKey == "" {
		logger.Info("executor-disabled-no-private-key")
		return nil, nil
	}

	gateway, err := execution.NewGateway(execution.GatewayConfig{
		Exchange: cfg.Exchange,
		Polymarket: &execution.OrderClientConfig{
			APIKey:     cfg.PolymarketAPIKey,
			Secret:     cfg.PolymarketSecret,
			Passphrase: cfg.PolymarketPassphrase,
			PrivateKey: privateKey,
			Logger:     logger,
		},
		TickSize: 0.01,
	})
	if err != nil {
		return nil, fmt.Errorf("build gateway: %w", err)
	}

	return execution.NewExecutor(gateway, ledger, logger), nil
}

// setupStorage builds the opportunity-persistence side channel (spec §6
// "Persistence (collaborator)"). Postgres backs it when configured;
// otherwise opportunities are pretty-printed to console. Either way,
// persistence failures are logged but never gate detection or execution.
func setupStorage(cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	if cfg.StorageMode != "postgres" {
		return storage.NewConsoleStorage(logger), nil
	}

	return storage.NewPostgresStorage(&storage.PostgresConfig{
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		User:     cfg.PostgresUser,
		Password: cfg.PostgresPass,
		Database: cfg.PostgresDB,
		SSLMode:  cfg.PostgresSSL,
		Logger:   logger,
	})
}

func setupDataStream(cfg *config.Config, logger *zap.Logger) *stream.Reconnecting {
	connect := func(ctx context.Context) (stream.DataStream, error) {
		s := stream.NewCLOBStream(stream.CLOBConfig{
			URL:         cfg.PolymarketWSURL,
			DialTimeout: cfg.WSDialTimeout,
			PongTimeout: cfg.WSPongTimeout,
			Logger:      logger,
		})
		if err := s.Connect(ctx); err != nil {
			return nil, err
		}
		return s, nil
	}

	return stream.NewReconnecting(connect, stream.ReconnectingConfig{
		Backoff: stream.BackoffConfig{
			InitialDelay:      cfg.WSReconnectInitialDelay,
			MaxDelay:          cfg.WSReconnectMaxDelay,
			BackoffMultiplier: cfg.WSReconnectBackoffMult,
			JitterPercent:     0.2,
		},
		FailureThreshold: cfg.ReconnectMaxConsecutiveFailures,
		Cooldown:         cfg.ReconnectCircuitBreakerCooldown,
	}, logger)
}
