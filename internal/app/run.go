package app

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/arbengine/predictarb/internal/arbitrage"
	"github.com/arbengine/predictarb/internal/notify"
	"github.com/arbengine/predictarb/internal/risk"
	"github.com/arbengine/predictarb/pkg/ids"
	"github.com/arbengine/predictarb/pkg/stream"
	"github.com/arbengine/predictarb/pkg/types"
)

// Run starts every component and blocks until shutdown (spec §4.I).
func (a *App) Run() error {
	a.logger.Info("application-starting",
		zap.String("exchange", a.cfg.Exchange),
		zap.Bool("dry-run", a.cfg.DryRun))

	if err := a.startComponents(); err != nil {
		return err
	}

	a.healthChecker.SetReady(true)
	a.logger.Info("application-ready", zap.String("http-addr", ":"+a.cfg.HTTPPort))

	return a.waitForShutdown()
}

func (a *App) startComponents() error {
	a.wg.Add(1)
	go a.runHTTPServer()

	a.wg.Add(1)
	go a.runPublisher()

	if err := a.dataStream.Connect(a.ctx); err != nil {
		return err
	}

	tokens := a.registry.AllTokenIDs()
	if err := a.dataStream.Subscribe(a.ctx, tokens); err != nil {
		return err
	}

	a.wg.Add(1)
	go a.runEventLoop()

	return nil
}

func (a *App) runHTTPServer() {
	defer a.wg.Done()
	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http-server-error", zap.Error(err))
	}
}

func (a *App) runPublisher() {
	defer a.wg.Done()
	a.publisher.Run(a.ctx)
}

// runEventLoop is the orchestrator's main pull loop (spec §4.I): pull the
// next market event, fold it into the shared order-book cache, and run
// detection for any market that subscribes to the token that changed.
func (a *App) runEventLoop() {
	defer a.wg.Done()

	for {
		event, ok := a.dataStream.NextEvent(a.ctx)
		if !ok {
			return
		}

		switch event.Kind {
		case stream.BookSnapshot, stream.BookDelta:
			a.cache.Update(event.Book)
			a.onBookChanged(event.TokenID)
		case stream.Connected:
			a.logger.Info("stream-connected")
		}
	}
}

func (a *App) onBookChanged(token ids.TokenID) {
	market, ok := a.registry.GetByToken(token)
	if !ok {
		return
	}

	detectCtx := arbitrage.DetectionContext{
		Market:    market,
		Cache:     a.cache,
		Registry:  a.registry,
		Clusters:  a.clusters,
		Relations: a.relations,
	}

	start := time.Now()
	opportunities := a.detectors.DetectAll(detectCtx)
	a.recorder.RecordLatency("detect", time.Since(start))

	for _, opp := range opportunities {
		a.recorder.OpportunityDetected()
		a.persistOpportunity(opp)
		a.handleOpportunity(opp)
	}
}

// persistOpportunity records the detection to the audit/analytics side
// channel (spec §6). A storage failure is logged and otherwise ignored:
// persistence is never load-bearing for detection or execution.
func (a *App) persistOpportunity(opp types.Opportunity) {
	if err := a.storage.StoreOpportunity(a.ctx, &opp); err != nil {
		a.logger.Warn("opportunity-persist-failed",
			zap.String("opportunity-id", opp.ID),
			zap.Error(err))
	}
}

// handleOpportunity implements spec §4.I's handle_opportunity pseudocode:
// try-lock the market, gate on slippage then risk, and either execute
// (dry-run just logs) or drop with a RiskRejected notification. The lock
// is released on every exit path, including from the execution goroutine
// it may spawn.
func (a *App) handleOpportunity(opp types.Opportunity) {
	if !a.locks.tryLock(opp.MarketID) {
		return
	}

	slippage := risk.CheckSlippage(opp, a.cache, a.maxSlippage)
	if !slippage.Approved {
		a.notifier.NotifyAll(notify.RiskRejected(slippage.Reason))
		a.recorder.Rejected(string(slippage.Reason))
		a.locks.release(opp.MarketID)
		return
	}

	a.notifier.NotifyAll(notify.OpportunityDetected(opp))

	result := a.riskManager.Check(opp)
	if !result.Approved {
		a.notifier.NotifyAll(notify.RiskRejected(result.Reason))
		a.recorder.Rejected(string(result.Reason))
		a.locks.release(opp.MarketID)
		return
	}

	if a.cfg.DryRun || a.executor == nil {
		a.logger.Info("opportunity-approved-dry-run",
			zap.String("opportunity-id", opp.ID),
			zap.String("market-id", string(opp.MarketID)))
		a.locks.release(opp.MarketID)
		return
	}

	a.wg.Add(1)
	go a.execute(opp)
}

func (a *App) execute(opp types.Opportunity) {
	defer a.wg.Done()
	defer a.locks.release(opp.MarketID)

	start := time.Now()
	result := a.executor.Execute(a.ctx, opp)
	a.recorder.RecordLatency("execute", time.Since(start))
	a.recorder.ExecutionCompleted(result.Status == types.ExecutionSuccess)

	a.notifier.NotifyAll(notify.ExecutionCompleted(result))

	if result.Status != types.ExecutionSuccess {
		a.logger.Warn("execution-not-fully-filled",
			zap.String("opportunity-id", opp.ID),
			zap.String("status", string(result.Status)))
	}
}

func (a *App) waitForShutdown() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		a.logger.Info("shutdown-signal-received", zap.String("signal", sig.String()))
	case <-a.ctx.Done():
		a.logger.Info("context-cancelled")
	}

	return a.Shutdown()
}
