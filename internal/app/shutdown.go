package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// shutdownGracePeriod bounds how long Shutdown waits for in-flight
// execution tasks (spec §4.I) before returning regardless.
const shutdownGracePeriod = 10 * time.Second

// Shutdown stops every component in dependency order: it marks the
// process not-ready, stops accepting new stream events, then waits
// (bounded by shutdownGracePeriod) for in-flight execution goroutines
// spawned by handleOpportunity to finish so a partial fill is never
// abandoned mid-unwind.
func (a *App) Shutdown() error {
	a.logger.Info("application-shutting-down")

	a.healthChecker.SetReady(false)
	a.cancel()

	if err := a.dataStream.Close(); err != nil {
		a.logger.Error("data-stream-close-error", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer shutdownCancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http-server-shutdown-error", zap.Error(err))
	}

	if !waitWithTimeout(&a.wg, shutdownGracePeriod) {
		a.logger.Warn("shutdown-grace-period-exceeded", zap.Duration("grace-period", shutdownGracePeriod))
	}

	if err := a.storage.Close(); err != nil {
		a.logger.Error("storage-close-error", zap.Error(err))
	}

	a.logger.Info("application-shutdown-complete")
	return nil
}

// waitWithTimeout waits for wg with a deadline, returning false if the
// deadline elapsed first.
func waitWithTimeout(wg *sync.WaitGroup, timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
