package status

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Publisher writes a Recorder snapshot to disk on a fixed interval until
// its context is canceled.
type Publisher struct {
	recorder      *Recorder
	path          string
	interval      time.Duration
	positionsOpen func() int
	logger        *zap.Logger
}

// NewPublisher builds a Publisher. positionsOpen is queried fresh on
// every tick (typically internal/risk.Ledger.Len).
func NewPublisher(recorder *Recorder, path string, interval time.Duration, positionsOpen func() int, logger *zap.Logger) *Publisher {
	return &Publisher{recorder: recorder, path: path, interval: interval, positionsOpen: positionsOpen, logger: logger}
}

// Run blocks, publishing snapshots until ctx is done.
func (p *Publisher) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap := p.recorder.Snapshot(p.positionsOpen())
			if err := WriteSnapshot(p.path, snap); err != nil {
				p.logger.Warn("status-snapshot-write-failed", zap.Error(err))
			}
		}
	}
}
