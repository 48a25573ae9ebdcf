package worker

import (
	"context"
	"time"

	"github.com/gbax/gbax-core/internal/effect"
	"github.com/gbax/gbax-core/internal/logger"
	"github.com/gbax/gbax-core/internal/operation"
	"github.com/gbax/gbax-core/internal/progress"
)

// NewTickJob advances the operation registry by one tick interval.
func NewTickJob(registry operation.Registry, interval time.Duration) Job {
	return JobFunc(func(ctx context.Context) error {
		registry.Tick(ctx, interval)
		return nil
	})
}

// NewSweepJob expires lapsed effects.
func NewSweepJob(effects effect.Ledger) Job {
	return JobFunc(func(ctx context.Context) error {
		effects.SweepExpired(ctx)
		return nil
	})
}

// NewSyncJob pushes every known player's progress to the remote ledger.
// Failures are already absorbed by the synchronizer.
func NewSyncJob(sync *progress.Synchronizer) Job {
	return JobFunc(func(ctx context.Context) error {
		players := sync.Known()
		for _, id := range players {
			sync.SyncNow(ctx, id)
		}
		if len(players) > 0 {
			logger.FromContext(ctx).Debug(LogMsgSyncSweep, "players", len(players))
		}
		return nil
	})
}
