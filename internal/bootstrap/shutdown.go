package bootstrap

import (
	"context"
	"log/slog"

	"github.com/gbax/gbax-core/internal/event"
	"github.com/gbax/gbax-core/internal/progress"
	"github.com/gbax/gbax-core/internal/scheduler"
	"github.com/gbax/gbax-core/internal/server"
	"github.com/gbax/gbax-core/internal/sse"
	"github.com/gbax/gbax-core/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server             *server.Server
	Scheduler          *scheduler.Scheduler
	WorkerPool         *worker.Pool
	Synchronizer       *progress.Synchronizer
	SSEHub             *sse.Hub
	ResilientPublisher *event.ResilientPublisher
}

// GracefulShutdown stops components in dependency order:
//  1. HTTP server (stop accepting new requests)
//  2. Scheduler and worker pool (no new periodic work)
//  3. Synchronizer (final progress flush to the remote ledger)
//  4. SSE hub (drop stream clients)
//  5. Event publisher (flush pending retries)
//
// Errors during shutdown are logged but do not stop the sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if err := components.Server.Stop(ctx); err != nil {
		slog.Error(LogMsgServerForcedShutdown, "error", err)
	}

	if components.Scheduler != nil {
		components.Scheduler.Stop()
	}
	if components.WorkerPool != nil {
		components.WorkerPool.Stop()
	}

	if components.Synchronizer != nil {
		if err := components.Synchronizer.Close(ctx); err != nil {
			slog.Error(LogMsgSynchronizerFlushFailed, "error", err)
		}
	}

	if components.SSEHub != nil {
		components.SSEHub.Stop()
	}

	slog.Info(LogMsgShuttingDownEventPublisher)
	if err := components.ResilientPublisher.Shutdown(ctx); err != nil {
		slog.Error(LogMsgResilientPublisherFailed, "error", err)
	}

	slog.Info(LogMsgServerStopped)
}
