package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/CaseVault_Go/internal/database"
	"github.com/osse101/CaseVault_Go/internal/scheduler"
	"github.com/osse101/CaseVault_Go/internal/server"
	"github.com/osse101/CaseVault_Go/internal/sse"
	"github.com/osse101/CaseVault_Go/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
// Nil fields are skipped; memory storage has no DBPool.
type ShutdownComponents struct {
	Feed       *sse.Hub
	Server     *server.Server
	Scheduler  *scheduler.Scheduler
	WorkerPool *worker.Pool
	DBPool     database.Pool
}

// GracefulShutdown performs graceful shutdown of all application components.
// It shuts down in dependency order:
// 1. Live feed (open streams end, otherwise the server waits on them)
// 2. HTTP server (stop accepting draws, finish in-flight ones)
// 3. Scheduler (no new jobs)
// 4. Worker pool (cancel running jobs)
// 5. Database pool
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	if components.Feed != nil {
		components.Feed.Stop()
	}

	slog.Info(LogMsgShuttingDownServer)
	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if components.Scheduler != nil {
		slog.Info(LogMsgStoppingScheduler)
		components.Scheduler.Stop()
	}

	if components.WorkerPool != nil {
		slog.Info(LogMsgStoppingWorkerPool)
		done := make(chan struct{})
		go func() {
			components.WorkerPool.Stop()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			slog.Warn(LogMsgShutdownStepTimedOut, "step", "worker_pool")
		}
	}

	if components.DBPool != nil {
		slog.Info(LogMsgClosingDatabase)
		components.DBPool.Close()
	}

	slog.Info(LogMsgServerStopped)
}
