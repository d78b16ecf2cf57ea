package bootstrap

import (
	"log/slog"

	"github.com/osse101/CaseVault_Go/internal/audit"
	"github.com/osse101/CaseVault_Go/internal/config"
	"github.com/osse101/CaseVault_Go/internal/ledger"
	"github.com/osse101/CaseVault_Go/internal/rtp"
	"github.com/osse101/CaseVault_Go/internal/scheduler"
	"github.com/osse101/CaseVault_Go/internal/session"
	"github.com/osse101/CaseVault_Go/internal/worker"
)

// StartBackgroundJobs starts the worker pool and schedules the maintenance jobs on it.
// The RTP recommendation job only stores a recommendation; applying it stays an operator action.
func StartBackgroundJobs(svc *Services, engine config.EngineConfig) (*worker.Pool, *scheduler.Scheduler) {
	pool := worker.NewPool(engine.Workers.Count, engine.Workers.QueueSize, engine.Workers.JobTimeout)
	pool.Start()

	sched := scheduler.New(pool)
	sched.Schedule(engine.Session.SweepInterval, &session.SweepJob{Tracker: svc.Sessions, Idle: engine.Session.IdleWindow})
	sched.Schedule(engine.Audit.CleanupInterval, &audit.CleanupJob{Service: svc.Audit, RetentionDays: engine.Audit.BlockedRetentionDays})
	sched.Schedule(engine.Ledger.CashGaugeInterval, &ledger.CashGaugeJob{Reader: svc.Cash}, scheduler.RunAtStart())
	sched.Schedule(engine.RTP.RecommendEvery, &rtp.RecommendJob{Service: svc.RTP})

	slog.Info(LogMsgBackgroundJobsStarted,
		"workers", engine.Workers.Count,
		"session_sweep", engine.Session.SweepInterval,
		"audit_cleanup", engine.Audit.CleanupInterval,
		"cash_gauge", engine.Ledger.CashGaugeInterval,
		"rtp_recommend", engine.RTP.RecommendEvery)
	return pool, sched
}
