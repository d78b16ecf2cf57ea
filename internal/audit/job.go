package audit

import (
	"context"
	"time"

	"github.com/osse101/CaseVault_Go/internal/logger"
)

// CleanupJob expires blocked-prize events past their retention. Draw records are untouched.
type CleanupJob struct {
	Service       Service
	RetentionDays int
}

func (j *CleanupJob) Name() string { return "audit_cleanup" }

func (j *CleanupJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx).With(LogFieldRetentionDays, j.RetentionDays)
	start := time.Now()

	count, err := j.Service.CleanupBlockedEvents(ctx, j.RetentionDays)
	if err != nil {
		log.Error(LogMsgCleanupFailed, "error", err, LogFieldDuration, time.Since(start))
		return err
	}
	if count > 0 {
		log.Info(LogMsgCleanupCompleted, LogFieldDeletedCount, count, LogFieldDuration, time.Since(start))
	}
	return nil
}
