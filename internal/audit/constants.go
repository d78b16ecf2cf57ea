package audit

// DefaultQueryLimit applies when a query does not set a limit
const DefaultQueryLimit = 50

// Log messages
const (
	LogMsgRecordWritten    = "Draw audit record written"
	LogMsgPrizeBlocked     = "Prize blocked by payout ceiling"
	LogMsgLimitCapped      = "Audit query limit capped"
	LogMsgCleanupFailed    = "Blocked-prize event cleanup failed"
	LogMsgCleanupCompleted = "Blocked-prize event cleanup completed"
)

// Log field keys
const (
	LogFieldDrawID        = "draw_id"
	LogFieldOutcome       = "outcome"
	LogFieldRetentionDays = "retention_days"
	LogFieldDuration      = "duration"
	LogFieldDeletedCount  = "deleted_count"
)

const (
	ErrContextRecord  = "failed to write audit record"
	ErrContextBlocked = "failed to write blocked-prize events"
	ErrContextQuery   = "failed to query audit log"
	ErrContextGet     = "failed to load audit record"
	ErrContextReport  = "failed to build blocked-prize report"
	ErrContextCleanup = "failed to clean up blocked-prize events"
)
