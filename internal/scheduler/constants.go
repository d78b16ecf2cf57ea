package scheduler

const (
	LogMsgTickSkipped     = "Scheduled job skipped: worker queue full"
	LogMsgInvalidInterval = "Scheduled job ignored: interval must be positive"
)
