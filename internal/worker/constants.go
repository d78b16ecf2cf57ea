package worker

// Log messages for worker pool operations
const (
	LogMsgWorkerJobFailed    = "Worker job failed"
	LogMsgWorkerJobPanicked  = "Worker job panicked"
	LogMsgWorkerJobCompleted = "Worker job completed"
)
