package session

const (
	ErrContextGetSession    = "failed to load session"
	ErrContextCreateSession = "failed to create session"
	ErrContextRecord        = "failed to record purchase"
	ErrContextCloseIdle     = "failed to close idle sessions"

	LogMsgSessionStarted = "Session started"
	LogMsgLimitReached   = "Session RTP limit reached"
	LogMsgSessionsClosed = "Idle sessions closed"
)
