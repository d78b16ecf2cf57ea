package draw

const (
	ErrContextLoadCase    = "failed to load case"
	ErrContextLoadAccount = "failed to load account"
	ErrContextReadState   = "failed to read cash position and rtp target"
	ErrContextSettle      = "failed to settle draw"
	ErrContextFallback    = "failed to settle minimum prize"
	ErrContextLock        = "failed to acquire draw lock"
	ErrContextPanic       = "draw panicked"
)

// Log messages
const (
	LogMsgDrawRejected     = "Draw rejected"
	LogMsgDrawCompleted    = "Draw completed"
	LogMsgDrawDegraded     = "Draw failed, settling minimum prize"
	LogMsgDrawPanicked     = "Draw panicked"
	LogMsgFallbackFailed   = "Minimum prize settlement failed, nothing was debited"
	LogMsgPayoutReduced    = "Payout reduced by cash recheck"
	LogMsgPrizeClamped     = "Prize clamped to ceiling"
	LogMsgNoAdmissible     = "No admissible prize, awarding minimum prize"
	LogMsgSessionLimited   = "Session RTP limit reached, awarding minimum prize"
	LogMsgAuditWriteFailed = "Failed to write draw audit record"
)

// lockKeyFormat serializes draws of one user on one case within this process
const lockKeyFormat = "draw:%s:%d"
