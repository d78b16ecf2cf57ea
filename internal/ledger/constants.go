package ledger

const (
	ErrContextCashPosition   = "failed to read cash position"
	ErrContextCashFlow       = "failed to read cash flow"
	ErrContextCountDraws     = "failed to count draws"
	ErrContextLockCash       = "failed to lock cash position"
	ErrContextLockAccount    = "failed to lock account"
	ErrContextInsertMovement = "failed to record money movements"
	ErrContextUpdateBalance  = "failed to update balance"

	LogMsgSettled        = "Draw settled"
	LogMsgCreditReduced  = "Prize credit reduced by cash recheck"
	LogMsgCashGaugeReset = "Cash position gauge refreshed"
	LogMsgBadCurrency    = "Unknown currency code, falling back to EUR"

	// DefaultCurrency is used when the configured code is not ISO 4217
	DefaultCurrency = "EUR"

	// Stats windows
	window24h = 24
	window7d  = 7 * 24
	window30d = 30 * 24
)
