package safety

// Rejection reasons, also used as the guard_rejections metric label
const (
	ReasonEmergency           = "emergency_mode"
	ReasonUserMissing         = "user_not_found"
	ReasonUserInactive        = "user_inactive"
	ReasonUserBanned          = "user_banned"
	ReasonNegativeBalance     = "negative_balance"
	ReasonInsufficientBalance = "insufficient_balance"
	ReasonCaseMissing         = "case_not_found"
	ReasonCaseInactive        = "case_inactive"
	ReasonNoEligiblePrizes    = "no_eligible_prizes"
	ReasonWeightsNotNormal    = "weights_not_normalized"
	ReasonPayoutUnsafe        = "cash_position_unsafe"
)

const (
	emergencyKey = "emergency"

	// SecurityAlertRejected prefixes guard rejections in the log
	SecurityAlertRejected     = "⚠️ SECURITY: draw rejected by safety guard"
	SecurityAlertEmergencyOn  = "⚠️ SECURITY ALERT: emergency mode activated"
	SecurityAlertEmergencyOff = "⚠️ SECURITY: emergency mode deactivated"
)

const (
	ErrContextGetEmergency = "failed to load emergency state"
	ErrContextSetEmergency = "failed to change emergency state"
	ErrContextGetHistory   = "failed to load emergency history"

	LogMsgEmergencyUnreadable = "Emergency state unreadable, suspending draws"
	LogMsgWeightsNotNormal    = "Case prize weights do not sum to 1"
	LogMsgEmergencyNoop       = "Emergency mode already in requested state"
)
