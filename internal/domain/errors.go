package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Case errors
	ErrMsgCaseNotFound         = "case not found"
	ErrMsgCaseInactive         = "case is inactive"
	ErrMsgCaseNoEligiblePrizes = "case has no eligible prizes"

	// User errors
	ErrMsgUserNotFound        = "user not found"
	ErrMsgUserIneligible      = "user is not eligible to draw"
	ErrMsgInsufficientBalance = "insufficient balance"

	// Safety errors
	ErrMsgEmergencyModeActive = "draws are suspended: emergency mode active"
	ErrMsgCashPositionUnsafe  = "payout would drive net cash negative"
	ErrMsgReasonRequired      = "a reason is required"

	// RTP errors
	ErrMsgRTPOutOfBounds    = "rtp target out of bounds"
	ErrMsgRTPConfigNotFound = "rtp config not found"

	// Session errors
	ErrMsgSessionNotFound = "session not found"
	ErrMsgSessionClosed   = "session is closed"
	ErrMsgSessionConflict = "an active session already exists"
	ErrMsgNegativeAmount  = "amount must not be negative"

	// Audit errors
	ErrMsgAuditRecordNotFound = "audit record not found"

	// Database/System errors
	ErrMsgInternal          = "internal error"
	ErrMsgDatabaseError     = "database error"
	ErrMsgConnectionTimeout = "connection timeout"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Case errors
	ErrCaseNotFound         = errors.New(ErrMsgCaseNotFound)
	ErrCaseInactive         = errors.New(ErrMsgCaseInactive)
	ErrCaseNoEligiblePrizes = errors.New(ErrMsgCaseNoEligiblePrizes)

	// User errors
	ErrUserNotFound        = errors.New(ErrMsgUserNotFound)
	ErrUserIneligible      = errors.New(ErrMsgUserIneligible)
	ErrInsufficientBalance = errors.New(ErrMsgInsufficientBalance)

	// Safety errors
	ErrEmergencyModeActive = errors.New(ErrMsgEmergencyModeActive)
	ErrCashPositionUnsafe  = errors.New(ErrMsgCashPositionUnsafe)
	ErrReasonRequired      = errors.New(ErrMsgReasonRequired)

	// RTP errors
	ErrRTPOutOfBounds    = errors.New(ErrMsgRTPOutOfBounds)
	ErrRTPConfigNotFound = errors.New(ErrMsgRTPConfigNotFound)

	// Session errors
	ErrSessionNotFound = errors.New(ErrMsgSessionNotFound)
	ErrSessionClosed   = errors.New(ErrMsgSessionClosed)
	ErrSessionConflict = errors.New(ErrMsgSessionConflict)
	ErrNegativeAmount  = errors.New(ErrMsgNegativeAmount)

	// Audit errors
	ErrAuditRecordNotFound = errors.New(ErrMsgAuditRecordNotFound)

	// System errors
	ErrInternal          = errors.New(ErrMsgInternal)
	ErrDatabaseError     = errors.New(ErrMsgDatabaseError)
	ErrConnectionTimeout = errors.New(ErrMsgConnectionTimeout)

	// Input errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)

// IsRejection reports whether err is a validation or safety failure that must be returned to the
// caller without side effects, as opposed to an infrastructure failure that resolves to the
// minimum-prize fallback.
func IsRejection(err error) bool {
	switch {
	case errors.Is(err, ErrCaseNotFound),
		errors.Is(err, ErrCaseInactive),
		errors.Is(err, ErrCaseNoEligiblePrizes),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrUserIneligible),
		errors.Is(err, ErrInsufficientBalance),
		errors.Is(err, ErrEmergencyModeActive):
		return true
	}
	return false
}
