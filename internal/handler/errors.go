package handler

import "errors"

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Query and path parameter error messages
	ErrMsgInvalidParam = "Invalid %s parameter"
)

// errValidation is returned by DecodeAndValidateRequest after it has written the field errors
var errValidation = errors.New("request failed validation")

// Success messages
const (
	MsgEmergencyActivated   = "Emergency mode activated"
	MsgEmergencyDeactivated = "Emergency mode deactivated"
)

// Log messages
const (
	LogMsgDecodeFailed     = "Failed to decode request"
	LogMsgRequestDecoded   = "Request decoded"
	LogMsgValidationFailed = "Request failed validation"
	LogMsgServiceError     = "Service call failed"
	LogMsgReadyzFailed     = "Readiness check failed"

	LogMsgReadyzEmergencyUnknown = "Readiness check could not read emergency state"
	LogMsgEncodeFailed           = "Failed to encode JSON response"
	LogMsgWriteFailed            = "Failed to write response buffer"
)

// Query parameter names
const (
	ParamLimit          = "limit"
	ParamOffset         = "offset"
	ParamSince          = "since"
	ParamUntil          = "until"
	ParamUserID         = "user_id"
	ParamCaseID         = "case_id"
	ParamOutcome        = "outcome"
	ParamProtectionOnly = "protection_only"
	ParamID             = "id"
)

// Defaults for list endpoints
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 200
)
