package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/osse101/CaseVault_Go/internal/domain"
	"github.com/osse101/CaseVault_Go/internal/logger"
)

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
}

// bufferPool reuses encoding buffers across responses
var bufferPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, 512))
	},
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload any) {
	buf := bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		bufferPool.Put(buf)
	}()

	// Encode first so an encoding failure can still produce a 500
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error(LogMsgEncodeFailed, "error", err)
		http.Error(w, ErrMsgGenericServerError, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error(LogMsgWriteFailed, "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs err and sends the mapped status and user message
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	status, msg := mapServiceErrorToUserMessage(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(LogMsgServiceError, "operation", opName, "error", err)
	} else {
		log.Warn(LogMsgServiceError, "operation", opName, "error", err)
	}
	respondError(w, status, msg)
}

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnavailableError   = "Draws are temporarily suspended. Please try again later."

	ErrMsgCaseNotFoundError      = "Case not found"
	ErrMsgCaseInactiveError      = "Case is not available"
	ErrMsgCaseNoPrizesError      = "Case has no prizes that can be drawn"
	ErrMsgUserNotFoundError      = "User not found"
	ErrMsgUserIneligibleError    = "User is not allowed to open cases"
	ErrMsgInsufficientBalanceErr = "Not enough balance to open this case"

	ErrMsgRTPOutOfBoundsError  = "RTP target is outside the allowed range"
	ErrMsgReasonRequiredError  = "A reason is required"
	ErrMsgInvalidInputError    = "Invalid request. Please check your inputs."
	ErrMsgAuditNotFoundError   = "Audit record not found"
	ErrMsgRTPConfigMissingErr  = "RTP configuration is missing"
	ErrMsgSessionConflictError = "Request conflicted with a concurrent draw. Please retry."
)

// mapServiceErrorToUserMessage maps domain errors to HTTP status codes and messages users can
// act on. Unknown errors never leak their text.
func mapServiceErrorToUserMessage(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, ErrMsgGenericServerError
	case errors.Is(err, domain.ErrEmergencyModeActive):
		return http.StatusServiceUnavailable, ErrMsgUnavailableError
	case errors.Is(err, domain.ErrCaseNotFound):
		return http.StatusNotFound, ErrMsgCaseNotFoundError
	case errors.Is(err, domain.ErrCaseInactive):
		return http.StatusConflict, ErrMsgCaseInactiveError
	case errors.Is(err, domain.ErrCaseNoEligiblePrizes):
		return http.StatusConflict, ErrMsgCaseNoPrizesError
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, ErrMsgUserNotFoundError
	case errors.Is(err, domain.ErrUserIneligible):
		return http.StatusForbidden, ErrMsgUserIneligibleError
	case errors.Is(err, domain.ErrInsufficientBalance):
		return http.StatusPaymentRequired, ErrMsgInsufficientBalanceErr
	case errors.Is(err, domain.ErrRTPOutOfBounds):
		return http.StatusBadRequest, ErrMsgRTPOutOfBoundsError
	case errors.Is(err, domain.ErrReasonRequired):
		return http.StatusBadRequest, ErrMsgReasonRequiredError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidInputError
	case errors.Is(err, domain.ErrAuditRecordNotFound):
		return http.StatusNotFound, ErrMsgAuditNotFoundError
	case errors.Is(err, domain.ErrRTPConfigNotFound):
		return http.StatusInternalServerError, ErrMsgRTPConfigMissingErr
	case errors.Is(err, domain.ErrSessionConflict):
		return http.StatusConflict, ErrMsgSessionConflictError
	}
	return http.StatusInternalServerError, ErrMsgGenericServerError
}
