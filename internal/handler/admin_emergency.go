package handler

import (
	"net/http"

	"github.com/osse101/CaseVault_Go/internal/domain"
	"github.com/osse101/CaseVault_Go/internal/safety"
)

// EmergencyHandler serves the global draw kill-switch
type EmergencyHandler struct {
	guard safety.Guard
}

func NewEmergencyHandler(guard safety.Guard) *EmergencyHandler {
	return &EmergencyHandler{guard: guard}
}

// EmergencyRequest activates emergency mode
type EmergencyRequest struct {
	Reason string `json:"reason" validate:"required,notblank,max=500"`
}

// EmergencyResponse is the switch state with its recent changes
type EmergencyResponse struct {
	Message string                         `json:"message,omitempty"`
	State   *domain.EmergencyState         `json:"state"`
	History []domain.EmergencyHistoryEntry `json:"history,omitempty"`
}

// HandleGetState returns the switch and its history
// @Summary Emergency mode state
// @Tags admin
// @Produce json
// @Success 200 {object} EmergencyResponse
// @Security BearerAuth
// @Router /api/v1/admin/emergency [get]
func (h *EmergencyHandler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	state, err := h.guard.EmergencyState(r.Context())
	if err != nil {
		respondServiceError(w, r, "Emergency state", err)
		return
	}
	history, err := h.guard.History(r.Context(), DefaultHistoryLimit)
	if err != nil {
		respondServiceError(w, r, "Emergency history", err)
		return
	}
	respondJSON(w, http.StatusOK, EmergencyResponse{State: state, History: history})
}

// HandleActivate suspends all draws
// @Summary Activate emergency mode
// @Tags admin
// @Accept json
// @Produce json
// @Param request body EmergencyRequest true "Reason"
// @Success 200 {object} EmergencyResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/admin/emergency [post]
func (h *EmergencyHandler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	var req EmergencyRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Activate emergency mode"); err != nil {
		return
	}
	state, err := h.guard.Activate(r.Context(), actor(r), req.Reason)
	if err != nil {
		respondServiceError(w, r, "Activate emergency mode", err)
		return
	}
	respondJSON(w, http.StatusOK, EmergencyResponse{Message: MsgEmergencyActivated, State: state})
}

// HandleDeactivate resumes draws
// @Summary Deactivate emergency mode
// @Tags admin
// @Produce json
// @Success 200 {object} EmergencyResponse
// @Security BearerAuth
// @Router /api/v1/admin/emergency [delete]
func (h *EmergencyHandler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	state, err := h.guard.Deactivate(r.Context(), actor(r))
	if err != nil {
		respondServiceError(w, r, "Deactivate emergency mode", err)
		return
	}
	respondJSON(w, http.StatusOK, EmergencyResponse{Message: MsgEmergencyDeactivated, State: state})
}
