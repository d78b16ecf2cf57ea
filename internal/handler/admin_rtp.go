package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/osse101/CaseVault_Go/internal/domain"
	"github.com/osse101/CaseVault_Go/internal/rtp"
)

// RTPHandler serves the payout-ratio admin endpoints
type RTPHandler struct {
	service rtp.Service
}

func NewRTPHandler(service rtp.Service) *RTPHandler {
	return &RTPHandler{service: service}
}

// RTPConfigResponse renders the ratios as percentages next to the stored basis points
type RTPConfigResponse struct {
	*domain.RTPConfig
	TargetPercent      string  `json:"target_percent"`
	RecommendedPercent *string `json:"recommended_percent,omitempty"`
}

func newRTPConfigResponse(cfg *domain.RTPConfig) RTPConfigResponse {
	out := RTPConfigResponse{RTPConfig: cfg, TargetPercent: cfg.TargetRatio.Percent().StringFixed(2)}
	if cfg.RecommendedRatio != nil {
		p := cfg.RecommendedRatio.Percent().StringFixed(2)
		out.RecommendedPercent = &p
	}
	return out
}

// SetRTPTargetRequest changes the target. TargetPercent accepts a JSON number or string.
type SetRTPTargetRequest struct {
	TargetPercent *decimal.Decimal `json:"target_percent" validate:"required"`
	Reason        string           `json:"reason" validate:"required,notblank,max=500"`
}

// HandleGetConfig returns the current RTP configuration
// @Summary Get RTP configuration
// @Tags admin
// @Produce json
// @Success 200 {object} RTPConfigResponse
// @Security BearerAuth
// @Router /api/v1/admin/rtp [get]
func (h *RTPHandler) HandleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.service.GetConfig(r.Context())
	if err != nil {
		respondServiceError(w, r, "Get RTP config", err)
		return
	}
	respondJSON(w, http.StatusOK, newRTPConfigResponse(cfg))
}

// HandleSetTarget changes the RTP target and records the change in history
// @Summary Set RTP target
// @Tags admin
// @Accept json
// @Produce json
// @Param request body SetRTPTargetRequest true "New target"
// @Success 200 {object} RTPConfigResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/admin/rtp [put]
func (h *RTPHandler) HandleSetTarget(w http.ResponseWriter, r *http.Request) {
	var req SetRTPTargetRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Set RTP target"); err != nil {
		return
	}

	cfg, err := h.service.SetTarget(r.Context(), domain.RatioFromPercent(*req.TargetPercent), actor(r), req.Reason)
	if err != nil {
		respondServiceError(w, r, "Set RTP target", err)
		return
	}
	respondJSON(w, http.StatusOK, newRTPConfigResponse(cfg))
}

// HandleHistory lists target changes, newest first
// @Summary RTP change history
// @Tags admin
// @Produce json
// @Param limit query int false "Max entries" default(20)
// @Success 200 {array} domain.RTPHistoryEntry
// @Security BearerAuth
// @Router /api/v1/admin/rtp/history [get]
func (h *RTPHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, ParamLimit, DefaultHistoryLimit)
	if !ok {
		return
	}
	history, err := h.service.History(r.Context(), min(max(limit, 1), MaxHistoryLimit))
	if err != nil {
		respondServiceError(w, r, "RTP history", err)
		return
	}
	respondJSON(w, http.StatusOK, history)
}

// HandleGetRecommendation computes a recommended target from the cash position
// @Summary Get RTP recommendation
// @Tags admin
// @Produce json
// @Success 200 {object} domain.RTPRecommendation
// @Security BearerAuth
// @Router /api/v1/admin/rtp/recommendation [get]
func (h *RTPHandler) HandleGetRecommendation(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.Recommend(r.Context())
	if err != nil {
		respondServiceError(w, r, "RTP recommendation", err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// HandleApplyRecommendation makes the pending recommendation the target, computing one if none
// is pending
// @Summary Apply RTP recommendation
// @Tags admin
// @Produce json
// @Success 200 {object} RTPConfigResponse
// @Security BearerAuth
// @Router /api/v1/admin/rtp/recommendation/apply [post]
func (h *RTPHandler) HandleApplyRecommendation(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.service.ApplyRecommendation(r.Context(), actor(r))
	if err != nil {
		respondServiceError(w, r, "Apply RTP recommendation", err)
		return
	}
	respondJSON(w, http.StatusOK, newRTPConfigResponse(cfg))
}
