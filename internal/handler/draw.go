package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/osse101/CaseVault_Go/internal/domain"
	"github.com/osse101/CaseVault_Go/internal/draw"
)

// DrawHandler serves case openings
type DrawHandler struct {
	service draw.Service
}

func NewDrawHandler(service draw.Service) *DrawHandler {
	return &DrawHandler{service: service}
}

// DrawRequest opens one case for one user
type DrawRequest struct {
	CaseID int64  `json:"case_id" validate:"required,gt=0"`
	UserID string `json:"user_id" validate:"required,uuid"`
}

// DrawResponse is the draw result plus major-unit renderings of the amounts
type DrawResponse struct {
	*domain.DrawResult
	PrizeValueFormatted   string `json:"prize_value_formatted"`
	BalanceAfterFormatted string `json:"balance_after_formatted"`
}

// HandleDraw opens a case
// @Summary Open a case
// @Description Debits the case price and credits one prize. Returns the prize, whether payout
// @Description protection reduced it, and whether the draw ran in degraded mode.
// @Tags draws
// @Accept json
// @Produce json
// @Param request body DrawRequest true "Draw request"
// @Success 201 {object} DrawResponse
// @Failure 400 {object} ErrorResponse
// @Failure 402 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/v1/draws [post]
func (h *DrawHandler) HandleDraw(w http.ResponseWriter, r *http.Request) {
	var req DrawRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Draw"); err != nil {
		return
	}

	res, err := h.service.Draw(r.Context(), req.CaseID, uuid.MustParse(req.UserID))
	if err != nil {
		respondServiceError(w, r, "Draw", err)
		return
	}

	respondJSON(w, http.StatusCreated, DrawResponse{
		DrawResult:            res,
		PrizeValueFormatted:   res.Prize.Value.String(),
		BalanceAfterFormatted: res.BalanceAfter.String(),
	})
}
