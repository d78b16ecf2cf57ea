package handler

import (
	"net/http"

	"github.com/osse101/CaseVault_Go/internal/ledger"
)

// HandleGetCashStats returns the cash position dashboard
// @Summary Cash position statistics
// @Tags admin
// @Produce json
// @Success 200 {object} domain.CashPositionStats
// @Security BearerAuth
// @Router /api/v1/admin/cash/stats [get]
func HandleGetCashStats(reader ledger.Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := reader.Stats(r.Context())
		if err != nil {
			respondServiceError(w, r, "Cash stats", err)
			return
		}
		respondJSON(w, http.StatusOK, stats)
	}
}
