package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/osse101/CaseVault_Go/internal/domain"
	"github.com/osse101/CaseVault_Go/internal/logger"
)

const readinessTimeout = 2 * time.Second

// Readiness and draw states reported by /readyz
const (
	StatusOK          = "ok"
	StatusUnavailable = "unavailable"
	DrawsOpen         = "open"
	DrawsSuspended    = "suspended"
)

// HealthResponse is returned by the health endpoints. Draws is only set by /readyz.
type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage,omitempty"`
	Draws   string `json:"draws,omitempty"`
}

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// EmergencyReader exposes the kill-switch state
type EmergencyReader interface {
	EmergencyState(ctx context.Context) (*domain.EmergencyState, error)
}

// HandleHealthz provides a basic liveness check
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{Status: StatusOK})
	}
}

// HandleReadyz is ready while the store answers a ping. Emergency mode is reported but does not
// fail readiness: the admin API must stay reachable to lift it.
// @Summary Readiness check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readyz [get]
func HandleReadyz(store Pinger, emergency EmergencyReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()
		log := logger.FromContext(r.Context())

		resp := HealthResponse{Status: StatusOK, Storage: StatusOK}
		if err := store.Ping(ctx); err != nil {
			log.Error(LogMsgReadyzFailed, "error", err)
			resp.Status, resp.Storage = StatusUnavailable, StatusUnavailable
		}

		if emergency != nil {
			resp.Draws = DrawsOpen
			state, err := emergency.EmergencyState(ctx)
			switch {
			case err != nil:
				// Draws fail closed on an unreadable switch
				log.Warn(LogMsgReadyzEmergencyUnknown, "error", err)
				resp.Draws = DrawsSuspended
			case state.Active:
				resp.Draws = DrawsSuspended
			}
		}

		code := http.StatusOK
		if resp.Status != StatusOK {
			code = http.StatusServiceUnavailable
		}
		respondJSON(w, code, resp)
	}
}
