package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CaseVault_Go/internal/domain"
)

func TestHandleHealthz(t *testing.T) {
	w := httptest.NewRecorder()
	HandleHealthz()(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"status":"ok"}`+"\n", w.Body.String())
}

type stubEmergency struct {
	state *domain.EmergencyState
	err   error
}

func (s stubEmergency) EmergencyState(context.Context) (*domain.EmergencyState, error) {
	return s.state, s.err
}

func TestHandleReadyz(t *testing.T) {
	tests := []struct {
		name      string
		pingErr   error
		emergency EmergencyReader
		wantCode  int
		wantBody  HealthResponse
	}{
		{
			name:     "store reachable without guard",
			wantCode: http.StatusOK,
			wantBody: HealthResponse{Status: StatusOK, Storage: StatusOK},
		},
		{
			name:      "draws open",
			emergency: stubEmergency{state: &domain.EmergencyState{}},
			wantCode:  http.StatusOK,
			wantBody:  HealthResponse{Status: StatusOK, Storage: StatusOK, Draws: DrawsOpen},
		},
		{
			name:      "emergency mode stays ready",
			emergency: stubEmergency{state: &domain.EmergencyState{Active: true}},
			wantCode:  http.StatusOK,
			wantBody:  HealthResponse{Status: StatusOK, Storage: StatusOK, Draws: DrawsSuspended},
		},
		{
			name:      "unreadable switch reports suspended",
			emergency: stubEmergency{err: assert.AnError},
			wantCode:  http.StatusOK,
			wantBody:  HealthResponse{Status: StatusOK, Storage: StatusOK, Draws: DrawsSuspended},
		},
		{
			name:      "store down",
			pingErr:   assert.AnError,
			emergency: stubEmergency{state: &domain.EmergencyState{}},
			wantCode:  http.StatusServiceUnavailable,
			wantBody:  HealthResponse{Status: StatusUnavailable, Storage: StatusUnavailable, Draws: DrawsOpen},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &MockPinger{}
			p.On("Ping", mock.Anything).Return(tt.pingErr)

			w := httptest.NewRecorder()
			HandleReadyz(p, tt.emergency)(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			assert.Equal(t, tt.wantCode, w.Code)
			var got HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tt.wantBody, got)
			p.AssertExpectations(t)
		})
	}
}

func TestHandleVersion(t *testing.T) {
	w := httptest.NewRecorder()
	HandleVersion("1.4.0", "memory")(w, httptest.NewRequest(http.MethodGet, "/version", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var got VersionInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "1.4.0", got.Version)
	assert.Equal(t, "memory", got.Storage)
	assert.Equal(t, runtime.Version(), got.GoVersion)
}
