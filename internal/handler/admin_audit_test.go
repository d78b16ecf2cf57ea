package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CaseVault_Go/internal/domain"
)

func TestAuditHandler_Query(t *testing.T) {
	userID := uuid.New()
	since := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("All filters", func(t *testing.T) {
		svc := &MockAuditService{}
		svc.On("Query", mock.Anything, mock.MatchedBy(func(f domain.AuditFilter) bool {
			return f.UserID != nil && *f.UserID == userID &&
				f.CaseID != nil && *f.CaseID == 4 &&
				f.Outcome != nil && *f.Outcome == domain.OutcomeFallback &&
				f.ProtectionOnly &&
				f.Since != nil && f.Since.Equal(since) &&
				f.Until == nil &&
				f.Limit == 10 && f.Offset == 20
		})).Return([]domain.AuditRecord{{ID: uuid.New(), Outcome: domain.OutcomeFallback}}, nil)

		target := "/api/v1/admin/audit?user_id=" + userID.String() +
			"&case_id=4&outcome=fallback&protection_only=true&since=2026-01-02T03:04:05Z&limit=10&offset=20"
		w := httptest.NewRecorder()
		NewAuditHandler(svc, time.Hour).HandleQuery(w, adminRequest(http.MethodGet, target, ""))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"outcome":"fallback"`)
		svc.AssertExpectations(t)
	})

	t.Run("Empty result is an empty list", func(t *testing.T) {
		svc := &MockAuditService{}
		svc.On("Query", mock.Anything, domain.AuditFilter{}).Return(nil, nil)
		w := httptest.NewRecorder()
		NewAuditHandler(svc, time.Hour).HandleQuery(w, adminRequest(http.MethodGet, "/api/v1/admin/audit", ""))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"records":[]`)
	})

	for _, bad := range []string{"user_id=x", "case_id=-1", "outcome=won", "protection_only=maybe", "since=yesterday", "limit=-5"} {
		t.Run("Rejects "+bad, func(t *testing.T) {
			svc := &MockAuditService{}
			w := httptest.NewRecorder()
			NewAuditHandler(svc, time.Hour).HandleQuery(w, adminRequest(http.MethodGet, "/api/v1/admin/audit?"+bad, ""))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			svc.AssertNotCalled(t, "Query", mock.Anything, mock.Anything)
		})
	}

	t.Run("Inverted window", func(t *testing.T) {
		svc := &MockAuditService{}
		svc.On("Query", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidInput)
		w := httptest.NewRecorder()
		NewAuditHandler(svc, time.Hour).HandleQuery(w, adminRequest(http.MethodGet,
			"/api/v1/admin/audit?since=2026-01-02T00:00:00Z&until=2026-01-01T00:00:00Z", ""))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestAuditHandler_Get(t *testing.T) {
	id := uuid.New()
	svc := &MockAuditService{}
	svc.On("Get", mock.Anything, id).Return(&domain.AuditRecord{ID: id, Outcome: domain.OutcomeAwarded}, nil)
	missing := uuid.New()
	svc.On("Get", mock.Anything, missing).Return(nil, domain.ErrAuditRecordNotFound)
	h := NewAuditHandler(svc, time.Hour)

	w := httptest.NewRecorder()
	h.HandleGet(w, withURLParam(adminRequest(http.MethodGet, "/", ""), ParamID, id.String()))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), id.String())

	w = httptest.NewRecorder()
	h.HandleGet(w, withURLParam(adminRequest(http.MethodGet, "/", ""), ParamID, missing.String()))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	h.HandleGet(w, withURLParam(adminRequest(http.MethodGet, "/", ""), ParamID, "42"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuditHandler_BlockedPrizes(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Defaults to the report window", func(t *testing.T) {
		svc := &MockAuditService{}
		svc.On("BlockedPrizeReport", mock.Anything, now.Add(-7*24*time.Hour)).
			Return(&domain.BlockedPrizeReport{TotalEvents: 3, Prizes: []domain.BlockedPrizeSummary{{PrizeID: 9, BlockedCount: 3}}}, nil)
		h := NewAuditHandler(svc, 7*24*time.Hour)
		h.now = func() time.Time { return now }

		w := httptest.NewRecorder()
		h.HandleBlockedPrizes(w, adminRequest(http.MethodGet, "/api/v1/admin/audit/blocked-prizes", ""))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"total_events":3`)
		svc.AssertExpectations(t)
	})

	t.Run("Explicit since", func(t *testing.T) {
		since := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
		svc := &MockAuditService{}
		svc.On("BlockedPrizeReport", mock.Anything, since).Return(&domain.BlockedPrizeReport{}, nil)
		w := httptest.NewRecorder()
		NewAuditHandler(svc, time.Hour).HandleBlockedPrizes(w, adminRequest(http.MethodGet, "/api/v1/admin/audit/blocked-prizes?since=2026-02-01T00:00:00Z", ""))
		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})
}
