package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/osse101/CaseVault_Go/internal/audit"
	"github.com/osse101/CaseVault_Go/internal/domain"
)

var validOutcomes = map[domain.DrawOutcome]bool{
	domain.OutcomeAwarded:        true,
	domain.OutcomeFallback:       true,
	domain.OutcomeSessionLimited: true,
	domain.OutcomeRejected:       true,
	domain.OutcomeError:          true,
}

// AuditHandler serves the draw audit log
type AuditHandler struct {
	service      audit.Service
	reportWindow time.Duration
	now          func() time.Time
}

// NewAuditHandler creates the handler. reportWindow is the blocked-prize report period used when
// the caller does not pass since.
func NewAuditHandler(service audit.Service, reportWindow time.Duration) *AuditHandler {
	return &AuditHandler{service: service, reportWindow: reportWindow, now: time.Now}
}

// AuditLogResponse is one page of audit records
type AuditLogResponse struct {
	Records []domain.AuditRecord `json:"records"`
	Limit   int                  `json:"limit"`
	Offset  int                  `json:"offset"`
}

// HandleQuery lists audit records matching the filters, newest first
// @Summary Query the audit log
// @Tags admin
// @Produce json
// @Param user_id query string false "User id"
// @Param case_id query int false "Case id"
// @Param outcome query string false "awarded, fallback, session_limited, rejected or error"
// @Param protection_only query bool false "Only draws where protection applied"
// @Param since query string false "RFC 3339 lower bound"
// @Param until query string false "RFC 3339 upper bound"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} AuditLogResponse
// @Security BearerAuth
// @Router /api/v1/admin/audit [get]
func (h *AuditHandler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseAuditFilter(w, r)
	if !ok {
		return
	}
	records, err := h.service.Query(r.Context(), filter)
	if err != nil {
		respondServiceError(w, r, "Query audit log", err)
		return
	}
	if records == nil {
		records = []domain.AuditRecord{}
	}
	respondJSON(w, http.StatusOK, AuditLogResponse{Records: records, Limit: filter.Limit, Offset: filter.Offset})
}

func parseAuditFilter(w http.ResponseWriter, r *http.Request) (domain.AuditFilter, bool) {
	var f domain.AuditFilter
	var ok bool

	if f.UserID, ok = queryUUID(w, r, ParamUserID); !ok {
		return f, false
	}
	if raw := r.URL.Query().Get(ParamCaseID); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return f, badParam(w, ParamCaseID)
		}
		f.CaseID = &id
	}
	if raw := r.URL.Query().Get(ParamOutcome); raw != "" {
		o := domain.DrawOutcome(raw)
		if !validOutcomes[o] {
			return f, badParam(w, ParamOutcome)
		}
		f.Outcome = &o
	}
	if raw := r.URL.Query().Get(ParamProtectionOnly); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return f, badParam(w, ParamProtectionOnly)
		}
		f.ProtectionOnly = v
	}
	if f.Since, ok = queryTime(w, r, ParamSince); !ok {
		return f, false
	}
	if f.Until, ok = queryTime(w, r, ParamUntil); !ok {
		return f, false
	}
	if f.Limit, ok = queryInt(w, r, ParamLimit, 0); !ok {
		return f, false
	}
	if f.Offset, ok = queryInt(w, r, ParamOffset, 0); !ok {
		return f, false
	}
	return f, true
}

// HandleGet returns one audit record
// @Summary Get an audit record
// @Tags admin
// @Produce json
// @Param id path string true "Audit record id"
// @Success 200 {object} domain.AuditRecord
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/admin/audit/{id} [get]
func (h *AuditHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, ParamID))
	if err != nil {
		badParam(w, ParamID)
		return
	}
	rec, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "Get audit record", err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// HandleBlockedPrizes reports prizes excluded by the payout ceiling
// @Summary Blocked prize report
// @Description Prizes frequently excluded by the ceiling usually point at a misconfigured catalog.
// @Tags admin
// @Produce json
// @Param since query string false "RFC 3339 lower bound, defaults to the configured report window"
// @Success 200 {object} domain.BlockedPrizeReport
// @Security BearerAuth
// @Router /api/v1/admin/audit/blocked-prizes [get]
func (h *AuditHandler) HandleBlockedPrizes(w http.ResponseWriter, r *http.Request) {
	since, ok := queryTime(w, r, ParamSince)
	if !ok {
		return
	}
	if since == nil {
		t := h.now().Add(-h.reportWindow)
		since = &t
	}
	report, err := h.service.BlockedPrizeReport(r.Context(), *since)
	if err != nil {
		respondServiceError(w, r, "Blocked prize report", err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}
