// Package session tracks per user, per case spend and winnings and detects when a user's own
// payout ratio for a case is exhausted.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/CaseVault_Go/internal/domain"
	"github.com/osse101/CaseVault_Go/internal/event"
	"github.com/osse101/CaseVault_Go/internal/logger"
	"github.com/osse101/CaseVault_Go/internal/metrics"
	"github.com/osse101/CaseVault_Go/internal/repository"
)

// Tracker manages user case sessions. GetOrCreate and RecordPurchase are meant to run inside the
// caller's settlement transaction so the session row stays locked until commit.
type Tracker interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID, caseID int64, limit domain.Ratio) (*domain.UserCaseSession, error)
	RecordPurchase(ctx context.Context, s *domain.UserCaseSession, spent, won domain.Money) (*domain.UserCaseSession, error)
	CloseIdle(ctx context.Context, idle time.Duration) (int64, error)
}

type tracker struct {
	repo repository.Session
	bus  event.Bus
	now  func() time.Time
}

// NewTracker creates a session tracker
func NewTracker(repo repository.Session, bus event.Bus) Tracker {
	return &tracker{repo: repo, bus: bus, now: time.Now}
}

func (t *tracker) GetOrCreate(ctx context.Context, userID uuid.UUID, caseID int64, limit domain.Ratio) (*domain.UserCaseSession, error) {
	s, err := t.repo.GetActiveSessionForUpdate(ctx, userID, caseID)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, fmt.Errorf("%s: %w", ErrContextGetSession, err)
	}

	s = domain.NewUserCaseSession(userID, caseID, limit, t.now())
	if err := t.repo.CreateSession(ctx, s); err != nil {
		// A concurrent first purchase on another instance won the insert; use its row
		if errors.Is(err, domain.ErrSessionConflict) {
			existing, getErr := t.repo.GetActiveSessionForUpdate(ctx, userID, caseID)
			if getErr != nil {
				return nil, fmt.Errorf("%s: %w", ErrContextGetSession, getErr)
			}
			return existing, nil
		}
		return nil, fmt.Errorf("%s: %w", ErrContextCreateSession, err)
	}
	logger.FromContext(ctx).Debug(LogMsgSessionStarted,
		"session_id", s.ID, "user_id", userID, "case_id", caseID, "limit", limit.String())
	return s, nil
}

// RecordPurchase accumulates one purchase and persists the session. The limit event is emitted
// once, on the purchase that crosses it.
func (t *tracker) RecordPurchase(ctx context.Context, s *domain.UserCaseSession, spent, won domain.Money) (*domain.UserCaseSession, error) {
	next := *s
	wasReached := next.LimitReached
	if err := next.Record(spent, won, t.now()); err != nil {
		return nil, err
	}
	if err := t.repo.UpdateSession(ctx, &next); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextRecord, err)
	}

	if next.LimitReached && !wasReached {
		logger.FromContext(ctx).Info(LogMsgLimitReached,
			"session_id", next.ID,
			"user_id", next.UserID,
			"case_id", next.CaseID,
			"rtp", next.CurrentRTP().String(),
			"limit", next.RTPLimit.String())
		event.Emit(ctx, t.bus, event.New(event.SessionLimitReached, event.SessionLimitReachedPayloadV1{
			SessionID:  next.ID.String(),
			UserID:     next.UserID.String(),
			CaseID:     next.CaseID,
			TotalSpent: int64(next.TotalSpent),
			TotalWon:   int64(next.TotalWon),
			LimitBP:    int64(next.RTPLimit),
		}))
	}
	return &next, nil
}

// CloseIdle closes sessions without activity for idle. Closed rows are kept.
func (t *tracker) CloseIdle(ctx context.Context, idle time.Duration) (int64, error) {
	now := t.now()
	n, err := t.repo.CloseIdleSessions(ctx, now.Add(-idle), now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrContextCloseIdle, err)
	}
	if n > 0 {
		metrics.SessionsClosed.Add(float64(n))
		logger.FromContext(ctx).Info(LogMsgSessionsClosed, "count", n, "idle", idle.String())
	}
	return n, nil
}

// SweepJob closes idle sessions on a schedule
type SweepJob struct {
	Tracker Tracker
	Idle    time.Duration
}

func (j *SweepJob) Name() string { return "session_sweep" }

func (j *SweepJob) Process(ctx context.Context) error {
	_, err := j.Tracker.CloseIdle(ctx, j.Idle)
	return err
}
