package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/CaseVault_Go/internal/domain"
)

// Session defines storage for per user per case sessions
type Session interface {
	// GetActiveSessionForUpdate returns the active session for the pair, row-locked inside the
	// surrounding transaction, or domain.ErrSessionNotFound
	GetActiveSessionForUpdate(ctx context.Context, userID uuid.UUID, caseID int64) (*domain.UserCaseSession, error)

	// CreateSession inserts a new active session. It returns domain.ErrSessionConflict when
	// another active session for the pair already exists.
	CreateSession(ctx context.Context, session *domain.UserCaseSession) error

	// UpdateSession persists totals, limit flag, status and timestamps
	UpdateSession(ctx context.Context, session *domain.UserCaseSession) error

	// CloseIdleSessions closes active sessions whose last activity is before idleBefore
	CloseIdleSessions(ctx context.Context, idleBefore, now time.Time) (int64, error)
}
