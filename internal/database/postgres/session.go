package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/CaseVault_Go/internal/domain"
	"github.com/osse101/CaseVault_Go/internal/repository"
)

// SessionRepository stores user case sessions
type SessionRepository struct {
	base
}

var _ repository.Session = (*SessionRepository)(nil)

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{base: newBase(db)}
}

var sessionColumns = []string{
	"session_id", "user_id", "case_id", "total_spent", "total_won", "rtp_limit_bp",
	"limit_reached", "status", "started_at", "last_activity_at", "ended_at",
}

func (r *SessionRepository) GetActiveSessionForUpdate(ctx context.Context, userID uuid.UUID, caseID int64) (*domain.UserCaseSession, error) {
	row, err := r.queryRow(ctx, psql.
		Select(sessionColumns...).
		From(tableSessions).
		Where(sq.Eq{"user_id": userID, "case_id": caseID, "status": string(domain.SessionActive)}).
		Suffix("FOR UPDATE"))
	if err != nil {
		return nil, err
	}

	var s domain.UserCaseSession
	var spent, won, limit int64
	var status string
	if err := row.Scan(&s.ID, &s.UserID, &s.CaseID, &spent, &won, &limit, &s.LimitReached, &status,
		&s.StartedAt, &s.LastActivityAt, &s.EndedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetSession, err)
	}
	s.TotalSpent = domain.Money(spent)
	s.TotalWon = domain.Money(won)
	s.RTPLimit = domain.Ratio(limit)
	s.Status = domain.SessionStatus(status)
	return &s, nil
}

// CreateSession inserts an active session. ON CONFLICT keeps the surrounding transaction usable
// when a concurrent purchase created the row first.
func (r *SessionRepository) CreateSession(ctx context.Context, s *domain.UserCaseSession) error {
	n, err := r.exec(ctx, psql.
		Insert(tableSessions).
		Columns(sessionColumns...).
		Values(s.ID, s.UserID, s.CaseID, int64(s.TotalSpent), int64(s.TotalWon), int64(s.RTPLimit),
			s.LimitReached, string(s.Status), s.StartedAt, s.LastActivityAt, s.EndedAt).
		Suffix("ON CONFLICT (user_id, case_id) WHERE status = 'active' DO NOTHING"))
	if err != nil {
		if isPgError(err, PgErrorCodeUniqueViolation) {
			return domain.ErrSessionConflict
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToCreateSession, err)
	}
	if n == 0 {
		return domain.ErrSessionConflict
	}
	return nil
}

func (r *SessionRepository) UpdateSession(ctx context.Context, s *domain.UserCaseSession) error {
	n, err := r.exec(ctx, psql.
		Update(tableSessions).
		Set("total_spent", int64(s.TotalSpent)).
		Set("total_won", int64(s.TotalWon)).
		Set("limit_reached", s.LimitReached).
		Set("status", string(s.Status)).
		Set("last_activity_at", s.LastActivityAt).
		Set("ended_at", s.EndedAt).
		Where(sq.Eq{"session_id": s.ID}))
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateSession, err)
	}
	if n == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) CloseIdleSessions(ctx context.Context, idleBefore, now time.Time) (int64, error) {
	n, err := r.exec(ctx, psql.
		Update(tableSessions).
		Set("status", string(domain.SessionClosed)).
		Set("ended_at", now).
		Where(sq.Eq{"status": string(domain.SessionActive)}).
		Where(sq.Lt{"last_activity_at": idleBefore}))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToCloseSessions, err)
	}
	return n, nil
}
