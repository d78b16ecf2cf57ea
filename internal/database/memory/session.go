package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/CaseVault_Go/internal/domain"
	"github.com/osse101/CaseVault_Go/internal/repository"
)

var _ repository.Session = (*Store)(nil)

func (s *Store) GetActiveSessionForUpdate(ctx context.Context, userID uuid.UUID, caseID int64) (*domain.UserCaseSession, error) {
	var out *domain.UserCaseSession
	err := s.locked(ctx, "GetActiveSessionForUpdate", func() error {
		for _, sess := range s.sessions {
			if sess.UserID == userID && sess.CaseID == caseID && sess.Status == domain.SessionActive {
				cp := sess
				out = &cp
				return nil
			}
		}
		return domain.ErrSessionNotFound
	})
	return out, err
}

func (s *Store) CreateSession(ctx context.Context, session *domain.UserCaseSession) error {
	return s.locked(ctx, "CreateSession", func() error {
		for _, sess := range s.sessions {
			if sess.UserID == session.UserID && sess.CaseID == session.CaseID && sess.Status == domain.SessionActive {
				return domain.ErrSessionConflict
			}
		}
		s.sessions[session.ID] = *session
		return nil
	})
}

func (s *Store) UpdateSession(ctx context.Context, session *domain.UserCaseSession) error {
	return s.locked(ctx, "UpdateSession", func() error {
		if _, ok := s.sessions[session.ID]; !ok {
			return domain.ErrSessionNotFound
		}
		s.sessions[session.ID] = *session
		return nil
	})
}

func (s *Store) CloseIdleSessions(ctx context.Context, idleBefore, now time.Time) (int64, error) {
	var n int64
	err := s.locked(ctx, "CloseIdleSessions", func() error {
		for id, sess := range s.sessions {
			if sess.Status == domain.SessionActive && sess.LastActivityAt.Before(idleBefore) {
				sess.Close(now)
				s.sessions[id] = sess
				n++
			}
		}
		return nil
	})
	return n, err
}
