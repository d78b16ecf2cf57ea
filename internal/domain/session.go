package domain

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus is the lifecycle state of a user case session.
type SessionStatus string

const (
	SessionActive SessionStatus = "active"
	SessionClosed SessionStatus = "closed"
)

// UserCaseSession accumulates a user's spend and wins against one case.
type UserCaseSession struct {
	ID             uuid.UUID     `json:"id"`
	UserID         uuid.UUID     `json:"user_id"`
	CaseID         int64         `json:"case_id"`
	TotalSpent     Money         `json:"total_spent"`
	TotalWon       Money         `json:"total_won"`
	RTPLimit       Ratio         `json:"rtp_limit_bp"`
	LimitReached   bool          `json:"limit_reached"`
	Status         SessionStatus `json:"status"`
	StartedAt      time.Time     `json:"started_at"`
	LastActivityAt time.Time     `json:"last_activity_at"`
	EndedAt        *time.Time    `json:"ended_at,omitempty"`
}

// NewUserCaseSession starts an empty active session.
func NewUserCaseSession(userID uuid.UUID, caseID int64, limit Ratio, now time.Time) *UserCaseSession {
	return &UserCaseSession{
		ID:             uuid.New(),
		UserID:         userID,
		CaseID:         caseID,
		RTPLimit:       limit,
		Status:         SessionActive,
		StartedAt:      now,
		LastActivityAt: now,
	}
}

// CurrentRTP returns total_won / total_spent in basis points.
func (s *UserCaseSession) CurrentRTP() Ratio {
	return RatioOf(s.TotalWon, s.TotalSpent)
}

// Record adds one purchase. Totals only grow and LimitReached never reverts.
func (s *UserCaseSession) Record(spent, won Money, now time.Time) error {
	if s.Status != SessionActive {
		return ErrSessionClosed
	}
	if spent < 0 || won < 0 {
		return ErrNegativeAmount
	}
	s.TotalSpent += spent
	s.TotalWon += won
	s.LastActivityAt = now
	if !s.LimitReached && s.TotalSpent > 0 {
		// won/spent >= limit, compared without division
		s.LimitReached = int64(s.TotalWon)*BasisPointsPerUnit >= int64(s.RTPLimit)*int64(s.TotalSpent)
	}
	return nil
}

// Close ends the session. Closing twice is a no-op.
func (s *UserCaseSession) Close(now time.Time) {
	if s.Status == SessionClosed {
		return
	}
	s.Status = SessionClosed
	s.EndedAt = &now
}
