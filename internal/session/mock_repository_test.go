package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/CaseVault_Go/internal/domain"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetActiveSessionForUpdate(ctx context.Context, userID uuid.UUID, caseID int64) (*domain.UserCaseSession, error) {
	args := m.Called(ctx, userID, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserCaseSession), args.Error(1)
}

func (m *MockRepository) CreateSession(ctx context.Context, s *domain.UserCaseSession) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockRepository) UpdateSession(ctx context.Context, s *domain.UserCaseSession) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockRepository) CloseIdleSessions(ctx context.Context, idleBefore, now time.Time) (int64, error) {
	args := m.Called(ctx, idleBefore, now)
	return args.Get(0).(int64), args.Error(1)
}
