package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/CaseVault_Go/internal/domain"
	"github.com/osse101/CaseVault_Go/internal/repository"
)

// MockRepository is a mock implementation of repository.Audit
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) InsertAuditRecord(ctx context.Context, record *domain.AuditRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockRepository) InsertBlockedEvents(ctx context.Context, events []domain.BlockedPrizeEvent) error {
	return m.Called(ctx, events).Error(0)
}

func (m *MockRepository) GetAuditRecord(ctx context.Context, id uuid.UUID) (*domain.AuditRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuditRecord), args.Error(1)
}

func (m *MockRepository) QueryAuditRecords(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditRecord), args.Error(1)
}

func (m *MockRepository) SummarizeBlockedPrizes(ctx context.Context, since time.Time) ([]domain.BlockedPrizeSummary, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BlockedPrizeSummary), args.Error(1)
}

func (m *MockRepository) DeleteBlockedEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockTxManager is a mock implementation of repository.TxManager. fn runs unless Do is set up
// to fail.
type MockTxManager struct {
	mock.Mock
}

var _ repository.TxManager = (*MockTxManager)(nil)

func (m *MockTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := m.Called(ctx).Error(0); err != nil {
		return err
	}
	return fn(ctx)
}
