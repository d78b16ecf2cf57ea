package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/CaseVault_Go/internal/domain"
)

type MockDrawService struct{ mock.Mock }

func (m *MockDrawService) Draw(ctx context.Context, caseID int64, userID uuid.UUID) (*domain.DrawResult, error) {
	args := m.Called(ctx, caseID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DrawResult), args.Error(1)
}

type MockRTPService struct{ mock.Mock }

func (m *MockRTPService) GetConfig(ctx context.Context) (*domain.RTPConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RTPConfig), args.Error(1)
}

func (m *MockRTPService) SetTarget(ctx context.Context, ratio domain.Ratio, actor, reason string) (*domain.RTPConfig, error) {
	args := m.Called(ctx, ratio, actor, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RTPConfig), args.Error(1)
}

func (m *MockRTPService) Recommend(ctx context.Context) (*domain.RTPRecommendation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RTPRecommendation), args.Error(1)
}

func (m *MockRTPService) ApplyRecommendation(ctx context.Context, actor string) (*domain.RTPConfig, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RTPConfig), args.Error(1)
}

func (m *MockRTPService) History(ctx context.Context, limit int) ([]domain.RTPHistoryEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RTPHistoryEntry), args.Error(1)
}

type MockGuard struct{ mock.Mock }

func (m *MockGuard) CheckEmergency(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockGuard) AdmitUser(ctx context.Context, acc *domain.Account, price domain.Money) error {
	return m.Called(ctx, acc, price).Error(0)
}

func (m *MockGuard) AdmitCase(ctx context.Context, c *domain.Case) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockGuard) AdmitPayout(ctx context.Context, net, credited domain.Money) error {
	return m.Called(ctx, net, credited).Error(0)
}

func (m *MockGuard) EmergencyState(ctx context.Context) (*domain.EmergencyState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EmergencyState), args.Error(1)
}

func (m *MockGuard) Activate(ctx context.Context, actor, reason string) (*domain.EmergencyState, error) {
	args := m.Called(ctx, actor, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EmergencyState), args.Error(1)
}

func (m *MockGuard) Deactivate(ctx context.Context, actor string) (*domain.EmergencyState, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EmergencyState), args.Error(1)
}

func (m *MockGuard) History(ctx context.Context, limit int) ([]domain.EmergencyHistoryEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EmergencyHistoryEntry), args.Error(1)
}

type MockAuditService struct{ mock.Mock }

func (m *MockAuditService) Record(ctx context.Context, rec *domain.AuditRecord, blocked []domain.BlockedPrizeEvent) error {
	return m.Called(ctx, rec, blocked).Error(0)
}

func (m *MockAuditService) Query(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditRecord), args.Error(1)
}

func (m *MockAuditService) Get(ctx context.Context, id uuid.UUID) (*domain.AuditRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuditRecord), args.Error(1)
}

func (m *MockAuditService) BlockedPrizeReport(ctx context.Context, since time.Time) (*domain.BlockedPrizeReport, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BlockedPrizeReport), args.Error(1)
}

func (m *MockAuditService) CleanupBlockedEvents(ctx context.Context, retentionDays int) (int64, error) {
	args := m.Called(ctx, retentionDays)
	return args.Get(0).(int64), args.Error(1)
}

type MockCashReader struct{ mock.Mock }

func (m *MockCashReader) CashPosition(ctx context.Context) (domain.CashPosition, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.CashPosition), args.Error(1)
}

func (m *MockCashReader) CashFlowSince(ctx context.Context, since time.Time) (domain.CashFlow, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(domain.CashFlow), args.Error(1)
}

func (m *MockCashReader) Stats(ctx context.Context) (*domain.CashPositionStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashPositionStats), args.Error(1)
}

func (m *MockCashReader) LockedCashPosition(ctx context.Context) (domain.CashPosition, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.CashPosition), args.Error(1)
}

type MockPinger struct{ mock.Mock }

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
