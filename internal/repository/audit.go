package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/CaseVault_Go/internal/domain"
)

// Audit defines append-only storage for draw audit records and blocked-prize events
type Audit interface {
	// InsertAuditRecord and InsertBlockedEvents join the transaction carried by ctx, if any
	InsertAuditRecord(ctx context.Context, record *domain.AuditRecord) error
	InsertBlockedEvents(ctx context.Context, events []domain.BlockedPrizeEvent) error

	GetAuditRecord(ctx context.Context, id uuid.UUID) (*domain.AuditRecord, error)
	QueryAuditRecords(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditRecord, error)

	// SummarizeBlockedPrizes groups blocked events created at or after since by case and prize
	SummarizeBlockedPrizes(ctx context.Context, since time.Time) ([]domain.BlockedPrizeSummary, error)

	// DeleteBlockedEventsBefore removes monitoring events older than cutoff. Draw records are
	// never deleted.
	DeleteBlockedEventsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
