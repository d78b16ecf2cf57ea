// Package audit keeps the append-only record of every draw attempt and the blocked-prize
// monitoring events.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/osse101/CaseVault_Go/internal/domain"
	"github.com/osse101/CaseVault_Go/internal/event"
	"github.com/osse101/CaseVault_Go/internal/logger"
	"github.com/osse101/CaseVault_Go/internal/repository"
)

// Service writes and reads the audit log
type Service interface {
	// Record writes the draw record and its blocked-prize events in one transaction. A ctx that
	// already carries a transaction is joined, so draws record with a ctx outside settlement.
	Record(ctx context.Context, rec *domain.AuditRecord, blocked []domain.BlockedPrizeEvent) error
	Query(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditRecord, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.AuditRecord, error)
	BlockedPrizeReport(ctx context.Context, since time.Time) (*domain.BlockedPrizeReport, error)

	// CleanupBlockedEvents removes blocked-prize events older than the retention period. Draw
	// records are kept forever.
	CleanupBlockedEvents(ctx context.Context, retentionDays int) (int64, error)
}

type service struct {
	repo     repository.Audit
	tx       repository.TxManager
	bus      event.Bus
	maxLimit int
	now      func() time.Time
}

// NewService creates the audit service. maxLimit caps the page size of Query.
func NewService(repo repository.Audit, tx repository.TxManager, bus event.Bus, maxLimit int) Service {
	if bus == nil {
		bus = event.NopBus{}
	}
	if maxLimit <= 0 {
		maxLimit = 500
	}
	return &service{repo: repo, tx: tx, bus: bus, maxLimit: maxLimit, now: time.Now}
}

func (s *service) Record(ctx context.Context, rec *domain.AuditRecord, blocked []domain.BlockedPrizeEvent) (err error) {
	log := logger.FromContext(ctx)
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}
	for i := range blocked {
		blocked[i].DrawID = rec.ID
		if blocked[i].CreatedAt.IsZero() {
			blocked[i].CreatedAt = rec.CreatedAt
		}
	}

	err = s.tx.Do(ctx, func(ctx context.Context) error {
		if err := s.repo.InsertAuditRecord(ctx, rec); err != nil {
			return fmt.Errorf("%s: %w", ErrContextRecord, err)
		}
		if len(blocked) > 0 {
			if err := s.repo.InsertBlockedEvents(ctx, blocked); err != nil {
				return fmt.Errorf("%s: %w", ErrContextBlocked, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, b := range blocked {
		log.Warn(LogMsgPrizeBlocked,
			LogFieldDrawID, b.DrawID,
			"case_id", b.CaseID,
			"prize_id", b.PrizeID,
			"value", b.PrizeValue.String(),
			"ceiling", b.Ceiling.String(),
			"multiplier", b.Multiplier.StringFixed(2),
			"tier", b.Tier,
			"cash_position", b.CashPosition.String(),
			"target", b.TargetRatio.String())
		event.Emit(ctx, s.bus, event.New(event.PrizeBlocked, event.PrizeBlockedPayloadV1{
			DrawID:     b.DrawID.String(),
			CaseID:     b.CaseID,
			PrizeID:    b.PrizeID,
			PrizeValue: int64(b.PrizeValue),
			Ceiling:    int64(b.Ceiling),
			Tier:       string(b.Tier),
		}))
	}
	log.Debug(LogMsgRecordWritten, LogFieldDrawID, rec.ID, LogFieldOutcome, rec.Outcome, "blocked", len(blocked))
	return nil
}

func (s *service) Query(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditRecord, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultQueryLimit
	}
	if filter.Limit > s.maxLimit {
		logger.FromContext(ctx).Debug(LogMsgLimitCapped, "requested", filter.Limit, "max", s.maxLimit)
		filter.Limit = s.maxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.Since != nil && filter.Until != nil && filter.Until.Before(*filter.Since) {
		return nil, fmt.Errorf("%w: until before since", domain.ErrInvalidInput)
	}

	records, err := s.repo.QueryAuditRecords(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextQuery, err)
	}
	return records, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*domain.AuditRecord, error) {
	rec, err := s.repo.GetAuditRecord(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextGet, err)
	}
	return rec, nil
}

func (s *service) BlockedPrizeReport(ctx context.Context, since time.Time) (*domain.BlockedPrizeReport, error) {
	summaries, err := s.repo.SummarizeBlockedPrizes(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextReport, err)
	}
	if summaries == nil {
		summaries = []domain.BlockedPrizeSummary{}
	}
	return &domain.BlockedPrizeReport{
		Since:       since,
		TotalEvents: lo.SumBy(summaries, func(p domain.BlockedPrizeSummary) int64 { return p.BlockedCount }),
		Prizes:      summaries,
		GeneratedAt: s.now(),
	}, nil
}

func (s *service) CleanupBlockedEvents(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, fmt.Errorf("%w: retention must be positive", domain.ErrInvalidInput)
	}
	n, err := s.repo.DeleteBlockedEventsBefore(ctx, s.now().AddDate(0, 0, -retentionDays))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrContextCleanup, err)
	}
	return n, nil
}
