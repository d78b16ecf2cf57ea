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

// AuditRepository stores the draw audit log and blocked-prize monitoring events
type AuditRepository struct {
	base
}

var _ repository.Audit = (*AuditRepository)(nil)

// NewAuditRepository creates a new AuditRepository
func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{base: newBase(db)}
}

var auditColumns = []string{
	"draw_id", "user_id", "case_id", "target_ratio_bp", "ceiling", "cash_before", "cash_after",
	"prize_id", "prize_name", "prize_value", "credited_value", "outcome", "protection_applied",
	"degraded", "error_detail", "latency_ms", "created_at",
}

// InsertAuditRecord rejects a draw id that is already recorded
func (r *AuditRepository) InsertAuditRecord(ctx context.Context, rec *domain.AuditRecord) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := r.exec(ctx, psql.
		Insert(tableAuditLog).
		Columns(auditColumns...).
		Values(rec.ID, rec.UserID, rec.CaseID, int64(rec.TargetRatio), int64(rec.Ceiling),
			int64(rec.CashBefore), int64(rec.CashAfter), rec.PrizeID, rec.PrizeName,
			int64(rec.PrizeValue), int64(rec.CreditedValue), string(rec.Outcome),
			rec.ProtectionApplied, rec.Degraded, rec.ErrorDetail, rec.LatencyMs, createdAt))
	if err != nil {
		if isPgError(err, PgErrorCodeUniqueViolation) {
			return fmt.Errorf("%w: duplicate draw id %s", domain.ErrInvalidInput, rec.ID)
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertAuditRecord, err)
	}
	rec.CreatedAt = createdAt
	return nil
}

func (r *AuditRepository) InsertBlockedEvents(ctx context.Context, events []domain.BlockedPrizeEvent) error {
	if len(events) == 0 {
		return nil
	}
	q := psql.
		Insert(tableBlockedEvents).
		Columns("draw_id", "case_id", "prize_id", "prize_value", "ceiling", "multiplier", "tier",
			"cash_position", "target_ratio_bp", "created_at")
	now := time.Now()
	for _, e := range events {
		createdAt := e.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		q = q.Values(e.DrawID, e.CaseID, e.PrizeID, int64(e.PrizeValue), int64(e.Ceiling),
			e.Multiplier.StringFixed(4), string(e.Tier), int64(e.CashPosition), int64(e.TargetRatio), createdAt)
	}
	if _, err := r.exec(ctx, q); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertBlockedEvents, err)
	}
	return nil
}

func scanAuditRecord(row pgx.Row) (domain.AuditRecord, error) {
	var rec domain.AuditRecord
	var target, ceiling, before, after, value, credited int64
	var outcome string
	err := row.Scan(&rec.ID, &rec.UserID, &rec.CaseID, &target, &ceiling, &before, &after,
		&rec.PrizeID, &rec.PrizeName, &value, &credited, &outcome, &rec.ProtectionApplied,
		&rec.Degraded, &rec.ErrorDetail, &rec.LatencyMs, &rec.CreatedAt)
	if err != nil {
		return rec, err
	}
	rec.TargetRatio = domain.Ratio(target)
	rec.Ceiling = domain.Money(ceiling)
	rec.CashBefore = domain.Money(before)
	rec.CashAfter = domain.Money(after)
	rec.PrizeValue = domain.Money(value)
	rec.CreditedValue = domain.Money(credited)
	rec.Outcome = domain.DrawOutcome(outcome)
	return rec, nil
}

func (r *AuditRepository) GetAuditRecord(ctx context.Context, id uuid.UUID) (*domain.AuditRecord, error) {
	row, err := r.queryRow(ctx, psql.
		Select(auditColumns...).
		From(tableAuditLog).
		Where(sq.Eq{"draw_id": id}))
	if err != nil {
		return nil, err
	}
	rec, err := scanAuditRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAuditRecordNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetAuditRecord, err)
	}
	return &rec, nil
}

// QueryAuditRecords returns matching records newest first
func (r *AuditRepository) QueryAuditRecords(ctx context.Context, f domain.AuditFilter) ([]domain.AuditRecord, error) {
	q := psql.Select(auditColumns...).From(tableAuditLog)
	if f.UserID != nil {
		q = q.Where(sq.Eq{"user_id": *f.UserID})
	}
	if f.CaseID != nil {
		q = q.Where(sq.Eq{"case_id": *f.CaseID})
	}
	if f.Outcome != nil {
		q = q.Where(sq.Eq{"outcome": string(*f.Outcome)})
	}
	if f.ProtectionOnly {
		q = q.Where(sq.Eq{"protection_applied": true})
	}
	q = windowed(q, "created_at", f.Since, f.Until).OrderBy("created_at DESC", "draw_id")
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}

	rows, err := r.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryAuditRecords, err)
	}
	defer rows.Close()

	var out []domain.AuditRecord
	for rows.Next() {
		rec, err := scanAuditRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryAuditRecords, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SummarizeBlockedPrizes groups events by prize, most frequently blocked first
func (r *AuditRepository) SummarizeBlockedPrizes(ctx context.Context, since time.Time) ([]domain.BlockedPrizeSummary, error) {
	rows, err := r.query(ctx, psql.
		Select(
			"case_id",
			"prize_id",
			"COUNT(*)",
			"COUNT(*) FILTER (WHERE tier = 'soft')",
			"COUNT(*) FILTER (WHERE tier = 'hard')",
			"MAX(prize_value)",
			"MIN(ceiling)",
			"FLOOR(AVG(ceiling))::BIGINT",
			"MAX(created_at)",
		).
		From(tableBlockedEvents).
		Where(sq.GtOrEq{"created_at": since}).
		GroupBy("case_id", "prize_id").
		OrderBy("COUNT(*) DESC", "case_id", "prize_id"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToSummarizeBlocked, err)
	}
	defer rows.Close()

	var out []domain.BlockedPrizeSummary
	for rows.Next() {
		var s domain.BlockedPrizeSummary
		var maxValue, minCeiling, avgCeiling int64
		if err := rows.Scan(&s.CaseID, &s.PrizeID, &s.BlockedCount, &s.SoftCount, &s.HardCount,
			&maxValue, &minCeiling, &avgCeiling, &s.LastBlockedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToSummarizeBlocked, err)
		}
		s.MaxPrizeValue = domain.Money(maxValue)
		s.MinCeiling = domain.Money(minCeiling)
		s.AvgCeiling = domain.Money(avgCeiling)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *AuditRepository) DeleteBlockedEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	n, err := r.exec(ctx, psql.
		Delete(tableBlockedEvents).
		Where(sq.Lt{"created_at": cutoff}))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToDeleteBlocked, err)
	}
	return n, nil
}
