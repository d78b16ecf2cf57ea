package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/CaseVault_Go/internal/domain"
	"github.com/osse101/CaseVault_Go/internal/repository"
)

var _ repository.Audit = (*Store)(nil)

// InsertAuditRecord rejects a draw id that is already recorded
func (s *Store) InsertAuditRecord(ctx context.Context, record *domain.AuditRecord) error {
	return s.locked(ctx, "InsertAuditRecord", func() error {
		if _, dup := s.audit[record.ID]; dup {
			return fmt.Errorf("%w: duplicate draw id %s", domain.ErrInvalidInput, record.ID)
		}
		if record.CreatedAt.IsZero() {
			record.CreatedAt = s.now()
		}
		s.audit[record.ID] = *record
		s.auditOrder = append(s.auditOrder, record.ID)
		return nil
	})
}

func (s *Store) InsertBlockedEvents(ctx context.Context, events []domain.BlockedPrizeEvent) error {
	return s.locked(ctx, "InsertBlockedEvents", func() error {
		for _, e := range events {
			e.ID = s.id()
			if e.CreatedAt.IsZero() {
				e.CreatedAt = s.now()
			}
			s.blocked = append(s.blocked, e)
		}
		return nil
	})
}

func (s *Store) GetAuditRecord(ctx context.Context, id uuid.UUID) (*domain.AuditRecord, error) {
	var out *domain.AuditRecord
	err := s.locked(ctx, "GetAuditRecord", func() error {
		r, ok := s.audit[id]
		if !ok {
			return domain.ErrAuditRecordNotFound
		}
		out = &r
		return nil
	})
	return out, err
}

func matches(r domain.AuditRecord, f domain.AuditFilter) bool {
	switch {
	case f.UserID != nil && r.UserID != *f.UserID:
		return false
	case f.CaseID != nil && r.CaseID != *f.CaseID:
		return false
	case f.Outcome != nil && r.Outcome != *f.Outcome:
		return false
	case f.ProtectionOnly && !r.ProtectionApplied:
		return false
	}
	return inWindow(r.CreatedAt, f.Since, f.Until)
}

// QueryAuditRecords returns matches newest first
func (s *Store) QueryAuditRecords(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditRecord, error) {
	var out []domain.AuditRecord
	err := s.locked(ctx, "QueryAuditRecords", func() error {
		skipped := 0
		for i := len(s.auditOrder) - 1; i >= 0; i-- {
			r := s.audit[s.auditOrder[i]]
			if !matches(r, filter) {
				continue
			}
			if skipped < filter.Offset {
				skipped++
				continue
			}
			out = append(out, r)
			if filter.Limit > 0 && len(out) >= filter.Limit {
				break
			}
		}
		return nil
	})
	return out, err
}

func (s *Store) SummarizeBlockedPrizes(ctx context.Context, since time.Time) ([]domain.BlockedPrizeSummary, error) {
	type key struct{ caseID, prizeID int64 }
	type agg struct {
		sum          domain.BlockedPrizeSummary
		ceilingTotal int64
	}

	var out []domain.BlockedPrizeSummary
	err := s.locked(ctx, "SummarizeBlockedPrizes", func() error {
		groups := make(map[key]*agg)
		for _, e := range s.blocked {
			if e.CreatedAt.Before(since) {
				continue
			}
			k := key{e.CaseID, e.PrizeID}
			g, ok := groups[k]
			if !ok {
				g = &agg{sum: domain.BlockedPrizeSummary{CaseID: e.CaseID, PrizeID: e.PrizeID, MinCeiling: e.Ceiling}}
				groups[k] = g
			}
			g.sum.BlockedCount++
			switch e.Tier {
			case domain.BlockTierSoft:
				g.sum.SoftCount++
			case domain.BlockTierHard:
				g.sum.HardCount++
			}
			g.sum.MaxPrizeValue = domain.MaxMoney(g.sum.MaxPrizeValue, e.PrizeValue)
			g.sum.MinCeiling = domain.MinMoney(g.sum.MinCeiling, e.Ceiling)
			g.ceilingTotal += int64(e.Ceiling)
			if e.CreatedAt.After(g.sum.LastBlockedAt) {
				g.sum.LastBlockedAt = e.CreatedAt
			}
		}
		for _, g := range groups {
			g.sum.AvgCeiling = domain.Money(g.ceilingTotal / g.sum.BlockedCount)
			out = append(out, g.sum)
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].BlockedCount != out[j].BlockedCount {
				return out[i].BlockedCount > out[j].BlockedCount
			}
			if out[i].CaseID != out[j].CaseID {
				return out[i].CaseID < out[j].CaseID
			}
			return out[i].PrizeID < out[j].PrizeID
		})
		return nil
	})
	return out, err
}

func (s *Store) DeleteBlockedEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var n int64
	err := s.locked(ctx, "DeleteBlockedEventsBefore", func() error {
		kept := s.blocked[:0]
		for _, e := range s.blocked {
			if e.CreatedAt.Before(cutoff) {
				n++
				continue
			}
			kept = append(kept, e)
		}
		s.blocked = kept
		return nil
	})
	return n, err
}
