// Package ledger derives the operator's cash position from money movements and settles draws
// against user balances.
package ledger

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/osse101/CaseVault_Go/internal/domain"
	"github.com/osse101/CaseVault_Go/internal/logger"
	"github.com/osse101/CaseVault_Go/internal/repository"
)

// Reader answers cash position questions. It never writes.
type Reader interface {
	CashPosition(ctx context.Context) (domain.CashPosition, error)
	CashFlowSince(ctx context.Context, since time.Time) (domain.CashFlow, error)
	Stats(ctx context.Context) (*domain.CashPositionStats, error)
	// LockedCashPosition must run inside a transaction; concurrent callers are serialized until
	// the transaction ends
	LockedCashPosition(ctx context.Context) (domain.CashPosition, error)
}

type reader struct {
	repo      repository.Ledger
	formatter *Formatter
	now       func() time.Time
}

// NewReader creates a cash position reader. currencyCode is used for formatted amounts.
func NewReader(repo repository.Ledger, currencyCode string) Reader {
	f, ok := NewFormatter(currencyCode)
	if !ok {
		logger.FromContext(context.Background()).Warn(LogMsgBadCurrency, "currency", currencyCode)
	}
	return &reader{repo: repo, formatter: f, now: time.Now}
}

func (r *reader) CashPosition(ctx context.Context) (domain.CashPosition, error) {
	pos, err := r.repo.GetCashPosition(ctx, nil, nil)
	if err != nil {
		return pos, fmt.Errorf("%s: %w", ErrContextCashPosition, err)
	}
	return pos, nil
}

func (r *reader) CashFlowSince(ctx context.Context, since time.Time) (domain.CashFlow, error) {
	return r.cashFlow(ctx, since, r.now())
}

func (r *reader) cashFlow(ctx context.Context, since, until time.Time) (domain.CashFlow, error) {
	flow := domain.CashFlow{Since: since, Until: until}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		totals, err := r.repo.GetCashPosition(gctx, &since, &until)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrContextCashFlow, err)
		}
		flow.Totals = totals
		return nil
	})
	g.Go(func() error {
		n, err := r.repo.CountDraws(gctx, &since, &until)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrContextCountDraws, err)
		}
		flow.Draws = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return flow, err
	}
	flow.NetFlow = flow.Totals.Net()
	return flow, nil
}

// Stats fans out the current position and the 24h, 7d and 30d flows
func (r *reader) Stats(ctx context.Context) (*domain.CashPositionStats, error) {
	now := r.now()
	stats := &domain.CashPositionStats{GeneratedAt: now}

	windows := []struct {
		hours int
		dst   *domain.CashFlow
	}{
		{window24h, &stats.Last24h},
		{window7d, &stats.Last7d},
		{window30d, &stats.Last30d},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pos, err := r.CashPosition(gctx)
		stats.Current = pos
		return err
	})
	for _, w := range windows {
		g.Go(func() error {
			flow, err := r.cashFlow(gctx, now.Add(-time.Duration(w.hours)*time.Hour), now)
			*w.dst = flow
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.NetCash = stats.Current.Net()
	stats.NetCashFormatted = r.formatter.Format(stats.NetCash)
	stats.AvgDailyNet7d = stats.Last7d.NetFlow / 7
	stats.ObservedRTP7d = domain.RatioOf(stats.Last7d.Totals.PrizesPaid, stats.Last7d.Totals.Purchases)
	return stats, nil
}

func (r *reader) LockedCashPosition(ctx context.Context) (domain.CashPosition, error) {
	pos, err := r.repo.LockCashPosition(ctx)
	if err != nil {
		return pos, fmt.Errorf("%s: %w", ErrContextLockCash, err)
	}
	return pos, nil
}
