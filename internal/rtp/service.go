// Package rtp owns the platform payout target: the versioned configuration, its append-only
// history and the cash-flow based recommendation.
package rtp

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/shopspring/decimal"

	"github.com/osse101/CaseVault_Go/internal/domain"
	"github.com/osse101/CaseVault_Go/internal/event"
	"github.com/osse101/CaseVault_Go/internal/ledger"
	"github.com/osse101/CaseVault_Go/internal/logger"
	"github.com/osse101/CaseVault_Go/internal/repository"
)

// Bands are the recommendation ranges from most to least generous
type Bands struct {
	High         domain.RTPBand
	Mid          domain.RTPBand
	Conservative domain.RTPBand
}

// Config bounds the target and tunes the recommendation
type Config struct {
	MinTarget     domain.Ratio
	MaxTarget     domain.Ratio
	CacheTTL      time.Duration
	LookbackDays  int
	HighCoverDays decimal.Decimal
	MidCoverDays  decimal.Decimal
	Bands         Bands
}

// Service manages the RTP target
type Service interface {
	// GetConfig may serve a copy up to CacheTTL old
	GetConfig(ctx context.Context) (*domain.RTPConfig, error)
	SetTarget(ctx context.Context, ratio domain.Ratio, actor, reason string) (*domain.RTPConfig, error)
	Recommend(ctx context.Context) (*domain.RTPRecommendation, error)
	ApplyRecommendation(ctx context.Context, actor string) (*domain.RTPConfig, error)
	History(ctx context.Context, limit int) ([]domain.RTPHistoryEntry, error)
}

type service struct {
	repo  repository.RTP
	txm   repository.TxManager
	cash  ledger.Reader
	bus   event.Bus
	cfg   Config
	cache *expirable.LRU[string, domain.RTPConfig]
	rnd   func(n int64) int64
	now   func() time.Time
}

// NewService creates the RTP service. rnd returns a uniform value in [0, n); nil uses
// math/rand/v2.
func NewService(repo repository.RTP, txm repository.TxManager, cash ledger.Reader, bus event.Bus, cfg Config, rnd func(n int64) int64) Service {
	if rnd == nil {
		rnd = rand.Int64N
	}
	if bus == nil {
		bus = event.NopBus{}
	}
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = 7
	}
	s := &service{repo: repo, txm: txm, cash: cash, bus: bus, cfg: cfg, rnd: rnd, now: time.Now}
	if cfg.CacheTTL > 0 {
		s.cache = expirable.NewLRU[string, domain.RTPConfig](1, nil, cfg.CacheTTL)
	}
	return s
}

func (s *service) GetConfig(ctx context.Context) (*domain.RTPConfig, error) {
	if s.cache != nil {
		if cfg, ok := s.cache.Get(cacheKey); ok {
			logger.FromContext(ctx).Debug(LogMsgConfigCacheHit, "version", cfg.Version)
			return &cfg, nil
		}
	}
	cfg, err := s.repo.GetRTPConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextGetConfig, err)
	}
	if s.cache != nil {
		s.cache.Add(cacheKey, *cfg)
	}
	return cfg, nil
}

func (s *service) invalidate() {
	if s.cache != nil {
		s.cache.Remove(cacheKey)
	}
}

func (s *service) checkBounds(ratio domain.Ratio) error {
	if ratio < s.cfg.MinTarget || ratio > s.cfg.MaxTarget {
		return fmt.Errorf("%w: %s not within [%s, %s]", domain.ErrRTPOutOfBounds, ratio, s.cfg.MinTarget, s.cfg.MaxTarget)
	}
	return nil
}

func (s *service) SetTarget(ctx context.Context, ratio domain.Ratio, actor, reason string) (*domain.RTPConfig, error) {
	if err := s.checkBounds(ratio); err != nil {
		return nil, err
	}
	if strings.TrimSpace(reason) == "" {
		return nil, domain.ErrReasonRequired
	}
	cfg, err := s.change(ctx, ratio, actor, reason, domain.RTPSourceManual)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextSetTarget, err)
	}
	return cfg, nil
}

// change writes the new target and its history entry in one transaction
func (s *service) change(ctx context.Context, ratio domain.Ratio, actor, reason string, source domain.RTPChangeSource) (*domain.RTPConfig, error) {
	var (
		cfg *domain.RTPConfig
		old domain.Ratio
	)
	err := s.txm.Do(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetRTPConfigForUpdate(ctx)
		if err != nil {
			return err
		}
		old = current.TargetRatio
		now := s.now()

		// A pending recommendation was computed against the old target
		next := *current
		next.TargetRatio = ratio
		next.RecommendedRatio = nil
		next.UpdatedBy = actor
		next.UpdatedAt = now
		if err := s.repo.SaveRTPConfig(ctx, &next); err != nil {
			return err
		}
		if err := s.repo.AppendRTPHistory(ctx, &domain.RTPHistoryEntry{
			OldRatio:  old,
			NewRatio:  ratio,
			Reason:    reason,
			Actor:     actor,
			Source:    source,
			CreatedAt: now,
		}); err != nil {
			return err
		}
		cfg = &next
		return nil
	})
	s.invalidate()
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgTargetChanged,
		"old", old.String(),
		"new", ratio.String(),
		"actor", actor,
		"source", source,
		"version", cfg.Version)
	event.Emit(ctx, s.bus, event.New(event.RTPTargetChanged, event.RTPTargetChangedPayloadV1{
		OldRatioBP: int64(old),
		NewRatioBP: int64(ratio),
		Actor:      actor,
		Source:     string(source),
		Reason:     reason,
	}))
	return cfg, nil
}

// Recommend samples a ratio from the band chosen by how many days of average net inflow the
// current net cash covers, stores it and returns it
func (s *service) Recommend(ctx context.Context) (*domain.RTPRecommendation, error) {
	now := s.now()
	pos, err := s.cash.CashPosition(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextRecommend, err)
	}
	flow, err := s.cash.CashFlowSince(ctx, now.AddDate(0, 0, -s.cfg.LookbackDays))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextRecommend, err)
	}
	current, err := s.GetConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextRecommend, err)
	}

	net := pos.Net()
	avg := flow.NetFlow / domain.Money(s.cfg.LookbackDays)
	name, band := s.pickBand(net, avg)
	ratio := s.sample(band)

	if err := s.repo.SetRecommendedRatio(ctx, ratio); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextRecommend, err)
	}
	s.invalidate()

	rec := &domain.RTPRecommendation{
		Ratio:          ratio,
		Band:           name,
		NetCash:        net,
		AvgDailyInflow: avg,
		DaysOfInflow:   daysOfInflow(net, avg),
		CurrentTarget:  current.TargetRatio,
		ComputedAt:     now,
	}
	logger.FromContext(ctx).Info(LogMsgRecommendation,
		"ratio", ratio.String(),
		"band", name,
		"net_cash", net.String(),
		"avg_daily_inflow", avg.String())
	event.Emit(ctx, s.bus, event.New(event.RTPRecommended, event.RTPRecommendedPayloadV1{
		RatioBP: int64(ratio),
		Band:    name,
		NetCash: int64(net),
	}))
	return rec, nil
}

func (s *service) pickBand(net, avg domain.Money) (string, domain.RTPBand) {
	if avg <= 0 {
		return BandConservative, s.cfg.Bands.Conservative
	}
	n := decimal.NewFromInt(int64(net))
	a := decimal.NewFromInt(int64(avg))
	switch {
	case n.GreaterThan(a.Mul(s.cfg.HighCoverDays)):
		return BandHigh, s.cfg.Bands.High
	case n.GreaterThan(a.Mul(s.cfg.MidCoverDays)):
		return BandMid, s.cfg.Bands.Mid
	default:
		return BandConservative, s.cfg.Bands.Conservative
	}
}

// sample draws uniformly from the inclusive band and keeps the result within the target bounds
func (s *service) sample(band domain.RTPBand) domain.Ratio {
	lo, hi := band.Min, band.Max
	if hi < lo {
		lo, hi = hi, lo
	}
	r := lo + domain.Ratio(s.rnd(int64(hi-lo)+1))
	return min(max(r, s.cfg.MinTarget), s.cfg.MaxTarget)
}

func daysOfInflow(net, avg domain.Money) string {
	if avg <= 0 {
		return daysUnknown
	}
	return decimal.NewFromInt(int64(net)).Div(decimal.NewFromInt(int64(avg))).StringFixed(1)
}

// ApplyRecommendation makes the pending recommendation the target, computing one first if none
// is pending. Any target change consumes the pending recommendation.
func (s *service) ApplyRecommendation(ctx context.Context, actor string) (*domain.RTPConfig, error) {
	current, err := s.repo.GetRTPConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextApply, err)
	}

	var ratio domain.Ratio
	var reason string
	if current.RecommendedRatio != nil {
		ratio = *current.RecommendedRatio
		reason = "applied pending recommendation"
	} else {
		rec, err := s.Recommend(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrContextApply, err)
		}
		ratio = rec.Ratio
		reason = fmt.Sprintf("applied %s band recommendation", rec.Band)
	}
	if err := s.checkBounds(ratio); err != nil {
		return nil, err
	}

	cfg, err := s.change(ctx, ratio, actor, reason, domain.RTPSourceRecommendation)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextApply, err)
	}
	return cfg, nil
}

func (s *service) History(ctx context.Context, limit int) ([]domain.RTPHistoryEntry, error) {
	entries, err := s.repo.ListRTPHistory(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextGetHistory, err)
	}
	return entries, nil
}
