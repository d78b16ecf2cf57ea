package rtp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CaseVault_Go/internal/database/memory"
	"github.com/osse101/CaseVault_Go/internal/domain"
	"github.com/osse101/CaseVault_Go/internal/event"
	"github.com/osse101/CaseVault_Go/internal/ledger"
)

func testConfig() Config {
	return Config{
		MinTarget:     1000,
		MaxTarget:     9000,
		CacheTTL:      time.Minute,
		LookbackDays:  7,
		HighCoverDays: decimal.NewFromInt(14),
		MidCoverDays:  decimal.NewFromInt(7),
		Bands: Bands{
			High:         domain.RTPBand{Min: 3500, Max: 4500},
			Mid:          domain.RTPBand{Min: 2000, Max: 3000},
			Conservative: domain.RTPBand{Min: 1000, Max: 1500},
		},
	}
}

type fixture struct {
	store  *memory.Store
	svc    *service
	bus    *event.MemoryBus
	events []event.Event
}

// newFixture builds a service whose random source always returns the top of the range
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: memory.New(), bus: event.NewMemoryBus()}
	for _, typ := range []event.Type{event.RTPTargetChanged, event.RTPRecommended} {
		f.bus.Subscribe(typ, func(_ context.Context, e event.Event) error {
			f.events = append(f.events, e)
			return nil
		})
	}
	svc := NewService(f.store, f.store, ledger.NewReader(f.store, "EUR"), f.bus, testConfig(),
		func(n int64) int64 { return n - 1 })
	f.svc = svc.(*service)
	return f
}

// fund books deposits so that net cash is net and the last seven days saw inflow
func (f *fixture) fund(t *testing.T, old, recent domain.Money) {
	t.Helper()
	user := uuid.New()
	now := time.Now()
	f.store.SetClock(func() time.Time { return now.AddDate(0, 0, -30) })
	f.store.AddAccount(domain.Account{ID: user, Active: true, Balance: old})
	f.store.SetClock(func() time.Time { return now.Add(-time.Hour) })
	if recent > 0 {
		require.NoError(t, f.store.Book(user, domain.MovementDeposit, recent))
	}
	f.store.SetClock(time.Now)
}

func TestSetTarget(t *testing.T) {
	ctx := context.Background()

	t.Run("out of bounds", func(t *testing.T) {
		f := newFixture(t)
		for _, r := range []domain.Ratio{999, 9001, 0} {
			_, err := f.svc.SetTarget(ctx, r, "admin", "why")
			assert.ErrorIs(t, err, domain.ErrRTPOutOfBounds)
		}
		hist, _ := f.svc.History(ctx, 0)
		assert.Len(t, hist, 1, "rejections leave no history")
	})

	t.Run("reason required", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.SetTarget(ctx, 2000, "admin", "  ")
		assert.ErrorIs(t, err, domain.ErrReasonRequired)
	})

	t.Run("writes target, history and event", func(t *testing.T) {
		f := newFixture(t)
		before, err := f.svc.GetConfig(ctx)
		require.NoError(t, err)

		cfg, err := f.svc.SetTarget(ctx, 2500, "admin", "weekend promo")
		require.NoError(t, err)
		assert.Equal(t, domain.Ratio(2500), cfg.TargetRatio)
		assert.Equal(t, before.Version+1, cfg.Version)
		assert.Equal(t, "admin", cfg.UpdatedBy)

		got, err := f.svc.GetConfig(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.Ratio(2500), got.TargetRatio, "write must invalidate the cache")

		hist, err := f.svc.History(ctx, 1)
		require.NoError(t, err)
		require.Len(t, hist, 1)
		assert.Equal(t, domain.Ratio(1500), hist[0].OldRatio)
		assert.Equal(t, domain.Ratio(2500), hist[0].NewRatio)
		assert.Equal(t, domain.RTPSourceManual, hist[0].Source)
		assert.Equal(t, "weekend promo", hist[0].Reason)

		require.Len(t, f.events, 1)
		assert.Equal(t, event.RTPTargetChanged, f.events[0].Type)
	})

	t.Run("history failure rolls back the target", func(t *testing.T) {
		f := newFixture(t)
		f.store.FailOnce("AppendRTPHistory", errors.New("boom"))

		_, err := f.svc.SetTarget(ctx, 3000, "admin", "test")
		require.Error(t, err)

		cfg, err := f.store.GetRTPConfig(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.Ratio(1500), cfg.TargetRatio)
		assert.Empty(t, f.events)
	})
}

func TestGetConfig_ServesFromCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.GetConfig(ctx)
	require.NoError(t, err)

	// a direct write behind the service's back is not visible until the entry expires
	require.NoError(t, f.store.SaveRTPConfig(ctx, &domain.RTPConfig{TargetRatio: 4000, UpdatedBy: "sql"}))
	cfg, err := f.svc.GetConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Ratio(1500), cfg.TargetRatio)

	f.svc.invalidate()
	cfg, err = f.svc.GetConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Ratio(4000), cfg.TargetRatio)
}

func TestRecommend_Bands(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name      string
		old       domain.Money
		recent    domain.Money
		wantBand  string
		wantRatio domain.Ratio
	}{
		// recent 7_000 over 7 days is 1_000 a day
		{"more than fourteen days of inflow", 8_000, 7_000, BandHigh, 4500},
		{"between seven and fourteen days", 1_000, 7_000, BandMid, 3000},
		{"exactly seven days is conservative", 0, 7_000, BandConservative, 1500},
		{"no inflow", 50_000, 0, BandConservative, 1500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.fund(t, tt.old, tt.recent)

			rec, err := f.svc.Recommend(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.wantBand, rec.Band)
			assert.Equal(t, tt.wantRatio, rec.Ratio)
			assert.Equal(t, tt.old+tt.recent, rec.NetCash)

			cfg, err := f.svc.GetConfig(ctx)
			require.NoError(t, err)
			require.NotNil(t, cfg.RecommendedRatio)
			assert.Equal(t, tt.wantRatio, *cfg.RecommendedRatio)
			assert.Equal(t, domain.Ratio(1500), cfg.TargetRatio, "recommend never changes the target")
		})
	}
}

func TestRecommend_SamplesWithinBand(t *testing.T) {
	f := newFixture(t)
	f.svc.rnd = func(n int64) int64 {
		assert.Equal(t, int64(1001), n)
		return 0
	}
	f.fund(t, 8_000, 7_000)

	rec, err := f.svc.Recommend(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Ratio(3500), rec.Ratio)
	assert.Equal(t, "15.0", rec.DaysOfInflow)
}

func TestApplyRecommendation(t *testing.T) {
	ctx := context.Background()

	t.Run("uses stored recommendation", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.store.SetRecommendedRatio(ctx, 2200))

		cfg, err := f.svc.ApplyRecommendation(ctx, "ops")
		require.NoError(t, err)
		assert.Equal(t, domain.Ratio(2200), cfg.TargetRatio)

		hist, err := f.svc.History(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, domain.RTPSourceRecommendation, hist[0].Source)
		assert.Equal(t, "ops", hist[0].Actor)
	})

	t.Run("applied recommendation is consumed", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.store.SetRecommendedRatio(ctx, 2200))
		_, err := f.svc.ApplyRecommendation(ctx, "ops")
		require.NoError(t, err)

		stored, err := f.store.GetRTPConfig(ctx)
		require.NoError(t, err)
		assert.Nil(t, stored.RecommendedRatio)

		f.fund(t, 1_000, 7_000)
		cfg, err := f.svc.ApplyRecommendation(ctx, "ops")
		require.NoError(t, err)
		assert.Equal(t, domain.Ratio(3000), cfg.TargetRatio, "a fresh recommendation replaces the applied one")
	})

	t.Run("manual change discards pending recommendation", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.store.SetRecommendedRatio(ctx, 2200))
		_, err := f.svc.SetTarget(ctx, 1800, "ops", "campaign")
		require.NoError(t, err)

		stored, err := f.store.GetRTPConfig(ctx)
		require.NoError(t, err)
		assert.Nil(t, stored.RecommendedRatio)
	})

	t.Run("computes one when none is stored", func(t *testing.T) {
		f := newFixture(t)
		f.fund(t, 1_000, 7_000)

		cfg, err := f.svc.ApplyRecommendation(ctx, "ops")
		require.NoError(t, err)
		assert.Equal(t, domain.Ratio(3000), cfg.TargetRatio)
		require.Len(t, f.events, 2)
		assert.Equal(t, event.RTPRecommended, f.events[0].Type)
		assert.Equal(t, event.RTPTargetChanged, f.events[1].Type)
	})
}

func TestRecommendJob(t *testing.T) {
	f := newFixture(t)
	job := &RecommendJob{Service: f.svc}
	assert.Equal(t, "rtp_recommend", job.Name())
	require.NoError(t, job.Process(context.Background()))

	cfg, err := f.store.GetRTPConfig(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, cfg.RecommendedRatio)
}
