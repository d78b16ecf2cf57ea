package draw

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CaseVault_Go/internal/domain"
	"github.com/osse101/CaseVault_Go/internal/event"
	"github.com/osse101/CaseVault_Go/internal/metrics"
	"github.com/osse101/CaseVault_Go/internal/safety"
	"github.com/osse101/CaseVault_Go/internal/session"
)

func fixed(v float64) func() float64 {
	return func() float64 { return v }
}

func purchases(movements []domain.MoneyMovement) []domain.MoneyMovement {
	var out []domain.MoneyMovement
	for _, m := range movements {
		if m.Kind == domain.MovementPurchase {
			out = append(out, m)
		}
	}
	return out
}

func TestDraw_Awarded(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DefaultConfig(), fixed(0.5))
	caseID := f.store.AddCase(scenarioCase())
	user := f.user(t, 10_000)

	res, err := f.svc.Draw(ctx, caseID, user)
	require.NoError(t, err)

	assert.Equal(t, "one", res.Prize.Name)
	require.NotNil(t, res.Prize.ID)
	assert.Equal(t, domain.Money(100), res.Prize.Value)
	assert.Equal(t, domain.PrizeCategoryMonetary, res.Category)
	assert.Equal(t, domain.Money(5000), res.Ceiling)
	assert.False(t, res.ProtectionApplied)
	assert.False(t, res.Degraded)
	assert.Equal(t, domain.Money(10_000-250+100), res.BalanceAfter)
	assert.Equal(t, res.BalanceAfter, f.balance(t, user))
	assert.Equal(t, domain.Money(10_000-100), f.net(t))

	movements := f.store.Movements()
	require.Len(t, movements, 3)
	purchase, prize := movements[1], movements[2]
	assert.Equal(t, domain.MovementPurchase, purchase.Kind)
	assert.Equal(t, domain.MovementPrize, prize.Kind)
	assert.Equal(t, prize.ID, *purchase.LinkedID)
	assert.Equal(t, purchase.ID, *prize.LinkedID)
	assert.Equal(t, res.AuditID, *prize.DrawID)

	records := f.store.AuditRecords()
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, res.AuditID, rec.ID)
	assert.Equal(t, domain.OutcomeAwarded, rec.Outcome)
	assert.Equal(t, domain.Ratio(1500), rec.TargetRatio)
	assert.Equal(t, domain.Money(10_000), rec.CashBefore)
	assert.Equal(t, domain.Money(9_900), rec.CashAfter)
	assert.Equal(t, domain.Money(100), rec.CreditedValue)

	blocked := f.store.BlockedEvents()
	require.Len(t, blocked, 1, "the 500.00 prize is excluded")
	assert.Equal(t, rec.ID, blocked[0].DrawID)
	assert.Equal(t, domain.Money(50_000), blocked[0].PrizeValue)

	sessions := f.store.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, domain.Money(250), sessions[0].TotalSpent)
	assert.Equal(t, domain.Money(100), sessions[0].TotalWon)
	assert.Equal(t, domain.Ratio(1500), sessions[0].RTPLimit)

	assert.Equal(t, []event.Type{event.DrawCompleted}, f.eventTypes())
}

func TestDraw_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(f *fixture) (int64, uuid.UUID)
		wantErr error
	}{
		{
			name: "unknown case",
			setup: func(f *fixture) (int64, uuid.UUID) {
				return 999, f.user(t, 10_000)
			},
			wantErr: domain.ErrCaseNotFound,
		},
		{
			name: "inactive case",
			setup: func(f *fixture) (int64, uuid.UUID) {
				id := f.store.AddCase(scenarioCase())
				f.store.SetCaseActive(id, false)
				return id, f.user(t, 10_000)
			},
			wantErr: domain.ErrCaseInactive,
		},
		{
			name: "only display prizes",
			setup: func(f *fixture) (int64, uuid.UUID) {
				id := f.store.AddCase(domain.CatalogCase{Price: 250, Active: true, Prizes: []domain.CatalogPrize{
					displayOnly("car", 2_000_000, 1),
				}})
				return id, f.user(t, 10_000)
			},
			wantErr: domain.ErrCaseNoEligiblePrizes,
		},
		{
			name: "unknown user",
			setup: func(f *fixture) (int64, uuid.UUID) {
				return f.store.AddCase(scenarioCase()), uuid.New()
			},
			wantErr: domain.ErrUserNotFound,
		},
		{
			name: "banned user",
			setup: func(f *fixture) (int64, uuid.UUID) {
				id := uuid.New()
				f.store.AddAccount(domain.Account{ID: id, Active: true, Banned: true, Balance: 10_000})
				return f.store.AddCase(scenarioCase()), id
			},
			wantErr: domain.ErrUserIneligible,
		},
		{
			name: "cannot afford the case",
			setup: func(f *fixture) (int64, uuid.UUID) {
				return f.store.AddCase(scenarioCase()), f.user(t, 249)
			},
			wantErr: domain.ErrInsufficientBalance,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, DefaultConfig(), fixed(0.5))
			caseID, user := tt.setup(f)

			res, err := f.svc.Draw(context.Background(), caseID, user)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tt.wantErr)

			assert.Empty(t, purchases(f.store.Movements()))
			assert.Empty(t, f.store.Sessions())
			records := f.store.AuditRecords()
			require.Len(t, records, 1)
			assert.Equal(t, domain.OutcomeRejected, records[0].Outcome)
			assert.NotEmpty(t, records[0].ErrorDetail)
			assert.Equal(t, []event.Type{event.DrawRejected}, f.eventTypes())
		})
	}
}

func TestDraw_EmergencyModeSkipsEveryRead(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DefaultConfig(), fixed(0.5))
	caseID := f.store.AddCase(scenarioCase())
	user := f.user(t, 10_000)
	_, err := f.guard.Activate(ctx, "ops", "suspicious payouts")
	require.NoError(t, err)
	movementsBefore := len(f.store.Movements())

	_, err = f.svc.Draw(ctx, caseID, user)
	assert.ErrorIs(t, err, domain.ErrEmergencyModeActive)

	assert.Zero(t, f.spy.reads(), "no catalog, account or cash access")
	assert.Len(t, f.store.Movements(), movementsBefore)
	assert.Equal(t, domain.Money(10_000), f.balance(t, user))
	records := f.store.AuditRecords()
	require.Len(t, records, 1)
	assert.Equal(t, domain.OutcomeRejected, records[0].Outcome)

	_, err = f.guard.Deactivate(ctx, "ops")
	require.NoError(t, err)
	_, err = f.svc.Draw(ctx, caseID, user)
	assert.NoError(t, err)
}

func TestDraw_SessionLimit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DefaultConfig(), fixed(0.1))
	caseID := f.store.AddCase(domain.CatalogCase{Price: 250, Active: true, Prizes: []domain.CatalogPrize{
		monetary("ten", 1000, 1),
		displayOnly("car", 9_000_000, 5),
	}})
	user := f.user(t, 10_000)

	first, err := f.svc.Draw(ctx, caseID, user)
	require.NoError(t, err)
	assert.Equal(t, "ten", first.Prize.Name)
	assert.False(t, first.SessionLimited)

	for i := 0; i < 5; i++ {
		res, err := f.svc.Draw(ctx, caseID, user)
		require.NoError(t, err)
		assert.True(t, res.SessionLimited)
		assert.Nil(t, res.Prize.ID)
		assert.Equal(t, domain.Money(125), res.Prize.Value)
		require.Len(t, res.Decoration, 1)
		assert.Equal(t, "car", res.Decoration[0].Name)
		assert.True(t, res.Decoration[0].IsDisplayOnly())
	}
	records := f.store.AuditRecords()
	assert.Equal(t, domain.OutcomeSessionLimited, records[len(records)-1].Outcome)

	// A new session starts clean
	_, err = session.NewTracker(f.store, nil).CloseIdle(ctx, -time.Hour)
	require.NoError(t, err)
	res, err := f.svc.Draw(ctx, caseID, user)
	require.NoError(t, err)
	assert.False(t, res.SessionLimited)
	assert.Equal(t, "ten", res.Prize.Name)
}

func TestDraw_ClampsToCeiling(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinSafetyMargin = 0
	f := newFixture(t, cfg, fixed(0.5))
	caseID := f.store.AddCase(domain.CatalogCase{Price: 100, Active: true, Prizes: []domain.CatalogPrize{
		monetary("twelve", 1200, 1),
	}})
	user := f.user(t, 2000)

	res, err := f.svc.Draw(context.Background(), caseID, user)
	require.NoError(t, err)
	assert.Equal(t, domain.Money(1000), res.Ceiling)
	assert.Equal(t, domain.Money(1000), res.Prize.Value)
	assert.True(t, res.ProtectionApplied)
	assert.Equal(t, domain.Money(2000-100+1000), f.balance(t, user))

	rec := f.store.AuditRecords()[0]
	assert.Equal(t, domain.Money(1200), rec.PrizeValue)
	assert.Equal(t, domain.Money(1000), rec.CreditedValue)
	assert.True(t, rec.ProtectionApplied)
}

func TestDraw_NoAdmissiblePrizeAwardsMinimum(t *testing.T) {
	f := newFixture(t, DefaultConfig(), fixed(0.5))
	caseID := f.store.AddCase(domain.CatalogCase{Price: 100, Active: true, Prizes: []domain.CatalogPrize{
		monetary("huge", 100_000, 1),
	}})
	user := f.user(t, 1000)

	res, err := f.svc.Draw(context.Background(), caseID, user)
	require.NoError(t, err)
	assert.Nil(t, res.Prize.ID)
	assert.Equal(t, domain.FallbackPrizeName, res.Prize.Name)
	assert.Equal(t, domain.Money(100), res.Prize.Value)
	assert.True(t, res.ProtectionApplied)
	assert.False(t, res.Degraded)

	rec := f.store.AuditRecords()[0]
	assert.Equal(t, domain.OutcomeFallback, rec.Outcome)
	require.Len(t, f.store.BlockedEvents(), 1)
	assert.Equal(t, domain.BlockTierHard, f.store.BlockedEvents()[0].Tier)
}

func TestDraw_CashRecheckReducesCredit(t *testing.T) {
	f := newFixture(t, DefaultConfig(), fixed(0.5))
	caseID := f.store.AddCase(domain.CatalogCase{Price: 500, Active: true, Prizes: []domain.CatalogPrize{
		monetary("twenty", 2000, 1),
	}})
	user := f.user(t, 1000)
	rejections := metrics.GuardRejections.WithLabelValues(safety.ReasonPayoutUnsafe)
	before := testutil.ToFloat64(rejections)

	res, err := f.svc.Draw(context.Background(), caseID, user)
	require.NoError(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(rejections))
	assert.Equal(t, domain.Money(5000), res.Ceiling, "the ceiling alone would allow the prize")
	assert.Equal(t, domain.Money(250), res.Prize.Value)
	assert.True(t, res.ProtectionApplied)
	assert.Equal(t, domain.Money(750), f.net(t))
	assert.Equal(t, domain.Money(1000-500+250), f.balance(t, user))

	rec := f.store.AuditRecords()[0]
	assert.Equal(t, domain.Money(2000), rec.PrizeValue)
	assert.Equal(t, domain.Money(250), rec.CreditedValue)
	assert.Equal(t, domain.Money(750), rec.CashAfter)
}

func TestDraw_DemoAccount(t *testing.T) {
	f := newFixture(t, DefaultConfig(), fixed(0.5))
	caseID := f.store.AddCase(scenarioCase())
	demo := uuid.New()
	f.store.AddAccount(domain.Account{ID: demo, Active: true, Demo: true, Balance: 10_000})

	res, err := f.svc.Draw(context.Background(), caseID, demo)
	require.NoError(t, err)
	assert.Equal(t, domain.Money(100), res.Prize.Value)
	assert.Zero(t, f.net(t))
	for _, m := range f.store.Movements() {
		assert.True(t, m.Demo)
	}
}

func TestDraw_FailuresDegradeToMinimumPrize(t *testing.T) {
	tests := []struct {
		name   string
		inject func(f *fixture)
	}{
		{"cash read fails", func(f *fixture) { f.store.FailOnce("GetCashPosition", errors.New("timeout")) }},
		{"rtp read fails", func(f *fixture) { f.store.FailOnce("GetRTPConfig", errors.New("timeout")) }},
		{"movement insert fails", func(f *fixture) { f.store.FailOnce("InsertMovements", errors.New("deadlock")) }},
		{"session update fails", func(f *fixture) { f.store.FailOnce("UpdateSession", errors.New("deadlock")) }},
		{"session read panics", func(f *fixture) { f.store.PanicOnce("GetActiveSessionForUpdate", "nil map") }},
		{"account read fails", func(f *fixture) { f.store.FailOnce("GetAccount", errors.New("timeout")) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, DefaultConfig(), fixed(0.5))
			caseID := f.store.AddCase(scenarioCase())
			user := f.user(t, 10_000)
			tt.inject(f)

			res, err := f.svc.Draw(context.Background(), caseID, user)
			require.NoError(t, err)
			assert.True(t, res.Degraded)
			assert.True(t, res.ProtectionApplied)
			assert.Nil(t, res.Prize.ID)
			assert.Equal(t, domain.Money(125), res.Prize.Value)
			assert.Equal(t, domain.Money(10_000-250+125), f.balance(t, user))
			assert.Len(t, purchases(f.store.Movements()), 1)

			records := f.store.AuditRecords()
			require.Len(t, records, 1)
			assert.Equal(t, domain.OutcomeFallback, records[0].Outcome)
			assert.True(t, records[0].Degraded)
			assert.NotEmpty(t, records[0].ErrorDetail)
			assert.Empty(t, f.store.BlockedEvents())
		})
	}
}

func TestDraw_FailedFallbackDebitsNothing(t *testing.T) {
	f := newFixture(t, DefaultConfig(), fixed(0.5))
	caseID := f.store.AddCase(scenarioCase())
	user := f.user(t, 10_000)
	f.store.FailOnce("GetActiveSessionForUpdate", errors.New("connection reset"))
	f.store.FailOnce("InsertMovements", errors.New("connection reset"))

	res, err := f.svc.Draw(context.Background(), caseID, user)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrInternal)
	assert.Equal(t, domain.Money(10_000), f.balance(t, user))
	assert.Empty(t, purchases(f.store.Movements()))

	records := f.store.AuditRecords()
	require.Len(t, records, 1)
	assert.Equal(t, domain.OutcomeError, records[0].Outcome)
}

func TestDraw_CaseLoadFailureIsInternal(t *testing.T) {
	f := newFixture(t, DefaultConfig(), fixed(0.5))
	caseID := f.store.AddCase(scenarioCase())
	user := f.user(t, 10_000)
	f.store.FailOnce("GetCase", errors.New("catalog unavailable"))

	_, err := f.svc.Draw(context.Background(), caseID, user)
	assert.ErrorIs(t, err, domain.ErrInternal)
	assert.Len(t, f.store.AuditRecords(), 1)
}

func TestDraw_NonFiniteWeightCountsAsZero(t *testing.T) {
	for name, w := range map[string]float64{"inf": math.Inf(1), "nan": math.NaN()} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, DefaultConfig(), fixed(0.5))
			c := scenarioCase()
			c.Prizes[0].Weight = w
			caseID := f.store.AddCase(c)
			user := f.user(t, 10_000)

			var (
				res *domain.DrawResult
				err error
			)
			require.NotPanics(t, func() {
				res, err = f.svc.Draw(context.Background(), caseID, user)
			})
			require.NoError(t, err)
			assert.False(t, res.Degraded)
			assert.Equal(t, "five", res.Prize.Name)
			assert.Equal(t, domain.Money(500), res.Prize.Value)
		})
	}
}

func TestDraw_PanicsAreRecorded(t *testing.T) {
	tests := []struct {
		name     string
		inject   func(f *fixture)
		degraded bool
	}{
		{"catalog read panics", func(f *fixture) { f.store.PanicOnce("GetCase", "store exploded") }, false},
		{"emergency read panics", func(f *fixture) { f.store.PanicOnce("GetEmergencyState", "store exploded") }, false},
		{"account read panics", func(f *fixture) { f.store.PanicOnce("GetAccount", "store exploded") }, true},
		{"fallback settlement panics", func(f *fixture) {
			f.store.FailOnce("GetCashPosition", errors.New("timeout"))
			f.store.PanicOnce("InsertMovements", "store exploded")
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, DefaultConfig(), fixed(0.5))
			caseID := f.store.AddCase(scenarioCase())
			user := f.user(t, 10_000)
			tt.inject(f)

			var (
				res *domain.DrawResult
				err error
			)
			require.NotPanics(t, func() {
				res, err = f.svc.Draw(context.Background(), caseID, user)
			})

			records := f.store.AuditRecords()
			require.Len(t, records, 1)
			assert.Contains(t, records[0].ErrorDetail, "store exploded")
			if tt.degraded {
				require.NoError(t, err)
				assert.True(t, res.Degraded)
				assert.Equal(t, domain.OutcomeFallback, records[0].Outcome)
				assert.Equal(t, domain.Money(10_000-250+125), f.balance(t, user))
				return
			}
			assert.Nil(t, res)
			assert.ErrorIs(t, err, domain.ErrInternal)
			assert.Equal(t, domain.OutcomeError, records[0].Outcome)
			assert.Equal(t, domain.Money(10_000), f.balance(t, user))
			assert.Empty(t, purchases(f.store.Movements()))
		})
	}
}

func TestDraw_ConcurrentSameUserAndCase(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, DefaultConfig(), seededRand(3))
	caseID := f.store.AddCase(scenarioCase())
	user := f.user(t, 100_000)

	const n = 40
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		credited domain.Money
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.svc.Draw(ctx, caseID, user)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			credited += res.Prize.Value
			mu.Unlock()
		}()
	}
	wg.Wait()

	sessions := f.store.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, domain.Money(n*250), sessions[0].TotalSpent)
	assert.Equal(t, credited, sessions[0].TotalWon)
	assert.Equal(t, domain.Money(100_000-n*250)+credited, f.balance(t, user))
	assert.Len(t, f.store.AuditRecords(), n)
}
