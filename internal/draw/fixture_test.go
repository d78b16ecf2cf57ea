package draw

import (
	"context"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CaseVault_Go/internal/audit"
	"github.com/osse101/CaseVault_Go/internal/catalog"
	"github.com/osse101/CaseVault_Go/internal/database/memory"
	"github.com/osse101/CaseVault_Go/internal/domain"
	"github.com/osse101/CaseVault_Go/internal/event"
	"github.com/osse101/CaseVault_Go/internal/ledger"
	"github.com/osse101/CaseVault_Go/internal/rtp"
	"github.com/osse101/CaseVault_Go/internal/safety"
	"github.com/osse101/CaseVault_Go/internal/session"
)

// countingStore records catalog and ledger reads on top of the memory store
type countingStore struct {
	*memory.Store
	caseReads    atomic.Int64
	accountReads atomic.Int64
	cashReads    atomic.Int64
}

func (c *countingStore) GetCase(ctx context.Context, caseID int64) (*domain.CatalogCase, error) {
	c.caseReads.Add(1)
	return c.Store.GetCase(ctx, caseID)
}

func (c *countingStore) GetAccount(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
	c.accountReads.Add(1)
	return c.Store.GetAccount(ctx, userID)
}

func (c *countingStore) GetCashPosition(ctx context.Context, since, until *time.Time) (domain.CashPosition, error) {
	c.cashReads.Add(1)
	return c.Store.GetCashPosition(ctx, since, until)
}

func (c *countingStore) LockCashPosition(ctx context.Context) (domain.CashPosition, error) {
	c.cashReads.Add(1)
	return c.Store.LockCashPosition(ctx)
}

func (c *countingStore) reads() int64 {
	return c.caseReads.Load() + c.accountReads.Load() + c.cashReads.Load()
}

type fixture struct {
	store  *memory.Store
	spy    *countingStore
	guard  safety.Guard
	rtp    rtp.Service
	svc    Service
	events []event.Event
	mu     sync.Mutex
}

// seededRand is safe for concurrent draws
func seededRand(seed uint64) func() float64 {
	var mu sync.Mutex
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return func() float64 {
		mu.Lock()
		defer mu.Unlock()
		return r.Float64()
	}
}

func newFixture(t *testing.T, cfg Config, rnd func() float64) *fixture {
	t.Helper()
	store := memory.New()
	f := &fixture{store: store, spy: &countingStore{Store: store}}

	bus := event.NewMemoryBus()
	for _, typ := range []event.Type{event.DrawCompleted, event.DrawRejected} {
		bus.Subscribe(typ, func(_ context.Context, e event.Event) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.events = append(f.events, e)
			return nil
		})
	}

	cash := ledger.NewReader(f.spy, "EUR")
	f.rtp = rtp.NewService(store, store, cash, bus, rtp.Config{
		MinTarget:     1000,
		MaxTarget:     9000,
		LookbackDays:  7,
		HighCoverDays: decimal.NewFromInt(14),
		MidCoverDays:  decimal.NewFromInt(7),
	}, nil)
	f.guard = safety.NewGuard(store, store, bus, safety.Config{WeightTolerance: decimal.RequireFromString("0.01")})
	f.svc = NewService(Deps{
		Catalog:  catalog.NewService(f.spy, catalog.Config{DisplayOnlyThreshold: 5_000_000}),
		Accounts: f.spy,
		Guard:    f.guard,
		Cash:     cash,
		RTP:      f.rtp,
		Sessions: session.NewTracker(store, bus),
		Ledger:   ledger.NewWriter(f.spy, store),
		Audit:    audit.NewService(store, store, bus, 500),
		Tx:       store,
		Bus:      bus,
		Rand:     rnd,
	}, cfg)
	return f
}

func (f *fixture) user(t *testing.T, balance domain.Money) uuid.UUID {
	t.Helper()
	id := uuid.New()
	f.store.AddAccount(domain.Account{ID: id, Active: true, Balance: balance})
	return id
}

func (f *fixture) balance(t *testing.T, id uuid.UUID) domain.Money {
	t.Helper()
	acc, ok := f.store.Account(id)
	require.True(t, ok)
	return acc.Balance
}

func (f *fixture) net(t *testing.T) domain.Money {
	t.Helper()
	pos, err := f.store.GetCashPosition(context.Background(), nil, nil)
	require.NoError(t, err)
	return pos.Net()
}

func (f *fixture) eventTypes() []event.Type {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]event.Type, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Type)
	}
	return out
}

func monetary(name string, value domain.Money, weight float64) domain.CatalogPrize {
	return domain.CatalogPrize{Name: name, Value: value, Category: "monetary", Weight: weight, DrawEligible: true, Active: true}
}

func displayOnly(name string, value domain.Money, weight float64) domain.CatalogPrize {
	return domain.CatalogPrize{Name: name, Value: value, Category: "display_only", Weight: weight, DrawEligible: true, Active: true}
}

// scenarioCase is the 2.50 case with prizes of 1.00, 5.00 and 500.00
func scenarioCase() domain.CatalogCase {
	return domain.CatalogCase{
		Name:   "Starter",
		Price:  250,
		Active: true,
		Prizes: []domain.CatalogPrize{
			monetary("one", 100, 0.8),
			monetary("five", 500, 0.15),
			monetary("jackpot", 50_000, 0.05),
		},
	}
}
