package session

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CaseVault_Go/internal/database/memory"
	"github.com/osse101/CaseVault_Go/internal/domain"
	"github.com/osse101/CaseVault_Go/internal/event"
)

func TestGetOrCreate(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	tr := NewTracker(store, nil)
	user := uuid.New()

	first, err := tr.GetOrCreate(ctx, user, 1, 1500)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionActive, first.Status)
	assert.Equal(t, domain.Ratio(1500), first.RTPLimit)

	again, err := tr.GetOrCreate(ctx, user, 1, 9000)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, domain.Ratio(1500), again.RTPLimit, "the limit is fixed when the session starts")

	other, err := tr.GetOrCreate(ctx, user, 2, 1500)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestGetOrCreate_LosesInsertRace(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	user := uuid.New()
	winner := domain.NewUserCaseSession(user, 3, 1500, time.Now())

	repo.On("GetActiveSessionForUpdate", ctx, user, int64(3)).Return(nil, domain.ErrSessionNotFound).Once()
	repo.On("CreateSession", ctx, mock.Anything).Return(domain.ErrSessionConflict).Once()
	repo.On("GetActiveSessionForUpdate", ctx, user, int64(3)).Return(winner, nil).Once()

	got, err := NewTracker(repo, nil).GetOrCreate(ctx, user, 3, 1500)
	require.NoError(t, err)
	assert.Equal(t, winner.ID, got.ID)
	repo.AssertExpectations(t)
}

func TestGetOrCreate_RepositoryError(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	user := uuid.New()
	repo.On("GetActiveSessionForUpdate", ctx, user, int64(3)).Return(nil, errors.New("db down"))

	_, err := NewTracker(repo, nil).GetOrCreate(ctx, user, 3, 1500)
	assert.ErrorContains(t, err, ErrContextGetSession)
	repo.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
}

func TestRecordPurchase_LimitIsSticky(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	bus := event.NewMemoryBus()
	var limitEvents int
	bus.Subscribe(event.SessionLimitReached, func(context.Context, event.Event) error {
		limitEvents++
		return nil
	})
	tr := NewTracker(store, bus)

	s, err := tr.GetOrCreate(ctx, uuid.New(), 1, 5000)
	require.NoError(t, err)

	s, err = tr.RecordPurchase(ctx, s, 1000, 100)
	require.NoError(t, err)
	assert.False(t, s.LimitReached)

	s, err = tr.RecordPurchase(ctx, s, 1000, 1900)
	require.NoError(t, err)
	assert.True(t, s.LimitReached, "2000/2000 spent crosses 50%")

	s, err = tr.RecordPurchase(ctx, s, 100_000, 0)
	require.NoError(t, err)
	assert.True(t, s.LimitReached, "the flag never reverts")
	assert.Equal(t, 1, limitEvents)

	stored, err := store.GetActiveSessionForUpdate(ctx, s.UserID, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.Money(102_000), stored.TotalSpent)
	assert.Equal(t, domain.Money(2_000), stored.TotalWon)
}

func TestRecordPurchase_RejectsNegativeAmounts(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	tr := NewTracker(store, nil)
	s, err := tr.GetOrCreate(ctx, uuid.New(), 1, 5000)
	require.NoError(t, err)

	_, err = tr.RecordPurchase(ctx, s, -1, 0)
	assert.ErrorIs(t, err, domain.ErrNegativeAmount)
	_, err = tr.RecordPurchase(ctx, s, 0, -1)
	assert.ErrorIs(t, err, domain.ErrNegativeAmount)
}

func TestRecordPurchase_Monotonic(t *testing.T) {
	ctx := context.Background()
	tr := NewTracker(memory.New(), nil)
	s, err := tr.GetOrCreate(ctx, uuid.New(), 1, 1500)
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(1, 2))
	prevSpent, prevWon, reached := s.TotalSpent, s.TotalWon, false
	for i := 0; i < 500; i++ {
		s, err = tr.RecordPurchase(ctx, s, domain.Money(rng.Int64N(1000)), domain.Money(rng.Int64N(300)))
		require.NoError(t, err)
		require.GreaterOrEqual(t, s.TotalSpent, prevSpent)
		require.GreaterOrEqual(t, s.TotalWon, prevWon)
		if reached {
			require.True(t, s.LimitReached)
		}
		prevSpent, prevWon, reached = s.TotalSpent, s.TotalWon, s.LimitReached
	}
}

func TestCloseIdle_NewSessionAfterSweep(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	tr := NewTracker(store, nil).(*tracker)
	user := uuid.New()

	start := time.Now().Add(-48 * time.Hour)
	tr.now = func() time.Time { return start }
	old, err := tr.GetOrCreate(ctx, user, 1, 1500)
	require.NoError(t, err)

	tr.now = time.Now
	job := &SweepJob{Tracker: tr, Idle: 24 * time.Hour}
	assert.Equal(t, "session_sweep", job.Name())
	require.NoError(t, job.Process(ctx))

	fresh, err := tr.GetOrCreate(ctx, user, 1, 1500)
	require.NoError(t, err)
	assert.NotEqual(t, old.ID, fresh.ID)
	assert.Len(t, store.Sessions(), 2, "closed sessions are retained")
}

func TestCloseIdle_Error(t *testing.T) {
	repo := new(MockRepository)
	repo.On("CloseIdleSessions", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), errors.New("boom"))

	_, err := NewTracker(repo, nil).CloseIdle(context.Background(), time.Hour)
	assert.ErrorContains(t, err, ErrContextCloseIdle)
}
