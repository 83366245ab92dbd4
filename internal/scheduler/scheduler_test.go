package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SharathChampzz/Community-Streak/internal/clock"
	"github.com/SharathChampzz/Community-Streak/internal/store"
	"github.com/SharathChampzz/Community-Streak/internal/types/membership"
)

var sweepBase = time.Date(2025, 3, 16, 0, 0, 30, 0, time.UTC)

func seedMembership(t *testing.T, stores *store.Stores, streak int, lastModified *time.Time) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	userID, eventID := uuid.New(), uuid.New()
	m := &membership.Membership{
		UserID:    userID,
		EventID:   eventID,
		CreatedAt: sweepBase.Add(-72 * time.Hour),
	}
	_, err := stores.Memberships.Insert(ctx, m)
	require.NoError(t, err)

	for i := 0; i < streak; i++ {
		// Walk completions so the final modified lands where the test wants.
		day := lastModified.Add(time.Duration(i-streak+1) * 24 * time.Hour)
		_, ok, err := stores.Memberships.IncrementStreak(ctx, userID, eventID, day, clock.DateOf(day))
		require.NoError(t, err)
		require.True(t, ok)
	}
	return userID
}

func getStreak(t *testing.T, stores *store.Stores, userID uuid.UUID) *membership.Membership {
	t.Helper()
	memberships, err := stores.Memberships.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, memberships, 1)
	return &memberships[0]
}

func TestRunSweepResetsStaleStreaks(t *testing.T) {
	stores := store.NewMemory()
	clk := clock.NewFake(sweepBase)

	staleAt := sweepBase.Add(-30 * time.Hour)
	freshAt := sweepBase.Add(-2 * time.Hour)
	stale := seedMembership(t, stores, 4, &staleAt)
	fresh := seedMembership(t, stores, 7, &freshAt)
	never := seedMembership(t, stores, 0, nil)

	s := New(stores.Memberships, clk)
	s.RunSweep(context.Background())

	assert.Equal(t, 0, getStreak(t, stores, stale).StreakCount)
	assert.Equal(t, 7, getStreak(t, stores, fresh).StreakCount)

	m := getStreak(t, stores, never)
	assert.Equal(t, 0, m.StreakCount)
	assert.Nil(t, m.LastModified, "sweep never touches the completion timestamp")
}

// A completion made moments before midnight is inside the 24h cutoff window
// and must survive the sweep that fires right after midnight.
func TestRunSweepSparesTodaysCompletions(t *testing.T) {
	stores := store.NewMemory()
	clk := clock.NewFake(sweepBase)

	justBeforeMidnight := sweepBase.Add(-90 * time.Second)
	recent := seedMembership(t, stores, 1, &justBeforeMidnight)

	New(stores.Memberships, clk).RunSweep(context.Background())

	assert.Equal(t, 1, getStreak(t, stores, recent).StreakCount)
}

func TestRunSweepIsIdempotent(t *testing.T) {
	stores := store.NewMemory()
	clk := clock.NewFake(sweepBase)

	staleAt := sweepBase.Add(-48 * time.Hour)
	stale := seedMembership(t, stores, 9, &staleAt)

	s := New(stores.Memberships, clk)
	s.RunSweep(context.Background())
	s.RunSweep(context.Background())

	assert.Equal(t, 0, getStreak(t, stores, stale).StreakCount)
}

type failingResetter struct {
	calls int
}

func (f *failingResetter) ResetStale(ctx context.Context, cutoff time.Time) (int64, error) {
	f.calls++
	return 0, errors.New("connection refused")
}

// A failed sweep is logged and swallowed; the scheduler must survive it.
func TestRunSweepSwallowsStoreFailure(t *testing.T) {
	resetter := &failingResetter{}
	s := New(resetter, clock.NewFake(sweepBase))

	assert.NotPanics(t, func() {
		s.RunSweep(context.Background())
		s.RunSweep(context.Background())
	})
	assert.Equal(t, 2, resetter.calls)
}

func TestStartStopIdempotent(t *testing.T) {
	s := New(store.NewMemory().Memberships, clock.NewFake(sweepBase))

	s.Start()
	s.Start() // second Start must not spawn a second loop
	s.Stop()
	s.Stop() // second Stop must not block or panic

	// Stop without a running loop is a no-op.
	s2 := New(store.NewMemory().Memberships, clock.NewFake(sweepBase))
	s2.Stop()
}

func TestStartAfterStop(t *testing.T) {
	s := New(store.NewMemory().Memberships, clock.NewFake(sweepBase))

	s.Start()
	s.Stop()
	s.Start()
	s.Stop()
}

func TestUntilNextMidnight(t *testing.T) {
	clk := clock.NewFake(time.Date(2025, 3, 14, 23, 0, 0, 0, time.UTC))
	s := New(store.NewMemory().Memberships, clk)

	assert.Equal(t, time.Hour, s.untilNextMidnight())

	clk.Set(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 24*time.Hour, s.untilNextMidnight())
}
