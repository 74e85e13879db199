package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/studyblocks/internal/domain"
	"github.com/alexanderramin/studyblocks/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedEventRepo_RoundTrip(t *testing.T) {
	repo := NewSQLiteFixedEventRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	start := time.Date(2025, 3, 17, 9, 0, 0, 0, time.UTC)
	ev := testutil.NewTestEvent("Lecture", start, 120, testutil.WithEventSource(domain.SourceCalendar))
	require.NoError(t, repo.Create(ctx, ev))

	got, err := repo.GetByID(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, ev, got)
}

func TestFixedEventRepo_ListOverlapping(t *testing.T) {
	repo := NewSQLiteFixedEventRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	day := time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)

	before := testutil.NewTestEvent("Before", day.Add(-3*time.Hour), 60)
	straddle := testutil.NewTestEvent("Straddle", day.Add(-30*time.Minute), 60)
	inside := testutil.NewTestEvent("Inside", day.Add(10*time.Hour), 60, testutil.WithUnlocked())
	after := testutil.NewTestEvent("After", day.AddDate(0, 0, 1), 60)
	for _, e := range []*domain.FixedEvent{before, straddle, inside, after} {
		require.NoError(t, repo.Create(ctx, e))
	}

	got, err := repo.ListOverlapping(ctx, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Straddle", got[0].Title)
	assert.Equal(t, "Inside", got[1].Title)
	assert.False(t, got[1].IsLocked)
}

func TestFixedEventRepo_Delete(t *testing.T) {
	repo := NewSQLiteFixedEventRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	ev := testutil.NewTestEvent("Gym", time.Date(2025, 3, 17, 18, 0, 0, 0, time.UTC), 60)
	require.NoError(t, repo.Create(ctx, ev))
	require.NoError(t, repo.Delete(ctx, ev.ID))

	_, err := repo.GetByID(ctx, ev.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, ev.ID), ErrNotFound)
}
