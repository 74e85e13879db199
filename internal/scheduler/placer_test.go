package scheduler

import (
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/studyblocks/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// monday is 2025-03-17 00:00 UTC.
var monday = time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)

func at(day, hour, minute int) time.Time {
	return monday.AddDate(0, 0, day).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func baseConstraints() domain.Constraints {
	return domain.Constraints{
		HorizonStart:      monday,
		HorizonEnd:        monday.AddDate(0, 0, 7),
		DayStartHour:      8,
		DayEndHour:        22,
		MaxStudyMinPerDay: 240,
		MinGapMin:         10,
	}
}

func item(id string, total int, due time.Time) domain.WorkItem {
	return domain.WorkItem{
		ID:          id,
		Title:       "Item " + id,
		DueDate:     due,
		TotalMin:    total,
		MinBlockMin: min(30, total),
		MaxBlockMin: max(60, total),
		Difficulty:  0.5,
		Importance:  0.5,
		Locked:      true,
	}
}

func TestGenerateSchedule_SingleItemTakesPeakEnergyHour(t *testing.T) {
	res := GenerateSchedule(
		[]domain.WorkItem{item("wi-1", 60, at(3, 0, 0))},
		nil, baseConstraints(), domain.DefaultPreferences(),
	)

	require.Len(t, res.Scheduled, 1)
	assert.Empty(t, res.Overflow)
	b := res.Scheduled[0]
	assert.Equal(t, at(0, 10, 0), b.Start, "day 0 at the 10:00 energy peak")
	assert.Equal(t, at(0, 11, 0), b.End)
	assert.Equal(t, "wi-1", b.WorkItemID)
	assert.NotEmpty(t, b.ID)
}

func TestGenerateSchedule_DailyCapPushesLowerScore(t *testing.T) {
	tuesday := monday.AddDate(0, 0, 1)
	c := baseConstraints()
	c.HorizonStart = tuesday
	c.MaxStudyMinPerDay = 60
	due := at(1, 23, 59)

	a := item("wi-a", 60, due)
	a.Importance = 0.9
	b := item("wi-b", 60, due)
	b.Importance = 0.4

	res := GenerateSchedule([]domain.WorkItem{b, a}, nil, c, domain.DefaultPreferences())

	require.Len(t, res.Scheduled, 1)
	assert.Equal(t, "wi-a", res.Scheduled[0].WorkItemID)
	assert.Equal(t, tuesday.Day(), res.Scheduled[0].Start.Day())
	require.Len(t, res.Overflow, 1)
	assert.Equal(t, "wi-b", res.Overflow[0].ID)
	assert.Contains(t, strings.Join(res.Log, "\n"), ReasonNoCapacity)

	// Unlocked: B spills to the next day rather than overflowing.
	b.Locked = false
	res = GenerateSchedule([]domain.WorkItem{b, a}, nil, c, domain.DefaultPreferences())
	require.Len(t, res.Scheduled, 2)
	assert.Empty(t, res.Overflow)
	assert.Equal(t, "wi-b", res.Scheduled[1].WorkItemID)
	assert.Equal(t, at(2, 10, 0), res.Scheduled[1].Start)
	assert.Contains(t, res.Log[1], "placed after due date")
}

func TestGenerateSchedule_GapAwareSlotSearch(t *testing.T) {
	event := domain.FixedEvent{ID: "ev-1", Title: "Lecture", Start: at(0, 9, 0), End: at(0, 11, 0), IsLocked: true}
	it := item("wi-1", 120, at(5, 0, 0))
	it.MinBlockMin, it.MaxBlockMin = 120, 120

	c := baseConstraints()
	c.DayStartHour, c.DayEndHour = 8, 12
	res := GenerateSchedule([]domain.WorkItem{it}, []domain.FixedEvent{event}, c, domain.DefaultPreferences())
	require.Len(t, res.Scheduled, 1)
	assert.Equal(t, at(1, 10, 0), res.Scheduled[0].Start, "window end forbids day 0, fails over to day 1")

	c.DayEndHour = 14
	res = GenerateSchedule([]domain.WorkItem{it}, []domain.FixedEvent{event}, c, domain.DefaultPreferences())
	require.Len(t, res.Scheduled, 1)
	assert.Equal(t, at(0, 11, 10), res.Scheduled[0].Start, "first start clearing the 10 minute gap")
	assert.Equal(t, at(0, 13, 10), res.Scheduled[0].End)
}

func TestGenerateSchedule_LockedNeverPastDue(t *testing.T) {
	c := baseConstraints()
	c.MaxStudyMinPerDay = 60
	items := []domain.WorkItem{
		item("wi-1", 60, at(0, 23, 0)),
		item("wi-2", 60, at(0, 23, 0)),
	}
	res := GenerateSchedule(items, nil, c, domain.DefaultPreferences())

	require.Len(t, res.Scheduled, 1)
	require.Len(t, res.Overflow, 1)
	for _, b := range res.Scheduled {
		assert.False(t, b.End.After(at(0, 23, 0)))
	}
}

func TestGenerateSchedule_UnlockedPrefersSlotBeforeDue(t *testing.T) {
	it := item("wi-1", 60, at(2, 12, 0))
	it.Locked = false
	res := GenerateSchedule([]domain.WorkItem{it}, nil, baseConstraints(), domain.DefaultPreferences())

	require.Len(t, res.Scheduled, 1)
	assert.False(t, res.Scheduled[0].End.After(it.DueDate))
	assert.NotContains(t, res.Log[0], "after due date")
}

func TestGenerateSchedule_DueBeforeHorizonExhausted(t *testing.T) {
	it := item("wi-1", 60, monday.Add(-time.Hour))
	res := GenerateSchedule([]domain.WorkItem{it}, nil, baseConstraints(), domain.DefaultPreferences())

	assert.Empty(t, res.Scheduled)
	require.Len(t, res.Overflow, 1)
	assert.Contains(t, res.Log[0], ReasonHorizonExhausted)
}

func TestGenerateSchedule_MalformedConstraintsOverflowEverything(t *testing.T) {
	c := baseConstraints()
	c.DayStartHour, c.DayEndHour = 18, 9
	items := []domain.WorkItem{item("wi-1", 60, at(3, 0, 0)), item("wi-2", 30, at(3, 0, 0))}

	res := GenerateSchedule(items, nil, c, domain.DefaultPreferences())

	assert.Empty(t, res.Scheduled)
	assert.Len(t, res.Overflow, 2)
	require.Len(t, res.Log, 2)
	assert.Contains(t, res.Log[0], ReasonMalformedConstraints)

	c = baseConstraints()
	c.HorizonEnd = c.HorizonStart
	res = GenerateSchedule(items, nil, c, domain.DefaultPreferences())
	assert.Len(t, res.Overflow, 2)
}

func TestGenerateSchedule_InvalidBlockBoundsOnlyAffectsItem(t *testing.T) {
	bad := item("wi-bad", 60, at(3, 0, 0))
	bad.MinBlockMin, bad.MaxBlockMin = 90, 45
	good := item("wi-good", 60, at(3, 0, 0))

	res := GenerateSchedule([]domain.WorkItem{bad, good}, nil, baseConstraints(), domain.DefaultPreferences())

	require.Len(t, res.Scheduled, 1)
	assert.Equal(t, "wi-good", res.Scheduled[0].WorkItemID)
	require.Len(t, res.Overflow, 1)
	assert.Equal(t, "wi-bad", res.Overflow[0].ID)
	assert.Contains(t, strings.Join(res.Log, "\n"), ReasonInvalidBlockBounds)
}

func TestGenerateSchedule_DoNotScheduleWindow(t *testing.T) {
	c := baseConstraints()
	c.DoNotSchedule = []domain.TimeWindow{{Start: at(0, 0, 0), End: at(1, 0, 0)}}

	res := GenerateSchedule([]domain.WorkItem{item("wi-1", 60, at(3, 0, 0))}, nil, c, domain.DefaultPreferences())

	require.Len(t, res.Scheduled, 1)
	assert.Equal(t, at(1, 10, 0), res.Scheduled[0].Start)
}

func TestGenerateSchedule_ConstraintEnergyOverridesPreferences(t *testing.T) {
	var evening domain.EnergyProfile
	for h := range evening {
		evening[h] = 0.1
	}
	evening[20] = 1.0
	c := baseConstraints()
	c.Energy = &evening

	res := GenerateSchedule([]domain.WorkItem{item("wi-1", 60, at(3, 0, 0))}, nil, c, domain.DefaultPreferences())

	require.Len(t, res.Scheduled, 1)
	assert.Equal(t, at(0, 20, 0), res.Scheduled[0].Start)
}

func TestGenerateSchedule_UnlockedEventsAreIgnored(t *testing.T) {
	movable := domain.FixedEvent{ID: "ev-old", Start: at(0, 8, 0), End: at(0, 22, 0), IsLocked: false}

	res := GenerateSchedule([]domain.WorkItem{item("wi-1", 60, at(3, 0, 0))}, []domain.FixedEvent{movable}, baseConstraints(), domain.DefaultPreferences())

	require.Len(t, res.Scheduled, 1)
	assert.Equal(t, at(0, 10, 0), res.Scheduled[0].Start)
}

func TestGenerateSchedule_PartialPlacementLogged(t *testing.T) {
	it := item("wi-1", 150, at(3, 0, 0))
	it.MinBlockMin, it.MaxBlockMin = 30, 60

	res := GenerateSchedule([]domain.WorkItem{it}, nil, baseConstraints(), domain.DefaultPreferences())

	require.Len(t, res.Scheduled, 1)
	assert.Equal(t, 60, res.Scheduled[0].Minutes())
	assert.Contains(t, res.Log[0], "60 of 150 min placed")
}

func TestGenerateSchedule_GlobalMaxBlockCapsDuration(t *testing.T) {
	c := baseConstraints()
	c.MaxBlockMin = 45
	it := item("wi-1", 90, at(3, 0, 0))
	it.MinBlockMin, it.MaxBlockMin = 30, 90

	res := GenerateSchedule([]domain.WorkItem{it}, nil, c, domain.DefaultPreferences())

	require.Len(t, res.Scheduled, 1)
	assert.Equal(t, 45, res.Scheduled[0].Minutes())
}

func TestGenerateSchedule_ShortItemFlooredAtMinBlock(t *testing.T) {
	it := item("wi-1", 10, at(3, 0, 0))
	it.MinBlockMin, it.MaxBlockMin = 25, 60

	res := GenerateSchedule([]domain.WorkItem{it}, nil, baseConstraints(), domain.DefaultPreferences())

	require.Len(t, res.Scheduled, 1)
	assert.Equal(t, 25, res.Scheduled[0].Minutes())
}

func TestGenerateSchedule_LaterItemsSeeEarlierPlacements(t *testing.T) {
	items := []domain.WorkItem{
		item("wi-1", 60, at(3, 0, 0)),
		item("wi-2", 60, at(3, 0, 0)),
	}
	res := GenerateSchedule(items, nil, baseConstraints(), domain.DefaultPreferences())

	require.Len(t, res.Scheduled, 2)
	first, second := res.Scheduled[0], res.Scheduled[1]
	assert.Equal(t, at(0, 10, 0), first.Start)
	assert.GreaterOrEqual(t, second.Start.Sub(first.End), 10*time.Minute, "gap must be respected")
}

func TestGenerateSchedule_Location(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	c := baseConstraints()
	c.Location = loc
	c.HorizonStart = time.Date(2025, 3, 17, 0, 0, 0, 0, loc)
	c.HorizonEnd = c.HorizonStart.AddDate(0, 0, 3)

	res := GenerateSchedule([]domain.WorkItem{item("wi-1", 60, c.HorizonEnd)}, nil, c, domain.DefaultPreferences())

	require.Len(t, res.Scheduled, 1)
	assert.Equal(t, 10, res.Scheduled[0].Start.In(loc).Hour())
}
