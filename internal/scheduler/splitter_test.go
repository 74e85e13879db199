package scheduler

import (
	"testing"
	"time"

	"github.com/alexanderramin/studyblocks/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitWorkItem_FitsUnchanged(t *testing.T) {
	it := item("wi-1", 60, monday)
	it.MaxBlockMin = 60
	out := SplitWorkItem(it, 0)
	require.Len(t, out, 1)
	assert.Equal(t, it, out[0])
}

func TestSplitWorkItem_EvenChunks(t *testing.T) {
	it := item("wi-1", 200, monday.AddDate(0, 0, 3))
	it.MinBlockMin, it.MaxBlockMin = 30, 60

	out := SplitWorkItem(it, 0)

	require.Len(t, out, 4)
	total := 0
	for i, sub := range out {
		total += sub.TotalMin
		assert.LessOrEqual(t, sub.TotalMin, 60)
		assert.GreaterOrEqual(t, sub.TotalMin, 30)
		require.NotNil(t, sub.ParentID)
		assert.Equal(t, "wi-1", *sub.ParentID)
		assert.Equal(t, "wi-1", sub.SourceID())
		assert.Equal(t, it.DueDate, sub.DueDate)
		assert.Contains(t, sub.ID, "wi-1#")
		assert.Contains(t, sub.Title, "/4)", "chunk %d", i)
	}
	assert.Equal(t, 200, total, "split must conserve minutes")
	assert.Equal(t, []int{50, 50, 50, 50}, []int{out[0].TotalMin, out[1].TotalMin, out[2].TotalMin, out[3].TotalMin})
}

func TestSplitWorkItem_RemainderSpread(t *testing.T) {
	it := item("wi-1", 125, monday)
	it.MinBlockMin, it.MaxBlockMin = 20, 60

	out := SplitWorkItem(it, 0)

	require.Len(t, out, 3)
	assert.Equal(t, []int{42, 42, 41}, []int{out[0].TotalMin, out[1].TotalMin, out[2].TotalMin})
}

func TestSplitAll_FeedsScheduler(t *testing.T) {
	big := item("wi-big", 180, monday.AddDate(0, 0, 5))
	big.MinBlockMin, big.MaxBlockMin = 30, 60
	small := item("wi-small", 45, monday.AddDate(0, 0, 5))

	subs := SplitAll([]domain.WorkItem{big, small}, 0)
	require.Len(t, subs, 4)

	res := GenerateSchedule(subs, nil, baseConstraints(), domain.DefaultPreferences())
	assert.Len(t, res.Scheduled, 4)
	assert.Empty(t, res.Overflow)

	minutes := 0
	for _, b := range res.Scheduled {
		if b.WorkItemID != "wi-small" {
			minutes += int(b.End.Sub(b.Start) / time.Minute)
		}
	}
	assert.Equal(t, 180, minutes)
}

func bookedMinutes(blocks []domain.ScheduledBlock) int {
	total := 0
	for _, b := range blocks {
		total += int(b.End.Sub(b.Start) / time.Minute)
	}
	return total
}

func TestSplitWorkItem_ChunksNeverFallBelowMinBlock(t *testing.T) {
	it := item("wi-1", 220, monday.AddDate(0, 0, 5))
	it.MinBlockMin, it.MaxBlockMin = 100, 120

	out := SplitWorkItem(it, 0)

	require.Len(t, out, 2)
	assert.Equal(t, []int{110, 110}, []int{out[0].TotalMin, out[1].TotalMin})
}

func TestSplitWorkItem_NoFeasibleChunkCountKeepsMinimum(t *testing.T) {
	// 121 minutes cannot be cut into chunks of 100..120.
	it := item("wi-1", 121, monday.AddDate(0, 0, 5))
	it.MinBlockMin, it.MaxBlockMin = 100, 120

	out := SplitWorkItem(it, 0)
	require.Len(t, out, 1)
	assert.Equal(t, it, out[0])

	res := GenerateSchedule(out, nil, baseConstraints(), domain.DefaultPreferences())
	require.Len(t, res.Scheduled, 1)
	assert.Equal(t, 120, bookedMinutes(res.Scheduled), "never books more than the item needs")
	assert.Contains(t, res.Log[0], "120 of 121 min placed")
}

func TestSplitWorkItem_OversizedChunksAreCappedNotInflated(t *testing.T) {
	it := item("wi-1", 130, monday.AddDate(0, 0, 5))
	it.MinBlockMin, it.MaxBlockMin = 50, 60

	out := SplitWorkItem(it, 0)
	require.Len(t, out, 2)
	for _, sub := range out {
		assert.GreaterOrEqual(t, sub.TotalMin, 50)
	}

	res := GenerateSchedule(out, nil, baseConstraints(), domain.DefaultPreferences())
	assert.LessOrEqual(t, bookedMinutes(res.Scheduled), 130)
	for _, line := range res.Log {
		assert.NotContains(t, line, "split the item")
	}
}

func TestSplitWorkItem_HonoursGlobalMaxBlock(t *testing.T) {
	it := item("wi-1", 240, monday.AddDate(0, 0, 5))
	it.MinBlockMin, it.MaxBlockMin = 30, 120

	out := SplitWorkItem(it, 60)
	require.Len(t, out, 4)
	for _, sub := range out {
		assert.Equal(t, 60, sub.TotalMin)
	}

	c := baseConstraints()
	c.MaxBlockMin = 60
	res := GenerateSchedule(SplitAll([]domain.WorkItem{it}, c.MaxBlockMin), nil, c, domain.DefaultPreferences())
	assert.Empty(t, res.Overflow)
	assert.Equal(t, 240, bookedMinutes(res.Scheduled))
}

func TestSplitWorkItem_GlobalCapAboveItemMaxIsIgnored(t *testing.T) {
	it := item("wi-1", 120, monday)
	it.MinBlockMin, it.MaxBlockMin = 30, 60

	assert.Len(t, SplitWorkItem(it, 90), 2)
	assert.Equal(t, 60, EffectiveMaxBlock(it, 90))
	assert.Equal(t, 45, EffectiveMaxBlock(it, 45))
	assert.Equal(t, 60, EffectiveMaxBlock(it, 0))
}
