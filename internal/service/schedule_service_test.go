package service

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/alexanderramin/studyblocks/internal/domain"
	"github.com/alexanderramin/studyblocks/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleService_GenerateAvoidsLockedEvents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	item := env.addItem(t, "Problem set", testutil.WithDueDate(at(3, 12, 0)), testutil.WithTotalMin(60))
	require.NoError(t, env.events.Create(ctx, testutil.NewTestEvent("Lecture", at(0, 10, 0), 60)))
	// Unlocked events are movable and do not block placement.
	require.NoError(t, env.events.Create(ctx, testutil.NewTestEvent("Old block", at(0, 9, 0), 60, testutil.WithUnlocked())))

	resp, err := env.scheduleService(nil).Generate(ctx, ScheduleRequest{Constraints: weekConstraints()})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.ItemCount)
	assert.Equal(t, 2, resp.EventCount)
	assert.False(t, resp.Persisted)
	require.Len(t, resp.Result.Scheduled, 1)
	b := resp.Result.Scheduled[0]
	assert.Equal(t, item.ID, b.WorkItemID)
	// 10:00 is taken; 09:00 and 11:00 tie on energy and the earlier wins.
	assert.Equal(t, at(0, 9, 0), b.Start)
	assert.Equal(t, at(0, 10, 0), b.End)

	stored, err := env.blocks.ListBetween(ctx, monday, monday.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.Empty(t, stored, "nothing persisted without Persist")
}

func TestScheduleService_PersistReplacesHorizon(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.scheduleService(nil)

	first := env.addItem(t, "Reading", testutil.WithDueDate(at(2, 0, 0)))
	req := ScheduleRequest{Constraints: weekConstraints(), Persist: true}

	resp, err := svc.Generate(ctx, req)
	require.NoError(t, err)
	assert.True(t, resp.Persisted)

	blocks, err := svc.ListBlocks(ctx, monday, monday.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, first.ID, blocks[0].WorkItemID)
	assert.False(t, blocks[0].CreatedAt.IsZero())

	// Completing the item and regenerating drops its block.
	require.NoError(t, NewWorkItemService(env.workItems).MarkDone(ctx, first.ID))
	second := env.addItem(t, "Essay", testutil.WithDueDate(at(4, 0, 0)))

	_, err = svc.Generate(ctx, req)
	require.NoError(t, err)
	blocks, err = svc.ListBlocks(ctx, monday, monday.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, second.ID, blocks[0].WorkItemID)
}

func TestScheduleService_IdenticalRunsProduceIdenticalBlocks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.scheduleService(nil)

	env.addItem(t, "A", testutil.WithDueDate(at(1, 12, 0)), testutil.WithImportance(0.9))
	env.addItem(t, "B", testutil.WithDueDate(at(1, 12, 0)), testutil.WithTotalMin(45))
	env.addItem(t, "C", testutil.WithDueDate(at(5, 12, 0)))

	r1, err := svc.Generate(ctx, ScheduleRequest{Constraints: weekConstraints()})
	require.NoError(t, err)
	r2, err := svc.Generate(ctx, ScheduleRequest{Constraints: weekConstraints()})
	require.NoError(t, err)
	assert.Equal(t, r1.Result, r2.Result)
}

func TestScheduleService_SplitBlocksPointAtSourceItem(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	item := env.addItem(t, "Project", testutil.WithTotalMin(150), testutil.WithBlockBounds(30, 60),
		testutil.WithDueDate(at(5, 0, 0)))

	resp, err := env.scheduleService(nil).Generate(ctx, ScheduleRequest{Constraints: weekConstraints(), Split: true})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.ItemCount)
	require.Len(t, resp.Result.Scheduled, 3)
	total := 0
	for _, b := range resp.Result.Scheduled {
		assert.Equal(t, item.ID, b.WorkItemID)
		total += b.Minutes()
	}
	assert.Equal(t, 150, total)
	assert.Empty(t, resp.Result.Overflow)
}

func TestScheduleService_UsesStoredPreferences(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.addItem(t, "Late riser", testutil.WithDueDate(at(3, 0, 0)))
	p := domain.DefaultPreferences()
	p.Energy[16] = 1.0
	p.Energy[10] = 0.3
	require.NoError(t, env.prefs.Upsert(ctx, &p))

	resp, err := env.scheduleService(nil).Generate(ctx, ScheduleRequest{Constraints: weekConstraints()})
	require.NoError(t, err)
	require.Len(t, resp.Result.Scheduled, 1)
	assert.Equal(t, at(0, 16, 0), resp.Result.Scheduled[0].Start)
}

func TestScheduleService_OverflowIsNotAnError(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.addItem(t, "Too long", testutil.WithBlockBounds(300, 400), testutil.WithTotalMin(300))

	resp, err := env.scheduleService(nil).Generate(ctx, ScheduleRequest{Constraints: weekConstraints()})
	require.NoError(t, err)
	assert.Empty(t, resp.Result.Scheduled)
	require.Len(t, resp.Result.Overflow, 1)
	require.Len(t, resp.Result.Log, 1)
	assert.Contains(t, resp.Result.Log[0], "overflow")
}

func TestScheduleService_PersistRollsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	old := env.addItem(t, "Old", testutil.WithDueDate(at(6, 0, 0)))
	oldBlock := env.addBlock(t, old, "old-block", at(1, 9, 0), 60)
	env.addItem(t, "New", testutil.WithDueDate(at(2, 0, 0)))

	failing := &testutil.FailingExecUoW{DB: env.db, Match: "INSERT OR REPLACE INTO scheduled_blocks", Err: assert.AnError}
	_, err := env.scheduleService(failing).Generate(ctx, ScheduleRequest{Constraints: weekConstraints(), Persist: true})
	require.ErrorIs(t, err, assert.AnError)

	blocks, err := env.blocks.ListBetween(ctx, monday, monday.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, oldBlock.ID, blocks[0].ID)
}

func TestScheduleService_ReportsToObserver(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addItem(t, "Observed")

	var buf bytes.Buffer
	svc := env.scheduleService(nil, NewLogUseCaseObserver(&buf, slog.LevelInfo))
	_, err := svc.Generate(ctx, ScheduleRequest{Constraints: weekConstraints()})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "use_case=schedule-generate")
	assert.Contains(t, out, "success=true")
	assert.Contains(t, out, "placed=")
}

func TestScheduleService_EventBeforeHorizonStillKeepsGap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	item := env.addItem(t, "Reading", testutil.WithDueDate(at(3, 0, 0)), testutil.WithTotalMin(60))
	// Ends five minutes before the horizon opens.
	require.NoError(t, env.events.Create(ctx, testutil.NewTestEvent("Seminar", at(0, 8, 0), 55)))
	p := domain.DefaultPreferences()
	p.Energy[9] = 1.0
	require.NoError(t, env.prefs.Upsert(ctx, &p))

	c := weekConstraints()
	c.HorizonStart = at(0, 9, 0)
	c.MinGapMin = 10

	resp, err := env.scheduleService(nil).Generate(ctx, ScheduleRequest{Constraints: c})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.EventCount)
	require.Len(t, resp.Result.Scheduled, 1)
	b := resp.Result.Scheduled[0]
	assert.Equal(t, item.ID, b.WorkItemID)
	assert.Equal(t, at(0, 9, 5), b.Start, "first start that clears the seminar by the gap")
}
