package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/studyblocks/internal/domain"
	"github.com/alexanderramin/studyblocks/internal/plangraph"
	"github.com/alexanderramin/studyblocks/internal/repository"
	"github.com/alexanderramin/studyblocks/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPlanService(t *testing.T) (PlanService, *testEnv, string) {
	t.Helper()
	env := newTestEnv(t)
	item := env.addItem(t, "Research paper")
	return NewPlanService(env.plans, env.uow), env, item.ID
}

func stepIDs(plan domain.AssignmentPlan) []string {
	var ids []string
	for _, s := range plan.Ordered() {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestPlanService_AddStepCreatesPlan(t *testing.T) {
	svc, _, wiID := setupPlanService(t)
	ctx := context.Background()

	plan, err := svc.AddStep(ctx, wiID, "Outline", 30, nil)
	require.NoError(t, err)
	require.Len(t, plan.Steps, 1)
	outline := plan.Steps[0].ID

	plan, err = svc.AddStep(ctx, wiID, "Draft", 90, []string{outline})
	require.NoError(t, err)
	require.Len(t, plan.Steps, 2)
	assert.Equal(t, 1, plan.Steps[1].SequenceIndex)
	assert.Equal(t, []string{outline}, plan.Steps[1].Prerequisites)

	_, err = svc.AddStep(ctx, wiID, "Edit", 30, []string{"nope"})
	assert.ErrorContains(t, err, "prerequisite step nope not found")

	stored, err := svc.GetPlan(ctx, wiID)
	require.NoError(t, err)
	assert.Len(t, stored.Steps, 2)
}

func TestPlanService_AddStepToEnforcedPlanExtendsChain(t *testing.T) {
	svc, _, wiID := setupPlanService(t)
	ctx := context.Background()

	require.NoError(t, svc.SavePlan(ctx, testutil.NewTestPlan(wiID, 2, true)))
	plan, err := svc.AddStep(ctx, wiID, "Review", 20, nil)
	require.NoError(t, err)

	assert.True(t, plangraph.IsLinearChain(*plan))
	assert.Equal(t, []string{plan.Steps[1].ID}, plan.Steps[2].Prerequisites)
}

func TestPlanService_SavePlanRejectsCycle(t *testing.T) {
	svc, _, wiID := setupPlanService(t)
	ctx := context.Background()

	plan := testutil.NewTestPlan(wiID, 3, false)
	plan.Steps[0].Prerequisites = []string{plan.Steps[2].ID}
	plan.Steps[1].Prerequisites = []string{plan.Steps[0].ID}
	plan.Steps[2].Prerequisites = []string{plan.Steps[1].ID}

	err := svc.SavePlan(ctx, plan)
	require.ErrorIs(t, err, ErrPlanRejected)
	assert.Contains(t, err.Error(), "prerequisite cycle")

	_, err = svc.GetPlan(ctx, wiID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPlanService_ReorderPersistsAcceptedMove(t *testing.T) {
	svc, _, wiID := setupPlanService(t)
	ctx := context.Background()

	plan := testutil.NewTestPlan(wiID, 4, true)
	require.NoError(t, svc.SavePlan(ctx, plan))
	ids := stepIDs(*plan)

	res, err := svc.Reorder(ctx, wiID, 2, 1)
	require.NoError(t, err)
	assert.True(t, res.Accepted)
	assert.Equal(t, plangraph.ReorderApplied, res.Reason)

	stored, err := svc.GetPlan(ctx, wiID)
	require.NoError(t, err)
	assert.Equal(t, []string{ids[0], ids[2], ids[1], ids[3]}, stepIDs(*stored))
	assert.True(t, plangraph.IsLinearChain(*stored))
}

func TestPlanService_ReorderRejectionPersistsNothing(t *testing.T) {
	svc, _, wiID := setupPlanService(t)
	ctx := context.Background()

	plan := testutil.NewTestPlan(wiID, 3, true)
	require.NoError(t, svc.SavePlan(ctx, plan))
	before, err := svc.GetPlan(ctx, wiID)
	require.NoError(t, err)

	res, err := svc.Reorder(ctx, wiID, 0, 7)
	require.ErrorIs(t, err, ErrPlanRejected)
	require.NotNil(t, res)
	assert.False(t, res.Accepted)
	assert.Equal(t, plangraph.ReorderRejectedIndex, res.Reason)

	after, err := svc.GetPlan(ctx, wiID)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	_, err = svc.Reorder(ctx, "no-plan", 0, 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPlanService_ToggleAndClear(t *testing.T) {
	svc, _, wiID := setupPlanService(t)
	ctx := context.Background()

	plan := testutil.NewTestPlan(wiID, 3, false)
	plan.Steps[2].Prerequisites = []string{plan.Steps[0].ID}
	require.NoError(t, svc.SavePlan(ctx, plan))

	toggled, err := svc.ToggleSequenceEnforcement(ctx, wiID)
	require.NoError(t, err)
	assert.True(t, toggled.SequenceEnforcementEnabled)
	assert.True(t, plangraph.IsLinearChain(*toggled))

	cleared, err := svc.ClearAllDependencies(ctx, wiID)
	require.NoError(t, err)
	assert.False(t, cleared.SequenceEnforcementEnabled)
	for _, s := range cleared.Steps {
		assert.Empty(t, s.Prerequisites)
	}

	stored, err := svc.GetPlan(ctx, wiID)
	require.NoError(t, err)
	assert.Equal(t, cleared, stored)
}

func TestPlanService_CompletionDrivesCheck(t *testing.T) {
	svc, _, wiID := setupPlanService(t)
	ctx := context.Background()

	plan := testutil.NewTestPlan(wiID, 3, true)
	require.NoError(t, svc.SavePlan(ctx, plan))
	ids := stepIDs(*plan)

	check, err := svc.Check(ctx, wiID)
	require.NoError(t, err)
	assert.Nil(t, check.Cycle)
	assert.True(t, check.Linear)
	assert.Equal(t, domain.StepNotStarted, check.States[ids[0]])
	assert.Equal(t, domain.StepBlocked, check.States[ids[1]])
	assert.Zero(t, check.Progress)

	_, err = svc.SetStepCompleted(ctx, wiID, ids[0], true)
	require.NoError(t, err)

	check, err = svc.Check(ctx, wiID)
	require.NoError(t, err)
	assert.Equal(t, domain.StepCompleted, check.States[ids[0]])
	assert.Equal(t, domain.StepUnblocked, check.States[ids[1]])
	assert.Equal(t, domain.StepBlocked, check.States[ids[2]])
	require.Len(t, check.Available, 1)
	assert.Equal(t, ids[1], check.Available[0].ID)
	assert.InDelta(t, 1.0/3.0, check.Progress, 1e-9)

	_, err = svc.SetStepCompleted(ctx, wiID, "ghost", true)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
