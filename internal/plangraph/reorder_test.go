package plangraph

import (
	"testing"

	"github.com/alexanderramin/studyblocks/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderedIDs(p domain.AssignmentPlan) []string {
	var ids []string
	for _, s := range p.Ordered() {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestReorder_MovesAndRechains(t *testing.T) {
	p := newPlan(4, true)

	res := Reorder(p, 2, 1)

	require.True(t, res.Accepted)
	assert.Equal(t, ReorderApplied, res.Reason)
	assert.Equal(t, []string{"step0", "step2", "step1", "step3"}, orderedIDs(res.Plan))
	assert.Equal(t, map[string][]string{
		"step0": nil,
		"step2": {"step0"},
		"step1": {"step2"},
		"step3": {"step1"},
	}, prereqs(res.Plan))
	assert.Nil(t, DetectCycle(res.Plan))

	// The original plan is not modified.
	assert.Equal(t, []string{"step0", "step1", "step2", "step3"}, orderedIDs(p))
	assert.Equal(t, []string{"step1"}, p.Steps[2].Prerequisites)
}

func TestReorder_MoveToEnd(t *testing.T) {
	res := Reorder(newPlan(4, true), 0, 3)

	require.True(t, res.Accepted)
	assert.Equal(t, []string{"step1", "step2", "step3", "step0"}, orderedIDs(res.Plan))
	assert.True(t, IsLinearChain(res.Plan))
	for i, s := range res.Plan.Ordered() {
		assert.Equal(t, i, s.SequenceIndex)
	}
}

func TestReorder_SamePositionIsNoop(t *testing.T) {
	p := newPlan(3, true)
	res := Reorder(p, 1, 1)

	require.True(t, res.Accepted)
	assert.Equal(t, orderedIDs(p), orderedIDs(res.Plan))
	assert.Equal(t, prereqs(p), prereqs(res.Plan))
}

func TestReorder_OutOfRange(t *testing.T) {
	p := newPlan(3, true)

	for _, tc := range []struct{ from, to int }{{-1, 0}, {0, 3}, {3, 0}, {0, -2}} {
		res := Reorder(p, tc.from, tc.to)
		assert.False(t, res.Accepted)
		assert.Equal(t, ReorderRejectedIndex, res.Reason)
		assert.Equal(t, p, res.Plan)
		assert.NotEmpty(t, res.Message)
	}
}

func TestReorder_WithoutEnforcementKeepsEdges(t *testing.T) {
	p := newPlan(3, false)
	p.Steps[2].Prerequisites = []string{"step0"}

	res := Reorder(p, 2, 0)

	require.True(t, res.Accepted)
	assert.Equal(t, []string{"step2", "step0", "step1"}, orderedIDs(res.Plan))
	assert.Equal(t, []string{"step0"}, prereqs(res.Plan)["step2"])
}

func TestReorder_EmptyPlan(t *testing.T) {
	res := Reorder(domain.AssignmentPlan{AssignmentID: "wi-1"}, 0, 0)
	assert.False(t, res.Accepted)
	assert.Equal(t, ReorderRejectedIndex, res.Reason)
}
