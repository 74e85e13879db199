package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePrerequisites(t *testing.T) {
	assert.Nil(t, NormalizePrerequisites(nil))
	assert.Equal(t, []string{"a", "b", "c"}, NormalizePrerequisites([]string{"c", "a", "b", "a"}))
}

func TestAssignmentPlan_OrderedAndClone(t *testing.T) {
	p := AssignmentPlan{
		AssignmentID: "wi-1",
		Steps: []PlanStep{
			{ID: "s2", SequenceIndex: 1, Prerequisites: []string{"s1"}},
			{ID: "s1", SequenceIndex: 0},
		},
	}
	ordered := p.Ordered()
	assert.Equal(t, "s1", ordered[0].ID)
	assert.Equal(t, "s2", ordered[1].ID)

	c := p.Clone()
	c.Steps[0].Prerequisites[0] = "changed"
	assert.Equal(t, "s1", p.Steps[0].Prerequisites[0], "clone must not alias prerequisites")

	s, ok := p.Step("s2")
	assert.True(t, ok)
	assert.True(t, s.HasPrerequisite("s1"))
	assert.False(t, s.HasPrerequisite("s3"))
}
