package domain

import (
	"sort"
	"time"
)

// PlanStep is one sub-task in a work item's breakdown.
type PlanStep struct {
	ID            string
	Title         string
	EstimatedMin  int
	SequenceIndex int
	Completed     bool
	Prerequisites []string // step ids, kept sorted
}

// AssignmentPlan is the ordered breakdown of one work item.
type AssignmentPlan struct {
	AssignmentID               string
	Steps                      []PlanStep
	SequenceEnforcementEnabled bool
	UpdatedAt                  time.Time
}

// Clone returns a deep copy of the plan.
func (p AssignmentPlan) Clone() AssignmentPlan {
	out := p
	out.Steps = make([]PlanStep, len(p.Steps))
	for i, s := range p.Steps {
		s.Prerequisites = append([]string(nil), s.Prerequisites...)
		out.Steps[i] = s
	}
	return out
}

// Ordered returns the steps sorted by sequence index, ties by id.
func (p AssignmentPlan) Ordered() []PlanStep {
	steps := append([]PlanStep(nil), p.Steps...)
	sort.SliceStable(steps, func(i, j int) bool {
		if steps[i].SequenceIndex != steps[j].SequenceIndex {
			return steps[i].SequenceIndex < steps[j].SequenceIndex
		}
		return steps[i].ID < steps[j].ID
	})
	return steps
}

// Step returns the step with the given id.
func (p AssignmentPlan) Step(id string) (PlanStep, bool) {
	for _, s := range p.Steps {
		if s.ID == id {
			return s, true
		}
	}
	return PlanStep{}, false
}

// HasPrerequisite reports whether id is among the step's prerequisites.
func (s PlanStep) HasPrerequisite(id string) bool {
	i := sort.SearchStrings(s.Prerequisites, id)
	return i < len(s.Prerequisites) && s.Prerequisites[i] == id
}

// NormalizePrerequisites sorts and de-duplicates a prerequisite list.
func NormalizePrerequisites(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	out := sorted[:1]
	for _, id := range sorted[1:] {
		if id != out[len(out)-1] {
			out = append(out, id)
		}
	}
	return out
}
