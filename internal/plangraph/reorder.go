package plangraph

import (
	"fmt"

	"github.com/alexanderramin/studyblocks/internal/domain"
)

type ReorderReason string

const (
	ReorderApplied       ReorderReason = "applied"
	ReorderRejectedIndex ReorderReason = "rejected_index"
	ReorderRejectedCycle ReorderReason = "rejected_cycle"
)

// ReorderResult reports the outcome of a reorder command. On rejection Plan
// is the unchanged input so the caller can revert to it.
type ReorderResult struct {
	Plan     domain.AssignmentPlan
	Accepted bool
	Reason   ReorderReason
	Cycle    []string
	Message  string
}

// Reorder moves the step at position from to position to (both in sequence
// order), reindexes all steps, and when enforcement is on rebuilds the chain
// and verifies it is acyclic. The input plan is never modified.
func Reorder(plan domain.AssignmentPlan, from, to int) ReorderResult {
	n := len(plan.Steps)
	if from < 0 || from >= n || to < 0 || to >= n {
		return ReorderResult{
			Plan:    plan,
			Reason:  ReorderRejectedIndex,
			Message: fmt.Sprintf("reorder %d -> %d out of range for %d steps", from, to, n),
		}
	}

	steps := plan.Clone().Ordered()
	moved := steps[from]
	steps = append(steps[:from], steps[from+1:]...)
	steps = append(steps[:to], append([]domain.PlanStep{moved}, steps[to:]...)...)
	for i := range steps {
		steps[i].SequenceIndex = i
	}

	next := plan.Clone()
	next.Steps = steps

	if next.SequenceEnforcementEnabled {
		next = SetupLinearChain(next)
		if cycle := DetectCycle(next); cycle != nil {
			return ReorderResult{
				Plan:    plan,
				Reason:  ReorderRejectedCycle,
				Cycle:   cycle,
				Message: fmt.Sprintf("reorder produced a dependency cycle: %v", cycle),
			}
		}
	}

	return ReorderResult{Plan: next, Accepted: true, Reason: ReorderApplied}
}
