package plangraph

import "github.com/alexanderramin/studyblocks/internal/domain"

// StepState derives a step's lifecycle state. A step is blocked iff at least
// one of its known prerequisites is incomplete; unknown ids do not block.
func StepState(plan domain.AssignmentPlan, stepID string) (domain.StepState, bool) {
	step, ok := plan.Step(stepID)
	if !ok {
		return "", false
	}
	if step.Completed {
		return domain.StepCompleted, true
	}
	hasKnown := false
	for _, pid := range step.Prerequisites {
		pre, ok := plan.Step(pid)
		if !ok {
			continue
		}
		hasKnown = true
		if !pre.Completed {
			return domain.StepBlocked, true
		}
	}
	if hasKnown {
		return domain.StepUnblocked, true
	}
	return domain.StepNotStarted, true
}

// AvailableSteps returns the incomplete, unblocked steps in sequence order.
func AvailableSteps(plan domain.AssignmentPlan) []domain.PlanStep {
	var out []domain.PlanStep
	for _, s := range plan.Ordered() {
		state, _ := StepState(plan, s.ID)
		if state == domain.StepNotStarted || state == domain.StepUnblocked {
			out = append(out, s)
		}
	}
	return out
}

// Progress returns completed estimated minutes over total estimated minutes.
// A plan with no estimates reports the completed step fraction instead.
func Progress(plan domain.AssignmentPlan) float64 {
	if len(plan.Steps) == 0 {
		return 0
	}
	var done, total, doneSteps int
	for _, s := range plan.Steps {
		total += s.EstimatedMin
		if s.Completed {
			done += s.EstimatedMin
			doneSteps++
		}
	}
	if total == 0 {
		return float64(doneSteps) / float64(len(plan.Steps))
	}
	return float64(done) / float64(total)
}
