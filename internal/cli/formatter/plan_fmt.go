package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/studyblocks/internal/domain"
	"github.com/alexanderramin/studyblocks/internal/service"
)

const planProgressBarWidth = 20

// FormatPlan renders the steps of a plan in sequence order. Prerequisites
// are shown by position so the output stays readable without ids.
func FormatPlan(plan domain.AssignmentPlan, states map[string]domain.StepState) string {
	if len(plan.Steps) == 0 {
		return Dim("Plan has no steps.") + "\n"
	}
	steps := plan.Ordered()
	pos := make(map[string]int, len(steps))
	for i, s := range steps {
		pos[s.ID] = i
	}

	rows := make([][]string, 0, len(steps))
	for i, s := range steps {
		var after []string
		for _, pid := range s.Prerequisites {
			if p, ok := pos[pid]; ok {
				after = append(after, fmt.Sprintf("#%d", p))
			} else {
				after = append(after, Dim("?"+ShortID(pid)))
			}
		}
		state := StepStatePill(states[s.ID])
		if states == nil {
			state = ""
			if s.Completed {
				state = StepStatePill(domain.StepCompleted)
			}
		}
		rows = append(rows, []string{
			fmt.Sprintf("#%d", i),
			Bold(s.Title),
			FormatMinutes(s.EstimatedMin),
			strings.Join(after, " "),
			state,
			Dim(ShortID(s.ID)),
		})
	}

	var b strings.Builder
	mode := StyleDim.Render("free order")
	if plan.SequenceEnforcementEnabled {
		mode = StyleYellow.Render("sequence enforced")
	}
	b.WriteString(Header("plan") + "\n" + mode + "\n")
	b.WriteString(RenderTable([]string{"#", "STEP", "EST", "AFTER", "STATE", "ID"}, rows))
	return b.String()
}

// FormatPlanCheck renders the plan with derived states, then a health summary.
func FormatPlanCheck(check *service.PlanCheck) string {
	var b strings.Builder
	b.WriteString(FormatPlan(check.Plan, check.States))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Progress   %s\n", RenderProgress(check.Progress, planProgressBarWidth)))

	if check.Cycle != nil {
		b.WriteString(StyleRed.Render("Cycle      "+strings.Join(check.Cycle, " -> ")) + "\n")
	} else {
		b.WriteString(StyleGreen.Render("Cycle      none") + "\n")
	}
	if check.Plan.SequenceEnforcementEnabled && !check.Linear {
		b.WriteString(StyleRed.Render("Chain      enforced plan is not a linear chain") + "\n")
	}

	if len(check.Available) == 0 {
		b.WriteString(Dim("Available  nothing to start") + "\n")
	} else {
		titles := make([]string, len(check.Available))
		for i, s := range check.Available {
			titles[i] = s.Title
		}
		b.WriteString("Available  " + StyleGreen.Render(strings.Join(titles, ", ")) + "\n")
	}
	return b.String()
}
