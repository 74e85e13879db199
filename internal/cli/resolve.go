package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/studyblocks/internal/domain"
)

// matchID resolves input against ids: an exact match wins, otherwise the
// input must be a unique prefix.
func matchID(kind, input string, ids []string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("%s ID is required", kind)
	}
	var matches []string
	for _, id := range ids {
		if id == input {
			return id, nil
		}
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s not found: %q", kind, input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", kind, input, len(matches))
	}
}

func resolveWorkItemID(ctx context.Context, app *App, input string) (string, error) {
	items, err := app.WorkItems.List(ctx, true)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(items))
	for i, wi := range items {
		ids[i] = wi.ID
	}
	return matchID("work item", input, ids)
}

// blockLookback bounds how far back a block id prefix is searched.
const blockLookback = 60 * 24 * time.Hour

func resolveBlockID(ctx context.Context, app *App, input string) (string, error) {
	now := app.now()
	blocks, err := app.Schedule.ListBlocks(ctx, now.Add(-blockLookback), now.Add(blockLookback))
	if err != nil {
		return "", err
	}
	ids := make([]string, len(blocks))
	for i, b := range blocks {
		ids[i] = b.ID
	}
	return matchID("block", input, ids)
}

func resolveEventID(ctx context.Context, app *App, input string) (string, error) {
	now := app.now()
	events, err := app.Events.ListBetween(ctx, now.Add(-365*24*time.Hour), now.Add(365*24*time.Hour))
	if err != nil {
		return "", err
	}
	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	return matchID("event", input, ids)
}

// resolveStep accepts "#2", "2" (position in sequence order) or a step id prefix.
func resolveStep(plan *domain.AssignmentPlan, input string) (domain.PlanStep, error) {
	steps := plan.Ordered()
	if n, err := strconv.Atoi(strings.TrimPrefix(input, "#")); err == nil {
		if n < 0 || n >= len(steps) {
			return domain.PlanStep{}, fmt.Errorf("step #%d out of range (plan has %d steps)", n, len(steps))
		}
		return steps[n], nil
	}
	ids := make([]string, len(steps))
	for i, s := range steps {
		ids[i] = s.ID
	}
	id, err := matchID("step", input, ids)
	if err != nil {
		return domain.PlanStep{}, err
	}
	s, _ := plan.Step(id)
	return s, nil
}
