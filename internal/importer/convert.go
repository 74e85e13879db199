package importer

import (
	"fmt"
	"time"

	"github.com/alexanderramin/studyblocks/internal/domain"
	"github.com/alexanderramin/studyblocks/internal/plangraph"
	"github.com/google/uuid"
)

// Fallbacks used when neither the item nor the file defaults set a value.
const (
	defaultMinBlockMin = 25
	defaultMaxBlockMin = 90
	defaultWeight      = 0.5
	defaultCategory    = "general"
)

// Generated holds the domain objects produced from an import file.
type Generated struct {
	WorkItems []*domain.WorkItem
	Events    []*domain.FixedEvent
	Plans     []*domain.AssignmentPlan
}

// Convert transforms a validated ImportSchema into domain objects ready for persistence.
// Call ValidateImportSchema first; Convert assumes the schema is valid.
func Convert(schema *ImportSchema, now time.Time) (*Generated, error) {
	now = now.UTC().Truncate(time.Second)
	loc := time.UTC
	if schema.Timezone != "" {
		l, err := time.LoadLocation(schema.Timezone)
		if err != nil {
			return nil, fmt.Errorf("loading timezone: %w", err)
		}
		loc = l
	}

	d := schema.Defaults
	if d == nil {
		d = &DefaultsImport{}
	}

	refMap := make(map[string]string) // ref -> UUID
	out := &Generated{}

	for _, wi := range schema.WorkItems {
		due, err := parseDue(wi.Due, loc)
		if err != nil {
			return nil, fmt.Errorf("work item %q: %w", wi.Ref, err)
		}
		id := uuid.New().String()
		refMap[wi.Ref] = id

		// Work item field > file defaults > hardcoded
		out.WorkItems = append(out.WorkItems, &domain.WorkItem{
			ID:          id,
			Title:       wi.Title,
			DueDate:     due.UTC(),
			TotalMin:    wi.TotalMin,
			MinBlockMin: domain.ValueOr(defaultMinBlockMin, wi.MinBlockMin, d.MinBlockMin),
			MaxBlockMin: domain.ValueOr(defaultMaxBlockMin, wi.MaxBlockMin, d.MaxBlockMin),
			Difficulty:  domain.ValueOr(defaultWeight, wi.Difficulty, d.Difficulty),
			Importance:  domain.ValueOr(defaultWeight, wi.Importance, d.Importance),
			Category:    domain.CoalesceStr(wi.Category, d.Category, defaultCategory),
			Locked:      wi.Locked,
			CourseID:    wi.Course,
			Status:      domain.WorkItemTodo,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	for _, e := range schema.Events {
		start, err := time.Parse(time.RFC3339, e.Start)
		if err != nil {
			return nil, fmt.Errorf("event %q start: %w", e.Title, err)
		}
		end, err := time.Parse(time.RFC3339, e.End)
		if err != nil {
			return nil, fmt.Errorf("event %q end: %w", e.Title, err)
		}
		out.Events = append(out.Events, &domain.FixedEvent{
			ID:       uuid.New().String(),
			Title:    e.Title,
			Start:    start.UTC(),
			End:      end.UTC(),
			IsLocked: domain.ValueOr(true, e.Locked),
			Source:   domain.SourceImport,
		})
	}

	for _, p := range schema.Plans {
		wiID, ok := refMap[p.WorkItemRef]
		if !ok {
			return nil, fmt.Errorf("work_item_ref %q not found", p.WorkItemRef)
		}
		plan, err := convertPlan(p, wiID, now)
		if err != nil {
			return nil, err
		}
		out.Plans = append(out.Plans, plan)
	}

	return out, nil
}

func convertPlan(p PlanImport, assignmentID string, now time.Time) (*domain.AssignmentPlan, error) {
	stepIDs := make(map[string]string, len(p.Steps))
	for _, s := range p.Steps {
		stepIDs[s.Ref] = uuid.New().String()
	}

	plan := domain.AssignmentPlan{
		AssignmentID:               assignmentID,
		SequenceEnforcementEnabled: p.EnforceSequence,
		UpdatedAt:                  now,
	}
	for i, s := range p.Steps {
		step := domain.PlanStep{
			ID:            stepIDs[s.Ref],
			Title:         s.Title,
			EstimatedMin:  s.EstimatedMin,
			SequenceIndex: i,
			Completed:     s.Done,
		}
		if !p.EnforceSequence {
			var pre []string
			for _, after := range s.After {
				id, ok := stepIDs[after]
				if !ok {
					return nil, fmt.Errorf("plan for %q: step ref %q not found", p.WorkItemRef, after)
				}
				pre = append(pre, id)
			}
			step.Prerequisites = domain.NormalizePrerequisites(pre)
		}
		plan.Steps = append(plan.Steps, step)
	}

	if p.EnforceSequence {
		plan = plangraph.SetupLinearChain(plan)
	}
	return &plan, nil
}
