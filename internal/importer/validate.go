package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/studyblocks/internal/domain"
	"github.com/alexanderramin/studyblocks/internal/plangraph"
)

const dateLayout = "2006-01-02"

// ValidateImportSchema checks the import schema for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	if schema.Timezone != "" {
		if _, err := time.LoadLocation(schema.Timezone); err != nil {
			errs = append(errs, fmt.Errorf("timezone: unknown location %q", schema.Timezone))
		}
	}
	errs = append(errs, validateDefaults(schema.Defaults)...)

	wiRefs := make(map[string]bool)
	errs = append(errs, validateWorkItems(schema.WorkItems, schema.Defaults, wiRefs)...)
	errs = append(errs, validateEvents(schema.Events)...)
	errs = append(errs, validatePlans(schema.Plans, wiRefs)...)

	return errs
}

func validateDefaults(d *DefaultsImport) []error {
	if d == nil {
		return nil
	}
	var errs []error
	errs = append(errs, validateBlockBounds("defaults", d.MinBlockMin, d.MaxBlockMin)...)
	errs = append(errs, validateUnit("defaults.difficulty", d.Difficulty)...)
	errs = append(errs, validateUnit("defaults.importance", d.Importance)...)
	return errs
}

func validateBlockBounds(prefix string, minBlock, maxBlock *int) []error {
	var errs []error
	if minBlock != nil && *minBlock <= 0 {
		errs = append(errs, fmt.Errorf("%s.min_block_min must be positive", prefix))
	}
	if maxBlock != nil && *maxBlock <= 0 {
		errs = append(errs, fmt.Errorf("%s.max_block_min must be positive", prefix))
	}
	if minBlock != nil && maxBlock != nil && *minBlock > 0 && *maxBlock > 0 && *minBlock > *maxBlock {
		errs = append(errs, fmt.Errorf("%s: min_block_min (%d) must be <= max_block_min (%d)", prefix, *minBlock, *maxBlock))
	}
	return errs
}

func validateUnit(field string, v *float64) []error {
	if v != nil && (*v < 0 || *v > 1) {
		return []error{fmt.Errorf("%s must be within [0,1], got %g", field, *v)}
	}
	return nil
}

func validateWorkItems(items []WorkItemImport, defaults *DefaultsImport, wiRefs map[string]bool) []error {
	var errs []error

	for i, wi := range items {
		prefix := fmt.Sprintf("work_items[%d]", i)

		if wi.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if wiRefs[wi.Ref] {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, wi.Ref))
		} else {
			wiRefs[wi.Ref] = true
		}

		if wi.Title == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
		if wi.TotalMin <= 0 {
			errs = append(errs, fmt.Errorf("%s.total_min must be positive", prefix))
		}
		if wi.Due == "" {
			errs = append(errs, fmt.Errorf("%s.due is required", prefix))
		} else if _, err := parseDue(wi.Due, time.UTC); err != nil {
			errs = append(errs, fmt.Errorf("%s.due: %w", prefix, err))
		}

		minBlock, maxBlock := wi.MinBlockMin, wi.MaxBlockMin
		if defaults != nil {
			minBlock = coalescePtr(minBlock, defaults.MinBlockMin)
			maxBlock = coalescePtr(maxBlock, defaults.MaxBlockMin)
		}
		errs = append(errs, validateBlockBounds(prefix, minBlock, maxBlock)...)
		errs = append(errs, validateUnit(prefix+".difficulty", wi.Difficulty)...)
		errs = append(errs, validateUnit(prefix+".importance", wi.Importance)...)
	}

	return errs
}

func validateEvents(events []EventImport) []error {
	var errs []error

	for i, e := range events {
		prefix := fmt.Sprintf("events[%d]", i)

		if e.Title == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
		start, startErr := time.Parse(time.RFC3339, e.Start)
		if startErr != nil {
			errs = append(errs, fmt.Errorf("%s.start: invalid timestamp %q (expected RFC3339)", prefix, e.Start))
		}
		end, endErr := time.Parse(time.RFC3339, e.End)
		if endErr != nil {
			errs = append(errs, fmt.Errorf("%s.end: invalid timestamp %q (expected RFC3339)", prefix, e.End))
		}
		if startErr == nil && endErr == nil && !end.After(start) {
			errs = append(errs, fmt.Errorf("%s: end %q must be after start %q", prefix, e.End, e.Start))
		}
	}

	return errs
}

func validatePlans(plans []PlanImport, wiRefs map[string]bool) []error {
	var errs []error
	planned := make(map[string]bool)

	for i, p := range plans {
		prefix := fmt.Sprintf("plans[%d]", i)

		if p.WorkItemRef == "" {
			errs = append(errs, fmt.Errorf("%s.work_item_ref is required", prefix))
		} else if !wiRefs[p.WorkItemRef] {
			errs = append(errs, fmt.Errorf("%s.work_item_ref: ref %q not found in work_items", prefix, p.WorkItemRef))
		} else if planned[p.WorkItemRef] {
			errs = append(errs, fmt.Errorf("%s.work_item_ref: %q already has a plan", prefix, p.WorkItemRef))
		} else {
			planned[p.WorkItemRef] = true
		}

		stepRefs := make(map[string]bool)
		for j, s := range p.Steps {
			sp := fmt.Sprintf("%s.steps[%d]", prefix, j)
			if s.Ref == "" {
				errs = append(errs, fmt.Errorf("%s.ref is required", sp))
			} else if stepRefs[s.Ref] {
				errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", sp, s.Ref))
			} else {
				stepRefs[s.Ref] = true
			}
			if s.Title == "" {
				errs = append(errs, fmt.Errorf("%s.title is required", sp))
			}
			if s.EstimatedMin < 0 {
				errs = append(errs, fmt.Errorf("%s.estimated_min must not be negative", sp))
			}
		}

		if p.EnforceSequence {
			continue
		}
		for j, s := range p.Steps {
			for _, after := range s.After {
				if !stepRefs[after] {
					errs = append(errs, fmt.Errorf("%s.steps[%d].after: ref %q not found in steps", prefix, j, after))
				}
			}
		}
		if cycle := plangraph.DetectCycle(stepGraph(p)); cycle != nil {
			errs = append(errs, fmt.Errorf("%s: circular step dependency %s", prefix, strings.Join(cycle, " -> ")))
		}
	}

	return errs
}

// stepGraph builds a plan keyed by step refs, enough for cycle detection.
func stepGraph(p PlanImport) domain.AssignmentPlan {
	plan := domain.AssignmentPlan{AssignmentID: p.WorkItemRef}
	for i, s := range p.Steps {
		plan.Steps = append(plan.Steps, domain.PlanStep{
			ID:            s.Ref,
			SequenceIndex: i,
			Prerequisites: domain.NormalizePrerequisites(s.After),
		})
	}
	return plan
}

// parseDue accepts a bare date, meaning the end of that day in loc, or a
// full RFC3339 timestamp.
func parseDue(s string, loc *time.Location) (time.Time, error) {
	if d, err := time.ParseInLocation(dateLayout, s, loc); err == nil {
		return d.Add(24*time.Hour - time.Minute), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD or RFC3339)", s)
	}
	return t, nil
}

func coalescePtr[T any](v, fallback *T) *T {
	if v != nil {
		return v
	}
	return fallback
}
