package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/studyblocks/internal/db"
	"github.com/alexanderramin/studyblocks/internal/domain"
	"github.com/alexanderramin/studyblocks/internal/plangraph"
	"github.com/alexanderramin/studyblocks/internal/repository"
	"github.com/google/uuid"
)

type planService struct {
	plans    repository.PlanStore
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewPlanService(plans repository.PlanStore, uow db.UnitOfWork, observers ...UseCaseObserver) PlanService {
	return &planService{
		plans:    plans,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *planService) GetPlan(ctx context.Context, assignmentID string) (*domain.AssignmentPlan, error) {
	return s.plans.GetPlan(ctx, assignmentID)
}

// SavePlan stores a whole plan. Enforced plans are rebuilt as a linear chain
// first; a plan with a prerequisite cycle is rejected.
func (s *planService) SavePlan(ctx context.Context, plan *domain.AssignmentPlan) error {
	prepared, err := preparePlan(*plan)
	if err != nil {
		return err
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLitePlanRepo(tx).SavePlan(ctx, &prepared)
	})
	if err != nil {
		return err
	}
	*plan = prepared
	return nil
}

func (s *planService) AddStep(ctx context.Context, assignmentID, title string, estimatedMin int, after []string) (*domain.AssignmentPlan, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("step title is required")
	}
	if estimatedMin < 0 {
		return nil, fmt.Errorf("estimated minutes must not be negative, got %d", estimatedMin)
	}
	return s.mutate(ctx, assignmentID, true, func(plan domain.AssignmentPlan) (domain.AssignmentPlan, error) {
		for _, id := range after {
			if _, ok := plan.Step(id); !ok {
				return plan, fmt.Errorf("prerequisite step %s not found in plan", id)
			}
		}
		out := plan.Clone()
		out.Steps = append(out.Ordered(), domain.PlanStep{
			ID:            uuid.New().String(),
			Title:         title,
			EstimatedMin:  estimatedMin,
			SequenceIndex: len(plan.Steps),
			Prerequisites: domain.NormalizePrerequisites(after),
		})
		return out, nil
	})
}

func (s *planService) SetStepCompleted(ctx context.Context, assignmentID, stepID string, completed bool) (*domain.AssignmentPlan, error) {
	return s.mutate(ctx, assignmentID, false, func(plan domain.AssignmentPlan) (domain.AssignmentPlan, error) {
		out := plan.Clone()
		for i := range out.Steps {
			if out.Steps[i].ID == stepID {
				out.Steps[i].Completed = completed
				return out, nil
			}
		}
		return plan, fmt.Errorf("step %s: %w", stepID, repository.ErrNotFound)
	})
}

func (s *planService) ToggleSequenceEnforcement(ctx context.Context, assignmentID string) (*domain.AssignmentPlan, error) {
	return s.mutate(ctx, assignmentID, false, func(plan domain.AssignmentPlan) (domain.AssignmentPlan, error) {
		return plangraph.ToggleSequenceEnforcement(plan), nil
	})
}

// ClearAllDependencies removes every edge. Enforcement is switched off too,
// since an enforced plan must stay a chain.
func (s *planService) ClearAllDependencies(ctx context.Context, assignmentID string) (*domain.AssignmentPlan, error) {
	return s.mutate(ctx, assignmentID, false, func(plan domain.AssignmentPlan) (domain.AssignmentPlan, error) {
		out := plangraph.ClearAllDependencies(plan)
		out.SequenceEnforcementEnabled = false
		return out, nil
	})
}

// Reorder applies plangraph.Reorder and persists only an accepted result. A
// rejection returns the result alongside an error wrapping ErrPlanRejected.
func (s *planService) Reorder(ctx context.Context, assignmentID string, from, to int) (res *plangraph.ReorderResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"assignment_id": assignmentID, "from": from, "to": to}
	defer observe(ctx, s.observer, "plan-reorder", startedAt, &err, fields)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPlans := repository.NewSQLitePlanRepo(tx)
		plan, err := txPlans.GetPlan(ctx, assignmentID)
		if err != nil {
			return err
		}
		r := plangraph.Reorder(*plan, from, to)
		res = &r
		fields["reason"] = string(r.Reason)
		if !r.Accepted {
			return fmt.Errorf("%w: %s", ErrPlanRejected, r.Message)
		}
		res.Plan.UpdatedAt = time.Now().UTC().Truncate(time.Second)
		return txPlans.SavePlan(ctx, &res.Plan)
	})
	if err != nil && !errors.Is(err, ErrPlanRejected) {
		return nil, err
	}
	return res, err
}

func (s *planService) Check(ctx context.Context, assignmentID string) (*PlanCheck, error) {
	plan, err := s.plans.GetPlan(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	check := &PlanCheck{
		Plan:      *plan,
		Cycle:     plangraph.DetectCycle(*plan),
		Linear:    plangraph.IsLinearChain(*plan),
		States:    make(map[string]domain.StepState, len(plan.Steps)),
		Available: plangraph.AvailableSteps(*plan),
		Progress:  plangraph.Progress(*plan),
	}
	for _, st := range plan.Steps {
		state, _ := plangraph.StepState(*plan, st.ID)
		check.States[st.ID] = state
	}
	return check, nil
}

// mutate loads a plan, applies fn, re-validates and saves inside one
// transaction. With createMissing, an absent plan starts empty.
func (s *planService) mutate(ctx context.Context, assignmentID string, createMissing bool, fn func(domain.AssignmentPlan) (domain.AssignmentPlan, error)) (*domain.AssignmentPlan, error) {
	var saved domain.AssignmentPlan
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPlans := repository.NewSQLitePlanRepo(tx)
		plan, err := txPlans.GetPlan(ctx, assignmentID)
		if errors.Is(err, repository.ErrNotFound) && createMissing {
			plan = &domain.AssignmentPlan{AssignmentID: assignmentID}
		} else if err != nil {
			return err
		}

		next, err := fn(*plan)
		if err != nil {
			return err
		}
		if saved, err = preparePlan(next); err != nil {
			return err
		}
		return txPlans.SavePlan(ctx, &saved)
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// preparePlan normalizes a plan for storage and rejects cycles.
func preparePlan(plan domain.AssignmentPlan) (domain.AssignmentPlan, error) {
	var out domain.AssignmentPlan
	if plan.SequenceEnforcementEnabled {
		out = plangraph.SetupLinearChain(plan)
	} else {
		out = plangraph.Reindex(plan)
		for i := range out.Steps {
			out.Steps[i].Prerequisites = domain.NormalizePrerequisites(out.Steps[i].Prerequisites)
		}
	}
	if cycle := plangraph.DetectCycle(out); cycle != nil {
		return plan, fmt.Errorf("%w: prerequisite cycle %s", ErrPlanRejected, strings.Join(cycle, " -> "))
	}
	out.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	return out, nil
}
