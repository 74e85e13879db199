package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/studyblocks/internal/db"
	"github.com/alexanderramin/studyblocks/internal/domain"
)

// SQLitePlanRepo implements PlanStore. A plan is saved as a whole: steps and
// prerequisite edges are replaced, so callers should save inside a transaction.
type SQLitePlanRepo struct {
	db db.DBTX
}

func NewSQLitePlanRepo(conn db.DBTX) *SQLitePlanRepo {
	return &SQLitePlanRepo{db: conn}
}

func (r *SQLitePlanRepo) GetPlan(ctx context.Context, assignmentID string) (*domain.AssignmentPlan, error) {
	var enforce int
	var updatedStr string
	err := r.db.QueryRowContext(ctx,
		`SELECT sequence_enforcement, updated_at FROM assignment_plans WHERE assignment_id = ?`,
		assignmentID).Scan(&enforce, &updatedStr)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("plan for %s: %w", assignmentID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading plan: %w", err)
	}

	plan := &domain.AssignmentPlan{
		AssignmentID:               assignmentID,
		SequenceEnforcementEnabled: intToBool(enforce),
	}
	if plan.UpdatedAt, err = parseTime("updated_at", updatedStr); err != nil {
		return nil, err
	}

	steps, err := r.loadSteps(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	prereqs, err := r.loadPrerequisites(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	for i := range steps {
		steps[i].Prerequisites = domain.NormalizePrerequisites(prereqs[steps[i].ID])
	}
	plan.Steps = steps
	return plan, nil
}

func (r *SQLitePlanRepo) loadSteps(ctx context.Context, assignmentID string) ([]domain.PlanStep, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, estimated_min, sequence_index, completed
		FROM plan_steps WHERE assignment_id = ? ORDER BY sequence_index, id`, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("listing plan steps: %w", err)
	}
	defer rows.Close()

	var steps []domain.PlanStep
	for rows.Next() {
		var s domain.PlanStep
		var completed int
		if err := rows.Scan(&s.ID, &s.Title, &s.EstimatedMin, &s.SequenceIndex, &completed); err != nil {
			return nil, fmt.Errorf("scanning plan step: %w", err)
		}
		s.Completed = intToBool(completed)
		steps = append(steps, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plan steps: %w", err)
	}
	return steps, nil
}

func (r *SQLitePlanRepo) loadPrerequisites(ctx context.Context, assignmentID string) (map[string][]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT p.step_id, p.prerequisite_id
		FROM plan_step_prerequisites p
		JOIN plan_steps s ON s.id = p.step_id
		WHERE s.assignment_id = ?
		ORDER BY p.step_id, p.prerequisite_id`, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("listing prerequisites: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var stepID, preID string
		if err := rows.Scan(&stepID, &preID); err != nil {
			return nil, fmt.Errorf("scanning prerequisite: %w", err)
		}
		out[stepID] = append(out[stepID], preID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating prerequisites: %w", err)
	}
	return out, nil
}

func (r *SQLitePlanRepo) SavePlan(ctx context.Context, plan *domain.AssignmentPlan) error {
	updated := plan.UpdatedAt
	if updated.IsZero() {
		updated = time.Now().UTC()
	}
	if _, err := r.db.ExecContext(ctx, `INSERT INTO assignment_plans (assignment_id, sequence_enforcement, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(assignment_id) DO UPDATE
		SET sequence_enforcement = excluded.sequence_enforcement, updated_at = excluded.updated_at`,
		plan.AssignmentID, boolToInt(plan.SequenceEnforcementEnabled), formatTime(updated)); err != nil {
		return fmt.Errorf("upserting plan: %w", err)
	}

	// Cascades to plan_step_prerequisites.
	if _, err := r.db.ExecContext(ctx, `DELETE FROM plan_steps WHERE assignment_id = ?`, plan.AssignmentID); err != nil {
		return fmt.Errorf("clearing plan steps: %w", err)
	}
	for _, s := range plan.Steps {
		if _, err := r.db.ExecContext(ctx, `INSERT INTO plan_steps
			(id, assignment_id, title, estimated_min, sequence_index, completed)
			VALUES (?, ?, ?, ?, ?, ?)`,
			s.ID, plan.AssignmentID, s.Title, s.EstimatedMin, s.SequenceIndex, boolToInt(s.Completed)); err != nil {
			return fmt.Errorf("inserting plan step %s: %w", s.ID, err)
		}
	}
	for _, s := range plan.Steps {
		for _, pre := range domain.NormalizePrerequisites(s.Prerequisites) {
			if _, err := r.db.ExecContext(ctx,
				`INSERT INTO plan_step_prerequisites (step_id, prerequisite_id) VALUES (?, ?)`,
				s.ID, pre); err != nil {
				return fmt.Errorf("inserting prerequisite %s -> %s: %w", pre, s.ID, err)
			}
		}
	}
	return nil
}

func (r *SQLitePlanRepo) DeletePlan(ctx context.Context, assignmentID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM assignment_plans WHERE assignment_id = ?`, assignmentID)
	if err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	return requireAffected(res, "plan", assignmentID)
}
