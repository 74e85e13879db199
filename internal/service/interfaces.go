package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/studyblocks/internal/domain"
	"github.com/alexanderramin/studyblocks/internal/importer"
	"github.com/alexanderramin/studyblocks/internal/learning"
	"github.com/alexanderramin/studyblocks/internal/plangraph"
	"github.com/alexanderramin/studyblocks/internal/scheduler"
)

// ErrPlanRejected is returned when a plan edit would leave the plan invalid.
// Nothing is persisted when it is returned.
var ErrPlanRejected = errors.New("plan change rejected")

type WorkItemService interface {
	Create(ctx context.Context, w *domain.WorkItem) error
	GetByID(ctx context.Context, id string) (*domain.WorkItem, error)
	List(ctx context.Context, includeDone bool) ([]*domain.WorkItem, error)
	Update(ctx context.Context, w *domain.WorkItem) error
	MarkDone(ctx context.Context, id string) error
	Archive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type EventService interface {
	Create(ctx context.Context, e *domain.FixedEvent) error
	ListBetween(ctx context.Context, from, to time.Time) ([]*domain.FixedEvent, error)
	Delete(ctx context.Context, id string) error
}

// ScheduleRequest drives one scheduler run over stored work items and events.
type ScheduleRequest struct {
	Constraints domain.Constraints
	// Split chunks oversized items before placement.
	Split bool
	// Persist replaces stored blocks starting inside the horizon.
	Persist bool
}

type ScheduleResponse struct {
	Result     scheduler.ScheduleResult
	ItemCount  int
	EventCount int
	Persisted  bool
}

type ScheduleService interface {
	Generate(ctx context.Context, req ScheduleRequest) (*ScheduleResponse, error)
	ListBlocks(ctx context.Context, from, to time.Time) ([]*domain.ScheduledBlock, error)
}

// RecordFeedbackRequest identifies a stored block and what the user did with it.
type RecordFeedbackRequest struct {
	BlockID         string
	Action          domain.FeedbackAction
	CompletionRatio float64
}

type FeedbackService interface {
	Record(ctx context.Context, req RecordFeedbackRequest) (*domain.BlockFeedback, error)
	List(ctx context.Context) ([]domain.BlockFeedback, error)
}

// RelearnResult reports one learning pass over the feedback log.
type RelearnResult struct {
	Report   learning.Report
	Before   domain.SchedulerPreferences
	After    domain.SchedulerPreferences
	Consumed int
	Cleared  bool
}

type LearnService interface {
	Relearn(ctx context.Context) (*RelearnResult, error)
	Preferences(ctx context.Context) (*domain.SchedulerPreferences, error)
	ResetPreferences(ctx context.Context) error
}

// PlanCheck summarizes the health of a stored plan.
type PlanCheck struct {
	Plan      domain.AssignmentPlan
	Cycle     []string
	Linear    bool
	States    map[string]domain.StepState
	Available []domain.PlanStep
	Progress  float64
}

type PlanService interface {
	GetPlan(ctx context.Context, assignmentID string) (*domain.AssignmentPlan, error)
	SavePlan(ctx context.Context, plan *domain.AssignmentPlan) error
	AddStep(ctx context.Context, assignmentID, title string, estimatedMin int, after []string) (*domain.AssignmentPlan, error)
	SetStepCompleted(ctx context.Context, assignmentID, stepID string, completed bool) (*domain.AssignmentPlan, error)
	ToggleSequenceEnforcement(ctx context.Context, assignmentID string) (*domain.AssignmentPlan, error)
	ClearAllDependencies(ctx context.Context, assignmentID string) (*domain.AssignmentPlan, error)
	Reorder(ctx context.Context, assignmentID string, from, to int) (*plangraph.ReorderResult, error)
	Check(ctx context.Context, assignmentID string) (*PlanCheck, error)
}

// ImportResult holds the outcome of an import.
type ImportResult struct {
	WorkItemCount int
	EventCount    int
	PlanCount     int
	StepCount     int
}

type ImportService interface {
	Import(ctx context.Context, filePath string) (*ImportResult, error)
	ImportSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error)
}
