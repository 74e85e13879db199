package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/studyblocks/internal/domain"
	"github.com/alexanderramin/studyblocks/internal/learning"
)

type WorkItemRepo interface {
	Create(ctx context.Context, w *domain.WorkItem) error
	GetByID(ctx context.Context, id string) (*domain.WorkItem, error)
	List(ctx context.Context, includeDone bool) ([]*domain.WorkItem, error)
	ListPending(ctx context.Context) ([]*domain.WorkItem, error)
	Update(ctx context.Context, w *domain.WorkItem) error
	Delete(ctx context.Context, id string) error
}

type FixedEventRepo interface {
	Create(ctx context.Context, e *domain.FixedEvent) error
	GetByID(ctx context.Context, id string) (*domain.FixedEvent, error)
	// ListOverlapping returns events intersecting [from, to).
	ListOverlapping(ctx context.Context, from, to time.Time) ([]*domain.FixedEvent, error)
	Delete(ctx context.Context, id string) error
}

type BlockRepo interface {
	GetByID(ctx context.Context, id string) (*domain.ScheduledBlock, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*domain.ScheduledBlock, error)
	// ReplaceBetween deletes blocks starting in [from, to) and inserts blocks.
	ReplaceBetween(ctx context.Context, from, to time.Time, blocks []domain.ScheduledBlock) error
}

// FeedbackRepo is the persistent feedback log.
type FeedbackRepo interface {
	learning.FeedbackStore
}

type PreferencesRepo interface {
	Get(ctx context.Context) (*domain.SchedulerPreferences, error)
	Upsert(ctx context.Context, p *domain.SchedulerPreferences) error
}

// PlanStore is the persistence boundary for assignment plans.
type PlanStore interface {
	GetPlan(ctx context.Context, assignmentID string) (*domain.AssignmentPlan, error)
	SavePlan(ctx context.Context, plan *domain.AssignmentPlan) error
	DeletePlan(ctx context.Context, assignmentID string) error
}
