package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/studyblocks/internal/domain"
	"github.com/alexanderramin/studyblocks/internal/repository"
	"github.com/google/uuid"
)

type workItemService struct {
	workItems repository.WorkItemRepo
}

func NewWorkItemService(workItems repository.WorkItemRepo) WorkItemService {
	return &workItemService{workItems: workItems}
}

func (s *workItemService) Create(ctx context.Context, w *domain.WorkItem) error {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	w.CreatedAt = now
	w.UpdatedAt = now
	if w.Status == "" {
		w.Status = domain.WorkItemTodo
	}
	if err := w.Validate(); err != nil {
		return fmt.Errorf("invalid work item: %w", err)
	}
	return s.workItems.Create(ctx, w)
}

func (s *workItemService) GetByID(ctx context.Context, id string) (*domain.WorkItem, error) {
	return s.workItems.GetByID(ctx, id)
}

func (s *workItemService) List(ctx context.Context, includeDone bool) ([]*domain.WorkItem, error) {
	return s.workItems.List(ctx, includeDone)
}

func (s *workItemService) Update(ctx context.Context, w *domain.WorkItem) error {
	if err := w.Validate(); err != nil {
		return fmt.Errorf("invalid work item: %w", err)
	}
	w.UpdatedAt = time.Now().UTC()
	return s.workItems.Update(ctx, w)
}

func (s *workItemService) MarkDone(ctx context.Context, id string) error {
	w, err := s.workItems.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := w.MarkDone(time.Now().UTC()); err != nil {
		return err
	}
	return s.workItems.Update(ctx, w)
}

func (s *workItemService) Archive(ctx context.Context, id string) error {
	w, err := s.workItems.GetByID(ctx, id)
	if err != nil {
		return err
	}
	w.Status = domain.WorkItemArchived
	w.UpdatedAt = time.Now().UTC()
	return s.workItems.Update(ctx, w)
}

func (s *workItemService) Delete(ctx context.Context, id string) error {
	return s.workItems.Delete(ctx, id)
}

type eventService struct {
	events repository.FixedEventRepo
}

func NewEventService(events repository.FixedEventRepo) EventService {
	return &eventService{events: events}
}

func (s *eventService) Create(ctx context.Context, e *domain.FixedEvent) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Title == "" {
		return fmt.Errorf("invalid event: title is required")
	}
	if !e.End.After(e.Start) {
		return fmt.Errorf("invalid event: end %s is not after start %s",
			e.End.Format(time.RFC3339), e.Start.Format(time.RFC3339))
	}
	if e.Source == "" {
		e.Source = domain.SourceManual
	}
	if e.Source == domain.SourceCalendar {
		e.IsLocked = true
	}
	return s.events.Create(ctx, e)
}

func (s *eventService) ListBetween(ctx context.Context, from, to time.Time) ([]*domain.FixedEvent, error) {
	return s.events.ListOverlapping(ctx, from, to)
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	return s.events.Delete(ctx, id)
}
