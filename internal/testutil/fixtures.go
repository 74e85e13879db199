package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/studyblocks/internal/domain"
	"github.com/google/uuid"
)

var testStepCounter atomic.Int64

// now is truncated to seconds so values survive an RFC3339 round trip.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// WorkItem options
type WorkItemOption func(*domain.WorkItem)

func WithDueDate(d time.Time) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.DueDate = d
	}
}

func WithTotalMin(m int) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.TotalMin = m
	}
}

func WithBlockBounds(min, max int) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.MinBlockMin = min
		w.MaxBlockMin = max
	}
}

func WithCategory(c string) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.Category = c
	}
}

func WithImportance(v float64) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.Importance = v
	}
}

func WithDifficulty(v float64) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.Difficulty = v
	}
}

func WithLocked(locked bool) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.Locked = locked
	}
}

func WithCourse(id string) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.CourseID = &id
	}
}

func WithWorkItemStatus(s domain.WorkItemStatus) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.Status = s
	}
}

func WithWorkItemID(id string) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.ID = id
	}
}

func NewTestWorkItem(title string, opts ...WorkItemOption) *domain.WorkItem {
	ts := now()
	w := &domain.WorkItem{
		ID:          uuid.New().String(),
		Title:       title,
		DueDate:     ts.AddDate(0, 0, 3),
		TotalMin:    60,
		MinBlockMin: 30,
		MaxBlockMin: 60,
		Difficulty:  0.5,
		Importance:  0.5,
		Category:    "general",
		Status:      domain.WorkItemTodo,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// FixedEvent options
type EventOption func(*domain.FixedEvent)

func WithUnlocked() EventOption {
	return func(e *domain.FixedEvent) {
		e.IsLocked = false
	}
}

func WithEventSource(s domain.EventSource) EventOption {
	return func(e *domain.FixedEvent) {
		e.Source = s
	}
}

func NewTestEvent(title string, start time.Time, minutes int, opts ...EventOption) *domain.FixedEvent {
	e := &domain.FixedEvent{
		ID:       uuid.New().String(),
		Title:    title,
		Start:    start,
		End:      start.Add(time.Duration(minutes) * time.Minute),
		IsLocked: true,
		Source:   domain.SourceCalendar,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewTestFeedback builds a feedback entry for a block that started at start.
func NewTestFeedback(workItemID string, start time.Time, action domain.FeedbackAction, completion float64) *domain.BlockFeedback {
	return &domain.BlockFeedback{
		ID:              uuid.New().String(),
		BlockID:         uuid.New().String(),
		WorkItemID:      workItemID,
		OriginalStart:   start,
		OriginalEnd:     start.Add(time.Hour),
		CompletionRatio: completion,
		Action:          action,
		RecordedAt:      now(),
	}
}

// NewTestPlan builds a plan of n steps with ids "<prefix>-step<i>", optionally
// chained.
func NewTestPlan(assignmentID string, n int, enforce bool) *domain.AssignmentPlan {
	prefix := fmt.Sprintf("p%d", testStepCounter.Add(1))
	p := &domain.AssignmentPlan{
		AssignmentID:               assignmentID,
		SequenceEnforcementEnabled: enforce,
		UpdatedAt:                  now(),
	}
	for i := 0; i < n; i++ {
		s := domain.PlanStep{
			ID:            fmt.Sprintf("%s-step%d", prefix, i),
			Title:         fmt.Sprintf("Step %d", i),
			EstimatedMin:  30,
			SequenceIndex: i,
		}
		if enforce && i > 0 {
			s.Prerequisites = []string{p.Steps[i-1].ID}
		}
		p.Steps = append(p.Steps, s)
	}
	return p
}
