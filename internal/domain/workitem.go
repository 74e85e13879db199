package domain

import (
	"fmt"
	"time"
)

type WorkItem struct {
	ID       string
	ParentID *string // set on sub-items produced by the splitter
	Title    string
	DueDate  time.Time
	TotalMin int

	// Block bounds
	MinBlockMin int
	MaxBlockMin int

	Difficulty float64
	Importance float64
	Category   string
	// Locked makes DueDate a hard upper bound for placement.
	Locked   bool
	CourseID *string

	Status    WorkItemStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPending reports whether the item still wants scheduling.
func (w *WorkItem) IsPending() bool {
	return w.Status == "" || w.Status == WorkItemTodo
}

// Validate checks the fields a store must reject before persisting.
// The scheduler itself never calls this: malformed items simply overflow.
func (w *WorkItem) Validate() error {
	if w.Title == "" {
		return fmt.Errorf("title is required")
	}
	if w.TotalMin <= 0 {
		return fmt.Errorf("total minutes must be positive, got %d", w.TotalMin)
	}
	if w.MinBlockMin <= 0 || w.MaxBlockMin <= 0 {
		return fmt.Errorf("block bounds must be positive (min=%d, max=%d)", w.MinBlockMin, w.MaxBlockMin)
	}
	if w.MinBlockMin > w.MaxBlockMin {
		return fmt.Errorf("min block (%d) exceeds max block (%d)", w.MinBlockMin, w.MaxBlockMin)
	}
	if w.Difficulty < 0 || w.Difficulty > 1 {
		return fmt.Errorf("difficulty must be within [0,1], got %g", w.Difficulty)
	}
	if w.Importance < 0 || w.Importance > 1 {
		return fmt.Errorf("importance must be within [0,1], got %g", w.Importance)
	}
	if w.DueDate.IsZero() {
		return fmt.Errorf("due date is required")
	}
	return nil
}

// MarkDone transitions the item to done. Archived items cannot be completed.
func (w *WorkItem) MarkDone(now time.Time) error {
	if w.Status == WorkItemArchived {
		return fmt.Errorf("cannot complete archived work item %s", w.ID)
	}
	w.Status = WorkItemDone
	w.UpdatedAt = now
	return nil
}

// SourceID returns the id of the item the block ultimately belongs to:
// the parent for split sub-items, the item itself otherwise.
func (w *WorkItem) SourceID() string {
	if w.ParentID != nil && *w.ParentID != "" {
		return *w.ParentID
	}
	return w.ID
}
