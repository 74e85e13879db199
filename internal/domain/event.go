package domain

import "time"

// FixedEvent is calendar time the scheduler must never double-book.
type FixedEvent struct {
	ID       string
	Title    string
	Start    time.Time
	End      time.Time
	IsLocked bool // always true for calendar-origin events
	Source   EventSource
}

// ScheduledBlock is a placed study interval for one work item.
type ScheduledBlock struct {
	ID         string
	WorkItemID string
	Title      string
	Category   string
	Start      time.Time
	End        time.Time
	CreatedAt  time.Time
}

// Minutes returns the block length in whole minutes.
func (b ScheduledBlock) Minutes() int {
	return int(b.End.Sub(b.Start) / time.Minute)
}

// TimeWindow is a half-open absolute interval [Start, End).
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether the two half-open intervals intersect.
func (w TimeWindow) Overlaps(start, end time.Time) bool {
	return start.Before(w.End) && w.Start.Before(end)
}
