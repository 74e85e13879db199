package domain

import "time"

// BlockFeedback records one user action on a previously generated block.
// Entries are append-only and never mutated.
type BlockFeedback struct {
	ID              string
	BlockID         string
	WorkItemID      string
	Category        string
	OriginalStart   time.Time
	OriginalEnd     time.Time
	CompletionRatio float64
	Action          FeedbackAction
	RecordedAt      time.Time
}
