package scheduler

import (
	"sort"
	"time"

	"github.com/alexanderramin/studyblocks/internal/domain"
)

// ScoredItem pairs a work item with its priority score.
type ScoredItem struct {
	Item  domain.WorkItem
	Score float64
}

// ScoreAll scores items in input order.
func ScoreAll(items []domain.WorkItem, prefs domain.SchedulerPreferences, now time.Time) []ScoredItem {
	out := make([]ScoredItem, len(items))
	for i, it := range items {
		out[i] = ScoredItem{Item: it, Score: Score(it, prefs, now)}
	}
	return out
}

// CanonicalSort orders items by the deterministic placement rules:
// 1. Due date: earliest first
// 2. Score: higher first
// 3. Work item ID: lexical ascending
// Items equal on all three keep their input order.
func CanonicalSort(items []ScoredItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]

		if !a.Item.DueDate.Equal(b.Item.DueDate) {
			return a.Item.DueDate.Before(b.Item.DueDate)
		}

		if a.Score != b.Score {
			return a.Score > b.Score
		}

		return a.Item.ID < b.Item.ID
	})
}
