package scheduler

import (
	"math"
	"time"

	"github.com/alexanderramin/studyblocks/internal/domain"
)

const (
	// minDaysRemaining keeps urgency finite for items due now or in the past.
	minDaysRemaining = 0.25
	// sizeNormMin is the item length at which the size factor saturates.
	sizeNormMin = 240.0
)

// ScoreBreakdown holds the weighted contribution of each priority term.
type ScoreBreakdown struct {
	Urgency    float64
	Importance float64
	Difficulty float64
	Size       float64
	Bias       float64
}

// Total sums all contributions.
func (b ScoreBreakdown) Total() float64 {
	return b.Urgency + b.Importance + b.Difficulty + b.Size + b.Bias
}

// Dominant returns the weighted component contributing most to the score.
// Category bias is not a component. Ties resolve in declaration order.
func (b ScoreBreakdown) Dominant() domain.ScoreComponent {
	best := domain.ComponentUrgency
	bestVal := b.Urgency
	for _, c := range []struct {
		name domain.ScoreComponent
		val  float64
	}{
		{domain.ComponentImportance, b.Importance},
		{domain.ComponentDifficulty, b.Difficulty},
		{domain.ComponentSize, b.Size},
	} {
		if c.val > bestVal {
			best, bestVal = c.name, c.val
		}
	}
	return best
}

// Urgency grows monotonically as the due date approaches and is capped at
// 1/minDaysRemaining for items that are due now or overdue.
func Urgency(item domain.WorkItem, now time.Time) float64 {
	days := item.DueDate.Sub(now).Hours() / 24
	return 1 / math.Max(days, minDaysRemaining)
}

// SizeFactor scales total effort into [0,1].
func SizeFactor(item domain.WorkItem) float64 {
	return domain.ClampFloat(float64(item.TotalMin)/sizeNormMin, 0, 1)
}

// Components computes the weighted score terms for item.
func Components(item domain.WorkItem, prefs domain.SchedulerPreferences, now time.Time) ScoreBreakdown {
	return ScoreBreakdown{
		Urgency:    prefs.WeightUrgency * Urgency(item, now),
		Importance: prefs.WeightImportance * item.Importance,
		Difficulty: prefs.WeightDifficulty * item.Difficulty,
		Size:       prefs.WeightSize * SizeFactor(item),
		Bias:       prefs.CategoryBias[item.Category],
	}
}

// Score returns the priority of item; higher is scheduled first under contention.
func Score(item domain.WorkItem, prefs domain.SchedulerPreferences, now time.Time) float64 {
	return Components(item, prefs, now).Total()
}
