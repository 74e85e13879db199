package scheduler

import (
	"testing"
	"time"

	"github.com/alexanderramin/studyblocks/internal/domain"
	"github.com/stretchr/testify/assert"
)

var scoreNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func scoreItem(dueIn time.Duration) domain.WorkItem {
	return domain.WorkItem{
		ID:          "wi-1",
		Title:       "Task",
		DueDate:     scoreNow.Add(dueIn),
		TotalMin:    120,
		MinBlockMin: 30,
		MaxBlockMin: 60,
		Difficulty:  0.4,
		Importance:  0.6,
		Category:    "math",
	}
}

func TestUrgency_MonotonicAsDeadlineApproaches(t *testing.T) {
	far := Urgency(scoreItem(14*24*time.Hour), scoreNow)
	mid := Urgency(scoreItem(3*24*time.Hour), scoreNow)
	near := Urgency(scoreItem(24*time.Hour), scoreNow)

	assert.Less(t, far, mid)
	assert.Less(t, mid, near)
}

func TestUrgency_ClampedForDueNowAndOverdue(t *testing.T) {
	ceiling := 1 / minDaysRemaining
	assert.Equal(t, ceiling, Urgency(scoreItem(0), scoreNow), "due now must not divide by zero")
	assert.Equal(t, ceiling, Urgency(scoreItem(-48*time.Hour), scoreNow), "overdue gets maximum urgency")
	assert.Equal(t, ceiling, Urgency(scoreItem(time.Hour), scoreNow), "within a quarter day is clamped")
}

func TestSizeFactor_Saturates(t *testing.T) {
	it := scoreItem(time.Hour)
	it.TotalMin = 120
	assert.InDelta(t, 0.5, SizeFactor(it), 1e-9)
	it.TotalMin = 1000
	assert.Equal(t, 1.0, SizeFactor(it))
}

func TestScore_WeightedSumWithCategoryBias(t *testing.T) {
	prefs := domain.DefaultPreferences()
	prefs.CategoryBias["math"] = 0.25
	it := scoreItem(2 * 24 * time.Hour)

	want := 1.0*0.5 + 0.8*0.6 + 0.5*0.4 + 0.3*0.5 + 0.25
	assert.InDelta(t, want, Score(it, prefs, scoreNow), 1e-9)
}

func TestScore_ZeroWeightsOnlyBias(t *testing.T) {
	prefs := domain.SchedulerPreferences{CategoryBias: map[string]float64{"math": -0.5}}
	assert.Equal(t, -0.5, Score(scoreItem(time.Hour), prefs, scoreNow))

	prefs.CategoryBias = nil
	assert.Equal(t, 0.0, Score(scoreItem(time.Hour), prefs, scoreNow), "nil bias map is fine")
}

func TestComponents_Dominant(t *testing.T) {
	prefs := domain.DefaultPreferences()

	urgent := scoreItem(6 * time.Hour)
	assert.Equal(t, domain.ComponentUrgency, Components(urgent, prefs, scoreNow).Dominant())

	important := scoreItem(30 * 24 * time.Hour)
	important.Importance = 1.0
	assert.Equal(t, domain.ComponentImportance, Components(important, prefs, scoreNow).Dominant())

	prefs.WeightDifficulty = 2.0
	hard := scoreItem(30 * 24 * time.Hour)
	hard.Difficulty = 1.0
	assert.Equal(t, domain.ComponentDifficulty, Components(hard, prefs, scoreNow).Dominant())
}
