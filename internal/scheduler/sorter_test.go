package scheduler

import (
	"testing"
	"time"

	"github.com/alexanderramin/studyblocks/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeScored(id string, due time.Time, score float64) ScoredItem {
	return ScoredItem{
		Item:  domain.WorkItem{ID: id, DueDate: due},
		Score: score,
	}
}

func TestCanonicalSort_DueDateBeatsScore(t *testing.T) {
	early := time.Now().Add(24 * time.Hour)
	late := time.Now().Add(10 * 24 * time.Hour)

	items := []ScoredItem{
		makeScored("wi-late", late, 99),
		makeScored("wi-early", early, 1),
	}
	CanonicalSort(items)

	assert.Equal(t, "wi-early", items[0].Item.ID, "earlier deadline always outranks higher score")
}

func TestCanonicalSort_ScoreBreaksDueDateTie(t *testing.T) {
	due := time.Now().Add(48 * time.Hour)
	items := []ScoredItem{
		makeScored("wi-low", due, 0.4),
		makeScored("wi-high", due, 0.9),
	}
	CanonicalSort(items)

	assert.Equal(t, "wi-high", items[0].Item.ID)
}

func TestCanonicalSort_IDBreaksFullTie(t *testing.T) {
	due := time.Now().Add(48 * time.Hour)
	items := []ScoredItem{
		makeScored("wi-b", due, 1),
		makeScored("wi-a", due, 1),
		makeScored("wi-c", due, 1),
	}
	CanonicalSort(items)

	require.Len(t, items, 3)
	assert.Equal(t, []string{"wi-a", "wi-b", "wi-c"}, []string{items[0].Item.ID, items[1].Item.ID, items[2].Item.ID})
}

func TestScoreAll_PreservesInputOrder(t *testing.T) {
	now := time.Now()
	items := []domain.WorkItem{
		{ID: "x", DueDate: now.Add(time.Hour), Importance: 1},
		{ID: "y", DueDate: now.Add(time.Hour)},
	}
	scored := ScoreAll(items, domain.DefaultPreferences(), now)
	require.Len(t, scored, 2)
	assert.Equal(t, "x", scored[0].Item.ID)
	assert.Greater(t, scored[0].Score, scored[1].Score)
}
