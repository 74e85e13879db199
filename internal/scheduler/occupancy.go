package scheduler

import (
	"time"

	"github.com/alexanderramin/studyblocks/internal/domain"
)

const dayKeyLayout = "2006-01-02"

type interval struct {
	start time.Time
	end   time.Time
}

// occupancy tracks busy time and per-day study minutes during one run.
type occupancy struct {
	busy      []interval
	blackout  []domain.TimeWindow
	gap       time.Duration
	loc       *time.Location
	usedByDay map[string]int
}

func newOccupancy(events []domain.FixedEvent, c domain.Constraints) *occupancy {
	o := &occupancy{
		blackout:  c.DoNotSchedule,
		gap:       time.Duration(c.MinGapMin) * time.Minute,
		loc:       c.Loc(),
		usedByDay: make(map[string]int),
	}
	for _, ev := range events {
		// Unlocked events are earlier generated blocks the planner may move.
		if !ev.IsLocked || !ev.Start.Before(ev.End) {
			continue
		}
		o.busy = append(o.busy, interval{start: ev.Start, end: ev.End})
	}
	return o
}

func (o *occupancy) dayKey(t time.Time) string {
	return t.In(o.loc).Format(dayKeyLayout)
}

// used returns study minutes already placed on the day containing t.
func (o *occupancy) used(t time.Time) int {
	return o.usedByDay[o.dayKey(t)]
}

// free reports whether [start, end) clears every busy interval by the gap
// and touches no do-not-schedule window.
func (o *occupancy) free(start, end time.Time) bool {
	for _, b := range o.busy {
		if start.Before(b.end.Add(o.gap)) && b.start.Add(-o.gap).Before(end) {
			return false
		}
	}
	for _, w := range o.blackout {
		if w.Overlaps(start, end) {
			return false
		}
	}
	return true
}

func (o *occupancy) reserve(start, end time.Time) {
	o.busy = append(o.busy, interval{start: start, end: end})
	o.usedByDay[o.dayKey(start)] += int(end.Sub(start) / time.Minute)
}
