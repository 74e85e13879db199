package scheduler

import (
	"fmt"
	"time"

	"github.com/alexanderramin/studyblocks/internal/domain"
	"github.com/google/uuid"
)

// Overflow reasons reported in the schedule log.
const (
	ReasonMalformedConstraints = "malformed constraints"
	ReasonInvalidBlockBounds   = "invalid block bounds"
	ReasonHorizonExhausted     = "horizon exhausted"
	ReasonNoCapacity           = "no capacity"
	ReasonNoMatchingSlot       = "no matching slot"
)

var blockNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("studyblocks:scheduled-block"))

// ScheduleResult is the outcome of one scheduler run.
type ScheduleResult struct {
	Scheduled []domain.ScheduledBlock
	Overflow  []domain.WorkItem
	Log       []string
}

// GenerateSchedule places one block per work item around the locked fixed
// events, greedily and in canonical order. It never fails: items that cannot
// be placed are returned in Overflow with a log line saying why.
func GenerateSchedule(
	items []domain.WorkItem,
	events []domain.FixedEvent,
	c domain.Constraints,
	prefs domain.SchedulerPreferences,
) ScheduleResult {
	var res ScheduleResult

	if err := c.Validate(); err != nil {
		for _, it := range items {
			res.Overflow = append(res.Overflow, it)
			res.Log = append(res.Log, fmt.Sprintf("%s: overflow (%s: %v)", itemLabel(it), ReasonMalformedConstraints, err))
		}
		return res
	}

	energy := prefs.Energy
	if c.Energy != nil {
		energy = *c.Energy
	}

	p := &placer{
		c:      c,
		loc:    c.Loc(),
		step:   time.Duration(c.StepMin()) * time.Minute,
		energy: energy,
		occ:    newOccupancy(events, c),
	}

	scored := ScoreAll(items, prefs, c.HorizonStart)
	CanonicalSort(scored)

	for _, s := range scored {
		block, msg, ok := p.place(s.Item)
		res.Log = append(res.Log, msg)
		if !ok {
			res.Overflow = append(res.Overflow, s.Item)
			continue
		}
		res.Scheduled = append(res.Scheduled, block)
	}
	return res
}

type placer struct {
	c      domain.Constraints
	loc    *time.Location
	step   time.Duration
	energy domain.EnergyProfile
	occ    *occupancy
}

type walkStats struct {
	days        int
	capRejected int
	noSlot      int
}

func (s walkStats) reason() string {
	switch {
	case s.days == 0:
		return ReasonHorizonExhausted
	case s.capRejected == s.days:
		return ReasonNoCapacity
	default:
		return ReasonNoMatchingSlot
	}
}

func (p *placer) place(item domain.WorkItem) (domain.ScheduledBlock, string, bool) {
	label := itemLabel(item)

	dur, err := blockMinutes(item, p.c)
	if err != nil {
		return domain.ScheduledBlock{}, fmt.Sprintf("%s: overflow (%s: %v)", label, ReasonInvalidBlockBounds, err), false
	}

	limit := p.c.HorizonEnd
	if item.DueDate.Before(limit) {
		limit = item.DueDate
	}

	start, energy, stats, ok := p.walk(dur, limit)
	late := false
	if !ok && !item.Locked && limit.Before(p.c.HorizonEnd) {
		start, energy, stats, ok = p.walk(dur, p.c.HorizonEnd)
		late = ok
	}
	if !ok {
		return domain.ScheduledBlock{}, fmt.Sprintf("%s: overflow (%s after %d candidate days)", label, stats.reason(), stats.days), false
	}

	end := start.Add(time.Duration(dur) * time.Minute)
	p.occ.reserve(start, end)

	block := domain.ScheduledBlock{
		ID:         blockID(item.ID, start),
		WorkItemID: item.ID,
		Title:      item.Title,
		Category:   item.Category,
		Start:      start,
		End:        end,
	}

	ls, le := start.In(p.loc), end.In(p.loc)
	msg := fmt.Sprintf("%s: placed %s %s-%s (%d min, energy %.2f)",
		label, ls.Format("Mon 2006-01-02"), ls.Format("15:04"), le.Format("15:04"), dur, energy)
	if late {
		msg += "; placed after due date"
	}
	if item.TotalMin > dur {
		msg += fmt.Sprintf("; %d of %d min placed", dur, item.TotalMin)
		if item.ParentID == nil {
			msg += ", split the item to book the rest"
		} else {
			msg += ", block bounds leave the rest unbooked"
		}
	}
	return block, msg, true
}

// walk visits days chronologically from the horizon start and returns the
// best slot on the first day that has one. Blocks must end by limit.
func (p *placer) walk(dur int, limit time.Time) (time.Time, float64, walkStats, bool) {
	var stats walkStats
	length := time.Duration(dur) * time.Minute
	if !limit.After(p.c.HorizonStart) {
		return time.Time{}, 0, stats, false
	}

	for day := domain.StartOfDay(p.c.HorizonStart, p.loc); day.Before(limit); day = day.AddDate(0, 0, 1) {
		stats.days++

		if p.occ.used(day)+dur > p.c.MaxStudyMinPerDay {
			stats.capRejected++
			continue
		}

		gridStart := time.Date(day.Year(), day.Month(), day.Day(), p.c.DayStartHour, 0, 0, 0, p.loc)
		winEnd := time.Date(day.Year(), day.Month(), day.Day(), p.c.DayEndHour, 0, 0, 0, p.loc)
		if limit.Before(winEnd) {
			winEnd = limit
		}
		winStart := gridStart
		if winStart.Before(p.c.HorizonStart) {
			winStart = p.c.HorizonStart
		}
		if winEnd.Sub(winStart) < length {
			stats.noSlot++
			continue
		}

		var best time.Time
		var bestEnergy float64
		found := false
		for t := gridStart; !t.Add(length).After(winEnd); t = t.Add(p.step) {
			if t.Before(winStart) || !p.occ.free(t, t.Add(length)) {
				continue
			}
			// Strictly greater keeps the earliest start among equal-energy hours.
			if e := p.energy.At(t.In(p.loc).Hour()); !found || e > bestEnergy {
				best, bestEnergy, found = t, e, true
			}
		}
		if found {
			return best, bestEnergy, stats, true
		}
		stats.noSlot++
	}
	return time.Time{}, 0, stats, false
}

// blockMinutes is min(item max, global max, total) floored at the item minimum.
func blockMinutes(item domain.WorkItem, c domain.Constraints) (int, error) {
	maxB := EffectiveMaxBlock(item, c.MaxBlockMin)
	switch {
	case item.MinBlockMin <= 0 || maxB <= 0:
		return 0, fmt.Errorf("min %d / max %d must be positive", item.MinBlockMin, maxB)
	case item.MinBlockMin > maxB:
		return 0, fmt.Errorf("min %d exceeds max %d", item.MinBlockMin, maxB)
	case item.TotalMin <= 0:
		return 0, fmt.Errorf("no minutes to schedule")
	}
	dur := min(maxB, item.TotalMin)
	return max(dur, item.MinBlockMin), nil
}

func blockID(itemID string, start time.Time) string {
	return uuid.NewSHA1(blockNamespace, []byte(itemID+"|"+start.UTC().Format(time.RFC3339))).String()
}

func itemLabel(it domain.WorkItem) string {
	if it.Title == "" {
		return it.ID
	}
	return fmt.Sprintf("%s (%s)", it.Title, it.ID)
}
