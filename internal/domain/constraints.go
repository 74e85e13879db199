package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultSlotStepMin is the slot scan granularity used when Constraints leaves it unset.
const DefaultSlotStepMin = 5

type Constraints struct {
	HorizonStart time.Time
	HorizonEnd   time.Time
	DayStartHour int
	DayEndHour   int

	MaxStudyMinPerDay int
	MaxBlockMin       int // 0 means no global cap beyond the item's own
	MinGapMin         int
	SlotStepMin       int

	DoNotSchedule []TimeWindow
	// Energy overrides the learned profile in SchedulerPreferences when set.
	Energy *EnergyProfile
	// Location defines day boundaries. Nil means UTC.
	Location *time.Location
}

// Loc returns the location used for day boundaries.
func (c Constraints) Loc() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// StepMin returns the effective slot step.
func (c Constraints) StepMin() int {
	if c.SlotStepMin <= 0 {
		return DefaultSlotStepMin
	}
	return c.SlotStepMin
}

// Validate reports why constraints cannot produce any placement.
// A non-nil error means every item overflows.
func (c Constraints) Validate() error {
	switch {
	case c.DayStartHour < 0 || c.DayEndHour > 24:
		return fmt.Errorf("day window %d-%d is outside 0-24", c.DayStartHour, c.DayEndHour)
	case c.DayStartHour >= c.DayEndHour:
		return fmt.Errorf("day start hour %d is not before day end hour %d", c.DayStartHour, c.DayEndHour)
	case !c.HorizonStart.Before(c.HorizonEnd):
		return fmt.Errorf("empty horizon %s .. %s", c.HorizonStart.Format(time.RFC3339), c.HorizonEnd.Format(time.RFC3339))
	case c.MaxStudyMinPerDay <= 0:
		return fmt.Errorf("max study minutes per day must be positive, got %d", c.MaxStudyMinPerDay)
	case c.MaxBlockMin < 0 || c.MinGapMin < 0:
		return fmt.Errorf("negative block cap or gap")
	}
	return nil
}

// DailyWindow is a recurring clock interval such as lunch, in minutes since midnight.
type DailyWindow struct {
	StartMin int
	EndMin   int
}

// ParseDailyWindow parses "HH:MM-HH:MM".
func ParseDailyWindow(s string) (DailyWindow, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return DailyWindow{}, fmt.Errorf("daily window %q: expected HH:MM-HH:MM", s)
	}
	start, err := parseClock(parts[0])
	if err != nil {
		return DailyWindow{}, fmt.Errorf("daily window %q: %w", s, err)
	}
	end, err := parseClock(parts[1])
	if err != nil {
		return DailyWindow{}, fmt.Errorf("daily window %q: %w", s, err)
	}
	if start >= end {
		return DailyWindow{}, fmt.Errorf("daily window %q: start must be before end", s)
	}
	return DailyWindow{StartMin: start, EndMin: end}, nil
}

func parseClock(s string) (int, error) {
	hm := strings.Split(strings.TrimSpace(s), ":")
	if len(hm) != 2 {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	h, err := strconv.Atoi(hm[0])
	if err != nil || h < 0 || h > 24 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(hm[1])
	if err != nil || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

// ExpandDailyWindows turns recurring windows into absolute do-not-schedule
// windows for every calendar day touched by [from, to) in loc.
func ExpandDailyWindows(from, to time.Time, loc *time.Location, windows []DailyWindow) []TimeWindow {
	if loc == nil {
		loc = time.UTC
	}
	var out []TimeWindow
	for day := StartOfDay(from, loc); day.Before(to); day = day.AddDate(0, 0, 1) {
		for _, w := range windows {
			out = append(out, TimeWindow{
				Start: day.Add(time.Duration(w.StartMin) * time.Minute),
				End:   day.Add(time.Duration(w.EndMin) * time.Minute),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

// StartOfDay returns local midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}
