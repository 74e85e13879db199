package formatter

import (
	"fmt"
	"math"
	"time"
)

// RelativeDateFrom returns a human-friendly relative date string from a reference time.
func RelativeDateFrom(t time.Time, now time.Time) string {
	days := int(math.Round(t.Sub(now).Hours() / 24))

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0:
		return fmt.Sprintf("In %dw", days/7)
	case days > -14:
		return fmt.Sprintf("%dd ago", -days)
	default:
		return fmt.Sprintf("%dw ago", -days/7)
	}
}

// DueStyled colors a due date by how close it is to now.
func DueStyled(due, now time.Time) string {
	text := RelativeDateFrom(due, now)
	left := due.Sub(now)
	switch {
	case left < 48*time.Hour:
		return StyleRed.Render(text)
	case left < 7*24*time.Hour:
		return StyleYellow.Render(text)
	default:
		return StyleFg.Render(text)
	}
}

// FormatMinutes renders 95 as "1h35m" and 40 as "40m".
func FormatMinutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	if m%60 == 0 {
		return fmt.Sprintf("%dh", m/60)
	}
	return fmt.Sprintf("%dh%02dm", m/60, m%60)
}

// TimeRange renders "09:00-10:30" in loc.
func TimeRange(start, end time.Time, loc *time.Location) string {
	return start.In(loc).Format("15:04") + "-" + end.In(loc).Format("15:04")
}

// DayLabel renders "Mon 17 Mar".
func DayLabel(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("Mon 02 Jan")
}

// ShortID truncates a uuid to its first block for display.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
