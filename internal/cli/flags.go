package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/studyblocks/internal/domain"
	"github.com/spf13/pflag"
)

const dateLayout = "2006-01-02"

// timeValue is a pflag.Value accepting RFC3339, "YYYY-MM-DDTHH:MM" or
// "YYYY-MM-DD HH:MM" in loc, or a bare date. A bare date means 23:59 of that
// day when endOfDay is set and midnight otherwise.
type timeValue struct {
	t        *time.Time
	loc      *time.Location
	endOfDay bool
}

var _ pflag.Value = (*timeValue)(nil)

func newTimeValue(t *time.Time, loc *time.Location, endOfDay bool) *timeValue {
	return &timeValue{t: t, loc: loc, endOfDay: endOfDay}
}

func (v *timeValue) String() string {
	if v.t == nil || v.t.IsZero() {
		return ""
	}
	return v.t.Format(time.RFC3339)
}

func (v *timeValue) Set(s string) error {
	parsed, err := parseTimeIn(s, v.loc, v.endOfDay)
	if err != nil {
		return err
	}
	*v.t = parsed
	return nil
}

func (v *timeValue) Type() string { return "time" }

func parseTimeIn(s string, loc *time.Location, endOfDay bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02T15:04", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	d, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("use YYYY-MM-DD, YYYY-MM-DDTHH:MM or RFC3339, got %q", s)
	}
	if endOfDay {
		d = d.Add(23*time.Hour + 59*time.Minute)
	}
	return d, nil
}

// actionValue is a pflag.Value restricted to the feedback actions.
type actionValue struct {
	a *domain.FeedbackAction
}

var _ pflag.Value = (*actionValue)(nil)

func (v *actionValue) String() string {
	if v.a == nil {
		return ""
	}
	return string(*v.a)
}

func (v *actionValue) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	if !domain.ValidFeedbackActions[s] {
		return fmt.Errorf("must be one of %s", strings.Join(actionNames(), ", "))
	}
	*v.a = domain.FeedbackAction(s)
	return nil
}

func (v *actionValue) Type() string { return "action" }

func actionNames() []string {
	names := make([]string, 0, len(domain.ValidFeedbackActions))
	for k := range domain.ValidFeedbackActions {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
