package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/studyblocks/internal/cli/formatter"
	"github.com/alexanderramin/studyblocks/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// studyHuhTheme returns a huh theme matching the formatter palette.
func studyHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

var actionOptions = []struct {
	label  string
	action domain.FeedbackAction
}{
	{"Kept it as planned", domain.ActionKept},
	{"Extended it", domain.ActionExtended},
	{"Shortened it", domain.ActionShortened},
	{"Moved it elsewhere", domain.ActionRescheduled},
	{"Deleted it", domain.ActionDeleted},
}

// feedbackForm asks what happened to block and how much of it got done.
func feedbackForm(block domain.ScheduledBlock, loc *time.Location, action *string, completion *string) *huh.Form {
	opts := make([]huh.Option[string], len(actionOptions))
	for i, o := range actionOptions {
		opts[i] = huh.NewOption(o.label, string(o.action))
	}
	desc := fmt.Sprintf("%s %s", formatter.DayLabel(block.Start, loc), formatter.TimeRange(block.Start, block.End, loc))

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(block.Title).
				Description(desc).
				Options(opts...).
				Value(action),
			huh.NewInput().
				Title("How much got done? (0-1)").
				Placeholder("1.0").
				Value(completion).
				Validate(validateRatio),
		),
	).WithTheme(studyHuhTheme()).WithShowHelp(false)
}

// validateRatio accepts empty (meaning 1) or a number in [0,1].
func validateRatio(s string) error {
	_, err := parseRatio(s)
	return err
}

func parseRatio(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, fmt.Errorf("enter a number between 0 and 1")
	}
	if strings.HasSuffix(s, "%") {
		v /= 100
	}
	if v < 0 || v > 1 {
		return 0, fmt.Errorf("enter a number between 0 and 1")
	}
	return v, nil
}
