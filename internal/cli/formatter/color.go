package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/studyblocks/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// ActionPill renders a feedback action in a color matching its learning signal.
func ActionPill(a domain.FeedbackAction) string {
	switch {
	case a.IsPositive():
		return StyleGreen.Render("● " + string(a))
	case a.IsNegative():
		return StyleRed.Render("● " + string(a))
	default:
		return StyleDim.Render("○ " + string(a))
	}
}

// StepStatePill renders a plan step state.
func StepStatePill(s domain.StepState) string {
	switch s {
	case domain.StepCompleted:
		return StyleDim.Render("✔ done")
	case domain.StepBlocked:
		return StyleRed.Render("■ blocked")
	case domain.StepUnblocked:
		return StyleGreen.Render("● ready")
	case domain.StepNotStarted:
		return StyleBlue.Render("○ open")
	default:
		return StyleDim.Render(string(s))
	}
}

// WorkItemStatusPill returns a colored status indicator for work item status.
func WorkItemStatusPill(status domain.WorkItemStatus) string {
	switch status {
	case domain.WorkItemTodo, "":
		return StyleBlue.Render("○ Todo")
	case domain.WorkItemDone:
		return StyleDim.Render("✔ Done")
	case domain.WorkItemArchived:
		return StyleDim.Render("✖ Archived")
	default:
		return StyleDim.Render(string(status))
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
