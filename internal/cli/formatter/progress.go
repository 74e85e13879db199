package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a progress bar like [████░░░░] 45%.
// Green above 66%, yellow from 33%, red below.
func RenderProgress(pct float64, width int) string {
	pct = min(max(pct, 0), 1)
	return fmt.Sprintf("[%s] %3.0f%%", barStyle(pct).Render(bar(pct, width)), pct*100)
}

// EnergyBar renders an hourly energy coefficient as a bare bar with its value.
func EnergyBar(v float64, width int) string {
	v = min(max(v, 0), 1)
	return fmt.Sprintf("%s %.2f", barStyle(v).Render(bar(v, width)), v)
}

func bar(frac float64, width int) string {
	width = max(width, 2)
	filled := min(int(frac*float64(width)+0.5), width)
	return strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
}

func barStyle(frac float64) lipgloss.Style {
	switch {
	case frac < 0.33:
		return StyleRed
	case frac < 0.66:
		return StyleYellow
	default:
		return StyleGreen
	}
}
