package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/studyblocks/internal/domain"
	"github.com/alexanderramin/studyblocks/internal/service"
)

const energyBarWidth = 20

func FormatPreferences(p domain.SchedulerPreferences) string {
	var b strings.Builder

	b.WriteString(Header("weights") + "\n")
	for _, c := range domain.ScoreComponents {
		b.WriteString(fmt.Sprintf("  %-11s %.3f\n", c, p.Weight(c)))
	}

	if len(p.CategoryBias) > 0 {
		b.WriteString("\n" + Header("category bias") + "\n")
		cats := make([]string, 0, len(p.CategoryBias))
		for c := range p.CategoryBias {
			cats = append(cats, c)
		}
		sort.Strings(cats)
		for _, c := range cats {
			b.WriteString(fmt.Sprintf("  %-11s %s\n", c, signed(p.CategoryBias[c])))
		}
	}

	b.WriteString("\n" + Header("energy") + "\n")
	for h, v := range p.Energy {
		b.WriteString(fmt.Sprintf("  %02d:00  %s\n", h, EnergyBar(v, energyBarWidth)))
	}
	return b.String()
}

// FormatRelearn summarizes what one learning pass changed.
func FormatRelearn(res *service.RelearnResult) string {
	if res.Consumed == 0 {
		return Dim("No feedback recorded since the last pass; preferences unchanged.") + "\n"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Consumed %d feedback entries (%d applied, %d skipped).\n",
		res.Consumed, res.Report.Applied, res.Report.Skipped))

	var changes [][]string
	for _, c := range domain.ScoreComponents {
		before, after := res.Before.Weight(c), res.After.Weight(c)
		if before != after {
			changes = append(changes, []string{"weight " + string(c), fmt.Sprintf("%.3f", before), fmt.Sprintf("%.3f", after), signed(after - before)})
		}
	}
	cats := make(map[string]bool)
	for c := range res.Before.CategoryBias {
		cats[c] = true
	}
	for c := range res.After.CategoryBias {
		cats[c] = true
	}
	sortedCats := make([]string, 0, len(cats))
	for c := range cats {
		sortedCats = append(sortedCats, c)
	}
	sort.Strings(sortedCats)
	for _, c := range sortedCats {
		before, after := res.Before.CategoryBias[c], res.After.CategoryBias[c]
		if before != after {
			changes = append(changes, []string{"bias " + c, fmt.Sprintf("%+.3f", before), fmt.Sprintf("%+.3f", after), signed(after - before)})
		}
	}
	for h := range res.After.Energy {
		before, after := res.Before.Energy[h], res.After.Energy[h]
		if before != after {
			changes = append(changes, []string{fmt.Sprintf("energy %02d:00", h), fmt.Sprintf("%.2f", before), fmt.Sprintf("%.2f", after), signed(after - before)})
		}
	}

	if len(changes) == 0 {
		b.WriteString(Dim("Nothing moved.") + "\n")
		return b.String()
	}
	b.WriteString("\n" + RenderTable([]string{"SETTING", "BEFORE", "AFTER", "DELTA"}, changes))
	return b.String()
}

func signed(v float64) string {
	s := fmt.Sprintf("%+.3f", v)
	switch {
	case v > 0:
		return StyleGreen.Render(s)
	case v < 0:
		return StyleRed.Render(s)
	default:
		return Dim(s)
	}
}
