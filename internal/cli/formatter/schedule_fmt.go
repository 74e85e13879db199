package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/studyblocks/internal/domain"
	"github.com/alexanderramin/studyblocks/internal/scheduler"
)

// FormatBlocks renders blocks grouped by local day, in start order.
func FormatBlocks(blocks []domain.ScheduledBlock, loc *time.Location) string {
	if len(blocks) == 0 {
		return Dim("No blocks scheduled.") + "\n"
	}

	var b strings.Builder
	var day string
	var rows [][]string
	total := 0
	flush := func() {
		if len(rows) == 0 {
			return
		}
		b.WriteString(Header(day) + "\n")
		b.WriteString(RenderTable([]string{"TIME", "ITEM", "CATEGORY", "LENGTH", "BLOCK"}, rows))
		b.WriteString(Dim(fmt.Sprintf("%s planned", FormatMinutes(total))) + "\n\n")
		rows, total = nil, 0
	}

	for _, blk := range blocks {
		label := DayLabel(blk.Start, loc)
		if label != day {
			flush()
			day = label
		}
		rows = append(rows, []string{
			StyleBlue.Render(TimeRange(blk.Start, blk.End, loc)),
			Bold(blk.Title),
			blk.Category,
			FormatMinutes(blk.Minutes()),
			Dim(ShortID(blk.ID)),
		})
		total += blk.Minutes()
	}
	flush()
	return b.String()
}

// FormatScheduleResult renders placed blocks, then the overflow list.
// With verbose set the placement log follows.
func FormatScheduleResult(res scheduler.ScheduleResult, loc *time.Location, verbose bool) string {
	var b strings.Builder
	b.WriteString(FormatBlocks(res.Scheduled, loc))

	if len(res.Overflow) > 0 {
		b.WriteString(StyleRed.Render(fmt.Sprintf("OVERFLOW (%d)", len(res.Overflow))) + "\n")
		rows := make([][]string, 0, len(res.Overflow))
		for _, wi := range res.Overflow {
			rows = append(rows, []string{
				Bold(wi.Title),
				FormatMinutes(wi.TotalMin),
				wi.DueDate.In(loc).Format("2006-01-02 15:04"),
			})
		}
		b.WriteString(RenderTable([]string{"ITEM", "NEEDS", "DUE"}, rows))
	}

	if verbose && len(res.Log) > 0 {
		b.WriteString("\n" + Header("placement log") + "\n")
		for _, line := range res.Log {
			b.WriteString(Dim("  "+line) + "\n")
		}
	}
	return b.String()
}
