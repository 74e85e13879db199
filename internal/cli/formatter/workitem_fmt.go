package formatter

import (
	"fmt"
	"time"

	"github.com/alexanderramin/studyblocks/internal/domain"
)

func FormatWorkItemList(items []*domain.WorkItem, now time.Time) string {
	headers := []string{"ID", "TITLE", "CATEGORY", "TOTAL", "BLOCK", "IMP", "DIFF", "DUE", "STATUS"}
	rows := make([][]string, 0, len(items))
	for _, wi := range items {
		due := DueStyled(wi.DueDate, now)
		if wi.Locked {
			due += StylePurple.Render(" ⚑")
		}
		rows = append(rows, []string{
			Dim(ShortID(wi.ID)),
			Bold(wi.Title),
			wi.Category,
			FormatMinutes(wi.TotalMin),
			fmt.Sprintf("%d-%dm", wi.MinBlockMin, wi.MaxBlockMin),
			fmt.Sprintf("%.2f", wi.Importance),
			fmt.Sprintf("%.2f", wi.Difficulty),
			due,
			WorkItemStatusPill(wi.Status),
		})
	}
	return RenderTable(headers, rows)
}

func FormatEventList(events []*domain.FixedEvent, loc *time.Location) string {
	headers := []string{"ID", "TITLE", "DAY", "TIME", "SOURCE", "LOCKED"}
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		locked := Dim("no")
		if e.IsLocked {
			locked = StyleYellow.Render("yes")
		}
		rows = append(rows, []string{
			Dim(ShortID(e.ID)),
			Bold(e.Title),
			DayLabel(e.Start, loc),
			TimeRange(e.Start, e.End, loc),
			string(e.Source),
			locked,
		})
	}
	return RenderTable(headers, rows)
}

func FormatFeedbackList(entries []domain.BlockFeedback, loc *time.Location) string {
	headers := []string{"RECORDED", "BLOCK", "ORIGINAL SLOT", "CATEGORY", "ACTION", "DONE"}
	rows := make([][]string, 0, len(entries))
	for _, fb := range entries {
		rows = append(rows, []string{
			fb.RecordedAt.In(loc).Format("2006-01-02 15:04"),
			Dim(ShortID(fb.BlockID)),
			DayLabel(fb.OriginalStart, loc) + " " + TimeRange(fb.OriginalStart, fb.OriginalEnd, loc),
			fb.Category,
			ActionPill(fb.Action),
			fmt.Sprintf("%3.0f%%", fb.CompletionRatio*100),
		})
	}
	return RenderTable(headers, rows)
}
