package cli

import (
	"strings"
	"time"

	"github.com/alexanderramin/studyblocks/internal/cli/formatter"
	"github.com/alexanderramin/studyblocks/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type viewerKeys struct {
	Feedback key.Binding
	Quit     key.Binding
}

func defaultViewerKeys() viewerKeys {
	return viewerKeys{
		Feedback: key.NewBinding(key.WithKeys("enter", "f"), key.WithHelp("enter", "record feedback")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// scheduleViewer is a read-only table of saved blocks. Choosing a block ends
// the program with chosen set so the caller can collect feedback for it.
type scheduleViewer struct {
	table  table.Model
	blocks []domain.ScheduledBlock
	keys   viewerKeys
	chosen *domain.ScheduledBlock
}

func newScheduleViewer(blocks []domain.ScheduledBlock, loc *time.Location) scheduleViewer {
	columns := []table.Column{
		{Title: "Day", Width: 11},
		{Title: "Time", Width: 11},
		{Title: "Item", Width: 32},
		{Title: "Category", Width: 12},
		{Title: "Length", Width: 7},
	}
	rows := make([]table.Row, len(blocks))
	for i, b := range blocks {
		rows[i] = table.Row{
			formatter.DayLabel(b.Start, loc),
			formatter.TimeRange(b.Start, b.End, loc),
			b.Title,
			b.Category,
			formatter.FormatMinutes(b.Minutes()),
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(min(len(rows)+3, 20)),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(formatter.ColorDim).
		BorderBottom(true).
		Foreground(formatter.ColorHeader).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(formatter.ColorFg).
		Background(formatter.ColorHeader)
	t.SetStyles(styles)

	return scheduleViewer{table: t, blocks: blocks, keys: defaultViewerKeys()}
}

func (m scheduleViewer) Init() tea.Cmd { return nil }

func (m scheduleViewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-4, 3))
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Feedback):
			if i := m.table.Cursor(); i >= 0 && i < len(m.blocks) {
				b := m.blocks[i]
				m.chosen = &b
				return m, tea.Quit
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m scheduleViewer) View() string {
	var b strings.Builder
	b.WriteString(formatter.StyleHeader.Render("SCHEDULE") + "\n")
	b.WriteString(m.table.View() + "\n")
	help := []string{}
	for _, k := range []key.Binding{m.keys.Feedback, m.keys.Quit} {
		h := k.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	b.WriteString(formatter.Dim("↑/↓ move · " + strings.Join(help, " · ")))
	return b.String()
}
