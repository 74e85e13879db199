package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/studyblocks/internal/cli/formatter"
	"github.com/alexanderramin/studyblocks/internal/domain"
	"github.com/alexanderramin/studyblocks/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newScheduleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Generate and inspect study blocks",
	}

	cmd.AddCommand(
		newScheduleGenerateCmd(app),
		newScheduleListCmd(app),
		newScheduleViewCmd(app),
	)

	return cmd
}

func newScheduleGenerateCmd(app *App) *cobra.Command {
	var (
		days    int
		split   bool
		dryRun  bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Place pending work items into the coming days",
		Long: `Generate places one block per pending work item, highest priority first,
around locked fixed events and configured blackout windows. Items that do not
fit are listed as overflow. Unless --dry-run is given, stored blocks in the
horizon are replaced by the new ones.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.constraints(days)
			if err != nil {
				return err
			}
			resp, err := app.Schedule.Generate(context.Background(), service.ScheduleRequest{
				Constraints: c,
				Split:       split,
				Persist:     !dryRun,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.FormatScheduleResult(resp.Result, app.loc(), verbose))
			summary := fmt.Sprintf("Placed %d blocks for %d items around %d events; %d overflow.",
				len(resp.Result.Scheduled), resp.ItemCount, resp.EventCount, len(resp.Result.Overflow))
			if resp.Persisted {
				summary += " Saved."
			} else {
				summary += " Not saved (dry run)."
			}
			fmt.Fprintln(out, formatter.Dim(summary))
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVarP(&days, "days", "d", 0, "Horizon length in days (default from config)")
	f.BoolVar(&split, "split", false, "Chunk items larger than their max block first")
	f.BoolVar(&dryRun, "dry-run", false, "Show the schedule without saving it")
	f.BoolVarP(&verbose, "verbose", "v", false, "Print the placement log")
	return cmd
}

// storedBlocks loads saved blocks from local midnight today over days.
func storedBlocks(app *App, days int) ([]domain.ScheduledBlock, error) {
	if days <= 0 {
		days = app.cfg().Schedule.HorizonDays
	}
	from := domain.StartOfDay(app.now(), app.loc())
	ptrs, err := app.Schedule.ListBlocks(context.Background(), from, from.AddDate(0, 0, days))
	if err != nil {
		return nil, err
	}
	blocks := make([]domain.ScheduledBlock, len(ptrs))
	for i, b := range ptrs {
		blocks[i] = *b
	}
	return blocks, nil
}

func newScheduleListCmd(app *App) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show saved blocks",
		RunE: func(cmd *cobra.Command, args []string) error {
			blocks, err := storedBlocks(app, days)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBlocks(blocks, app.loc()))
			return nil
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", 0, "Number of days to show (default from config)")
	return cmd
}

func newScheduleViewCmd(app *App) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse saved blocks interactively and record feedback",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("schedule view needs an interactive terminal; use 'schedule list'")
			}
			blocks, err := storedBlocks(app, days)
			if err != nil {
				return err
			}
			if len(blocks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No blocks scheduled.")
				return nil
			}

			final, err := tea.NewProgram(newScheduleViewer(blocks, app.loc()), tea.WithAltScreen()).Run()
			if err != nil {
				return fmt.Errorf("running schedule viewer: %w", err)
			}
			viewer, ok := final.(scheduleViewer)
			if !ok || viewer.chosen == nil {
				return nil
			}
			return recordInteractively(cmd, app, *viewer.chosen)
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", 0, "Number of days to show (default from config)")
	return cmd
}
