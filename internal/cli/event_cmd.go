package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/studyblocks/internal/cli/formatter"
	"github.com/alexanderramin/studyblocks/internal/domain"
	"github.com/spf13/cobra"
)

func newEventCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "event",
		Aliases: []string{"events"},
		Short:   "Manage fixed events the schedule works around",
	}

	cmd.AddCommand(
		newEventAddCmd(app),
		newEventListCmd(app),
		newEventRemoveCmd(app),
	)

	return cmd
}

func newEventAddCmd(app *App) *cobra.Command {
	var (
		title    string
		start    time.Time
		end      time.Time
		minutes  int
		unlocked bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a fixed event",
		RunE: func(cmd *cobra.Command, args []string) error {
			if end.IsZero() {
				if minutes <= 0 {
					return fmt.Errorf("either --end or --minutes is required")
				}
				end = start.Add(time.Duration(minutes) * time.Minute)
			}
			e := &domain.FixedEvent{
				Title:    title,
				Start:    start,
				End:      end,
				IsLocked: !unlocked,
				Source:   domain.SourceManual,
			}
			if err := app.Events.Create(context.Background(), e); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created event %s [%s] %s %s\n", e.Title, formatter.ShortID(e.ID),
				formatter.DayLabel(e.Start, app.loc()), formatter.TimeRange(e.Start, e.End, app.loc()))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&title, "title", "", "Title")
	f.Var(newTimeValue(&start, app.loc(), false), "start", "Start (YYYY-MM-DDTHH:MM or RFC3339)")
	f.Var(newTimeValue(&end, app.loc(), false), "end", "End (YYYY-MM-DDTHH:MM or RFC3339)")
	f.IntVar(&minutes, "minutes", 0, "Length in minutes when --end is omitted")
	f.BoolVar(&unlocked, "unlocked", false, "Let the scheduler place blocks over this event")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func newEventListCmd(app *App) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List fixed events from today",
		RunE: func(cmd *cobra.Command, args []string) error {
			from := domain.StartOfDay(app.now(), app.loc())
			events, err := app.Events.ListBetween(context.Background(), from, from.AddDate(0, 0, days))
			if err != nil {
				return err
			}
			if len(events) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No events found.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEventList(events, app.loc()))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "Number of days to show")
	return cmd
}

func newEventRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Delete a fixed event",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveEventID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Events.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted event %s\n", formatter.ShortID(id))
			return nil
		},
	}
}
