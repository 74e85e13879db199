package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/studyblocks/internal/cli/formatter"
	"github.com/alexanderramin/studyblocks/internal/domain"
	"github.com/spf13/cobra"
)

func newItemCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "item",
		Aliases: []string{"items"},
		Short:   "Manage work items",
	}

	cmd.AddCommand(
		newItemAddCmd(app),
		newItemListCmd(app),
		newItemDoneCmd(app),
		newItemArchiveCmd(app),
		newItemRemoveCmd(app),
	)

	return cmd
}

func newItemAddCmd(app *App) *cobra.Command {
	var (
		title, category, course string
		due                     time.Time
		total, minBlock         int
		maxBlock                int
		difficulty, importance  float64
		locked                  bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a work item",
		RunE: func(cmd *cobra.Command, args []string) error {
			wi := &domain.WorkItem{
				Title:       title,
				DueDate:     due,
				TotalMin:    total,
				MinBlockMin: minBlock,
				MaxBlockMin: maxBlock,
				Difficulty:  difficulty,
				Importance:  importance,
				Category:    category,
				Locked:      locked,
			}
			if course != "" {
				wi.CourseID = &course
			}
			if err := app.WorkItems.Create(context.Background(), wi); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created work item %s [%s]\n", wi.Title, formatter.ShortID(wi.ID))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&title, "title", "", "Title")
	f.Var(newTimeValue(&due, app.loc(), true), "due", "Due date (YYYY-MM-DD means end of day)")
	f.IntVar(&total, "minutes", 0, "Total minutes of work")
	f.IntVar(&minBlock, "min-block", 25, "Shortest useful block in minutes")
	f.IntVar(&maxBlock, "max-block", 90, "Longest block in minutes")
	f.Float64Var(&difficulty, "difficulty", 0.5, "Difficulty in [0,1]")
	f.Float64Var(&importance, "importance", 0.5, "Importance in [0,1]")
	f.StringVar(&category, "category", "general", "Category used for learned bias")
	f.StringVar(&course, "course", "", "Course identifier")
	f.BoolVar(&locked, "locked", false, "Never place blocks after the due date")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("due")
	_ = cmd.MarkFlagRequired("minutes")

	return cmd
}

func newItemListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List work items",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := app.WorkItems.List(context.Background(), all)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No work items found.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWorkItemList(items, app.now()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include done and archived items")
	return cmd
}

func newItemDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a work item done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveWorkItemID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.WorkItems.MarkDone(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %s done\n", formatter.ShortID(id))
			return nil
		},
	}
}

func newItemArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <id>",
		Short: "Archive a work item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveWorkItemID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.WorkItems.Archive(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Archived %s\n", formatter.ShortID(id))
			return nil
		},
	}
}

func newItemRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Delete a work item and its plan",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveWorkItemID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.WorkItems.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", formatter.ShortID(id))
			return nil
		},
	}
}
