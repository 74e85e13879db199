package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/studyblocks/internal/cli/formatter"
	"github.com/alexanderramin/studyblocks/internal/domain"
	"github.com/alexanderramin/studyblocks/internal/service"
	"github.com/spf13/cobra"
)

func newFeedbackCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Record what happened to scheduled blocks",
	}

	cmd.AddCommand(
		newFeedbackRecordCmd(app),
		newFeedbackListCmd(app),
	)

	return cmd
}

func newFeedbackRecordCmd(app *App) *cobra.Command {
	var (
		action     domain.FeedbackAction
		completion string
	)

	cmd := &cobra.Command{
		Use:   "record <block-id>",
		Short: "Record feedback for a saved block",
		Long: `Record what you did with a saved block. Without --action an interactive
form is shown when the terminal allows it.

Actions: kept, extended, shortened, rescheduled, deleted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			blockID, err := resolveBlockID(ctx, app, args[0])
			if err != nil {
				return err
			}

			if action == "" {
				if !app.interactive() {
					return fmt.Errorf("--action is required when not running in a terminal")
				}
				blocks, err := app.Schedule.ListBlocks(ctx, app.now().Add(-blockLookback), app.now().Add(blockLookback))
				if err != nil {
					return err
				}
				for _, b := range blocks {
					if b.ID == blockID {
						return recordInteractively(cmd, app, *b)
					}
				}
				return fmt.Errorf("block not found: %q", blockID)
			}

			ratio, err := parseRatio(completion)
			if err != nil {
				return fmt.Errorf("--completion: %w", err)
			}
			return record(cmd, app, blockID, action, ratio)
		},
	}

	cmd.Flags().Var(&actionValue{a: &action}, "action", "What happened: kept, extended, shortened, rescheduled, deleted")
	cmd.Flags().StringVar(&completion, "completion", "1", "Fraction of the block completed, 0-1 or a percentage")
	return cmd
}

// recordInteractively runs the feedback form for block and records the answer.
func recordInteractively(cmd *cobra.Command, app *App, block domain.ScheduledBlock) error {
	action := string(domain.ActionKept)
	completion := ""
	if err := feedbackForm(block, app.loc(), &action, &completion).Run(); err != nil {
		return fmt.Errorf("feedback form: %w", err)
	}
	ratio, err := parseRatio(completion)
	if err != nil {
		return err
	}
	return record(cmd, app, block.ID, domain.FeedbackAction(action), ratio)
}

func record(cmd *cobra.Command, app *App, blockID string, action domain.FeedbackAction, ratio float64) error {
	fb, err := app.Feedback.Record(context.Background(), service.RecordFeedbackRequest{
		BlockID:         blockID,
		Action:          action,
		CompletionRatio: ratio,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s for block %s (%.0f%% done). Run 'studyblocks learn' to adapt.\n",
		formatter.ActionPill(fb.Action), formatter.ShortID(fb.BlockID), fb.CompletionRatio*100)
	return nil
}

func newFeedbackListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show feedback not yet consumed by learning",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := app.Feedback.List(context.Background())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No pending feedback.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatFeedbackList(entries, app.loc()))
			return nil
		},
	}
}
