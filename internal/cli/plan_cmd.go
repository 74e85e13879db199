package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/alexanderramin/studyblocks/internal/cli/formatter"
	"github.com/alexanderramin/studyblocks/internal/domain"
	"github.com/alexanderramin/studyblocks/internal/plangraph"
	"github.com/alexanderramin/studyblocks/internal/service"
	"github.com/spf13/cobra"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Break a work item into ordered steps",
		Long: `Plans break a work item into steps with prerequisites. Steps are
addressed by position (#0, #1, ...) or by id prefix. With sequence enforcement
on, every step depends on the one before it.`,
	}

	cmd.AddCommand(
		newPlanShowCmd(app),
		newPlanAddStepCmd(app),
		newPlanDoneCmd(app),
		newPlanReorderCmd(app),
		newPlanEnforceCmd(app),
		newPlanClearDepsCmd(app),
		newPlanCheckCmd(app),
	)

	return cmd
}

func printPlan(cmd *cobra.Command, plan *domain.AssignmentPlan) {
	states := make(map[string]domain.StepState, len(plan.Steps))
	for _, s := range plan.Steps {
		states[s.ID], _ = plangraph.StepState(*plan, s.ID)
	}
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPlan(*plan, states))
}

func newPlanShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <item>",
		Short: "Show the plan for a work item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveWorkItemID(ctx, app, args[0])
			if err != nil {
				return err
			}
			plan, err := app.Plans.GetPlan(ctx, id)
			if err != nil {
				return err
			}
			printPlan(cmd, plan)
			return nil
		},
	}
}

func newPlanAddStepCmd(app *App) *cobra.Command {
	var (
		title   string
		minutes int
		after   []string
	)

	cmd := &cobra.Command{
		Use:   "add-step <item>",
		Short: "Append a step, creating the plan if needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveWorkItemID(ctx, app, args[0])
			if err != nil {
				return err
			}

			var afterIDs []string
			if len(after) > 0 {
				plan, err := app.Plans.GetPlan(ctx, id)
				if err != nil {
					return fmt.Errorf("--after needs an existing plan: %w", err)
				}
				for _, ref := range after {
					s, err := resolveStep(plan, ref)
					if err != nil {
						return fmt.Errorf("--after: %w", err)
					}
					afterIDs = append(afterIDs, s.ID)
				}
			}

			plan, err := app.Plans.AddStep(ctx, id, title, minutes, afterIDs)
			if err != nil {
				return err
			}
			printPlan(cmd, plan)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Step title")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "Estimated minutes")
	cmd.Flags().StringSliceVar(&after, "after", nil, "Prerequisite steps (#N or id prefix), comma separated")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newPlanDoneCmd(app *App) *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "done <item> <step>",
		Short: "Mark a step completed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveWorkItemID(ctx, app, args[0])
			if err != nil {
				return err
			}
			plan, err := app.Plans.GetPlan(ctx, id)
			if err != nil {
				return err
			}
			step, err := resolveStep(plan, args[1])
			if err != nil {
				return err
			}
			plan, err = app.Plans.SetStepCompleted(ctx, id, step.ID, !undo)
			if err != nil {
				return err
			}
			printPlan(cmd, plan)
			return nil
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "Mark the step not completed")
	return cmd
}

func newPlanReorderCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <item> <from> <to>",
		Short: "Move the step at position from to position to",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveWorkItemID(ctx, app, args[0])
			if err != nil {
				return err
			}
			from, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid from position %q", args[1])
			}
			to, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid to position %q", args[2])
			}

			res, err := app.Plans.Reorder(ctx, id, from, to)
			if errors.Is(err, service.ErrPlanRejected) {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleRed.Render("Rejected: "+res.Message))
				return err
			}
			if err != nil {
				return err
			}
			printPlan(cmd, &res.Plan)
			return nil
		},
	}
}

func newPlanEnforceCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "enforce <item>",
		Short: "Toggle sequence enforcement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveWorkItemID(ctx, app, args[0])
			if err != nil {
				return err
			}
			plan, err := app.Plans.ToggleSequenceEnforcement(ctx, id)
			if err != nil {
				return err
			}
			printPlan(cmd, plan)
			return nil
		},
	}
}

func newPlanClearDepsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-deps <item>",
		Short: "Remove all prerequisites and turn enforcement off",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveWorkItemID(ctx, app, args[0])
			if err != nil {
				return err
			}
			plan, err := app.Plans.ClearAllDependencies(ctx, id)
			if err != nil {
				return err
			}
			printPlan(cmd, plan)
			return nil
		},
	}
}

func newPlanCheckCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check <item>",
		Short: "Report cycles, step states and progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveWorkItemID(ctx, app, args[0])
			if err != nil {
				return err
			}
			check, err := app.Plans.Check(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPlanCheck(check))
			return nil
		},
	}
}
