package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/studyblocks/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newLearnCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "learn",
		Short: "Adapt scheduling preferences from recorded feedback",
		Long: `Learn consumes every pending feedback entry, nudges priority weights,
category bias and the hourly energy profile, saves the result, and clears the
feedback log. Run 'studyblocks schedule generate' afterwards to use it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Learn.Relearn(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRelearn(res))
			return nil
		},
	}
}

func newPrefsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Inspect or reset learned preferences",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show weights, category bias and the energy profile",
			RunE: func(cmd *cobra.Command, args []string) error {
				p, err := app.Learn.Preferences(context.Background())
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPreferences(*p))
				return nil
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Restore default preferences",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.Learn.ResetPreferences(context.Background()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Preferences reset to defaults.")
				return nil
			},
		},
	)

	return cmd
}
