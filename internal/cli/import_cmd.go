package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import work items, events and plans from JSON or YAML",
		Long: `Import reads a .json, .yaml or .yml file. The whole file is validated
first and then created in one transaction, so a bad file changes nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Import.Import(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d work items, %d events, %d plans (%d steps).\n",
				res.WorkItemCount, res.EventCount, res.PlanCount, res.StepCount)
			return nil
		},
	}
}
