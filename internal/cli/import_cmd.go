package cli

import (
	"github.com/alexanderramin/maintplan/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Import a maintenance plan with its work orders, tasks and stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Import.ImportPlan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatImportResult(res))
			return nil
		},
	}
}
