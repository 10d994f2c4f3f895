package cli

import (
	"fmt"
	"io"

	"github.com/alexanderramin/maintplan/internal/cli/formatter"
	"github.com/alexanderramin/maintplan/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services CLI commands run against.
type App struct {
	Plans     service.PlanService
	Schedule  service.ScheduleService
	Lifecycle service.LifecycleService
	Stock     service.StockService
	Import    service.ImportService

	// IsInteractive enables huh prompts and the full-screen view.
	IsInteractive bool
}

// NewRootCmd creates the top-level "maintplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var plain bool

	root := &cobra.Command{
		Use:           "maintplan",
		Short:         "Maintenance plan scheduler",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if plain || !app.IsInteractive {
				formatter.SetPlain(true)
			}
		},
	}
	root.PersistentFlags().BoolVar(&plain, "plain", false, "Disable colors")

	root.AddCommand(
		newImportCmd(app),
		newPlanCmd(app),
		newScheduleCmd(app),
		newValidateCmd(app),
		newResourcesCmd(app),
		newCommitCmd(app),
		newLockCmd(app),
		newCompleteCmd(app),
		newTaskCmd(app),
		newReservationCmd(app),
		newStockCmd(app),
		newViewCmd(app),
	)

	return root
}

func printOut(cmd *cobra.Command, s string) {
	_, _ = io.WriteString(cmd.OutOrStdout(), s)
}

func printf(cmd *cobra.Command, format string, args ...any) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
