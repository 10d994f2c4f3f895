package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/maintplan/internal/cli/formatter"
	"github.com/alexanderramin/maintplan/internal/contract"
	"github.com/alexanderramin/maintplan/internal/domain"
	"github.com/alexanderramin/maintplan/internal/scheduler"
	"github.com/spf13/cobra"
)

// scheduleFlags are shared by every command that computes a schedule.
type scheduleFlags struct {
	today          dateValue
	blockServices  bool
	blockStock     bool
	spareGraceDays int
}

func (f *scheduleFlags) register(cmd *cobra.Command) {
	addTodayFlag(cmd.Flags(), &f.today)
	cmd.Flags().BoolVar(&f.blockServices, "block-services", false, "Treat unconfirmed services as blocking")
	cmd.Flags().BoolVar(&f.blockStock, "block-stock", false, "Treat insufficient stock as blocking")
	cmd.Flags().IntVar(&f.spareGraceDays, "spare-grace-days", -1, "Days past the plan end a spare may arrive (default from config)")
}

// request builds a ScheduleRequest. Only the policy flags given on the command
// line override the configured policy.
func (f *scheduleFlags) request(cmd *cobra.Command, planRef string) contract.ScheduleRequest {
	req := contract.NewScheduleRequest(planRef)
	req.Today = f.today.Time()

	fs := cmd.Flags()
	var override scheduler.PolicyOverride
	changed := false
	if fs.Changed("block-services") {
		override.BlockOnServices = &f.blockServices
		changed = true
	}
	if fs.Changed("block-stock") {
		override.BlockOnStock = &f.blockStock
		changed = true
	}
	if fs.Changed("spare-grace-days") && f.spareGraceDays >= 0 {
		override.SpareGraceDays = &f.spareGraceDays
		changed = true
	}
	if changed {
		req.Policy = &override
	}
	return req
}

func computeSchedule(ctx context.Context, app *App, req contract.ScheduleRequest) (*contract.ScheduleResponse, error) {
	resp, err := app.Schedule.Compute(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("computing schedule: %w", err)
	}
	return resp, nil
}

func newScheduleCmd(app *App) *cobra.Command {
	var flags scheduleFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "schedule <plan>",
		Short: "Compute and show a plan's schedule and readiness",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := computeSchedule(cmd.Context(), app, flags.request(cmd, args[0]))
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(contract.NewScheduleDocument(resp))
			}
			printOut(cmd, formatter.FormatSchedule(resp))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the schedule as JSON")
	return cmd
}

func newValidateCmd(app *App) *cobra.Command {
	var flags scheduleFlags

	cmd := &cobra.Command{
		Use:   "validate <plan>",
		Short: "Check whether a plan is ready to commit",
		Long:  "Check whether a plan is ready to commit. Exits non-zero when any blocking issue remains.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := computeSchedule(cmd.Context(), app, flags.request(cmd, args[0]))
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatVerdict(resp.Result.Verdict))
			if !resp.Result.Verdict.CanCommit {
				return fmt.Errorf("plan %s: %w", resp.Plan.DisplayID(), domain.ErrCommitBlocked)
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newResourcesCmd(app *App) *cobra.Command {
	var flags scheduleFlags

	cmd := &cobra.Command{
		Use:   "resources <plan>",
		Short: "Show per-assignee load and double bookings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := computeSchedule(cmd.Context(), app, flags.request(cmd, args[0]))
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatResources(resp.Result.Resources, resp.Result.Verdict.Overlaps))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
