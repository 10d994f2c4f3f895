package cli

import (
	"github.com/alexanderramin/maintplan/internal/cli/formatter"
	"github.com/alexanderramin/maintplan/internal/contract"
	"github.com/spf13/cobra"
)

func newReservationCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reservation",
		Aliases: []string{"res"},
		Short:   "Track spare reservations of committed plans",
	}

	cmd.AddCommand(
		newReservationListCmd(app),
		newReservationAdvanceCmd(app),
	)

	return cmd
}

func newReservationListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list <plan>",
		Short: "List a plan's reservations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := app.Lifecycle.ListReservations(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			labels := map[string]string{}
			if len(rs) > 0 {
				// Best effort: a failed schedule only costs the task labels.
				if resp, err := app.Schedule.Compute(cmd.Context(), contract.NewScheduleRequest(args[0])); err == nil {
					for _, t := range resp.Tasks {
						labels[t.ID] = t.DisplayID()
					}
				}
			}
			printOut(cmd, formatter.FormatReservations(rs, labels))
			return nil
		},
	}
}

func newReservationAdvanceCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "advance <reservation-id>",
		Short: "Move a reservation RESERVED → ORDERED → ISSUED",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := app.Lifecycle.AdvanceReservation(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printf(cmd, "Reservation %s %s\n", formatter.TruncID(r.ID), formatter.ReservationStatusPill(r.Status))
			return nil
		},
	}
}
