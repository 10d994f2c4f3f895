package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/maintplan/internal/cli/formatter"
	"github.com/alexanderramin/maintplan/internal/contract"
	"github.com/alexanderramin/maintplan/internal/domain"
	"github.com/spf13/cobra"
)

func newCommitCmd(app *App) *cobra.Command {
	var today dateValue
	var yes bool

	cmd := &cobra.Command{
		Use:   "commit <plan>",
		Short: "Commit an approved plan: lock it and reserve its spares",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := contract.NewCommitRequest(args[0])
			req.Today = today.Time()

			if app.IsInteractive && !yes {
				sreq := contract.NewScheduleRequest(args[0])
				sreq.Today = req.Today
				preview, err := computeSchedule(cmd.Context(), app, sreq)
				if err != nil {
					return err
				}
				printOut(cmd, formatter.FormatVerdict(preview.Result.Verdict)+"\n")
				if !preview.Result.Verdict.CanCommit {
					return fmt.Errorf("plan %s: %w", preview.Plan.DisplayID(), domain.ErrCommitBlocked)
				}
				ok, err := confirm(fmt.Sprintf("Commit plan %s and reserve its spares?", preview.Plan.DisplayID()))
				if err != nil {
					return err
				}
				if !ok {
					printOut(cmd, formatter.Dim("Cancelled.")+"\n")
					return nil
				}
				// Refuse if anything moved while the prompt was open.
				req.ExpectedFingerprint = preview.Result.Fingerprint
			}

			resp, err := app.Lifecycle.Commit(cmd.Context(), req)
			if err != nil {
				var blocked *contract.CommitBlockedError
				if errors.As(err, &blocked) {
					printOut(cmd, formatter.FormatVerdict(blocked.Verdict))
				}
				return err
			}
			printOut(cmd, formatter.FormatCommit(resp))
			return nil
		},
	}

	addTodayFlag(cmd.Flags(), &today)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Commit without the confirmation prompt")
	return cmd
}

func newLockCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "lock <plan>",
		Short: "Move a committed plan to SCHEDULED",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.Lifecycle.Lock(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatTransition(resp))
			return nil
		},
	}
}

func newCompleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <plan>",
		Short: "Close a scheduled plan once all its tasks are done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.Lifecycle.Complete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatTransition(resp))
			return nil
		},
	}
}
