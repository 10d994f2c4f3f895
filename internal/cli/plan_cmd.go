package cli

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/maintplan/internal/cli/formatter"
	"github.com/alexanderramin/maintplan/internal/contract"
	"github.com/alexanderramin/maintplan/internal/domain"
	"github.com/spf13/cobra"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage maintenance plans",
	}

	cmd.AddCommand(
		newPlanListCmd(app),
		newPlanShowCmd(app),
		newPlanApproveCmd(app),
		newPlanDeleteCmd(app),
	)

	return cmd
}

func newPlanListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List plans",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plans, err := app.Plans.List(cmd.Context())
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatPlanList(plans))
			return nil
		},
	}
}

func newPlanShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <plan>",
		Short: "Show a plan with its approvals and work orders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := app.Plans.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			orders, err := app.Plans.WorkOrders(cmd.Context(), plan.ID)
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatPlanDetail(plan, orders))
			return nil
		},
	}
}

func newPlanApproveCmd(app *App) *cobra.Command {
	var stage int
	var uid, name string
	var date dateValue

	cmd := &cobra.Command{
		Use:   "approve <plan>",
		Short: "Record a stage 1 or stage 2 sign-off",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive && (stage == 0 || uid == "") {
				if err := approvalForm(&stage, &uid, &name).Run(); err != nil {
					return err
				}
			}
			if stage != int(domain.ApprovalStage1) && stage != int(domain.ApprovalStage2) {
				return fmt.Errorf("--stage must be 1 or 2")
			}
			if uid == "" {
				return fmt.Errorf("--uid is required")
			}

			req := contract.NewApprovalRequest(args[0], domain.ApprovalStage(stage), uid)
			req.Name = name
			req.Date = date.Time()
			plan, err := app.Plans.Approve(cmd.Context(), req)
			if err != nil {
				return err
			}
			printf(cmd, "%s Stage %d approved for plan %s by %s\n",
				formatter.StyleGreen.Render("✔"), stage, formatter.Bold(plan.DisplayID()), domain.CoalesceStr(name, uid))
			return nil
		},
	}

	cmd.Flags().IntVar(&stage, "stage", 0, "Approval stage (1 or 2)")
	cmd.Flags().StringVar(&uid, "uid", "", "Approver user id")
	cmd.Flags().StringVar(&name, "name", "", "Approver display name")
	cmd.Flags().Var(&date, "date", "Approval date (YYYY-MM-DD, default now)")
	return cmd
}

func newPlanDeleteCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <plan>",
		Short: "Delete a draft plan and everything it owns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := app.Plans.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !force && app.IsInteractive {
				ok, err := confirm(fmt.Sprintf("Delete plan %s (%s)?", plan.DisplayID(), plan.Title))
				if err != nil {
					return err
				}
				if !ok {
					printOut(cmd, formatter.Dim("Cancelled.")+"\n")
					return nil
				}
			}
			if err := app.Plans.Delete(cmd.Context(), plan.ID); err != nil {
				return err
			}
			printf(cmd, "Deleted plan %s\n", plan.DisplayID())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation")
	return cmd
}

func stageOptionLabel(s domain.ApprovalStage) string {
	return "Stage " + strconv.Itoa(int(s))
}
