package cli

import (
	"fmt"

	"github.com/alexanderramin/maintplan/internal/cli/formatter"
	"github.com/alexanderramin/maintplan/internal/contract"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Work with a plan's tasks",
	}

	cmd.AddCommand(
		newTaskDoneCmd(app),
		newTaskSetDurationCmd(app),
		newTaskBreakInCmd(app),
	)

	return cmd
}

func newTaskDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <plan> <task>",
		Short: "Mark a task of a scheduled plan complete",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := app.Lifecycle.CompleteTask(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatTask(task))
			return nil
		},
	}
}

func newTaskSetDurationCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-duration <plan> <task> <hours>",
		Short: "Change a draft task's estimated hours",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var hours float64
			if _, err := fmt.Sscanf(args[2], "%g", &hours); err != nil {
				return fmt.Errorf("invalid hours %q: %w", args[2], err)
			}
			task, err := app.Lifecycle.UpdateTaskDuration(cmd.Context(), args[0], args[1], hours)
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatTask(task))
			return nil
		},
	}
}

func newTaskBreakInCmd(app *App) *cobra.Command {
	var workOrder, name string
	var hours float64
	var assignees, spares []string

	cmd := &cobra.Command{
		Use:   "break-in <plan>",
		Short: "Add unplanned work to a committed plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := contract.BreakInRequest{
				PlanRef:      args[0],
				WorkOrderRef: workOrder,
				Name:         name,
				Hours:        hours,
			}
			for _, s := range assignees {
				a, err := parseAssignee(s)
				if err != nil {
					return err
				}
				req.Assignees = append(req.Assignees, a)
			}
			for _, s := range spares {
				sp, err := parseSpare(s)
				if err != nil {
					return err
				}
				req.Spares = append(req.Spares, sp)
			}

			task, err := app.Lifecycle.AddBreakIn(cmd.Context(), req)
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatTask(task))
			return nil
		},
	}

	cmd.Flags().StringVar(&workOrder, "work-order", "", "Work order number or id")
	cmd.Flags().StringVar(&name, "name", "", "Task name")
	cmd.Flags().Float64Var(&hours, "hours", 1, "Estimated hours")
	cmd.Flags().StringArrayVar(&assignees, "assignee", nil, "Assignee as uid or uid:name (repeatable)")
	cmd.Flags().StringArrayVar(&spares, "spare", nil, "Required spare as material:qty[:uom] (repeatable)")
	_ = cmd.MarkFlagRequired("work-order")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
