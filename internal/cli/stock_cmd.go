package cli

import (
	"github.com/alexanderramin/maintplan/internal/cli/formatter"
	"github.com/alexanderramin/maintplan/internal/domain"
	"github.com/spf13/cobra"
)

func newStockCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stock",
		Short: "Inspect and update inventory levels",
	}

	cmd.AddCommand(
		newStockListCmd(app),
		newStockSetCmd(app),
	)

	return cmd
}

func newStockListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stock levels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			levels, err := app.Stock.List(cmd.Context())
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatStock(levels))
			return nil
		},
	}
}

func newStockSetCmd(app *App) *cobra.Command {
	var qty float64
	var leadDays int

	cmd := &cobra.Command{
		Use:   "set <material>",
		Short: "Set a material's available quantity and lead time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level := domain.StockLevel{MaterialID: args[0], AvailableQty: qty, LeadTimeDays: leadDays}
			if err := app.Stock.Set(cmd.Context(), level); err != nil {
				return err
			}
			printOut(cmd, formatter.FormatStock([]domain.StockLevel{level}))
			return nil
		},
	}

	cmd.Flags().Float64Var(&qty, "qty", 0, "Available quantity")
	cmd.Flags().IntVar(&leadDays, "lead-days", 0, "Replenishment lead time in days")
	_ = cmd.MarkFlagRequired("qty")
	return cmd
}
