package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/maintplan/internal/contract"
	"github.com/alexanderramin/maintplan/internal/domain"
)

// FormatCommit summarizes a successful commit.
func FormatCommit(resp *contract.CommitResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s Plan %s committed  %s\n",
		StyleGreen.Render("✔"), Bold(resp.Plan.DisplayID()), PlanStatusPill(resp.Plan.EffectiveStatus()))
	fmt.Fprintf(&b, "  %s %s\n", Dim("fingerprint"), shortFingerprint(resp.Fingerprint))
	fmt.Fprintf(&b, "  %s %d\n", Dim("reservations"), len(resp.Reservations))
	for _, is := range resp.Verdict.Issues {
		fmt.Fprintf(&b, "  %s %s\n", StyleYellow.Render("!"), is.Message)
	}
	return b.String()
}

// FormatTransition reports a lock or completion step.
func FormatTransition(resp *contract.TransitionResponse) string {
	return fmt.Sprintf("%s Plan %s  %s → %s  %s\n",
		StyleGreen.Render("✔"), Bold(resp.Plan.DisplayID()),
		PlanStatusPill(resp.From), PlanStatusPill(resp.Plan.EffectiveStatus()),
		Dim(fmt.Sprintf("(%d work %s updated)", resp.WorkOrders, plural(resp.WorkOrders, "order", "orders"))))
}

func FormatTask(t *domain.Task) string {
	return fmt.Sprintf("%s %s  %s  %s  %s\n",
		StyleGreen.Render("✔"), Bold(t.DisplayID()), t.Name, FormatHours(t.EstimatedHours), TaskStatusPill(t.Status))
}

// FormatReservations renders reservations as a table. taskLabels maps task
// ids to display ids; missing entries fall back to the raw id.
func FormatReservations(rs []*domain.Reservation, taskLabels map[string]string) string {
	if len(rs) == 0 {
		return Dim("No reservations.") + "\n"
	}
	rows := make([][]string, 0, len(rs))
	for _, r := range rs {
		task := taskLabels[r.TaskID]
		if task == "" {
			task = TruncID(r.TaskID)
		}
		rows = append(rows, []string{
			TruncID(r.ID),
			task,
			Bold(r.MaterialID),
			FormatQty(r.Quantity, r.UOM),
			r.WarehousePath,
			ReservationStatusPill(r.Status),
		})
	}
	return RenderTable([]string{"ID", "TASK", "MATERIAL", "QTY", "LOCATION", "STATUS"}, rows)
}

// FormatStock renders the inventory table.
func FormatStock(levels []domain.StockLevel) string {
	if len(levels) == 0 {
		return Dim("No stock levels recorded.") + "\n"
	}
	rows := make([][]string, 0, len(levels))
	for _, l := range levels {
		qty := FormatQty(l.AvailableQty, "")
		if l.AvailableQty <= 0 {
			qty = StyleRed.Render(qty)
		}
		updated := ""
		if !l.UpdatedAt.IsZero() {
			updated = Dim(HumanTimestamp(l.UpdatedAt))
		}
		rows = append(rows, []string{Bold(l.MaterialID), qty, fmt.Sprintf("%dd", l.LeadTimeDays), updated})
	}
	return RenderTable([]string{"MATERIAL", "AVAILABLE", "LEAD TIME", "UPDATED"}, rows)
}

// FormatImportResult summarizes an import.
func FormatImportResult(r *contract.ImportResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s Imported plan %s  %s\n", StyleGreen.Render("✔"), Bold(r.Plan.DisplayID()), r.Plan.Title)
	fmt.Fprintf(&b, "  %s\n", Dim(fmt.Sprintf("%d work %s, %d %s, %d stock %s",
		r.WorkOrderCount, plural(r.WorkOrderCount, "order", "orders"),
		r.TaskCount, plural(r.TaskCount, "task", "tasks"),
		r.StockCount, plural(r.StockCount, "level", "levels"))))
	if len(r.DanglingRefs) > 0 {
		fmt.Fprintf(&b, "  %s predecessors not found for: %s\n", StyleYellow.Render("!"), strings.Join(r.DanglingRefs, ", "))
	}
	return b.String()
}
