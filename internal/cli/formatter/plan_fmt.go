package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/maintplan/internal/domain"
)

// FormatPlanList renders all plans as a table.
func FormatPlanList(plans []*domain.Plan) string {
	if len(plans) == 0 {
		return Dim("No plans. Import one with `maintplan import <file>`.") + "\n"
	}
	headers := []string{"NUMBER", "TITLE", "STATUS", "WINDOW", "APPROVALS"}
	rows := make([][]string, 0, len(plans))
	for _, p := range plans {
		rows = append(rows, []string{
			Bold(p.DisplayID()),
			p.Title,
			PlanStatusPill(p.EffectiveStatus()),
			FormatDate(p.StartDate) + " → " + FormatDate(p.EndDate),
			approvalSummary(p.Approvals),
		})
	}
	return RenderTable(headers, rows)
}

func approvalSummary(a domain.Approvals) string {
	n := 0
	if a.Stage1 != nil {
		n++
	}
	if a.Stage2 != nil {
		n++
	}
	s := fmt.Sprintf("%d/2", n)
	if n == 2 {
		return StyleGreen.Render(s)
	}
	return StyleDim.Render(s)
}

// FormatPlanDetail renders a plan header, its approvals and its work orders.
func FormatPlanDetail(p *domain.Plan, orders []*domain.WorkOrder) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n", Bold(p.DisplayID()+"  "+p.Title), PlanStatusPill(p.EffectiveStatus()))
	fmt.Fprintf(&b, "%s %s → %s\n", Dim("Window:  "), FormatDate(p.StartDate), FormatDate(p.EndDate))
	fmt.Fprintf(&b, "%s %s\n", Dim("Calendar:"), formatCalendar(p.Calendar))
	if p.CommittedAt != nil {
		fmt.Fprintf(&b, "%s %s %s\n", Dim("Committed:"), FormatStamp(*p.CommittedAt), Dim("("+HumanTimestamp(*p.CommittedAt)+")"))
	}
	b.WriteString("\n")

	b.WriteString(Header("Approvals") + "\n")
	b.WriteString(approvalLine(1, p.Approvals.Stage1))
	b.WriteString(approvalLine(2, p.Approvals.Stage2))
	b.WriteString("\n")

	b.WriteString(Header("Work Orders") + "\n")
	if len(orders) == 0 {
		b.WriteString(Dim("none") + "\n")
		return b.String()
	}
	rows := make([][]string, 0, len(orders))
	for _, w := range orders {
		rows = append(rows, []string{Bold(w.Number), w.Title, workOrderStatus(w.Status)})
	}
	b.WriteString(RenderTable([]string{"NUMBER", "TITLE", "STATUS"}, rows))
	return b.String()
}

func approvalLine(stage int, a *domain.Approval) string {
	if a == nil {
		return fmt.Sprintf("  %s Stage %d  %s\n", Check(false, true), stage, Dim("pending"))
	}
	return fmt.Sprintf("  %s Stage %d  %s %s\n", Check(true, false), stage, a.Name, Dim(FormatDate(a.Date)))
}

func formatCalendar(c domain.WorkCalendar) string {
	s := domain.FormatClock(c.StartMin) + "–" + domain.FormatClock(c.EndMin)
	for _, br := range c.Breaks {
		s += Dim(fmt.Sprintf("  %s %s–%s", domain.CoalesceStr(br.Name, "break"), domain.FormatClock(br.StartMin), domain.FormatClock(br.EndMin)))
	}
	return s
}

func workOrderStatus(s domain.WorkOrderStatus) string {
	switch s {
	case domain.WorkOrderScheduled:
		return StyleGreen.Render(string(s))
	case domain.WorkOrderCompleted:
		return StyleDim.Render(string(s))
	default:
		return StyleBlue.Render(string(s))
	}
}
