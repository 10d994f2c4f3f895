package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/maintplan/internal/contract"
	"github.com/alexanderramin/maintplan/internal/domain"
	"github.com/alexanderramin/maintplan/internal/scheduler"
)

const ganttWidth = 32

// FormatSchedule renders the computed timeline with a gantt column, followed
// by the readiness verdict.
func FormatSchedule(resp *contract.ScheduleResponse) string {
	var b strings.Builder
	res := resp.Result
	p := resp.Plan

	fmt.Fprintf(&b, "%s  %s\n", Bold(p.DisplayID()+"  "+p.Title), PlanStatusPill(p.EffectiveStatus()))
	fmt.Fprintf(&b, "%s %s → %s  %s\n\n",
		Dim("Window:"), FormatStamp(res.Window.Start), FormatStamp(res.Window.End),
		Dim("fingerprint "+shortFingerprint(res.Fingerprint)))

	b.WriteString(Header("Schedule") + "\n")
	if len(res.Tasks) == 0 {
		b.WriteString(Dim("No tasks.") + "\n\n")
	} else {
		orders := resp.WorkOrderByID()
		rows := make([][]string, 0, len(res.Tasks))
		for _, t := range res.Tasks {
			wo := ""
			if o, ok := orders[t.WorkOrderID]; ok {
				wo = o.Number
			}
			rows = append(rows, []string{
				taskLabel(t, res.Critical[t.ID]),
				t.Name,
				Dim(wo),
				FormatStamp(t.Start),
				FormatStamp(t.End),
				FormatHours(t.Hours()),
				assigneeNames(t.AssignedTo),
				GanttBar(res.Window, t.Start, t.End, ganttWidth, barStyle(t, res.Critical[t.ID])),
			})
		}
		b.WriteString(RenderTable([]string{"TASK", "NAME", "WO", "START", "END", "HOURS", "ASSIGNED", "TIMELINE"}, rows))
		b.WriteString(Dim("* critical   ⚑ safety   ↯ break-in   ? unresolved predecessor") + "\n\n")
	}

	b.WriteString(FormatVerdict(res.Verdict))
	return b.String()
}

func taskLabel(t scheduler.ScheduledTask, critical bool) string {
	label := t.TaskID
	switch {
	case t.IsSafetyTask:
		label = "⚑ " + label
	case t.IsBreakIn:
		label = "↯ " + label
	}
	if t.Fallback {
		label += " ?"
	}
	if critical {
		return StyleRed.Render(label + " *")
	}
	if t.IsComplete() {
		return StyleDim.Render(label)
	}
	return label
}

func barStyle(t scheduler.ScheduledTask, critical bool) func(string) string {
	switch {
	case t.IsComplete():
		return func(s string) string { return StyleDim.Render(s) }
	case critical:
		return func(s string) string { return StyleRed.Render(s) }
	case t.IsSafetyTask:
		return func(s string) string { return StyleYellow.Render(s) }
	default:
		return func(s string) string { return StyleBlue.Render(s) }
	}
}

// GanttBar draws [start, end) as a run of blocks positioned inside window.
// Every non-empty interval gets at least one block.
func GanttBar(window scheduler.Window, start, end time.Time, width int, style func(string) string) string {
	span := window.End.Sub(window.Start)
	if span <= 0 || width <= 0 {
		return ""
	}
	col := func(t time.Time) int {
		c := int(float64(t.Sub(window.Start)) / float64(span) * float64(width))
		return min(max(c, 0), width)
	}
	from, to := col(start), col(end)
	if to <= from && end.After(start) {
		to = min(from+1, width)
		from = to - 1
	}
	return StyleDim.Render(strings.Repeat("·", from)) +
		style(strings.Repeat(filledBlock, to-from)) +
		StyleDim.Render(strings.Repeat("·", width-to))
}

func assigneeNames(as []domain.Assignee) string {
	names := make([]string, 0, len(as))
	for _, a := range as {
		names = append(names, domain.CoalesceStr(a.Name, a.UID))
	}
	return strings.Join(names, ", ")
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}

type verdictRow struct {
	label string
	ok    bool
	rule  scheduler.Rule
}

// FormatVerdict renders each readiness check with its issues and a final
// commit line.
func FormatVerdict(v scheduler.Verdict) string {
	var b strings.Builder
	b.WriteString(Header("Readiness") + "\n")

	checks := []verdictRow{
		{"Plan dates", v.DatesValid, scheduler.RuleDates},
		{"Work orders present", v.HasWorkOrders, scheduler.RuleWorkOrders},
		{"Spares in stock", v.SparesStockValid, scheduler.RuleSparesStock},
		{"Spares arrive in time", v.SparesDelayValid, scheduler.RuleSparesDelay},
		{"No double bookings", !v.ResourceOverlap, scheduler.RuleResourceOverlap},
		{"Within capacity", !v.ResourceOverloaded, scheduler.RuleResourceOverload},
		{"Services confirmed", v.ServicesValid, scheduler.RuleServices},
		{"Safety controls assigned", v.SafetyValid, scheduler.RuleSafety},
		{"Not yet committed", !v.AlreadyCommitted, scheduler.RuleCommitted},
	}
	byRule := make(map[scheduler.Rule][]scheduler.Issue)
	for _, is := range v.Issues {
		byRule[is.Rule] = append(byRule[is.Rule], is)
	}

	for _, c := range checks {
		issues := byRule[c.rule]
		blocking := false
		for _, is := range issues {
			blocking = blocking || is.Blocking
		}
		fmt.Fprintf(&b, "  %s %s\n", Check(c.ok, !blocking), c.label)
		for _, is := range issues {
			msg := is.Message
			if !is.Blocking {
				msg += " (warning)"
			}
			fmt.Fprintf(&b, "      %s\n", Dim(msg))
		}
	}

	b.WriteString("\n")
	if v.CanCommit {
		b.WriteString(StyleGreen.Render("Ready to commit.") + "\n")
	} else {
		n := len(v.BlockingIssues())
		b.WriteString(StyleRed.Render(fmt.Sprintf("Cannot commit: %d blocking %s.", n, plural(n, "issue", "issues"))) + "\n")
	}
	return b.String()
}

// FormatResources renders per-assignee utilization, daily load and any
// double bookings.
func FormatResources(loads []scheduler.ResourceLoad, overlaps []scheduler.Overlap) string {
	var b strings.Builder
	b.WriteString(Header("Resources") + "\n")
	if len(loads) == 0 {
		b.WriteString(Dim("No assigned tasks.") + "\n")
		return b.String()
	}

	rows := make([][]string, 0, len(loads))
	for _, rl := range loads {
		name := domain.CoalesceStr(rl.Name, rl.UID)
		if rl.DoubleBooked {
			name = StyleRed.Render(name + " ⚠")
		}
		rows = append(rows, []string{
			name,
			fmt.Sprintf("%d", len(rl.Segments)),
			FormatHours(rl.AssignedHours) + " / " + FormatHours(rl.CapacityHours),
			RenderUtilization(rl.UtilizationPct, 20),
			dailySummary(rl.Daily),
		})
	}
	b.WriteString(RenderTable([]string{"ASSIGNEE", "TASKS", "HOURS", "UTILIZATION", "DAILY"}, rows))

	if len(overlaps) > 0 {
		names := make(map[string]string)
		for _, rl := range loads {
			for _, seg := range rl.Segments {
				names[seg.TaskID] = seg.TaskName
			}
		}
		b.WriteString("\n" + Header("Double Bookings") + "\n")
		for _, o := range overlaps {
			fmt.Fprintf(&b, "  %s %s: %s and %s overlap %s → %s\n",
				StyleRed.Render("✖"), domain.CoalesceStr(o.Name, o.UID),
				domain.CoalesceStr(names[o.FirstTask], o.FirstTask), domain.CoalesceStr(names[o.SecondTask], o.SecondTask),
				FormatStamp(o.From), FormatStamp(o.To))
		}
	}
	return b.String()
}

func dailySummary(days []scheduler.DailyLoad) string {
	parts := make([]string, 0, len(days))
	for _, d := range days {
		s := d.Date.Format("01-02") + " " + FormatHours(d.Hours)
		if d.CapacityHours > 0 && d.Hours > d.CapacityHours {
			s = StyleRed.Render(s)
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, Dim(" · "))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
