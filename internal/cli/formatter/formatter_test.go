package formatter

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/maintplan/internal/contract"
	"github.com/alexanderramin/maintplan/internal/domain"
	"github.com/alexanderramin/maintplan/internal/scheduler"
	"github.com/alexanderramin/maintplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "2h", FormatHours(2))
	assert.Equal(t, "1h 30m", FormatHours(1.5))
	assert.Equal(t, "15m", FormatHours(0.25))
	assert.Equal(t, "0m", FormatHours(0))
}

func TestFormatQty(t *testing.T) {
	assert.Equal(t, "1,250 EA", FormatQty(1250, "EA"))
	assert.Equal(t, "2.5", FormatQty(2.5, ""))
}

func TestHumanTimestampFrom(t *testing.T) {
	now := time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "3 days ago", HumanTimestampFrom(now.AddDate(0, 0, -3), now))
}

func TestTruncID(t *testing.T) {
	assert.Equal(t, "abcdef01", stripANSI(TruncID("abcdef0123456789")))
	assert.Equal(t, "short", stripANSI(TruncID("short")))
}

func TestRenderTable_AlignsStyledCells(t *testing.T) {
	out := stripANSI(RenderTable(
		[]string{"A", "B"},
		[][]string{{StyleRed.Render("long cell"), "x"}, {"s", "y"}},
	))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, strings.Index(lines[2], "x"), strings.Index(lines[3], "y"))
}

func TestRenderTable_NoHeaders(t *testing.T) {
	assert.Empty(t, RenderTable(nil, nil))
}

func TestRenderUtilization(t *testing.T) {
	out := stripANSI(RenderUtilization(50, 10))
	assert.Equal(t, "[█████░░░░░]  50%", out)

	over := stripANSI(RenderUtilization(150, 10))
	assert.Contains(t, over, strings.Repeat("█", 10))
	assert.Contains(t, over, "150%")
}

func TestGanttBar_PositionsInsideWindow(t *testing.T) {
	start := time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)
	w := scheduler.Window{Start: start, End: start.Add(10 * time.Hour)}
	id := func(s string) string { return s }

	bar := stripANSI(GanttBar(w, start.Add(5*time.Hour), start.Add(10*time.Hour), 10, id))
	assert.Equal(t, "·····█████", bar)

	tiny := stripANSI(GanttBar(w, start, start.Add(time.Minute), 10, id))
	assert.Equal(t, "█·········", tiny)
}

func TestFormatPlanList(t *testing.T) {
	p := testutil.NewTestPlan("Spring outage", testutil.WithApprovals())
	out := stripANSI(FormatPlanList([]*domain.Plan{p}))
	assert.Contains(t, out, p.Number)
	assert.Contains(t, out, "Spring outage")
	assert.Contains(t, out, "Draft")
	assert.Contains(t, out, "2/2")
	assert.Contains(t, out, "2025-03-03 → 2025-03-04")
}

func TestFormatPlanList_Empty(t *testing.T) {
	assert.Contains(t, stripANSI(FormatPlanList(nil)), "No plans")
}

func TestFormatPlanDetail(t *testing.T) {
	p := testutil.NewTestPlan("Spring outage")
	p.Approvals.Stage1 = &domain.Approval{UID: "sup-1", Name: "Supervisor", Date: testutil.FixtureNow}
	p.Calendar.Breaks = []domain.Break{{Name: "Lunch", StartMin: 12 * 60, EndMin: 12*60 + 30}}
	wo := testutil.NewTestWorkOrder(p.ID, "Pump overhaul")

	out := stripANSI(FormatPlanDetail(p, []*domain.WorkOrder{wo}))
	assert.Contains(t, out, "08:00–17:00")
	assert.Contains(t, out, "Lunch 12:00–12:30")
	assert.Contains(t, out, "Stage 1  Supervisor")
	assert.Contains(t, out, "Stage 2  pending")
	assert.Contains(t, out, wo.Number)
	assert.Contains(t, out, "OPEN")
}

func scheduleFixture(t *testing.T) *contract.ScheduleResponse {
	t.Helper()
	p := testutil.NewTestPlan("Spring outage", testutil.WithApprovals())
	wo := testutil.NewTestWorkOrder(p.ID, "Pump overhaul")
	t1 := testutil.NewTestTask(wo.ID, "Isolate pump", testutil.WithHours(2), testutil.WithAssignee("u1", "Alice"))
	t2 := testutil.NewTestTask(wo.ID, "Replace seal", testutil.WithHours(3),
		testutil.WithPredecessor(t1.ID), testutil.WithAssignee("u1", "Alice"))

	result := scheduler.Run(scheduler.Input{
		Plan:           p,
		Tasks:          []domain.Task{*t1, *t2},
		WorkOrderCount: 1,
		Today:          testutil.FixtureNow,
		Policy:         scheduler.DefaultPolicy(),
		Location:       time.UTC,
	})
	return &contract.ScheduleResponse{
		Plan:       p,
		WorkOrders: []*domain.WorkOrder{wo},
		Tasks:      []*domain.Task{t1, t2},
		Result:     result,
	}
}

func TestFormatSchedule(t *testing.T) {
	resp := scheduleFixture(t)
	out := stripANSI(FormatSchedule(resp))

	assert.Contains(t, out, "Isolate pump")
	assert.Contains(t, out, "Replace seal")
	assert.Contains(t, out, resp.WorkOrders[0].Number)
	assert.Contains(t, out, "Mon 03-03 08:00")
	assert.Contains(t, out, "Mon 03-03 10:00")
	assert.Contains(t, out, "READINESS")
	assert.Contains(t, out, "Ready to commit.")
	assert.Contains(t, out, shortFingerprint(resp.Result.Fingerprint))
}

func TestFormatVerdict_ListsBlockingIssues(t *testing.T) {
	v := scheduler.Verdict{
		DatesValid: true,
		Issues: []scheduler.Issue{
			{Rule: scheduler.RuleWorkOrders, Message: "plan has no work orders", Blocking: true},
			{Rule: scheduler.RuleServices, Message: "crane not confirmed"},
		},
	}
	out := stripANSI(FormatVerdict(v))
	assert.Contains(t, out, "plan has no work orders")
	assert.Contains(t, out, "crane not confirmed (warning)")
	assert.Contains(t, out, "Cannot commit: 1 blocking issue.")
}

func TestFormatResources(t *testing.T) {
	resp := scheduleFixture(t)
	out := stripANSI(FormatResources(resp.Result.Resources, resp.Result.Verdict.Overlaps))
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "5h / 18h")
	assert.NotContains(t, out, "DOUBLE BOOKINGS")
}

func TestFormatResources_ShowsOverlaps(t *testing.T) {
	at := time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)
	out := stripANSI(FormatResources(
		[]scheduler.ResourceLoad{{UID: "u1", Name: "Alice", DoubleBooked: true, CapacityHours: 9}},
		[]scheduler.Overlap{{UID: "u1", Name: "Alice", FirstTask: "T-1", SecondTask: "T-2", From: at, To: at.Add(time.Hour)}},
	))
	assert.Contains(t, out, "Alice ⚠")
	assert.Contains(t, out, "T-1 and T-2 overlap")
}

func TestFormatReservations(t *testing.T) {
	rs := []*domain.Reservation{{
		ID: "0123456789abcdef", TaskID: "task-uuid", MaterialID: "M-1",
		Quantity: 2, UOM: "EA", WarehousePath: "MAIN/A1", Status: domain.ReservationOrdered,
	}}
	out := stripANSI(FormatReservations(rs, map[string]string{"task-uuid": "T-001"}))
	assert.Contains(t, out, "01234567")
	assert.Contains(t, out, "T-001")
	assert.Contains(t, out, "2 EA")
	assert.Contains(t, out, "Ordered")
}

func TestFormatStock(t *testing.T) {
	out := stripANSI(FormatStock([]domain.StockLevel{{MaterialID: "M-1", AvailableQty: 5, LeadTimeDays: 2}}))
	assert.Contains(t, out, "M-1")
	assert.Contains(t, out, "2d")
	assert.Contains(t, stripANSI(FormatStock(nil)), "No stock")
}

func TestFormatImportResult(t *testing.T) {
	p := testutil.NewTestPlan("Spring outage")
	out := stripANSI(FormatImportResult(&contract.ImportResult{
		Plan: p, WorkOrderCount: 1, TaskCount: 3, StockCount: 2, DanglingRefs: []string{"T-9"},
	}))
	assert.Contains(t, out, "1 work order, 3 tasks, 2 stock levels")
	assert.Contains(t, out, "predecessors not found for: T-9")
}

func TestFormatTransition(t *testing.T) {
	p := testutil.NewTestPlan("Spring outage", testutil.WithPlanStatus(domain.PlanScheduled))
	out := stripANSI(FormatTransition(&contract.TransitionResponse{Plan: p, From: domain.PlanInProgress, WorkOrders: 2}))
	assert.Contains(t, out, "In Progress → ● Scheduled")
	assert.Contains(t, out, "2 work orders updated")
}
