package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/alexanderramin/maintplan/internal/contract"
	"github.com/alexanderramin/maintplan/internal/domain"
	"github.com/alexanderramin/maintplan/internal/repository"
	"github.com/alexanderramin/maintplan/internal/scheduler"
	"github.com/alexanderramin/maintplan/internal/service"
	"github.com/alexanderramin/maintplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	return testAppWithPolicy(t, scheduler.DefaultPolicy())
}

// testAppWithPolicy is testApp with a configured commit policy.
func testAppWithPolicy(t *testing.T, policy scheduler.Policy) *App {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	plans := repository.NewSQLitePlanRepo(database)
	workOrders := repository.NewSQLiteWorkOrderRepo(database)
	tasks := repository.NewSQLiteTaskRepo(database)
	reservations := repository.NewSQLiteReservationRepo(database)
	stock := repository.NewSQLiteStockRepo(database)

	return &App{
		Plans:     service.NewPlanService(plans, workOrders, uow),
		Schedule:  service.NewScheduleService(plans, workOrders, tasks, stock, policy),
		Lifecycle: service.NewLifecycleService(plans, reservations, uow, policy),
		Stock:     service.NewStockService(stock),
		Import:    service.NewImportService(uow, domain.DefaultCalendar()),
	}
}

// executeCmd runs the root command with args and returns its stripped output.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return ansiPattern.ReplaceAllString(buf.String(), ""), err
}

const outageJSON = `{
  "plan": {"number": "MP-200", "title": "Boiler outage", "start_date": "2025-03-03", "end_date": "2025-03-04"},
  "work_orders": [{
    "ref": "wo1", "number": "WO-1", "title": "Boiler",
    "tasks": [
      {
        "ref": "isolate", "task_id": "T1", "task_name": "Isolate boiler", "estimated_duration_hours": 2,
        "assigned_to": [{"uid": "u1", "name": "Alice"}],
        "risk_assessments": [{"hazard": "Steam", "initial_score": 16, "residual_score": 4, "is_residual_tolerable": true}],
        "required_spares": [{"material_id": "V-20", "quantity": 1, "uom": "EA", "warehouse_path": "MAIN/A1"}]
      },
      {
        "ref": "valve", "task_id": "T2", "task_name": "Replace valve", "estimated_duration_hours": 3,
        "preceding_task_ref": "isolate",
        "assigned_to": [{"uid": "u1", "name": "Alice"}],
        "risk_assessments": [{"hazard": "Pressure", "initial_score": 12, "residual_score": 3, "is_residual_tolerable": true}]
      }
    ]
  }],
  "stock": [{"material_id": "V-20", "available_qty": 4, "lead_time_days": 1}]
}`

// importOutage imports the two-task outage plan and returns its number.
func importOutage(t *testing.T, app *App) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "outage.json")
	require.NoError(t, os.WriteFile(path, []byte(outageJSON), 0o644))
	out, err := executeCmd(t, app, "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported plan MP-200")
	assert.Contains(t, out, "1 work order, 2 tasks, 1 stock level")
	return "MP-200"
}

func approve(t *testing.T, app *App, plan string) {
	t.Helper()
	_, err := executeCmd(t, app, "plan", "approve", plan, "--stage", "1", "--uid", "sup-1", "--name", "Supervisor")
	require.NoError(t, err)
	_, err = executeCmd(t, app, "plan", "approve", plan, "--stage", "2", "--uid", "mgr-1")
	require.NoError(t, err)
}

func TestPlanListAndShow(t *testing.T) {
	app := testApp(t)
	plan := importOutage(t, app)

	out, err := executeCmd(t, app, "plan", "list")
	require.NoError(t, err)
	assert.Contains(t, out, plan)
	assert.Contains(t, out, "Boiler outage")
	assert.Contains(t, out, "0/2")

	out, err = executeCmd(t, app, "plan", "show", plan)
	require.NoError(t, err)
	assert.Contains(t, out, "WO-1")
	assert.Contains(t, out, "Stage 1  pending")
}

func TestPlanApprove_StageOrder(t *testing.T) {
	app := testApp(t)
	plan := importOutage(t, app)

	_, err := executeCmd(t, app, "plan", "approve", plan, "--stage", "2", "--uid", "mgr-1")
	require.ErrorIs(t, err, domain.ErrApprovalOrder)

	_, err = executeCmd(t, app, "plan", "approve", plan, "--stage", "3", "--uid", "mgr-1")
	require.Error(t, err)

	out, err := executeCmd(t, app, "plan", "approve", plan, "--stage", "1", "--uid", "sup-1", "--name", "Supervisor")
	require.NoError(t, err)
	assert.Contains(t, out, "Stage 1 approved for plan MP-200 by Supervisor")
}

func TestSchedule_TextAndJSON(t *testing.T) {
	app := testApp(t)
	plan := importOutage(t, app)

	out, err := executeCmd(t, app, "schedule", plan, "--today", "2025-03-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Isolate boiler")
	assert.Contains(t, out, "Mon 03-03 10:00")
	assert.Contains(t, out, "Ready to commit.")

	out, err = executeCmd(t, app, "schedule", plan, "--today", "2025-03-01", "--json")
	require.NoError(t, err)
	var doc contract.ScheduleDocument
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Tasks, 2)
	assert.Equal(t, "T1", doc.Tasks[0].TaskID)
	assert.Equal(t, "WO-1", doc.Tasks[0].WorkOrder)
	assert.True(t, doc.Tasks[1].IsCritical)
	assert.True(t, doc.Verdict.CanCommit)
	assert.NotEmpty(t, doc.Fingerprint)
}

func TestSchedule_BadTodayFlag(t *testing.T) {
	app := testApp(t)
	plan := importOutage(t, app)

	_, err := executeCmd(t, app, "schedule", plan, "--today", "03/01/2025")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

func TestValidate_FailsOnLateSpare(t *testing.T) {
	app := testApp(t)
	plan := importOutage(t, app)

	out, err := executeCmd(t, app, "validate", plan, "--today", "2025-03-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Ready to commit.")

	// A 30 day lead time lands past plan end + 7 days.
	_, err = executeCmd(t, app, "stock", "set", "V-20", "--qty", "4", "--lead-days", "30")
	require.NoError(t, err)

	out, err = executeCmd(t, app, "validate", plan, "--today", "2025-03-01")
	require.ErrorIs(t, err, domain.ErrCommitBlocked)
	assert.Contains(t, out, "V-20 arrives 2025-03-31")
}

func TestValidate_PolicyFlags(t *testing.T) {
	app := testApp(t)
	plan := importOutage(t, app)
	_, err := executeCmd(t, app, "stock", "set", "V-20", "--qty", "0", "--lead-days", "1")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "validate", plan, "--today", "2025-03-01")
	require.NoError(t, err)
	assert.Contains(t, out, "(warning)")

	_, err = executeCmd(t, app, "validate", plan, "--today", "2025-03-01", "--block-stock")
	require.ErrorIs(t, err, domain.ErrCommitBlocked)
}

func TestValidate_PolicyFlagsKeepConfiguredPolicy(t *testing.T) {
	app := testAppWithPolicy(t, scheduler.Policy{SpareGraceDays: 60})
	plan := importOutage(t, app)
	_, err := executeCmd(t, app, "stock", "set", "V-20", "--qty", "4", "--lead-days", "30")
	require.NoError(t, err)

	// 30 days of lead time fits inside the configured 60 day grace.
	out, err := executeCmd(t, app, "validate", plan, "--today", "2025-03-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Ready to commit.")

	_, err = executeCmd(t, app, "validate", plan, "--today", "2025-03-01", "--block-stock")
	require.NoError(t, err, "--block-stock must not reset the grace period")

	_, err = executeCmd(t, app, "validate", plan, "--today", "2025-03-01", "--spare-grace-days", "7")
	require.ErrorIs(t, err, domain.ErrCommitBlocked)

	approve(t, app, plan)
	out, err = executeCmd(t, app, "commit", plan, "--today", "2025-03-01")
	require.NoError(t, err)
	assert.Contains(t, out, "committed")
}

func TestValidate_BlockFlagKeepsOtherConfiguredBlock(t *testing.T) {
	app := testAppWithPolicy(t, scheduler.Policy{SpareGraceDays: 7, BlockOnStock: true})
	plan := importOutage(t, app)
	_, err := executeCmd(t, app, "stock", "set", "V-20", "--qty", "0", "--lead-days", "1")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "validate", plan, "--today", "2025-03-01")
	require.ErrorIs(t, err, domain.ErrCommitBlocked)

	_, err = executeCmd(t, app, "validate", plan, "--today", "2025-03-01", "--block-services")
	require.ErrorIs(t, err, domain.ErrCommitBlocked, "configured block_on_stock still applies")

	out, err := executeCmd(t, app, "validate", plan, "--today", "2025-03-01", "--block-stock=false")
	require.NoError(t, err)
	assert.Contains(t, out, "(warning)")
}

func TestResources(t *testing.T) {
	app := testApp(t)
	plan := importOutage(t, app)

	out, err := executeCmd(t, app, "resources", plan, "--today", "2025-03-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "5h / 18h")
}

func TestCommit_RequiresApprovals(t *testing.T) {
	app := testApp(t)
	plan := importOutage(t, app)

	_, err := executeCmd(t, app, "commit", plan, "--today", "2025-03-01")
	require.ErrorIs(t, err, domain.ErrApprovalMissing)
}

func TestCommit_BlockedPrintsVerdict(t *testing.T) {
	app := testApp(t)
	plan := importOutage(t, app)
	approve(t, app, plan)
	_, err := executeCmd(t, app, "stock", "set", "V-20", "--qty", "4", "--lead-days", "30")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "commit", plan, "--today", "2025-03-01")
	require.ErrorIs(t, err, domain.ErrCommitBlocked)
	assert.Contains(t, out, "Cannot commit: 1 blocking issue.")
}

func TestLifecycle_EndToEnd(t *testing.T) {
	app := testApp(t)
	plan := importOutage(t, app)
	approve(t, app, plan)

	out, err := executeCmd(t, app, "commit", plan, "--today", "2025-03-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Plan MP-200 committed")
	assert.Contains(t, out, "reservations 1")

	_, err = executeCmd(t, app, "task", "set-duration", plan, "T1", "4")
	require.ErrorIs(t, err, domain.ErrPlanLocked)

	out, err = executeCmd(t, app, "reservation", "list", plan)
	require.NoError(t, err)
	assert.Contains(t, out, "V-20")
	assert.Contains(t, out, "T1")
	assert.Contains(t, out, "Reserved")

	rs, err := app.Lifecycle.ListReservations(context.Background(), plan)
	require.NoError(t, err)
	require.Len(t, rs, 1)
	out, err = executeCmd(t, app, "reservation", "advance", rs[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Ordered")

	_, err = executeCmd(t, app, "task", "done", plan, "T1")
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	out, err = executeCmd(t, app, "lock", plan)
	require.NoError(t, err)
	assert.Contains(t, out, "In Progress → ● Scheduled")

	out, err = executeCmd(t, app, "task", "break-in", plan,
		"--work-order", "WO-1", "--name", "Fix leak", "--hours", "1.5",
		"--assignee", "u2:Bob", "--spare", "V-20:1:EA")
	require.NoError(t, err)
	assert.Contains(t, out, "Fix leak")
	assert.Contains(t, out, "1h 30m")

	_, err = executeCmd(t, app, "complete", plan)
	require.ErrorIs(t, err, domain.ErrTasksIncomplete)

	for _, task := range []string{"T1", "T2", "BI-1"} {
		_, err = executeCmd(t, app, "task", "done", plan, task)
		require.NoError(t, err, task)
	}

	out, err = executeCmd(t, app, "complete", plan)
	require.NoError(t, err)
	assert.Contains(t, out, "Completed")

	_, err = executeCmd(t, app, "plan", "delete", plan, "--force")
	require.ErrorIs(t, err, domain.ErrPlanLocked)
}

func TestPlanDelete_Draft(t *testing.T) {
	app := testApp(t)
	plan := importOutage(t, app)

	out, err := executeCmd(t, app, "plan", "delete", plan)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted plan MP-200")

	_, err = executeCmd(t, app, "plan", "show", plan)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStockSetAndList(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "stock", "set", "M-9", "--qty", "1250", "--lead-days", "3")
	require.NoError(t, err)
	out, err := executeCmd(t, app, "stock", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "M-9")
	assert.Contains(t, out, "1,250")
	assert.Contains(t, out, "3d")

	_, err = executeCmd(t, app, "stock", "set", "M-9", "--qty", "-1")
	require.Error(t, err)
}

func TestView_RequiresTerminal(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "view", "MP-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")
}

func TestParseSpareAndAssignee(t *testing.T) {
	s, err := parseSpare("M-1:2.5:KG")
	require.NoError(t, err)
	assert.Equal(t, domain.RequiredSpare{MaterialID: "M-1", Quantity: 2.5, UOM: "KG"}, s)

	_, err = parseSpare("M-1")
	require.Error(t, err)
	_, err = parseSpare("M-1:zero")
	require.Error(t, err)

	a, err := parseAssignee("u7:Dana Lee")
	require.NoError(t, err)
	assert.Equal(t, domain.Assignee{UID: "u7", Name: "Dana Lee"}, a)
	_, err = parseAssignee(":nobody")
	require.Error(t, err)
}
