package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/maintplan/internal/domain"
	"github.com/alexanderramin/maintplan/internal/importer"
	"github.com/alexanderramin/maintplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeImportJSON(t *testing.T, schema *importer.ImportSchema) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "import.json")
	data, err := json.MarshalIndent(schema, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func ptrFloat(f float64) *float64 { return &f }
func ptrBool(b bool) *bool        { return &b }

func outageSchema() *importer.ImportSchema {
	return &importer.ImportSchema{
		Plan: importer.PlanImport{
			Number:    "MP-100",
			Title:     "Spring outage",
			StartDate: "2025-03-03",
			EndDate:   "2025-03-05",
			Breaks:    []importer.BreakImport{{Name: "Lunch", StartTime: "12:00", EndTime: "12:30"}},
		},
		WorkOrders: []importer.WorkOrderImport{
			{
				Ref: "wo1", Number: "WO-1", Title: "Boiler",
				Tasks: []importer.TaskImport{
					{
						Ref: "isolate", TaskName: "Isolate", EstimatedHours: ptrFloat(2),
						AssignedTo: []importer.AssigneeImport{{UID: "u1", Name: "Alice"}},
						RiskAssessments: []importer.RiskAssessmentImport{{
							Hazard: "Steam", InitialScore: 16, ResidualScore: 4, IsResidualTolerable: ptrBool(true),
							Controls: []importer.ControlImport{{ControlName: "LOTO check", IsPreTask: ptrBool(true)}},
						}},
					},
					{
						Ref: "valve", TaskName: "Replace valve", EstimatedHours: ptrFloat(3), PrecedingTaskRef: "isolate",
						AssignedTo:     []importer.AssigneeImport{{UID: "u1", Name: "Alice"}},
						RequiredSpares: []importer.SpareImport{{MaterialID: "V-20", Quantity: 1, UOM: "EA"}},
					},
				},
			},
			{
				Ref: "wo2", Number: "WO-2",
				Tasks: []importer.TaskImport{
					{Ref: "paint", TaskName: "Paint", PrecedingTaskRef: "scaffold"},
				},
			},
		},
		Stock: []importer.StockImport{{MaterialID: "V-20", AvailableQty: 2, LeadTimeDays: 1}},
	}
}

func TestImportPlan_FullStructure(t *testing.T) {
	env := setupRepos(t)
	obs := &recordingObserver{}
	svc := NewImportService(env.uow, domain.DefaultCalendar(), obs)
	ctx := context.Background()

	result, err := svc.ImportPlan(ctx, writeImportJSON(t, outageSchema()))
	require.NoError(t, err)
	assert.Equal(t, 2, result.WorkOrderCount)
	assert.Equal(t, 3, result.TaskCount)
	assert.Equal(t, 1, result.StockCount)
	assert.Equal(t, []string{"paint"}, result.DanglingRefs)

	plan, err := env.plans.GetByNumber(ctx, "MP-100")
	require.NoError(t, err)
	assert.Equal(t, result.Plan.ID, plan.ID)
	assert.Equal(t, domain.PlanDraft, plan.Status)
	require.Len(t, plan.Calendar.Breaks, 1)

	tasks, err := env.tasks.ListByPlan(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, tasks[0].ID, tasks[1].PrecedingTaskID)
	assert.Equal(t, "scaffold", tasks[2].PrecedingTaskID)

	level, err := env.stock.Get(ctx, "V-20")
	require.NoError(t, err)
	assert.Equal(t, 2.0, level.AvailableQty)

	require.Len(t, obs.events, 1)
	assert.Equal(t, "import-plan", obs.events[0].Name)
	assert.Equal(t, 3, obs.events[0].Fields["tasks"])
}

func TestImportPlan_ThenSchedule(t *testing.T) {
	env := setupRepos(t)
	ctx := context.Background()

	_, err := NewImportService(env.uow, domain.DefaultCalendar()).ImportPlanFromSchema(ctx, outageSchema())
	require.NoError(t, err)

	resp, err := env.scheduleService().Compute(ctx, scheduleReqFor("MP-100"))
	require.NoError(t, err)

	// One pre-task control expands into a synthetic safety step.
	require.Len(t, resp.Result.Tasks, 4)
	byName := make(map[string]int)
	for i, st := range resp.Result.Tasks {
		byName[st.Name] = i
	}
	safety := resp.Result.Tasks[byName["LOTO check"]]
	assert.True(t, safety.IsSafetyTask)
	isolate := resp.Result.Tasks[byName["Isolate"]]
	assert.Equal(t, safety.ID, isolate.PrecedingTaskID)
	assert.Equal(t, safety.End, isolate.Start)

	paint := resp.Result.Tasks[byName["Paint"]]
	assert.True(t, paint.Fallback, "dangling predecessor is force-placed")
	assert.Equal(t, resp.Result.Window.Start, paint.Start)
}

func TestImportPlan_ValidationErrorsListed(t *testing.T) {
	env := setupRepos(t)
	schema := outageSchema()
	schema.Plan.StartDate = ""
	schema.WorkOrders[0].Tasks[0].TaskName = ""

	_, err := NewImportService(env.uow, domain.DefaultCalendar()).ImportPlanFromSchema(context.Background(), schema)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "import validation failed (2 errors)")
	assert.Contains(t, err.Error(), "plan.start_date is required")

	plans, err := env.plans.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestImportPlan_DuplicateNumber(t *testing.T) {
	env := setupRepos(t)
	svc := NewImportService(env.uow, domain.DefaultCalendar())
	ctx := context.Background()

	_, err := svc.ImportPlanFromSchema(ctx, outageSchema())
	require.NoError(t, err)
	_, err = svc.ImportPlanFromSchema(ctx, outageSchema())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestImportPlan_UsesConfiguredCalendar(t *testing.T) {
	env := setupRepos(t)
	schema := outageSchema()
	schema.Plan.Breaks = nil
	defaults := domain.WorkCalendar{StartMin: 6 * 60, EndMin: 14 * 60, Breaks: []domain.Break{{Name: "Tea", StartMin: 600, EndMin: 615}}}

	result, err := NewImportService(env.uow, defaults).ImportPlanFromSchema(context.Background(), schema)
	require.NoError(t, err)
	assert.Equal(t, 6*60, result.Plan.Calendar.StartMin)
	assert.Equal(t, 14*60, result.Plan.Calendar.EndMin)
	require.Len(t, result.Plan.Calendar.Breaks, 1)
	assert.Equal(t, "Tea", result.Plan.Calendar.Breaks[0].Name)
}

func TestImportPlan_RollbackOnTaskInsertFailure(t *testing.T) {
	env := setupRepos(t)
	// #1 plan, #2-#3 work orders, #4 first task.
	failUoW := &testutil.FailOnNthExecUoW{DB: env.db, FailOn: 4, Err: fmt.Errorf("injected task failure")}

	_, err := NewImportService(failUoW, domain.DefaultCalendar()).ImportPlanFromSchema(context.Background(), outageSchema())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected task failure")

	plans, err := env.plans.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, plans, "plan insert rolled back")
}

func TestImportPlan_MissingFile(t *testing.T) {
	env := setupRepos(t)
	_, err := NewImportService(env.uow, domain.DefaultCalendar()).ImportPlan(context.Background(), filepath.Join(t.TempDir(), "none.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading import file")
}
