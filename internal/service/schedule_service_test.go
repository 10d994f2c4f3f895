package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/maintplan/internal/contract"
	"github.com/alexanderramin/maintplan/internal/domain"
	"github.com/alexanderramin/maintplan/internal/repository"
	"github.com/alexanderramin/maintplan/internal/scheduler"
	"github.com/alexanderramin/maintplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
}

func TestCompute_ReadyPlan(t *testing.T) {
	env := setupRepos(t)
	plan, _, tasks := env.readyPlan(t)
	obs := &recordingObserver{}
	svc := env.scheduleService(obs)

	req := contract.NewScheduleRequest(plan.Number)
	req.Today = fixtureToday()
	resp, err := svc.Compute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, plan.ID, resp.Plan.ID)
	require.Len(t, resp.WorkOrders, 1)
	require.Len(t, resp.Tasks, 2)
	assert.Contains(t, resp.Stock, "M-1")

	require.Len(t, resp.Result.Tasks, 2)
	first, second := resp.Result.Tasks[0], resp.Result.Tasks[1]
	assert.Equal(t, tasks[0].ID, first.ID)
	assert.Equal(t, at(testutil.Monday, 8, 0), first.Start)
	assert.Equal(t, at(testutil.Monday, 10, 0), first.End)
	assert.Equal(t, at(testutil.Monday, 10, 0), second.Start)
	assert.Equal(t, at(testutil.Monday, 13, 0), second.End)

	assert.ElementsMatch(t, []string{tasks[0].ID, tasks[1].ID}, resp.Result.Critical.IDs())
	assert.True(t, resp.Result.Verdict.CanCommit, "issues: %v", resp.Result.Verdict.Issues)
	assert.NotEmpty(t, resp.Result.Fingerprint)

	require.Len(t, obs.events, 1)
	assert.Equal(t, "schedule", obs.events[0].Name)
	assert.True(t, obs.events[0].Success)
	assert.Equal(t, true, obs.events[0].Fields["can_commit"])
}

func TestCompute_ResolvesPlanByID(t *testing.T) {
	env := setupRepos(t)
	plan, _, _ := env.readyPlan(t)

	resp, err := env.scheduleService().Compute(context.Background(), contract.NewScheduleRequest(plan.ID))
	require.NoError(t, err)
	assert.Equal(t, plan.Number, resp.Plan.Number)
}

func TestCompute_UnknownPlan(t *testing.T) {
	env := setupRepos(t)
	obs := &recordingObserver{}

	_, err := env.scheduleService(obs).Compute(context.Background(), contract.NewScheduleRequest("MP-404"))
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.Len(t, obs.events, 1)
	assert.False(t, obs.events[0].Success)
}

func TestCompute_TodayDefaultsToNow(t *testing.T) {
	env := setupRepos(t)
	plan, _, _ := env.readyPlan(t)

	// The fixture plan lies in the past, so any spare with a lead time
	// arrives after the grace period when measured from the real date.
	resp, err := env.scheduleService().Compute(context.Background(), contract.NewScheduleRequest(plan.Number))
	require.NoError(t, err)
	assert.False(t, resp.Result.Verdict.SparesDelayValid)
	assert.False(t, resp.Result.Verdict.CanCommit)
}

func TestCompute_PolicyOverride(t *testing.T) {
	env := setupRepos(t)
	plan, _, _ := env.readyPlan(t)
	env.setStock(t, "M-1", 1, 2)
	svc := env.scheduleService()

	req := contract.NewScheduleRequest(plan.Number)
	req.Today = fixtureToday()
	resp, err := svc.Compute(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, resp.Result.Verdict.SparesStockValid)
	assert.True(t, resp.Result.Verdict.CanCommit, "short stock is a warning by default")

	block := true
	req.Policy = &scheduler.PolicyOverride{BlockOnStock: &block}
	resp, err = svc.Compute(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, resp.Result.Verdict.CanCommit)
}

func TestCompute_ManualCriticalFlagIsUnioned(t *testing.T) {
	env := setupRepos(t)
	plan, wo := env.seedPlan(t, testutil.WithApprovals())
	short := env.addTask(t, wo.ID, "Inspect", testutil.WithHours(1), testutil.WithCritical())
	long := env.addTask(t, wo.ID, "Overhaul", testutil.WithHours(6))

	req := contract.NewScheduleRequest(plan.Number)
	req.Today = fixtureToday()
	resp, err := env.scheduleService().Compute(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, resp.Result.Critical[long.ID], "latest finisher")
	assert.True(t, resp.Result.Critical[short.ID], "flagged by hand")
}

func TestCompute_IsIdempotent(t *testing.T) {
	env := setupRepos(t)
	plan, _, _ := env.readyPlan(t)
	svc := env.scheduleService()
	req := contract.NewScheduleRequest(plan.Number)
	req.Today = fixtureToday()

	a, err := svc.Compute(context.Background(), req)
	require.NoError(t, err)
	b, err := svc.Compute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, a.Result.Fingerprint, b.Result.Fingerprint)
	assert.Equal(t, a.Result.Tasks, b.Result.Tasks)
	assert.Equal(t, a.Result.Verdict, b.Result.Verdict)
}

func TestCompute_ConcurrentCallersOnFileDB(t *testing.T) {
	database := testutil.NewTestFileDB(t)
	plans := repository.NewSQLitePlanRepo(database)
	workOrders := repository.NewSQLiteWorkOrderRepo(database)
	tasks := repository.NewSQLiteTaskRepo(database)
	stock := repository.NewSQLiteStockRepo(database)
	ctx := context.Background()

	plan := testutil.NewTestPlan("Concurrent", testutil.WithApprovals())
	require.NoError(t, plans.Create(ctx, plan))
	wo := testutil.NewTestWorkOrder(plan.ID, "Pumps")
	require.NoError(t, workOrders.Create(ctx, wo))
	prev := ""
	for i := 0; i < 5; i++ {
		task := testutil.NewTestTask(wo.ID, "Step", testutil.WithPredecessor(prev))
		require.NoError(t, tasks.Create(ctx, task))
		prev = task.ID
	}

	svc := NewScheduleService(plans, workOrders, tasks, stock, scheduler.DefaultPolicy())
	req := contract.NewScheduleRequest(plan.Number)
	req.Today = fixtureToday()

	fingerprints := make([]string, 8)
	var g errgroup.Group
	for i := range fingerprints {
		g.Go(func() error {
			resp, err := svc.Compute(ctx, req)
			if err != nil {
				return err
			}
			fingerprints[i] = resp.Result.Fingerprint
			return nil
		})
	}
	require.NoError(t, g.Wait())
	for _, fp := range fingerprints {
		assert.Equal(t, fingerprints[0], fp)
	}
}
