package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/maintplan/internal/contract"
	"github.com/alexanderramin/maintplan/internal/db"
	"github.com/alexanderramin/maintplan/internal/domain"
	"github.com/alexanderramin/maintplan/internal/repository"
	"github.com/alexanderramin/maintplan/internal/scheduler"
	"github.com/alexanderramin/maintplan/internal/testutil"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db           *sql.DB
	uow          db.UnitOfWork
	plans        *repository.SQLitePlanRepo
	workOrders   *repository.SQLiteWorkOrderRepo
	tasks        *repository.SQLiteTaskRepo
	reservations *repository.SQLiteReservationRepo
	stock        *repository.SQLiteStockRepo
}

func setupRepos(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &testEnv{
		db:           database,
		uow:          testutil.NewTestUoW(database),
		plans:        repository.NewSQLitePlanRepo(database),
		workOrders:   repository.NewSQLiteWorkOrderRepo(database),
		tasks:        repository.NewSQLiteTaskRepo(database),
		reservations: repository.NewSQLiteReservationRepo(database),
		stock:        repository.NewSQLiteStockRepo(database),
	}
}

// seedPlan stores a plan with one work order.
func (e *testEnv) seedPlan(t *testing.T, opts ...testutil.PlanOption) (*domain.Plan, *domain.WorkOrder) {
	t.Helper()
	ctx := context.Background()
	plan := testutil.NewTestPlan("Boiler outage", opts...)
	require.NoError(t, e.plans.Create(ctx, plan))
	wo := testutil.NewTestWorkOrder(plan.ID, "Boiler")
	require.NoError(t, e.workOrders.Create(ctx, wo))
	return plan, wo
}

func (e *testEnv) addTask(t *testing.T, workOrderID, name string, opts ...testutil.TaskOption) *domain.Task {
	t.Helper()
	task := testutil.NewTestTask(workOrderID, name, opts...)
	require.NoError(t, e.tasks.Create(context.Background(), task))
	return task
}

func (e *testEnv) setStock(t *testing.T, materialID string, qty float64, leadDays int) {
	t.Helper()
	require.NoError(t, e.stock.Upsert(context.Background(), domain.StockLevel{
		MaterialID: materialID, AvailableQty: qty, LeadTimeDays: leadDays, UpdatedAt: testutil.FixtureNow,
	}))
}

func (e *testEnv) scheduleService(observers ...UseCaseObserver) ScheduleService {
	return NewScheduleService(e.plans, e.workOrders, e.tasks, e.stock, scheduler.DefaultPolicy(), observers...)
}

func (e *testEnv) lifecycleService(uow db.UnitOfWork, observers ...UseCaseObserver) LifecycleService {
	if uow == nil {
		uow = e.uow
	}
	return NewLifecycleService(e.plans, e.reservations, uow, scheduler.DefaultPolicy(), observers...)
}

// readyPlan seeds an approved plan that passes every readiness rule: two
// chained tasks, one of them needing a stocked spare.
func (e *testEnv) readyPlan(t *testing.T) (*domain.Plan, *domain.WorkOrder, []*domain.Task) {
	t.Helper()
	plan, wo := e.seedPlan(t, testutil.WithApprovals())
	t1 := e.addTask(t, wo.ID, "Isolate", testutil.WithHours(2), testutil.WithAssignee("u1", "Alice"), testutil.WithSpare("M-1", 2))
	t2 := e.addTask(t, wo.ID, "Replace valve", testutil.WithHours(3), testutil.WithPredecessor(t1.ID), testutil.WithAssignee("u1", "Alice"))
	e.setStock(t, "M-1", 5, 2)
	return plan, wo, []*domain.Task{t1, t2}
}

// recordingObserver keeps every event it sees.
type recordingObserver struct {
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.events = append(r.events, e)
}

// fixtureToday is the "today" every lead-time check in these tests uses.
func fixtureToday() *time.Time {
	d := testutil.FixtureNow
	return &d
}

func scheduleReqFor(planRef string) contract.ScheduleRequest {
	req := contract.NewScheduleRequest(planRef)
	req.Today = fixtureToday()
	return req
}
