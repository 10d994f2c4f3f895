package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/maintplan/internal/db"
	"github.com/alexanderramin/maintplan/internal/domain"
	"github.com/alexanderramin/maintplan/internal/repository"
	"github.com/alexanderramin/maintplan/internal/scheduler"
	"golang.org/x/sync/errgroup"
)

// resolvePlan looks a plan up by id first and by number second.
func resolvePlan(ctx context.Context, plans repository.PlanRepo, ref string) (*domain.Plan, error) {
	p, err := plans.GetByID(ctx, ref)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return plans.GetByNumber(ctx, ref)
}

// resolveTask matches ref against task ids, then human task numbers.
func resolveTask(tasks []*domain.Task, ref string) (*domain.Task, error) {
	for _, t := range tasks {
		if t.ID == ref {
			return t, nil
		}
	}
	for _, t := range tasks {
		if strings.EqualFold(t.TaskID, ref) {
			return t, nil
		}
	}
	return nil, fmt.Errorf("task %s: %w", ref, domain.ErrNotFound)
}

func resolveWorkOrder(orders []*domain.WorkOrder, ref string) (*domain.WorkOrder, error) {
	for _, w := range orders {
		if w.ID == ref || strings.EqualFold(w.Number, ref) {
			return w, nil
		}
	}
	return nil, fmt.Errorf("work order %s: %w", ref, domain.ErrNotFound)
}

func todayOr(t *time.Time) time.Time {
	if t != nil {
		return *t
	}
	return time.Now().UTC()
}

// planInputs is everything read from storage for one scheduling run.
type planInputs struct {
	plan       *domain.Plan
	workOrders []*domain.WorkOrder
	tasks      []*domain.Task
	stock      map[string]domain.StockLevel
}

type inputRepos struct {
	workOrders repository.WorkOrderRepo
	tasks      repository.TaskRepo
	stock      repository.StockRepo
}

// loadPlanInputs reads work orders, tasks and stock for plan. At most limit
// queries run at once; inside a transaction pass 1.
func loadPlanInputs(ctx context.Context, r inputRepos, plan *domain.Plan, limit int) (*planInputs, error) {
	in := &planInputs{plan: plan}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	g.Go(func() error {
		orders, err := r.workOrders.ListByPlan(gctx, plan.ID)
		if err != nil {
			return fmt.Errorf("loading work orders: %w", err)
		}
		in.workOrders = orders
		return nil
	})
	g.Go(func() error {
		tasks, err := r.tasks.ListByPlan(gctx, plan.ID)
		if err != nil {
			return fmt.Errorf("loading tasks: %w", err)
		}
		in.tasks = tasks
		return nil
	})
	g.Go(func() error {
		levels, err := r.stock.List(gctx)
		if err != nil {
			return fmt.Errorf("loading stock: %w", err)
		}
		in.stock = make(map[string]domain.StockLevel, len(levels))
		for _, l := range levels {
			in.stock[l.MaterialID] = l
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return in, nil
}

func (in *planInputs) schedule(today time.Time, policy scheduler.Policy) scheduler.Result {
	tasks := make([]domain.Task, len(in.tasks))
	for i, t := range in.tasks {
		tasks[i] = *t
	}
	return scheduler.Run(scheduler.Input{
		Plan:           in.plan,
		Tasks:          tasks,
		WorkOrderCount: len(in.workOrders),
		Stock:          in.stock,
		Today:          today,
		Policy:         policy,
		Location:       time.UTC,
	})
}

// txRepos are repositories bound to one transaction.
type txRepos struct {
	plans        *repository.SQLitePlanRepo
	workOrders   *repository.SQLiteWorkOrderRepo
	tasks        *repository.SQLiteTaskRepo
	reservations *repository.SQLiteReservationRepo
	stock        *repository.SQLiteStockRepo
}

func newTxRepos(tx db.DBTX) txRepos {
	return txRepos{
		plans:        repository.NewSQLitePlanRepo(tx),
		workOrders:   repository.NewSQLiteWorkOrderRepo(tx),
		tasks:        repository.NewSQLiteTaskRepo(tx),
		reservations: repository.NewSQLiteReservationRepo(tx),
		stock:        repository.NewSQLiteStockRepo(tx),
	}
}

func (r txRepos) inputs() inputRepos {
	return inputRepos{workOrders: r.workOrders, tasks: r.tasks, stock: r.stock}
}
