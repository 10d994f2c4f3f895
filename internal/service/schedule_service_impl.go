package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/maintplan/internal/contract"
	"github.com/alexanderramin/maintplan/internal/repository"
	"github.com/alexanderramin/maintplan/internal/scheduler"
)

// scheduleLoadConcurrency bounds parallel reads when computing a schedule.
const scheduleLoadConcurrency = 3

type scheduleService struct {
	plans    repository.PlanRepo
	inputs   inputRepos
	policy   scheduler.Policy
	observer UseCaseObserver
}

func NewScheduleService(
	plans repository.PlanRepo,
	workOrders repository.WorkOrderRepo,
	tasks repository.TaskRepo,
	stock repository.StockRepo,
	policy scheduler.Policy,
	observers ...UseCaseObserver,
) ScheduleService {
	return &scheduleService{
		plans:    plans,
		inputs:   inputRepos{workOrders: workOrders, tasks: tasks, stock: stock},
		policy:   policy,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *scheduleService) Compute(ctx context.Context, req contract.ScheduleRequest) (resp *contract.ScheduleResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{"plan": req.PlanRef}
	defer func() {
		observe(ctx, s.observer, "schedule", startedAt, err, fields)
	}()

	plan, err := resolvePlan(ctx, s.plans, req.PlanRef)
	if err != nil {
		return nil, fmt.Errorf("loading plan: %w", err)
	}
	in, err := loadPlanInputs(ctx, s.inputs, plan, scheduleLoadConcurrency)
	if err != nil {
		return nil, err
	}

	result := in.schedule(todayOr(req.Today), req.Policy.Apply(s.policy))

	fields["tasks"] = len(result.Tasks)
	fields["can_commit"] = result.Verdict.CanCommit
	fields["fingerprint"] = result.Fingerprint

	return &contract.ScheduleResponse{
		Plan:        plan,
		WorkOrders:  in.workOrders,
		Tasks:       in.tasks,
		Stock:       in.stock,
		Result:      result,
		GeneratedAt: time.Now().UTC(),
	}, nil
}
