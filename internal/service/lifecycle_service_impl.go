package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/maintplan/internal/contract"
	"github.com/alexanderramin/maintplan/internal/db"
	"github.com/alexanderramin/maintplan/internal/domain"
	"github.com/alexanderramin/maintplan/internal/repository"
	"github.com/alexanderramin/maintplan/internal/scheduler"
	"github.com/google/uuid"
)

type lifecycleService struct {
	plans        repository.PlanRepo
	reservations repository.ReservationRepo
	uow          db.UnitOfWork
	policy       scheduler.Policy
	observer     UseCaseObserver
}

func NewLifecycleService(
	plans repository.PlanRepo,
	reservations repository.ReservationRepo,
	uow db.UnitOfWork,
	policy scheduler.Policy,
	observers ...UseCaseObserver,
) LifecycleService {
	return &lifecycleService{
		plans:        plans,
		reservations: reservations,
		uow:          uow,
		policy:       policy,
		observer:     useCaseObserverOrNoop(observers),
	}
}

func newID() string {
	return uuid.New().String()
}

func stamp() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// Commit recomputes the schedule inside the transaction, so the verdict that
// allows the commit is the one the written state is based on.
func (s *lifecycleService) Commit(ctx context.Context, req contract.CommitRequest) (resp *contract.CommitResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{"plan": req.PlanRef}
	defer func() {
		observe(ctx, s.observer, "commit-plan", startedAt, err, fields)
	}()

	now := stamp()
	today := todayOr(req.Today)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := newTxRepos(tx)
		plan, err := resolvePlan(ctx, repos.plans, req.PlanRef)
		if err != nil {
			return err
		}
		if plan.IsLocked() {
			return fmt.Errorf("committing plan %s (%s): %w", plan.DisplayID(), plan.EffectiveStatus(), domain.ErrInvalidTransition)
		}

		in, err := loadPlanInputs(ctx, repos.inputs(), plan, 1)
		if err != nil {
			return err
		}
		result := in.schedule(today, s.policy)
		fields["fingerprint"] = result.Fingerprint

		if req.ExpectedFingerprint != "" && req.ExpectedFingerprint != result.Fingerprint {
			return fmt.Errorf("committing plan %s: %w", plan.DisplayID(), domain.ErrScheduleChanged)
		}
		if !result.Verdict.CanCommit {
			return &contract.CommitBlockedError{Verdict: result.Verdict}
		}
		if err := plan.Transition(domain.PlanInProgress, now); err != nil {
			return err
		}
		plan.ScheduleFingerprint = result.Fingerprint
		if err := repos.plans.Update(ctx, plan); err != nil {
			return err
		}

		reservations := domain.ReservationsFor(plan.ID, in.tasks, newID, now)
		for _, r := range reservations {
			if err := repos.reservations.Create(ctx, r); err != nil {
				return fmt.Errorf("creating reservation for %s: %w", r.MaterialID, err)
			}
		}
		if err := repos.workOrders.SetStatusByPlan(ctx, plan.ID, domain.WorkOrderScheduled, now); err != nil {
			return err
		}
		fields["reservations"] = len(reservations)

		resp = &contract.CommitResponse{
			Plan:         plan,
			Reservations: reservations,
			Verdict:      result.Verdict,
			Fingerprint:  result.Fingerprint,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Lock flips a committed plan to SCHEDULED without recomputing anything.
func (s *lifecycleService) Lock(ctx context.Context, planRef string) (resp *contract.TransitionResponse, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "lock-plan", startedAt, err, map[string]any{"plan": planRef})
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		resp, err = s.transition(ctx, newTxRepos(tx), planRef, domain.PlanScheduled, domain.WorkOrderScheduled, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Complete closes a SCHEDULED plan once every task, break-in work included,
// is complete.
func (s *lifecycleService) Complete(ctx context.Context, planRef string) (resp *contract.TransitionResponse, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "complete-plan", startedAt, err, map[string]any{"plan": planRef})
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := newTxRepos(tx)
		resp, err = s.transition(ctx, repos, planRef, domain.PlanCompleted, domain.WorkOrderCompleted,
			func(plan *domain.Plan) error {
				tasks, err := repos.tasks.ListByPlan(ctx, plan.ID)
				if err != nil {
					return err
				}
				var open []string
				for _, t := range tasks {
					if !t.IsComplete() {
						open = append(open, t.DisplayID())
					}
				}
				if len(open) > 0 {
					return fmt.Errorf("completing plan %s: %d of %d tasks open (%s): %w",
						plan.DisplayID(), len(open), len(tasks), strings.Join(open, ", "), domain.ErrTasksIncomplete)
				}
				return nil
			})
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// transition moves the plan to status and propagates woStatus to its work
// orders. guard runs after the status check and before any write.
func (s *lifecycleService) transition(
	ctx context.Context,
	repos txRepos,
	planRef string,
	status domain.PlanStatus,
	woStatus domain.WorkOrderStatus,
	guard func(*domain.Plan) error,
) (*contract.TransitionResponse, error) {
	plan, err := resolvePlan(ctx, repos.plans, planRef)
	if err != nil {
		return nil, err
	}
	from := plan.EffectiveStatus()
	now := stamp()

	// Transition validates the step before the guard looks at tasks, so an
	// out-of-order request reports the status problem first.
	probe := *plan
	if err := probe.Transition(status, now); err != nil {
		return nil, err
	}
	if guard != nil {
		if err := guard(plan); err != nil {
			return nil, err
		}
	}

	if err := plan.Transition(status, now); err != nil {
		return nil, err
	}
	if err := repos.plans.Update(ctx, plan); err != nil {
		return nil, err
	}
	if err := repos.workOrders.SetStatusByPlan(ctx, plan.ID, woStatus, now); err != nil {
		return nil, err
	}
	orders, err := repos.workOrders.ListByPlan(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	return &contract.TransitionResponse{Plan: plan, From: from, WorkOrders: len(orders)}, nil
}

// CompleteTask marks one task done. Tasks are closed out only on a
// SCHEDULED plan.
func (s *lifecycleService) CompleteTask(ctx context.Context, planRef, taskRef string) (task *domain.Task, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "complete-task", startedAt, err, map[string]any{"plan": planRef, "task": taskRef})
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := newTxRepos(tx)
		plan, err := resolvePlan(ctx, repos.plans, planRef)
		if err != nil {
			return err
		}
		if plan.EffectiveStatus() != domain.PlanScheduled {
			return fmt.Errorf("completing task on plan %s (%s): %w", plan.DisplayID(), plan.EffectiveStatus(), domain.ErrInvalidTransition)
		}
		tasks, err := repos.tasks.ListByPlan(ctx, plan.ID)
		if err != nil {
			return err
		}
		t, err := resolveTask(tasks, taskRef)
		if err != nil {
			return err
		}
		if err := t.MarkComplete(stamp()); err != nil {
			return err
		}
		if err := repos.tasks.Update(ctx, t); err != nil {
			return err
		}
		task = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *lifecycleService) UpdateTaskDuration(ctx context.Context, planRef, taskRef string, hours float64) (task *domain.Task, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "update-task-duration", startedAt, err,
			map[string]any{"plan": planRef, "task": taskRef, "hours": hours})
	}()

	if hours < 0 {
		return nil, fmt.Errorf("estimated hours must not be negative, got %g", hours)
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := newTxRepos(tx)
		plan, err := resolvePlan(ctx, repos.plans, planRef)
		if err != nil {
			return err
		}
		if plan.IsLocked() {
			return fmt.Errorf("editing task on plan %s: %w", plan.DisplayID(), domain.ErrPlanLocked)
		}
		tasks, err := repos.tasks.ListByPlan(ctx, plan.ID)
		if err != nil {
			return err
		}
		t, err := resolveTask(tasks, taskRef)
		if err != nil {
			return err
		}
		t.EstimatedHours = hours
		t.UpdatedAt = stamp()
		if err := repos.tasks.Update(ctx, t); err != nil {
			return err
		}
		task = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// AddBreakIn records unplanned work on a committed plan. Its spares are
// reserved straight away since the commit that would have reserved them has
// already happened.
func (s *lifecycleService) AddBreakIn(ctx context.Context, req contract.BreakInRequest) (task *domain.Task, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "add-break-in", startedAt, err, map[string]any{"plan": req.PlanRef, "work_order": req.WorkOrderRef})
	}()

	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("break-in task name is required")
	}
	if req.Hours < 0 {
		return nil, fmt.Errorf("estimated hours must not be negative, got %g", req.Hours)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := newTxRepos(tx)
		plan, err := resolvePlan(ctx, repos.plans, req.PlanRef)
		if err != nil {
			return err
		}
		switch plan.EffectiveStatus() {
		case domain.PlanInProgress, domain.PlanScheduled:
		default:
			return fmt.Errorf("adding break-in to plan %s (%s): %w", plan.DisplayID(), plan.EffectiveStatus(), domain.ErrInvalidTransition)
		}

		orders, err := repos.workOrders.ListByPlan(ctx, plan.ID)
		if err != nil {
			return err
		}
		wo, err := resolveWorkOrder(orders, req.WorkOrderRef)
		if err != nil {
			return err
		}
		existing, err := repos.tasks.ListByPlan(ctx, plan.ID)
		if err != nil {
			return err
		}
		breakIns := 0
		for _, t := range existing {
			if t.IsBreakIn {
				breakIns++
			}
		}

		now := stamp()
		t := &domain.Task{
			ID:             newID(),
			TaskID:         fmt.Sprintf("BI-%d", breakIns+1),
			WorkOrderID:    wo.ID,
			Name:           req.Name,
			EstimatedHours: req.Hours,
			AssignedTo:     req.Assignees,
			RequiredSpares: req.Spares,
			IsBreakIn:      true,
			Status:         domain.TaskPending,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := repos.tasks.Create(ctx, t); err != nil {
			return err
		}
		for _, r := range domain.ReservationsFor(plan.ID, []*domain.Task{t}, newID, now) {
			if err := repos.reservations.Create(ctx, r); err != nil {
				return fmt.Errorf("creating reservation for %s: %w", r.MaterialID, err)
			}
		}
		task = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *lifecycleService) ListReservations(ctx context.Context, planRef string) (list []*domain.Reservation, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "list-reservations", startedAt, err,
			map[string]any{"plan": planRef, "reservations": len(list)})
	}()

	plan, err := resolvePlan(ctx, s.plans, planRef)
	if err != nil {
		return nil, err
	}
	return s.reservations.ListByPlan(ctx, plan.ID)
}

func (s *lifecycleService) AdvanceReservation(ctx context.Context, id string) (res *domain.Reservation, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "advance-reservation", startedAt, err, map[string]any{"reservation": id})
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txReservations := repository.NewSQLiteReservationRepo(tx)
		r, err := txReservations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := r.Advance(stamp()); err != nil {
			return err
		}
		if err := txReservations.Update(ctx, r); err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
