package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/maintplan/internal/contract"
	"github.com/alexanderramin/maintplan/internal/db"
	"github.com/alexanderramin/maintplan/internal/domain"
	"github.com/alexanderramin/maintplan/internal/repository"
)

type planService struct {
	plans      repository.PlanRepo
	workOrders repository.WorkOrderRepo
	uow        db.UnitOfWork
	observer   UseCaseObserver
}

func NewPlanService(plans repository.PlanRepo, workOrders repository.WorkOrderRepo, uow db.UnitOfWork, observers ...UseCaseObserver) PlanService {
	return &planService{
		plans:      plans,
		workOrders: workOrders,
		uow:        uow,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *planService) Resolve(ctx context.Context, ref string) (*domain.Plan, error) {
	return resolvePlan(ctx, s.plans, ref)
}

func (s *planService) List(ctx context.Context) ([]*domain.Plan, error) {
	return s.plans.List(ctx)
}

func (s *planService) WorkOrders(ctx context.Context, planRef string) ([]*domain.WorkOrder, error) {
	plan, err := resolvePlan(ctx, s.plans, planRef)
	if err != nil {
		return nil, err
	}
	return s.workOrders.ListByPlan(ctx, plan.ID)
}

func (s *planService) Approve(ctx context.Context, req contract.ApprovalRequest) (plan *domain.Plan, err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "approve-plan", startedAt, err, map[string]any{
			"plan":  req.PlanRef,
			"stage": int(req.Stage),
			"uid":   req.UID,
		})
	}()

	if req.UID == "" {
		return nil, fmt.Errorf("approver uid is required")
	}
	date := time.Now().UTC().Truncate(time.Second)
	if req.Date != nil {
		date = req.Date.UTC()
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPlans := repository.NewSQLitePlanRepo(tx)
		p, err := resolvePlan(ctx, txPlans, req.PlanRef)
		if err != nil {
			return err
		}
		approval := domain.Approval{UID: req.UID, Name: domain.CoalesceStr(req.Name, req.UID), Date: date}
		if err := p.Approve(req.Stage, approval); err != nil {
			return err
		}
		if err := txPlans.Update(ctx, p); err != nil {
			return err
		}
		plan = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *planService) Delete(ctx context.Context, planRef string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPlans := repository.NewSQLitePlanRepo(tx)
		p, err := resolvePlan(ctx, txPlans, planRef)
		if err != nil {
			return err
		}
		if p.IsLocked() {
			return fmt.Errorf("deleting plan %s: %w", p.DisplayID(), domain.ErrPlanLocked)
		}
		return txPlans.Delete(ctx, p.ID)
	})
}
