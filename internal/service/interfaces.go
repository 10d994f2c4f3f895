package service

import (
	"context"

	"github.com/alexanderramin/maintplan/internal/app"
	"github.com/alexanderramin/maintplan/internal/contract"
	"github.com/alexanderramin/maintplan/internal/domain"
)

type PlanService interface {
	app.ApprovePlanUseCase
	// Resolve finds a plan by id or, failing that, by plan number.
	Resolve(ctx context.Context, ref string) (*domain.Plan, error)
	List(ctx context.Context) ([]*domain.Plan, error)
	WorkOrders(ctx context.Context, planRef string) ([]*domain.WorkOrder, error)
	// Delete removes a DRAFT plan with everything it owns.
	Delete(ctx context.Context, planRef string) error
}

type ScheduleService interface {
	app.ScheduleUseCase
}

type LifecycleService interface {
	app.CommitUseCase
	Lock(ctx context.Context, planRef string) (*contract.TransitionResponse, error)
	Complete(ctx context.Context, planRef string) (*contract.TransitionResponse, error)
	CompleteTask(ctx context.Context, planRef, taskRef string) (*domain.Task, error)
	UpdateTaskDuration(ctx context.Context, planRef, taskRef string, hours float64) (*domain.Task, error)
	AddBreakIn(ctx context.Context, req contract.BreakInRequest) (*domain.Task, error)
	ListReservations(ctx context.Context, planRef string) ([]*domain.Reservation, error)
	AdvanceReservation(ctx context.Context, id string) (*domain.Reservation, error)
}

type StockService interface {
	List(ctx context.Context) ([]domain.StockLevel, error)
	Set(ctx context.Context, level domain.StockLevel) error
}

type ImportService interface {
	app.ImportPlanUseCase
}
