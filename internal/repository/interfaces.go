package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/maintplan/internal/domain"
)

type PlanRepo interface {
	Create(ctx context.Context, p *domain.Plan) error
	GetByID(ctx context.Context, id string) (*domain.Plan, error)
	GetByNumber(ctx context.Context, number string) (*domain.Plan, error)
	List(ctx context.Context) ([]*domain.Plan, error)
	Update(ctx context.Context, p *domain.Plan) error
	Delete(ctx context.Context, id string) error
}

type WorkOrderRepo interface {
	Create(ctx context.Context, w *domain.WorkOrder) error
	ListByPlan(ctx context.Context, planID string) ([]*domain.WorkOrder, error)
	// SetStatusByPlan moves every work order of a plan to status.
	SetStatusByPlan(ctx context.Context, planID string, status domain.WorkOrderStatus, now time.Time) error
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	// ListByPlan returns the plan's tasks in insertion order.
	ListByPlan(ctx context.Context, planID string) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	PlanIDForTask(ctx context.Context, taskID string) (string, error)
}

type ReservationRepo interface {
	Create(ctx context.Context, r *domain.Reservation) error
	GetByID(ctx context.Context, id string) (*domain.Reservation, error)
	ListByPlan(ctx context.Context, planID string) ([]*domain.Reservation, error)
	Update(ctx context.Context, r *domain.Reservation) error
}

type StockRepo interface {
	Upsert(ctx context.Context, s domain.StockLevel) error
	Get(ctx context.Context, materialID string) (*domain.StockLevel, error)
	List(ctx context.Context) ([]domain.StockLevel, error)
}
