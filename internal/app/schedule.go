package app

import (
	"time"

	"github.com/alexanderramin/maintplan/internal/domain"
	"github.com/alexanderramin/maintplan/internal/scheduler"
)

// ScheduleRequest asks for the derived schedule of one plan.
type ScheduleRequest struct {
	// PlanRef is a plan id or plan number.
	PlanRef string
	// Today anchors spare lead-time checks. Nil means the current date.
	Today *time.Time
	// Policy replaces selected fields of the service's configured commit
	// policy. Nil keeps the configured policy as is.
	Policy *scheduler.PolicyOverride
}

func NewScheduleRequest(planRef string) ScheduleRequest {
	return ScheduleRequest{PlanRef: planRef}
}

// ScheduleResponse is a plan together with everything computed from it.
type ScheduleResponse struct {
	Plan        *domain.Plan
	WorkOrders  []*domain.WorkOrder
	Tasks       []*domain.Task
	Stock       map[string]domain.StockLevel
	Result      scheduler.Result
	GeneratedAt time.Time
}

// TaskByID indexes the stored (unexpanded) tasks.
func (r *ScheduleResponse) TaskByID() map[string]*domain.Task {
	out := make(map[string]*domain.Task, len(r.Tasks))
	for _, t := range r.Tasks {
		out[t.ID] = t
	}
	return out
}

// WorkOrderByID indexes the plan's work orders.
func (r *ScheduleResponse) WorkOrderByID() map[string]*domain.WorkOrder {
	out := make(map[string]*domain.WorkOrder, len(r.WorkOrders))
	for _, w := range r.WorkOrders {
		out[w.ID] = w
	}
	return out
}
