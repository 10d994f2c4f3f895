package domain

import "time"

type WorkOrder struct {
	ID        string
	PlanID    string
	Number    string
	Title     string
	Status    WorkOrderStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
