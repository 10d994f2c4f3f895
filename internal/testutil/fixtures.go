package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/maintplan/internal/domain"
	"github.com/google/uuid"
)

var testNumberCounter atomic.Int64

// FixtureNow is the creation stamp of every fixture. It has whole-second
// precision so it survives a database round trip unchanged.
var FixtureNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// Monday is the default plan start: 2025-03-03.
var Monday = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

// Plan options
type PlanOption func(*domain.Plan)

func WithPlanDates(start, end time.Time) PlanOption {
	return func(p *domain.Plan) {
		p.StartDate = start
		p.EndDate = end
	}
}

func WithCalendar(c domain.WorkCalendar) PlanOption {
	return func(p *domain.Plan) {
		p.Calendar = c
	}
}

func WithPlanStatus(s domain.PlanStatus) PlanOption {
	return func(p *domain.Plan) {
		p.Status = s
	}
}

// WithApprovals signs off both stages.
func WithApprovals() PlanOption {
	return func(p *domain.Plan) {
		p.Approvals.Stage1 = &domain.Approval{UID: "sup-1", Name: "Supervisor", Date: FixtureNow}
		p.Approvals.Stage2 = &domain.Approval{UID: "mgr-1", Name: "Manager", Date: FixtureNow}
	}
}

// NewTestPlan returns a two-day DRAFT plan starting Monday with the default
// 08:00-17:00 calendar.
func NewTestPlan(title string, opts ...PlanOption) *domain.Plan {
	p := &domain.Plan{
		ID:        uuid.New().String(),
		Number:    fmt.Sprintf("MP-%03d", testNumberCounter.Add(1)),
		Title:     title,
		StartDate: Monday,
		EndDate:   Monday.AddDate(0, 0, 1),
		Calendar:  domain.DefaultCalendar(),
		Status:    domain.PlanDraft,
		CreatedAt: FixtureNow,
		UpdatedAt: FixtureNow,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func NewTestWorkOrder(planID, title string) *domain.WorkOrder {
	return &domain.WorkOrder{
		ID:        uuid.New().String(),
		PlanID:    planID,
		Number:    fmt.Sprintf("WO-%03d", testNumberCounter.Add(1)),
		Title:     title,
		Status:    domain.WorkOrderOpen,
		CreatedAt: FixtureNow,
		UpdatedAt: FixtureNow,
	}
}

// Task options
type TaskOption func(*domain.Task)

func WithHours(h float64) TaskOption {
	return func(t *domain.Task) {
		t.EstimatedHours = h
	}
}

func WithPredecessor(id string) TaskOption {
	return func(t *domain.Task) {
		t.PrecedingTaskID = id
	}
}

func WithAnchor(at time.Time) TaskOption {
	return func(t *domain.Task) {
		t.ScheduledStart = &at
	}
}

func WithAssignee(uid, name string) TaskOption {
	return func(t *domain.Task) {
		t.AssignedTo = append(t.AssignedTo, domain.Assignee{UID: uid, Name: name})
	}
}

func WithSpare(materialID string, qty float64) TaskOption {
	return func(t *domain.Task) {
		t.RequiredSpares = append(t.RequiredSpares, domain.RequiredSpare{
			MaterialID: materialID, Description: materialID, Quantity: qty, UOM: "EA", WarehousePath: "MAIN/A1",
		})
	}
}

func WithService(name string, availability domain.ServiceAvailability) TaskOption {
	return func(t *domain.Task) {
		t.RequiredServices = append(t.RequiredServices, domain.RequiredService{Name: name, Availability: availability})
	}
}

// WithRisk replaces the default tolerable risk assessment.
func WithRisk(ra domain.RiskAssessment) TaskOption {
	return func(t *domain.Task) {
		t.RiskAssessments = []domain.RiskAssessment{ra}
	}
}

func WithTaskStatus(s domain.TaskStatus) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
	}
}

func WithBreakIn() TaskOption {
	return func(t *domain.Task) {
		t.IsBreakIn = true
	}
}

func WithCritical() TaskOption {
	return func(t *domain.Task) {
		t.IsCritical = true
	}
}

// TolerableRisk is an assessment that passes the safety rule.
func TolerableRisk() domain.RiskAssessment {
	return domain.RiskAssessment{Hazard: "Stored energy", InitialScore: 12, ResidualScore: 4, IsResidualTolerable: true}
}

// NewTestTask returns a one-hour pending task carrying a tolerable risk
// assessment, so a plan built from defaults passes validation.
func NewTestTask(workOrderID, name string, opts ...TaskOption) *domain.Task {
	t := &domain.Task{
		ID:              uuid.New().String(),
		TaskID:          fmt.Sprintf("T-%03d", testNumberCounter.Add(1)),
		WorkOrderID:     workOrderID,
		Name:            name,
		EstimatedHours:  1,
		RiskAssessments: []domain.RiskAssessment{TolerableRisk()},
		Status:          domain.TaskPending,
		CreatedAt:       FixtureNow,
		UpdatedAt:       FixtureNow,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}
