package domain

import (
	"fmt"
	"time"
)

type Assignee struct {
	UID  string
	Name string
}

// SafetyControl is a mitigation attached to a hazard. Pre-task controls must
// be carried out before the task itself starts.
type SafetyControl struct {
	ControlName        string
	ControlDescription string
	IsPreTask          bool
	DurationMinutes    float64
	AssignedToUID      string
	AssignedToName     string
}

type RiskAssessment struct {
	Hazard              string
	InitialScore        int
	ResidualScore       int
	IsResidualTolerable bool
	Controls            []SafetyControl
}

type RequiredSpare struct {
	MaterialID    string
	Description   string
	Quantity      float64
	UOM           string
	WarehousePath string
}

type RequiredService struct {
	Name          string
	Vendor        string
	Availability  ServiceAvailability
	TentativeDate *time.Time
}

// Task is one unit of maintenance work inside a work order.
type Task struct {
	ID              string
	TaskID          string
	WorkOrderID     string
	Name            string
	Description     string
	EstimatedHours  float64
	PrecedingTaskID string

	// ScheduledStart anchors the task to an absolute instant. Only honored
	// when the task has no predecessor.
	ScheduledStart *time.Time

	AssignedTo       []Assignee
	RiskAssessments  []RiskAssessment
	RequiredSpares   []RequiredSpare
	RequiredServices []RequiredService

	IsCritical bool
	// IsBreakIn marks unplanned work added to a plan after it was locked.
	IsBreakIn bool
	Status    TaskStatus

	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PreTaskControls returns every pre-task control across all risk assessments,
// in assessment order.
func (t *Task) PreTaskControls() []SafetyControl {
	var out []SafetyControl
	for _, ra := range t.RiskAssessments {
		for _, c := range ra.Controls {
			if c.IsPreTask {
				out = append(out, c)
			}
		}
	}
	return out
}

// IsAssignedTo reports whether uid is among the task's assignees.
func (t *Task) IsAssignedTo(uid string) bool {
	for _, a := range t.AssignedTo {
		if a.UID == uid {
			return true
		}
	}
	return false
}

func (t *Task) IsComplete() bool {
	return t.Status == TaskCompleted
}

// MarkComplete records completion of the task. Completing twice is an error so
// the completion stamp is never overwritten.
func (t *Task) MarkComplete(now time.Time) error {
	if t.Status == TaskCompleted {
		return fmt.Errorf("task %s is already complete: %w", t.DisplayID(), ErrInvalidTransition)
	}
	t.Status = TaskCompleted
	t.CompletedAt = &now
	t.UpdatedAt = now
	return nil
}

// DisplayID prefers the human task number over the internal id.
func (t *Task) DisplayID() string {
	if t.TaskID != "" {
		return t.TaskID
	}
	return t.ID
}
