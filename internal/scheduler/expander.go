package scheduler

import (
	"fmt"

	"github.com/alexanderramin/maintplan/internal/domain"
)

// DefaultSafetyControlMinutes is used for pre-task controls that carry no
// duration of their own.
const DefaultSafetyControlMinutes = 15

// ExpandedTask is a task as the scheduler sees it: either an original task or
// a synthetic safety sub-task generated from one of its pre-task controls.
type ExpandedTask struct {
	domain.Task
	// OriginalTaskID is the parent's id for safety sub-tasks, empty otherwise.
	OriginalTaskID string
	IsSafetyTask   bool
}

// SafetyTaskID returns the id of the n-th (1-based) safety sub-task of parentID.
func SafetyTaskID(parentID string, n int) string {
	return fmt.Sprintf("%s_S%d", parentID, n)
}

// Expand turns every task with pre-task safety controls into a linear chain of
// safety sub-tasks followed by the task itself. Tasks without such controls
// pass through unchanged. Sub-tasks are emitted directly before their parent.
func Expand(tasks []domain.Task) []ExpandedTask {
	out := make([]ExpandedTask, 0, len(tasks))
	for _, t := range tasks {
		controls := t.PreTaskControls()
		if len(controls) == 0 {
			out = append(out, ExpandedTask{Task: t})
			continue
		}

		prev := t.PrecedingTaskID
		anchor := t.ScheduledStart
		for i, c := range controls {
			id := SafetyTaskID(t.ID, i+1)
			sub := domain.Task{
				ID:              id,
				TaskID:          fmt.Sprintf("%s-S%d", t.DisplayID(), i+1),
				WorkOrderID:     t.WorkOrderID,
				Name:            c.ControlName,
				Description:     c.ControlDescription,
				EstimatedHours:  controlHours(c),
				PrecedingTaskID: prev,
				ScheduledStart:  anchor,
				Status:          t.Status,
			}
			if c.AssignedToUID != "" {
				sub.AssignedTo = []domain.Assignee{{UID: c.AssignedToUID, Name: c.AssignedToName}}
			}
			out = append(out, ExpandedTask{Task: sub, OriginalTaskID: t.ID, IsSafetyTask: true})
			prev = id
			anchor = nil
		}

		t.PrecedingTaskID = prev
		t.ScheduledStart = nil
		out = append(out, ExpandedTask{Task: t})
	}
	return out
}

func controlHours(c domain.SafetyControl) float64 {
	minutes := c.DurationMinutes
	if minutes <= 0 {
		minutes = DefaultSafetyControlMinutes
	}
	return minutes / 60
}
