package scheduler

import (
	"time"

	"github.com/alexanderramin/maintplan/internal/domain"
)

// monday is 2025-03-03, a Monday, at midnight UTC.
var monday = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

func at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
}

func calendar(startHour, endHour int, breaks ...domain.Break) domain.WorkCalendar {
	return domain.WorkCalendar{StartMin: startHour * 60, EndMin: endHour * 60, Breaks: breaks}
}

func lunch() domain.Break {
	return domain.Break{Name: "Lunch", StartMin: 12 * 60, EndMin: 12*60 + 30}
}

func testPlan(days int, cal domain.WorkCalendar) *domain.Plan {
	return &domain.Plan{
		ID:        "plan-1",
		Number:    "MP-001",
		StartDate: monday,
		EndDate:   monday.AddDate(0, 0, days-1),
		Calendar:  cal,
		Status:    domain.PlanDraft,
	}
}

func task(id string, hours float64, pred string) domain.Task {
	return domain.Task{ID: id, TaskID: id, Name: "Task " + id, EstimatedHours: hours, PrecedingTaskID: pred, Status: domain.TaskPending}
}

func expanded(tasks ...domain.Task) []ExpandedTask {
	out := make([]ExpandedTask, len(tasks))
	for i, t := range tasks {
		out[i] = ExpandedTask{Task: t}
	}
	return out
}

func scheduleOn(plan *domain.Plan, tasks ...domain.Task) ([]ScheduledTask, Window) {
	clock := NewClock(plan.Calendar, time.UTC)
	window := PlanWindow(plan, clock)
	return Schedule(Expand(tasks), window, clock), window
}

func byID(tasks []ScheduledTask) map[string]ScheduledTask {
	m := make(map[string]ScheduledTask, len(tasks))
	for _, t := range tasks {
		m[t.ID] = t
	}
	return m
}

func withAssignee(t domain.Task, uid, name string) domain.Task {
	t.AssignedTo = append(t.AssignedTo, domain.Assignee{UID: uid, Name: name})
	return t
}

func safeAssessment() domain.RiskAssessment {
	return domain.RiskAssessment{Hazard: "Rotating parts", InitialScore: 12, ResidualScore: 4, IsResidualTolerable: true}
}
