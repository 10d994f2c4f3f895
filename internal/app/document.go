package app

import (
	"time"

	"github.com/alexanderramin/maintplan/internal/domain"
	"github.com/alexanderramin/maintplan/internal/scheduler"
)

// ScheduleDocument is the machine-readable rendering of a computed schedule.
type ScheduleDocument struct {
	Plan        PlanDocument             `json:"plan"`
	Window      WindowDocument           `json:"window"`
	Tasks       []TaskDocument           `json:"tasks"`
	Verdict     scheduler.Verdict        `json:"verdict"`
	Resources   []scheduler.ResourceLoad `json:"resources"`
	Fingerprint string                   `json:"fingerprint"`
	GeneratedAt time.Time                `json:"generated_at"`
}

type PlanDocument struct {
	ID        string `json:"id"`
	Number    string `json:"number"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	WorkStart string `json:"work_start"`
	WorkEnd   string `json:"work_end"`
}

type WindowDocument struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type TaskDocument struct {
	ID              string    `json:"id"`
	TaskID          string    `json:"task_id"`
	Name            string    `json:"name"`
	WorkOrder       string    `json:"work_order,omitempty"`
	OriginalTaskID  string    `json:"original_task_id,omitempty"`
	PrecedingTaskID string    `json:"preceding_task_id,omitempty"`
	IsSafetyTask    bool      `json:"is_safety_task"`
	IsCritical      bool      `json:"is_critical"`
	IsBreakIn       bool      `json:"is_break_in"`
	Fallback        bool      `json:"fallback"`
	Status          string    `json:"status"`
	Hours           float64   `json:"hours"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	Assignees       []string  `json:"assignees,omitempty"`
}

// NewScheduleDocument flattens a response into its JSON document.
func NewScheduleDocument(resp *ScheduleResponse) ScheduleDocument {
	p := resp.Plan
	doc := ScheduleDocument{
		Plan: PlanDocument{
			ID:        p.ID,
			Number:    p.Number,
			Title:     p.Title,
			Status:    string(p.EffectiveStatus()),
			StartDate: p.StartDate.Format("2006-01-02"),
			EndDate:   p.EndDate.Format("2006-01-02"),
			WorkStart: domain.FormatClock(p.Calendar.StartMin),
			WorkEnd:   domain.FormatClock(p.Calendar.EndMin),
		},
		Window:      WindowDocument{Start: resp.Result.Window.Start, End: resp.Result.Window.End},
		Tasks:       make([]TaskDocument, 0, len(resp.Result.Tasks)),
		Verdict:     resp.Result.Verdict,
		Resources:   resp.Result.Resources,
		Fingerprint: resp.Result.Fingerprint,
		GeneratedAt: resp.GeneratedAt,
	}

	orders := resp.WorkOrderByID()
	for _, t := range resp.Result.Tasks {
		td := TaskDocument{
			ID:              t.ID,
			TaskID:          t.TaskID,
			Name:            t.Name,
			OriginalTaskID:  t.OriginalTaskID,
			PrecedingTaskID: t.PrecedingTaskID,
			IsSafetyTask:    t.IsSafetyTask,
			IsCritical:      resp.Result.Critical[t.ID],
			IsBreakIn:       t.IsBreakIn,
			Fallback:        t.Fallback,
			Status:          string(t.Status),
			Hours:           t.Hours(),
			Start:           t.Start,
			End:             t.End,
		}
		if wo, ok := orders[t.WorkOrderID]; ok {
			td.WorkOrder = wo.Number
		}
		for _, a := range t.AssignedTo {
			td.Assignees = append(td.Assignees, domain.CoalesceStr(a.Name, a.UID))
		}
		doc.Tasks = append(doc.Tasks, td)
	}
	return doc
}
