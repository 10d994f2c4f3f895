package scheduler

import (
	"time"

	"github.com/alexanderramin/maintplan/internal/domain"
)

// Input is everything one scheduling run depends on.
type Input struct {
	Plan           *domain.Plan
	Tasks          []domain.Task
	WorkOrderCount int
	Stock          map[string]domain.StockLevel
	Today          time.Time
	Policy         Policy
	Location       *time.Location
}

// Result is the full derived view of a plan.
type Result struct {
	Window      Window
	Tasks       []ScheduledTask
	Critical    CriticalSet
	Verdict     Verdict
	Resources   []ResourceLoad
	Fingerprint string
}

// Run executes expand, schedule, critical path, validation and resource
// loading in order. It holds no state between calls; the same input always
// yields the same result. Manually flagged critical tasks are added to the
// computed critical set.
func Run(in Input) Result {
	plan := in.Plan
	if plan == nil {
		plan = &domain.Plan{}
	}
	clock := NewClock(plan.Calendar, in.Location)
	window := PlanWindow(plan, clock)

	scheduled := Schedule(Expand(in.Tasks), window, clock)
	critical := CriticalPath(scheduled)
	for _, t := range scheduled {
		if t.IsCritical {
			critical[t.ID] = true
		}
	}

	verdict := Validate(ValidationInput{
		Plan:           plan,
		Clock:          clock,
		Scheduled:      scheduled,
		Tasks:          in.Tasks,
		Stock:          in.Stock,
		WorkOrderCount: in.WorkOrderCount,
		Today:          in.Today,
		Policy:         in.Policy,
	})

	// Fingerprint only fails on unhashable values, which placement never holds.
	fp, _ := Fingerprint(scheduled, critical)

	return Result{
		Window:      window,
		Tasks:       scheduled,
		Critical:    critical,
		Verdict:     verdict,
		Resources:   LoadResources(scheduled, plan, window, clock),
		Fingerprint: fp,
	}
}
