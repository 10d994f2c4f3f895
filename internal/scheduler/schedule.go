package scheduler

import (
	"sort"
	"time"

	"github.com/alexanderramin/maintplan/internal/domain"
)

// MinTaskHours is the shortest duration any task is scheduled for.
const MinTaskHours = 0.25

// fallbackDuration is the placement width of tasks whose predecessor can never
// be resolved (cycles, self references, deleted predecessors).
const fallbackDuration = time.Hour

// Window is the overall instant range a plan's tasks must fit in.
type Window struct {
	Start time.Time
	End   time.Time
}

// PlanWindow returns the plan's window: from the start date at the start of
// the work day to the end date at the end of the work day. A window whose end
// precedes its start collapses onto its start.
func PlanWindow(p *domain.Plan, clock Clock) Window {
	w := Window{
		Start: clock.At(p.StartDate, clock.Calendar().StartMin),
		End:   clock.At(p.EndDate, clock.Calendar().EndMin),
	}
	if w.End.Before(w.Start) {
		w.End = w.Start
	}
	return w
}

// Days returns the number of calendar days the window touches.
func (w Window) Days(loc *time.Location) int {
	s, e := w.Start.In(loc), w.End.In(loc)
	sd := time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, time.UTC)
	ed := time.Date(e.Year(), e.Month(), e.Day(), 0, 0, 0, 0, time.UTC)
	return int(ed.Sub(sd).Hours()/24) + 1
}

// ScheduledTask is an expanded task with its computed placement.
type ScheduledTask struct {
	ExpandedTask
	Start time.Time
	End   time.Time
	// Fallback marks tasks force-placed at the window start because their
	// predecessor chain could not be resolved.
	Fallback bool
}

// Hours is the task's effective duration with the minimum applied.
func (s ScheduledTask) Hours() float64 {
	return EffectiveHours(s.EstimatedHours)
}

// EffectiveHours applies the quarter-hour floor to an estimate.
func EffectiveHours(estimate float64) float64 {
	return max(estimate, MinTaskHours)
}

// Schedule places every task inside the window. A task is placed once its
// predecessor is placed; it starts at the predecessor's end, at its own anchor
// when it has no predecessor, or at the window start. Tasks still unplaced
// when a pass makes no progress are force-placed at the window start.
// The result is ordered by start, ties keeping input order.
func Schedule(tasks []ExpandedTask, window Window, clock Clock) []ScheduledTask {
	if window.End.Before(window.Start) {
		window.End = window.Start
	}

	placed := make(map[string]*ScheduledTask, len(tasks))
	results := make([]ScheduledTask, len(tasks))
	pending := make([]int, len(tasks))
	for i := range tasks {
		pending[i] = i
	}

	maxPasses := 3 * len(tasks)
	for pass := 0; len(pending) > 0 && pass < maxPasses; pass++ {
		var still []int
		for _, i := range pending {
			t := tasks[i]
			var pred *ScheduledTask
			if t.PrecedingTaskID != "" {
				p, ok := placed[t.PrecedingTaskID]
				if !ok {
					still = append(still, i)
					continue
				}
				pred = p
			}
			results[i] = place(t, pred, window, clock)
			placed[t.ID] = &results[i]
		}
		progressed := len(still) < len(pending)
		pending = still
		if !progressed {
			break
		}
	}

	for _, i := range pending {
		end := window.Start.Add(fallbackDuration)
		if end.After(window.End) {
			end = window.End
		}
		results[i] = ScheduledTask{ExpandedTask: tasks[i], Start: window.Start, End: end, Fallback: true}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Start.Before(results[j].Start)
	})
	return results
}

func place(t ExpandedTask, pred *ScheduledTask, window Window, clock Clock) ScheduledTask {
	start := window.Start
	switch {
	case pred != nil:
		start = pred.End
	case t.ScheduledStart != nil && inWindow(*t.ScheduledStart, window):
		start = *t.ScheduledStart
	}
	if start.Before(window.Start) {
		start = window.Start
	}
	start = clock.NextWorkingInstant(start)

	end := clock.Advance(start, EffectiveHours(t.EstimatedHours))
	if end.After(window.End) {
		end = window.End
	}
	if start.After(window.End) {
		start = window.End
	}
	return ScheduledTask{ExpandedTask: t, Start: start, End: end}
}

func inWindow(t time.Time, w Window) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}
