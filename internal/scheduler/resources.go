package scheduler

import (
	"sort"
	"time"

	"github.com/alexanderramin/maintplan/internal/domain"
)

// Segment is one task on an assignee's timeline.
type Segment struct {
	TaskID          string    `json:"task_id"`
	TaskName        string    `json:"task_name"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	Hours           float64   `json:"hours"`
	IsSafetyTask    bool      `json:"is_safety_task"`
	DoubleAllocated bool      `json:"double_allocated"`
}

// DailyLoad is the working time an assignee is booked for on one date.
type DailyLoad struct {
	Date          time.Time `json:"date"`
	Hours         float64   `json:"hours"`
	CapacityHours float64   `json:"capacity_hours"`
}

// ResourceLoad is the utilization of one assignee across the plan.
type ResourceLoad struct {
	UID            string      `json:"uid"`
	Name           string      `json:"name"`
	Segments       []Segment   `json:"segments"`
	Daily          []DailyLoad `json:"daily"`
	AssignedHours  float64     `json:"assigned_hours"`
	CapacityHours  float64     `json:"capacity_hours"`
	UtilizationPct float64     `json:"utilization_pct"`
	Overloaded     bool        `json:"overloaded"`
	DoubleBooked   bool        `json:"double_booked"`
}

// LoadResources aggregates the schedule per assignee against the plan's
// calendar capacity. Results are ordered by name, then uid.
func LoadResources(tasks []ScheduledTask, plan *domain.Plan, window Window, clock Clock) []ResourceLoad {
	capacity := CapacityHours(plan, clock)
	doubled := make(map[string]map[string]bool)
	for _, o := range FindOverlaps(tasks) {
		if doubled[o.UID] == nil {
			doubled[o.UID] = make(map[string]bool)
		}
		doubled[o.UID][o.FirstTask] = true
		doubled[o.UID][o.SecondTask] = true
	}

	groups, uids := groupByAssignee(tasks)
	loads := make([]ResourceLoad, 0, len(uids))
	for _, uid := range uids {
		list := groups[uid]
		rl := ResourceLoad{UID: uid, Name: list[0].name, CapacityHours: capacity}
		for _, a := range list {
			t := a.task
			seg := Segment{
				TaskID:          t.ID,
				TaskName:        t.Name,
				Start:           t.Start,
				End:             t.End,
				Hours:           t.Hours(),
				IsSafetyTask:    t.IsSafetyTask,
				DoubleAllocated: doubled[uid][t.ID],
			}
			rl.Segments = append(rl.Segments, seg)
			rl.AssignedHours += seg.Hours
			rl.DoubleBooked = rl.DoubleBooked || seg.DoubleAllocated
		}
		if capacity > 0 {
			rl.UtilizationPct = rl.AssignedHours / capacity * 100
		}
		rl.Overloaded = rl.AssignedHours > capacity
		rl.Daily = dailyLoad(list, window, clock)
		loads = append(loads, rl)
	}

	sort.SliceStable(loads, func(i, j int) bool {
		if loads[i].Name != loads[j].Name {
			return loads[i].Name < loads[j].Name
		}
		return loads[i].UID < loads[j].UID
	})
	return loads
}

// dailyLoad splits each placement across the days of the window using the
// working time that actually falls on each day.
func dailyLoad(list []assignment, window Window, clock Clock) []DailyLoad {
	loc := clock.Location()
	days := window.Days(loc)
	if days <= 0 {
		return nil
	}
	capacity := clock.NetDailyHours()
	first := clock.midnight(window.Start)
	out := make([]DailyLoad, days)
	for d := range out {
		day := first.AddDate(0, 0, d)
		next := first.AddDate(0, 0, d+1)
		var booked time.Duration
		for _, a := range list {
			from, to := a.task.Start, a.task.End
			if from.Before(day) {
				from = day
			}
			if to.After(next) {
				to = next
			}
			booked += clock.WorkingDuration(from, to)
		}
		out[d] = DailyLoad{Date: day, Hours: booked.Hours(), CapacityHours: capacity}
	}
	return out
}
