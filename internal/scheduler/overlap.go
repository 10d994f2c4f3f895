package scheduler

import (
	"sort"
	"time"
)

// Overlap is a pair of tasks that hold the same person at the same time.
type Overlap struct {
	UID        string    `json:"uid"`
	Name       string    `json:"name"`
	FirstTask  string    `json:"first_task"`
	SecondTask string    `json:"second_task"`
	From       time.Time `json:"from"`
	To         time.Time `json:"to"`
}

// assignment is one task held by one person.
type assignment struct {
	uid  string
	name string
	task ScheduledTask
}

// groupByAssignee returns each assignee's tasks ordered by start, ties by end
// then id, keyed by uid. The returned uids are sorted.
func groupByAssignee(tasks []ScheduledTask) (map[string][]assignment, []string) {
	groups := make(map[string][]assignment)
	for _, t := range tasks {
		seen := make(map[string]bool, len(t.AssignedTo))
		for _, a := range t.AssignedTo {
			if a.UID == "" || seen[a.UID] {
				continue
			}
			seen[a.UID] = true
			groups[a.UID] = append(groups[a.UID], assignment{uid: a.UID, name: a.Name, task: t})
		}
	}
	uids := make([]string, 0, len(groups))
	for uid, list := range groups {
		sort.SliceStable(list, func(i, j int) bool {
			a, b := list[i].task, list[j].task
			if !a.Start.Equal(b.Start) {
				return a.Start.Before(b.Start)
			}
			if !a.End.Equal(b.End) {
				return a.End.Before(b.End)
			}
			return a.ID < b.ID
		})
		uids = append(uids, uid)
	}
	sort.Strings(uids)
	return groups, uids
}

// FindOverlaps reports, per assignee, every consecutive pair of tasks (by
// start) whose half-open intervals intersect.
func FindOverlaps(tasks []ScheduledTask) []Overlap {
	groups, uids := groupByAssignee(tasks)
	var out []Overlap
	for _, uid := range uids {
		list := groups[uid]
		for i := 1; i < len(list); i++ {
			prev, cur := list[i-1].task, list[i].task
			if cur.Start.Before(prev.End) && prev.Start.Before(cur.End) {
				to := prev.End
				if cur.End.Before(to) {
					to = cur.End
				}
				out = append(out, Overlap{
					UID:        uid,
					Name:       list[i].name,
					FirstTask:  prev.ID,
					SecondTask: cur.ID,
					From:       cur.Start,
					To:         to,
				})
			}
		}
	}
	return out
}
