package scheduler

import "sort"

// CriticalSet is the set of task ids on the critical path.
type CriticalSet map[string]bool

// IDs returns the members in lexical order.
func (c CriticalSet) IDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CriticalPath marks the tasks that finish last together with every task they
// transitively depend on. This is the latest-finisher ancestry the timeline
// highlights, not a slack-based CPM longest path: a parallel chain that ends
// earlier is never marked, even if it is long.
func CriticalPath(tasks []ScheduledTask) CriticalSet {
	set := make(CriticalSet)
	if len(tasks) == 0 {
		return set
	}

	byID := make(map[string]ScheduledTask, len(tasks))
	maxEnd := tasks[0].End
	for _, t := range tasks {
		byID[t.ID] = t
		if t.End.After(maxEnd) {
			maxEnd = t.End
		}
	}

	for _, t := range tasks {
		if !t.End.Equal(maxEnd) {
			continue
		}
		for cur := t.ID; cur != "" && !set[cur]; {
			st, ok := byID[cur]
			if !ok {
				break
			}
			set[cur] = true
			cur = st.PrecedingTaskID
		}
	}
	return set
}
