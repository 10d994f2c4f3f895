package domain

import "sort"

// MaxBreaks caps how many break windows a work calendar may carry.
const MaxBreaks = 5

const (
	DefaultWorkStartMin = 8 * 60
	DefaultWorkEndMin   = 17 * 60
)

// Break is a non-working interval inside the daily work window, in minutes
// after midnight.
type Break struct {
	Name     string
	StartMin int
	EndMin   int
}

// WorkCalendar defines the working hours of every day in a plan.
type WorkCalendar struct {
	StartMin int
	EndMin   int
	Breaks   []Break
}

// DefaultCalendar returns the 08:00-17:00 calendar with no breaks.
func DefaultCalendar() WorkCalendar {
	return WorkCalendar{StartMin: DefaultWorkStartMin, EndMin: DefaultWorkEndMin}
}

// WithSortedBreaks returns a copy of the calendar whose breaks are ordered by
// start minute.
func (c WorkCalendar) WithSortedBreaks() WorkCalendar {
	breaks := make([]Break, len(c.Breaks))
	copy(breaks, c.Breaks)
	sort.SliceStable(breaks, func(i, j int) bool {
		return breaks[i].StartMin < breaks[j].StartMin
	})
	c.Breaks = breaks
	return c
}

// WindowMinutes is the gross width of the daily work window.
func (c WorkCalendar) WindowMinutes() int {
	if c.EndMin <= c.StartMin {
		return 0
	}
	return c.EndMin - c.StartMin
}

// NetDailyMinutes is the daily window width minus the parts of breaks that
// fall inside it. Overlapping breaks are not double counted.
func (c WorkCalendar) NetDailyMinutes() int {
	width := c.WindowMinutes()
	if width == 0 {
		return 0
	}
	sorted := c.WithSortedBreaks()
	cursor := c.StartMin
	lost := 0
	for _, b := range sorted.Breaks {
		start := max(b.StartMin, cursor)
		end := min(b.EndMin, c.EndMin)
		if end > start {
			lost += end - start
			cursor = end
		}
	}
	return max(width-lost, 0)
}
