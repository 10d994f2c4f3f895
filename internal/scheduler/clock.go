package scheduler

import (
	"time"

	"github.com/alexanderramin/maintplan/internal/domain"
)

// maxClockSteps bounds Advance so that pathological calendars cannot spin.
// Each working day costs at most two steps per break plus two, so this
// covers several years of a realistic shift pattern.
const maxClockSteps = 20000

// Clock moves instants forward through working time as defined by a daily
// work window and its breaks.
type Clock struct {
	cal domain.WorkCalendar
	loc *time.Location
}

// NewClock builds a Clock for the calendar, interpreting wall-clock minutes in
// loc (UTC when nil).
func NewClock(cal domain.WorkCalendar, loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{cal: cal.WithSortedBreaks(), loc: loc}
}

// Calendar returns the calendar with its breaks sorted.
func (c Clock) Calendar() domain.WorkCalendar {
	return c.cal
}

// Location returns the zone the calendar is evaluated in.
func (c Clock) Location() *time.Location {
	return c.loc
}

// NetDailyHours is the working time available in one day.
func (c Clock) NetDailyHours() float64 {
	return float64(c.cal.NetDailyMinutes()) / 60
}

func (c Clock) midnight(t time.Time) time.Time {
	t = t.In(c.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.loc)
}

func (c Clock) at(day time.Time, minute int) time.Time {
	return day.Add(time.Duration(minute) * time.Minute)
}

// At returns the instant on the given date at the given minute of day.
func (c Clock) At(date time.Time, minute int) time.Time {
	d := date.In(c.loc)
	return c.at(time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, c.loc), minute)
}

// breakAt returns the end of the break containing t, if any.
func (c Clock) breakAt(day, t time.Time) (time.Time, bool) {
	for _, b := range c.cal.Breaks {
		bs, be := c.at(day, b.StartMin), c.at(day, b.EndMin)
		if !t.Before(bs) && t.Before(be) {
			return be, true
		}
	}
	return time.Time{}, false
}

// nextBoundary returns the first break start after t, or the window end.
func (c Clock) nextBoundary(day, t, winEnd time.Time) time.Time {
	for _, b := range c.cal.Breaks {
		bs := c.at(day, b.StartMin)
		if bs.After(t) && bs.Before(winEnd) {
			return bs
		}
	}
	return winEnd
}

// step performs one snap of t toward working time. It reports the snapped
// instant, the boundary that ends the current working stretch, and whether t
// was already inside working time.
func (c Clock) step(t time.Time) (time.Time, time.Time, bool) {
	day := c.midnight(t)
	winStart, winEnd := c.at(day, c.cal.StartMin), c.at(day, c.cal.EndMin)
	switch {
	case t.Before(winStart):
		return winStart, time.Time{}, false
	case !t.Before(winEnd):
		return c.at(day.AddDate(0, 0, 1), c.cal.StartMin), time.Time{}, false
	}
	if end, ok := c.breakAt(day, t); ok {
		return end, time.Time{}, false
	}
	return t, c.nextBoundary(day, t, winEnd), true
}

// Advance returns the instant reached after consuming hours of working time
// from start. Non-positive durations and calendars without a working window
// return start unchanged.
func (c Clock) Advance(start time.Time, hours float64) time.Time {
	if hours <= 0 || c.cal.WindowMinutes() == 0 {
		return start
	}
	remaining := time.Duration(hours * float64(time.Hour))
	cur := start
	for i := 0; remaining > 0 && i < maxClockSteps; i++ {
		next, boundary, working := c.step(cur)
		if !working {
			cur = next
			continue
		}
		avail := boundary.Sub(cur)
		if remaining <= avail {
			return cur.Add(remaining)
		}
		cur = boundary
		remaining -= avail
	}
	return cur
}

// NextWorkingInstant returns the earliest instant at or after t that lies in
// working time.
func (c Clock) NextWorkingInstant(t time.Time) time.Time {
	if c.cal.WindowMinutes() == 0 {
		return t
	}
	cur := t
	for i := 0; i < maxClockSteps; i++ {
		next, _, working := c.step(cur)
		if working {
			return next
		}
		cur = next
	}
	return cur
}

// WorkingDuration returns how much working time lies in [from, to).
func (c Clock) WorkingDuration(from, to time.Time) time.Duration {
	if !to.After(from) || c.cal.WindowMinutes() == 0 {
		return 0
	}
	var total time.Duration
	cur := from
	for i := 0; cur.Before(to) && i < maxClockSteps; i++ {
		next, boundary, working := c.step(cur)
		if !working {
			cur = next
			continue
		}
		if boundary.After(to) {
			boundary = to
		}
		total += boundary.Sub(cur)
		cur = boundary
	}
	return total
}
