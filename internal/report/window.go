package report

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used on the time tracker wire and
// in reminder texts.
const DateLayout = "2006-01-02"

// ErrWeekendRun indicates the clock read Saturday or Sunday. The schedule is
// weekdays-only; a weekend invocation is rejected rather than mapped to a
// guessed window.
var ErrWeekendRun = errors.New("report: run triggered on a weekend")

// Window is the [From, To] date range hours are aggregated over, plus the
// weekday code (Monday=1 .. Friday=5) the range was derived from. Immutable
// once resolved.
type Window struct {
	From    time.Time
	To      time.Time
	Weekday int
}

// FromDate returns the lower bound formatted as a calendar date.
func (w Window) FromDate() string { return w.From.Format(DateLayout) }

// ToDate returns the upper bound formatted as a calendar date.
func (w Window) ToDate() string { return w.To.Format(DateLayout) }

// Contains reports whether the given wire-format date falls inside the
// window, bounds inclusive. Comparison is by calendar date; the process
// location never shifts a boundary day in or out. Unparseable dates are out.
func (w Window) Contains(date string) bool {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return false
	}
	return date >= w.FromDate() && date <= w.ToDate()
}

// Days looked back per weekday. Monday reaches into the prior week so
// Friday's entries are still chased; the rest of the week starts at Monday.
var windowDeltas = map[time.Weekday]int{
	time.Monday:    7,
	time.Tuesday:   1,
	time.Wednesday: 2,
	time.Thursday:  3,
	time.Friday:    4,
}

// ResolveWindow derives the reporting window from the current clock reading.
// Pure function of its input; To is always today, truncated to a calendar
// date.
func ResolveWindow(now time.Time) (Window, error) {
	delta, ok := windowDeltas[now.Weekday()]
	if !ok {
		return Window{}, fmt.Errorf("%w: %s", ErrWeekendRun, now.Weekday())
	}

	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return Window{
		From:    to.AddDate(0, 0, -delta),
		To:      to,
		Weekday: int(now.Weekday()),
	}, nil
}
