// Package report derives dashboards and progress charts from a user's
// activity history. Every function is a pure read over the slice it is given.
package report

import (
	"errors"
	"strings"
	"time"

	"example.com/ecoquest/internal/calendar"
)

// Period selects the time window a report covers.
type Period string

const (
	PeriodWeek  Period = "Week"
	PeriodMonth Period = "Month"
	PeriodYear  Period = "Year"
	PeriodAll   Period = "All"
)

// DefaultPeriod is used when the caller does not choose one.
const DefaultPeriod = PeriodMonth

// ErrUnknownPeriod is returned by ParsePeriod for unsupported selectors.
var ErrUnknownPeriod = errors.New("unknown time period")

// ParsePeriod matches Week, Month, Year or All case-insensitively. An empty
// string yields DefaultPeriod.
func ParsePeriod(raw string) (Period, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultPeriod, nil
	}
	for _, p := range []Period{PeriodWeek, PeriodMonth, PeriodYear, PeriodAll} {
		if strings.EqualFold(raw, string(p)) {
			return p, nil
		}
	}
	return "", ErrUnknownPeriod
}

// Window is the inclusive instant range of a period. Unbounded windows
// (PeriodAll) match every instant.
type Window struct {
	Start     time.Time
	End       time.Time
	Days      calendar.Range
	Unbounded bool
}

// Contains reports whether t lies within the window, both ends inclusive.
func (w Window) Contains(t time.Time) bool {
	if w.Unbounded {
		return true
	}
	return !t.Before(w.Start) && !t.After(w.End)
}

// TimeRange resolves period against now. Weeks start on Monday; every bound
// covers whole days in now's location.
func TimeRange(period Period, now time.Time) Window {
	loc := now.Location()
	today := calendar.DateOf(now, loc)

	var days calendar.Range
	switch period {
	case PeriodWeek:
		days = calendar.WeekOf(today)
	case PeriodMonth:
		days = calendar.MonthOf(today)
	case PeriodYear:
		days = calendar.YearOf(today)
	default:
		return Window{Unbounded: true}
	}
	start, end := days.Bounds(loc)
	return Window{Start: start, End: end, Days: days}
}
