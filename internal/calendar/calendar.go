// Package calendar isolates the date arithmetic used by the reporting and
// gamification engines. All functions interpret instants in the location they
// are handed; callers normalise timestamps to the user's zone first.
package calendar

import (
	"fmt"
	"time"
)

// Date is a calendar day without a time component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar day of t in loc. A nil loc keeps t's own location.
func DateOf(t time.Time, loc *time.Location) Date {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// AddDays shifts the date by n days, normalising month and year overflow.
func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 12, 0, 0, 0, time.UTC), nil)
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// StartOfDay returns 00:00:00 of d in loc.
func (d Date) StartOfDay(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, location(loc))
}

// EndOfDay returns the last representable instant of d in loc.
func (d Date) EndOfDay(loc *time.Location) time.Time {
	return d.AddDays(1).StartOfDay(loc).Add(-time.Nanosecond)
}

// Range is an inclusive span of calendar days.
type Range struct {
	First Date
	Last  Date
}

// Contains reports whether day falls inside r, bounds included.
func (r Range) Contains(day Date) bool {
	return !day.Before(r.First) && !r.Last.Before(day)
}

// Days lists every day of r in ascending order.
func (r Range) Days() []Date {
	days := make([]Date, 0, 31)
	for d := r.First; !r.Last.Before(d); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// Bounds returns the first instant of First and the last instant of Last.
func (r Range) Bounds(loc *time.Location) (time.Time, time.Time) {
	return r.First.StartOfDay(loc), r.Last.EndOfDay(loc)
}

// WeekOf returns the Monday-to-Sunday week containing day.
func WeekOf(day Date) Range {
	weekday := int(time.Date(day.Year, day.Month, day.Day, 12, 0, 0, 0, time.UTC).Weekday())
	// time.Weekday counts from Sunday; shift so Monday is 0.
	offset := (weekday + 6) % 7
	first := day.AddDays(-offset)
	return Range{First: first, Last: first.AddDays(6)}
}

// MonthOf returns the first through last day of day's month.
func MonthOf(day Date) Range {
	first := Date{Year: day.Year, Month: day.Month, Day: 1}
	last := DateOf(time.Date(day.Year, day.Month+1, 0, 12, 0, 0, 0, time.UTC), nil)
	return Range{First: first, Last: last}
}

// YearOf returns January 1 through December 31 of day's year.
func YearOf(day Date) Range {
	return Range{
		First: Date{Year: day.Year, Month: time.January, Day: 1},
		Last:  Date{Year: day.Year, Month: time.December, Day: 31},
	}
}

func location(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
