package activity

import (
	"strings"
	"time"

	"example.com/ecoquest/internal/calendar"
)

// Filter narrows a user's activity history for the activity log view. Zero
// values disable the corresponding criterion.
type Filter struct {
	Type  Type
	From  time.Time
	To    time.Time
	Query string
}

// IsZero reports whether the filter matches everything.
func (f Filter) IsZero() bool {
	return f.Type == "" && f.From.IsZero() && f.To.IsZero() && strings.TrimSpace(f.Query) == ""
}

// Match applies every configured criterion. To is inclusive through the end
// of its calendar day.
func (f Filter) Match(a Activity) bool {
	if f.Type != "" && a.Type != f.Type {
		return false
	}
	if !f.From.IsZero() && a.Timestamp.Before(f.From) {
		return false
	}
	if !f.To.IsZero() {
		end := calendar.DateOf(f.To, nil).EndOfDay(f.To.Location())
		if a.Timestamp.After(end) {
			return false
		}
	}
	query := strings.ToLower(strings.TrimSpace(f.Query))
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(a.Subtype), query) {
		return true
	}
	if a.Details == nil {
		return false
	}
	for _, value := range a.Details.Fields() {
		if strings.Contains(strings.ToLower(value), query) {
			return true
		}
	}
	return false
}

// Apply returns the activities matching f, preserving order.
func (f Filter) Apply(activities []Activity) []Activity {
	if f.IsZero() {
		return activities
	}
	out := make([]Activity, 0, len(activities))
	for _, a := range activities {
		if f.Match(a) {
			out = append(out, a)
		}
	}
	return out
}
