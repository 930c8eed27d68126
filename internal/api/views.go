package api

import (
	"time"

	"example.com/ecoquest/internal/activity"
	"example.com/ecoquest/internal/equivalency"
	"example.com/ecoquest/internal/gamification"
)

// LogActivityRequest is the payload for POST /v1/activities. Details holds
// the raw form values keyed by field name.
type LogActivityRequest struct {
	Type    string            `json:"activity_type"`
	Subtype string            `json:"subtype"`
	Details map[string]string `json:"details"`
}

// LogActivityResponse returns the stored activity and any achievements it
// unlocked.
type LogActivityResponse struct {
	Activity    ActivityView                       `json:"activity"`
	NewlyEarned []gamification.AchievementProgress `json:"newly_unlocked"`
}

// ActivityView exposes full details about an activity.
type ActivityView struct {
	ActivityID      int64             `json:"activity_id"`
	UserID          string            `json:"user_id"`
	ActivityType    string            `json:"activity_type"`
	Subtype         string            `json:"subtype"`
	Details         map[string]string `json:"details"`
	Timestamp       time.Time         `json:"timestamp"`
	CarbonFootprint float64           `json:"carbon_footprint"`
	PlasticWaste    float64           `json:"plastic_waste"`
	WaterUsage      float64           `json:"water_usage"`
}

// ListActivitiesResponse packages list results.
type ListActivitiesResponse struct {
	Items      []ActivityView `json:"items"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// DashboardResponse is the body of GET /v1/dashboard.
type DashboardResponse struct {
	Recent               []ActivityView         `json:"recent_activities"`
	TotalCarbonFootprint float64                `json:"total_carbon_footprint"`
	Equivalency          equivalency.Output     `json:"equivalency"`
	Points               int                    `json:"points"`
	Level                gamification.LevelInfo `json:"level"`
	Streak               int                    `json:"streak"`
}

// CredentialsRequest is the body of the register and login endpoints.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionResponse carries the bearer token for a signed-in user.
type SessionResponse struct {
	Username  string    `json:"username"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func toActivityView(a activity.Activity) ActivityView {
	view := ActivityView{
		ActivityID:      a.ID,
		UserID:          a.UserID,
		ActivityType:    string(a.Type),
		Subtype:         a.Subtype,
		Details:         map[string]string{},
		Timestamp:       a.Timestamp,
		CarbonFootprint: a.Impact.Carbon,
		PlasticWaste:    a.Impact.Plastic,
		WaterUsage:      a.Impact.Water,
	}
	if a.Details != nil {
		view.Details = a.Details.Fields()
	}
	return view
}

func toActivityViews(acts []activity.Activity) []ActivityView {
	out := make([]ActivityView, 0, len(acts))
	for _, a := range acts {
		out = append(out, toActivityView(a))
	}
	return out
}
