package gamification

import (
	"time"

	"example.com/ecoquest/internal/activity"
	"example.com/ecoquest/internal/report"
)

// Snapshot is everything the achievements page shows for one user.
type Snapshot struct {
	Points        int                   `json:"points"`
	Level         LevelInfo             `json:"level"`
	Streak        int                   `json:"streak"`
	Achievements  []AchievementProgress `json:"achievements"`
	UnlockedCount int                   `json:"unlocked_count"`
	Suggestions   []Suggestion          `json:"suggestions"`
}

// Compute derives the snapshot from the full, unfiltered activity list.
func Compute(all []activity.Activity, user string, now time.Time) Snapshot {
	return ComputeFor(report.UserActivities(all, user), now)
}

// ComputeFor is Compute for a slice already scoped to one user.
func ComputeFor(userActivities []activity.Activity, now time.Time) Snapshot {
	points := Points(userActivities)
	progress := Progress(userActivities, now)
	return Snapshot{
		Points:        points,
		Level:         LevelFor(points),
		Streak:        Streak(userActivities, now),
		Achievements:  progress,
		UnlockedCount: UnlockedCount(progress),
		Suggestions:   Suggestions(),
	}
}
