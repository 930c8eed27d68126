// Package events defines the payloads published for logged activities.
package events

import (
	"time"

	"github.com/google/uuid"

	"example.com/ecoquest/internal/activity"
	"example.com/ecoquest/internal/gamification"
)

// Event types recorded in the outbox.
const (
	TypeActivityLogged      = "activity.logged"
	TypeAchievementUnlocked = "achievement.unlocked"
)

// Version is stamped on every payload.
const Version = "v1"

// ActivityLogged is emitted once per stored activity.
type ActivityLogged struct {
	EventID      string            `json:"event_id"`
	ActivityID   int64             `json:"activity_id"`
	UserID       string            `json:"user_id"`
	ActivityType string            `json:"activity_type"`
	Subtype      string            `json:"subtype"`
	Details      map[string]string `json:"details"`
	Impact       activity.Impact   `json:"impact"`
	LoggedAt     time.Time         `json:"logged_at"`
	Version      string            `json:"version"`
}

// AchievementUnlocked is emitted when logging an activity flips an
// achievement from locked to unlocked.
type AchievementUnlocked struct {
	EventID       string    `json:"event_id"`
	UserID        string    `json:"user_id"`
	AchievementID string    `json:"achievement_id"`
	Name          string    `json:"name"`
	ActivityID    int64     `json:"activity_id"`
	UnlockedAt    time.Time `json:"unlocked_at"`
	Version       string    `json:"version"`
}

// NewActivityLogged builds the payload for a stored activity.
func NewActivityLogged(a activity.Activity) ActivityLogged {
	var details map[string]string
	if a.Details != nil {
		details = a.Details.Fields()
	}
	return ActivityLogged{
		EventID:      uuid.NewString(),
		ActivityID:   a.ID,
		UserID:       a.UserID,
		ActivityType: string(a.Type),
		Subtype:      a.Subtype,
		Details:      details,
		Impact:       a.Impact,
		LoggedAt:     a.Timestamp.UTC(),
		Version:      Version,
	}
}

// NewAchievementUnlocked builds the payload for an unlock caused by a.
func NewAchievementUnlocked(a activity.Activity, p gamification.AchievementProgress) AchievementUnlocked {
	return AchievementUnlocked{
		EventID:       uuid.NewString(),
		UserID:        a.UserID,
		AchievementID: p.ID,
		Name:          p.Name,
		ActivityID:    a.ID,
		UnlockedAt:    a.Timestamp.UTC(),
		Version:       Version,
	}
}
