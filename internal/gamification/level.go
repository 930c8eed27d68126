// Package gamification turns a user's activity history into points, levels,
// streaks and achievement progress.
package gamification

import (
	"example.com/ecoquest/internal/activity"
	"example.com/ecoquest/internal/numeric"
)

const (
	firstLevelXP = 10
	levelGrowth  = 1.8
)

// LevelInfo describes where a user sits on the level curve.
type LevelInfo struct {
	Level       int     `json:"level"`
	Progress    float64 `json:"progress"`
	CurrentXP   int     `json:"current_xp"`
	NextLevelXP int     `json:"next_level_xp"`
}

// Points awards one point per logged activity.
func Points(userActivities []activity.Activity) int {
	return len(userActivities)
}

// LevelFor places points on the level curve. Level 2 needs 10 XP and every
// further threshold is the previous one times 1.8, rounded half to even.
func LevelFor(points int) LevelInfo {
	level := 1
	required := 0
	next := firstLevelXP
	for points >= next {
		level++
		required = next
		grown := numeric.RoundInt(float64(next) * levelGrowth)
		if grown <= next {
			// Thresholds must strictly increase or the loop never ends.
			grown = next + 1
		}
		next = grown
	}

	span := next - required
	var progress float64
	if span > 0 {
		progress = numeric.Round2(float64(points-required) / float64(span) * 100)
	}
	return LevelInfo{
		Level:       level,
		Progress:    progress,
		CurrentXP:   points - required,
		NextLevelXP: span,
	}
}
