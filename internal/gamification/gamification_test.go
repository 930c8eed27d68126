package gamification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/ecoquest/internal/activity"
)

var now = time.Date(2025, time.October, 17, 15, 0, 0, 0, time.UTC)

func logged(user string, t activity.Type, at time.Time, carbon float64) activity.Activity {
	return activity.Activity{UserID: user, Type: t, Timestamp: at, Impact: activity.Impact{Carbon: carbon}}
}

func byID(progress []AchievementProgress) map[string]AchievementProgress {
	out := make(map[string]AchievementProgress, len(progress))
	for _, p := range progress {
		out[p.ID] = p
	}
	return out
}

func TestLevelForEmpty(t *testing.T) {
	require.Equal(t, 0, Points(nil))
	require.Equal(t, LevelInfo{Level: 1, Progress: 0, CurrentXP: 0, NextLevelXP: 10}, LevelFor(0))
}

func TestLevelCurve(t *testing.T) {
	tests := []struct {
		points int
		want   LevelInfo
	}{
		{points: 9, want: LevelInfo{Level: 1, Progress: 90, CurrentXP: 9, NextLevelXP: 10}},
		{points: 10, want: LevelInfo{Level: 2, Progress: 0, CurrentXP: 0, NextLevelXP: 8}},
		{points: 17, want: LevelInfo{Level: 2, Progress: 87.5, CurrentXP: 7, NextLevelXP: 8}},
		{points: 18, want: LevelInfo{Level: 3, Progress: 0, CurrentXP: 0, NextLevelXP: 14}},
		{points: 20, want: LevelInfo{Level: 3, Progress: 14.29, CurrentXP: 2, NextLevelXP: 14}},
		{points: 32, want: LevelInfo{Level: 4, Progress: 0, CurrentXP: 0, NextLevelXP: 26}},
		{points: 58, want: LevelInfo{Level: 5, Progress: 0, CurrentXP: 0, NextLevelXP: 46}},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, LevelFor(tt.points), "points=%d", tt.points)
	}
}

func TestLevelProgressStaysInRange(t *testing.T) {
	for points := 0; points < 2000; points++ {
		info := LevelFor(points)
		require.GreaterOrEqual(t, info.Level, 1)
		require.GreaterOrEqual(t, info.Progress, 0.0)
		require.Less(t, info.Progress, 100.0)
		require.Greater(t, info.NextLevelXP, 0)
	}
}

func TestStreak(t *testing.T) {
	day := func(offset int, hour int) time.Time {
		return time.Date(2025, time.October, 17+offset, hour, 0, 0, 0, time.UTC)
	}
	require.Equal(t, 0, Streak(nil, now))

	acts := []activity.Activity{
		logged("alice", activity.TypeTravel, day(0, 8), 1),
		logged("alice", activity.TypeTravel, day(0, 9), 1),
		logged("alice", activity.TypeTravel, day(-1, 23), 1),
		logged("alice", activity.TypeTravel, day(-2, 0), 1),
		logged("alice", activity.TypeTravel, day(-4, 12), 1),
	}
	require.Equal(t, 3, Streak(acts, now))

	// Nothing today means no streak even with a long run ending yesterday.
	require.Equal(t, 0, Streak(acts[2:], now))
}

func TestStreakAcrossMonthBoundary(t *testing.T) {
	first := time.Date(2025, time.November, 1, 10, 0, 0, 0, time.UTC)
	acts := []activity.Activity{
		logged("alice", activity.TypeEnergy, first, 1),
		logged("alice", activity.TypeEnergy, first.AddDate(0, 0, -1), 1),
		logged("alice", activity.TypeEnergy, first.AddDate(0, 0, -2), 1),
	}
	require.Equal(t, 3, Streak(acts, first))
}

func TestProgressTenTravelActivities(t *testing.T) {
	var acts []activity.Activity
	for i := 0; i < 10; i++ {
		acts = append(acts, logged("alice", activity.TypeTravel, now.AddDate(0, 0, -20-i), 0.21))
	}
	progress := Progress(acts, now)
	require.Len(t, progress, 6)

	travel := byID(progress)["travel_pro"]
	require.Equal(t, 10, travel.Current)
	require.True(t, travel.Unlocked)
	require.Equal(t, 100.0, travel.Progress)

	purchase := byID(progress)["purchase_pro"]
	require.Equal(t, 0, purchase.Current)
	require.False(t, purchase.Unlocked)
}

func TestProgressCatalogOrderAndMetrics(t *testing.T) {
	acts := []activity.Activity{
		logged("alice", activity.TypePurchase, now, 60.9),
		logged("alice", activity.TypeEnergy, now.AddDate(0, 0, -1), 40.5),
	}
	progress := Progress(acts, now)

	ids := make([]string, 0, len(progress))
	for _, p := range progress {
		ids = append(ids, p.ID)
	}
	require.Equal(t, []string{"first_activity", "first_week", "travel_pro", "purchase_pro", "energy_pro", "carbon_cut_100"}, ids)

	got := byID(progress)
	require.Equal(t, 2, got["first_activity"].Current)
	require.Equal(t, 100.0, got["first_activity"].Progress)
	require.Equal(t, 2, got["first_week"].Current)
	require.InDelta(t, 28.571428, got["first_week"].Progress, 1e-5)
	require.Equal(t, 101, got["carbon_cut_100"].Current)
	require.True(t, got["carbon_cut_100"].Unlocked)
	require.Equal(t, 2, UnlockedCount(progress))
}

func TestNewlyUnlocked(t *testing.T) {
	var acts []activity.Activity
	for i := 0; i < 9; i++ {
		acts = append(acts, logged("alice", activity.TypeTravel, now.AddDate(0, 0, -30), 1))
	}
	before := Progress(acts, now)
	after := Progress(append(acts, logged("alice", activity.TypeTravel, now, 1)), now)

	unlocked := NewlyUnlocked(before, after)
	require.Len(t, unlocked, 1)
	require.Equal(t, "travel_pro", unlocked[0].ID)

	require.Empty(t, NewlyUnlocked(after, after))
}

func TestComputeScopesToUser(t *testing.T) {
	acts := []activity.Activity{
		logged("alice", activity.TypeTravel, now, 1),
		logged("bob", activity.TypeTravel, now, 1),
		logged("alice", activity.TypeEnergy, now, 1),
	}
	snap := Compute(acts, "alice", now)
	require.Equal(t, 2, snap.Points)
	require.Equal(t, 1, snap.Streak)
	require.Equal(t, 1, snap.UnlockedCount)
	require.Len(t, snap.Suggestions, 6)
	require.Equal(t, snap, Compute(acts, "alice", now))
}

func TestCatalogIsACopy(t *testing.T) {
	c := Catalog()
	c[0].Goal = 999
	require.Equal(t, 1, Catalog()[0].Goal)
	require.Equal(t, "Use Public Transport", Suggestions()[0].Title)
}
