package gamification

import (
	"math"
	"time"

	"example.com/ecoquest/internal/activity"
	"example.com/ecoquest/internal/calendar"
)

// Metric names the measurement an achievement tracks.
type Metric int

const (
	MetricActivityCount Metric = iota
	MetricStreakDays
	MetricTypeCount
	MetricCarbonTotal
)

// Achievement is a static goal definition.
type Achievement struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	Category    string        `json:"category"`
	Goal        int           `json:"goal"`
	Metric      Metric        `json:"-"`
	Type        activity.Type `json:"-"`
}

// Achievement categories.
const (
	CategoryGettingStarted  = "Getting Started"
	CategoryConsistency     = "Consistency"
	CategoryImpactReduction = "Impact Reduction"
	CategoryMastery         = "Activity Mastery"
)

var catalog = []Achievement{
	{
		ID:          "first_activity",
		Name:        "First Step",
		Description: "Log your very first activity.",
		Icon:        "footprints",
		Category:    CategoryGettingStarted,
		Goal:        1,
		Metric:      MetricActivityCount,
	},
	{
		ID:          "first_week",
		Name:        "Consistent Challenger",
		Description: "Log an activity every day for 7 days.",
		Icon:        "calendar-days",
		Category:    CategoryConsistency,
		Goal:        7,
		Metric:      MetricStreakDays,
	},
	{
		ID:          "travel_pro",
		Name:        "Eco-Traveler",
		Description: "Log 10 travel activities.",
		Icon:        "car",
		Category:    CategoryMastery,
		Goal:        10,
		Metric:      MetricTypeCount,
		Type:        activity.TypeTravel,
	},
	{
		ID:          "purchase_pro",
		Name:        "Conscious Consumer",
		Description: "Log 10 purchase activities.",
		Icon:        "shopping-cart",
		Category:    CategoryMastery,
		Goal:        10,
		Metric:      MetricTypeCount,
		Type:        activity.TypePurchase,
	},
	{
		ID:          "energy_pro",
		Name:        "Energy Saver",
		Description: "Log 10 energy activities.",
		Icon:        "bolt",
		Category:    CategoryMastery,
		Goal:        10,
		Metric:      MetricTypeCount,
		Type:        activity.TypeEnergy,
	},
	{
		ID:          "carbon_cut_100",
		Name:        "Carbon Cutter",
		Description: "Reduce your carbon footprint by 100 kg.",
		Icon:        "sparkles",
		Category:    CategoryImpactReduction,
		Goal:        100,
		Metric:      MetricCarbonTotal,
	},
}

// Catalog returns a copy of the achievement definitions in display order.
func Catalog() []Achievement {
	out := make([]Achievement, len(catalog))
	copy(out, catalog)
	return out
}

// AchievementProgress is an achievement with the user's measured progress.
type AchievementProgress struct {
	Achievement
	Current  int     `json:"current"`
	Progress float64 `json:"progress"`
	Unlocked bool    `json:"unlocked"`
}

// Streak counts consecutive calendar days, ending today, on which at least
// one activity was logged. Days are taken in now's location.
func Streak(userActivities []activity.Activity, now time.Time) int {
	loc := now.Location()
	logged := make(map[calendar.Date]struct{}, len(userActivities))
	for _, a := range userActivities {
		logged[calendar.DateOf(a.Timestamp, loc)] = struct{}{}
	}

	streak := 0
	for day := calendar.DateOf(now, loc); ; day = day.AddDays(-1) {
		if _, ok := logged[day]; !ok {
			return streak
		}
		streak++
	}
}

type tally struct {
	count  int
	streak int
	byType map[activity.Type]int
	carbon float64
}

func (t tally) current(a Achievement) int {
	switch a.Metric {
	case MetricActivityCount:
		return t.count
	case MetricStreakDays:
		return t.streak
	case MetricTypeCount:
		return t.byType[a.Type]
	case MetricCarbonTotal:
		return int(math.Floor(t.carbon))
	default:
		return 0
	}
}

// Progress measures every catalog achievement against userActivities.
func Progress(userActivities []activity.Activity, now time.Time) []AchievementProgress {
	t := tally{
		count:  len(userActivities),
		streak: Streak(userActivities, now),
		byType: make(map[activity.Type]int),
	}
	for _, a := range userActivities {
		t.byType[a.Type]++
		t.carbon += a.Impact.Carbon
	}

	out := make([]AchievementProgress, 0, len(catalog))
	for _, a := range catalog {
		current := t.current(a)
		out = append(out, AchievementProgress{
			Achievement: a,
			Current:     current,
			Progress:    math.Min(float64(current)/float64(a.Goal)*100, 100),
			Unlocked:    current >= a.Goal,
		})
	}
	return out
}

// UnlockedCount counts unlocked entries.
func UnlockedCount(progress []AchievementProgress) int {
	n := 0
	for _, p := range progress {
		if p.Unlocked {
			n++
		}
	}
	return n
}

// NewlyUnlocked lists achievements unlocked in after but not in before.
func NewlyUnlocked(before, after []AchievementProgress) []AchievementProgress {
	was := make(map[string]bool, len(before))
	for _, p := range before {
		was[p.ID] = p.Unlocked
	}
	var out []AchievementProgress
	for _, p := range after {
		if p.Unlocked && !was[p.ID] {
			out = append(out, p)
		}
	}
	return out
}
