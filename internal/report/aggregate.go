package report

import (
	"sort"
	"time"

	"example.com/ecoquest/internal/activity"
	"example.com/ecoquest/internal/calendar"
	"example.com/ecoquest/internal/numeric"
)

// RecentLimit bounds the recent activity list on the dashboard.
const RecentLimit = 5

// UserActivities keeps the activities owned by user, newest first. The sort
// is stable so activities sharing a timestamp stay in insertion order.
func UserActivities(all []activity.Activity, user string) []activity.Activity {
	out := make([]activity.Activity, 0, len(all))
	for _, a := range all {
		if a.UserID == user {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// Recent returns at most RecentLimit of the given newest-first activities.
func Recent(userActivities []activity.Activity) []activity.Activity {
	if len(userActivities) <= RecentLimit {
		return userActivities
	}
	return userActivities[:RecentLimit]
}

// TotalCarbonFootprint sums carbon over every activity, unrounded.
func TotalCarbonFootprint(userActivities []activity.Activity) float64 {
	var total float64
	for _, a := range userActivities {
		total += a.Impact.Carbon
	}
	return total
}

// FilterByPeriod keeps the activities whose timestamp falls inside the period
// window. PeriodAll returns the input unchanged.
func FilterByPeriod(userActivities []activity.Activity, period Period, now time.Time) []activity.Activity {
	window := TimeRange(period, now)
	if window.Unbounded {
		return userActivities
	}
	out := make([]activity.Activity, 0, len(userActivities))
	for _, a := range userActivities {
		if window.Contains(a.Timestamp) {
			out = append(out, a)
		}
	}
	return out
}

// Totals are the period sums, each rounded to two decimals.
type Totals struct {
	CarbonFootprint float64 `json:"carbon_footprint"`
	PlasticWaste    float64 `json:"plastic_waste"`
	WaterUsage      float64 `json:"water_usage"`
}

// PeriodTotals sums the three impact components.
func PeriodTotals(filtered []activity.Activity) Totals {
	var sum activity.Impact
	for _, a := range filtered {
		sum.Carbon += a.Impact.Carbon
		sum.Plastic += a.Impact.Plastic
		sum.Water += a.Impact.Water
	}
	return Totals{
		CarbonFootprint: numeric.Round2(sum.Carbon),
		PlasticWaste:    numeric.Round2(sum.Plastic),
		WaterUsage:      numeric.Round2(sum.Water),
	}
}

// TypeSlice is one wedge of the activity-type breakdown chart.
type TypeSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Fill  string `json:"fill"`
}

var typeColors = map[activity.Type]string{
	activity.TypeTravel:   "#8B5CF6",
	activity.TypePurchase: "#3B82F6",
	activity.TypeEnergy:   "#F59E0B",
}

const fallbackColor = "#9CA3AF"

// TypeBreakdown counts activities per type. Only types that occur are listed,
// in the order they are first encountered; callers must not rely on it.
func TypeBreakdown(filtered []activity.Activity) []TypeSlice {
	out := make([]TypeSlice, 0, len(activity.Types))
	index := make(map[activity.Type]int)
	for _, a := range filtered {
		i, ok := index[a.Type]
		if !ok {
			fill, known := typeColors[a.Type]
			if !known {
				fill = fallbackColor
			}
			i = len(out)
			index[a.Type] = i
			out = append(out, TypeSlice{Name: string(a.Type), Fill: fill})
		}
		out[i].Value++
	}
	return out
}

// TrendPoint is one bar or line point of the carbon trend chart.
type TrendPoint struct {
	Date            string  `json:"date"`
	CarbonFootprint float64 `json:"carbon_footprint"`
}

// CarbonTrend buckets carbon by day (Week, Month) or by month (Year), filling
// every bucket of the period with zero when nothing was logged. An empty
// input yields an empty series for every period, and PeriodAll never has a
// trend.
func CarbonTrend(filtered []activity.Activity, period Period, now time.Time) []TrendPoint {
	if len(filtered) == 0 {
		return []TrendPoint{}
	}
	loc := now.Location()

	switch period {
	case PeriodWeek, PeriodMonth:
		byDay := make(map[calendar.Date]float64)
		for _, a := range filtered {
			byDay[calendar.DateOf(a.Timestamp, loc)] += a.Impact.Carbon
		}
		days := TimeRange(period, now).Days.Days()
		points := make([]TrendPoint, 0, len(days))
		for _, day := range days {
			label := day.String()
			points = append(points, TrendPoint{
				Date:            label[len(label)-5:],
				CarbonFootprint: numeric.Round2(byDay[day]),
			})
		}
		return points
	case PeriodYear:
		year := calendar.DateOf(now, loc).Year
		var byMonth [12]float64
		for _, a := range filtered {
			day := calendar.DateOf(a.Timestamp, loc)
			if day.Year != year {
				continue
			}
			byMonth[day.Month-1] += a.Impact.Carbon
		}
		points := make([]TrendPoint, 0, len(byMonth))
		for i, carbon := range byMonth {
			points = append(points, TrendPoint{
				Date:            time.Month(i + 1).String()[:3],
				CarbonFootprint: numeric.Round2(carbon),
			})
		}
		return points
	default:
		return []TrendPoint{}
	}
}
