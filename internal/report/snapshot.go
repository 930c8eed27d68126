package report

import (
	"time"

	"example.com/ecoquest/internal/activity"
)

// Snapshot bundles every aggregate the progress page renders for one period.
type Snapshot struct {
	Period               Period              `json:"period"`
	Window               Window              `json:"-"`
	Activities           []activity.Activity `json:"-"`
	Recent               []activity.Activity `json:"-"`
	TotalCarbonFootprint float64             `json:"total_carbon_footprint"`
	Totals               Totals              `json:"period_totals"`
	Breakdown            []TypeSlice         `json:"activity_type_breakdown"`
	Trend                []TrendPoint        `json:"carbon_trend"`
}

// Compute derives the aggregate snapshot of user's activities for period as
// seen at now.
func Compute(all []activity.Activity, user string, period Period, now time.Time) Snapshot {
	mine := UserActivities(all, user)
	return ComputeFor(mine, period, now)
}

// ComputeFor is Compute for a slice already produced by UserActivities.
func ComputeFor(userActivities []activity.Activity, period Period, now time.Time) Snapshot {
	filtered := FilterByPeriod(userActivities, period, now)
	return Snapshot{
		Period:               period,
		Window:               TimeRange(period, now),
		Activities:           filtered,
		Recent:               Recent(userActivities),
		TotalCarbonFootprint: TotalCarbonFootprint(userActivities),
		Totals:               PeriodTotals(filtered),
		Breakdown:            TypeBreakdown(filtered),
		Trend:                CarbonTrend(filtered, period, now),
	}
}
