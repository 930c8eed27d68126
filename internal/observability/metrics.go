// Package observability holds the domain-level Prometheus collectors.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	activitiesLogged = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ecoquest",
		Subsystem: "activities",
		Name:      "logged_total",
		Help:      "Number of activities accepted and stored, labeled by activity type.",
	}, []string{"type"})

	validationFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ecoquest",
		Subsystem: "activities",
		Name:      "validation_failures_total",
		Help:      "Number of activity submissions rejected by validation, labeled by activity type.",
	}, []string{"type"})

	achievementsUnlocked = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ecoquest",
		Subsystem: "gamification",
		Name:      "achievements_unlocked_total",
		Help:      "Number of achievement unlocks, labeled by achievement.",
	}, []string{"achievement"})

	carbonLogged = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ecoquest",
		Subsystem: "activities",
		Name:      "carbon_kg_total",
		Help:      "Sum of the carbon footprint of every stored activity, in kg CO2e.",
	})

	lastLoggedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "ecoquest",
		Subsystem: "persistence",
		Name:      "last_activity_logged_timestamp_seconds",
		Help:      "Unix timestamp of the most recently stored activity.",
	})
)

func init() {
	prometheus.MustRegister(activitiesLogged, validationFailures, achievementsUnlocked, carbonLogged, lastLoggedGauge)
}

// RecordActivityLogged counts a stored activity and moves the watermark.
func RecordActivityLogged(activityType string, carbonKg float64, ts time.Time) {
	activitiesLogged.WithLabelValues(activityType).Inc()
	if carbonKg > 0 {
		carbonLogged.Add(carbonKg)
	}
	if !ts.IsZero() {
		lastLoggedGauge.Set(float64(ts.Unix()))
	}
}

// RecordValidationFailure counts a rejected submission.
func RecordValidationFailure(activityType string) {
	validationFailures.WithLabelValues(activityType).Inc()
}

// RecordAchievementUnlocked counts an unlock.
func RecordAchievementUnlocked(achievementID string) {
	achievementsUnlocked.WithLabelValues(achievementID).Inc()
}
