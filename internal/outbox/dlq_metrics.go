package outbox

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// dlqOutcome labels what a DLQ pass did with one entry.
type dlqOutcome string

const (
	outcomeRequeued       dlqOutcome = "requeued"
	outcomeQuarantined    dlqOutcome = "quarantined"
	outcomeRetryScheduled dlqOutcome = "retry_scheduled"
)

// Backlog states reported by dlqBacklog.
const (
	backlogWaiting     = "waiting"
	backlogQuarantined = "quarantined"
)

var (
	dlqOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ecoquest",
		Subsystem: "dlq",
		Name:      "entry_outcomes_total",
		Help:      "DLQ entries handled per pass, by outcome.",
	}, []string{"topic", "event_type", "outcome"})

	dlqBacklog = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "ecoquest",
		Subsystem: "dlq",
		Name:      "backlog_entries",
		Help:      "Entries left in outbox_dlq, split into waiting and quarantined.",
	}, []string{"state"})
)

func init() {
	prometheus.MustRegister(dlqOutcomes, dlqBacklog)
}

func recordDLQOutcome(entry dlqEntry, outcome dlqOutcome) {
	dlqOutcomes.WithLabelValues(entry.Topic, entry.EventType, string(outcome)).Inc()
}

// refreshDLQBacklog counts waiting and quarantined rows in one scan. Query
// failures leave the previous values in place.
func refreshDLQBacklog(ctx context.Context, pool *pgxpool.Pool) {
	var waiting, quarantined int
	err := pool.QueryRow(ctx,
		`SELECT COUNT(*) FILTER (WHERE quarantined_at IS NULL),
                COUNT(*) FILTER (WHERE quarantined_at IS NOT NULL)
           FROM outbox_dlq`,
	).Scan(&waiting, &quarantined)
	if err != nil {
		return
	}
	setDLQBacklog(waiting, quarantined)
}

func setDLQBacklog(waiting, quarantined int) {
	dlqBacklog.WithLabelValues(backlogWaiting).Set(float64(waiting))
	dlqBacklog.WithLabelValues(backlogQuarantined).Set(float64(quarantined))
}
