// Package postgres persists activities, accounts and outbox events in
// PostgreSQL.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/ecoquest/internal/activity"
	"example.com/ecoquest/internal/events"
	"example.com/ecoquest/internal/gamification"
)

// Repository provides Postgres-backed persistence for activities and outbox events.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Append stores the draft and its outbox events in one transaction. The
// table lock serialises writers so the count+1 ID is never handed out twice.
func (r *Repository) Append(ctx context.Context, draft activity.Activity, unlocked []gamification.AchievementProgress) (stored activity.Activity, err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return activity.Activity{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `LOCK TABLE activities IN EXCLUSIVE MODE`); err != nil {
		return activity.Activity{}, fmt.Errorf("lock activities: %w", err)
	}

	var count int64
	if err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM activities`).Scan(&count); err != nil {
		return activity.Activity{}, fmt.Errorf("count activities: %w", err)
	}

	draft.ID = count + 1
	draft.Timestamp = draft.Timestamp.Truncate(time.Microsecond)

	var fields map[string]string
	if draft.Details != nil {
		fields = draft.Details.Fields()
	}
	details, err := json.Marshal(fields)
	if err != nil {
		return activity.Activity{}, err
	}

	const insertActivity = `INSERT INTO activities (activity_id, user_id, activity_type, subtype, details, logged_at, carbon_footprint, plastic_waste, water_usage)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`

	_, err = tx.Exec(ctx, insertActivity,
		draft.ID,
		draft.UserID,
		string(draft.Type),
		draft.Subtype,
		details,
		draft.Timestamp,
		draft.Impact.Carbon,
		draft.Impact.Plastic,
		draft.Impact.Water,
	)
	if err != nil {
		return activity.Activity{}, fmt.Errorf("insert activity: %w", err)
	}

	if err = r.insertOutbox(ctx, tx, draft, events.TypeActivityLogged, "", events.NewActivityLogged(draft)); err != nil {
		return activity.Activity{}, err
	}
	for _, u := range unlocked {
		if err = r.insertOutbox(ctx, tx, draft, events.TypeAchievementUnlocked, u.ID, events.NewAchievementUnlocked(draft, u)); err != nil {
			return activity.Activity{}, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return activity.Activity{}, err
	}
	return draft, nil
}

// insertOutbox records one event. Achievement unlocks are deduplicated per
// user and achievement so a racing writer cannot announce an unlock twice.
func (r *Repository) insertOutbox(ctx context.Context, tx pgx.Tx, a activity.Activity, eventType, achievementID string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	meta, ok := EventCatalog[eventType]
	if !ok {
		return fmt.Errorf("unknown event type: %s", eventType)
	}

	aggregateType, aggregateID := "activity", strconv.FormatInt(a.ID, 10)
	dedupeKey := fmt.Sprintf("%s:%s", aggregateID, eventType)
	if achievementID != "" {
		aggregateType, aggregateID = "achievement", achievementID
		dedupeKey = fmt.Sprintf("%s:%s:%s", a.UserID, achievementID, eventType)
	}

	const stmt = `INSERT INTO outbox (user_id, aggregate_type, aggregate_id, event_type, topic, schema_subject, partition_key, payload, dedupe_key)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        ON CONFLICT (dedupe_key) DO NOTHING`

	_, err = tx.Exec(ctx, stmt,
		a.UserID,
		aggregateType,
		aggregateID,
		eventType,
		meta.Topic,
		meta.SchemaSubject,
		a.UserID,
		body,
		dedupeKey,
	)
	if err != nil {
		return fmt.Errorf("insert outbox %s: %w", eventType, err)
	}
	return nil
}

// ListByUser returns userID's activities in insertion order.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]activity.Activity, error) {
	const query = `SELECT activity_id, user_id, activity_type, subtype, details, logged_at, carbon_footprint, plastic_waste, water_usage
        FROM activities WHERE user_id=$1 ORDER BY activity_id`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]activity.Activity, 0)
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func scanActivity(rows pgx.Rows) (activity.Activity, error) {
	var (
		a       activity.Activity
		rawType string
		fields  map[string]string
	)
	if err := rows.Scan(&a.ID, &a.UserID, &rawType, &a.Subtype, &fields, &a.Timestamp, &a.Impact.Carbon, &a.Impact.Plastic, &a.Impact.Water); err != nil {
		return activity.Activity{}, err
	}

	t, err := activity.ParseType(rawType)
	if err != nil {
		return activity.Activity{}, fmt.Errorf("activity %d: %w", a.ID, err)
	}
	details, err := activity.ParseDetails(t, fields)
	if err != nil {
		return activity.Activity{}, fmt.Errorf("activity %d details: %w", a.ID, err)
	}
	a.Type = t
	a.Details = details
	return a, nil
}

// EventMetadata describes how to route an outbox event.
type EventMetadata struct {
	Topic         string
	SchemaSubject string
}

// EventCatalog routes every event type written by Append.
var EventCatalog = map[string]EventMetadata{
	events.TypeActivityLogged: {
		Topic:         "activity_events",
		SchemaSubject: "activity_events-value",
	},
	events.TypeAchievementUnlocked: {
		Topic:         "achievement_events",
		SchemaSubject: "achievement_events-value",
	},
}
