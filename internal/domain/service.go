// Package domain orchestrates the activity store and the EcoQuest engines.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"example.com/ecoquest/internal/activity"
	"example.com/ecoquest/internal/equivalency"
	"example.com/ecoquest/internal/gamification"
	"example.com/ecoquest/internal/observability"
	"example.com/ecoquest/internal/report"
)

// Page sizes for SearchActivities.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ErrCursorNotFound is returned when a search cursor no longer points into
// the filtered result set.
var ErrCursorNotFound = errors.New("cursor does not match any activity")

// ActivityRepository captures persistence operations. Append must assign
// IDs as count+1 atomically with the insert.
type ActivityRepository interface {
	Append(ctx context.Context, draft activity.Activity, unlocked []gamification.AchievementProgress) (activity.Activity, error)
	ListByUser(ctx context.Context, userID string) ([]activity.Activity, error)
}

// Cursor models the pagination token for activity searches.
type Cursor struct {
	Timestamp time.Time
	ID        int64
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the wall clock used to stamp activities and anchor
// reporting windows.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithLocation sets the calendar used for days, weeks, months and years.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithLogger overrides the service logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// Service orchestrates activity workflows.
type Service struct {
	repo   ActivityRepository
	clock  func() time.Time
	loc    *time.Location
	logger zerolog.Logger
}

// NewService constructs a Service.
func NewService(repo ActivityRepository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		clock:  time.Now,
		loc:    time.UTC,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) now() time.Time {
	return s.clock().In(s.loc)
}

// LogActivityInput captures the activity form.
type LogActivityInput struct {
	UserID  string
	Type    string
	Subtype string
	Fields  map[string]string
}

// LogActivity validates and stores one activity. Nothing is stored when
// validation fails. The returned slice lists achievements the new activity
// unlocked.
func (s *Service) LogActivity(ctx context.Context, input LogActivityInput) (activity.Activity, []gamification.AchievementProgress, error) {
	t, err := activity.ParseType(input.Type)
	if err != nil {
		observability.RecordValidationFailure("unknown")
		s.logger.Debug().Str("user", input.UserID).Str("type", input.Type).Msg("rejected unknown activity type")
		return activity.Activity{}, nil, err
	}

	now := s.now()
	draft, err := activity.NewDraft(input.UserID, t, input.Subtype, input.Fields, now)
	if err != nil {
		observability.RecordValidationFailure(string(t))
		s.logger.Debug().Err(err).Str("user", input.UserID).Str("type", string(t)).Msg("rejected activity")
		return activity.Activity{}, nil, err
	}

	existing, err := s.repo.ListByUser(ctx, input.UserID)
	if err != nil {
		return activity.Activity{}, nil, err
	}
	existing = report.UserActivities(existing, input.UserID)
	before := gamification.Progress(existing, now)
	after := gamification.Progress(append([]activity.Activity{draft}, existing...), now)
	unlocked := gamification.NewlyUnlocked(before, after)

	stored, err := s.repo.Append(ctx, draft, unlocked)
	if err != nil {
		return activity.Activity{}, nil, err
	}

	observability.RecordActivityLogged(string(stored.Type), stored.Impact.Carbon, stored.Timestamp)
	for _, u := range unlocked {
		observability.RecordAchievementUnlocked(u.ID)
		s.logger.Info().Str("user", stored.UserID).Str("achievement", u.ID).Msg("achievement unlocked")
	}
	s.logger.Info().
		Int64("activity_id", stored.ID).
		Str("user", stored.UserID).
		Str("type", string(stored.Type)).
		Float64("carbon_kg", stored.Impact.Carbon).
		Msg("activity logged")

	return stored, unlocked, nil
}

func (s *Service) userActivities(ctx context.Context, userID string) ([]activity.Activity, error) {
	all, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return report.UserActivities(all, userID), nil
}

// Aggregates computes the reporting snapshot for a period.
func (s *Service) Aggregates(ctx context.Context, userID string, period report.Period) (report.Snapshot, error) {
	acts, err := s.userActivities(ctx, userID)
	if err != nil {
		return report.Snapshot{}, err
	}
	return report.ComputeFor(acts, period, s.now()), nil
}

// Gamification computes points, level, streak and achievement progress.
func (s *Service) Gamification(ctx context.Context, userID string) (gamification.Snapshot, error) {
	acts, err := s.userActivities(ctx, userID)
	if err != nil {
		return gamification.Snapshot{}, err
	}
	return gamification.ComputeFor(acts, s.now()), nil
}

// Dashboard is the landing view for one user.
type Dashboard struct {
	Recent               []activity.Activity
	TotalCarbonFootprint float64
	Equivalency          equivalency.Output
	Points               int
	Level                gamification.LevelInfo
	Streak               int
}

// Dashboard combines the recent activities with headline totals.
func (s *Service) Dashboard(ctx context.Context, userID string) (Dashboard, error) {
	acts, err := s.userActivities(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}

	total := report.TotalCarbonFootprint(acts)
	eq, err := equivalency.Calculate(total)
	if err != nil {
		s.logger.Warn().Err(err).Float64("carbon_kg", total).Msg("equivalency calculation failed")
		eq = equivalency.Output{Empty: true}
	}

	points := gamification.Points(acts)
	return Dashboard{
		Recent:               report.Recent(acts),
		TotalCarbonFootprint: total,
		Equivalency:          eq,
		Points:               points,
		Level:                gamification.LevelFor(points),
		Streak:               gamification.Streak(acts, s.now()),
	}, nil
}

// SearchActivities filters the user's history newest first and pages it.
func (s *Service) SearchActivities(ctx context.Context, userID string, filter activity.Filter, cursor *Cursor, limit int) ([]activity.Activity, *Cursor, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	acts, err := s.userActivities(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	matched := filter.Apply(acts)

	start := 0
	if cursor != nil {
		start = -1
		for i, a := range matched {
			if a.ID == cursor.ID && a.Timestamp.Equal(cursor.Timestamp) {
				start = i + 1
				break
			}
		}
		if start < 0 {
			return nil, nil, ErrCursorNotFound
		}
	}

	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	page := matched[start:end]

	var next *Cursor
	if end < len(matched) {
		last := page[len(page)-1]
		next = &Cursor{Timestamp: last.Timestamp, ID: last.ID}
	}
	return page, next, nil
}
