package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"example.com/ecoquest/internal/activity"
	"example.com/ecoquest/internal/domain"
	"example.com/ecoquest/internal/gamification"
	"example.com/ecoquest/internal/persistence/memory"
	"example.com/ecoquest/internal/report"
)

type reportOutput struct {
	User         string                `json:"user"`
	Today        string                `json:"today"`
	Dashboard    dashboardOutput       `json:"dashboard"`
	Aggregates   report.Snapshot       `json:"aggregates"`
	Gamification gamification.Snapshot `json:"gamification"`
}

type dashboardOutput struct {
	TotalCarbonFootprint float64 `json:"total_carbon_footprint"`
	Equivalency          string  `json:"equivalency,omitempty"`
}

// NewReportCmd creates the report command. It replays a YAML activity file
// through the estimator and prints the aggregate and gamification snapshots
// for one user.
func NewReportCmd(newLogger func(*cobra.Command) zerolog.Logger) *cobra.Command {
	var (
		file     string
		user     string
		period   string
		today    string
		timezone string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarise a user's activities from a YAML file",
		Example: `  ecoquest report --file activities.yaml --user alice --period Week --today 2025-10-17`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger(cmd)

			p, err := report.ParsePeriod(period)
			if err != nil {
				return fmt.Errorf("%w: %q", err, period)
			}
			loc, err := time.LoadLocation(timezone)
			if err != nil {
				return fmt.Errorf("timezone: %w", err)
			}
			now := time.Now().In(loc)
			if today != "" {
				day, err := time.ParseInLocation("2006-01-02", today, loc)
				if err != nil {
					return fmt.Errorf("--today must be YYYY-MM-DD: %w", err)
				}
				now = day.Add(24*time.Hour - time.Nanosecond)
			}

			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()
			doc, err := readActivityFile(f)
			if err != nil {
				return err
			}

			out, err := buildReport(cmd.Context(), doc, user, p, now, loc, logger)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "YAML file with an activities list")
	cmd.Flags().StringVar(&user, "user", "", "user whose activities are reported")
	cmd.Flags().StringVar(&period, "period", string(report.DefaultPeriod), "Week, Month, Year or All")
	cmd.Flags().StringVar(&today, "today", "", "report as of this date (YYYY-MM-DD); defaults to now")
	cmd.Flags().StringVar(&timezone, "timezone", "UTC", "IANA zone used for calendar days")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

// buildReport logs every entry through the domain service in timestamp
// order, so IDs and unlocks follow the same rules as the API.
func buildReport(ctx context.Context, doc activityFile, user string, period report.Period, now time.Time, loc *time.Location, logger zerolog.Logger) (reportOutput, error) {
	entries := make([]activityEntry, len(doc.Activities))
	copy(entries, doc.Activities)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})

	clock := now
	service := domain.NewService(memory.NewRepository(),
		domain.WithClock(func() time.Time { return clock }),
		domain.WithLocation(loc),
		domain.WithLogger(logger),
	)

	for i, entry := range entries {
		clock = entry.Timestamp.In(loc)
		_, unlocked, err := service.LogActivity(ctx, domain.LogActivityInput{
			UserID:  entry.User,
			Type:    entry.Type,
			Subtype: entry.Subtype,
			Fields:  entry.Details,
		})
		if err != nil {
			return reportOutput{}, fmt.Errorf("activity %d (%s): %s", i+1, entry.Timestamp.Format(time.RFC3339), activity.UserMessage(err))
		}
		for _, u := range unlocked {
			logger.Debug().Str("user", entry.User).Str("achievement", u.ID).Msg("achievement unlocked")
		}
	}
	clock = now

	aggregates, err := service.Aggregates(ctx, user, period)
	if err != nil {
		return reportOutput{}, err
	}
	game, err := service.Gamification(ctx, user)
	if err != nil {
		return reportOutput{}, err
	}
	dash, err := service.Dashboard(ctx, user)
	if err != nil {
		return reportOutput{}, err
	}

	return reportOutput{
		User:  user,
		Today: now.Format("2006-01-02"),
		Dashboard: dashboardOutput{
			TotalCarbonFootprint: dash.TotalCarbonFootprint,
			Equivalency:          dash.Equivalency.DisplayText,
		},
		Aggregates:   aggregates,
		Gamification: game,
	}, nil
}
