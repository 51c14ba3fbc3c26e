// Command sampledata loads thirty days of demo progress for one user into the
// configured progress store.
package main

import (
	"context"
	"flag"
	"math"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/thomasfsr/fitgenius/src/config"
	"github.com/thomasfsr/fitgenius/src/database"
	"github.com/thomasfsr/fitgenius/src/fitness"
)

func main() {
	userID := flag.String("user", "demo_user_001", "user id to load progress for")
	days := flag.Int("days", 30, "number of days of history, ending yesterday")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("invalid configuration")
	}
	log := cfg.Logger(os.Stderr)
	if *days < 1 {
		log.Fatal().Int("days", *days).Msg("-days must be at least 1")
	}
	ctx := context.Background()

	store, closeStore, err := database.Open(ctx, database.Options{
		Driver:      cfg.ProgressStore,
		SQLitePath:  cfg.SQLitePath,
		PostgresURL: cfg.DatabaseURL,
		RedisURL:    cfg.RedisURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open progress store")
	}
	defer closeStore()

	tracker := fitness.NewTracker(store, *days)
	var report fitness.ProgressReport
	for _, in := range sampleProgress(*userID, *days, time.Now()) {
		if report, err = tracker.Track(ctx, in); err != nil {
			log.Fatal().Err(err).Str("date", in.Date).Msg("failed to record progress")
		}
	}
	analysis := report.Analysis
	log.Info().
		Str("user", *userID).
		Int("entries", analysis.EntriesCount).
		Str("trend", analysis.Trend).
		Str("store", cfg.ProgressStore).
		Msg("sample data loaded")
}

// sampleProgress covers the days before now, oldest first: weight and waist
// drop 0.1 per day, chest and arms grow slightly.
func sampleProgress(userID string, days int, now time.Time) []fitness.ProgressInput {
	if days < 1 {
		return nil
	}
	out := make([]fitness.ProgressInput, 0, days)
	for i := 0; i < days; i++ {
		date := now.AddDate(0, 0, i-days)
		day := float64(i)
		out = append(out, fitness.ProgressInput{
			UserID: userID,
			Date:   date.Format(time.DateOnly),
			Weight: round1(85 - day*0.1),
			Measurements: map[string]float64{
				"waist": round1(95 - day*0.1),
				"chest": round2(100 + day*0.05),
				"arms":  round2(35 + day*0.02),
			},
		})
	}
	return out
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
