// Package database implements fitness.ProgressStore on SQLite, Postgres,
// Redis and process memory.
package database

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/thomasfsr/fitgenius/src/fitness"
)

// DefaultLimit mirrors the history window used by the progress tracker.
const DefaultLimit = fitness.DefaultHistoryWindow

//go:embed init.sql
var sqliteSchema string

//go:embed postgres.sql
var postgresSchema string

// progressRow is the relational shape of a fitness.ProgressRecord.
type progressRow struct {
	UserID       string    `db:"user_id"`
	Date         time.Time `db:"date"`
	Weight       float64   `db:"weight"`
	Measurements []byte    `db:"measurements"`
	ImageKey     string    `db:"image_key"`
	RecordedAt   time.Time `db:"recorded_at"`
}

func toRow(rec fitness.ProgressRecord) (progressRow, error) {
	m := rec.Measurements
	if m == nil {
		m = map[string]float64{}
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return progressRow{}, fmt.Errorf("failed to encode measurements: %w", err)
	}
	return progressRow{
		UserID:       rec.UserID,
		Date:         rec.Date.Time,
		Weight:       rec.Weight,
		Measurements: raw,
		ImageKey:     rec.ImageKey,
		RecordedAt:   rec.Timestamp.UTC(),
	}, nil
}

func (r progressRow) record() (fitness.ProgressRecord, error) {
	m := map[string]float64{}
	if len(r.Measurements) > 0 {
		if err := json.Unmarshal(r.Measurements, &m); err != nil {
			return fitness.ProgressRecord{}, fmt.Errorf("failed to decode measurements: %w", err)
		}
	}
	y, mo, d := r.Date.Date()
	return fitness.ProgressRecord{
		UserID:       r.UserID,
		Date:         fitness.DateOnly{Time: time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)},
		Weight:       r.Weight,
		Measurements: m,
		Timestamp:    r.RecordedAt.UTC(),
		ImageKey:     r.ImageKey,
	}, nil
}

// splitStatements breaks a schema script on ';' and drops blanks.
func splitStatements(script string) []string {
	var stmts []string
	for _, stmt := range strings.Split(script, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
