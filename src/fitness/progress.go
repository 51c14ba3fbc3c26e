package fitness

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"

	// DefaultHistoryWindow caps how many recent records are analyzed.
	DefaultHistoryWindow = 30
)

// DateOnly is a calendar day that serializes as "YYYY-MM-DD".
type DateOnly struct{ time.Time }

func (d DateOnly) String() string { return d.Format(dateLayout) }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"`+dateLayout+`"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ParseDate parses a YYYY-MM-DD day in UTC.
func ParseDate(s string) (DateOnly, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return DateOnly{}, InvalidInput("parse date", "date must be YYYY-MM-DD, got %q", s)
	}
	return DateOnly{t}, nil
}

// DaysBetween counts whole calendar days from a to b.
func DaysBetween(a, b DateOnly) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(math.Round(to.Sub(from).Hours() / 24))
}

// ProgressRecord is one measurement day. (UserID, Date) is unique; a second
// record for the same key replaces the first.
type ProgressRecord struct {
	UserID       string             `json:"user_id"`
	Date         DateOnly           `json:"date"`
	Weight       float64            `json:"weight"`
	Measurements map[string]float64 `json:"measurements"`
	Timestamp    time.Time          `json:"timestamp"`
	ImageKey     string             `json:"image_key,omitempty"`
}

// ProgressStore persists records keyed by (user, date).
type ProgressStore interface {
	Put(ctx context.Context, rec ProgressRecord) error
	// Recent returns up to limit records for userID, newest date first.
	Recent(ctx context.Context, userID string, limit int) ([]ProgressRecord, error)
}

type ProgressAnalysis struct {
	Message            string             `json:"message,omitempty"`
	TotalWeightChange  *float64           `json:"total_weight_change,omitempty"`
	DaysTracked        *int               `json:"days_tracked,omitempty"`
	AvgWeeklyChange    *float64           `json:"avg_weekly_change,omitempty"`
	Trend              string             `json:"trend,omitempty"`
	MeasurementChanges map[string]float64 `json:"measurement_changes,omitempty"`
	EntriesCount       int                `json:"entries_count"`
}

const firstEntryMessage = "First entry recorded. Keep tracking!"

// AnalyzeHistory compares the newest record (records[0]) against the oldest
// one in the window (the last element). Records must be newest first.
func AnalyzeHistory(records []ProgressRecord) ProgressAnalysis {
	if len(records) < 2 {
		return ProgressAnalysis{Message: firstEntryMessage, EntriesCount: len(records)}
	}

	current, first := records[0], records[len(records)-1]
	change := current.Weight - first.Weight
	days := DaysBetween(first.Date, current.Date)
	weekly := 0.0
	if days > 0 {
		weekly = change / float64(days) * 7
	}

	trend := "maintaining"
	switch {
	case change > 0:
		trend = "gaining"
	case change < 0:
		trend = "losing"
	}

	var girths map[string]float64
	for name, now := range current.Measurements {
		then, ok := first.Measurements[name]
		if !ok {
			continue
		}
		if girths == nil {
			girths = make(map[string]float64)
		}
		girths[name] = round(now-then, 2)
	}

	total := round(change, 2)
	weekly = round(weekly, 2)
	return ProgressAnalysis{
		TotalWeightChange:  &total,
		DaysTracked:        &days,
		AvgWeeklyChange:    &weekly,
		Trend:              trend,
		MeasurementChanges: girths,
		EntriesCount:       len(records),
	}
}

type HistorySummary struct {
	TotalEntries int    `json:"total_entries"`
	DateRange    string `json:"date_range"`
}

// SummarizeHistory describes the window; fallback is used when it holds
// fewer than two records.
func SummarizeHistory(records []ProgressRecord, fallback DateOnly) HistorySummary {
	s := HistorySummary{TotalEntries: len(records), DateRange: fallback.String()}
	if len(records) > 1 {
		s.DateRange = fmt.Sprintf("%s to %s", records[len(records)-1].Date, records[0].Date)
	}
	return s
}

// ProgressInput is a raw progress submission.
type ProgressInput struct {
	UserID       string
	Date         string
	Weight       float64
	Measurements map[string]float64
	ImageKey     string
}

type ProgressReport struct {
	CurrentEntry   ProgressRecord   `json:"current_entry"`
	Analysis       ProgressAnalysis `json:"analysis"`
	HistorySummary HistorySummary   `json:"history_summary"`
}

// Tracker records progress and analyzes a bounded window of history.
type Tracker struct {
	store  ProgressStore
	window int
	now    func() time.Time
}

func NewTracker(store ProgressStore, window int) *Tracker {
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	return &Tracker{store: store, window: window, now: time.Now}
}

// WithClock replaces the wall clock used for record timestamps.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

// Validate reports whether in would be accepted by Record, without writing.
func (in ProgressInput) Validate() error {
	_, err := in.record(time.Time{})
	return err
}

func (in ProgressInput) record(now time.Time) (ProgressRecord, error) {
	const op = "record progress"
	if strings.TrimSpace(in.UserID) == "" {
		return ProgressRecord{}, InvalidInput(op, "user_id is required")
	}
	date, err := ParseDate(in.Date)
	if err != nil {
		return ProgressRecord{}, err
	}
	if in.Weight <= 0 || math.IsNaN(in.Weight) || math.IsInf(in.Weight, 0) {
		return ProgressRecord{}, InvalidInput(op, "weight must be positive, got %v", in.Weight)
	}
	measurements := make(map[string]float64, len(in.Measurements))
	for name, v := range in.Measurements {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return ProgressRecord{}, InvalidInput(op, "measurement %q must be positive, got %v", name, v)
		}
		measurements[name] = v
	}
	return ProgressRecord{
		UserID:       in.UserID,
		Date:         date,
		Weight:       in.Weight,
		Measurements: measurements,
		Timestamp:    now,
		ImageKey:     in.ImageKey,
	}, nil
}

// Record validates in, stamps it and writes it to the store.
func (t *Tracker) Record(ctx context.Context, in ProgressInput) (ProgressRecord, error) {
	rec, err := in.record(t.now().UTC())
	if err != nil {
		return ProgressRecord{}, err
	}
	if err := t.store.Put(ctx, rec); err != nil {
		return ProgressRecord{}, Upstream("record progress", err)
	}
	return rec, nil
}

// History returns the analysis window for userID, newest first.
func (t *Tracker) History(ctx context.Context, userID string) ([]ProgressRecord, error) {
	records, err := t.store.Recent(ctx, userID, t.window)
	if err != nil {
		return nil, Upstream("load progress history", err)
	}
	return records, nil
}

// Track records in and analyzes the user's recent history including it.
func (t *Tracker) Track(ctx context.Context, in ProgressInput) (ProgressReport, error) {
	rec, err := t.Record(ctx, in)
	if err != nil {
		return ProgressReport{}, err
	}
	return t.Report(ctx, rec)
}

// Report analyzes the history window ending with the stored record rec.
func (t *Tracker) Report(ctx context.Context, rec ProgressRecord) (ProgressReport, error) {
	history, err := t.History(ctx, rec.UserID)
	if err != nil {
		return ProgressReport{}, err
	}
	return ProgressReport{
		CurrentEntry:   rec,
		Analysis:       AnalyzeHistory(history),
		HistorySummary: SummarizeHistory(history, rec.Date),
	}, nil
}
