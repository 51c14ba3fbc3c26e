package fitness

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore overwrites by (user, date) like the real stores.
type fakeStore struct {
	mu      sync.Mutex
	records map[string]ProgressRecord
	err     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]ProgressRecord)}
}

func (s *fakeStore) Put(_ context.Context, rec ProgressRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.records[rec.UserID+"|"+rec.Date.String()] = rec
	return nil
}

func (s *fakeStore) Recent(_ context.Context, userID string, limit int) ([]ProgressRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var out []ProgressRecord
	for _, r := range s.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b ProgressRecord) int { return b.Date.Compare(a.Date.Time) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func mustDate(t *testing.T, s string) DateOnly {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestAnalyzeHistory_SingleRecord(t *testing.T) {
	got := AnalyzeHistory([]ProgressRecord{{UserID: "u", Date: mustDate(t, "2024-03-01"), Weight: 85}})
	assert.Equal(t, 1, got.EntriesCount)
	assert.Nil(t, got.TotalWeightChange)
	assert.Equal(t, firstEntryMessage, got.Message)

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "total_weight_change")
}

func TestAnalyzeHistory_Empty(t *testing.T) {
	assert.Equal(t, 0, AnalyzeHistory(nil).EntriesCount)
}

func TestAnalyzeHistory_Losing(t *testing.T) {
	records := []ProgressRecord{
		{Date: mustDate(t, "2024-03-29"), Weight: 81, Measurements: map[string]float64{"waist": 91, "chest": 101}},
		{Date: mustDate(t, "2024-03-01"), Weight: 85, Measurements: map[string]float64{"waist": 95}},
	}
	got := AnalyzeHistory(records)

	require.NotNil(t, got.TotalWeightChange)
	assert.Equal(t, -4.0, *got.TotalWeightChange)
	assert.Equal(t, 28, *got.DaysTracked)
	assert.Equal(t, -1.0, *got.AvgWeeklyChange)
	assert.Equal(t, "losing", got.Trend)
	assert.Equal(t, 2, got.EntriesCount)
	assert.Equal(t, map[string]float64{"waist": -4}, got.MeasurementChanges)
}

func TestAnalyzeHistory_Trends(t *testing.T) {
	cases := []struct {
		name    string
		newest  float64
		oldest  float64
		trend   string
		newDate string
		weekly  float64
	}{
		{"gaining", 82, 80, "gaining", "2024-01-15", 1.0},
		{"maintaining", 80, 80, "maintaining", "2024-01-15", 0},
		{"same day", 79, 80, "losing", "2024-01-01", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := AnalyzeHistory([]ProgressRecord{
				{Date: mustDate(t, tc.newDate), Weight: tc.newest},
				{Date: mustDate(t, "2024-01-08"), Weight: 81},
				{Date: mustDate(t, "2024-01-01"), Weight: tc.oldest},
			})
			assert.Equal(t, tc.trend, got.Trend)
			assert.InDelta(t, tc.weekly, *got.AvgWeeklyChange, 0.001)
			assert.Equal(t, 3, got.EntriesCount)
		})
	}
}

func TestSummarizeHistory(t *testing.T) {
	d := mustDate(t, "2024-03-29")
	assert.Equal(t, "2024-03-29", SummarizeHistory(nil, d).DateRange)

	s := SummarizeHistory([]ProgressRecord{{Date: d}, {Date: mustDate(t, "2024-03-01")}}, d)
	assert.Equal(t, 2, s.TotalEntries)
	assert.Equal(t, "2024-03-01 to 2024-03-29", s.DateRange)
}

func TestDateOnlyJSON(t *testing.T) {
	var d DateOnly
	require.NoError(t, json.Unmarshal([]byte(`"2024-02-29"`), &d))
	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-02-29"`, string(raw))

	require.Error(t, json.Unmarshal([]byte(`"29/02/2024"`), &d))
}

func TestTracker_RecordIsIdempotentPerDate(t *testing.T) {
	store := newFakeStore()
	clock := time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)
	tr := NewTracker(store, 0).WithClock(func() time.Time { return clock })
	in := ProgressInput{UserID: "u1", Date: "2024-03-01", Weight: 83, Measurements: map[string]float64{"waist": 90}}

	rec, err := tr.Record(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, clock, rec.Timestamp)

	_, err = tr.Record(context.Background(), in)
	require.NoError(t, err)

	history, err := tr.History(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestTracker_Track(t *testing.T) {
	store := newFakeStore()
	tr := NewTracker(store, 30)
	ctx := context.Background()

	first, err := tr.Track(ctx, ProgressInput{UserID: "u1", Date: "2024-03-01", Weight: 85})
	require.NoError(t, err)
	assert.Equal(t, firstEntryMessage, first.Analysis.Message)
	assert.Equal(t, "2024-03-01", first.HistorySummary.DateRange)

	report, err := tr.Track(ctx, ProgressInput{UserID: "u1", Date: "2024-03-29", Weight: 81})
	require.NoError(t, err)
	assert.Equal(t, "losing", report.Analysis.Trend)
	assert.Equal(t, -1.0, *report.Analysis.AvgWeeklyChange)
	assert.Equal(t, "2024-03-01 to 2024-03-29", report.HistorySummary.DateRange)
	assert.Equal(t, 81.0, report.CurrentEntry.Weight)
}

func TestTracker_WindowCapsHistory(t *testing.T) {
	store := newFakeStore()
	tr := NewTracker(store, 3)
	ctx := context.Background()
	for i := range 5 {
		date := time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		_, err := tr.Record(ctx, ProgressInput{UserID: "u", Date: date, Weight: 90 - float64(i)})
		require.NoError(t, err)
	}
	history, err := tr.History(ctx, "u")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "2024-01-05", history[0].Date.String())
	assert.Equal(t, "2024-01-03", history[2].Date.String())
}

func TestTracker_InvalidInput(t *testing.T) {
	tr := NewTracker(newFakeStore(), 30)
	cases := []ProgressInput{
		{UserID: "", Date: "2024-03-01", Weight: 80},
		{UserID: "u", Date: "03/01/2024", Weight: 80},
		{UserID: "u", Date: "2024-03-01", Weight: 0},
		{UserID: "u", Date: "2024-03-01", Weight: 80, Measurements: map[string]float64{"waist": -1}},
	}
	for _, in := range cases {
		require.ErrorIs(t, in.Validate(), ErrInvalidInput, "%+v", in)
		_, err := tr.Record(context.Background(), in)
		require.ErrorIs(t, err, ErrInvalidInput, "%+v", in)
	}
	assert.NoError(t, ProgressInput{UserID: "u", Date: "2024-03-01", Weight: 80}.Validate())
}

func TestTracker_StoreFailureIsUpstream(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("connection refused")
	tr := NewTracker(store, 30)

	_, err := tr.Track(context.Background(), ProgressInput{UserID: "u", Date: "2024-03-01", Weight: 80})
	require.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "connection refused")
}
