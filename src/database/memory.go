package database

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/thomasfsr/fitgenius/src/fitness"
)

type memKey struct {
	user string
	date string
}

// MemoryStore is a process-local store for demos and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[memKey]fitness.ProgressRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[memKey]fitness.ProgressRecord)}
}

func (s *MemoryStore) Put(_ context.Context, rec fitness.ProgressRecord) error {
	rec.Measurements = maps.Clone(rec.Measurements)
	s.mu.Lock()
	s.records[memKey{rec.UserID, rec.Date.String()}] = rec
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Recent(_ context.Context, userID string, limit int) ([]fitness.ProgressRecord, error) {
	s.mu.RLock()
	var out []fitness.ProgressRecord
	for k, rec := range s.records {
		if k.user == userID {
			rec.Measurements = maps.Clone(rec.Measurements)
			out = append(out, rec)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b fitness.ProgressRecord) int {
		return b.Date.Compare(a.Date.Time)
	})
	if limit = clampLimit(limit); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Len reports how many records are stored.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
