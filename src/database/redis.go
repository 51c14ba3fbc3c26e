package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/thomasfsr/fitgenius/src/fitness"
)

// RedisStore keeps each record as JSON under progress:rec:<user>:<date> and
// indexes a user's dates in the sorted set progress:idx:<user>, scored by day.
// The families are disjoint and the date suffix is fixed-width, so user ids
// may contain ':'.
type RedisStore struct {
	rdb    redis.UniversalClient
	prefix string
}

func NewRedisStore(rdb redis.UniversalClient) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: "progress"}
}

// OpenRedis parses a redis:// URL and checks the connection.
func OpenRedis(ctx context.Context, url string) (redis.UniversalClient, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

func (s *RedisStore) indexKey(userID string) string {
	return fmt.Sprintf("%s:idx:%s", s.prefix, userID)
}

func (s *RedisStore) recordKey(userID, date string) string {
	return fmt.Sprintf("%s:rec:%s:%s", s.prefix, userID, date)
}

func (s *RedisStore) Put(ctx context.Context, rec fitness.ProgressRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode progress record: %w", err)
	}
	date := rec.Date.String()
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.recordKey(rec.UserID, date), raw, 0)
		pipe.ZAdd(ctx, s.indexKey(rec.UserID), redis.Z{
			Score:  float64(rec.Date.Unix() / 86400),
			Member: date,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store progress record: %w", err)
	}
	return nil
}

func (s *RedisStore) Recent(ctx context.Context, userID string, limit int) ([]fitness.ProgressRecord, error) {
	dates, err := s.rdb.ZRevRange(ctx, s.indexKey(userID), 0, int64(clampLimit(limit)-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read progress index: %w", err)
	}
	if len(dates) == 0 {
		return nil, nil
	}
	keys := make([]string, len(dates))
	for i, d := range dates {
		keys[i] = s.recordKey(userID, d)
	}
	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read progress records: %w", err)
	}

	records := make([]fitness.ProgressRecord, 0, len(values))
	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			// index entry without a value; skip rather than fail the window
			continue
		}
		var rec fitness.ProgressRecord
		if err := json.Unmarshal([]byte(str), &rec); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", keys[i], err)
		}
		records = append(records, rec)
	}
	return records, nil
}
