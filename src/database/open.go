package database

import (
	"context"
	"fmt"

	"github.com/thomasfsr/fitgenius/src/fitness"
)

type Options struct {
	Driver      string // memory, sqlite, postgres or redis
	SQLitePath  string
	PostgresURL string
	RedisURL    string
}

// Open connects the progress store selected by opts.Driver. The returned func
// releases its connections.
func Open(ctx context.Context, opts Options) (fitness.ProgressStore, func(), error) {
	switch opts.Driver {
	case "", "memory":
		return NewMemoryStore(), func() {}, nil
	case "sqlite":
		s, err := OpenSQLite(ctx, opts.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	case "postgres":
		s, err := OpenPostgres(ctx, opts.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case "redis":
		rdb, err := OpenRedis(ctx, opts.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisStore(rdb), func() { rdb.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown progress store %q", opts.Driver)
	}
}
