package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/thomasfsr/fitgenius/src/fitness"
)

// PostgresStore keeps progress records in Postgres through a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to dsn and creates the progress table if needed.
// A pool (not a single conn) survives servers that drop idle connections.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}
	// Simple protocol avoids "cached plan must not change result type" after
	// schema changes on poolers with server-side statement caches.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to reach database: %w", err)
	}
	for i, stmt := range splitStatements(postgresSchema) {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to execute statement %d: %w", i+1, err)
		}
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Put(ctx context.Context, rec fitness.ProgressRecord) error {
	row, err := toRow(rec)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO progress_records (user_id, date, weight, measurements, image_key, recorded_at)
		 VALUES (@userID, @date, @weight, @measurements, @imageKey, @recordedAt)
		 ON CONFLICT (user_id, date) DO UPDATE SET
			weight       = EXCLUDED.weight,
			measurements = EXCLUDED.measurements,
			image_key    = EXCLUDED.image_key,
			recorded_at  = EXCLUDED.recorded_at`,
		pgx.NamedArgs{
			"userID":       row.UserID,
			"date":         row.Date.Format(dateLayout),
			"weight":       row.Weight,
			"measurements": string(row.Measurements),
			"imageKey":     row.ImageKey,
			"recordedAt":   row.RecordedAt,
		})
	if err != nil {
		return fmt.Errorf("failed to upsert progress record: %w", err)
	}
	return nil
}

func (s *PostgresStore) Recent(ctx context.Context, userID string, limit int) ([]fitness.ProgressRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT user_id, date, weight, measurements, image_key, recorded_at
		 FROM progress_records
		 WHERE user_id = @userID
		 ORDER BY date DESC
		 LIMIT @limit`,
		pgx.NamedArgs{"userID": userID, "limit": clampLimit(limit)})
	if err != nil {
		return nil, fmt.Errorf("failed to query progress records: %w", err)
	}
	dbRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[progressRow])
	if err != nil {
		return nil, fmt.Errorf("failed to scan progress records: %w", err)
	}
	records := make([]fitness.ProgressRecord, 0, len(dbRows))
	for _, r := range dbRows {
		rec, err := r.record()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *PostgresStore) Close() { s.pool.Close() }
