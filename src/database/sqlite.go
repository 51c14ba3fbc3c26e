package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/thomasfsr/fitgenius/src/fitness"
	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

// SQLiteStore keeps progress records in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and applies init.sql.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite serializes writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := executeInitSQL(ctx, db, sqliteSchema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func executeInitSQL(ctx context.Context, db *sql.DB, script string) error {
	for i, stmt := range splitStatements(script) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute statement %d: %w\nStatement: %s", i+1, err, stmt)
		}
	}
	return nil
}

func (s *SQLiteStore) Put(ctx context.Context, rec fitness.ProgressRecord) error {
	row, err := toRow(rec)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO progress_records (user_id, date, weight, measurements, image_key, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, date) DO UPDATE SET
			weight = excluded.weight,
			measurements = excluded.measurements,
			image_key = excluded.image_key,
			recorded_at = excluded.recorded_at;`,
		row.UserID, row.Date.Format(dateLayout), row.Weight, string(row.Measurements),
		row.ImageKey, row.RecordedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to upsert progress record: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Recent(ctx context.Context, userID string, limit int) ([]fitness.ProgressRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, date, weight, measurements, image_key, recorded_at
		FROM progress_records
		WHERE user_id = ?
		ORDER BY date DESC
		LIMIT ?`, userID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query progress records: %w", err)
	}
	defer rows.Close()

	var records []fitness.ProgressRecord
	for rows.Next() {
		var (
			row                    progressRow
			date, recordedAt, meas string
		)
		if err := rows.Scan(&row.UserID, &date, &row.Weight, &meas, &row.ImageKey, &recordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan progress record: %w", err)
		}
		if row.Date, err = time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("bad date %q in progress_records: %w", date, err)
		}
		if row.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAt); err != nil {
			return nil, fmt.Errorf("bad recorded_at %q in progress_records: %w", recordedAt, err)
		}
		row.Measurements = []byte(meas)
		rec, err := row.record()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating progress records: %w", err)
	}
	return records, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
