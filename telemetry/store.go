// Package telemetry persists applied metric samples to a local SQLite
// database so the sample history survives dashboard restarts and can
// be inspected offline.
package telemetry

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const dirPerm = 0o755

// Sample is one stored metric sample.
type Sample struct {
	Timestamp  time.Time
	Identifier string
	Quotient   float64
	Value      float64
	Total      float64
}

// Store records samples in a SQLite database.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open creates or opens the sample database at path, initializing the
// schema when needed.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("telemetry: empty database path")
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return nil, fmt.Errorf("telemetry: create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open database: %w", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS samples (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            timestamp INTEGER NOT NULL,
            identifier TEXT NOT NULL,
            quotient REAL NOT NULL,
            value REAL,
            total REAL
        );
        CREATE INDEX IF NOT EXISTS samples_identifier_ts
            ON samples (identifier, timestamp)
    `)
	if err != nil {
		return fmt.Errorf("telemetry: initialize schema: %w", err)
	}
	return nil
}

// Record stores one sample.
func (s *Store) Record(ctx context.Context, sample Sample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
        INSERT INTO samples (timestamp, identifier, quotient, value, total)
        VALUES (?, ?, ?, ?, ?)
    `,
		sample.Timestamp.Unix(),
		sample.Identifier,
		sample.Quotient,
		sample.Value,
		sample.Total,
	)
	if err != nil {
		return fmt.Errorf("telemetry: record sample: %w", err)
	}
	return nil
}

// Recent returns the n most recent samples, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
        SELECT timestamp, identifier, quotient, value, total
        FROM samples
        ORDER BY id DESC
        LIMIT ?
    `, n)
	if err != nil {
		return nil, fmt.Errorf("telemetry: query samples: %w", err)
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		var sample Sample
		var ts int64
		if err := rows.Scan(&ts, &sample.Identifier, &sample.Quotient, &sample.Value, &sample.Total); err != nil {
			return nil, fmt.Errorf("telemetry: scan sample: %w", err)
		}
		sample.Timestamp = time.Unix(ts, 0).UTC()
		samples = append(samples, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("telemetry: iterate samples: %w", err)
	}
	return samples, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("telemetry: close database: %w", err)
	}
	return nil
}
