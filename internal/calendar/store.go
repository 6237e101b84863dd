package calendar

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store is a local SQLite calendar. It is the native event sink.
type Store struct {
	db *sql.DB
}

// StoredEvent is an event row.
type StoredEvent struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	CreatedAt time.Time `json:"created_at"`
}

// OpenStore opens or creates the calendar database at path. Use ":memory:"
// for a throwaway calendar.
func OpenStore(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create calendar directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open calendar: %w", err)
	}
	// Pragmas are per connection; a single connection keeps them consistent.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate calendar: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			starts_at TEXT NOT NULL,
			ends_at TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_starts_at ON events(starts_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SetReadOnly toggles SQLite's query_only mode.
func (s *Store) SetReadOnly(ctx context.Context, readOnly bool) error {
	v := "OFF"
	if readOnly {
		v = "ON"
	}
	_, err := s.db.ExecContext(ctx, "PRAGMA query_only = "+v)
	return err
}

// Writable implements Writer.
func (s *Store) Writable(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return err
	}
	var queryOnly int
	if err := s.db.QueryRowContext(ctx, "PRAGMA query_only").Scan(&queryOnly); err != nil {
		return err
	}
	if queryOnly != 0 {
		return fmt.Errorf("calendar database is read-only")
	}
	return nil
}

// CreateEvent implements Writer.
func (s *Store) CreateEvent(ctx context.Context, title string, start, end time.Time) (string, error) {
	if end.Before(start) {
		return "", fmt.Errorf("event ends before it starts: %s > %s", start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (id, title, starts_at, ends_at, created_at) VALUES (?, ?, ?, ?, ?)`,
		id,
		title,
		start.Format(time.RFC3339),
		end.Format(time.RFC3339),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// Events lists stored events ordered by start time.
func (s *Store) Events(ctx context.Context) ([]StoredEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, starts_at, ends_at, created_at FROM events ORDER BY starts_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StoredEvent
	for rows.Next() {
		var ev StoredEvent
		var start, end, created string
		if err := rows.Scan(&ev.ID, &ev.Title, &start, &end, &created); err != nil {
			return nil, err
		}
		if ev.Start, err = time.Parse(time.RFC3339, start); err != nil {
			return nil, err
		}
		if ev.End, err = time.Parse(time.RFC3339, end); err != nil {
			return nil, err
		}
		if ev.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
