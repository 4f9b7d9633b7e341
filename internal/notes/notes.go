// Package notes persists user annotations keyed by the current selection.
//
// Each dataset file gets its own SQLite database next to it. Rows are
// append-only: saving twice for the same (country, category, entity) adds a
// second row rather than overwriting — dedupe is deliberately not applied, so
// the full annotation history stays visible.
package notes

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Note is one stored annotation.
type Note struct {
	ID        int64
	Country   string
	Category  string
	Entity    string
	Text      string
	CreatedAt time.Time
}

// Store is the append-only notes recorder.
type Store struct {
	db   *sql.DB
	path string
}

// PathForDataset derives the notes database path for a dataset file. An empty
// dataset path (fixture mode) keeps the notes in the working directory.
func PathForDataset(datasetPath string) string {
	if datasetPath == "" {
		return "ghgdash-notes.db"
	}
	ext := filepath.Ext(datasetPath)
	return strings.TrimSuffix(datasetPath, ext) + ".notes.db"
}

// Open opens (or creates) a notes store. Pass ":memory:" for tests.
// The busy-timeout pragma makes concurrent appends from a second process wait
// on SQLite's own lock instead of failing.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(filepath.Clean(path)), 0755); err != nil {
			return nil, fmt.Errorf("creating notes directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening notes database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging notes database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	const schema = `CREATE TABLE IF NOT EXISTS notes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		country TEXT NOT NULL,
		category TEXT NOT NULL,
		entity TEXT NOT NULL,
		note TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating notes table: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Append records one annotation for a selection. Always inserts; never
// updates an existing row.
func (s *Store) Append(ctx context.Context, country, category, entity, text string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO notes (country, category, entity, note, created_at) VALUES (?, ?, ?, ?, ?)",
		country, category, entity, text, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("appending note: %w", err)
	}
	return nil
}

// ReadAll returns every stored note, oldest first.
func (s *Store) ReadAll(ctx context.Context) ([]Note, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, country, category, entity, note, created_at FROM notes ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("reading notes: %w", err)
	}
	defer rows.Close()

	var out []Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.Country, &n.Category, &n.Entity, &n.Text, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning note: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
