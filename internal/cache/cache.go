// Package cache persists accepted candidates in SQLite so repeated runs
// over the same document skip the network.
package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/bibex/bibex/internal/reference"
)

// DB wraps a SQLite-backed candidate cache.
type DB struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS candidates (
			key        TEXT PRIMARY KEY,
			doi        TEXT,
			source     TEXT NOT NULL,
			candidate  TEXT NOT NULL,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_candidates_doi ON candidates(doi);
	`
	_, err := db.Exec(schema)
	return err
}

// Get returns the cached candidate for a dedupe key, if any.
func (d *DB) Get(key string) (*reference.Candidate, bool) {
	var raw string
	err := d.db.QueryRow(`SELECT candidate FROM candidates WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		return nil, false
	}

	var cand reference.Candidate
	if err := json.Unmarshal([]byte(raw), &cand); err != nil {
		return nil, false
	}
	return &cand, true
}

// Put stores an accepted candidate under a dedupe key, replacing any
// earlier row.
func (d *DB) Put(key string, cand reference.Candidate) error {
	raw, err := json.Marshal(cand)
	if err != nil {
		return fmt.Errorf("encoding candidate: %w", err)
	}

	_, err = d.db.Exec(
		`INSERT OR REPLACE INTO candidates (key, doi, source, candidate, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		key, cand.DOI, cand.Source, string(raw), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("storing candidate: %w", err)
	}
	return nil
}

// Count returns the number of cached candidates.
func (d *DB) Count() (int, error) {
	var n int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM candidates`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting candidates: %w", err)
	}
	return n, nil
}
