// Package ledger records every workflow run in a local SQLite database so
// the history of generated drafts, digests and sends can be inspected.
package ledger

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is one recorded workflow invocation.
type Run struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Status     string    `json:"status"`
	Detail     string    `json:"detail,omitempty"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Store wraps the SQLite run ledger.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the ledger at path, ensuring its directory exists.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL plus a busy timeout lets a second invocation wait instead of
	// failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		_ = db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(1)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    status TEXT NOT NULL,
    detail TEXT NOT NULL DEFAULT '',
    error TEXT NOT NULL DEFAULT '',
    started_at TEXT NOT NULL,
    finished_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_started_at ON runs (started_at);
`)
	return err
}

// NewID returns a fresh run ID.
func NewID() string {
	return uuid.NewString()
}

// Record stores r, assigning an ID when it has none, and returns the ID.
func (s *Store) Record(r Run) (string, error) {
	if r.ID == "" {
		r.ID = NewID()
	}
	_, err := s.db.Exec(`INSERT OR REPLACE INTO runs (id, kind, status, detail, error, started_at, finished_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Kind, r.Status, r.Detail, r.Error,
		r.StartedAt.UTC().Format(timeLayout), r.FinishedAt.UTC().Format(timeLayout))
	if err != nil {
		return "", err
	}
	return r.ID, nil
}

// Recent returns up to limit runs, newest first. kind filters when non-empty.
func (s *Store) Recent(kind string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows *sql.Rows
	var err error
	if kind == "" {
		rows, err = s.db.Query(`SELECT id, kind, status, detail, error, started_at, finished_at FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	} else {
		rows, err = s.db.Query(`SELECT id, kind, status, detail, error, started_at, finished_at FROM runs WHERE kind = ? ORDER BY started_at DESC LIMIT ?`, strings.TrimSpace(kind), limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished string
		if err := rows.Scan(&r.ID, &r.Kind, &r.Status, &r.Detail, &r.Error, &started, &finished); err != nil {
			return nil, err
		}
		r.StartedAt, _ = time.Parse(timeLayout, started)
		r.FinishedAt, _ = time.Parse(timeLayout, finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
