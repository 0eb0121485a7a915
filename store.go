package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const maxPoolHandles = 10

var acquireTimeout = 5 * time.Second

var (
	errNotInitialized = errors.New("store not initialized")
	errPoolExhausted  = errors.New("store connection pool exhausted")
)

// Store owns the embedded database and hands out short-lived pooled
// connections. One Store lives for the whole process; the render loop and
// the background scheduler share it.
type Store struct {
	db *sql.DB
}

func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("initialize store: %w", err)
		}
	}
	// Pragmas in the DSN are applied to every pooled handle as it is created.
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("initialize store: %w", err)
	}
	db.SetMaxOpenConns(maxPoolHandles)
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize store: %w", err)
	}
	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS feeds (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	url TEXT NOT NULL UNIQUE,
	last_synced_at INTEGER,
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS feed_items (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	feed_id INTEGER NOT NULL,
	title TEXT NOT NULL,
	link TEXT,
	description TEXT,
	published_at INTEGER,
	dedup_key TEXT NOT NULL UNIQUE,
	created_at INTEGER NOT NULL,
	FOREIGN KEY (feed_id) REFERENCES feeds(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_feed_items_feed_id ON feed_items(feed_id);
CREATE INDEX IF NOT EXISTS idx_feed_items_published_at ON feed_items(published_at DESC);

CREATE TABLE IF NOT EXISTS notes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	details TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER
);

CREATE INDEX IF NOT EXISTS idx_notes_title ON notes(title);

CREATE TABLE IF NOT EXISTS bookmarks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	location TEXT NOT NULL UNIQUE,
	created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_bookmarks_name ON bookmarks(name);

CREATE TABLE IF NOT EXISTS logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	level TEXT NOT NULL,
	message TEXT NOT NULL,
	timestamp INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_logs_timestamp ON logs(timestamp DESC);
CREATE INDEX IF NOT EXISTS idx_logs_level ON logs(level);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// acquire leases a pooled connection. The caller owns it exclusively for one
// logical operation and must Close it on every exit path. The wait is
// bounded; callers beyond the pool ceiling get errPoolExhausted instead of
// blocking forever.
func (s *Store) acquire(ctx context.Context) (*sql.Conn, error) {
	if s == nil || s.db == nil {
		return nil, errNotInitialized
	}
	ctx, cancel := context.WithTimeout(ctx, acquireTimeout)
	defer cancel()
	conn, err := s.db.Conn(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, errPoolExhausted
		}
		return nil, err
	}
	return conn, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	db := s.db
	s.db = nil
	return db.Close()
}

func timeToUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UTC().Unix()
}

func unixToTime(v int64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	return time.Unix(v, 0).UTC()
}

func nullUnix(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Unix()
}
