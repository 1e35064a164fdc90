package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonboulle/clockwork"
	_ "modernc.org/sqlite"

	"github.com/vertextoedge/vidfetch/internal/port"
)

// Store implements port.HistoryRepository using SQLite
type Store struct {
	db    *sql.DB
	clock clockwork.Clock
}

// Ensure Store implements port.HistoryRepository
var _ port.HistoryRepository = (*Store)(nil)

// Option customizes a Store
type Option func(*Store)

// WithClock sets the clock used for retention pruning
func WithClock(clock clockwork.Clock) Option {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// Open opens a connection to the SQLite database, creating its directory if needed
func Open(dbPath string, opts ...Option) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Open database with WAL mode and busy timeout
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	store := &Store{db: db, clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(store)
	}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping checks database connectivity
func (s *Store) Ping() error {
	return s.db.Ping()
}

// migrate creates or updates the database schema
func (s *Store) migrate() error {
	migrations := []string{
		// Timestamps are unix nanoseconds
		`CREATE TABLE IF NOT EXISTS history (
			id TEXT PRIMARY KEY,
			url TEXT NOT NULL,
			dest_dir TEXT NOT NULL,
			final_path TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			bytes_written INTEGER NOT NULL DEFAULT 0,
			total_bytes INTEGER NOT NULL DEFAULT -1,
			error TEXT NOT NULL DEFAULT '',
			started_at INTEGER NOT NULL,
			finished_at INTEGER NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_history_finished_at ON history(finished_at)`,
		`CREATE INDEX IF NOT EXISTS idx_history_status ON history(status)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, migration)
		}
	}

	return nil
}
