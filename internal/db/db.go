package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultBusyTimeout is how long SQLite waits on a locked store before
// reporting it busy.
const DefaultBusyTimeout = 5 * time.Second

type openOptions struct {
	busyTimeout time.Duration
}

// Option configures Open.
type Option func(*openOptions)

// WithBusyTimeout overrides DefaultBusyTimeout.
func WithBusyTimeout(d time.Duration) Option {
	return func(o *openOptions) {
		if d > 0 {
			o.busyTimeout = d
		}
	}
}

// Open opens or creates the SQLite database at the given path.
// It sets pragmas for WAL mode, foreign key enforcement, and busy timeout.
func Open(dbPath string, opts ...Option) (*sql.DB, error) {
	o := openOptions{busyTimeout: DefaultBusyTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// One connection serializes every unit of work issued through this
	// handle, which is what makes the handle safe to share across goroutines.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		fmt.Sprintf("PRAGMA busy_timeout=%d", o.busyTimeout.Milliseconds()),
	}

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, classify(fmt.Errorf("setting pragma %q: %w", p, err))
		}
	}

	return db, nil
}
