// Package tracker is the entry point to a skis repository. A Tracker owns
// one store connection and runs every operation as a single transaction.
package tracker

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/ALT-F4-LLC/skis/internal/config"
	"github.com/ALT-F4-LLC/skis/internal/db"
)

// Tracker is safe for concurrent use by multiple goroutines.
type Tracker struct {
	mu       sync.Mutex
	conn     *sql.DB
	runner   *db.Runner
	log      *slog.Logger
	cfg      *config.Config
	settings config.Settings
	closed   bool
}

type options struct {
	logger   *slog.Logger
	settings config.Settings
}

// Option configures Open, Init and OpenPath.
type Option func(*options)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSettings overrides config.DefaultSettings.
func WithSettings(s config.Settings) Option {
	return func(o *options) { o.settings = s }
}

func buildOptions(opts []Option) options {
	o := options{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		settings: config.DefaultSettings(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Open locates the repository containing start and opens its store,
// migrating it to the current schema. A .skis directory without a store
// file is not a repository; Open never creates the store.
func Open(ctx context.Context, start string, opts ...Option) (*Tracker, error) {
	cfg, err := config.Find(start)
	if err != nil {
		return nil, err
	}
	ok, err := cfg.Exists()
	if err != nil {
		return nil, fmt.Errorf("checking store: %w", err)
	}
	if !ok {
		return nil, &config.NotARepositoryError{Start: start}
	}
	return open(ctx, cfg.DBPath, cfg, buildOptions(opts))
}

// Init creates a repository in dir and returns it opened. The metadata
// directory is removed again if the store cannot be created.
func Init(ctx context.Context, dir string, opts ...Option) (*Tracker, error) {
	cfg, err := config.Create(dir)
	if err != nil {
		return nil, err
	}

	t, err := open(ctx, cfg.DBPath, cfg, buildOptions(opts))
	if err != nil {
		os.RemoveAll(cfg.Dir)
		return nil, err
	}
	return t, nil
}

// OpenPath opens the store file at dbPath directly, without locating a
// repository. ":memory:" gives a private in-memory store.
func OpenPath(ctx context.Context, dbPath string, opts ...Option) (*Tracker, error) {
	return open(ctx, dbPath, nil, buildOptions(opts))
}

func open(ctx context.Context, dbPath string, cfg *config.Config, o options) (*Tracker, error) {
	if err := o.settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	conn, err := db.Open(dbPath, db.WithBusyTimeout(o.settings.BusyTimeout))
	if err != nil {
		return nil, err
	}

	before, err := db.SchemaVersion(ctx, conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := db.Migrate(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}
	if before < db.CurrentSchemaVersion {
		o.logger.Info("migrated store", "path", dbPath, "from", before, "to", db.CurrentSchemaVersion)
	}
	o.logger.Debug("opened store", "path", dbPath)

	return &Tracker{
		conn: conn,
		runner: &db.Runner{
			DB:         conn,
			MaxElapsed: o.settings.RetryMaxElapsed,
			Logger:     o.logger,
		},
		log:      o.logger,
		cfg:      cfg,
		settings: o.settings,
	}, nil
}

// Config returns the repository locations, or nil for a Tracker opened
// with OpenPath.
func (t *Tracker) Config() *config.Config { return t.cfg }

// Settings returns the settings the Tracker was opened with.
func (t *Tracker) Settings() config.Settings { return t.settings }

// Close releases the store. Later calls return ErrClosed.
func (t *Tracker) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	return t.conn.Close()
}

// SchemaVersion reports the schema version recorded in the store.
func (t *Tracker) SchemaVersion(ctx context.Context) (int, error) {
	return call(ctx, t, "schema version", func(tx *sql.Tx) (int, error) {
		return db.SchemaVersion(ctx, tx)
	})
}

// run executes fn as one unit of work under the Tracker's lock.
func (t *Tracker) run(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}

	start := time.Now()
	err := t.runner.Run(ctx, op, fn)
	if err != nil {
		t.log.Debug("operation failed", "op", op, "duration", time.Since(start), "err", err)
		return err
	}
	t.log.Debug("operation done", "op", op, "duration", time.Since(start))
	return nil
}

func call[T any](ctx context.Context, t *Tracker, op string, fn func(tx *sql.Tx) (T, error)) (T, error) {
	var out T
	err := t.run(ctx, op, func(tx *sql.Tx) error {
		var err error
		out, err = fn(tx)
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
