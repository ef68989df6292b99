package db

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultRetryMaxElapsed bounds how long a busy unit of work is retried.
const DefaultRetryMaxElapsed = 2 * time.Second

// Querier abstracts *sql.DB and *sql.Tx. Every store function takes one so
// the caller decides the transaction boundary.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner abstracts *sql.Row and *sql.Rows for scanning a single row.
type scanner interface {
	Scan(dest ...any) error
}

// Runner executes units of work, each inside one transaction. A unit that
// fails because the store is busy is rolled back and retried with
// exponential backoff until MaxElapsed passes.
type Runner struct {
	DB         *sql.DB
	MaxElapsed time.Duration
	Logger     *slog.Logger
}

// NewRunner returns a Runner with default retry bounds and a discarding
// logger.
func NewRunner(conn *sql.DB) *Runner {
	return &Runner{
		DB:         conn,
		MaxElapsed: DefaultRetryMaxElapsed,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Run executes fn in a transaction and commits it. The error returned is
// classified: busy or locked stores surface as *UnavailableError and
// schema constraint failures as *ConstraintError.
func (r *Runner) Run(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 20 * time.Millisecond
	b.MaxInterval = 250 * time.Millisecond
	b.MaxElapsedTime = r.MaxElapsed
	if b.MaxElapsedTime <= 0 {
		b.MaxElapsedTime = DefaultRetryMaxElapsed
	}

	attempt := func() error {
		err := runTx(ctx, r.DB, fn)
		if err == nil || IsBusy(err) {
			return err
		}
		return backoff.Permanent(err)
	}
	notify := func(err error, wait time.Duration) {
		r.logger().Warn("store busy, retrying", "op", op, "wait", wait, "err", err)
	}

	err := backoff.RetryNotify(attempt, backoff.WithContext(b, ctx), notify)
	if err == nil {
		return nil
	}
	if IsBusy(err) {
		return &UnavailableError{Op: op, Err: err}
	}
	return classify(err)
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

func runTx(ctx context.Context, conn *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// exists reports whether query, a SELECT EXISTS(...), is true.
func exists(ctx context.Context, q Querier, query string, args ...any) (bool, error) {
	var ok bool
	if err := q.QueryRowContext(ctx, query, args...).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

// requireIssue returns a NotFoundError when no issue row has the given id.
func requireIssue(ctx context.Context, q Querier, id int) error {
	ok, err := exists(ctx, q, `SELECT EXISTS(SELECT 1 FROM issues WHERE id = ?)`, id)
	if err != nil {
		return fmt.Errorf("checking issue existence: %w", err)
	}
	if !ok {
		return issueNotFound(id)
	}
	return nil
}

// makePlaceholders returns a comma-separated string of n "?" placeholders.
func makePlaceholders(n int) string {
	if n == 0 {
		return ""
	}
	b := make([]byte, 0, n*2-1)
	for i := 0; i < n; i++ {
		if i > 0 {
			b = append(b, ',')
		}
		b = append(b, '?')
	}
	return string(b)
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
