package db

import (
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Sentinel errors for store operations. Typed errors below wrap them so
// callers can match with errors.Is and inspect details with errors.As.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrDuplicateLabel    = errors.New("duplicate label")
	ErrDuplicateLink     = errors.New("duplicate link")
	ErrInvalidInput      = errors.New("invalid input")
	ErrConstraint        = errors.New("constraint violation")
	ErrStoreUnavailable  = errors.New("store unavailable")
	ErrSchemaTooNew      = errors.New("schema version is newer than this build supports")
)

// Entity names the kind of record a NotFoundError refers to.
type Entity string

const (
	EntityIssue   Entity = "issue"
	EntityLabel   Entity = "label"
	EntityComment Entity = "comment"
	EntityLink    Entity = "link"
)

// NotFoundError wraps ErrNotFound with the entity and the id or name that
// was looked up.
type NotFoundError struct {
	Entity Entity
	Key    string
}

func (e *NotFoundError) Error() string {
	switch e.Entity {
	case EntityIssue, EntityComment:
		return fmt.Sprintf("%s #%s not found", e.Entity, e.Key)
	case EntityLabel:
		return fmt.Sprintf("label '%s' not found", e.Key)
	default:
		return fmt.Sprintf("%s %s not found", e.Entity, e.Key)
	}
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func issueNotFound(id int) error {
	return &NotFoundError{Entity: EntityIssue, Key: fmt.Sprint(id)}
}

func labelNotFound(name string) error {
	return &NotFoundError{Entity: EntityLabel, Key: name}
}

func commentNotFound(id int) error {
	return &NotFoundError{Entity: EntityComment, Key: fmt.Sprint(id)}
}

// TransitionError wraps ErrInvalidTransition for a close of a closed issue
// or a reopen of an open one. State is the state the issue is already in.
type TransitionError struct {
	ID    int
	State string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("issue #%d is already %s", e.ID, e.State)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// DuplicateLabelError wraps ErrDuplicateLabel with the existing label name.
type DuplicateLabelError struct {
	Name string
}

func (e *DuplicateLabelError) Error() string {
	return fmt.Sprintf("label '%s' already exists", e.Name)
}

func (e *DuplicateLabelError) Unwrap() error { return ErrDuplicateLabel }

// DuplicateLinkError wraps ErrDuplicateLink with the normalized pair.
type DuplicateLinkError struct {
	Low, High int
}

func (e *DuplicateLinkError) Error() string {
	return fmt.Sprintf("link already exists between issues #%d and #%d", e.Low, e.High)
}

func (e *DuplicateLinkError) Unwrap() error { return ErrDuplicateLink }

// ConstraintError is a schema-level constraint failure that no application
// check caught first.
type ConstraintError struct {
	Err error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("constraint violation: %v", e.Err)
}

func (e *ConstraintError) Unwrap() []error { return []error{ErrConstraint, e.Err} }

// UnavailableError reports a store that is busy, locked or failing I/O.
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("store unavailable: %v", e.Err)
	}
	return fmt.Sprintf("store unavailable during %s: %v", e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() []error { return []error{ErrStoreUnavailable, e.Err} }

// sqliteCode returns the primary SQLite result code carried by err, or 0.
func sqliteCode(err error) int {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() & 0xff
	}
	return 0
}

// IsBusy reports whether err means the store was locked by another
// connection or process.
func IsBusy(err error) bool {
	if err == nil {
		return false
	}
	switch sqliteCode(err) {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}

// IsConstraint reports whether err is a SQLite constraint failure.
func IsConstraint(err error) bool {
	if err == nil {
		return false
	}
	if sqliteCode(err) == sqlite3.SQLITE_CONSTRAINT {
		return true
	}
	return strings.Contains(err.Error(), "constraint failed")
}

// IsUniqueConstraint reports whether err is a UNIQUE or PRIMARY KEY failure.
func IsUniqueConstraint(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "PRIMARY KEY")
}

func isIOFailure(err error) bool {
	switch sqliteCode(err) {
	case sqlite3.SQLITE_IOERR, sqlite3.SQLITE_FULL, sqlite3.SQLITE_CANTOPEN,
		sqlite3.SQLITE_READONLY, sqlite3.SQLITE_PROTOCOL:
		return true
	}
	return false
}

// classify maps raw driver failures onto the error taxonomy. Errors that
// already belong to the taxonomy pass through unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var (
		ue *UnavailableError
		ce *ConstraintError
	)
	if errors.As(err, &ue) || errors.As(err, &ce) {
		return err
	}

	switch {
	case IsBusy(err), isIOFailure(err):
		return &UnavailableError{Err: err}
	case IsConstraint(err):
		return &ConstraintError{Err: err}
	default:
		return err
	}
}
