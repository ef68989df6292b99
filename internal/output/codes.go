package output

import (
	"errors"
	"fmt"

	"github.com/ALT-F4-LLC/skis/internal/db"
	"github.com/ALT-F4-LLC/skis/internal/tracker"
)

// ErrorCode represents a machine-readable error classification.
type ErrorCode string

// Error code constants.
const (
	ErrGeneral     ErrorCode = "GENERAL_ERROR"
	ErrNotFound    ErrorCode = "NOT_FOUND"
	ErrValidation  ErrorCode = "VALIDATION_ERROR"
	ErrConflict    ErrorCode = "CONFLICT"
	ErrUnavailable ErrorCode = "STORE_UNAVAILABLE"
)

// Exit code constants.
const (
	ExitSuccess     = 0
	ExitGeneral     = 1
	ExitNotFound    = 2
	ExitValidation  = 3
	ExitConflict    = 4
	ExitUnavailable = 5
)

// ExitCodeForError maps an ErrorCode to its corresponding exit code.
func ExitCodeForError(code ErrorCode) int {
	switch code {
	case ErrNotFound:
		return ExitNotFound
	case ErrValidation:
		return ExitValidation
	case ErrConflict:
		return ExitConflict
	case ErrUnavailable:
		return ExitUnavailable
	default:
		return ExitGeneral
	}
}

// Classify picks the ErrorCode for err from the tracker's error kinds.
func Classify(err error) ErrorCode {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, tracker.ErrNotFound), errors.Is(err, tracker.ErrNotARepository):
		return ErrNotFound
	case errors.Is(err, tracker.ErrInvalidValue),
		errors.Is(err, tracker.ErrInvalidColor),
		errors.Is(err, tracker.ErrInvalidInput),
		errors.Is(err, tracker.ErrSelfLink),
		errors.Is(err, tracker.ErrConstraint):
		return ErrValidation
	case errors.Is(err, tracker.ErrInvalidTransition),
		errors.Is(err, tracker.ErrDuplicateLabel),
		errors.Is(err, tracker.ErrDuplicateLink),
		errors.Is(err, tracker.ErrAlreadyInitialized):
		return ErrConflict
	case errors.Is(err, tracker.ErrStoreUnavailable):
		return ErrUnavailable
	default:
		return ErrGeneral
	}
}

// Hint suggests a next step for errors the user can fix with a command.
func Hint(err error) string {
	var nf *db.NotFoundError
	switch {
	case errors.As(err, &nf) && nf.Entity == db.EntityLabel:
		return fmt.Sprintf("create it with: skis label create %q", nf.Key)
	case errors.Is(err, tracker.ErrNotARepository):
		return "run 'skis init' to create one"
	case errors.Is(err, tracker.ErrSchemaTooNew):
		return "upgrade skis to open this repository"
	default:
		return ""
	}
}
