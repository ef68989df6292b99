package tracker

import (
	"errors"

	"github.com/ALT-F4-LLC/skis/internal/config"
	"github.com/ALT-F4-LLC/skis/internal/db"
	"github.com/ALT-F4-LLC/skis/internal/model"
)

// ErrClosed is returned by operations on a closed Tracker.
var ErrClosed = errors.New("tracker is closed")

// Sentinels for errors.Is, one per failure kind.
var (
	ErrNotARepository     = config.ErrNotARepository
	ErrAlreadyInitialized = config.ErrAlreadyInitialized
	ErrNotFound           = db.ErrNotFound
	ErrInvalidTransition  = db.ErrInvalidTransition
	ErrDuplicateLabel     = db.ErrDuplicateLabel
	ErrDuplicateLink      = db.ErrDuplicateLink
	ErrInvalidInput       = db.ErrInvalidInput
	ErrConstraint         = db.ErrConstraint
	ErrStoreUnavailable   = db.ErrStoreUnavailable
	ErrSchemaTooNew       = db.ErrSchemaTooNew
	ErrInvalidColor       = model.ErrInvalidColor
	ErrInvalidValue       = model.ErrInvalidValue
	ErrSelfLink           = model.ErrSelfLink
)
