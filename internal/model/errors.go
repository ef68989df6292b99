package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidValue is returned when free text does not name a member of
	// a closed enumeration.
	ErrInvalidValue = errors.New("invalid value")

	// ErrInvalidColor is returned for a color that is not six hex digits.
	ErrInvalidColor = errors.New("invalid color")

	// ErrSelfLink is returned when an issue is linked to itself.
	ErrSelfLink = errors.New("cannot link issue to itself")
)

// ParseError reports text that does not match any allowed enum value.
type ParseError struct {
	Kind    string
	Value   string
	Allowed []string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s %q: must be one of %s", e.Kind, e.Value, strings.Join(e.Allowed, ", "))
}

func (e *ParseError) Unwrap() error { return ErrInvalidValue }

// ColorError wraps ErrInvalidColor and carries the rejected value.
type ColorError struct {
	Value string
}

func (e *ColorError) Error() string {
	return fmt.Sprintf("invalid color %q: must be 6 hex characters (e.g. ff0000)", e.Value)
}

func (e *ColorError) Unwrap() error { return ErrInvalidColor }
