package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error the core returns to the UI matches exactly one
// of these via errors.Is.
var (
	ErrValidation       = errors.New("validation failed")
	ErrGeneration       = errors.New("recommendation generation failed")
	ErrSpeechGeneration = errors.New("speech generation failed")
	ErrDecode           = errors.New("audio decode failed")
)

// Sentinel errors used by the session engine.
var (
	ErrRequestInFlight = errors.New("a recommendation request is already in flight")
	ErrStaleResponse   = errors.New("response no longer matches the current session")
	ErrNoResults       = errors.New("no recommendations loaded")
	ErrWrongStep       = errors.New("operation not allowed at this step")
	ErrNotFound        = errors.New("not found")
)

// Error carries an error kind together with the operation that failed and
// the underlying cause. Transient marks failures worth retrying (network,
// rate limit, server errors).
type Error struct {
	Kind      error
	Op        string
	Transient bool
	Err       error
}

func (e *Error) Error() string {
	switch {
	case e.Err == nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	case e.Op == "":
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	}
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewError wraps err with the given kind. If err already carries the same
// kind it is returned unchanged.
func NewError(kind error, op string, err error) error {
	var de *Error
	if errors.As(err, &de) && de.Kind == kind {
		return err
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Validationf builds a validation error with a formatted message.
func Validationf(op, format string, args ...any) error {
	return &Error{Kind: ErrValidation, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind sentinel carried by err, or nil when err is not
// one of the core error kinds.
func KindOf(err error) error {
	for _, kind := range []error{ErrValidation, ErrGeneration, ErrSpeechGeneration, ErrDecode} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// IsTransient reports whether err is marked as a transient failure.
func IsTransient(err error) bool {
	var de *Error
	return errors.As(err, &de) && de.Transient
}
