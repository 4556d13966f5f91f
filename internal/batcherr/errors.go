// -----------------------------------------------------------------------
// Engine error taxonomy: every failure BatchManager surfaces to a caller
// is classified into one of a small fixed set of kinds so integrators can
// branch on failure class without string matching.
// -----------------------------------------------------------------------

package batcherr

import "fmt"

// Kind classifies an engine-level error. Per-file handler failures are
// never represented here; they live in OperationOutcome instead.
type Kind string

const (
	KindInvalidInput Kind = "invalid-input"
	KindNotFound     Kind = "not-found"
	KindInvalidState Kind = "invalid-state"
	KindHandlerError Kind = "handler-error"
	KindSystemError  Kind = "system-error"
)

// Error wraps an underlying cause with a Kind and the component that
// raised it, so logs and callers can both classify and locate a failure.
type Error struct {
	Kind      Kind
	Component string
	Err       error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Component, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Component, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	ce, ok := err.(*Error)
	if !ok {
		return false
	}
	return ce.Kind == kind
}

func New(component string, kind Kind, msg string) *Error {
	return &Error{Kind: kind, Component: component, Err: fmt.Errorf("%s", msg)}
}

func Wrap(component string, kind Kind, err error) *Error {
	return &Error{Kind: kind, Component: component, Err: err}
}

func InvalidInput(component, msg string) *Error {
	return New(component, KindInvalidInput, msg)
}

func NotFound(component, msg string) *Error {
	return New(component, KindNotFound, msg)
}

func InvalidState(component, msg string) *Error {
	return New(component, KindInvalidState, msg)
}

func SystemError(component string, err error) *Error {
	return Wrap(component, KindSystemError, err)
}
