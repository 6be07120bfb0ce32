// Package errs defines the error kinds shared by the curve and bond packages.
//
// Every error returned by the library wraps exactly one of the sentinel kinds
// below, so callers can branch with errors.Is regardless of which package
// produced it.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput covers malformed schedules, unsorted instruments and
	// non-chronological fixings.
	ErrInvalidInput = errors.New("invalid input")
	// ErrMissingCurve is returned when an index level must be projected but no
	// curve is linked to the index.
	ErrMissingCurve = errors.New("missing inflation curve")
	// ErrMissingFixing is returned when a fixing that should have been
	// published is absent from the history.
	ErrMissingFixing = errors.New("missing index fixing")
	// ErrFixingInconsistency is returned when a fixing is re-published with a
	// different value.
	ErrFixingInconsistency = errors.New("inconsistent index fixing")
	// ErrBootstrapConvergence is returned when a curve node cannot be solved.
	ErrBootstrapConvergence = errors.New("bootstrap did not converge")
	// ErrNoRoot is returned when a yield solve has no solution in its bracket.
	ErrNoRoot = errors.New("no root")
)

// InvalidInput wraps ErrInvalidInput with a formatted message.
func InvalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// ConvergenceError reports a root-finder failure together with the state the
// solver reached, for diagnostics.
type ConvergenceError struct {
	Op           string
	Kind         error
	LastEstimate float64
	Iterations   int
	Reason       string
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%s: %v: %s (last estimate %.12g after %d iterations)",
		e.Op, e.Kind, e.Reason, e.LastEstimate, e.Iterations)
}

func (e *ConvergenceError) Unwrap() error {
	return e.Kind
}

// WithKind returns a copy of err re-labelled with op and kind when err is a
// ConvergenceError; other errors are wrapped with kind.
func WithKind(err error, op string, kind error) error {
	var ce *ConvergenceError
	if errors.As(err, &ce) {
		out := *ce
		out.Op = op
		out.Kind = kind
		return &out
	}
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}
