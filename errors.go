package qseries

import (
	"errors"
	"fmt"
)

// ============================================================
// Errors
// ============================================================

// Sentinel errors. Every failure returned by this package wraps exactly one
// of them, so callers can branch with errors.Is.
var (
	// ErrNotInvertible: the series has no multiplicative inverse in the
	// requested form (zero, zero constant term, negative-exponent term, or an
	// exact non-constant polynomial).
	ErrNotInvertible = errors.New("series is not invertible")
	// ErrVariableMismatch: two series over different variables were combined.
	ErrVariableMismatch = errors.New("series variables differ")
	// ErrZeroFactor: a finite q-Pochhammer factor that must be inverted is
	// identically zero.
	ErrZeroFactor = errors.New("product contains a vanishing factor")
	// ErrInconsistent: a linear system has no solution.
	ErrInconsistent = errors.New("linear system is inconsistent")
	// ErrMalformedInput: a parameter combination is undefined.
	ErrMalformedInput = errors.New("malformed input")
)

// ErrorKind classifies a failure for human-readable reporting.
type ErrorKind int

const (
	KindDegenerate ErrorKind = iota
	KindMalformed
)

func (k ErrorKind) String() string {
	switch k {
	case KindDegenerate:
		return "degenerate arithmetic"
	case KindMalformed:
		return "malformed input"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error carries the failing operation and the exact condition.
type Error struct {
	Op     string
	Kind   ErrorKind
	Err    error
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("qseries: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("qseries: %s: %v: %s", e.Op, e.Err, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

func degenerate(op string, sentinel error, format string, args ...interface{}) error {
	return &Error{Op: op, Kind: KindDegenerate, Err: sentinel, Detail: fmt.Sprintf(format, args...)}
}

func malformed(op string, format string, args ...interface{}) error {
	return &Error{Op: op, Kind: KindMalformed, Err: ErrMalformedInput, Detail: fmt.Sprintf(format, args...)}
}
