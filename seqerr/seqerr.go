// Package seqerr holds the sentinel errors shared by the matcher packages
// (prefilter, backtrack, seqmatch) so that a single error value can be
// tested with errors.Is regardless of which component raised it.
package seqerr

import "errors"

var (
	// ErrTooSlow is returned when a matcher routine's iteration counter
	// exceeds MaxIterations. There is no wall-clock timeout; the bound is
	// pure-work-based and therefore deterministic given its inputs.
	ErrTooSlow = errors.New("sequence pattern application exceeded max iterations")

	// ErrTooFewArguments is returned at construction when fewer than 2
	// event arguments are declared (fewer than 3 total with the
	// timestamp column).
	ErrTooFewArguments = errors.New("sequence matcher requires at least 2 event arguments")

	// ErrTooManyArguments is returned at construction when more than 32
	// event arguments are declared.
	ErrTooManyArguments = errors.New("sequence matcher supports at most 32 event arguments")

	// ErrShortRead is returned from State.ReadFrom when the wire-format
	// stream ends before the declared entry count is satisfied.
	ErrShortRead = errors.New("sequence matcher state: short read")

	// ErrMalformedState is returned from State.ReadFrom when the leading
	// "sorted" byte is not 0 or 1.
	ErrMalformedState = errors.New("sequence matcher state: malformed encoding")
)

// MaxEvents is the hard cap on distinct event flags a pattern may
// reference (spec.md §6).
const MaxEvents = 32

// MaxIterations is the iteration cap shared by the pruner and the
// backtracking matcher (spec.md §6).
const MaxIterations = 1_000_000
