package pcago

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidK is returned when a requested component count is not positive.
	ErrInvalidK = errors.New("k must be positive")
)

// ErrInvalidInput indicates a malformed data matrix: too few rows or
// columns, a ragged shape, or a non-finite value.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidInput struct {
	Reason string
	cause  error
}

func (e *ErrInvalidInput) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

func (e *ErrInvalidInput) Unwrap() error { return e.cause }

// ErrDimensionMismatch indicates a row/feature dimensionality mismatch.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

// ErrNumericalDegeneracy indicates that the decomposition step could not
// produce a valid orthogonal basis. It is surfaced explicitly instead of
// returning NaN-filled results.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrNumericalDegeneracy struct {
	Solver Solver
	cause  error
}

func (e *ErrNumericalDegeneracy) Error() string {
	return fmt.Sprintf("decomposition failed: solver %s could not factorize input", e.Solver)
}

func (e *ErrNumericalDegeneracy) Unwrap() error { return e.cause }
