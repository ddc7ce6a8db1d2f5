// Package errors defines the error taxonomy of the pathcore engine.
//
// Every condition the core can report falls into one category:
//   - Rejected: a registration or construction was refused and nothing changed
//   - Recoverable: an evaluation failed; the caller may turn it into the empty result
//   - Transient: an external data source failed and retrying may help
//   - Fatal: an internal invariant was violated and the process state is suspect
//
// The registry and dispatch cache only report conditions. Deciding whether a
// recoverable error propagates or collapses to empty is left to the evaluator.
package errors

import (
	"context"
	"errors"
	"fmt"
)

// Category represents how an error should be handled.
type Category int

const (
	// CategoryRecoverable covers evaluation-time errors: unknown or ambiguous
	// operations, invalid arguments, out-of-domain inputs.
	CategoryRecoverable Category = iota

	// CategoryRejected covers registration and construction errors. The
	// rejected change was not applied.
	CategoryRejected

	// CategoryTransient indicates retry will likely help.
	// Examples: a reference resolver timing out or being rate limited.
	CategoryTransient

	// CategoryFatal indicates a broken internal invariant.
	CategoryFatal

	// CategoryCancelled indicates the evaluation context was cancelled.
	CategoryCancelled
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryRecoverable:
		return "recoverable"
	case CategoryRejected:
		return "rejected"
	case CategoryTransient:
		return "transient"
	case CategoryFatal:
		return "fatal"
	case CategoryCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// CategorizedError wraps an error with its category and context.
type CategorizedError struct {
	// Err is the underlying error.
	Err error

	// Category indicates how this error should be handled.
	Category Category

	// Retries is the number of attempts that have been made.
	Retries int

	// Context describes what was being attempted.
	Context string
}

// Error implements the error interface.
func (e *CategorizedError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s (category: %s, attempts: %d)",
			e.Context, e.Err, e.Category, e.Retries)
	}
	return fmt.Sprintf("%s (category: %s, attempts: %d)",
		e.Err, e.Category, e.Retries)
}

// Unwrap returns the underlying error.
func (e *CategorizedError) Unwrap() error {
	return e.Err
}

// NewCategorized creates a new categorized error.
func NewCategorized(err error, category Category, context string) *CategorizedError {
	return &CategorizedError{
		Err:      err,
		Category: category,
		Context:  context,
	}
}

// Transient marks err as worth retrying.
func Transient(err error, context string) *CategorizedError {
	return NewCategorized(err, CategoryTransient, context)
}

// Categorize determines how an error should be handled.
func Categorize(err error) Category {
	if err == nil {
		return CategoryRecoverable
	}

	var catErr *CategorizedError
	if errors.As(err, &catErr) {
		return catErr.Category
	}

	var invErr *InvariantViolationError
	if errors.As(err, &invErr) {
		return CategoryFatal
	}

	var dupErr *DuplicateRegistrationError
	if errors.As(err, &dupErr) {
		return CategoryRejected
	}

	var conErr *ConstraintError
	if errors.As(err, &conErr) {
		return CategoryRejected
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return CategoryCancelled
	}

	// Unknown, ambiguous, argument and domain errors plus anything an
	// operation returns on its own.
	return CategoryRecoverable
}

// IsRecoverable reports whether the evaluator may substitute the empty result.
func IsRecoverable(err error) bool {
	return err != nil && Categorize(err) == CategoryRecoverable
}

// IsFatal reports whether the error signals a broken invariant.
func IsFatal(err error) bool {
	return err != nil && Categorize(err) == CategoryFatal
}

// IsRetryable reports whether the error should be retried.
func IsRetryable(err error) bool {
	return err != nil && Categorize(err) == CategoryTransient
}
