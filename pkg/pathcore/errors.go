package pathcore

import (
	"errors"
	"fmt"
)

// Sentinel errors for engine calls.
var (
	// ErrNilContext indicates Evaluate was called with a nil context.
	ErrNilContext = errors.New("context cannot be nil")

	// ErrEmptySymbol indicates a call without an operation symbol.
	ErrEmptySymbol = errors.New("operation symbol cannot be empty")

	// ErrEngineClosed indicates the engine was used after Close.
	ErrEngineClosed = errors.New("engine is closed")

	// ErrArgumentTypes indicates Call.ArgTypes does not line up with Call.Args.
	ErrArgumentTypes = errors.New("argument types do not match arguments")
)

// CancellationError reports that an evaluation stopped because its context
// was cancelled or timed out.
type CancellationError struct {
	// Symbol is the operation being evaluated.
	Symbol string
	// Cause is context.Canceled or context.DeadlineExceeded.
	Cause error
	// WasExecuting is true if the operation had already started running.
	WasExecuting bool
}

// Error implements the error interface.
func (e *CancellationError) Error() string {
	if e.WasExecuting {
		return fmt.Sprintf("cancelled during %s: %v", e.Symbol, e.Cause)
	}
	return fmt.Sprintf("cancelled before %s: %v", e.Symbol, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *CancellationError) Unwrap() error {
	return e.Cause
}

// EvaluationError wraps a failed call with the symbol and evaluation ID.
type EvaluationError struct {
	// Symbol is the operation that failed.
	Symbol string
	// EvaluationID identifies the evaluation the call belonged to.
	EvaluationID string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluate %s: %v", e.Symbol, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *EvaluationError) Unwrap() error {
	return e.Err
}
