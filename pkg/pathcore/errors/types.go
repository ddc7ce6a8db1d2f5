package errors

import (
	"fmt"
	"strings"
)

// DuplicateRegistrationError indicates an operation collided with an
// existing registration.
type DuplicateRegistrationError struct {
	Symbol    string
	Signature string
	Reason    string
}

// Error implements the error interface.
func (e *DuplicateRegistrationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("duplicate registration of %s%s: %s", e.Symbol, e.Signature, e.Reason)
	}
	return fmt.Sprintf("duplicate registration of %s%s", e.Symbol, e.Signature)
}

// ConstraintError indicates a malformed descriptor or metadata record.
type ConstraintError struct {
	Subject string
	Message string
}

// Error implements the error interface.
func (e *ConstraintError) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("constraint violated on %s: %s", e.Subject, e.Message)
	}
	return fmt.Sprintf("constraint violated: %s", e.Message)
}

// UnknownOperationError indicates no registered signature accepts the
// argument types, even after coercion.
type UnknownOperationError struct {
	Symbol    string
	Args      []string
	Available []string
}

// Error implements the error interface.
func (e *UnknownOperationError) Error() string {
	msg := fmt.Sprintf("no operation %s(%s)", e.Symbol, strings.Join(e.Args, ", "))
	if len(e.Available) > 0 {
		msg += "; available: " + strings.Join(e.Available, ", ")
	}
	return msg
}

// AmbiguousOperationError indicates several signatures are equally specific
// for the argument types.
type AmbiguousOperationError struct {
	Symbol     string
	Args       []string
	Candidates []string
}

// Error implements the error interface.
func (e *AmbiguousOperationError) Error() string {
	return fmt.Sprintf("ambiguous call %s(%s): candidates %s",
		e.Symbol, strings.Join(e.Args, ", "), strings.Join(e.Candidates, ", "))
}

// ArgumentValidationError indicates arguments were rejected before
// evaluation. Position is -1 when no single argument is at fault.
type ArgumentValidationError struct {
	Symbol   string
	Position int
	Message  string
}

// Error implements the error interface.
func (e *ArgumentValidationError) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("invalid argument %d to %s: %s", e.Position, e.Symbol, e.Message)
	}
	return fmt.Sprintf("invalid arguments to %s: %s", e.Symbol, e.Message)
}

// DomainError indicates an input outside the operation's domain, such as
// a negative square root or an integer overflow.
type DomainError struct {
	Symbol  string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Symbol, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Symbol, e.Message)
}

// Unwrap returns the underlying error.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// InvariantViolationError indicates internal state is inconsistent. It is
// raised with panic and never returned as an ordinary error.
type InvariantViolationError struct {
	Component string
	Message   string
}

// Error implements the error interface.
func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violated in %s: %s", e.Component, e.Message)
}

// Violation panics with an InvariantViolationError.
func Violation(component, format string, args ...any) {
	panic(&InvariantViolationError{Component: component, Message: fmt.Sprintf(format, args...)})
}
