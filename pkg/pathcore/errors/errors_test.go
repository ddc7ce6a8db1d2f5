package errors

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryString(t *testing.T) {
	tests := []struct {
		category Category
		expected string
	}{
		{CategoryRecoverable, "recoverable"},
		{CategoryRejected, "rejected"},
		{CategoryTransient, "transient"},
		{CategoryFatal, "fatal"},
		{CategoryCancelled, "cancelled"},
		{Category(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.category.String())
		})
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{"duplicate", &DuplicateRegistrationError{Symbol: "+"}, CategoryRejected},
		{"constraint", &ConstraintError{Message: "bad"}, CategoryRejected},
		{"unknown op", &UnknownOperationError{Symbol: "foo"}, CategoryRecoverable},
		{"ambiguous", &AmbiguousOperationError{Symbol: "+"}, CategoryRecoverable},
		{"argument", &ArgumentValidationError{Symbol: "sqrt", Position: 0}, CategoryRecoverable},
		{"domain", &DomainError{Symbol: "sqrt"}, CategoryRecoverable},
		{"invariant", &InvariantViolationError{Component: "cache"}, CategoryFatal},
		{"wrapped invariant", fmt.Errorf("outer: %w", &InvariantViolationError{}), CategoryFatal},
		{"transient", Transient(errors.New("timeout"), "resolve"), CategoryTransient},
		{"cancelled", context.Canceled, CategoryCancelled},
		{"deadline", fmt.Errorf("eval: %w", context.DeadlineExceeded), CategoryCancelled},
		{"plain", errors.New("boom"), CategoryRecoverable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.err))
		})
	}
}

func TestCategoryHelpers(t *testing.T) {
	assert.True(t, IsRecoverable(&DomainError{Symbol: "sqrt"}))
	assert.False(t, IsRecoverable(nil))
	assert.False(t, IsRecoverable(&ConstraintError{}))
	assert.True(t, IsFatal(&InvariantViolationError{}))
	assert.False(t, IsFatal(nil))
	assert.True(t, IsRetryable(Transient(errors.New("x"), "")))
	assert.False(t, IsRetryable(errors.New("x")))
}

func TestErrorMessages(t *testing.T) {
	amb := &AmbiguousOperationError{
		Symbol:     "+",
		Args:       []string{"System.Integer", "System.Integer"},
		Candidates: []string{"(System.Integer, System.Decimal)", "(System.Decimal, System.Integer)"},
	}
	assert.Contains(t, amb.Error(), "(System.Integer, System.Decimal)")
	assert.Contains(t, amb.Error(), "(System.Decimal, System.Integer)")

	unk := &UnknownOperationError{Symbol: "foo", Args: []string{"System.String"}, Available: []string{"foo(System.Integer)"}}
	assert.Equal(t, "no operation foo(System.String); available: foo(System.Integer)", unk.Error())

	arg := &ArgumentValidationError{Symbol: "sqrt", Position: -1, Message: "arity"}
	assert.Equal(t, "invalid arguments to sqrt: arity", arg.Error())

	inner := errors.New("overflow")
	dom := &DomainError{Symbol: "+", Message: "integer overflow", Err: inner}
	assert.ErrorIs(t, dom, inner)

	dup := &DuplicateRegistrationError{Symbol: "-", Signature: "(System.Integer)", Reason: "precedence conflict"}
	assert.Equal(t, "duplicate registration of -(System.Integer): precedence conflict", dup.Error())
}

func TestViolationPanics(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(*InvariantViolationError)
		require.True(t, ok)
		assert.Equal(t, "lookup", err.Component)
		assert.Contains(t, err.Error(), "slot 3")
	}()
	Violation("lookup", "slot %d unverified", 3)
}

func TestWithRetryContext(t *testing.T) {
	fast := RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond, BackoffFactor: 2}

	t.Run("succeeds after transient failures", func(t *testing.T) {
		var calls atomic.Int32
		res := WithRetryContext(context.Background(), fast, func(context.Context) (string, error) {
			if calls.Add(1) < 3 {
				return "", Transient(errors.New("busy"), "resolve")
			}
			return "ok", nil
		})
		require.NoError(t, res.Err)
		assert.Equal(t, "ok", res.Value)
		assert.Equal(t, 3, res.Attempts)
	})

	t.Run("permanent errors are not retried", func(t *testing.T) {
		var calls atomic.Int32
		boom := &DomainError{Symbol: "resolve", Message: "bad reference"}
		res := WithRetryContext(context.Background(), fast, func(context.Context) (int, error) {
			calls.Add(1)
			return 0, boom
		})
		assert.ErrorIs(t, res.Err, boom)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("exhausted retries", func(t *testing.T) {
		res := WithRetryContext(context.Background(), fast, func(context.Context) (int, error) {
			return 0, Transient(errors.New("busy"), "")
		})
		require.Error(t, res.Err)
		assert.Equal(t, 3, res.Attempts)
	})

	t.Run("cancelled before first attempt", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		res := WithRetryContext(ctx, fast, func(context.Context) (int, error) {
			t.Fatal("should not be called")
			return 0, nil
		})
		assert.ErrorIs(t, res.Err, context.Canceled)
		assert.Equal(t, CategoryCancelled, Categorize(res.Err))
	})

	t.Run("cancelled during backoff", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		slow := RetryConfig{MaxAttempts: 5, InitialBackoff: time.Hour, BackoffFactor: 1}
		res := WithRetryContext(ctx, slow, func(context.Context) (int, error) {
			cancel()
			return 0, Transient(errors.New("busy"), "")
		})
		assert.ErrorIs(t, res.Err, context.Canceled)
		assert.Equal(t, 1, res.Attempts)
	})
}

func TestCalculateBackoff(t *testing.T) {
	base := 100 * time.Millisecond
	assert.Equal(t, base, calculateBackoff(base, 0))
	for i := 0; i < 20; i++ {
		d := calculateBackoff(base, 0.5)
		assert.GreaterOrEqual(t, d, 50*time.Millisecond)
		assert.LessOrEqual(t, d, 150*time.Millisecond)
	}
}
