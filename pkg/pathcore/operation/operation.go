package operation

import (
	"context"
	"errors"
	"fmt"

	perrors "github.com/randalmurphal/pathcore/pkg/pathcore/errors"
	"github.com/randalmurphal/pathcore/pkg/pathcore/types"
	"github.com/randalmurphal/pathcore/pkg/pathcore/value"
)

// ErrSyncUnavailable is returned by TryEvaluateSync when the operation has
// no synchronous path.
var ErrSyncUnavailable = errors.New("operation: synchronous evaluation unavailable")

// Operation is a callable unit of the language.
//
// Evaluate is mandatory and may block on external data. Operations that can
// always answer without blocking report SupportsSync and implement
// TryEvaluateSync; both paths must produce the same result.
type Operation interface {
	Identifier() Identifier
	Metadata() *Metadata

	// ValidateArgs checks arguments before evaluation. It must not have
	// side effects.
	ValidateArgs(args []value.Value) error

	Evaluate(ctx context.Context, args []value.Value) (value.Value, error)

	SupportsSync() bool

	// TryEvaluateSync returns ErrSyncUnavailable when SupportsSync is false.
	TryEvaluateSync(args []value.Value) (value.Value, error)
}

// SyncFunc computes a result without blocking.
//
// Example:
//
//	upper := operation.NewSync(meta, func(args []value.Value) (value.Value, error) {
//	    s, _ := value.Unwrap(args[0])
//	    return value.String(strings.ToUpper(s.String())), nil
//	})
type SyncFunc func(args []value.Value) (value.Value, error)

// AsyncFunc computes a result and may block until ctx is done.
type AsyncFunc func(ctx context.Context, args []value.Value) (value.Value, error)

// Validator overrides the default argument validation.
type Validator func(args []value.Value) error

// Option configures an adapter built by NewSync or NewAsync.
type Option func(*base)

// WithValidator replaces the default arity and cardinality check. The
// default check still runs first.
func WithValidator(v Validator) Option {
	return func(b *base) {
		b.validate = v
	}
}

type base struct {
	meta     *Metadata
	validate Validator
}

func (b *base) Identifier() Identifier { return b.meta.Identifier }
func (b *base) Metadata() *Metadata    { return b.meta }

func (b *base) ValidateArgs(args []value.Value) error {
	if err := DefaultValidate(b.meta, args); err != nil {
		return err
	}
	if b.validate != nil {
		return b.validate(args)
	}
	return nil
}

type syncOp struct {
	base
	fn SyncFunc
}

// NewSync adapts a non-blocking function. Evaluate checks ctx and then
// calls fn directly. The metadata's SupportsSync is set to true.
func NewSync(meta Metadata, fn SyncFunc, opts ...Option) Operation {
	meta.SupportsSync = true
	op := &syncOp{base: base{meta: meta.Clone()}, fn: fn}
	for _, opt := range opts {
		opt(&op.base)
	}
	return op
}

func (o *syncOp) Evaluate(ctx context.Context, args []value.Value) (value.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return o.fn(args)
}

func (o *syncOp) SupportsSync() bool { return true }

func (o *syncOp) TryEvaluateSync(args []value.Value) (value.Value, error) {
	return o.fn(args)
}

type asyncOp struct {
	base
	fn AsyncFunc
}

// NewAsync adapts a function that may block. The operation has no
// synchronous path and the metadata's SupportsSync is set to false.
func NewAsync(meta Metadata, fn AsyncFunc, opts ...Option) Operation {
	meta.SupportsSync = false
	op := &asyncOp{base: base{meta: meta.Clone()}, fn: fn}
	for _, opt := range opts {
		opt(&op.base)
	}
	return op
}

func (o *asyncOp) Evaluate(ctx context.Context, args []value.Value) (value.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return o.fn(ctx, args)
}

func (o *asyncOp) SupportsSync() bool { return false }

func (o *asyncOp) TryEvaluateSync([]value.Value) (value.Value, error) {
	return nil, ErrSyncUnavailable
}

// DefaultValidate checks the argument count against the advertised
// signatures and rejects a multi-item collection in a position where every
// signature of that arity expects a single item.
func DefaultValidate(meta *Metadata, args []value.Value) error {
	symbol := meta.Identifier.Symbol.String()
	sigs := meta.withArity(len(args))
	if len(sigs) == 0 {
		return &perrors.ArgumentValidationError{
			Symbol:   symbol,
			Position: -1,
			Message:  fmt.Sprintf("no signature takes %d arguments", len(args)),
		}
	}

	for i, arg := range args {
		if len(value.Items(arg)) <= 1 {
			continue
		}
		singleton := true
		for _, s := range sigs {
			if acceptsCollection(s.Params[i]) {
				singleton = false
				break
			}
		}
		if singleton {
			return &perrors.ArgumentValidationError{
				Symbol:   symbol,
				Position: i,
				Message:  fmt.Sprintf("expected a single item, got %d", len(value.Items(arg))),
			}
		}
	}
	return nil
}

func acceptsCollection(p types.Descriptor) bool {
	if l, ok := p.(*types.List); ok {
		return l.Card().Max == types.Unbounded || l.Card().Max > 1
	}
	return types.Equal(p, types.Any)
}
