package operation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	perrors "github.com/randalmurphal/pathcore/pkg/pathcore/errors"
	"github.com/randalmurphal/pathcore/pkg/pathcore/value"
)

// Handle is a registered operation. Handles are created by the registry
// and stay valid for the life of the process.
type Handle struct {
	id   uint64
	op   Operation
	meta *Metadata
}

// NewHandle pairs op with the registry's copy of its metadata.
func NewHandle(id uint64, op Operation, meta *Metadata) *Handle {
	return &Handle{id: id, op: op, meta: meta}
}

// ID is unique within the registry that issued the handle.
func (h *Handle) ID() uint64             { return h.id }
func (h *Handle) Operation() Operation   { return h.op }
func (h *Handle) Metadata() *Metadata    { return h.meta }
func (h *Handle) Identifier() Identifier { return h.meta.Identifier }

func (h *Handle) String() string {
	return fmt.Sprintf("%s#%d", h.meta.Identifier, h.id)
}

// Resolution is the outcome of overload resolution for one call shape.
type Resolution struct {
	Handle    *Handle
	Signature Signature
	Coercions []Coercion

	// Version is the symbol's registry version at resolution time.
	Version uint64
}

// Cost sums the coercion costs.
func (r Resolution) Cost() int {
	total := 0
	for _, c := range r.Coercions {
		total += c.Cost
	}
	return total
}

// Exact reports whether every argument matched without conversion.
func (r Resolution) Exact() bool {
	for _, c := range r.Coercions {
		if !c.Exact() {
			return false
		}
	}
	return true
}

func (r Resolution) String() string {
	parts := make([]string, len(r.Coercions))
	for i, c := range r.Coercions {
		parts[i] = c.String()
	}
	return fmt.Sprintf("%s%s [%s]", r.Handle.Identifier().Symbol, r.Signature, strings.Join(parts, ", "))
}

// Coerce applies the recorded coercions to args.
func (r Resolution) Coerce(args []value.Value) ([]value.Value, error) {
	if len(args) != len(r.Coercions) {
		return nil, &perrors.ArgumentValidationError{
			Symbol:   r.Handle.Identifier().Symbol.String(),
			Position: -1,
			Message:  fmt.Sprintf("resolved for %d arguments, got %d", len(r.Coercions), len(args)),
		}
	}
	if r.Exact() {
		return args, nil
	}
	out := make([]value.Value, len(args))
	for i, arg := range args {
		v, err := r.Coercions[i].Apply(arg)
		if err != nil {
			return nil, &perrors.ArgumentValidationError{
				Symbol:   r.Handle.Identifier().Symbol.String(),
				Position: i,
				Message:  err.Error(),
			}
		}
		out[i] = v
	}
	return out, nil
}

// Evaluate validates and coerces args, then runs the operation. The
// synchronous path is used when the operation advertises it.
func (r Resolution) Evaluate(ctx context.Context, args []value.Value) (value.Value, error) {
	op := r.Handle.Operation()
	if err := op.ValidateArgs(args); err != nil {
		return nil, err
	}
	coerced, err := r.Coerce(args)
	if err != nil {
		return nil, err
	}

	if op.SupportsSync() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := op.TryEvaluateSync(coerced)
		if !errors.Is(err, ErrSyncUnavailable) {
			return v, err
		}
	}
	return op.Evaluate(ctx, coerced)
}

// Start evaluates on a new goroutine. Cancelling ctx stops the operation
// at its next suspension point.
func (r Resolution) Start(ctx context.Context, args []value.Value) *Pending {
	p := &Pending{done: make(chan struct{})}
	go func() {
		defer close(p.done)
		p.val, p.err = r.Evaluate(ctx, args)
	}()
	return p
}

// Pending is the future returned by Start.
type Pending struct {
	done chan struct{}
	val  value.Value
	err  error
}

// Done is closed when the result is available.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the result is available or ctx is done.
func (p *Pending) Wait(ctx context.Context) (value.Value, error) {
	select {
	case <-p.done:
		return p.val, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
