package dispatch

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/benbjohnson/immutable"
	"github.com/hashicorp/go-set/v3"

	perrors "github.com/randalmurphal/pathcore/pkg/pathcore/errors"
	"github.com/randalmurphal/pathcore/pkg/pathcore/intern"
	"github.com/randalmurphal/pathcore/pkg/pathcore/operation"
	"github.com/randalmurphal/pathcore/pkg/pathcore/types"
)

// overloads is the immutable set of operations sharing a symbol.
type overloads struct {
	version uint64
	handles []*operation.Handle
}

type snapshot struct {
	symbols *immutable.SortedMap[string, *overloads]
	count   int
}

// Registry stores operations by symbol and resolves calls against them.
//
// Register is serialized; every other method reads a snapshot and never
// waits on a writer. A Register that returns nil is visible to every
// Resolve that starts after it.
type Registry struct {
	mu     sync.Mutex
	snap   atomic.Pointer[snapshot]
	nextID uint64
	gen    uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	r := &Registry{}
	r.snap.Store(&snapshot{symbols: immutable.NewSortedMap[string, *overloads](nil)})
	return r
}

// Register adds op. It fails without changing the registry when the
// metadata is malformed, when an identical signature is already registered
// for the same symbol and kind, or when an operator conflicts with an
// existing one on precedence, associativity or empty propagation.
func (r *Registry) Register(op operation.Operation) error {
	if op == nil {
		return &perrors.ConstraintError{Subject: "operation", Message: "nil operation"}
	}
	meta := op.Metadata().Clone()
	if err := meta.Validate(); err != nil {
		return err
	}
	if meta.SupportsSync != op.SupportsSync() {
		return &perrors.ConstraintError{
			Subject: "operation " + meta.Identifier.String(),
			Message: fmt.Sprintf("metadata advertises sync=%t but implementation reports %t", meta.SupportsSync, op.SupportsSync()),
		}
	}

	own := set.New[string](len(meta.Signatures))
	for _, sig := range meta.Signatures {
		if !own.Insert(sig.Key()) {
			return &perrors.ConstraintError{
				Subject: "operation " + meta.Identifier.String(),
				Message: "signature " + sig.String() + " listed twice",
			}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.snap.Load()
	symbol := meta.Identifier.Symbol.String()
	existing, _ := cur.symbols.Get(symbol)
	if existing != nil {
		if err := checkConflicts(existing, meta, own); err != nil {
			return err
		}
	}

	r.nextID++
	r.gen++
	handle := operation.NewHandle(r.nextID, op, meta)

	next := &overloads{version: r.gen}
	if existing != nil {
		next.handles = make([]*operation.Handle, len(existing.handles), len(existing.handles)+1)
		copy(next.handles, existing.handles)
	}
	next.handles = append(next.handles, handle)

	r.snap.Store(&snapshot{
		symbols: cur.symbols.Set(symbol, next),
		count:   cur.count + 1,
	})
	return nil
}

func checkConflicts(existing *overloads, meta *operation.Metadata, sigs *set.Set[string]) error {
	id := meta.Identifier
	for _, h := range existing.handles {
		other := h.Metadata()
		if other.Identifier.Kind.Tag != id.Kind.Tag {
			continue
		}
		if id.Kind.IsOperator() && (other.Identifier.Kind.Precedence != id.Kind.Precedence ||
			other.Identifier.Kind.Associativity != id.Kind.Associativity) {
			return &perrors.DuplicateRegistrationError{
				Symbol: id.Symbol.String(),
				Reason: fmt.Sprintf("conflicts with %s registered as %s", other.Identifier, other.Identifier.Kind),
			}
		}
		if other.PropagatesEmpty != meta.PropagatesEmpty {
			return &perrors.DuplicateRegistrationError{
				Symbol: id.Symbol.String(),
				Reason: fmt.Sprintf("empty propagation %t conflicts with existing %t", meta.PropagatesEmpty, other.PropagatesEmpty),
			}
		}
		for _, sig := range other.Signatures {
			if sigs.Contains(sig.Key()) {
				return &perrors.DuplicateRegistrationError{
					Symbol:    id.Symbol.String(),
					Signature: sig.String(),
					Reason:    "signature already registered as " + h.String(),
				}
			}
		}
	}
	return nil
}

type candidate struct {
	handle    *operation.Handle
	sig       operation.Signature
	coercions []operation.Coercion
	costs     []int
}

// Resolve selects the operation for symbol applied to arguments of the
// given types, regardless of invocation kind. Use ResolveKind when the
// call site knows whether it is a function, binary or unary call.
func (r *Registry) Resolve(symbol string, args []types.Descriptor) (operation.Resolution, error) {
	return r.resolve(symbol, nil, args)
}

// ResolveKind is Resolve restricted to one invocation kind.
func (r *Registry) ResolveKind(symbol string, tag operation.Tag, args []types.Descriptor) (operation.Resolution, error) {
	return r.resolve(symbol, &tag, args)
}

func (r *Registry) resolve(symbol string, tag *operation.Tag, args []types.Descriptor) (operation.Resolution, error) {
	ov, _ := r.snap.Load().symbols.Get(symbol)

	var cands []candidate
	var available []string
	if ov != nil {
		for _, h := range ov.handles {
			meta := h.Metadata()
			if tag != nil && meta.Identifier.Kind.Tag != *tag {
				continue
			}
			for _, sig := range meta.Signatures {
				available = append(available, sig.String())
				if c, ok := matchSignature(h, sig, args); ok {
					cands = append(cands, c)
				}
			}
		}
	}

	if len(cands) == 0 {
		return operation.Resolution{}, &perrors.UnknownOperationError{
			Symbol:    symbol,
			Args:      describe(args),
			Available: available,
		}
	}

	best := paretoMinimal(cands)
	if len(best) > 1 {
		names := make([]string, len(best))
		for i, c := range best {
			names[i] = c.sig.String()
		}
		return operation.Resolution{}, &perrors.AmbiguousOperationError{
			Symbol:     symbol,
			Args:       describe(args),
			Candidates: names,
		}
	}

	win := best[0]
	return operation.Resolution{
		Handle:    win.handle,
		Signature: win.sig,
		Coercions: win.coercions,
		Version:   ov.version,
	}, nil
}

func matchSignature(h *operation.Handle, sig operation.Signature, args []types.Descriptor) (candidate, bool) {
	if sig.Arity() != len(args) {
		return candidate{}, false
	}
	c := candidate{
		handle:    h,
		sig:       sig,
		coercions: make([]operation.Coercion, len(args)),
		costs:     make([]int, len(args)),
	}
	for i, arg := range args {
		co, ok := match(arg, sig.Params[i])
		if !ok {
			return candidate{}, false
		}
		c.coercions[i] = co
		c.costs[i] = co.Cost
	}
	return c, true
}

func paretoMinimal(cands []candidate) []candidate {
	var out []candidate
	for i, c := range cands {
		dominated := false
		for j, o := range cands {
			if i != j && dominates(o.costs, c.costs) {
				dominated = true
				break
			}
		}
		if !dominated {
			out = append(out, c)
		}
	}
	return out
}

func describe(args []types.Descriptor) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = a.String()
	}
	return out
}

// Version returns a number that changes whenever an operation is added
// under symbol. It is zero for unknown symbols.
func (r *Registry) Version(symbol intern.Handle) uint64 {
	ov, _ := r.snap.Load().symbols.Get(symbol.String())
	if ov == nil {
		return 0
	}
	return ov.version
}

// Lookup returns the operations registered under symbol in registration
// order.
func (r *Registry) Lookup(symbol string) []*operation.Handle {
	ov, _ := r.snap.Load().symbols.Get(symbol)
	if ov == nil {
		return nil
	}
	return slices.Clone(ov.handles)
}

// Symbols returns the registered symbols in sorted order.
func (r *Registry) Symbols() []string {
	snap := r.snap.Load()
	out := make([]string, 0, snap.symbols.Len())
	itr := snap.symbols.Iterator()
	for !itr.Done() {
		k, _, _ := itr.Next()
		out = append(out, k)
	}
	return out
}

// Operations returns every registered operation ordered by handle ID.
func (r *Registry) Operations() []*operation.Handle {
	snap := r.snap.Load()
	out := make([]*operation.Handle, 0, snap.count)
	itr := snap.symbols.Iterator()
	for !itr.Done() {
		_, ov, _ := itr.Next()
		out = append(out, ov.handles...)
	}
	slices.SortFunc(out, func(a, b *operation.Handle) int {
		return cmp.Compare(a.ID(), b.ID())
	})
	return out
}

// Len returns the number of registered operations.
func (r *Registry) Len() int {
	return r.snap.Load().count
}

// PropagatesEmpty reports the empty-propagation policy shared by the
// operations registered under symbol with the given tag. known is false
// when there are none.
func (r *Registry) PropagatesEmpty(symbol string, tag operation.Tag) (propagates, known bool) {
	ov, _ := r.snap.Load().symbols.Get(symbol)
	if ov == nil {
		return false, false
	}
	for _, h := range ov.handles {
		if h.Metadata().Identifier.Kind.Tag == tag {
			return h.Metadata().PropagatesEmpty, true
		}
	}
	return false, false
}
