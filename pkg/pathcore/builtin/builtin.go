// Package builtin provides the standard operation set: comparison,
// arithmetic, boolean logic, collection functions, string functions,
// reflection and reference resolution.
//
// Operations are built in the same way any extension would build them, with
// operation.NewSync and operation.NewAsync, and are added to a registry
// through Register:
//
//	reg := dispatch.NewRegistry()
//	if err := builtin.Register(reg, builtin.WithResolver(store)); err != nil {
//	    return err
//	}
package builtin

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"

	perrors "github.com/randalmurphal/pathcore/pkg/pathcore/errors"
	"github.com/randalmurphal/pathcore/pkg/pathcore/operation"
	"github.com/randalmurphal/pathcore/pkg/pathcore/types"
	"github.com/randalmurphal/pathcore/pkg/pathcore/value"
)

// Operator precedence, tightest binding first.
const (
	PrecUnary          = 2
	PrecMultiplicative = 3
	PrecAdditive       = 4
	PrecType           = 5
	PrecUnion          = 6
	PrecInequality     = 7
	PrecEquality       = 8
	PrecMembership     = 9
	PrecAnd            = 10
	PrecOr             = 11
	PrecImplies        = 12
)

// Registrar accepts operations. *dispatch.Registry implements it.
type Registrar interface {
	Register(op operation.Operation) error
}

// Option configures the standard library.
type Option func(*Library)

// WithResolver sets the backend for resolve().
func WithResolver(r Resolver) Option {
	return func(l *Library) {
		l.resolver = r
	}
}

// WithRetry sets the retry policy for resolve().
func WithRetry(cfg perrors.RetryConfig) Option {
	return func(l *Library) {
		l.retry = cfg
	}
}

// WithCatalog sets the catalog used by is, as and ofType to look up type
// names.
func WithCatalog(c *types.Catalog) Option {
	return func(l *Library) {
		l.catalog = c
	}
}

// WithPrecision sets the number of significant digits for decimal
// arithmetic.
func WithPrecision(digits uint32) Option {
	return func(l *Library) {
		if digits > 0 {
			l.arith = apd.BaseContext.WithPrecision(digits)
		}
	}
}

// Library holds the configuration shared by the standard operations.
type Library struct {
	resolver Resolver
	retry    perrors.RetryConfig
	catalog  *types.Catalog
	arith    *apd.Context
}

// New creates a library with the given options.
func New(opts ...Option) *Library {
	l := &Library{
		retry: perrors.DefaultRetry,
		arith: apd.BaseContext.WithPrecision(value.DefaultPrecision),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.catalog == nil {
		l.catalog = types.NewCatalog()
	}
	return l
}

// Operations returns every standard operation.
func (l *Library) Operations() []operation.Operation {
	var out []operation.Operation
	out = append(out, l.comparison()...)
	out = append(out, l.arithmetic()...)
	out = append(out, l.logic()...)
	out = append(out, l.collections()...)
	out = append(out, l.text()...)
	out = append(out, l.reflection()...)
	out = append(out, l.resolution()...)
	return out
}

// Register adds every standard operation to r and stops at the first
// error.
func Register(r Registrar, opts ...Option) error {
	for _, op := range New(opts...).Operations() {
		if err := r.Register(op); err != nil {
			return fmt.Errorf("register %s: %w", op.Identifier(), err)
		}
	}
	return nil
}

// def is the declaration of a synchronous operation.
type def struct {
	symbol     string
	kind       operation.Kind
	sigs       []operation.Signature
	propagates bool
	doc        string
	fn         operation.SyncFunc
}

func (d def) build() operation.Operation {
	return operation.NewSync(operation.Metadata{
		Identifier:      operation.NewIdentifier(d.symbol, d.kind),
		Signatures:      d.sigs,
		PropagatesEmpty: d.propagates,
		Documentation:   d.doc,
	}, d.fn)
}

func build(defs ...def) []operation.Operation {
	out := make([]operation.Operation, len(defs))
	for i, d := range defs {
		out[i] = d.build()
	}
	return out
}

func binary(prec int) operation.Kind {
	return operation.Binary(prec, operation.AssocLeft)
}

func sigs(s ...operation.Signature) []operation.Signature { return s }

var optionalBoolean = types.MustList(types.Boolean, types.Optional)

var optionalString = types.MustList(types.String, types.Optional)

// single returns the only item of args[i]. ok is false for an empty
// argument; more than one item is an error.
func single(symbol string, args []value.Value, i int) (v value.Value, ok bool, err error) {
	items := value.Items(args[i])
	switch len(items) {
	case 0:
		return nil, false, nil
	case 1:
		return items[0], true, nil
	}
	return nil, false, &perrors.ArgumentValidationError{
		Symbol:   symbol,
		Position: i,
		Message:  fmt.Sprintf("expected a single item, got %d", len(items)),
	}
}

func typeMismatch(symbol string, args []value.Value) error {
	return &perrors.ArgumentValidationError{
		Symbol:   symbol,
		Position: -1,
		Message:  fmt.Sprintf("unsupported operand types %v", value.TypesOf(args)),
	}
}
