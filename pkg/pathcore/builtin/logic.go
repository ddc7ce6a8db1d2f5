package builtin

import (
	"github.com/randalmurphal/pathcore/pkg/pathcore/compare"
	"github.com/randalmurphal/pathcore/pkg/pathcore/operation"
	"github.com/randalmurphal/pathcore/pkg/pathcore/types"
	"github.com/randalmurphal/pathcore/pkg/pathcore/value"
)

func (l *Library) logic() []operation.Operation {
	connective := func(symbol string, prec int, doc string, fn func(a, b compare.Result) compare.Result) def {
		return def{
			symbol: symbol,
			kind:   binary(prec),
			sigs:   sigs(operation.Sig(types.Boolean, optionalBoolean, optionalBoolean)),
			doc:    doc,
			fn: func(args []value.Value) (value.Value, error) {
				a, err := truth(symbol, args, 0)
				if err != nil {
					return nil, err
				}
				b, err := truth(symbol, args, 1)
				if err != nil {
					return nil, err
				}
				return fn(a, b).Value(), nil
			},
		}
	}

	return build(
		connective("and", PrecAnd, "Three-valued conjunction.", and),
		connective("or", PrecOr, "Three-valued disjunction.", or),
		connective("xor", PrecOr, "Exclusive or; empty when either side is empty.", xor),
		def{
			symbol: "implies",
			kind:   operation.Binary(PrecImplies, operation.AssocRight),
			sigs:   sigs(operation.Sig(types.Boolean, optionalBoolean, optionalBoolean)),
			doc:    "Three-valued implication.",
			fn: func(args []value.Value) (value.Value, error) {
				a, err := truth("implies", args, 0)
				if err != nil {
					return nil, err
				}
				b, err := truth("implies", args, 1)
				if err != nil {
					return nil, err
				}
				return or(a.Not(), b).Value(), nil
			},
		},
		def{
			symbol:     "not",
			kind:       operation.Function(),
			sigs:       sigs(operation.Sig(types.Boolean, types.Boolean)),
			propagates: true,
			doc:        "Boolean negation.",
			fn: func(args []value.Value) (value.Value, error) {
				r, err := truth("not", args, 0)
				if err != nil {
					return nil, err
				}
				return r.Not().Value(), nil
			},
		},
	)
}

// truth reads args[i] as a three-valued boolean.
func truth(symbol string, args []value.Value, i int) (compare.Result, error) {
	v, ok, err := single(symbol, args, i)
	if err != nil || !ok {
		return compare.Empty, err
	}
	b, isBool := v.(value.Boolean)
	if !isBool {
		return compare.Empty, typeMismatch(symbol, args)
	}
	return compare.FromBool(bool(b)), nil
}

func and(a, b compare.Result) compare.Result {
	switch {
	case a == compare.False || b == compare.False:
		return compare.False
	case a == compare.True && b == compare.True:
		return compare.True
	}
	return compare.Empty
}

func or(a, b compare.Result) compare.Result {
	switch {
	case a == compare.True || b == compare.True:
		return compare.True
	case a == compare.False && b == compare.False:
		return compare.False
	}
	return compare.Empty
}

func xor(a, b compare.Result) compare.Result {
	if !a.Known() || !b.Known() {
		return compare.Empty
	}
	return compare.FromBool(a != b)
}
