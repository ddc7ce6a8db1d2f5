package builtin

import (
	"github.com/randalmurphal/pathcore/pkg/pathcore/compare"
	"github.com/randalmurphal/pathcore/pkg/pathcore/operation"
	"github.com/randalmurphal/pathcore/pkg/pathcore/types"
	"github.com/randalmurphal/pathcore/pkg/pathcore/value"
)

var anyPair = operation.Sig(types.Boolean, types.Any, types.Any)

func (l *Library) comparison() []operation.Operation {
	order := func(symbol string, fn func(a, b value.Value) (compare.Result, error)) def {
		return def{
			symbol:     symbol,
			kind:       binary(PrecInequality),
			sigs:       sigs(anyPair),
			propagates: true,
			doc:        "Orders numbers, strings, quantities and temporal values. Empty when the operands cannot be ordered.",
			fn: func(args []value.Value) (value.Value, error) {
				r, err := fn(args[0], args[1])
				if err != nil {
					return nil, err
				}
				return r.Value(), nil
			},
		}
	}

	return build(
		def{
			symbol:     "=",
			kind:       binary(PrecEquality),
			sigs:       sigs(anyPair),
			propagates: true,
			doc:        "Equality. Empty when either side is empty or precision differs.",
			fn: func(args []value.Value) (value.Value, error) {
				return compare.Equal(args[0], args[1]).Value(), nil
			},
		},
		def{
			symbol:     "!=",
			kind:       binary(PrecEquality),
			sigs:       sigs(anyPair),
			propagates: true,
			doc:        "Negated equality.",
			fn: func(args []value.Value) (value.Value, error) {
				return compare.NotEqual(args[0], args[1]).Value(), nil
			},
		},
		def{
			symbol: "~",
			kind:   binary(PrecEquality),
			sigs:   sigs(anyPair),
			doc:    "Equivalence. Never empty.",
			fn: func(args []value.Value) (value.Value, error) {
				return value.Boolean(compare.Equivalent(args[0], args[1])), nil
			},
		},
		def{
			symbol: "!~",
			kind:   binary(PrecEquality),
			sigs:   sigs(anyPair),
			doc:    "Negated equivalence.",
			fn: func(args []value.Value) (value.Value, error) {
				return value.Boolean(compare.NotEquivalent(args[0], args[1])), nil
			},
		},
		order("<", compare.Less),
		order("<=", compare.LessOrEqual),
		order(">", compare.Greater),
		order(">=", compare.GreaterOrEqual),
	)
}
