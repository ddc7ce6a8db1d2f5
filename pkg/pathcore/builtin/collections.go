package builtin

import (
	"github.com/randalmurphal/pathcore/pkg/pathcore/compare"
	"github.com/randalmurphal/pathcore/pkg/pathcore/operation"
	"github.com/randalmurphal/pathcore/pkg/pathcore/types"
	"github.com/randalmurphal/pathcore/pkg/pathcore/value"
)

func (l *Library) collections() []operation.Operation {
	return build(
		def{
			symbol: "|",
			kind:   binary(PrecUnion),
			sigs:   sigs(operation.Sig(types.AnyList, types.AnyList, types.AnyList)),
			doc:    "Union of two collections without duplicates.",
			fn: func(args []value.Value) (value.Value, error) {
				all := append(append([]value.Value(nil), value.Items(args[0])...), value.Items(args[1])...)
				return collection(distinct(all)), nil
			},
		},
		def{
			symbol: "in",
			kind:   binary(PrecMembership),
			sigs:   sigs(operation.Sig(types.Boolean, types.Any, types.AnyList)),
			doc:    "Membership of the left item in the right collection.",
			fn: func(args []value.Value) (value.Value, error) {
				return member("in", args, 0, 1)
			},
		},
		def{
			symbol: "contains",
			kind:   binary(PrecMembership),
			sigs:   sigs(operation.Sig(types.Boolean, types.AnyList, types.Any)),
			doc:    "Membership of the right item in the left collection.",
			fn: func(args []value.Value) (value.Value, error) {
				return member("contains", args, 1, 0)
			},
		},
		def{
			symbol: "empty",
			kind:   operation.Function(),
			sigs:   sigs(operation.Sig(types.Boolean, types.AnyList)),
			doc:    "True when the input has no items.",
			fn: func(args []value.Value) (value.Value, error) {
				return value.Boolean(value.IsEmpty(args[0])), nil
			},
		},
		def{
			symbol: "exists",
			kind:   operation.Function(),
			sigs:   sigs(operation.Sig(types.Boolean, types.AnyList)),
			doc:    "True when the input has at least one item.",
			fn: func(args []value.Value) (value.Value, error) {
				return value.Boolean(!value.IsEmpty(args[0])), nil
			},
		},
		def{
			symbol: "count",
			kind:   operation.Function(),
			sigs:   sigs(operation.Sig(types.Integer, types.AnyList)),
			doc:    "Number of items in the input.",
			fn: func(args []value.Value) (value.Value, error) {
				return value.Integer(len(value.Items(args[0]))), nil
			},
		},
		def{
			symbol: "distinct",
			kind:   operation.Function(),
			sigs:   sigs(operation.Sig(types.AnyList, types.AnyList)),
			doc:    "Input with duplicate items removed, keeping first occurrences.",
			fn: func(args []value.Value) (value.Value, error) {
				return collection(distinct(value.Items(args[0]))), nil
			},
		},
		def{
			symbol: "isDistinct",
			kind:   operation.Function(),
			sigs:   sigs(operation.Sig(types.Boolean, types.AnyList)),
			doc:    "True when no two items of the input are equal.",
			fn: func(args []value.Value) (value.Value, error) {
				items := value.Items(args[0])
				return value.Boolean(len(distinct(items)) == len(items)), nil
			},
		},
		def{
			symbol: "children",
			kind:   operation.Function(),
			sigs:   sigs(operation.Sig(types.AnyList, types.AnyList)),
			doc:    "Immediate child values of every composite item.",
			fn: func(args []value.Value) (value.Value, error) {
				var out []value.Value
				for _, it := range value.Items(args[0]) {
					if c, ok := it.(*value.Composite); ok {
						out = append(out, c.Children())
					}
				}
				return collection(value.NewCollection(out...)), nil
			},
		},
	)
}

// member looks for args[item] in args[in]. An empty item gives Empty; an
// empty collection gives false.
func member(symbol string, args []value.Value, item, in int) (value.Value, error) {
	v, ok, err := single(symbol, args, item)
	if err != nil || !ok {
		return value.Empty{}, err
	}
	for _, it := range value.Items(args[in]) {
		if compare.Equal(v, it) == compare.True {
			return value.Boolean(true), nil
		}
	}
	return value.Boolean(false), nil
}

// distinct drops items equal to an earlier one.
func distinct(items []value.Value) []value.Value {
	out := make([]value.Value, 0, len(items))
next:
	for _, it := range items {
		for _, seen := range out {
			if compare.Equal(it, seen) == compare.True {
				continue next
			}
		}
		out = append(out, it)
	}
	return out
}

// collection returns Empty for no items, the item itself for one, and a
// Collection otherwise.
func collection(items []value.Value) value.Value {
	switch len(items) {
	case 0:
		return value.Empty{}
	case 1:
		return items[0]
	}
	return value.Collection(items)
}
