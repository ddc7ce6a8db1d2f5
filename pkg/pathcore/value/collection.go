package value

import (
	"strings"

	"github.com/randalmurphal/pathcore/pkg/pathcore/types"
)

// Collection is an ordered, flat sequence of scalar or composite values.
// Build collections with NewCollection to keep them flat.
type Collection []Value

// NewCollection flattens nested collections and drops empties.
func NewCollection(items ...Value) Collection {
	out := make(Collection, 0, len(items))
	for _, it := range items {
		out = appendFlat(out, it)
	}
	return out
}

func appendFlat(out Collection, v Value) Collection {
	switch x := v.(type) {
	case nil, Empty:
		return out
	case Collection:
		for _, it := range x {
			out = appendFlat(out, it)
		}
		return out
	}
	return append(out, v)
}

// Type returns a list type whose cardinality is the item count class:
// empty, singleton or many.
func (c Collection) Type() types.Descriptor {
	switch len(c) {
	case 0:
		return types.EmptyList
	case 1:
		return types.MustList(c[0].Type(), types.Singleton)
	}
	elem := c[0].Type()
	for _, it := range c[1:] {
		if it.Type().Key() != elem.Key() {
			elem = types.Any
			break
		}
	}
	return types.MustList(elem, types.Many)
}

// String formats the collection as {a, b, c}.
func (c Collection) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, it := range c {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(it.String())
	}
	sb.WriteByte('}')
	return sb.String()
}

func (Collection) value() {}

// TypeOf returns the runtime type of v. Empty and nil type as the empty list.
func TypeOf(v Value) types.Descriptor {
	if v == nil {
		return types.EmptyList
	}
	return v.Type()
}

// TypesOf returns the runtime types of args.
func TypesOf(args []Value) []types.Descriptor {
	out := make([]types.Descriptor, len(args))
	for i, a := range args {
		out[i] = TypeOf(a)
	}
	return out
}
