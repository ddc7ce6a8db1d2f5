// Package value defines the runtime values flowing through operations.
//
// Values are immutable. Scalars are plain Go values (Boolean, Integer,
// String) or small structs (Decimal, Date, Time, DateTime, Quantity);
// Collection is always flat; Composite carries structured data described
// by a types.Composite.
package value

import (
	"strconv"

	"github.com/randalmurphal/pathcore/pkg/pathcore/types"
)

// Value is implemented by every runtime value.
type Value interface {
	// Type returns the runtime type descriptor.
	Type() types.Descriptor
	String() string
	value()
}

// Empty is the empty result. It behaves like a collection with no items.
type Empty struct{}

func (Empty) Type() types.Descriptor { return types.EmptyList }
func (Empty) String() string         { return "{}" }
func (Empty) value()                 {}

// Boolean is a System.Boolean.
type Boolean bool

func (Boolean) Type() types.Descriptor { return types.Boolean }
func (b Boolean) String() string       { return strconv.FormatBool(bool(b)) }
func (Boolean) value()                 {}

// Integer is a System.Integer.
type Integer int64

func (Integer) Type() types.Descriptor { return types.Integer }
func (i Integer) String() string       { return strconv.FormatInt(int64(i), 10) }
func (Integer) value()                 {}

// String is a System.String.
type String string

func (String) Type() types.Descriptor { return types.String }
func (s String) String() string       { return string(s) }
func (String) value()                 {}

// IsEmpty reports whether v is nil, Empty or a collection without items.
func IsEmpty(v Value) bool {
	switch x := v.(type) {
	case nil:
		return true
	case Empty:
		return true
	case Collection:
		return len(x) == 0
	}
	return false
}

// Unwrap returns the only item of a one-item collection, or v itself when
// v is a scalar. ok is false for empty and multi-item collections.
func Unwrap(v Value) (Value, bool) {
	switch x := v.(type) {
	case nil, Empty:
		return nil, false
	case Collection:
		if len(x) != 1 {
			return nil, false
		}
		return x[0], true
	}
	return v, true
}

// Items returns v as a slice of scalar items.
func Items(v Value) []Value {
	switch x := v.(type) {
	case nil, Empty:
		return nil
	case Collection:
		return x
	}
	return []Value{v}
}

var (
	_ Value = Empty{}
	_ Value = Boolean(false)
	_ Value = Integer(0)
	_ Value = String("")
	_ Value = Decimal{}
	_ Value = Date{}
	_ Value = Time{}
	_ Value = DateTime{}
	_ Value = Quantity{}
	_ Value = Collection(nil)
	_ Value = (*Composite)(nil)
)
