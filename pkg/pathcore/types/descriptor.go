package types

import (
	"strconv"

	"github.com/randalmurphal/pathcore/pkg/pathcore/intern"
)

// Kind identifies a descriptor variant.
type Kind uint8

const (
	KindSimple Kind = iota
	KindComposite
	KindList
	KindTuple
	KindChoice
	KindReference
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindSimple:
		return "simple"
	case KindComposite:
		return "composite"
	case KindList:
		return "list"
	case KindTuple:
		return "tuple"
	case KindChoice:
		return "choice"
	case KindReference:
		return "reference"
	default:
		return "unknown"
	}
}

// Descriptor is the runtime shape of a type. Descriptors are immutable once
// constructed and safe to share between goroutines.
type Descriptor interface {
	Kind() Kind

	// Key is a canonical string for the descriptor's structure. Structurally
	// equal descriptors have equal keys.
	Key() string

	String() string

	descriptor()
}

// Named is implemented by descriptors that carry a namespace and name.
type Named interface {
	Descriptor
	Namespace() intern.Handle
	Name() intern.Handle
	QualifiedName() string

	// Base returns the supertype, or nil for a root type.
	Base() Descriptor
}

// Unbounded is the Max of a cardinality without an upper limit.
const Unbounded = -1

// Cardinality bounds the number of items a slot may hold.
type Cardinality struct {
	Min int
	Max int
}

var (
	Optional  = Cardinality{Min: 0, Max: 1}
	Required  = Cardinality{Min: 1, Max: 1}
	Many      = Cardinality{Min: 0, Max: Unbounded}
	None      = Cardinality{Min: 0, Max: 0}
	Singleton = Required
)

// Valid reports whether the bounds are consistent.
func (c Cardinality) Valid() bool {
	if c.Min < 0 {
		return false
	}
	return c.Max == Unbounded || c.Max >= c.Min
}

// Allows reports whether n items fit.
func (c Cardinality) Allows(n int) bool {
	return n >= c.Min && (c.Max == Unbounded || n <= c.Max)
}

// Covers reports whether every count allowed by o is allowed by c.
func (c Cardinality) Covers(o Cardinality) bool {
	if o.Min < c.Min {
		return false
	}
	if c.Max == Unbounded {
		return true
	}
	return o.Max != Unbounded && o.Max <= c.Max
}

// String formats the cardinality as min..max.
func (c Cardinality) String() string {
	hi := "*"
	if c.Max != Unbounded {
		hi = strconv.Itoa(c.Max)
	}
	return strconv.Itoa(c.Min) + ".." + hi
}

// Element is a named, typed, bounded slot of a composite or tuple.
type Element struct {
	Name intern.Handle
	Type Descriptor
	Card Cardinality
}

// NewElement builds an element, interning name in the Default interner.
func NewElement(name string, t Descriptor, card Cardinality) Element {
	return Element{Name: intern.String(name), Type: t, Card: card}
}

func (e Element) key() string {
	return keyOf('E', e.Name.String(), e.Type.Key(), e.Card.String())
}
