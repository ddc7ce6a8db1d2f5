package types

import (
	"fmt"

	perrors "github.com/randalmurphal/pathcore/pkg/pathcore/errors"
	"github.com/randalmurphal/pathcore/pkg/pathcore/registry"
)

// List is a collection type with an element type and cardinality bounds.
type List struct {
	elem Descriptor
	card Cardinality
	key  string
}

// Lists are memoized by key; value typing builds them on every call.
var lists = registry.New[string, *List]()

// NewList returns the list descriptor for elem and card.
func NewList(elem Descriptor, card Cardinality) (*List, error) {
	if elem == nil {
		return nil, &perrors.ConstraintError{Subject: "list type", Message: "nil element type"}
	}
	if !card.Valid() {
		return nil, &perrors.ConstraintError{Subject: "list type", Message: fmt.Sprintf("invalid cardinality %s", card)}
	}
	key := keyOf('L', elem.Key(), card.String())
	return lists.GetOrCreate(key, func() *List {
		return &List{elem: elem, card: card, key: key}
	}), nil
}

// MustList is like NewList but panics on invalid input.
func MustList(elem Descriptor, card Cardinality) *List {
	l, err := NewList(elem, card)
	if err != nil {
		panic(err)
	}
	return l
}

// ListOf returns an unbounded list of elem.
func ListOf(elem Descriptor) *List {
	return MustList(elem, Many)
}

func (l *List) Kind() Kind        { return KindList }
func (l *List) Key() string       { return l.key }
func (l *List) Elem() Descriptor  { return l.elem }
func (l *List) Card() Cardinality { return l.card }
func (l *List) descriptor()       {}

// String formats the list for diagnostics.
func (l *List) String() string {
	if l.card == Many {
		return "List<" + l.elem.String() + ">"
	}
	return "List<" + l.elem.String() + ">[" + l.card.String() + "]"
}

// IsEmpty reports whether the list can hold no items at all.
func (l *List) IsEmpty() bool { return l.card.Max == 0 }
