package types

import (
	"strings"

	"github.com/randalmurphal/pathcore/pkg/pathcore/intern"
	"github.com/randalmurphal/pathcore/pkg/pathcore/lookup"
)

// Tuple is a structural record type. Anonymous tuples are produced by
// expressions rather than declared by a model.
type Tuple struct {
	elements  []Element
	index     *lookup.Table
	anonymous bool
	key       string
}

// NewTuple creates a tuple type. The element slice is copied.
func NewTuple(elements []Element, anonymous bool) (*Tuple, error) {
	elems, index, err := finalizeElements("tuple", elements)
	if err != nil {
		return nil, err
	}

	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = e.key()
	}
	tag := byte('T')
	if anonymous {
		tag = 'U'
	}
	return &Tuple{elements: elems, index: index, anonymous: anonymous, key: keyOf(tag, parts...)}, nil
}

func (t *Tuple) Kind() Kind              { return KindTuple }
func (t *Tuple) Key() string             { return t.key }
func (t *Tuple) Anonymous() bool         { return t.anonymous }
func (t *Tuple) NumElements() int        { return len(t.elements) }
func (t *Tuple) ElementAt(i int) Element { return t.elements[i] }
func (t *Tuple) descriptor()             {}

// String formats the tuple for diagnostics.
func (t *Tuple) String() string {
	var sb strings.Builder
	sb.WriteString("Tuple{")
	for i, e := range t.elements {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.Name.String())
		sb.WriteString(": ")
		sb.WriteString(e.Type.String())
	}
	sb.WriteByte('}')
	return sb.String()
}

// Element finds an element by name.
func (t *Tuple) Element(name string) (Element, int, bool) {
	i, ok := t.index.Index(name)
	if !ok {
		return Element{}, 0, false
	}
	return t.elements[i], i, true
}

// ElementOf finds an element by interned name.
func (t *Tuple) ElementOf(name intern.Handle) (Element, int, bool) {
	i, ok := t.index.IndexOf(name)
	if !ok {
		return Element{}, 0, false
	}
	return t.elements[i], i, true
}
