package types

import (
	"errors"
	"fmt"

	"github.com/zeebo/xxh3"

	perrors "github.com/randalmurphal/pathcore/pkg/pathcore/errors"
	"github.com/randalmurphal/pathcore/pkg/pathcore/intern"
	"github.com/randalmurphal/pathcore/pkg/pathcore/lookup"
)

// Simple is a named primitive type.
type Simple struct {
	namespace intern.Handle
	name      intern.Handle
	base      Descriptor
	key       string
}

// NewSimple creates a primitive type. base may be nil for a root type.
func NewSimple(namespace, name string, base Descriptor) (*Simple, error) {
	if name == "" {
		return nil, &perrors.ConstraintError{Subject: "simple type", Message: "empty name"}
	}
	s := &Simple{
		namespace: intern.String(namespace),
		name:      intern.String(name),
		base:      base,
	}
	if base != nil {
		s.key = keyOf('S', namespace, name, base.Key())
	} else {
		s.key = keyOf('S', namespace, name)
	}
	return s, nil
}

func (s *Simple) Kind() Kind               { return KindSimple }
func (s *Simple) Key() string              { return s.key }
func (s *Simple) String() string           { return s.QualifiedName() }
func (s *Simple) Namespace() intern.Handle { return s.namespace }
func (s *Simple) Name() intern.Handle      { return s.name }
func (s *Simple) Base() Descriptor         { return s.base }
func (s *Simple) QualifiedName() string    { return qualify(s.namespace.String(), s.name.String()) }
func (s *Simple) descriptor()              {}

// Composite is a named structured type with an element lookup table.
type Composite struct {
	namespace intern.Handle
	name      intern.Handle
	base      Descriptor
	elements  []Element
	index     *lookup.Table
	key       string
}

// NewComposite creates a structured type. The element slice is copied, so
// the caller may reuse it. Element names must be unique and non-empty.
func NewComposite(namespace, name string, base Descriptor, elements []Element) (*Composite, error) {
	qualified := qualify(namespace, name)
	if name == "" {
		return nil, &perrors.ConstraintError{Subject: "composite type", Message: "empty name"}
	}
	elems, index, err := finalizeElements(qualified, elements)
	if err != nil {
		return nil, err
	}

	c := &Composite{
		namespace: intern.String(namespace),
		name:      intern.String(name),
		base:      base,
		elements:  elems,
		index:     index,
	}

	shape := make([]string, 0, len(elems)+1)
	if base != nil {
		shape = append(shape, base.Key())
	} else {
		shape = append(shape, "")
	}
	for _, e := range elems {
		shape = append(shape, e.key())
	}
	fp := xxh3.HashString128(keyOf('F', shape...))
	c.key = keyOf('C', namespace, name, fmt.Sprintf("%016x%016x", fp.Hi, fp.Lo))
	return c, nil
}

func (c *Composite) Kind() Kind               { return KindComposite }
func (c *Composite) Key() string              { return c.key }
func (c *Composite) String() string           { return c.QualifiedName() }
func (c *Composite) Namespace() intern.Handle { return c.namespace }
func (c *Composite) Name() intern.Handle      { return c.name }
func (c *Composite) Base() Descriptor         { return c.base }
func (c *Composite) QualifiedName() string    { return qualify(c.namespace.String(), c.name.String()) }
func (c *Composite) descriptor()              {}

// NumElements returns the number of declared elements.
func (c *Composite) NumElements() int { return len(c.elements) }

// ElementAt returns the element at position i.
func (c *Composite) ElementAt(i int) Element { return c.elements[i] }

// Elements returns a copy of the declared elements.
func (c *Composite) Elements() []Element {
	out := make([]Element, len(c.elements))
	copy(out, c.elements)
	return out
}

// Element finds an element by name.
func (c *Composite) Element(name string) (Element, int, bool) {
	i, ok := c.index.Index(name)
	if !ok {
		return Element{}, 0, false
	}
	return c.elements[i], i, true
}

// ElementOf finds an element by interned name.
func (c *Composite) ElementOf(name intern.Handle) (Element, int, bool) {
	i, ok := c.index.IndexOf(name)
	if !ok {
		return Element{}, 0, false
	}
	return c.elements[i], i, true
}

// finalizeElements validates and copies an element list and builds its lookup.
func finalizeElements(subject string, elements []Element) ([]Element, *lookup.Table, error) {
	elems := make([]Element, len(elements))
	copy(elems, elements)

	b := lookup.NewBuilder(len(elems))
	for i, e := range elems {
		if !e.Name.IsValid() || e.Name.String() == "" {
			return nil, nil, &perrors.ConstraintError{Subject: subject, Message: fmt.Sprintf("element %d has no name", i)}
		}
		if e.Type == nil {
			return nil, nil, &perrors.ConstraintError{Subject: subject, Message: fmt.Sprintf("element %q has no type", e.Name)}
		}
		if !e.Card.Valid() {
			return nil, nil, &perrors.ConstraintError{Subject: subject, Message: fmt.Sprintf("element %q has invalid cardinality %s", e.Name, e.Card)}
		}
		b.Add(e.Name)
	}

	index, err := b.Build()
	if err != nil {
		var ce *perrors.ConstraintError
		if errors.As(err, &ce) {
			return nil, nil, &perrors.ConstraintError{Subject: subject, Message: ce.Message}
		}
		return nil, nil, err
	}
	return elems, index, nil
}

func qualify(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}
