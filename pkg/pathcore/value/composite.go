package value

import (
	"fmt"
	"strings"

	perrors "github.com/randalmurphal/pathcore/pkg/pathcore/errors"
	"github.com/randalmurphal/pathcore/pkg/pathcore/types"
)

// Composite is a structured value whose fields follow the element order of
// its type. Unset fields are Empty.
type Composite struct {
	typ    *types.Composite
	fields []Value
}

// NewComposite builds a composite from named fields. Unknown names and
// fields exceeding their element cardinality are rejected.
func NewComposite(t *types.Composite, fields map[string]Value) (*Composite, error) {
	vals := make([]Value, t.NumElements())
	for i := range vals {
		vals[i] = Empty{}
	}
	for name, v := range fields {
		e, idx, ok := t.Element(name)
		if !ok {
			return nil, &perrors.ConstraintError{Subject: t.QualifiedName(), Message: fmt.Sprintf("unknown element %q", name)}
		}
		n := len(Items(v))
		if e.Card.Max != types.Unbounded && n > e.Card.Max {
			return nil, &perrors.ConstraintError{
				Subject: t.QualifiedName(),
				Message: fmt.Sprintf("element %q holds %d items, cardinality %s", name, n, e.Card),
			}
		}
		if n == 0 {
			continue
		}
		if c, ok := v.(Collection); ok && len(c) == 1 {
			v = c[0]
		}
		vals[idx] = v
	}
	return &Composite{typ: t, fields: vals}, nil
}

// MustComposite is like NewComposite but panics on error.
func MustComposite(t *types.Composite, fields map[string]Value) *Composite {
	c, err := NewComposite(t, fields)
	if err != nil {
		panic(err)
	}
	return c
}

// Field returns the named field, or Empty when unset or unknown.
func (c *Composite) Field(name string) Value {
	_, idx, ok := c.typ.Element(name)
	if !ok {
		return Empty{}
	}
	return c.fields[idx]
}

// FieldAt returns the field at element position i.
func (c *Composite) FieldAt(i int) Value {
	return c.fields[i]
}

// NumFields returns the number of declared elements.
func (c *Composite) NumFields() int {
	return len(c.fields)
}

// Descriptor returns the composite type.
func (c *Composite) Descriptor() *types.Composite {
	return c.typ
}

// Children returns every set field, flattened in element order.
func (c *Composite) Children() Collection {
	return NewCollection(c.fields...)
}

func (c *Composite) Type() types.Descriptor { return c.typ }
func (c *Composite) value()                 {}

// String formats the composite for diagnostics.
func (c *Composite) String() string {
	var sb strings.Builder
	sb.WriteString(c.typ.QualifiedName())
	sb.WriteByte('{')
	first := true
	for i, f := range c.fields {
		if IsEmpty(f) {
			continue
		}
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(c.typ.ElementAt(i).Name.String())
		sb.WriteString(": ")
		sb.WriteString(f.String())
	}
	sb.WriteByte('}')
	return sb.String()
}
