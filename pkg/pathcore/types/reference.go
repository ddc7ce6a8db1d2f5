package types

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-set/v3"

	perrors "github.com/randalmurphal/pathcore/pkg/pathcore/errors"
)

// RefKind distinguishes the flavors of reference.
type RefKind uint8

const (
	// RefResource points at a resource instance.
	RefResource RefKind = iota
	// RefCanonical points at a definitional artifact by canonical URL.
	RefCanonical
)

func (k RefKind) String() string {
	switch k {
	case RefResource:
		return "reference"
	case RefCanonical:
		return "canonical"
	default:
		return "unknown"
	}
}

// Reference is a typed pointer to instances of its target types. An empty
// target list means any target.
type Reference struct {
	targets []Descriptor
	kind    RefKind
	key     string
}

// NewReference creates a reference type. Targets must be named and distinct.
func NewReference(kind RefKind, targets ...Descriptor) (*Reference, error) {
	ts := make([]Descriptor, len(targets))
	copy(ts, targets)

	seen := set.New[string](len(ts))
	keys := make([]string, len(ts))
	for i, t := range ts {
		n, ok := t.(Named)
		if !ok {
			return nil, &perrors.ConstraintError{Subject: kind.String(), Message: fmt.Sprintf("target %d (%v) is not a named type", i, t)}
		}
		if !seen.Insert(n.QualifiedName()) {
			return nil, &perrors.ConstraintError{Subject: kind.String(), Message: fmt.Sprintf("duplicate target %s", n.QualifiedName())}
		}
		keys[i] = t.Key()
	}

	return &Reference{
		targets: ts,
		kind:    kind,
		key:     keyOf('R', append([]string{kind.String()}, keys...)...),
	}, nil
}

func (r *Reference) Kind() Kind                { return KindReference }
func (r *Reference) Key() string               { return r.key }
func (r *Reference) RefKind() RefKind          { return r.kind }
func (r *Reference) NumTargets() int           { return len(r.targets) }
func (r *Reference) TargetAt(i int) Descriptor { return r.targets[i] }
func (r *Reference) descriptor()               {}

// String formats the reference for diagnostics.
func (r *Reference) String() string {
	names := make([]string, len(r.targets))
	for i, t := range r.targets {
		names[i] = t.String()
	}
	return r.kind.String() + "(" + strings.Join(names, " | ") + ")"
}

// Targets returns a copy of the target types.
func (r *Reference) Targets() []Descriptor {
	out := make([]Descriptor, len(r.targets))
	copy(out, r.targets)
	return out
}

// Admits reports whether a reference of this type may point at t.
func (r *Reference) Admits(t Descriptor) bool {
	if len(r.targets) == 0 {
		return true
	}
	for _, target := range r.targets {
		if IsSubtype(t, target) {
			return true
		}
	}
	return false
}
