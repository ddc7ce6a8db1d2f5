package types

import (
	"errors"
	"strings"

	perrors "github.com/randalmurphal/pathcore/pkg/pathcore/errors"
	"github.com/randalmurphal/pathcore/pkg/pathcore/intern"
	"github.com/randalmurphal/pathcore/pkg/pathcore/registry"
)

// Catalog resolves type names to descriptors. It starts with the System
// primitives; model providers add their types during bootstrap.
type Catalog struct {
	byName     *registry.Registry[intern.Handle, Named]
	namespaces []string
}

// NewCatalog creates a catalog. Unqualified names are searched in the
// given namespaces first, then in System.
func NewCatalog(namespaces ...string) *Catalog {
	c := &Catalog{
		byName:     registry.New[intern.Handle, Named](),
		namespaces: append(append([]string(nil), namespaces...), SystemNamespace),
	}
	for _, p := range Primitives() {
		// Fresh registry, cannot collide.
		_ = c.byName.Register(intern.String(p.QualifiedName()), p)
	}
	return c
}

// Register adds a named type under its qualified name.
func (c *Catalog) Register(t Named) error {
	name := t.QualifiedName()
	err := c.byName.Register(intern.String(name), t)
	switch {
	case errors.Is(err, registry.ErrExists):
		return &perrors.DuplicateRegistrationError{Symbol: name, Reason: "type already defined"}
	case errors.Is(err, registry.ErrFrozen):
		return &perrors.ConstraintError{Subject: name, Message: "type catalog is frozen"}
	}
	return err
}

// Freeze ends bootstrap; later registrations fail.
func (c *Catalog) Freeze() {
	c.byName.Freeze()
}

// Lookup resolves a qualified or unqualified type name.
func (c *Catalog) Lookup(name string) (Named, bool) {
	if strings.Contains(name, ".") {
		if t, ok := c.get(name); ok {
			return t, true
		}
	}
	for _, ns := range c.namespaces {
		if t, ok := c.get(ns + "." + name); ok {
			return t, true
		}
	}
	return nil, false
}

func (c *Catalog) get(qualified string) (Named, bool) {
	h, ok := intern.Default.Lookup(qualified)
	if !ok {
		return nil, false
	}
	return c.byName.Get(h)
}

// Types returns every registered type in registration order.
func (c *Catalog) Types() []Named {
	out := make([]Named, 0, c.byName.Len())
	c.byName.Range(func(_ intern.Handle, t Named) bool {
		out = append(out, t)
		return true
	})
	return out
}

// Len returns the number of registered types.
func (c *Catalog) Len() int {
	return c.byName.Len()
}
