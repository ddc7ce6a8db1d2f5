package types

// Equal reports structural equality. Names compare by handle identity.
func Equal(a, b Descriptor) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a == b {
		return true
	}
	if a.Kind() != b.Kind() {
		return false
	}

	switch x := a.(type) {
	case *Simple:
		y := b.(*Simple)
		return x.namespace == y.namespace && x.name == y.name && Equal(x.base, y.base)
	case *Composite:
		y := b.(*Composite)
		return x.namespace == y.namespace && x.name == y.name &&
			Equal(x.base, y.base) && elementsEqual(x.elements, y.elements)
	case *List:
		y := b.(*List)
		return x.card == y.card && Equal(x.elem, y.elem)
	case *Tuple:
		y := b.(*Tuple)
		return x.anonymous == y.anonymous && elementsEqual(x.elements, y.elements)
	case *Choice:
		y := b.(*Choice)
		return x.baseName == y.baseName && descriptorsEqual(x.alternatives, y.alternatives)
	case *Reference:
		y := b.(*Reference)
		return x.kind == y.kind && descriptorsEqual(x.targets, y.targets)
	}
	return false
}

func elementsEqual(a, b []Element) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || a[i].Card != b[i].Card || !Equal(a[i].Type, b[i].Type) {
			return false
		}
	}
	return true
}

func descriptorsEqual(a, b []Descriptor) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Distance returns the number of base-type hops from t up to ancestor.
func Distance(t, ancestor Descriptor) (int, bool) {
	hops := 0
	for cur := t; cur != nil; hops++ {
		if Equal(cur, ancestor) {
			return hops, true
		}
		n, ok := cur.(Named)
		if !ok {
			return 0, false
		}
		cur = n.Base()
	}
	return 0, false
}

// IsSubtype reports whether t is ancestor or derives from it.
func IsSubtype(t, ancestor Descriptor) bool {
	_, ok := Distance(t, ancestor)
	return ok
}

// IsPrimitive reports whether t is one of the System primitives.
func IsPrimitive(t Descriptor) bool {
	s, ok := t.(*Simple)
	return ok && s.namespace.String() == SystemNamespace
}
