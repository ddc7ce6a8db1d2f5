package compare

import (
	"github.com/randalmurphal/pathcore/pkg/pathcore/value"
)

// Equal implements the = operator. It is commutative and total: mismatched
// types are simply unequal.
func Equal(a, b value.Value) Result {
	if value.IsEmpty(a) || value.IsEmpty(b) {
		return Empty
	}
	left, right := value.Items(a), value.Items(b)
	if len(left) != len(right) {
		return False
	}

	out := True
	for i := range left {
		switch equalItem(left[i], right[i]) {
		case False:
			return False
		case Empty:
			out = Empty
		}
	}
	return out
}

func equalItem(a, b value.Value) Result {
	switch x := a.(type) {
	case value.Boolean:
		y, ok := b.(value.Boolean)
		return FromBool(ok && x == y)

	case value.String:
		y, ok := b.(value.String)
		return FromBool(ok && x == y)

	case value.Integer:
		if y, ok := b.(value.Integer); ok {
			return FromBool(x == y)
		}
		return equalNumeric(a, b)

	case value.Decimal:
		return equalNumeric(a, b)

	case value.Quantity:
		return equalNumeric(a, b)

	case value.Date, value.DateTime:
		return equalTemporal(a, b)

	case value.Time:
		y, ok := b.(value.Time)
		if !ok {
			return False
		}
		return fromCmp(compareTimes(x, y))

	case *value.Composite:
		y, ok := b.(*value.Composite)
		if !ok {
			return False
		}
		return equalComposite(x, y)
	}
	return False
}

func equalNumeric(a, b value.Value) Result {
	_, aq := a.(value.Quantity)
	_, bq := b.(value.Quantity)
	if aq || bq {
		x, okA := value.ToQuantity(a)
		y, okB := value.ToQuantity(b)
		if !okA || !okB {
			return False
		}
		return equalQuantity(x, y)
	}

	x, okA := value.ToDecimal(a)
	y, okB := value.ToDecimal(b)
	if !okA || !okB {
		return False
	}
	return FromBool(x.Cmp(y) == 0)
}

func equalQuantity(x, y value.Quantity) Result {
	if value.CalendarRestricted(x.Unit, y.Unit) {
		return Empty
	}
	bx, dx, errX := x.ToBase()
	by, dy, errY := y.ToBase()
	if errX != nil || errY != nil || dx != dy {
		return False
	}
	return FromBool(bx.Cmp(by) == 0)
}

func equalTemporal(a, b value.Value) Result {
	if x, ok := a.(value.Date); ok {
		if y, ok := b.(value.Date); ok {
			return fromCmp(compareDateTimes(x.ToDateTime(), y.ToDateTime()))
		}
	}
	x, okA := value.ToDateTime(a)
	y, okB := value.ToDateTime(b)
	if !okA || !okB {
		return False
	}
	return fromCmp(compareDateTimes(x, y))
}

func equalComposite(x, y *value.Composite) Result {
	if x.Descriptor() != y.Descriptor() && x.Descriptor().Key() != y.Descriptor().Key() {
		return False
	}
	out := True
	for i := 0; i < x.NumFields(); i++ {
		fx, fy := x.FieldAt(i), y.FieldAt(i)
		ex, ey := value.IsEmpty(fx), value.IsEmpty(fy)
		if ex || ey {
			if ex != ey {
				return False
			}
			continue
		}
		switch Equal(fx, fy) {
		case False:
			return False
		case Empty:
			out = Empty
		}
	}
	return out
}

func fromCmp(cmp int, ok bool) Result {
	if !ok {
		return Empty
	}
	return FromBool(cmp == 0)
}

// NotEqual implements the != operator.
func NotEqual(a, b value.Value) Result {
	return Equal(a, b).Not()
}
