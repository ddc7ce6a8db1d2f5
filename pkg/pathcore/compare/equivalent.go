package compare

import (
	"strings"

	"github.com/cockroachdb/apd/v3"

	"github.com/randalmurphal/pathcore/pkg/pathcore/value"
)

// Equivalent implements the ~ operator. Two empties are equivalent; an
// empty and a non-empty operand are not. Collections compare as multisets.
func Equivalent(a, b value.Value) bool {
	ea, eb := value.IsEmpty(a), value.IsEmpty(b)
	if ea || eb {
		return ea && eb
	}
	left, right := value.Items(a), value.Items(b)
	if len(left) != len(right) {
		return false
	}

	return perfectMatching(left, right)
}

// perfectMatching reports whether every left item can be paired with a
// distinct equivalent right item. Item equivalence is not transitive
// (decimals round to the less precise operand), so a greedy pairing could
// depend on operand order; augmenting paths find a pairing whenever one
// exists.
func perfectMatching(left, right []value.Value) bool {
	adj := make([][]int, len(left))
	for i, x := range left {
		for j, y := range right {
			if equivalentItem(x, y) {
				adj[i] = append(adj[i], j)
			}
		}
		if len(adj[i]) == 0 {
			return false
		}
	}

	owner := make([]int, len(right))
	for j := range owner {
		owner[j] = -1
	}
	var augment func(i int, seen []bool) bool
	augment = func(i int, seen []bool) bool {
		for _, j := range adj[i] {
			if seen[j] {
				continue
			}
			seen[j] = true
			if owner[j] < 0 || augment(owner[j], seen) {
				owner[j] = i
				return true
			}
		}
		return false
	}

	for i := range left {
		if !augment(i, make([]bool, len(right))) {
			return false
		}
	}
	return true
}

// NotEquivalent implements the !~ operator.
func NotEquivalent(a, b value.Value) bool {
	return !Equivalent(a, b)
}

func equivalentItem(a, b value.Value) bool {
	switch x := a.(type) {
	case value.Boolean:
		y, ok := b.(value.Boolean)
		return ok && x == y

	case value.String:
		y, ok := b.(value.String)
		return ok && normalizeString(string(x)) == normalizeString(string(y))

	case value.Integer, value.Decimal, value.Quantity:
		return equivalentNumeric(a, b)

	case value.Date, value.DateTime:
		dx, okA := value.ToDateTime(a)
		dy, okB := value.ToDateTime(b)
		if !okA || !okB {
			return false
		}
		cmp, ok := compareDateTimes(dx, dy)
		return ok && cmp == 0

	case value.Time:
		y, ok := b.(value.Time)
		if !ok {
			return false
		}
		cmp, ok := compareTimes(x, y)
		return ok && cmp == 0

	case *value.Composite:
		y, ok := b.(*value.Composite)
		if !ok || x.Descriptor().Key() != y.Descriptor().Key() {
			return false
		}
		for i := 0; i < x.NumFields(); i++ {
			if !Equivalent(x.FieldAt(i), y.FieldAt(i)) {
				return false
			}
		}
		return true
	}
	return false
}

func equivalentNumeric(a, b value.Value) bool {
	_, aq := a.(value.Quantity)
	_, bq := b.(value.Quantity)
	if aq || bq {
		x, okA := value.ToQuantity(a)
		y, okB := value.ToQuantity(b)
		if !okA || !okB {
			return false
		}
		bx, dx, errX := x.ToBase()
		by, dy, errY := y.ToBase()
		if errX != nil || errY != nil || dx != dy {
			return false
		}
		return equivalentDecimal(bx, by)
	}

	x, okA := value.ToDecimal(a)
	y, okB := value.ToDecimal(b)
	return okA && okB && equivalentDecimal(x, y)
}

// equivalentDecimal rounds both operands to the scale of the less precise
// one before comparing.
func equivalentDecimal(x, y value.Decimal) bool {
	scale := min(x.Scale(), y.Scale())
	ctx := apd.BaseContext.WithPrecision(value.DefaultPrecision)
	ctx.Rounding = apd.RoundHalfUp

	var rx, ry apd.Decimal
	if _, err := ctx.Quantize(&rx, x.Apd(), int32(-scale)); err != nil {
		return false
	}
	if _, err := ctx.Quantize(&ry, y.Apd(), int32(-scale)); err != nil {
		return false
	}
	return rx.Cmp(&ry) == 0
}

func normalizeString(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
