package compare

import (
	"strings"
	"time"

	perrors "github.com/randalmurphal/pathcore/pkg/pathcore/errors"
	"github.com/randalmurphal/pathcore/pkg/pathcore/value"
)

// Compare orders a against b. ok is false when the result is unknown:
// either operand is empty, the operands are not mutually comparable, or
// temporal precision does not line up. Operands with more than one item
// are an error.
func Compare(a, b value.Value) (cmp int, ok bool, err error) {
	if value.IsEmpty(a) || value.IsEmpty(b) {
		return 0, false, nil
	}
	x, okA := value.Unwrap(a)
	y, okB := value.Unwrap(b)
	if !okA || !okB {
		pos := 0
		if okA {
			pos = 1
		}
		return 0, false, &perrors.ArgumentValidationError{
			Symbol:   "compare",
			Position: pos,
			Message:  "ordering requires single-item operands",
		}
	}

	switch xv := x.(type) {
	case value.Integer:
		if yv, isInt := y.(value.Integer); isInt {
			return cmpInt(int64(xv), int64(yv)), true, nil
		}
		return compareNumeric(x, y)

	case value.Decimal, value.Quantity:
		return compareNumeric(x, y)

	case value.String:
		yv, isStr := y.(value.String)
		if !isStr {
			return 0, false, nil
		}
		return strings.Compare(string(xv), string(yv)), true, nil

	case value.Date, value.DateTime:
		dx, _ := value.ToDateTime(x)
		dy, isTemporal := value.ToDateTime(y)
		if !isTemporal {
			return 0, false, nil
		}
		cmp, ok = compareDateTimes(dx, dy)
		return cmp, ok, nil

	case value.Time:
		yv, isTime := y.(value.Time)
		if !isTime {
			return 0, false, nil
		}
		cmp, ok = compareTimes(xv, yv)
		return cmp, ok, nil
	}
	return 0, false, nil
}

// Less implements the < operator.
func Less(a, b value.Value) (Result, error) {
	return ordered(a, b, func(c int) bool { return c < 0 })
}

// LessOrEqual implements the <= operator.
func LessOrEqual(a, b value.Value) (Result, error) {
	return ordered(a, b, func(c int) bool { return c <= 0 })
}

// Greater implements the > operator.
func Greater(a, b value.Value) (Result, error) {
	return ordered(a, b, func(c int) bool { return c > 0 })
}

// GreaterOrEqual implements the >= operator.
func GreaterOrEqual(a, b value.Value) (Result, error) {
	return ordered(a, b, func(c int) bool { return c >= 0 })
}

func ordered(a, b value.Value, pred func(int) bool) (Result, error) {
	cmp, ok, err := Compare(a, b)
	if err != nil || !ok {
		return Empty, err
	}
	return FromBool(pred(cmp)), nil
}

func compareNumeric(a, b value.Value) (int, bool, error) {
	_, aq := a.(value.Quantity)
	_, bq := b.(value.Quantity)
	if aq || bq {
		x, okA := value.ToQuantity(a)
		y, okB := value.ToQuantity(b)
		if !okA || !okB || value.CalendarRestricted(x.Unit, y.Unit) {
			return 0, false, nil
		}
		bx, dx, err := x.ToBase()
		if err != nil {
			return 0, false, err
		}
		by, dy, err := y.ToBase()
		if err != nil {
			return 0, false, err
		}
		if dx != dy {
			return 0, false, nil
		}
		return bx.Cmp(by), true, nil
	}

	x, okA := value.ToDecimal(a)
	y, okB := value.ToDecimal(b)
	if !okA || !okB {
		return 0, false, nil
	}
	return x.Cmp(y), true, nil
}

// Temporal components compared in order. Seconds and milliseconds share a
// level so 10:00:00 and 10:00:00.000 are comparable.
var temporalLevels = []value.Precision{
	value.PrecisionYear,
	value.PrecisionMonth,
	value.PrecisionDay,
	value.PrecisionHour,
	value.PrecisionMinute,
	value.PrecisionSecond,
}

func compareDateTimes(a, b value.DateTime) (int, bool) {
	if a.HasTime() && b.HasTime() && a.HasTimeZone != b.HasTimeZone {
		return 0, false
	}
	av, bv := a.Value, b.Value
	if a.HasTimeZone && b.HasTimeZone {
		bv = bv.In(av.Location())
	}
	return compareLevels(av, a.Precision, bv, b.Precision, temporalLevels)
}

func compareTimes(a, b value.Time) (int, bool) {
	return compareLevels(a.Value, a.Precision, b.Value, b.Precision, temporalLevels[3:])
}

func compareLevels(a time.Time, ap value.Precision, b time.Time, bp value.Precision, levels []value.Precision) (int, bool) {
	for _, level := range levels {
		hasA, hasB := ap >= level, bp >= level
		if !hasA && !hasB {
			break
		}
		if hasA != hasB {
			return 0, false
		}
		if c := cmpComponent(a, b, level); c != 0 {
			return c, true
		}
	}
	return 0, true
}

func cmpComponent(a, b time.Time, level value.Precision) int {
	switch level {
	case value.PrecisionYear:
		return cmpInt(int64(a.Year()), int64(b.Year()))
	case value.PrecisionMonth:
		return cmpInt(int64(a.Month()), int64(b.Month()))
	case value.PrecisionDay:
		return cmpInt(int64(a.Day()), int64(b.Day()))
	case value.PrecisionHour:
		return cmpInt(int64(a.Hour()), int64(b.Hour()))
	case value.PrecisionMinute:
		return cmpInt(int64(a.Minute()), int64(b.Minute()))
	default:
		if c := cmpInt(int64(a.Second()), int64(b.Second())); c != 0 {
			return c
		}
		return cmpInt(int64(a.Nanosecond()/int(time.Millisecond)), int64(b.Nanosecond()/int(time.Millisecond)))
	}
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
