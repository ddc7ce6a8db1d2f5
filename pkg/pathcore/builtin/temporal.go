package builtin

import (
	"time"

	"github.com/cockroachdb/apd/v3"

	perrors "github.com/randalmurphal/pathcore/pkg/pathcore/errors"
	"github.com/randalmurphal/pathcore/pkg/pathcore/value"
)

// truncate rounds toward zero when converting durations to whole units.
var truncate = &apd.Context{Precision: value.DefaultPrecision, Rounding: apd.RoundDown, MaxExponent: apd.MaxExponent, MinExponent: apd.MinExponent}

// shiftTemporal adds sign*q to a Date, DateTime or Time. Calendar units
// (years through days) count whole units; hours and minutes are truncated
// to whole units too, while seconds keep their fraction down to the
// nanosecond. The result keeps the precision of the input.
func shiftTemporal(symbol string, v value.Value, q value.Quantity, sign int) (value.Value, error) {
	unit := value.CanonicalUnit(q.Unit)
	amount := q.Value.Apd()
	if sign < 0 {
		amount.Neg(amount)
	}

	switch x := v.(type) {
	case value.Date:
		if !isDateUnit(unit) {
			return nil, unsupportedUnit(symbol, v, q)
		}
		t, err := shiftTime(symbol, x.Value, unit, amount)
		if err != nil {
			return nil, err
		}
		return value.Date{Value: t, Precision: x.Precision}, nil

	case value.DateTime:
		if !isDateUnit(unit) && !isClockUnit(unit) {
			return nil, unsupportedUnit(symbol, v, q)
		}
		t, err := shiftTime(symbol, x.Value, unit, amount)
		if err != nil {
			return nil, err
		}
		return value.DateTime{Value: t, Precision: x.Precision, HasTimeZone: x.HasTimeZone}, nil

	case value.Time:
		if !isClockUnit(unit) {
			return nil, unsupportedUnit(symbol, v, q)
		}
		d, err := clockDuration(symbol, unit, amount)
		if err != nil {
			return nil, err
		}
		// Wrap around midnight, staying on the original date.
		day := time.Date(x.Value.Year(), x.Value.Month(), x.Value.Day(), 0, 0, 0, 0, x.Value.Location())
		offset := (x.Value.Sub(day) + d) % (24 * time.Hour)
		if offset < 0 {
			offset += 24 * time.Hour
		}
		return value.Time{Value: day.Add(offset), Precision: x.Precision}, nil
	}
	return nil, unsupportedUnit(symbol, v, q)
}

func isDateUnit(u string) bool {
	switch u {
	case "a", "mo", "wk", "d":
		return true
	}
	return false
}

func isClockUnit(u string) bool {
	switch u {
	case "h", "min", "s", "ms":
		return true
	}
	return false
}

func shiftTime(symbol string, t time.Time, unit string, amount *apd.Decimal) (time.Time, error) {
	if isClockUnit(unit) {
		d, err := clockDuration(symbol, unit, amount)
		if err != nil {
			return time.Time{}, err
		}
		return t.Add(d), nil
	}

	n, err := whole(symbol, amount)
	if err != nil {
		return time.Time{}, err
	}
	switch unit {
	case "a":
		return addMonths(t, 12*n), nil
	case "mo":
		return addMonths(t, n), nil
	case "wk":
		return t.AddDate(0, 0, int(7*n)), nil
	default:
		return t.AddDate(0, 0, int(n)), nil
	}
}

// addMonths moves t by n months, clamping the day to the end of the target
// month so that Jan 31 + 1 month is Feb 28 (or 29).
func addMonths(t time.Time, n int64) time.Time {
	total := int64(t.Year())*12 + int64(t.Month()-1) + n
	year, month := int(total/12), time.Month(total%12+1)
	if total < 0 && total%12 != 0 {
		year, month = int(total/12)-1, time.Month(total%12+13)
	}
	day := min(t.Day(), daysIn(year, month))
	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func clockDuration(symbol string, unit string, amount *apd.Decimal) (time.Duration, error) {
	switch unit {
	case "h", "min":
		n, err := whole(symbol, amount)
		if err != nil {
			return 0, err
		}
		if unit == "h" {
			return time.Duration(n) * time.Hour, nil
		}
		return time.Duration(n) * time.Minute, nil
	}

	scale := int32(9) // s
	if unit == "ms" {
		scale = 6
	}
	var ns apd.Decimal
	ns.Set(amount)
	ns.Exponent += scale
	n, err := whole(symbol, &ns)
	if err != nil {
		return 0, err
	}
	return time.Duration(n), nil
}

// whole truncates d toward zero.
func whole(symbol string, d *apd.Decimal) (int64, error) {
	var out apd.Decimal
	if _, err := truncate.Quantize(&out, d, 0); err != nil {
		return 0, &perrors.DomainError{Symbol: symbol, Message: "duration out of range", Err: err}
	}
	n, err := out.Int64()
	if err != nil {
		return 0, &perrors.DomainError{Symbol: symbol, Message: "duration out of range", Err: err}
	}
	return n, nil
}

func unsupportedUnit(symbol string, v value.Value, q value.Quantity) error {
	return &perrors.DomainError{
		Symbol:  symbol,
		Message: "cannot shift " + v.Type().String() + " by " + q.String(),
	}
}
