package value

import (
	"fmt"
	"strings"
	"time"

	"github.com/randalmurphal/pathcore/pkg/pathcore/types"
)

// Precision is the finest component a temporal value carries. Seconds and
// milliseconds count as one level when comparing.
type Precision uint8

const (
	PrecisionYear Precision = iota
	PrecisionMonth
	PrecisionDay
	PrecisionHour
	PrecisionMinute
	PrecisionSecond
	PrecisionMillisecond
)

func (p Precision) String() string {
	switch p {
	case PrecisionYear:
		return "year"
	case PrecisionMonth:
		return "month"
	case PrecisionDay:
		return "day"
	case PrecisionHour:
		return "hour"
	case PrecisionMinute:
		return "minute"
	case PrecisionSecond:
		return "second"
	case PrecisionMillisecond:
		return "millisecond"
	default:
		return "unknown"
	}
}

// Date is a calendar date at year, month or day precision.
type Date struct {
	Value     time.Time
	Precision Precision
}

func (Date) Type() types.Descriptor { return types.Date }
func (Date) value()                 {}

// String formats the date at its precision.
func (d Date) String() string {
	return formatDate(d.Value, d.Precision)
}

// ToDateTime converts a date to a date-time of the same precision.
func (d Date) ToDateTime() DateTime {
	return DateTime{Value: d.Value, Precision: d.Precision}
}

// Time is a time of day at hour through millisecond precision.
type Time struct {
	Value     time.Time
	Precision Precision
}

func (Time) Type() types.Descriptor { return types.Time }
func (Time) value()                 {}

// String formats the time at its precision.
func (t Time) String() string {
	return formatClock(t.Value, t.Precision)
}

// DateTime is a point in time at any precision. Values without an explicit
// offset are held in UTC with HasTimeZone false.
type DateTime struct {
	Value       time.Time
	Precision   Precision
	HasTimeZone bool
}

func (DateTime) Type() types.Descriptor { return types.DateTime }
func (DateTime) value()                 {}

// HasTime reports whether the value carries a time-of-day component.
func (dt DateTime) HasTime() bool {
	return dt.Precision >= PrecisionHour
}

// String formats the date-time at its precision.
func (dt DateTime) String() string {
	s := formatDate(dt.Value, min(dt.Precision, PrecisionDay))
	if !dt.HasTime() {
		return s
	}
	s += "T" + formatClock(dt.Value, dt.Precision)
	if dt.HasTimeZone {
		_, off := dt.Value.Zone()
		if off == 0 {
			s += "Z"
		} else {
			s += dt.Value.Format("-07:00")
		}
	}
	return s
}

func formatDate(t time.Time, p Precision) string {
	switch p {
	case PrecisionYear:
		return t.Format("2006")
	case PrecisionMonth:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

func formatClock(t time.Time, p Precision) string {
	switch p {
	case PrecisionHour:
		return t.Format("15")
	case PrecisionMinute:
		return t.Format("15:04")
	case PrecisionSecond:
		return t.Format("15:04:05")
	default:
		return t.Format("15:04:05.000")
	}
}

// ParseDate parses YYYY, YYYY-MM or YYYY-MM-DD, with an optional leading @.
func ParseDate(s string) (Date, error) {
	ds := strings.TrimPrefix(s, "@")
	layouts := []struct {
		layout string
		prec   Precision
	}{
		{"2006", PrecisionYear},
		{"2006-01", PrecisionMonth},
		{"2006-01-02", PrecisionDay},
	}
	for _, l := range layouts {
		if len(ds) != len(l.layout) {
			continue
		}
		if t, err := time.Parse(l.layout, ds); err == nil {
			return Date{Value: t, Precision: l.prec}, nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q", s)
}

// ParseTime parses hh, hh:mm, hh:mm:ss or hh:mm:ss.fff, with an optional
// leading @T or T.
func ParseTime(s string) (Time, error) {
	ts := strings.TrimPrefix(strings.TrimPrefix(s, "@"), "T")
	h, m, sec, ns, prec, err := parseClock(ts)
	if err != nil {
		return Time{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return Time{Value: time.Date(0, 1, 1, h, m, sec, ns, time.UTC), Precision: prec}, nil
}

// ParseDateTime parses a date, optionally followed by T and a time with an
// optional Z or ±hh:mm offset.
func ParseDateTime(s string) (DateTime, error) {
	ds, ts, hasT := strings.Cut(strings.TrimPrefix(s, "@"), "T")
	d, err := ParseDate(ds)
	if err != nil {
		return DateTime{}, fmt.Errorf("invalid date-time %q: %w", s, err)
	}
	if !hasT || ts == "" {
		return d.ToDateTime(), nil
	}
	if d.Precision != PrecisionDay {
		return DateTime{}, fmt.Errorf("invalid date-time %q: time requires a full date", s)
	}

	loc := time.UTC
	hasTZ := false
	if i := strings.IndexAny(ts, "Z+-"); i >= 0 {
		zone := ts[i:]
		ts = ts[:i]
		hasTZ = true
		if zone != "Z" {
			z, err := time.Parse("-07:00", zone)
			if err != nil {
				return DateTime{}, fmt.Errorf("invalid date-time %q: bad offset %q", s, zone)
			}
			_, off := z.Zone()
			loc = time.FixedZone("", off)
		}
	}

	h, m, sec, ns, prec, err := parseClock(ts)
	if err != nil {
		return DateTime{}, fmt.Errorf("invalid date-time %q: %w", s, err)
	}
	v := time.Date(d.Value.Year(), d.Value.Month(), d.Value.Day(), h, m, sec, ns, loc)
	return DateTime{Value: v, Precision: prec, HasTimeZone: hasTZ}, nil
}

func parseClock(s string) (h, m, sec, ns int, prec Precision, err error) {
	layouts := []struct {
		layout string
		prec   Precision
	}{
		{"15", PrecisionHour},
		{"15:04", PrecisionMinute},
		{"15:04:05", PrecisionSecond},
	}
	for _, l := range layouts {
		if len(s) != len(l.layout) {
			continue
		}
		if t, perr := time.Parse(l.layout, s); perr == nil {
			return t.Hour(), t.Minute(), t.Second(), 0, l.prec, nil
		}
	}
	if strings.Contains(s, ".") {
		if t, perr := time.Parse("15:04:05.999999999", s); perr == nil {
			ms := t.Nanosecond() / int(time.Millisecond)
			return t.Hour(), t.Minute(), t.Second(), ms * int(time.Millisecond), PrecisionMillisecond, nil
		}
	}
	return 0, 0, 0, 0, 0, fmt.Errorf("unrecognized time %q", s)
}

// MustDate, MustTime and MustDateTime panic on malformed input. They are
// meant for literals in tests and examples.

func MustDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func MustTime(s string) Time {
	t, err := ParseTime(s)
	if err != nil {
		panic(err)
	}
	return t
}

func MustDateTime(s string) DateTime {
	dt, err := ParseDateTime(s)
	if err != nil {
		panic(err)
	}
	return dt
}
