package value

import (
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// unit relates a UCUM code to its base unit by an exact decimal factor.
type unit struct {
	code      string
	dimension string
	factor    *apd.Decimal
}

var unitTable = map[string]unit{}

func init() {
	defs := []struct{ code, dimension, factor string }{
		{"1", "1", "1"},
		{"%", "1", "0.01"},

		{"m", "m", "1"},
		{"km", "m", "1000"},
		{"cm", "m", "0.01"},
		{"mm", "m", "0.001"},
		{"um", "m", "0.000001"},
		{"nm", "m", "0.000000001"},
		{"[in_i]", "m", "0.0254"},
		{"[ft_i]", "m", "0.3048"},

		{"g", "g", "1"},
		{"kg", "g", "1000"},
		{"mg", "g", "0.001"},
		{"ug", "g", "0.000001"},
		{"ng", "g", "0.000000001"},
		{"[lb_av]", "g", "453.59237"},

		{"s", "s", "1"},
		{"ms", "s", "0.001"},
		{"min", "s", "60"},
		{"h", "s", "3600"},
		{"d", "s", "86400"},
		{"wk", "s", "604800"},
		{"mo", "s", "2629800"},
		{"a", "s", "31557600"},

		{"L", "L", "1"},
		{"l", "L", "1"},
		{"dL", "L", "0.1"},
		{"mL", "L", "0.001"},
		{"uL", "L", "0.000001"},

		{"mmol/L", "mol/L", "0.001"},
		{"mol/L", "mol/L", "1"},
		{"mg/dL", "g/L", "0.01"},
		{"g/L", "g/L", "1"},
	}
	for _, d := range defs {
		f, _, err := apd.NewFromString(d.factor)
		if err != nil {
			panic(err)
		}
		unitTable[d.code] = unit{code: d.code, dimension: d.dimension, factor: f}
	}
}

// calendarUnits maps calendar duration keywords to their UCUM codes.
var calendarUnits = map[string]string{
	"year": "a", "years": "a",
	"month": "mo", "months": "mo",
	"week": "wk", "weeks": "wk",
	"day": "d", "days": "d",
	"hour": "h", "hours": "h",
	"minute": "min", "minutes": "min",
	"second": "s", "seconds": "s",
	"millisecond": "ms", "milliseconds": "ms",
}

// IsCalendarUnit reports whether u is a calendar duration keyword.
func IsCalendarUnit(u string) bool {
	_, ok := calendarUnits[u]
	return ok
}

// CanonicalUnit maps calendar keywords to UCUM and strips quotes. The empty
// unit is "1".
func CanonicalUnit(u string) string {
	u = strings.Trim(u, "'")
	if u == "" {
		return "1"
	}
	if code, ok := calendarUnits[u]; ok {
		return code
	}
	return u
}

func lookupUnit(code string) unit {
	if u, ok := unitTable[code]; ok {
		return u
	}
	// Unknown units only match themselves.
	return unit{code: code, dimension: "?" + code, factor: apd.New(1, 0)}
}

// ToBase converts q to the base unit of its dimension and reports the
// dimension name.
func (q Quantity) ToBase() (Decimal, string, error) {
	u := lookupUnit(CanonicalUnit(q.Unit))
	var out apd.Decimal
	if _, err := Arithmetic.Mul(&out, q.Value.big(), u.factor); err != nil {
		return Decimal{}, "", err
	}
	return Decimal{d: &out}, u.dimension, nil
}

// Comparable reports whether two units measure the same dimension.
func Comparable(a, b string) bool {
	return lookupUnit(CanonicalUnit(a)).dimension == lookupUnit(CanonicalUnit(b)).dimension
}

// ConvertTo expresses q in unit target.
func (q Quantity) ConvertTo(target string) (Quantity, bool, error) {
	to := lookupUnit(CanonicalUnit(target))
	base, dim, err := q.ToBase()
	if err != nil {
		return Quantity{}, false, err
	}
	if dim != to.dimension {
		return Quantity{}, false, nil
	}
	var out apd.Decimal
	if _, err := Arithmetic.Quo(&out, base.big(), to.factor); err != nil {
		return Quantity{}, false, err
	}
	out.Reduce(&out)
	return Quantity{Value: Decimal{d: &out}, Unit: target}, true, nil
}

// CalendarRestricted reports whether an equality between a calendar
// duration and a definite UCUM duration of variable length must be empty,
// as in 1 year = 1 'a'.
func CalendarRestricted(a, b string) bool {
	la, lb := IsCalendarUnit(strings.Trim(a, "'")), IsCalendarUnit(strings.Trim(b, "'"))
	if la == lb {
		return false
	}
	code := CanonicalUnit(a)
	if lb {
		code = CanonicalUnit(b)
	}
	return code == "a" || code == "mo"
}
