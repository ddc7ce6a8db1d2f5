package value

import (
	"fmt"
	"strings"

	"github.com/randalmurphal/pathcore/pkg/pathcore/types"
)

// Quantity is a decimal value with a UCUM unit or a calendar duration
// keyword. The unit "1" (or "") marks a dimensionless quantity.
type Quantity struct {
	Value Decimal
	Unit  string
}

// NewQuantity builds a quantity from a decimal literal and unit.
func NewQuantity(v, unit string) (Quantity, error) {
	d, err := ParseDecimal(v)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Value: d, Unit: strings.Trim(unit, "'")}, nil
}

// MustQuantity is like NewQuantity but panics on error.
func MustQuantity(v, unit string) Quantity {
	q, err := NewQuantity(v, unit)
	if err != nil {
		panic(err)
	}
	return q
}

// ParseQuantity parses literals such as "5 'mg'", "4 days" or "1.5".
func ParseQuantity(s string) (Quantity, error) {
	num, unit, _ := strings.Cut(strings.TrimSpace(s), " ")
	unit = strings.TrimSpace(unit)
	if strings.HasPrefix(unit, "'") != strings.HasSuffix(unit, "'") {
		return Quantity{}, fmt.Errorf("invalid quantity %q: unbalanced quotes", s)
	}
	if unit != "" && !strings.HasPrefix(unit, "'") && !IsCalendarUnit(unit) {
		return Quantity{}, fmt.Errorf("invalid quantity %q: unquoted unit %q", s, unit)
	}
	return NewQuantity(num, unit)
}

func (Quantity) Type() types.Descriptor { return types.Quantity }
func (Quantity) value()                 {}

// String formats the quantity as a literal.
func (q Quantity) String() string {
	if IsCalendarUnit(q.Unit) {
		return q.Value.String() + " " + q.Unit
	}
	u := q.Unit
	if u == "" {
		u = "1"
	}
	return q.Value.String() + " '" + u + "'"
}
