package value

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"

	"github.com/randalmurphal/pathcore/pkg/pathcore/types"
)

// DefaultPrecision is the number of significant digits used for decimal
// arithmetic when no precision is configured.
const DefaultPrecision = 34

// Arithmetic is the decimal context used for unit conversion.
var Arithmetic = apd.BaseContext.WithPrecision(DefaultPrecision)

// Decimal is a System.Decimal. The zero value is 0.
type Decimal struct {
	d *apd.Decimal
}

// NewDecimal copies d into a Decimal.
func NewDecimal(d *apd.Decimal) Decimal {
	var c apd.Decimal
	c.Set(d)
	return Decimal{d: &c}
}

// DecimalFromInt converts an integer exactly.
func DecimalFromInt(i int64) Decimal {
	return Decimal{d: apd.New(i, 0)}
}

// ParseDecimal parses a decimal literal such as "1.50".
func ParseDecimal(s string) (Decimal, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return Decimal{}, fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	if d.Form != apd.Finite {
		return Decimal{}, fmt.Errorf("invalid decimal %q: not finite", s)
	}
	return Decimal{d: d}, nil
}

// MustDecimal is like ParseDecimal but panics on error.
func MustDecimal(s string) Decimal {
	d, err := ParseDecimal(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Decimal) big() *apd.Decimal {
	if d.d == nil {
		return apd.New(0, 0)
	}
	return d.d
}

// Apd returns a copy of the underlying decimal.
func (d Decimal) Apd() *apd.Decimal {
	var c apd.Decimal
	c.Set(d.big())
	return &c
}

// Scale returns the number of digits after the decimal point.
func (d Decimal) Scale() int {
	if exp := d.big().Exponent; exp < 0 {
		return int(-exp)
	}
	return 0
}

// NumDigits returns the number of significant digits.
func (d Decimal) NumDigits() int64 {
	return d.big().NumDigits()
}

// Cmp compares numerically, ignoring trailing zeros.
func (d Decimal) Cmp(o Decimal) int {
	return d.big().Cmp(o.big())
}

// Sign returns -1, 0 or 1.
func (d Decimal) Sign() int {
	return d.big().Sign()
}

func (Decimal) Type() types.Descriptor { return types.Decimal }
func (d Decimal) String() string       { return d.big().Text('f') }
func (Decimal) value()                 {}
