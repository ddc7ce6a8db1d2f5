// Package compare implements equality, equivalence and ordering over values.
//
// Equality and ordering are three-valued: besides true and false they can
// be Empty, meaning the answer is unknown. Empty operands, temporal values
// with mismatched precision, and quantities in calendar units that cannot
// be related all produce Empty. Equivalence is two-valued and more lenient:
// strings ignore case and whitespace, decimals compare at the precision of
// the less precise operand, collections ignore order.
package compare

import "github.com/randalmurphal/pathcore/pkg/pathcore/value"

// Result is a three-valued boolean. The zero value is Empty.
type Result int8

const (
	Empty Result = iota
	False
	True
)

// FromBool converts a definite boolean.
func FromBool(b bool) Result {
	if b {
		return True
	}
	return False
}

// Known reports whether the result is true or false.
func (r Result) Known() bool {
	return r != Empty
}

// Bool returns the definite value and whether there is one.
func (r Result) Bool() (bool, bool) {
	return r == True, r != Empty
}

// Not negates a known result; Empty stays Empty.
func (r Result) Not() Result {
	switch r {
	case True:
		return False
	case False:
		return True
	}
	return Empty
}

// Value converts the result to a runtime value.
func (r Result) Value() value.Value {
	switch r {
	case True:
		return value.Boolean(true)
	case False:
		return value.Boolean(false)
	}
	return value.Empty{}
}

func (r Result) String() string {
	switch r {
	case True:
		return "true"
	case False:
		return "false"
	}
	return "empty"
}
