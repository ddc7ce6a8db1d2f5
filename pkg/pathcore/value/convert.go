package value

// Implicit conversions. Each returns ok=false when v is not convertible;
// none of them consult explicit conversion rules such as string parsing.

// ToDecimal widens Integer to Decimal.
func ToDecimal(v Value) (Decimal, bool) {
	switch x := v.(type) {
	case Decimal:
		return x, true
	case Integer:
		return DecimalFromInt(int64(x)), true
	}
	return Decimal{}, false
}

// ToQuantity widens Integer and Decimal to a dimensionless Quantity.
func ToQuantity(v Value) (Quantity, bool) {
	switch x := v.(type) {
	case Quantity:
		return x, true
	case Decimal:
		return Quantity{Value: x, Unit: "1"}, true
	case Integer:
		return Quantity{Value: DecimalFromInt(int64(x)), Unit: "1"}, true
	}
	return Quantity{}, false
}

// ToDateTime widens Date to DateTime.
func ToDateTime(v Value) (DateTime, bool) {
	switch x := v.(type) {
	case DateTime:
		return x, true
	case Date:
		return x.ToDateTime(), true
	}
	return DateTime{}, false
}

// IsNumeric reports whether v is an Integer or Decimal.
func IsNumeric(v Value) bool {
	switch v.(type) {
	case Integer, Decimal:
		return true
	}
	return false
}
