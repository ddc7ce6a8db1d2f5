package builtin

import (
	"math"

	"github.com/cockroachdb/apd/v3"

	perrors "github.com/randalmurphal/pathcore/pkg/pathcore/errors"
	"github.com/randalmurphal/pathcore/pkg/pathcore/operation"
	"github.com/randalmurphal/pathcore/pkg/pathcore/types"
	"github.com/randalmurphal/pathcore/pkg/pathcore/value"
)

func pair(t types.Descriptor) operation.Signature {
	return operation.Sig(t, t, t)
}

func (l *Library) arithmetic() []operation.Operation {
	return build(
		def{
			symbol: "+",
			kind:   binary(PrecAdditive),
			sigs: sigs(
				pair(types.Integer), pair(types.Decimal), pair(types.Quantity), pair(types.String),
				operation.Sig(types.Date, types.Date, types.Quantity),
				operation.Sig(types.DateTime, types.DateTime, types.Quantity),
				operation.Sig(types.Time, types.Time, types.Quantity),
			),
			propagates: true,
			doc:        "Addition, string concatenation and date arithmetic.",
			fn:         func(args []value.Value) (value.Value, error) { return l.add("+", args, 1) },
		},
		def{
			symbol: "-",
			kind:   binary(PrecAdditive),
			sigs: sigs(
				pair(types.Integer), pair(types.Decimal), pair(types.Quantity),
				operation.Sig(types.Date, types.Date, types.Quantity),
				operation.Sig(types.DateTime, types.DateTime, types.Quantity),
				operation.Sig(types.Time, types.Time, types.Quantity),
			),
			propagates: true,
			doc:        "Subtraction and date arithmetic.",
			fn:         func(args []value.Value) (value.Value, error) { return l.add("-", args, -1) },
		},
		def{
			symbol:     "*",
			kind:       binary(PrecMultiplicative),
			sigs:       sigs(pair(types.Integer), pair(types.Decimal), pair(types.Quantity)),
			propagates: true,
			doc:        "Multiplication.",
			fn:         l.mul,
		},
		def{
			symbol:     "/",
			kind:       binary(PrecMultiplicative),
			sigs:       sigs(pair(types.Decimal), pair(types.Quantity)),
			propagates: true,
			doc:        "Division. Always produces a Decimal or Quantity; empty when dividing by zero.",
			fn:         l.quo,
		},
		def{
			symbol:     "div",
			kind:       binary(PrecMultiplicative),
			sigs:       sigs(pair(types.Integer), pair(types.Decimal)),
			propagates: true,
			doc:        "Truncated division; empty when dividing by zero.",
			fn:         func(args []value.Value) (value.Value, error) { return l.intDiv("div", args) },
		},
		def{
			symbol:     "mod",
			kind:       binary(PrecMultiplicative),
			sigs:       sigs(pair(types.Integer), pair(types.Decimal)),
			propagates: true,
			doc:        "Remainder of truncated division; empty when dividing by zero.",
			fn:         func(args []value.Value) (value.Value, error) { return l.intDiv("mod", args) },
		},
		def{
			symbol: "&",
			kind:   binary(PrecAdditive),
			sigs:   sigs(operation.Sig(types.String, optionalString, optionalString)),
			doc:    "String concatenation treating empty as the empty string.",
			fn: func(args []value.Value) (value.Value, error) {
				var out string
				for i := range args {
					v, ok, err := single("&", args, i)
					if err != nil {
						return nil, err
					}
					if ok {
						out += v.String()
					}
				}
				return value.String(out), nil
			},
		},
		def{
			symbol:     "-",
			kind:       operation.Unary(PrecUnary),
			sigs:       sigs(operation.Sig(types.Integer, types.Integer), operation.Sig(types.Decimal, types.Decimal), operation.Sig(types.Quantity, types.Quantity)),
			propagates: true,
			doc:        "Negation.",
			fn:         l.negate,
		},
		def{
			symbol:     "+",
			kind:       operation.Unary(PrecUnary),
			sigs:       sigs(operation.Sig(types.Integer, types.Integer), operation.Sig(types.Decimal, types.Decimal), operation.Sig(types.Quantity, types.Quantity)),
			propagates: true,
			doc:        "Identity.",
			fn: func(args []value.Value) (value.Value, error) {
				v, ok, err := single("+", args, 0)
				if !ok || err != nil {
					return value.Empty{}, err
				}
				return v, nil
			},
		},
	)
}

// add implements + (sign 1) and - (sign -1).
func (l *Library) add(symbol string, args []value.Value, sign int) (value.Value, error) {
	a, b, ok, err := operands(symbol, args)
	if !ok || err != nil {
		return value.Empty{}, err
	}

	switch x := a.(type) {
	case value.Integer:
		y, isInt := b.(value.Integer)
		if !isInt {
			break
		}
		var r int64
		if sign > 0 {
			r, ok = addInt(int64(x), int64(y))
		} else {
			r, ok = subInt(int64(x), int64(y))
		}
		if !ok {
			return nil, &perrors.DomainError{Symbol: symbol, Message: "integer overflow"}
		}
		return value.Integer(r), nil

	case value.Decimal:
		if y, isDec := b.(value.Decimal); isDec {
			return l.decimalOp(symbol, x, y, sign)
		}

	case value.Quantity:
		y, isQty := b.(value.Quantity)
		if !isQty {
			break
		}
		if value.CalendarRestricted(x.Unit, y.Unit) {
			return nil, &perrors.DomainError{Symbol: symbol, Message: "calendar and UCUM durations of variable length cannot be combined"}
		}
		conv, convertible, err := y.ConvertTo(x.Unit)
		if err != nil {
			return nil, &perrors.DomainError{Symbol: symbol, Message: "unit conversion failed", Err: err}
		}
		if !convertible {
			return nil, &perrors.DomainError{Symbol: symbol, Message: "incompatible units " + x.Unit + " and " + y.Unit}
		}
		d, err := l.decimalOp(symbol, x.Value, conv.Value, sign)
		if err != nil {
			return nil, err
		}
		return value.Quantity{Value: d.(value.Decimal), Unit: x.Unit}, nil

	case value.String:
		if y, isStr := b.(value.String); isStr {
			return x + y, nil
		}

	case value.Date, value.DateTime, value.Time:
		if q, isQty := b.(value.Quantity); isQty {
			return shiftTemporal(symbol, x, q, sign)
		}
	}
	return nil, typeMismatch(symbol, args)
}

func (l *Library) decimalOp(symbol string, x, y value.Decimal, sign int) (value.Value, error) {
	var out apd.Decimal
	var err error
	if sign > 0 {
		_, err = l.arith.Add(&out, x.Apd(), y.Apd())
	} else {
		_, err = l.arith.Sub(&out, x.Apd(), y.Apd())
	}
	if err != nil {
		return nil, &perrors.DomainError{Symbol: symbol, Message: "decimal arithmetic failed", Err: err}
	}
	return value.NewDecimal(&out), nil
}

func (l *Library) mul(args []value.Value) (value.Value, error) {
	a, b, ok, err := operands("*", args)
	if !ok || err != nil {
		return value.Empty{}, err
	}

	switch x := a.(type) {
	case value.Integer:
		y, isInt := b.(value.Integer)
		if !isInt {
			break
		}
		r, fits := mulInt(int64(x), int64(y))
		if !fits {
			return nil, &perrors.DomainError{Symbol: "*", Message: "integer overflow"}
		}
		return value.Integer(r), nil
	case value.Decimal:
		if y, isDec := b.(value.Decimal); isDec {
			return l.decimalMul(x, y)
		}
	case value.Quantity:
		y, isQty := b.(value.Quantity)
		if !isQty {
			break
		}
		d, err := l.decimalMul(x.Value, y.Value)
		if err != nil {
			return nil, err
		}
		return value.Quantity{Value: d.(value.Decimal), Unit: combineUnits(x.Unit, y.Unit, ".")}, nil
	}
	return nil, typeMismatch("*", args)
}

func (l *Library) decimalMul(x, y value.Decimal) (value.Value, error) {
	var out apd.Decimal
	if _, err := l.arith.Mul(&out, x.Apd(), y.Apd()); err != nil {
		return nil, &perrors.DomainError{Symbol: "*", Message: "decimal arithmetic failed", Err: err}
	}
	return value.NewDecimal(&out), nil
}

func (l *Library) quo(args []value.Value) (value.Value, error) {
	a, b, ok, err := operands("/", args)
	if !ok || err != nil {
		return value.Empty{}, err
	}

	var x, y value.Decimal
	unit := ""
	switch av := a.(type) {
	case value.Decimal:
		bd, isDec := b.(value.Decimal)
		if !isDec {
			return nil, typeMismatch("/", args)
		}
		x, y = av, bd
	case value.Quantity:
		bq, isQty := b.(value.Quantity)
		if !isQty {
			return nil, typeMismatch("/", args)
		}
		x, y = av.Value, bq.Value
		unit = combineUnits(av.Unit, bq.Unit, "/")
	default:
		return nil, typeMismatch("/", args)
	}
	if y.Sign() == 0 {
		return value.Empty{}, nil
	}

	var out apd.Decimal
	if _, err := l.arith.Quo(&out, x.Apd(), y.Apd()); err != nil {
		return nil, &perrors.DomainError{Symbol: "/", Message: "decimal division failed", Err: err}
	}
	out.Reduce(&out)
	if _, isQty := a.(value.Quantity); isQty {
		return value.Quantity{Value: value.NewDecimal(&out), Unit: unit}, nil
	}
	return value.NewDecimal(&out), nil
}

func (l *Library) intDiv(symbol string, args []value.Value) (value.Value, error) {
	a, b, ok, err := operands(symbol, args)
	if !ok || err != nil {
		return value.Empty{}, err
	}

	switch x := a.(type) {
	case value.Integer:
		y, isInt := b.(value.Integer)
		if !isInt {
			break
		}
		if y == 0 {
			return value.Empty{}, nil
		}
		if x == math.MinInt64 && y == -1 {
			if symbol == "mod" {
				return value.Integer(0), nil
			}
			return nil, &perrors.DomainError{Symbol: symbol, Message: "integer overflow"}
		}
		if symbol == "div" {
			return x / y, nil
		}
		return x % y, nil

	case value.Decimal:
		y, isDec := b.(value.Decimal)
		if !isDec {
			break
		}
		if y.Sign() == 0 {
			return value.Empty{}, nil
		}
		var out apd.Decimal
		var err error
		if symbol == "div" {
			_, err = l.arith.QuoInteger(&out, x.Apd(), y.Apd())
		} else {
			_, err = l.arith.Rem(&out, x.Apd(), y.Apd())
		}
		if err != nil {
			return nil, &perrors.DomainError{Symbol: symbol, Message: "decimal division failed", Err: err}
		}
		if symbol == "div" {
			return integerOrDecimal(&out), nil
		}
		return value.NewDecimal(&out), nil
	}
	return nil, typeMismatch(symbol, args)
}

// integerOrDecimal narrows an integral decimal to Integer when it fits.
func integerOrDecimal(d *apd.Decimal) value.Value {
	var r apd.Decimal
	r.Reduce(d)
	if r.Exponent >= 0 {
		if i, err := r.Int64(); err == nil {
			return value.Integer(i)
		}
	}
	return value.NewDecimal(d)
}

func (l *Library) negate(args []value.Value) (value.Value, error) {
	v, ok, err := single("-", args, 0)
	if !ok || err != nil {
		return value.Empty{}, err
	}
	switch x := v.(type) {
	case value.Integer:
		if x == math.MinInt64 {
			return nil, &perrors.DomainError{Symbol: "-", Message: "integer overflow"}
		}
		return -x, nil
	case value.Decimal:
		var out apd.Decimal
		out.Neg(x.Apd())
		return value.NewDecimal(&out), nil
	case value.Quantity:
		var out apd.Decimal
		out.Neg(x.Value.Apd())
		return value.Quantity{Value: value.NewDecimal(&out), Unit: x.Unit}, nil
	}
	return nil, typeMismatch("-", args)
}

// operands returns both items of a binary call. ok is false when either
// side is empty.
func operands(symbol string, args []value.Value) (a, b value.Value, ok bool, err error) {
	a, okA, err := single(symbol, args, 0)
	if err != nil {
		return nil, nil, false, err
	}
	b, okB, err := single(symbol, args, 1)
	if err != nil {
		return nil, nil, false, err
	}
	return a, b, okA && okB, nil
}

func combineUnits(a, b, op string) string {
	a, b = value.CanonicalUnit(a), value.CanonicalUnit(b)
	switch {
	case op == "/" && a == b:
		return "1"
	case b == "1":
		return a
	case a == "1" && op == ".":
		return b
	}
	return a + op + b
}

func addInt(a, b int64) (int64, bool) {
	s := a + b
	return s, (s > a) == (b > 0)
}

func subInt(a, b int64) (int64, bool) {
	s := a - b
	return s, (s < a) == (b > 0)
}

func mulInt(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	p := a * b
	if p/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	return p, true
}
