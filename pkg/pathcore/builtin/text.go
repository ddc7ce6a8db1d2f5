package builtin

import (
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/apd/v3"

	perrors "github.com/randalmurphal/pathcore/pkg/pathcore/errors"
	"github.com/randalmurphal/pathcore/pkg/pathcore/operation"
	"github.com/randalmurphal/pathcore/pkg/pathcore/types"
	"github.com/randalmurphal/pathcore/pkg/pathcore/value"
)

func (l *Library) text() []operation.Operation {
	str := func(symbol string, result types.Descriptor, doc string, fn func(string) value.Value) def {
		return def{
			symbol:     symbol,
			kind:       operation.Function(),
			sigs:       sigs(operation.Sig(result, types.String)),
			propagates: true,
			doc:        doc,
			fn: func(args []value.Value) (value.Value, error) {
				v, ok, err := single(symbol, args, 0)
				if err != nil || !ok {
					return value.Empty{}, err
				}
				s, isStr := v.(value.String)
				if !isStr {
					return nil, typeMismatch(symbol, args)
				}
				return fn(string(s)), nil
			},
		}
	}

	return build(
		str("upper", types.String, "Upper-case form of the input.", func(s string) value.Value {
			return value.String(strings.ToUpper(s))
		}),
		str("lower", types.String, "Lower-case form of the input.", func(s string) value.Value {
			return value.String(strings.ToLower(s))
		}),
		str("length", types.Integer, "Number of characters in the input.", func(s string) value.Value {
			return value.Integer(utf8.RuneCountInString(s))
		}),
		def{
			symbol:     "toString",
			kind:       operation.Function(),
			sigs:       sigs(operation.Sig(types.String, types.Any)),
			propagates: true,
			doc:        "String form of a single primitive item.",
			fn: func(args []value.Value) (value.Value, error) {
				v, ok, err := single("toString", args, 0)
				if err != nil || !ok {
					return value.Empty{}, err
				}
				if _, isComposite := v.(*value.Composite); isComposite {
					return value.Empty{}, nil
				}
				return value.String(v.String()), nil
			},
		},
		def{
			symbol:     "sqrt",
			kind:       operation.Function(),
			sigs:       sigs(operation.Sig(types.Decimal, types.Decimal)),
			propagates: true,
			doc:        "Square root; negative input is outside the domain.",
			fn:         l.sqrt,
		},
	)
}

func (l *Library) sqrt(args []value.Value) (value.Value, error) {
	v, ok, err := single("sqrt", args, 0)
	if err != nil || !ok {
		return value.Empty{}, err
	}
	d, isDec := v.(value.Decimal)
	if !isDec {
		return nil, typeMismatch("sqrt", args)
	}
	if d.Sign() < 0 {
		return nil, &perrors.DomainError{Symbol: "sqrt", Message: "square root of a negative number"}
	}
	var out apd.Decimal
	if _, err := l.arith.Sqrt(&out, d.Apd()); err != nil {
		return nil, &perrors.DomainError{Symbol: "sqrt", Message: "decimal arithmetic failed", Err: err}
	}
	out.Reduce(&out)
	return value.NewDecimal(&out), nil
}
