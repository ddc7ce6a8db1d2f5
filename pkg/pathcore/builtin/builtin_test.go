package builtin

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/pathcore/pkg/pathcore/compare"
	"github.com/randalmurphal/pathcore/pkg/pathcore/dispatch"
	perrors "github.com/randalmurphal/pathcore/pkg/pathcore/errors"
	"github.com/randalmurphal/pathcore/pkg/pathcore/operation"
	"github.com/randalmurphal/pathcore/pkg/pathcore/types"
	"github.com/randalmurphal/pathcore/pkg/pathcore/value"
)

func newRegistry(t *testing.T, opts ...Option) *dispatch.Registry {
	t.Helper()
	r := dispatch.NewRegistry()
	require.NoError(t, Register(r, opts...))
	return r
}

func call(t *testing.T, r *dispatch.Registry, symbol string, tag operation.Tag, args ...value.Value) (value.Value, error) {
	t.Helper()
	res, err := r.ResolveKind(symbol, tag, value.TypesOf(args))
	require.NoError(t, err, "resolve %s", symbol)
	return res.Evaluate(context.Background(), args)
}

func assertValue(t *testing.T, want, got value.Value) {
	t.Helper()
	if value.IsEmpty(want) {
		assert.True(t, value.IsEmpty(got), "want empty, got %v", got)
		return
	}
	assert.Equal(t, compare.True, compare.Equal(want, got), "want %v, got %v", want, got)
}

func ints(xs ...int64) value.Collection {
	out := make(value.Collection, len(xs))
	for i, x := range xs {
		out[i] = value.Integer(x)
	}
	return out
}

var (
	tru  = value.Boolean(true)
	fls  = value.Boolean(false)
	none = value.Empty{}
)

func TestRegister(t *testing.T) {
	r := newRegistry(t)
	assert.Equal(t, len(New().Operations()), r.Len())
	for _, sym := range []string{"=", "~", "+", "div", "and", "|", "in", "count", "type", "is", "resolve", "sqrt"} {
		assert.NotEmpty(t, r.Lookup(sym), sym)
	}

	err := Register(r)
	var dup *perrors.DuplicateRegistrationError
	assert.True(t, errors.As(err, &dup), "second registration must be rejected: %v", err)
}

func TestArithmetic(t *testing.T) {
	r := newRegistry(t)
	bin := operation.TagBinary

	tests := []struct {
		name   string
		symbol string
		tag    operation.Tag
		args   []value.Value
		want   value.Value
	}{
		{"integer sum", "+", bin, []value.Value{value.Integer(2), value.Integer(3)}, value.Integer(5)},
		{"mixed sum widens", "+", bin, []value.Value{value.Integer(2), value.MustDecimal("1.5")}, value.MustDecimal("3.5")},
		{"string concat", "+", bin, []value.Value{value.String("a"), value.String("b")}, value.String("ab")},
		{"quantity sum converts", "+", bin, []value.Value{value.MustQuantity("1", "m"), value.MustQuantity("50", "cm")}, value.MustQuantity("1.5", "m")},
		{"difference", "-", bin, []value.Value{value.Integer(5), value.Integer(7)}, value.Integer(-2)},
		{"product", "*", bin, []value.Value{value.Integer(4), value.Integer(5)}, value.Integer(20)},
		{"division is decimal", "/", bin, []value.Value{value.Integer(7), value.Integer(2)}, value.MustDecimal("3.5")},
		{"division by zero", "/", bin, []value.Value{value.Integer(1), value.Integer(0)}, none},
		{"div", "div", bin, []value.Value{value.Integer(7), value.Integer(2)}, value.Integer(3)},
		{"div truncates", "div", bin, []value.Value{value.Integer(-7), value.Integer(2)}, value.Integer(-3)},
		{"div by zero", "div", bin, []value.Value{value.Integer(7), value.Integer(0)}, none},
		{"mod", "mod", bin, []value.Value{value.Integer(7), value.Integer(2)}, value.Integer(1)},
		{"mod sign follows dividend", "mod", bin, []value.Value{value.Integer(-7), value.Integer(2)}, value.Integer(-1)},
		{"ampersand with empty", "&", bin, []value.Value{value.String("a"), none}, value.String("a")},
		{"ampersand both empty", "&", bin, []value.Value{none, none}, value.String("")},
		{"negation", "-", operation.TagUnary, []value.Value{value.Integer(5)}, value.Integer(-5)},
		{"identity", "+", operation.TagUnary, []value.Value{value.MustDecimal("1.5")}, value.MustDecimal("1.5")},
		{"month clamps to end", "+", bin, []value.Value{value.MustDate("2020-01-31"), value.MustQuantity("1", "month")}, value.MustDate("2020-02-29")},
		{"year back from leap day", "-", bin, []value.Value{value.MustDate("2020-02-29"), value.MustQuantity("1", "year")}, value.MustDate("2019-02-28")},
		{"weeks", "+", bin, []value.Value{value.MustDate("2020-01-01"), value.MustQuantity("2", "weeks")}, value.MustDate("2020-01-15")},
		{"minutes on date-time", "+", bin, []value.Value{value.MustDateTime("2020-01-01T10:00:00Z"), value.MustQuantity("90", "minutes")}, value.MustDateTime("2020-01-01T11:30:00Z")},
		{"time wraps midnight", "+", bin, []value.Value{value.MustTime("23:30:00"), value.MustQuantity("1", "hour")}, value.MustTime("00:30:00")},
		{"fractional seconds", "+", bin, []value.Value{value.MustTime("10:00:00.000"), value.MustQuantity("1.5", "s")}, value.MustTime("10:00:01.500")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := call(t, r, tt.symbol, tt.tag, tt.args...)
			require.NoError(t, err)
			assertValue(t, tt.want, got)
		})
	}
}

func TestArithmetic_DomainErrors(t *testing.T) {
	r := newRegistry(t)

	tests := []struct {
		name   string
		symbol string
		args   []value.Value
	}{
		{"integer overflow", "+", []value.Value{value.Integer(math.MaxInt64), value.Integer(1)}},
		{"multiplication overflow", "*", []value.Value{value.Integer(math.MaxInt64), value.Integer(2)}},
		{"incompatible units", "+", []value.Value{value.MustQuantity("1", "m"), value.MustQuantity("1", "s")}},
		{"clock unit on date", "+", []value.Value{value.MustDate("2020-01-01"), value.MustQuantity("1", "hour")}},
		{"calendar unit on time", "+", []value.Value{value.MustTime("10:00"), value.MustQuantity("1", "day")}},
		{"calendar against ucum", "+", []value.Value{value.MustQuantity("1", "year"), value.MustQuantity("1", "a")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := call(t, r, tt.symbol, operation.TagBinary, tt.args...)
			var de *perrors.DomainError
			require.True(t, errors.As(err, &de), "got %v", err)
			assert.Equal(t, tt.symbol, de.Symbol)
		})
	}
}

func TestArithmetic_OverloadSelection(t *testing.T) {
	r := newRegistry(t)

	res, err := r.ResolveKind("+", operation.TagBinary, args(types.Integer, types.Decimal))
	require.NoError(t, err)
	assert.Equal(t, types.Decimal, res.Signature.Result)

	res, err = r.ResolveKind("+", operation.TagBinary, args(types.Date, types.Quantity))
	require.NoError(t, err)
	assert.Equal(t, types.Date, res.Signature.Result, "Date overload beats widening to DateTime")
	assert.True(t, res.Exact())

	_, err = r.ResolveKind("-", operation.TagBinary, args(types.String, types.String))
	var ue *perrors.UnknownOperationError
	assert.True(t, errors.As(err, &ue))
}

func args(ds ...types.Descriptor) []types.Descriptor { return ds }

func TestLogic(t *testing.T) {
	r := newRegistry(t)

	tests := []struct {
		symbol string
		a, b   value.Value
		want   value.Value
	}{
		{"and", tru, tru, tru},
		{"and", tru, fls, fls},
		{"and", tru, none, none},
		{"and", fls, none, fls},
		{"and", none, none, none},
		{"or", fls, fls, fls},
		{"or", tru, none, tru},
		{"or", fls, none, none},
		{"xor", tru, fls, tru},
		{"xor", tru, tru, fls},
		{"xor", tru, none, none},
		{"implies", fls, none, tru},
		{"implies", tru, none, none},
		{"implies", none, tru, tru},
		{"implies", none, fls, none},
		{"implies", tru, fls, fls},
	}
	for _, tt := range tests {
		t.Run(tt.symbol+" "+tt.a.String()+" "+tt.b.String(), func(t *testing.T) {
			got, err := call(t, r, tt.symbol, operation.TagBinary, tt.a, tt.b)
			require.NoError(t, err)
			assertValue(t, tt.want, got)
		})
	}

	got, err := call(t, r, "not", operation.TagFunction, tru)
	require.NoError(t, err)
	assertValue(t, fls, got)

	_, err = r.ResolveKind("and", operation.TagBinary, args(types.Integer, types.Boolean))
	assert.Error(t, err, "integers are not booleans")
}

func TestComparisonOperators(t *testing.T) {
	r := newRegistry(t)

	tests := []struct {
		symbol string
		a, b   value.Value
		want   value.Value
	}{
		{"=", value.Integer(1), value.MustDecimal("1.0"), tru},
		{"!=", value.String("a"), value.String("b"), tru},
		{"=", value.MustDate("2020-01"), value.MustDate("2020-01-15"), none},
		{"~", value.String("Hello  World"), value.String("hello world"), tru},
		{"!~", value.MustDecimal("1.1"), value.MustDecimal("1.0"), tru},
		{"~", value.MustDecimal("1.01"), value.MustDecimal("1.0"), tru},
		{"<", value.Integer(1), value.Integer(2), tru},
		{">=", value.MustQuantity("1", "m"), value.MustQuantity("100", "cm"), tru},
		{">", value.MustDate("2020"), value.MustDate("2020-06"), none},
	}
	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			got, err := call(t, r, tt.symbol, operation.TagBinary, tt.a, tt.b)
			require.NoError(t, err)
			assertValue(t, tt.want, got)
		})
	}
}

func TestCollections(t *testing.T) {
	r := newRegistry(t)
	fn, bin := operation.TagFunction, operation.TagBinary

	tests := []struct {
		name   string
		symbol string
		tag    operation.Tag
		args   []value.Value
		want   value.Value
	}{
		{"union dedupes", "|", bin, []value.Value{ints(1, 2), ints(2, 3)}, ints(1, 2, 3)},
		{"union with empty", "|", bin, []value.Value{none, ints(4, 4)}, value.Integer(4)},
		{"in", "in", bin, []value.Value{value.Integer(2), ints(1, 2, 3)}, tru},
		{"not in", "in", bin, []value.Value{value.Integer(5), ints(1, 2)}, fls},
		{"in empty collection", "in", bin, []value.Value{value.Integer(5), none}, fls},
		{"empty in", "in", bin, []value.Value{none, ints(1)}, none},
		{"contains", "contains", bin, []value.Value{ints(1, 2), value.Integer(2)}, tru},
		{"count", "count", fn, []value.Value{ints(1, 2, 3)}, value.Integer(3)},
		{"count empty", "count", fn, []value.Value{none}, value.Integer(0)},
		{"empty", "empty", fn, []value.Value{none}, tru},
		{"exists", "exists", fn, []value.Value{ints(7)}, tru},
		{"distinct", "distinct", fn, []value.Value{ints(1, 1, 2)}, ints(1, 2)},
		{"isDistinct", "isDistinct", fn, []value.Value{ints(1, 1)}, fls},
		{"isDistinct empty", "isDistinct", fn, []value.Value{none}, tru},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := call(t, r, tt.symbol, tt.tag, tt.args...)
			require.NoError(t, err)
			assertValue(t, tt.want, got)
		})
	}

	_, err := call(t, r, "in", bin, ints(1, 2), ints(1, 2))
	var ave *perrors.ArgumentValidationError
	assert.True(t, errors.As(err, &ave), "multi-item left side of in: %v", err)
}

func testType(t *testing.T) *types.Composite {
	t.Helper()
	ct, err := types.NewComposite("Test", "Patient", nil, []types.Element{
		types.NewElement("name", types.String, types.Optional),
		types.NewElement("age", types.Integer, types.Optional),
		types.NewElement("reference", types.String, types.Optional),
	})
	require.NoError(t, err)
	return ct
}

func TestChildren(t *testing.T) {
	r := newRegistry(t)
	ct := testType(t)
	p := value.MustComposite(ct, map[string]value.Value{"name": value.String("Ann"), "age": value.Integer(40)})

	got, err := call(t, r, "children", operation.TagFunction, p)
	require.NoError(t, err)
	assert.Len(t, value.Items(got), 2)

	got, err = call(t, r, "children", operation.TagFunction, value.Integer(1))
	require.NoError(t, err)
	assert.True(t, value.IsEmpty(got), "primitives have no children")
}

func TestText(t *testing.T) {
	r := newRegistry(t)
	fn := operation.TagFunction

	tests := []struct {
		symbol string
		arg    value.Value
		want   value.Value
	}{
		{"upper", value.String("abc"), value.String("ABC")},
		{"lower", value.String("ABC"), value.String("abc")},
		{"length", value.String("héllo"), value.Integer(5)},
		{"toString", value.Integer(5), value.String("5")},
		{"toString", value.MustDecimal("1.50"), value.String("1.50")},
		{"sqrt", value.MustDecimal("4"), value.MustDecimal("2")},
		{"sqrt", value.Integer(9), value.MustDecimal("3")},
	}
	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			got, err := call(t, r, tt.symbol, fn, tt.arg)
			require.NoError(t, err)
			assertValue(t, tt.want, got)
		})
	}

	_, err := call(t, r, "sqrt", fn, value.MustDecimal("-1"))
	var de *perrors.DomainError
	assert.True(t, errors.As(err, &de))

	_, err = r.ResolveKind("upper", fn, value.TypesOf([]value.Value{value.NewCollection(value.String("a"), value.String("b"))}))
	assert.Error(t, err, "upper takes a single string")
}

func TestReflection(t *testing.T) {
	ct := testType(t)
	catalog := types.NewCatalog("Test")
	require.NoError(t, catalog.Register(ct))
	r := newRegistry(t, WithCatalog(catalog))
	fn, bin := operation.TagFunction, operation.TagBinary

	info, err := call(t, r, "type", fn, value.Integer(1))
	require.NoError(t, err)
	c, ok := info.(*value.Composite)
	require.True(t, ok)
	assert.Same(t, SimpleTypeInfo, c.Descriptor())
	assertValue(t, value.String("System"), c.Field("namespace"))
	assertValue(t, value.String("Integer"), c.Field("name"))
	assertValue(t, value.String("System.Any"), c.Field("baseType"))

	p := value.MustComposite(ct, map[string]value.Value{"name": value.String("Ann")})
	info, err = call(t, r, "type", fn, p)
	require.NoError(t, err)
	assert.Same(t, ClassInfo, info.(*value.Composite).Descriptor())

	tests := []struct {
		name   string
		symbol string
		args   []value.Value
		want   value.Value
	}{
		{"is same type", "is", []value.Value{value.Integer(1), value.String("Integer")}, tru},
		{"is supertype", "is", []value.Value{value.Integer(1), value.String("System.Any")}, tru},
		{"is other type", "is", []value.Value{value.Integer(1), value.String("String")}, fls},
		{"is model type", "is", []value.Value{p, value.String("Patient")}, tru},
		{"as match", "as", []value.Value{value.Integer(1), value.String("Integer")}, value.Integer(1)},
		{"as mismatch", "as", []value.Value{value.Integer(1), value.String("String")}, none},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := call(t, r, tt.symbol, bin, tt.args...)
			require.NoError(t, err)
			assertValue(t, tt.want, got)
		})
	}

	got, err := call(t, r, "ofType", fn, value.NewCollection(value.Integer(1), value.String("a"), value.Integer(2)), value.String("Integer"))
	require.NoError(t, err)
	assertValue(t, ints(1, 2), got)

	_, err = call(t, r, "is", bin, value.Integer(1), value.String("Nope"))
	var ave *perrors.ArgumentValidationError
	require.True(t, errors.As(err, &ave))
	assert.Equal(t, 1, ave.Position)
}

func TestResolve(t *testing.T) {
	ct := testType(t)
	patient := value.MustComposite(ct, map[string]value.Value{"name": value.String("Ann")})
	var calls atomic.Int32
	store := ResolverFunc(func(_ context.Context, ref string) (value.Value, error) {
		if calls.Add(1) == 1 {
			return nil, perrors.Transient(errors.New("connection reset"), "store")
		}
		if ref != "Patient/1" {
			return value.Empty{}, nil
		}
		return patient, nil
	})
	retry := perrors.RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond, BackoffFactor: 1}
	r := newRegistry(t, WithResolver(store), WithRetry(retry))

	res, err := r.Resolve("resolve", value.TypesOf([]value.Value{value.String("Patient/1")}))
	require.NoError(t, err)
	assert.False(t, res.Handle.Metadata().SupportsSync, "resolve is asynchronous")

	got, err := res.Evaluate(context.Background(), []value.Value{value.String("Patient/1")})
	require.NoError(t, err)
	assert.Same(t, patient, got)
	assert.Equal(t, int32(2), calls.Load(), "transient failure is retried")

	ref := value.MustComposite(ct, map[string]value.Value{"reference": value.String("Patient/2")})
	got, err = call(t, r, "resolve", operation.TagFunction, ref)
	require.NoError(t, err)
	assert.True(t, value.IsEmpty(got))
}

func TestResolve_Failures(t *testing.T) {
	t.Run("no resolver", func(t *testing.T) {
		r := newRegistry(t)
		_, err := call(t, r, "resolve", operation.TagFunction, value.String("Patient/1"))
		var de *perrors.DomainError
		assert.True(t, errors.As(err, &de))
	})

	t.Run("permanent failure is not retried", func(t *testing.T) {
		var calls atomic.Int32
		boom := errors.New("not found")
		r := newRegistry(t, WithResolver(ResolverFunc(func(context.Context, string) (value.Value, error) {
			calls.Add(1)
			return nil, boom
		})))
		_, err := call(t, r, "resolve", operation.TagFunction, value.String("x"))
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("cancelled", func(t *testing.T) {
		r := newRegistry(t, WithResolver(ResolverFunc(func(ctx context.Context, _ string) (value.Value, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})))
		res, err := r.Resolve("resolve", args(types.String))
		require.NoError(t, err)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = res.Evaluate(ctx, []value.Value{value.String("x")})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestPropagationFlags(t *testing.T) {
	r := newRegistry(t)

	tests := []struct {
		symbol string
		tag    operation.Tag
		want   bool
	}{
		{"=", operation.TagBinary, true},
		{"~", operation.TagBinary, false},
		{"+", operation.TagBinary, true},
		{"&", operation.TagBinary, false},
		{"and", operation.TagBinary, false},
		{"not", operation.TagFunction, true},
		{"count", operation.TagFunction, false},
		{"resolve", operation.TagFunction, true},
	}
	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			got, known := r.PropagatesEmpty(tt.symbol, tt.tag)
			require.True(t, known)
			assert.Equal(t, tt.want, got)
		})
	}
}
