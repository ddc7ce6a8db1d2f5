package benchmarks

import (
	"context"
	"testing"

	"github.com/randalmurphal/pathcore/pkg/pathcore"
	"github.com/randalmurphal/pathcore/pkg/pathcore/builtin"
	"github.com/randalmurphal/pathcore/pkg/pathcore/dispatch"
	"github.com/randalmurphal/pathcore/pkg/pathcore/intern"
	"github.com/randalmurphal/pathcore/pkg/pathcore/operation"
	"github.com/randalmurphal/pathcore/pkg/pathcore/types"
	"github.com/randalmurphal/pathcore/pkg/pathcore/value"
)

var decimalPlusInteger = []types.Descriptor{types.Decimal, types.Integer}

func standardRegistry(b *testing.B) *dispatch.Registry {
	b.Helper()
	r := dispatch.NewRegistry()
	if err := builtin.Register(r); err != nil {
		b.Fatal(err)
	}
	return r
}

// BenchmarkResolve_Uncached measures full overload resolution.
func BenchmarkResolve_Uncached(b *testing.B) {
	r := standardRegistry(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := r.ResolveKind("+", operation.TagBinary, decimalPlusInteger); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkResolve_Cached measures resolution through the dispatch cache.
func BenchmarkResolve_Cached(b *testing.B) {
	cache, err := dispatch.NewCache(1024)
	if err != nil {
		b.Fatal(err)
	}
	d := dispatch.NewDispatcher(standardRegistry(b), cache)
	plus := intern.String("+")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := d.Resolve(plus, operation.TagBinary, decimalPlusInteger); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkResolve_CachedParallel measures concurrent cached resolution.
func BenchmarkResolve_CachedParallel(b *testing.B) {
	cache, err := dispatch.NewCache(1024)
	if err != nil {
		b.Fatal(err)
	}
	d := dispatch.NewDispatcher(standardRegistry(b), cache)
	plus := intern.String("+")
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _, _ = d.Resolve(plus, operation.TagBinary, decimalPlusInteger)
		}
	})
}

// BenchmarkEvaluate_Sync measures a full engine call on the sync path.
func BenchmarkEvaluate_Sync(b *testing.B) {
	e := mustEngine(b)
	ctx := pathcore.NewContext(context.Background())
	call := pathcore.Binary("+", value.MustDecimal("1.5"), value.Integer(2))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.Evaluate(ctx, call); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkEvaluate_EmptyPropagation measures the short-circuit path.
func BenchmarkEvaluate_EmptyPropagation(b *testing.B) {
	e := mustEngine(b)
	ctx := pathcore.NewContext(context.Background())
	call := pathcore.Binary("+", value.Integer(1), value.Empty{})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = e.Evaluate(ctx, call)
	}
}

// BenchmarkEvaluateBatch_16 measures a batch of independent calls.
func BenchmarkEvaluateBatch_16(b *testing.B) {
	e := mustEngine(b)
	ctx := pathcore.NewContext(context.Background())
	calls := make([]pathcore.Call, 16)
	for i := range calls {
		calls[i] = pathcore.Function("count", value.Collection{value.Integer(int64(i)), value.Integer(1)})
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.EvaluateBatch(ctx, calls); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkContextCreation measures context creation overhead.
func BenchmarkContextCreation(b *testing.B) {
	bg := context.Background()
	for i := 0; i < b.N; i++ {
		pathcore.NewContext(bg)
	}
}

func mustEngine(b *testing.B) *pathcore.Engine {
	b.Helper()
	e, err := pathcore.NewEngine()
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = e.Close() })
	return e
}
