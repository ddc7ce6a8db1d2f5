package dispatch

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/randalmurphal/pathcore/pkg/pathcore/errors"
	"github.com/randalmurphal/pathcore/pkg/pathcore/intern"
	"github.com/randalmurphal/pathcore/pkg/pathcore/operation"
	"github.com/randalmurphal/pathcore/pkg/pathcore/types"
)

func key(symbol string, ds ...types.Descriptor) Key {
	return NewKey(intern.String(symbol), operation.TagFunction, ds)
}

func TestKey(t *testing.T) {
	a := key("f", types.Integer, types.ListOf(types.String))
	b := key("f", types.Integer, types.MustList(types.String, types.Many))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, key("f", types.Integer))
	assert.NotEqual(t, a, NewKey(intern.String("f"), operation.TagBinary, args(types.Integer, types.ListOf(types.String))))
	assert.Contains(t, a.String(), "f/function(")
}

// dotted returns two types whose qualified names are both "A.B.C".
func dotted(t *testing.T) (types.Descriptor, types.Descriptor) {
	t.Helper()
	abc, err := types.NewSimple("A.B", "C", types.Any)
	require.NoError(t, err)
	aBC, err := types.NewSimple("A", "B.C", types.Any)
	require.NoError(t, err)
	require.False(t, types.Equal(abc, aBC))
	return abc, aBC
}

func TestKey_DistinctArgumentLists(t *testing.T) {
	abc, aBC := dotted(t)
	pipe, err := types.NewSimple("X", "a|b", types.Any)
	require.NoError(t, err)
	a, err := types.NewSimple("X", "a", types.Any)
	require.NoError(t, err)
	b, err := types.NewSimple("X", "b", types.Any)
	require.NoError(t, err)
	choice, err := types.NewChoice("v", pipe)
	require.NoError(t, err)

	tests := []struct {
		name string
		a, b []types.Descriptor
	}{
		{"same spelling, different namespace split", args(abc), args(aBC)},
		{"separator inside a type name", args(pipe), args(a, b)},
		{"choice alternative vs two arguments", args(choice), args(a, b)},
		{"arity", args(types.Integer, types.Integer), args(types.Integer)},
		{"no arguments vs one", nil, args(types.Integer)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, key("f", tt.a...), key("f", tt.b...))
		})
	}
}

func TestNewCache_InvalidCapacity(t *testing.T) {
	_, err := NewCache(0)
	assert.Error(t, err)
}

func TestCache_GetInsert(t *testing.T) {
	c, err := NewCache(4)
	require.NoError(t, err)

	k := key("f", types.Integer)
	_, ok := c.Get(k)
	assert.False(t, ok)

	res := operation.Resolution{Version: 7}
	c.Insert(k, res)
	got, ok := c.Get(k)
	require.True(t, ok)
	assert.Equal(t, uint64(7), got.Version)

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, 4, stats.Capacity)
	assert.InDelta(t, 0.5, stats.HitRate(), 1e-9)
	assert.Zero(t, CacheStats{}.HitRate())
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	var evicted []Key
	c, err := NewCache(2, WithEvictionHook(func(k Key) { evicted = append(evicted, k) }))
	require.NoError(t, err)

	a, b, d := key("a"), key("b"), key("d")
	c.Insert(a, operation.Resolution{})
	c.Insert(b, operation.Resolution{})
	_, _ = c.Get(a) // a is now most recent
	c.Insert(d, operation.Resolution{})

	_, ok := c.Get(b)
	assert.False(t, ok, "b was least recently used")
	_, ok = c.Get(a)
	assert.True(t, ok)
	assert.Equal(t, []Key{b}, evicted)
	assert.Equal(t, uint64(1), c.Stats().Evictions)
	assert.Equal(t, 2, c.Len())
}

func TestCache_ClearAndRemove(t *testing.T) {
	c, err := NewCache(8)
	require.NoError(t, err)

	for _, s := range []string{"a", "b", "c"} {
		c.Insert(key(s), operation.Resolution{})
	}
	c.Remove(key("a"))
	assert.Equal(t, 2, c.Len())

	c.Clear()
	assert.Zero(t, c.Len())
	assert.Zero(t, c.Stats().Evictions, "explicit removal is not eviction")
}

func TestCache_EvictionsCountedDuringRemove(t *testing.T) {
	var hooked atomic.Int64
	c, err := NewCache(4, WithEvictionHook(func(Key) { hooked.Add(1) }))
	require.NoError(t, err)

	const inserts = 2000
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		absent := key("absent")
		for {
			select {
			case <-done:
				return
			default:
				c.Remove(absent)
			}
		}
	}()

	for i := 0; i < inserts; i++ {
		c.Insert(key(fmt.Sprintf("k%d", i)), operation.Resolution{})
	}
	close(done)
	wg.Wait()

	assert.Equal(t, uint64(inserts-4), c.Stats().Evictions)
	assert.Equal(t, int64(inserts-4), hooked.Load())
	assert.Equal(t, 4, c.Len())
}

func TestCache_Concurrent(t *testing.T) {
	c, err := NewCache(16)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				k := key(string(rune('a' + (g+i)%26)))
				if _, ok := c.Get(k); !ok {
					c.Insert(k, operation.Resolution{Version: uint64(i)})
				}
			}
		}(g)
	}
	wg.Wait()

	stats := c.Stats()
	assert.Equal(t, uint64(8*200), stats.Hits+stats.Misses)
	assert.LessOrEqual(t, stats.Size, 16)
}

func TestDispatcher_CachesResolutions(t *testing.T) {
	r := NewRegistry()
	mustRegister(t, r, plus(types.Integer, types.Integer), plus(types.Decimal, types.Decimal))
	c, err := NewCache(16)
	require.NoError(t, err)
	d := NewDispatcher(r, c)
	sym := intern.String("+")

	res, cached, err := d.Resolve(sym, operation.TagBinary, args(types.Integer, types.Decimal))
	require.NoError(t, err)
	assert.False(t, cached)

	again, cached, err := d.Resolve(sym, operation.TagBinary, args(types.Integer, types.Decimal))
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Same(t, res.Handle, again.Handle)

	_, _, err = d.Resolve(sym, operation.TagBinary, args(types.String, types.String))
	var ue *perrors.UnknownOperationError
	assert.True(t, errors.As(err, &ue))
	assert.Equal(t, 1, c.Len(), "errors are not cached")
}

func TestDispatcher_RegistrationInvalidatesCache(t *testing.T) {
	r := NewRegistry()
	mustRegister(t, r, plus(types.Decimal, types.Decimal))
	c, err := NewCache(16)
	require.NoError(t, err)
	d := NewDispatcher(r, c)
	sym := intern.String("+")

	first, _, err := d.Resolve(sym, operation.TagBinary, args(types.Integer, types.Integer))
	require.NoError(t, err)
	assert.False(t, first.Exact())

	// A more specific overload must take effect immediately.
	mustRegister(t, r, plus(types.Integer, types.Integer))

	second, cached, err := d.Resolve(sym, operation.TagBinary, args(types.Integer, types.Integer))
	require.NoError(t, err)
	assert.False(t, cached)
	assert.True(t, second.Exact())
	assert.NotSame(t, first.Handle, second.Handle)

	direct, err := r.ResolveKind("+", operation.TagBinary, args(types.Integer, types.Integer))
	require.NoError(t, err)
	assert.Same(t, direct.Handle, second.Handle)
}

func TestDispatcher_SameSpellingDifferentType(t *testing.T) {
	abc, aBC := dotted(t)
	r := NewRegistry()
	mustRegister(t, r, fn("f", abc))
	c, err := NewCache(16)
	require.NoError(t, err)
	d := NewDispatcher(r, c)
	d.SetVerify(true)
	f := intern.String("f")

	_, _, err = d.Resolve(f, operation.TagFunction, args(abc))
	require.NoError(t, err)

	_, directErr := r.ResolveKind("f", operation.TagFunction, args(aBC))
	var ue *perrors.UnknownOperationError
	require.True(t, errors.As(directErr, &ue))

	res, cached, err := d.Resolve(f, operation.TagFunction, args(aBC))
	assert.False(t, cached)
	assert.Nil(t, res.Handle)
	assert.True(t, errors.As(err, &ue), "got %v", err)
	assert.Equal(t, 1, c.Len())
}

func TestDispatcher_WithoutCache(t *testing.T) {
	r := NewRegistry()
	mustRegister(t, r, fn("f", types.Integer))
	d := NewDispatcher(r, nil)

	_, cached, err := d.Resolve(intern.String("f"), operation.TagFunction, args(types.Integer))
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Nil(t, d.Cache())
	assert.Same(t, r, d.Registry())
}

func TestDispatcher_VerifyMode(t *testing.T) {
	r := NewRegistry()
	mustRegister(t, r, fn("f", types.Integer), fn("g", types.Integer))
	c, err := NewCache(16)
	require.NoError(t, err)
	d := NewDispatcher(r, c)
	d.SetVerify(true)

	f := intern.String("f")
	_, _, err = d.Resolve(f, operation.TagFunction, args(types.Integer))
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		_, cached, err := d.Resolve(f, operation.TagFunction, args(types.Integer))
		assert.NoError(t, err)
		assert.True(t, cached)
	})

	// Poison the entry with g's handle at f's current version.
	wrong, err := r.Resolve("g", args(types.Integer))
	require.NoError(t, err)
	wrong.Version = r.Version(f)
	c.Insert(NewKey(f, operation.TagFunction, args(types.Integer)), wrong)

	defer func() {
		rec := recover()
		require.NotNil(t, rec)
		err, ok := rec.(error)
		require.True(t, ok)
		var ive *perrors.InvariantViolationError
		assert.True(t, errors.As(err, &ive))
		assert.Equal(t, "dispatch cache", ive.Component)
	}()
	_, _, _ = d.Resolve(f, operation.TagFunction, args(types.Integer))
	t.Fatal("expected panic")
}
