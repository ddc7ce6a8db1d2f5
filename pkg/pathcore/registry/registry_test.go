package registry

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	r := New[string, int]()
	assert.NotNil(t, r)
	assert.Equal(t, 0, r.Len())
	assert.False(t, r.Frozen())
}

func TestRegisterAndGet(t *testing.T) {
	r := New[string, int]()

	require.NoError(t, r.Register("one", 1))
	require.NoError(t, r.Register("two", 2))

	v, ok := r.Get("one")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = r.Get("three")
	assert.False(t, ok)
	assert.Equal(t, 0, v)

	assert.True(t, r.Has("two"))
	assert.False(t, r.Has("three"))
}

func TestRegisterDuplicateKeepsOriginal(t *testing.T) {
	r := New[string, string]()

	require.NoError(t, r.Register("key", "old"))
	err := r.Register("key", "new")
	assert.ErrorIs(t, err, ErrExists)

	v, _ := r.Get("key")
	assert.Equal(t, "old", v)
	assert.Equal(t, 1, r.Len())
}

func TestFreeze(t *testing.T) {
	r := New[string, int]()
	require.NoError(t, r.Register("a", 1))
	r.Freeze()

	assert.True(t, r.Frozen())
	assert.ErrorIs(t, r.Register("b", 2), ErrFrozen)
	assert.False(t, r.Has("b"))

	// Memoized entries are still allowed.
	assert.Equal(t, 3, r.GetOrCreate("c", func() int { return 3 }))
}

func TestKeysInRegistrationOrder(t *testing.T) {
	r := New[string, int]()
	for i, k := range []string{"z", "a", "m"} {
		require.NoError(t, r.Register(k, i))
	}
	assert.Equal(t, []string{"z", "a", "m"}, r.Keys())
}

func TestRange(t *testing.T) {
	r := New[string, int]()
	require.NoError(t, r.Register("a", 1))
	require.NoError(t, r.Register("b", 2))
	require.NoError(t, r.Register("c", 3))

	var seen []string
	r.Range(func(k string, v int) bool {
		seen = append(seen, k)
		return v < 2
	})
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestRangeAllowsRegistration(t *testing.T) {
	r := New[string, int]()
	require.NoError(t, r.Register("a", 1))

	count := 0
	r.Range(func(k string, v int) bool {
		count++
		_ = r.Register(k+"-copy", v)
		return true
	})
	assert.Equal(t, 1, count)
	assert.Equal(t, 2, r.Len())
}

func TestGetOrCreate(t *testing.T) {
	r := New[string, int]()

	calls := 0
	v := r.GetOrCreate("k", func() int { calls++; return 7 })
	assert.Equal(t, 7, v)
	v = r.GetOrCreate("k", func() int { calls++; return 8 })
	assert.Equal(t, 7, v)
	assert.Equal(t, 1, calls)
}

func TestGetOrCreateConcurrent(t *testing.T) {
	r := New[string, *int]()
	var calls atomic.Int32

	var wg sync.WaitGroup
	results := make([]*int, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = r.GetOrCreate("shared", func() *int {
				calls.Add(1)
				v := 42
				return &v
			})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, p := range results {
		assert.Same(t, results[0], p)
	}
}

func TestConcurrentRegister(t *testing.T) {
	r := New[string, int]()
	var wg sync.WaitGroup
	var failures atomic.Int32

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Two goroutines race for each key.
			if err := r.Register(fmt.Sprintf("k%d", i/2), i); err != nil {
				failures.Add(1)
			}
			r.Get(fmt.Sprintf("k%d", i/2))
			r.Keys()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 25, r.Len())
	assert.Equal(t, int32(25), failures.Load())
}
