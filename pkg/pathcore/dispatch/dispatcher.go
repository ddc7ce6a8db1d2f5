package dispatch

import (
	"slices"

	perrors "github.com/randalmurphal/pathcore/pkg/pathcore/errors"
	"github.com/randalmurphal/pathcore/pkg/pathcore/intern"
	"github.com/randalmurphal/pathcore/pkg/pathcore/operation"
	"github.com/randalmurphal/pathcore/pkg/pathcore/types"
)

// Dispatcher resolves calls through a Cache in front of a Registry.
//
// A cached resolution is only used while the symbol's registry version is
// unchanged, so the dispatcher never answers with a handle that a direct
// Registry.ResolveKind would not return. Errors are not cached.
type Dispatcher struct {
	registry *Registry
	cache    *Cache
	verify   bool
}

// NewDispatcher combines registry and cache. cache may be nil to disable
// caching.
func NewDispatcher(registry *Registry, cache *Cache) *Dispatcher {
	return &Dispatcher{registry: registry, cache: cache}
}

// SetVerify enables re-resolution on every cache hit. A disagreement
// panics with an InvariantViolationError. Intended for tests and canaries.
func (d *Dispatcher) SetVerify(on bool) {
	d.verify = on
}

// Registry returns the underlying registry.
func (d *Dispatcher) Registry() *Registry { return d.registry }

// Cache returns the underlying cache, or nil.
func (d *Dispatcher) Cache() *Cache { return d.cache }

// Resolve returns the resolution for symbol with the given tag and
// argument types. cached reports whether the answer came from the cache.
func (d *Dispatcher) Resolve(symbol intern.Handle, tag operation.Tag, args []types.Descriptor) (res operation.Resolution, cached bool, err error) {
	if d.cache == nil {
		res, err = d.registry.ResolveKind(symbol.String(), tag, args)
		return res, false, err
	}

	key := NewKey(symbol, tag, args)
	version := d.registry.Version(symbol)
	if hit, ok := d.cache.Get(key); ok {
		if hit.Version == version {
			if d.verify {
				d.check(key, hit, args)
			}
			return hit, true, nil
		}
		d.cache.Remove(key)
	}

	res, err = d.registry.ResolveKind(symbol.String(), tag, args)
	if err != nil {
		return res, false, err
	}
	d.cache.Insert(key, res)
	return res, false, nil
}

func (d *Dispatcher) check(key Key, hit operation.Resolution, args []types.Descriptor) {
	fresh, err := d.registry.ResolveKind(key.Symbol.String(), key.Tag, args)
	if err != nil {
		perrors.Violation("dispatch cache", "cached %s for %s but direct resolution fails: %v", hit, key, err)
	}
	if fresh.Handle != hit.Handle || fresh.Signature.Key() != hit.Signature.Key() ||
		!slices.EqualFunc(fresh.Coercions, hit.Coercions, func(a, b operation.Coercion) bool {
			return a.Cost == b.Cost && slices.Equal(a.Steps, b.Steps)
		}) {
		perrors.Violation("dispatch cache", "cached %s for %s but direct resolution gives %s", hit, key, fresh)
	}
}
