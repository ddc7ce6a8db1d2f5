// Package registry provides a generic thread-safe, append-only table for
// values indexed by key.
//
// Registry backs the long-lived tables of the engine: the type catalog and
// memoized descriptors. Entries are never replaced or deleted, matching the
// lifecycle of interned names and type descriptors.
//
// # Basic Usage
//
//	r := registry.New[string, types.Descriptor]()
//	if err := r.Register("System.Integer", types.Integer); err != nil {
//	    // registry.ErrExists or registry.ErrFrozen
//	}
//
//	d, ok := r.Get("System.Integer")
//
// # Bootstrap Then Freeze
//
// Tables populated during start-up can be frozen once bootstrap ends:
//
//	r.Freeze()
//	err := r.Register("Late.Type", d) // registry.ErrFrozen
//
// # Memoization
//
// GetOrCreate is atomic: the factory is called at most once per key, even
// under concurrent access. It keeps working after Freeze.
//
//	list := memo.GetOrCreate(key, func() *types.List {
//	    return newList(elem, card)
//	})
//
// # Thread Safety
//
// All methods are safe for concurrent use. Range iterates over a snapshot
// taken in registration order.
package registry
