// Package lookup builds immutable perfect-hash tables over element names.
//
// A Table maps each of a fixed set of interned names to its position in
// O(1) with no probing. Tables are computed once by a Builder using
// hash-and-displace: names are grouped into buckets by a first hash and
// every bucket gets its own seed for a second hash, chosen so the bucket's
// names land on free slots. Lookups always compare the stored name, so a
// name outside the key set can never produce a false hit.
package lookup

import (
	"github.com/zeebo/xxh3"

	"github.com/randalmurphal/pathcore/pkg/pathcore/intern"
)

// Table is a frozen name to index map. The zero value is an empty table.
// Tables are safe for concurrent use.
type Table struct {
	keys  []intern.Handle
	seeds []uint32
	slots []int32
}

func bucketOf(name string, buckets int) int {
	return int(xxh3.HashStringSeed(name, 0) % uint64(buckets))
}

func slotOf(name string, seed uint32, slots int) int {
	return int(xxh3.HashStringSeed(name, uint64(seed)) % uint64(slots))
}

// Index returns the position of name in the key set.
func (t *Table) Index(name string) (int, bool) {
	if t == nil || len(t.keys) == 0 {
		return 0, false
	}
	seed := t.seeds[bucketOf(name, len(t.seeds))]
	idx := t.slots[slotOf(name, seed, len(t.slots))]
	if idx < 0 || t.keys[idx].String() != name {
		return 0, false
	}
	return int(idx), true
}

// IndexOf returns the position of h, comparing by handle identity.
func (t *Table) IndexOf(h intern.Handle) (int, bool) {
	if t == nil || len(t.keys) == 0 || !h.IsValid() {
		return 0, false
	}
	name := h.String()
	seed := t.seeds[bucketOf(name, len(t.seeds))]
	idx := t.slots[slotOf(name, seed, len(t.slots))]
	if idx < 0 || t.keys[idx] != h {
		return 0, false
	}
	return int(idx), true
}

// Len returns the number of keys.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Key returns the key at position i.
func (t *Table) Key(i int) intern.Handle {
	return t.keys[i]
}

// Keys returns the keys in insertion order.
func (t *Table) Keys() []intern.Handle {
	if t == nil {
		return nil
	}
	out := make([]intern.Handle, len(t.keys))
	copy(out, t.keys)
	return out
}
