package lookup

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-set/v3"

	perrors "github.com/randalmurphal/pathcore/pkg/pathcore/errors"
	"github.com/randalmurphal/pathcore/pkg/pathcore/intern"
)

const (
	// bucketLoad is the average number of keys per displacement bucket.
	bucketLoad = 4

	maxSeed     = 1 << 20
	maxAttempts = 8
)

// Builder accumulates names for a Table. A Builder is not safe for
// concurrent use.
type Builder struct {
	keys []intern.Handle
}

// NewBuilder creates a builder sized for n keys.
func NewBuilder(n int) *Builder {
	return &Builder{keys: make([]intern.Handle, 0, n)}
}

// Add appends a key. Positions follow insertion order.
func (b *Builder) Add(name intern.Handle) *Builder {
	b.keys = append(b.keys, name)
	return b
}

// AddString interns name in the Default interner and appends it.
func (b *Builder) AddString(name string) *Builder {
	return b.Add(intern.String(name))
}

// Build computes the table. Duplicate or invalid keys yield a
// ConstraintError.
func (b *Builder) Build() (*Table, error) {
	seen := set.New[intern.Handle](len(b.keys))
	for i, k := range b.keys {
		if !k.IsValid() {
			return nil, &perrors.ConstraintError{Subject: "lookup table", Message: fmt.Sprintf("key %d is not interned", i)}
		}
		if !seen.Insert(k) {
			return nil, &perrors.ConstraintError{Subject: "lookup table", Message: fmt.Sprintf("duplicate key %q", k.String())}
		}
	}

	keys := make([]intern.Handle, len(b.keys))
	copy(keys, b.keys)
	if len(keys) == 0 {
		return &Table{}, nil
	}

	buckets := (len(keys) + bucketLoad - 1) / bucketLoad
	slots := len(keys)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if t, ok := place(keys, buckets, slots); ok {
			verify(t)
			return t, nil
		}
		slots += slots/4 + 1
	}
	return nil, &perrors.ConstraintError{
		Subject: "lookup table",
		Message: fmt.Sprintf("no displacement found for %d keys", len(keys)),
	}
}

// New builds a table from plain strings using the Default interner.
func New(names ...string) (*Table, error) {
	b := NewBuilder(len(names))
	for _, n := range names {
		b.AddString(n)
	}
	return b.Build()
}

// place tries to assign every key to a distinct slot with one seed per bucket.
func place(keys []intern.Handle, nBuckets, nSlots int) (*Table, bool) {
	buckets := make([][]int, nBuckets)
	for i, k := range keys {
		b := bucketOf(k.String(), nBuckets)
		buckets[b] = append(buckets[b], i)
	}

	// Largest buckets first; they are the hardest to place.
	order := make([]int, nBuckets)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return len(buckets[order[a]]) > len(buckets[order[b]])
	})

	slots := make([]int32, nSlots)
	for i := range slots {
		slots[i] = -1
	}
	seeds := make([]uint32, nBuckets)
	pos := make([]int, 0, bucketLoad*2)

	for _, b := range order {
		members := buckets[b]
		if len(members) == 0 {
			break
		}
		placed := false
		for seed := uint32(1); seed <= maxSeed; seed++ {
			pos = pos[:0]
			if fits(keys, members, seed, slots, &pos) {
				for j, idx := range members {
					slots[pos[j]] = int32(idx)
				}
				seeds[b] = seed
				placed = true
				break
			}
		}
		if !placed {
			return nil, false
		}
	}

	return &Table{keys: keys, seeds: seeds, slots: slots}, true
}

func fits(keys []intern.Handle, members []int, seed uint32, slots []int32, pos *[]int) bool {
	for _, idx := range members {
		p := slotOf(keys[idx].String(), seed, len(slots))
		if slots[p] >= 0 {
			return false
		}
		for _, q := range *pos {
			if q == p {
				return false
			}
		}
		*pos = append(*pos, p)
	}
	return true
}

func verify(t *Table) {
	for i, k := range t.keys {
		got, ok := t.IndexOf(k)
		if !ok || got != i {
			perrors.Violation("lookup", "key %q resolves to %d, want %d", k.String(), got, i)
		}
	}
}
