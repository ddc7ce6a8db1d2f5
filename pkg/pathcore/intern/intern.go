// Package intern deduplicates identifier text into canonical handles.
//
// Symbols, type names and element names are interned once and compared by
// handle identity afterwards. Handles stay valid for the life of the
// process; nothing is ever removed from an Interner.
package intern

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

const (
	shardCount = 32
	slabSize   = 256
)

// Handle is a canonical reference to interned text. Two handles from the
// same Interner are equal exactly when their text is equal.
// The zero Handle is invalid and prints as the empty string.
type Handle struct {
	e *entry
}

type entry struct {
	text string
	id   uint32
}

// String returns the interned text.
func (h Handle) String() string {
	if h.e == nil {
		return ""
	}
	return h.e.text
}

// IsValid reports whether h came from an Interner.
func (h Handle) IsValid() bool {
	return h.e != nil
}

// ID returns a small integer unique to h within its Interner.
func (h Handle) ID() uint32 {
	if h.e == nil {
		return 0
	}
	return h.e.id
}

// Len returns the byte length of the interned text.
func (h Handle) Len() int {
	if h.e == nil {
		return 0
	}
	return len(h.e.text)
}

type shard struct {
	mu      sync.RWMutex
	entries map[string]*entry
	slab    []entry
}

// Interner is a concurrent, append-only string table.
type Interner struct {
	shards [shardCount]shard

	nextID  atomic.Uint32
	count   atomic.Int64
	bytes   atomic.Int64
	lookups atomic.Uint64
	hits    atomic.Uint64
}

// Default is the process-wide interner shared by the type model and the
// operation registry.
var Default = New()

// New creates an empty Interner.
func New() *Interner {
	in := &Interner{}
	for i := range in.shards {
		in.shards[i].entries = make(map[string]*entry)
	}
	return in
}

// String interns s in the Default interner.
func String(s string) Handle {
	return Default.Intern(s)
}

func (in *Interner) shardFor(s string) *shard {
	return &in.shards[xxhash.Sum64String(s)%shardCount]
}

// Intern returns the canonical handle for s, creating it on first use.
// Concurrent calls with equal text observe exactly one canonical entry.
func (in *Interner) Intern(s string) Handle {
	in.lookups.Add(1)
	sh := in.shardFor(s)

	// Fast path: already interned
	sh.mu.RLock()
	e, ok := sh.entries[s]
	sh.mu.RUnlock()
	if ok {
		in.hits.Add(1)
		return Handle{e}
	}

	sh.mu.Lock()
	defer sh.mu.Unlock()

	// Double-check after acquiring write lock
	if e, ok := sh.entries[s]; ok {
		in.hits.Add(1)
		return Handle{e}
	}

	if len(sh.slab) == cap(sh.slab) {
		sh.slab = make([]entry, 0, slabSize)
	}
	// Clone so the table never pins a caller's larger buffer.
	text := strings.Clone(s)
	sh.slab = append(sh.slab, entry{text: text, id: in.nextID.Add(1)})
	e = &sh.slab[len(sh.slab)-1]
	sh.entries[text] = e

	in.count.Add(1)
	in.bytes.Add(int64(len(text)))
	return Handle{e}
}

// Lookup returns the handle for s if it was interned before. It never
// allocates a new entry.
func (in *Interner) Lookup(s string) (Handle, bool) {
	sh := in.shardFor(s)
	sh.mu.RLock()
	e, ok := sh.entries[s]
	sh.mu.RUnlock()
	if !ok {
		return Handle{}, false
	}
	return Handle{e}, true
}

// Len returns the number of distinct strings interned.
func (in *Interner) Len() int {
	return int(in.count.Load())
}
