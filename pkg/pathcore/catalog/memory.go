package catalog

import (
	"slices"
	"sync"
)

// MemoryStore keeps snapshots in memory. Data is lost when the process
// exits.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string]stored
	seq    int
	closed bool
}

type stored struct {
	encoded  []byte
	sequence int
	info     Info
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]stored)}
}

// Save implements Store. The snapshot is encoded so later changes to the
// caller's value do not leak in.
func (m *MemoryStore) Save(name string, snap Snapshot) error {
	encoded, err := snap.Marshal()
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrStoreClosed
	}
	m.seq++
	m.data[name] = stored{
		encoded:  encoded,
		sequence: m.seq,
		info: Info{
			Name:       name,
			Sequence:   m.seq,
			Taken:      snap.Taken,
			Operations: len(snap.Entries),
			Size:       int64(len(encoded)),
		},
	}
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(name string) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return Snapshot{}, ErrStoreClosed
	}
	s, ok := m.data[name]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return Unmarshal(s.encoded)
}

// List implements Store.
func (m *MemoryStore) List() ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrStoreClosed
	}
	infos := make([]Info, 0, len(m.data))
	for _, s := range m.data {
		infos = append(infos, s.info)
	}
	slices.SortFunc(infos, func(a, b Info) int { return a.Sequence - b.Sequence })
	return infos, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrStoreClosed
	}
	delete(m.data, name)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.data = nil
	return nil
}

// Len returns the number of stored snapshots.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
