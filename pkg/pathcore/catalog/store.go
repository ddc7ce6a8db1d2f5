package catalog

import (
	"errors"
	"time"
)

// Store persists named snapshots. Implementations must be safe for
// concurrent use.
type Store interface {
	// Save stores a snapshot under name, replacing any earlier one.
	Save(name string, snap Snapshot) error

	// Load returns ErrNotFound when no snapshot has the name.
	Load(name string) (Snapshot, error)

	// List returns snapshot summaries ordered by save sequence.
	List() ([]Info, error)

	// Delete returns nil when the snapshot does not exist.
	Delete(name string) error

	Close() error
}

// Info summarizes a stored snapshot without decoding it.
type Info struct {
	Name       string
	Sequence   int
	Taken      time.Time
	Operations int
	Size       int64
}

var (
	// ErrNotFound indicates a snapshot doesn't exist.
	ErrNotFound = errors.New("snapshot not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("catalog store closed")
)
