// Package catalog snapshots the operations held by a registry and persists
// the snapshots for tooling: documentation generators, compatibility checks
// between releases, and editors that offer completion.
package catalog

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/randalmurphal/pathcore/pkg/pathcore/operation"
)

// Source lists registered operations. *dispatch.Registry implements it.
type Source interface {
	Operations() []*operation.Handle
}

// Entry describes one registered operation.
type Entry struct {
	Handle          uint64   `json:"handle"`
	Symbol          string   `json:"symbol"`
	Tag             string   `json:"tag"`
	Precedence      int      `json:"precedence,omitempty"`
	Associativity   string   `json:"associativity,omitempty"`
	Signatures      []string `json:"signatures"`
	SupportsSync    bool     `json:"supports_sync"`
	PropagatesEmpty bool     `json:"propagates_empty"`
	Documentation   string   `json:"documentation,omitempty"`
}

// Snapshot is the operation set of a registry at one point in time.
type Snapshot struct {
	Taken   time.Time `json:"taken"`
	Entries []Entry   `json:"entries"`
}

// Take snapshots every operation of src in registration order.
func Take(src Source) Snapshot {
	handles := src.Operations()
	snap := Snapshot{Taken: time.Now().UTC(), Entries: make([]Entry, 0, len(handles))}
	for _, h := range handles {
		snap.Entries = append(snap.Entries, entryOf(h))
	}
	return snap
}

func entryOf(h *operation.Handle) Entry {
	meta := h.Metadata()
	e := Entry{
		Handle:          h.ID(),
		Symbol:          meta.Identifier.Symbol.String(),
		Tag:             meta.Identifier.Kind.Tag.String(),
		SupportsSync:    meta.SupportsSync,
		PropagatesEmpty: meta.PropagatesEmpty,
		Documentation:   meta.Documentation,
	}
	if meta.Identifier.Kind.IsOperator() {
		e.Precedence = meta.Identifier.Kind.Precedence
		e.Associativity = meta.Identifier.Kind.Associativity.String()
	}
	for _, sig := range meta.Signatures {
		e.Signatures = append(e.Signatures, sig.String())
	}
	return e
}

// Lookup returns the entries registered under symbol.
func (s Snapshot) Lookup(symbol string) []Entry {
	var out []Entry
	for _, e := range s.Entries {
		if e.Symbol == symbol {
			out = append(out, e)
		}
	}
	return out
}

// Overloads returns the number of signatures across every entry.
func (s Snapshot) Overloads() int {
	n := 0
	for _, e := range s.Entries {
		n += len(e.Signatures)
	}
	return n
}

// Marshal encodes the snapshot as JSON.
func (s Snapshot) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// Unmarshal decodes a snapshot written by Marshal.
func Unmarshal(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}

// Changes lists overloads that differ between two snapshots. Overloads are
// named "symbol/tag (params) -> result".
type Changes struct {
	Added   []string
	Removed []string
}

// Empty reports whether the snapshots hold the same overloads.
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0
}

// Diff compares the overloads of two snapshots. Handle IDs and
// documentation are ignored.
func Diff(before, after Snapshot) Changes {
	old, cur := overloads(before), overloads(after)
	var c Changes
	for k := range cur {
		if !old[k] {
			c.Added = append(c.Added, k)
		}
	}
	for k := range old {
		if !cur[k] {
			c.Removed = append(c.Removed, k)
		}
	}
	slices.Sort(c.Added)
	slices.Sort(c.Removed)
	return c
}

func overloads(s Snapshot) map[string]bool {
	out := make(map[string]bool, s.Overloads())
	for _, e := range s.Entries {
		for _, sig := range e.Signatures {
			out[e.Symbol+"/"+e.Tag+" "+sig] = true
		}
	}
	return out
}
