// Package dispatch resolves calls to registered operations.
//
// The Registry holds every operation grouped by symbol. Readers work on an
// immutable snapshot and are never blocked by a concurrent Register. The
// Cache remembers resolutions per call shape, and the Dispatcher combines
// the two so that a cached answer is always the one a fresh resolution
// would give.
package dispatch

import (
	"strings"

	"github.com/randalmurphal/pathcore/pkg/pathcore/intern"
	"github.com/randalmurphal/pathcore/pkg/pathcore/operation"
	"github.com/randalmurphal/pathcore/pkg/pathcore/types"
)

// Key identifies a call shape: symbol, invocation kind and argument types.
// Keys compare by value.
type Key struct {
	Symbol intern.Handle
	Tag    operation.Tag
	Args   string

	// display is derived from the same descriptors as Args and never
	// distinguishes keys on its own.
	display string
}

// NewKey builds the key for a call. Args holds the arity and every
// argument's structural key, length-prefixed, so structurally equal
// argument lists share cache entries and no others do.
func NewKey(symbol intern.Handle, tag operation.Tag, args []types.Descriptor) Key {
	names := make([]string, len(args))
	for i, a := range args {
		names[i] = a.String()
	}
	return Key{
		Symbol:  symbol,
		Tag:     tag,
		Args:    types.ParamsKey(args),
		display: strings.Join(names, ", "),
	}
}

func (k Key) String() string {
	return k.Symbol.String() + "/" + k.Tag.String() + "(" + k.display + ")"
}
