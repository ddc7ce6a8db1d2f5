package types

import (
	"strconv"
	"strings"
)

// Descriptor keys are a one-byte kind tag followed by length-prefixed
// parts. Any key can be split back into its tag and parts, so distinct part
// lists never share a key even when names contain dots or separators.
func keyOf(tag byte, parts ...string) string {
	var b strings.Builder
	b.WriteByte(tag)
	for _, p := range parts {
		b.WriteString(strconv.Itoa(len(p)))
		b.WriteByte(':')
		b.WriteString(p)
	}
	return b.String()
}

// ParamsKey encodes a parameter list: its arity followed by every
// descriptor key. Two lists share a key only when they have the same length
// and pairwise equal keys.
func ParamsKey(ds []Descriptor) string {
	parts := make([]string, 0, len(ds)+1)
	parts = append(parts, strconv.Itoa(len(ds)))
	for _, d := range ds {
		parts = append(parts, d.Key())
	}
	return keyOf('P', parts...)
}
