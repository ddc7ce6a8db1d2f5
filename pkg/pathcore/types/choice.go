package types

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hashicorp/go-set/v3"

	perrors "github.com/randalmurphal/pathcore/pkg/pathcore/errors"
	"github.com/randalmurphal/pathcore/pkg/pathcore/intern"
	"github.com/randalmurphal/pathcore/pkg/pathcore/lookup"
)

// Choice is a polymorphic element such as value[x]. Each alternative is
// addressed by a tag derived from its type name, so value[x] with String
// and Quantity alternatives exposes valueString and valueQuantity.
type Choice struct {
	baseName     intern.Handle
	alternatives []Descriptor
	tags         []intern.Handle
	altIndex     *lookup.Table
	key          string
}

// NewChoice creates a choice type. Alternatives must be named types or
// references, and their tags must be distinct.
func NewChoice(baseName string, alternatives ...Descriptor) (*Choice, error) {
	subject := baseName + "[x]"
	if baseName == "" {
		return nil, &perrors.ConstraintError{Subject: "choice type", Message: "empty base name"}
	}
	if len(alternatives) == 0 {
		return nil, &perrors.ConstraintError{Subject: subject, Message: "no alternatives"}
	}

	alts := make([]Descriptor, len(alternatives))
	copy(alts, alternatives)
	tags := make([]intern.Handle, len(alts))
	seen := set.New[string](len(alts))
	b := lookup.NewBuilder(len(alts))

	for i, alt := range alts {
		tag, ok := tagOf(alt)
		if !ok {
			return nil, &perrors.ConstraintError{Subject: subject, Message: fmt.Sprintf("alternative %d (%v) has no tag", i, alt)}
		}
		if !seen.Insert(tag) {
			return nil, &perrors.ConstraintError{Subject: subject, Message: fmt.Sprintf("duplicate alternative tag %q", tag)}
		}
		tags[i] = intern.String(tag)
		b.Add(tags[i])
	}

	index, err := b.Build()
	if err != nil {
		return nil, &perrors.ConstraintError{Subject: subject, Message: err.Error()}
	}

	keys := make([]string, len(alts))
	for i, a := range alts {
		keys[i] = a.Key()
	}
	return &Choice{
		baseName:     intern.String(baseName),
		alternatives: alts,
		tags:         tags,
		altIndex:     index,
		key:          keyOf('H', append([]string{baseName}, keys...)...),
	}, nil
}

func (c *Choice) Kind() Kind                     { return KindChoice }
func (c *Choice) Key() string                    { return c.key }
func (c *Choice) BaseName() intern.Handle        { return c.baseName }
func (c *Choice) NumAlternatives() int           { return len(c.alternatives) }
func (c *Choice) AlternativeAt(i int) Descriptor { return c.alternatives[i] }
func (c *Choice) descriptor()                    {}

// String formats the choice for diagnostics.
func (c *Choice) String() string {
	names := make([]string, len(c.alternatives))
	for i, a := range c.alternatives {
		names[i] = a.String()
	}
	return c.baseName.String() + "[x](" + strings.Join(names, " | ") + ")"
}

// Alternatives returns a copy of the alternative types.
func (c *Choice) Alternatives() []Descriptor {
	out := make([]Descriptor, len(c.alternatives))
	copy(out, c.alternatives)
	return out
}

// Alternative finds an alternative by tag, e.g. "Quantity".
func (c *Choice) Alternative(tag string) (Descriptor, bool) {
	i, ok := c.altIndex.Index(tag)
	if !ok {
		return nil, false
	}
	return c.alternatives[i], true
}

// AlternativeFor resolves a concrete element name such as "valueQuantity".
func (c *Choice) AlternativeFor(elementName string) (Descriptor, bool) {
	tag, ok := strings.CutPrefix(elementName, c.baseName.String())
	if !ok || tag == "" {
		return nil, false
	}
	return c.Alternative(tag)
}

// ElementNames returns the concrete element names of every alternative.
func (c *Choice) ElementNames() []string {
	out := make([]string, len(c.tags))
	for i, t := range c.tags {
		out[i] = c.baseName.String() + t.String()
	}
	return out
}

func tagOf(d Descriptor) (string, bool) {
	switch t := d.(type) {
	case Named:
		return upperFirst(t.Name().String()), true
	case *Reference:
		return upperFirst(t.RefKind().String()), true
	default:
		return "", false
	}
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
