package operation

import (
	"fmt"
	"strings"

	"github.com/randalmurphal/pathcore/pkg/pathcore/value"
)

// Step is a single conversion applied to an argument.
type Step uint8

const (
	StepUnwrap Step = iota
	StepSubtype
	StepToDecimal
	StepToDateTime
	StepToQuantity
	StepWrap
	StepChoice
	StepAny
)

// Cost of each step during overload resolution. Lower is more specific.
var stepCost = [...]int{
	StepUnwrap:     0,
	StepSubtype:    1,
	StepToDecimal:  2,
	StepToDateTime: 2,
	StepToQuantity: 3,
	StepWrap:       1,
	StepChoice:     1,
	StepAny:        8,
}

// Cost returns the resolution cost of a step. Subtype steps cost one per
// base-type hop and are weighted by the caller.
func (s Step) Cost() int {
	return stepCost[s]
}

func (s Step) String() string {
	switch s {
	case StepUnwrap:
		return "unwrap"
	case StepSubtype:
		return "subtype"
	case StepToDecimal:
		return "decimal"
	case StepToDateTime:
		return "datetime"
	case StepToQuantity:
		return "quantity"
	case StepWrap:
		return "wrap"
	case StepChoice:
		return "choice"
	case StepAny:
		return "any"
	default:
		return "unknown"
	}
}

// Coercion is the conversion recorded for one argument. A zero Coercion is
// an exact match.
type Coercion struct {
	Steps []Step
	Cost  int
}

// Exact reports whether the argument is passed through unchanged.
func (c Coercion) Exact() bool {
	return len(c.Steps) == 0
}

// Then appends a step with the given cost.
func (c Coercion) Then(s Step, cost int) Coercion {
	steps := make([]Step, len(c.Steps), len(c.Steps)+1)
	copy(steps, c.Steps)
	return Coercion{Steps: append(steps, s), Cost: c.Cost + cost}
}

func (c Coercion) String() string {
	if c.Exact() {
		return "exact"
	}
	parts := make([]string, len(c.Steps))
	for i, s := range c.Steps {
		parts[i] = s.String()
	}
	return strings.Join(parts, "+")
}

// Apply converts v. Subtype, choice and Any steps do not change the value.
func (c Coercion) Apply(v value.Value) (value.Value, error) {
	for _, s := range c.Steps {
		in := v
		var ok bool
		switch s {
		case StepUnwrap:
			if value.IsEmpty(in) {
				return value.Empty{}, nil
			}
			v, ok = value.Unwrap(in)
		case StepToDecimal:
			v, ok = value.ToDecimal(in)
		case StepToDateTime:
			v, ok = value.ToDateTime(in)
		case StepToQuantity:
			v, ok = value.ToQuantity(in)
		case StepWrap:
			v, ok = value.NewCollection(in), true
		default:
			ok = true
		}
		if !ok {
			return nil, fmt.Errorf("cannot apply %s coercion to %s", s, in.Type())
		}
	}
	return v, nil
}
