package dispatch

import (
	"github.com/randalmurphal/pathcore/pkg/pathcore/operation"
	"github.com/randalmurphal/pathcore/pkg/pathcore/types"
)

type conversion struct {
	from, to types.Descriptor
	step     operation.Step
	cost     int
}

// Implicit conversions between primitives.
var conversions = []conversion{
	{types.Integer, types.Decimal, operation.StepToDecimal, 2},
	{types.Date, types.DateTime, operation.StepToDateTime, 2},
	{types.Decimal, types.Quantity, operation.StepToQuantity, 3},
	{types.Integer, types.Quantity, operation.StepToQuantity, 4},
}

// match computes how an argument of type arg can be passed to a parameter
// of type param.
func match(arg, param types.Descriptor) (operation.Coercion, bool) {
	if types.Equal(arg, param) {
		return operation.Coercion{}, true
	}

	al, argIsList := arg.(*types.List)
	pl, paramIsList := param.(*types.List)

	// The empty collection only binds to collection-shaped parameters.
	if argIsList && al.IsEmpty() {
		switch {
		case paramIsList:
			return operation.Coercion{}, pl.Card().Min == 0
		case types.Equal(param, types.Any):
			return operation.Coercion{}.Then(operation.StepAny, operation.StepAny.Cost()), true
		}
		return operation.Coercion{}, false
	}

	if types.Equal(param, types.Any) {
		return operation.Coercion{}.Then(operation.StepAny, operation.StepAny.Cost()), true
	}

	switch {
	case paramIsList && argIsList:
		if !pl.Card().Covers(al.Card()) {
			return operation.Coercion{}, false
		}
		return matchShape(al.Elem(), pl.Elem())

	case paramIsList:
		if !pl.Card().Allows(1) {
			return operation.Coercion{}, false
		}
		c, ok := matchShape(arg, pl.Elem())
		if !ok {
			return c, false
		}
		return c.Then(operation.StepWrap, operation.StepWrap.Cost()), true

	case argIsList:
		if al.Card().Max != 1 {
			return operation.Coercion{}, false
		}
		c, ok := matchScalar(al.Elem(), param)
		if !ok {
			return c, false
		}
		return prepend(operation.StepUnwrap, c), true
	}
	return matchScalar(arg, param)
}

// matchShape matches element types without converting values, as needed
// inside collections.
func matchShape(arg, param types.Descriptor) (operation.Coercion, bool) {
	c, ok := matchScalar(arg, param)
	if !ok {
		return c, false
	}
	for _, s := range c.Steps {
		switch s {
		case operation.StepSubtype, operation.StepChoice, operation.StepAny:
		default:
			return operation.Coercion{}, false
		}
	}
	return c, true
}

func matchScalar(arg, param types.Descriptor) (operation.Coercion, bool) {
	if types.Equal(arg, param) {
		return operation.Coercion{}, true
	}
	if types.Equal(param, types.Any) {
		return operation.Coercion{}.Then(operation.StepAny, operation.StepAny.Cost()), true
	}

	switch p := param.(type) {
	case *types.Choice:
		best, found := operation.Coercion{}, false
		for _, alt := range p.Alternatives() {
			c, ok := matchScalar(arg, alt)
			if ok && (!found || c.Cost < best.Cost) {
				best, found = c, true
			}
		}
		if !found {
			return best, false
		}
		return best.Then(operation.StepChoice, operation.StepChoice.Cost()), true

	case *types.Reference:
		if p.Admits(arg) {
			return operation.Coercion{}.Then(operation.StepSubtype, operation.StepSubtype.Cost()), true
		}
		return operation.Coercion{}, false
	}

	if hops, ok := types.Distance(arg, param); ok {
		return operation.Coercion{}.Then(operation.StepSubtype, hops*operation.StepSubtype.Cost()), true
	}
	for _, conv := range conversions {
		if types.Equal(arg, conv.from) && types.Equal(param, conv.to) {
			return operation.Coercion{}.Then(conv.step, conv.cost), true
		}
	}
	return operation.Coercion{}, false
}

func prepend(s operation.Step, c operation.Coercion) operation.Coercion {
	return operation.Coercion{
		Steps: append([]operation.Step{s}, c.Steps...),
		Cost:  s.Cost() + c.Cost,
	}
}

// dominates reports whether cost vector a is at least as good as b in every
// position and strictly better in one.
func dominates(a, b []int) bool {
	strict := false
	for i := range a {
		if a[i] > b[i] {
			return false
		}
		if a[i] < b[i] {
			strict = true
		}
	}
	return strict
}
