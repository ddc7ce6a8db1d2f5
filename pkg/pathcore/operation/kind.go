// Package operation defines callable operations and the contract between a
// resolved call and its implementation.
//
// An Operation always supports asynchronous evaluation through Evaluate and
// may additionally advertise a synchronous fast path. Metadata describes the
// operation's identity, its accepted signatures and its empty-propagation
// policy. A Resolution binds a Handle to the signature selected for a
// particular call together with the coercions that make the arguments fit.
package operation

import (
	"fmt"

	"github.com/randalmurphal/pathcore/pkg/pathcore/intern"
)

// Tag distinguishes functions from operators.
type Tag uint8

const (
	TagFunction Tag = iota
	TagBinary
	TagUnary
)

func (t Tag) String() string {
	switch t {
	case TagFunction:
		return "function"
	case TagBinary:
		return "binary"
	case TagUnary:
		return "unary"
	default:
		return "unknown"
	}
}

// Associativity of an operator.
type Associativity uint8

const (
	AssocNone Associativity = iota
	AssocLeft
	AssocRight
)

func (a Associativity) String() string {
	switch a {
	case AssocLeft:
		return "left"
	case AssocRight:
		return "right"
	default:
		return "none"
	}
}

// Kind describes how an operation is invoked. Precedence and Associativity
// are meaningful for operators only.
type Kind struct {
	Tag           Tag
	Precedence    int
	Associativity Associativity
}

// Function is the Kind of a named function.
func Function() Kind {
	return Kind{Tag: TagFunction}
}

// Binary is the Kind of a binary operator.
func Binary(precedence int, assoc Associativity) Kind {
	return Kind{Tag: TagBinary, Precedence: precedence, Associativity: assoc}
}

// Unary is the Kind of a prefix operator.
func Unary(precedence int) Kind {
	return Kind{Tag: TagUnary, Precedence: precedence, Associativity: AssocRight}
}

// IsOperator reports whether the kind is binary or unary.
func (k Kind) IsOperator() bool {
	return k.Tag != TagFunction
}

func (k Kind) String() string {
	if !k.IsOperator() {
		return k.Tag.String()
	}
	return fmt.Sprintf("%s(prec=%d, assoc=%s)", k.Tag, k.Precedence, k.Associativity)
}

// Identifier names an operation. The same symbol may be registered as a
// binary and a unary operator at once.
type Identifier struct {
	Symbol intern.Handle
	Kind   Kind
}

// NewIdentifier interns symbol in the default interner.
func NewIdentifier(symbol string, kind Kind) Identifier {
	return Identifier{Symbol: intern.String(symbol), Kind: kind}
}

func (id Identifier) String() string {
	return id.Symbol.String() + "/" + id.Kind.Tag.String()
}
