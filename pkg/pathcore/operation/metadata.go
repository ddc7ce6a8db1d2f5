package operation

import (
	"strings"

	perrors "github.com/randalmurphal/pathcore/pkg/pathcore/errors"
	"github.com/randalmurphal/pathcore/pkg/pathcore/types"
)

// Signature is one accepted parameter list and its result type.
type Signature struct {
	Params []types.Descriptor
	Result types.Descriptor
}

// Sig is shorthand for building a Signature.
func Sig(result types.Descriptor, params ...types.Descriptor) Signature {
	return Signature{Params: params, Result: result}
}

// Arity returns the number of parameters.
func (s Signature) Arity() int {
	return len(s.Params)
}

// Key encodes the parameter list. Two signatures with equal keys accept
// exactly the same argument types.
func (s Signature) Key() string {
	return types.ParamsKey(s.Params)
}

// String formats the signature for diagnostics.
func (s Signature) String() string {
	parts := make([]string, len(s.Params))
	for i, p := range s.Params {
		parts[i] = p.String()
	}
	out := "(" + strings.Join(parts, ", ") + ")"
	if s.Result != nil {
		out += " -> " + s.Result.String()
	}
	return out
}

// Metadata describes an operation. It is treated as immutable once the
// operation has been registered.
type Metadata struct {
	Identifier Identifier
	Signatures []Signature

	// SupportsSync must match the implementation's SupportsSync.
	SupportsSync bool

	// PropagatesEmpty marks operations whose result is empty whenever any
	// argument is empty. The evaluator skips resolution for such calls.
	PropagatesEmpty bool

	Documentation string
}

// Clone returns a deep copy so registered metadata cannot be changed
// through the caller's value.
func (m *Metadata) Clone() *Metadata {
	out := *m
	out.Signatures = make([]Signature, len(m.Signatures))
	for i, s := range m.Signatures {
		out.Signatures[i] = Signature{
			Params: append([]types.Descriptor(nil), s.Params...),
			Result: s.Result,
		}
	}
	return &out
}

// Validate checks that the metadata is well formed.
func (m *Metadata) Validate() error {
	subject := "operation " + m.Identifier.String()
	if !m.Identifier.Symbol.IsValid() || m.Identifier.Symbol.Len() == 0 {
		return &perrors.ConstraintError{Subject: "operation", Message: "empty symbol"}
	}
	if len(m.Signatures) == 0 {
		return &perrors.ConstraintError{Subject: subject, Message: "no signatures"}
	}
	for _, s := range m.Signatures {
		switch m.Identifier.Kind.Tag {
		case TagBinary:
			if s.Arity() != 2 {
				return &perrors.ConstraintError{Subject: subject, Message: "binary operator signature " + s.String() + " must take two parameters"}
			}
		case TagUnary:
			if s.Arity() != 1 {
				return &perrors.ConstraintError{Subject: subject, Message: "unary operator signature " + s.String() + " must take one parameter"}
			}
		}
		for _, p := range s.Params {
			if p == nil {
				return &perrors.ConstraintError{Subject: subject, Message: "nil parameter type in " + s.String()}
			}
		}
	}
	return nil
}

// Signatures with the given arity.
func (m *Metadata) withArity(n int) []Signature {
	var out []Signature
	for _, s := range m.Signatures {
		if s.Arity() == n {
			out = append(out, s)
		}
	}
	return out
}
