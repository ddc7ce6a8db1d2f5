package builtin

import (
	"context"

	perrors "github.com/randalmurphal/pathcore/pkg/pathcore/errors"
	"github.com/randalmurphal/pathcore/pkg/pathcore/operation"
	"github.com/randalmurphal/pathcore/pkg/pathcore/types"
	"github.com/randalmurphal/pathcore/pkg/pathcore/value"
)

// Resolver fetches the value a reference points to. Implementations talk
// to external stores; wrap temporary failures with perrors.Transient so
// that resolve() retries them.
type Resolver interface {
	Resolve(ctx context.Context, reference string) (value.Value, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, reference string) (value.Value, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, reference string) (value.Value, error) {
	return f(ctx, reference)
}

func (l *Library) resolution() []operation.Operation {
	return []operation.Operation{
		operation.NewAsync(operation.Metadata{
			Identifier:      operation.NewIdentifier("resolve", operation.Function()),
			Signatures:      sigs(operation.Sig(types.AnyList, types.AnyList)),
			PropagatesEmpty: true,
			Documentation:   "Resolves each reference in the input through the configured resolver.",
		}, l.resolve),
	}
}

func (l *Library) resolve(ctx context.Context, args []value.Value) (value.Value, error) {
	if l.resolver == nil {
		return nil, &perrors.DomainError{Symbol: "resolve", Message: "no resolver configured"}
	}

	var out []value.Value
	for _, it := range value.Items(args[0]) {
		ref, ok := reference(it)
		if !ok {
			continue
		}
		res := perrors.WithRetryContext(ctx, l.retry, func(ctx context.Context) (value.Value, error) {
			return l.resolver.Resolve(ctx, ref)
		})
		if res.Err != nil {
			return nil, res.Err
		}
		out = append(out, res.Value)
	}
	return collection(value.NewCollection(out...)), nil
}

// reference extracts the target of a String item or of a composite with a
// "reference" field.
func reference(v value.Value) (string, bool) {
	switch x := v.(type) {
	case value.String:
		return string(x), x != ""
	case *value.Composite:
		if r, ok := value.Unwrap(x.Field("reference")); ok {
			if s, isStr := r.(value.String); isStr && s != "" {
				return string(s), true
			}
		}
	}
	return "", false
}
