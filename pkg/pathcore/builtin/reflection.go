package builtin

import (
	"fmt"

	perrors "github.com/randalmurphal/pathcore/pkg/pathcore/errors"
	"github.com/randalmurphal/pathcore/pkg/pathcore/operation"
	"github.com/randalmurphal/pathcore/pkg/pathcore/types"
	"github.com/randalmurphal/pathcore/pkg/pathcore/value"
)

func typeInfo(name string) *types.Composite {
	t, err := types.NewComposite(types.SystemNamespace, name, nil, []types.Element{
		types.NewElement("namespace", types.String, types.Optional),
		types.NewElement("name", types.String, types.Required),
		types.NewElement("baseType", types.String, types.Optional),
	})
	if err != nil {
		panic(err)
	}
	return t
}

// Reflection result types returned by type().
var (
	SimpleTypeInfo = typeInfo("SimpleTypeInfo")
	ClassInfo      = typeInfo("ClassInfo")
)

func (l *Library) reflection() []operation.Operation {
	return build(
		def{
			symbol:     "type",
			kind:       operation.Function(),
			sigs:       sigs(operation.Sig(types.AnyList, types.Any)),
			propagates: true,
			doc:        "Type information for each input item.",
			fn: func(args []value.Value) (value.Value, error) {
				var out []value.Value
				for _, it := range value.Items(args[0]) {
					info, err := describe(it.Type())
					if err != nil {
						return nil, err
					}
					out = append(out, info)
				}
				return collection(out), nil
			},
		},
		def{
			symbol:     "is",
			kind:       binary(PrecType),
			sigs:       sigs(operation.Sig(types.Boolean, types.Any, types.String)),
			propagates: true,
			doc:        "True when the item is of the named type or one of its subtypes.",
			fn: func(args []value.Value) (value.Value, error) {
				v, t, ok, err := l.typeTest("is", args)
				if err != nil || !ok {
					return value.Empty{}, err
				}
				return value.Boolean(types.IsSubtype(v.Type(), t)), nil
			},
		},
		def{
			symbol:     "as",
			kind:       binary(PrecType),
			sigs:       sigs(operation.Sig(types.Any, types.Any, types.String)),
			propagates: true,
			doc:        "The item when it is of the named type, otherwise empty.",
			fn: func(args []value.Value) (value.Value, error) {
				v, t, ok, err := l.typeTest("as", args)
				if err != nil || !ok {
					return value.Empty{}, err
				}
				if types.IsSubtype(v.Type(), t) {
					return v, nil
				}
				return value.Empty{}, nil
			},
		},
		def{
			symbol:     "ofType",
			kind:       operation.Function(),
			sigs:       sigs(operation.Sig(types.AnyList, types.AnyList, types.String)),
			propagates: true,
			doc:        "Items of the named type or one of its subtypes.",
			fn: func(args []value.Value) (value.Value, error) {
				t, err := l.typeArg("ofType", args)
				if err != nil {
					return nil, err
				}
				var out []value.Value
				for _, it := range value.Items(args[0]) {
					if types.IsSubtype(it.Type(), t) {
						out = append(out, it)
					}
				}
				return collection(out), nil
			},
		},
	)
}

func describe(t types.Descriptor) (value.Value, error) {
	named, ok := t.(types.Named)
	if !ok {
		return value.NewComposite(SimpleTypeInfo, map[string]value.Value{"name": value.String(t.String())})
	}
	fields := map[string]value.Value{
		"namespace": value.String(named.Namespace().String()),
		"name":      value.String(named.Name().String()),
	}
	if base, ok := named.Base().(types.Named); ok {
		fields["baseType"] = value.String(base.QualifiedName())
	}
	info := SimpleTypeInfo
	if _, isClass := t.(*types.Composite); isClass {
		info = ClassInfo
	}
	return value.NewComposite(info, fields)
}

// typeTest reads the single item and type name of is and as.
func (l *Library) typeTest(symbol string, args []value.Value) (value.Value, types.Descriptor, bool, error) {
	v, ok, err := single(symbol, args, 0)
	if err != nil || !ok {
		return nil, nil, false, err
	}
	t, err := l.typeArg(symbol, args)
	if err != nil {
		return nil, nil, false, err
	}
	return v, t, true, nil
}

// typeArg resolves the type named by args[1] in the library catalog.
func (l *Library) typeArg(symbol string, args []value.Value) (types.Descriptor, error) {
	v, ok, err := single(symbol, args, 1)
	if err != nil {
		return nil, err
	}
	name, isStr := v.(value.String)
	if !ok || !isStr {
		return nil, &perrors.ArgumentValidationError{Symbol: symbol, Position: 1, Message: "expected a type name"}
	}
	t, found := l.catalog.Lookup(string(name))
	if !found {
		return nil, &perrors.ArgumentValidationError{
			Symbol:   symbol,
			Position: 1,
			Message:  fmt.Sprintf("unknown type %q", name),
		}
	}
	return t, nil
}
