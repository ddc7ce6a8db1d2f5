/*
Package pathcore provides the operation registry, dispatch and comparison
core for a FHIRPath-style path language.

# Overview

pathcore sits between a parser and a tree-walking evaluator. The parser
produces calls (a symbol, its kind and the evaluated arguments); pathcore
resolves each call to an overload, applies the argument coercions and runs
the operation. It never parses expression text and never loads schemas.

The package is the facade over its subpackages:
  - intern: process-wide string interning with identity comparison
  - types: the type reflection model and the type catalog
  - lookup: perfect-hash element lookup for composite types
  - value: runtime values, decimals, temporals and quantities
  - operation: the sync/async operation abstraction
  - dispatch: the registry, overload resolution and the LRU cache
  - compare: three-valued equality, equivalence and ordering
  - builtin: the standard operator and function set
  - catalog: metadata snapshots for tooling

# Basic Usage

Create an engine, then evaluate calls through a Context:

	engine, err := pathcore.NewEngine()
	if err != nil {
	    log.Fatal(err)
	}
	defer engine.Close()

	ctx := pathcore.NewContext(context.Background())
	v, err := engine.Evaluate(ctx, pathcore.Binary("+", value.Integer(1), value.MustDecimal("2.5")))
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Println(v) // 3.5

The integer operand is promoted to Decimal because the (Decimal, Decimal)
overload is the cheapest applicable one.

# Registering Operations

Model providers and host applications add operations at any time:

	double := operation.NewSync(operation.Metadata{
	    Identifier:      operation.NewIdentifier("double", operation.Function()),
	    Signatures:      []operation.Signature{operation.Sig(types.Integer, types.Integer)},
	    PropagatesEmpty: true,
	}, func(args []value.Value) (value.Value, error) {
	    i, _ := value.Unwrap(args[0])
	    return i.(value.Integer) * 2, nil
	})
	if err := engine.Register(double); err != nil {
	    // *errors.DuplicateRegistrationError or *errors.ConstraintError
	}

Operations that need I/O are created with operation.NewAsync and receive
the evaluation's context.Context.

# Empty Propagation

An operation that declares PropagatesEmpty returns the empty collection
whenever an argument is empty. The engine short-circuits such calls
without resolving or running the operation.

# Error Policy

Evaluation errors are returned to the caller by default. With the "empty"
error policy, recoverable errors (unknown or ambiguous operations, invalid
arguments, domain errors) become the empty result instead:

	settings := config.Defaults()
	settings.ErrorPolicy = config.PolicyEmpty
	engine, err := pathcore.NewEngine(pathcore.WithSettings(settings))

Cancellation is reported as *CancellationError under both policies.

# Batches

EvaluateBatch runs independent calls concurrently with a bounded number of
goroutines:

	results, err := engine.EvaluateBatch(ctx, []pathcore.Call{
	    pathcore.Function("count", items),
	    pathcore.Function("resolve", value.String("Patient/42")),
	})

# Observability

Settings.Metrics and Settings.Tracing enable OpenTelemetry metrics and
spans through the globally registered providers. Logs go to the logger
carried by the Context, enriched with the evaluation ID.

# Thread Safety

An Engine is safe for concurrent use. Registration is linearizable and
cached resolutions are discarded once the symbol gains a new overload.
*/
package pathcore
