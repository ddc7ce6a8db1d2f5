package pathcore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/pathcore/pkg/pathcore/builtin"
	"github.com/randalmurphal/pathcore/pkg/pathcore/catalog"
	"github.com/randalmurphal/pathcore/pkg/pathcore/config"
	"github.com/randalmurphal/pathcore/pkg/pathcore/dispatch"
	perrors "github.com/randalmurphal/pathcore/pkg/pathcore/errors"
	"github.com/randalmurphal/pathcore/pkg/pathcore/intern"
	"github.com/randalmurphal/pathcore/pkg/pathcore/observability"
	"github.com/randalmurphal/pathcore/pkg/pathcore/operation"
	"github.com/randalmurphal/pathcore/pkg/pathcore/types"
	"github.com/randalmurphal/pathcore/pkg/pathcore/value"
)

// Call is one operation invocation handed over by the evaluator.
type Call struct {
	// Symbol is the operation name, such as "+" or "count".
	Symbol string
	// Kind selects functions, binary or unary operators.
	Kind operation.Tag
	// Args are the evaluated operands. A nil entry is treated as empty.
	Args []value.Value
	// ArgTypes are the static argument types. When nil they are derived
	// from Args.
	ArgTypes []types.Descriptor
}

// Function returns a function call.
func Function(symbol string, args ...value.Value) Call {
	return Call{Symbol: symbol, Kind: operation.TagFunction, Args: args}
}

// Binary returns a binary operator call.
func Binary(symbol string, left, right value.Value) Call {
	return Call{Symbol: symbol, Kind: operation.TagBinary, Args: []value.Value{left, right}}
}

// Unary returns a unary operator call.
func Unary(symbol string, operand value.Value) Call {
	return Call{Symbol: symbol, Kind: operation.TagUnary, Args: []value.Value{operand}}
}

// Engine owns the operation registry, the dispatch cache and the type
// catalog. It is safe for concurrent use; registration may continue while
// evaluations are running.
type Engine struct {
	registry   *dispatch.Registry
	dispatcher *dispatch.Dispatcher
	catalog    *types.Catalog
	settings   config.Settings
	logger     *slog.Logger
	metrics    observability.MetricsRecorder
	spans      observability.SpanManager
	closed     atomic.Bool
}

// NewEngine creates an engine. Unless WithoutStandardLibrary is given, the
// builtin operations are registered before NewEngine returns.
func NewEngine(opts ...Option) (*Engine, error) {
	cfg := defaultEngineConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	cfg.finish()

	e := &Engine{
		registry: dispatch.NewRegistry(),
		catalog:  cfg.catalog,
		settings: cfg.settings,
		logger:   cfg.logger,
		metrics:  cfg.metrics,
		spans:    cfg.spans,
	}

	var cache *dispatch.Cache
	if !cfg.settings.CacheDisabled() {
		var err error
		cache, err = dispatch.NewCache(cfg.settings.CacheCapacity, dispatch.WithEvictionHook(e.evicted))
		if err != nil {
			return nil, fmt.Errorf("create dispatch cache: %w", err)
		}
	}
	e.dispatcher = dispatch.NewDispatcher(e.registry, cache)
	e.dispatcher.SetVerify(cfg.settings.VerifyCache)

	if cfg.standard {
		lib := []builtin.Option{
			builtin.WithPrecision(uint32(cfg.settings.DecimalPrecision)),
			builtin.WithRetry(cfg.settings.Retry),
			builtin.WithCatalog(e.catalog),
		}
		if cfg.resolver != nil {
			lib = append(lib, builtin.WithResolver(cfg.resolver))
		}
		if err := builtin.Register(e, lib...); err != nil {
			return nil, fmt.Errorf("register standard library: %w", err)
		}
	}
	return e, nil
}

func (e *Engine) evicted(k dispatch.Key) {
	observability.LogCacheEviction(e.logger, k.String())
	e.metrics.RecordCacheEviction(context.Background())
}

// Register adds an operation. Registration is visible to every later
// Resolve and Evaluate.
func (e *Engine) Register(op operation.Operation) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}
	if op == nil {
		return &perrors.ConstraintError{Subject: "operation", Message: "nil operation"}
	}
	id := op.Identifier()
	symbol := id.Symbol.String()

	if err := e.registry.Register(op); err != nil {
		observability.LogRegistrationRejected(e.logger, id.String(), err)
		e.metrics.RecordRegistration(context.Background(), symbol, false)
		return err
	}

	var handleID uint64
	for _, h := range e.registry.Lookup(symbol) {
		if h.Identifier() == id {
			handleID = h.ID()
		}
	}
	observability.LogRegistration(e.logger, id.String(), handleID, len(op.Metadata().Signatures))
	e.metrics.RecordRegistration(context.Background(), symbol, true)
	return nil
}

// Resolve returns the resolution for symbol with the given kind and
// argument types, using the dispatch cache.
func (e *Engine) Resolve(symbol string, kind operation.Tag, argTypes []types.Descriptor) (operation.Resolution, error) {
	if symbol == "" {
		return operation.Resolution{}, ErrEmptySymbol
	}
	res, cached, err := e.dispatcher.Resolve(intern.String(symbol), kind, argTypes)
	e.metrics.RecordResolution(context.Background(), symbol, cached, err)
	if err == nil {
		observability.LogResolution(e.logger, symbol, res.String(), res.Cost(), cached)
	}
	return res, err
}

// Evaluate resolves and runs a single call.
//
// Calls to operations that propagate empty return value.Empty without
// resolving when any argument is empty. Recoverable errors become the empty
// result under the "empty" error policy; cancellation and fatal errors are
// always returned.
func (e *Engine) Evaluate(ctx Context, call Call) (value.Value, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if call.Symbol == "" {
		return nil, ErrEmptySymbol
	}
	if e.closed.Load() {
		return nil, ErrEngineClosed
	}
	return e.evaluate(ctx, call)
}

func (e *Engine) evaluate(ctx Context, call Call) (result value.Value, err error) {
	logger := ctx.Logger()
	start := time.Now()
	observability.LogEvaluationStart(logger, call.Symbol, len(call.Args))

	spanCtx, span := e.spans.StartEvaluationSpan(ctx, call.Symbol, ctx.EvaluationID())
	defer func() {
		e.spans.EndSpanWithError(span, err)
	}()
	defer func() {
		if r := recover(); r != nil {
			if inv, ok := r.(*perrors.InvariantViolationError); ok {
				observability.LogInvariantViolation(logger, inv.Component, inv)
			}
			panic(r)
		}
	}()

	result, err = e.run(derive(ctx, spanCtx), call)

	duration := time.Since(start)
	durationMs := float64(duration.Microseconds()) / 1000
	e.metrics.RecordEvaluation(ctx, call.Symbol, duration, err)

	if err != nil {
		observability.LogEvaluationError(logger, call.Symbol, err, durationMs)
		if e.settings.ErrorPolicy == config.PolicyEmpty && perrors.IsRecoverable(err) {
			e.spans.AddSpanEvent(spanCtx, "error suppressed", attribute.String("error", err.Error()))
			return value.Empty{}, nil
		}
		return nil, err
	}
	observability.LogEvaluationComplete(logger, call.Symbol, durationMs)
	return result, nil
}

func (e *Engine) run(ctx Context, call Call) (value.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, &CancellationError{Symbol: call.Symbol, Cause: err}
	}

	args := make([]value.Value, len(call.Args))
	empty := false
	for i, a := range call.Args {
		if a == nil {
			a = value.Empty{}
		}
		args[i] = a
		empty = empty || value.IsEmpty(a)
	}

	if empty {
		if propagates, known := e.registry.PropagatesEmpty(call.Symbol, call.Kind); known && propagates {
			e.spans.AddSpanEvent(ctx, "empty propagated")
			return value.Empty{}, nil
		}
	}

	argTypes := call.ArgTypes
	if argTypes == nil {
		argTypes = value.TypesOf(args)
	} else if len(argTypes) != len(args) {
		return nil, fmt.Errorf("%s: %w: %d types for %d arguments", call.Symbol, ErrArgumentTypes, len(argTypes), len(args))
	}

	res, cached, err := e.dispatcher.Resolve(intern.String(call.Symbol), call.Kind, argTypes)
	e.metrics.RecordResolution(ctx, call.Symbol, cached, err)
	if err != nil {
		return nil, &EvaluationError{Symbol: call.Symbol, EvaluationID: ctx.EvaluationID(), Err: err}
	}
	observability.LogResolution(ctx.Logger(), call.Symbol, res.String(), res.Cost(), cached)
	e.spans.AddSpanEvent(ctx, "resolved",
		attribute.Bool("cached", cached),
		attribute.Int("cost", res.Cost()),
		attribute.Bool("sync", res.Handle.Operation().SupportsSync()))

	v, err := res.Evaluate(ctx, args)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			return nil, &CancellationError{Symbol: call.Symbol, Cause: ctxErr, WasExecuting: true}
		}
		return nil, &EvaluationError{Symbol: call.Symbol, EvaluationID: ctx.EvaluationID(), Err: err}
	}
	return v, nil
}

// Operations returns every registered operation in registration order.
func (e *Engine) Operations() []*operation.Handle {
	return e.registry.Operations()
}

// Lookup returns the operations registered under symbol.
func (e *Engine) Lookup(symbol string) []*operation.Handle {
	return e.registry.Lookup(symbol)
}

// LookupType resolves a qualified or unqualified type name.
func (e *Engine) LookupType(name string) (types.Named, bool) {
	return e.catalog.Lookup(name)
}

// Types returns the type catalog.
func (e *Engine) Types() *types.Catalog {
	return e.catalog
}

// Snapshot captures the registered operation metadata for tooling.
func (e *Engine) Snapshot() catalog.Snapshot {
	return catalog.Take(e.registry)
}

// CacheStats returns dispatch cache counters. ok is false when caching is
// disabled.
func (e *Engine) CacheStats() (stats dispatch.CacheStats, ok bool) {
	c := e.dispatcher.Cache()
	if c == nil {
		return dispatch.CacheStats{}, false
	}
	return c.Stats(), true
}

// Settings returns the settings the engine was created with.
func (e *Engine) Settings() config.Settings {
	return e.settings
}

// Close stops the engine from accepting registrations and evaluations and
// drops cached resolutions. Close is idempotent.
func (e *Engine) Close() error {
	if e.closed.Swap(true) {
		return nil
	}
	if c := e.dispatcher.Cache(); c != nil {
		c.Clear()
	}
	return nil
}
