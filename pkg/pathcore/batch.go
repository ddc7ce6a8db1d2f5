package pathcore

import (
	"errors"

	"golang.org/x/sync/errgroup"

	perrors "github.com/randalmurphal/pathcore/pkg/pathcore/errors"
	"github.com/randalmurphal/pathcore/pkg/pathcore/value"
)

// Result is the outcome of one call in a batch.
type Result struct {
	Value value.Value
	Err   error
}

// EvaluateBatch evaluates independent calls concurrently, at most
// Settings.MaxConcurrency at a time. Results are returned in call order.
//
// A failing call does not stop the batch; its error is reported in its
// Result. The returned error is non-nil only when the batch itself could
// not run to completion: a nil context, a closed engine, cancellation, or
// a fatal error in one of the calls.
func (e *Engine) EvaluateBatch(ctx Context, calls []Call) ([]Result, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if e.closed.Load() {
		return nil, ErrEngineClosed
	}

	batchCtx, span := e.spans.StartBatchSpan(ctx, ctx.EvaluationID(), len(calls))
	results := make([]Result, len(calls))

	g, gctx := errgroup.WithContext(batchCtx)
	g.SetLimit(e.settings.MaxConcurrency)
	callCtx := derive(ctx, gctx)

	for i, call := range calls {
		g.Go(func() error {
			if call.Symbol == "" {
				results[i] = Result{Err: ErrEmptySymbol}
				return nil
			}
			v, err := e.evaluate(callCtx, call)
			results[i] = Result{Value: v, Err: err}

			var cancelled *CancellationError
			if errors.As(err, &cancelled) || perrors.IsFatal(err) {
				return err
			}
			return nil
		})
	}

	err := g.Wait()
	e.spans.EndSpanWithError(span, err)
	return results, err
}
