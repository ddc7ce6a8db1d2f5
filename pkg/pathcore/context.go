package pathcore

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/randalmurphal/pathcore/pkg/pathcore/observability"
)

// Context carries a single evaluation through the engine.
// It extends context.Context with a logger and an evaluation identifier.
//
// Context is immutable after creation.
type Context interface {
	context.Context

	// Logger returns the configured logger, enriched with the evaluation ID.
	// Never returns nil - defaults to slog.Default() if not configured.
	Logger() *slog.Logger

	// EvaluationID returns the identifier shared by every call of one
	// evaluation. Auto-generated if not configured.
	EvaluationID() string
}

type evaluationContext struct {
	context.Context

	logger       *slog.Logger
	evaluationID string
}

func (c *evaluationContext) Logger() *slog.Logger {
	return c.logger
}

func (c *evaluationContext) EvaluationID() string {
	return c.evaluationID
}

// ContextOption configures a Context.
type ContextOption func(*evaluationContext)

// WithLogger sets the logger for the context.
func WithLogger(logger *slog.Logger) ContextOption {
	return func(c *evaluationContext) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithEvaluationID sets the evaluation identifier.
// If not set, a UUID is generated.
func WithEvaluationID(id string) ContextOption {
	return func(c *evaluationContext) {
		c.evaluationID = id
	}
}

// NewContext creates an evaluation context from a standard context.
//
// Example:
//
//	ctx := pathcore.NewContext(context.Background(),
//	    pathcore.WithLogger(logger),
//	    pathcore.WithEvaluationID("patient-42"))
func NewContext(ctx context.Context, opts ...ContextOption) Context {
	ec := &evaluationContext{
		Context:      ctx,
		logger:       slog.Default(),
		evaluationID: uuid.New().String(),
	}
	for _, opt := range opts {
		opt(ec)
	}
	ec.logger = observability.EnrichLogger(ec.logger, ec.evaluationID)
	return ec
}

// derive rebinds parent's logger and evaluation ID to a new standard
// context, such as one created for a span or an errgroup.
func derive(parent Context, ctx context.Context) Context {
	return &evaluationContext{
		Context:      ctx,
		logger:       parent.Logger(),
		evaluationID: parent.EvaluationID(),
	}
}
