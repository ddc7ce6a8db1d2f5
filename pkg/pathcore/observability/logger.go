// Package observability provides structured logging, metrics and tracing
// for operation registration, dispatch and evaluation.
//
// Logging uses log/slog; metrics and tracing use OpenTelemetry through the
// global providers. Every feature is opt-in and has a no-op implementation
// when disabled. The helpers here take plain strings so that any layer can
// use them without importing the engine.
package observability

import (
	"context"
	"log/slog"
)

// EnrichLogger adds the evaluation ID to a logger.
//
// Example:
//
//	enriched := EnrichLogger(logger, "7d0c...")
//	enriched.Info("resolving") // includes evaluation_id
func EnrichLogger(logger *slog.Logger, evaluationID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("evaluation_id", evaluationID))
}

// AtLevel returns a logger that drops records below level. Handlers that
// are already stricter keep their own threshold.
func AtLevel(logger *slog.Logger, level slog.Leveler) *slog.Logger {
	if logger == nil {
		return nil
	}
	return slog.New(&levelHandler{inner: logger.Handler(), level: level})
}

type levelHandler struct {
	inner slog.Handler
	level slog.Leveler
}

func (h *levelHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return l >= h.level.Level() && h.inner.Enabled(ctx, l)
}

func (h *levelHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.inner.Handle(ctx, r)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{inner: h.inner.WithAttrs(attrs), level: h.level}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{inner: h.inner.WithGroup(name), level: h.level}
}

// LogRegistration logs an accepted operation.
func LogRegistration(logger *slog.Logger, identifier string, handleID uint64, signatures int) {
	if logger == nil {
		return
	}
	logger.Debug("operation registered",
		slog.String("operation", identifier),
		slog.Uint64("handle", handleID),
		slog.Int("signatures", signatures),
	)
}

// LogRegistrationRejected logs a registration the registry refused.
func LogRegistrationRejected(logger *slog.Logger, identifier string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("operation rejected",
		slog.String("operation", identifier),
		slog.String("error", err.Error()),
	)
}

// LogResolution logs the overload chosen for a call.
func LogResolution(logger *slog.Logger, symbol, resolution string, cost int, cached bool) {
	if logger == nil {
		return
	}
	logger.Debug("operation resolved",
		slog.String("symbol", symbol),
		slog.String("resolution", resolution),
		slog.Int("cost", cost),
		slog.Bool("cached", cached),
	)
}

// LogCacheEviction logs a dispatch cache entry dropped for capacity.
func LogCacheEviction(logger *slog.Logger, key string) {
	if logger == nil {
		return
	}
	logger.Debug("dispatch cache eviction", slog.String("key", key))
}

// LogEvaluationStart logs the start of a call.
func LogEvaluationStart(logger *slog.Logger, symbol string, args int) {
	if logger == nil {
		return
	}
	logger.Debug("evaluation starting",
		slog.String("symbol", symbol),
		slog.Int("args", args),
	)
}

// LogEvaluationComplete logs a successful call.
func LogEvaluationComplete(logger *slog.Logger, symbol string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("evaluation completed",
		slog.String("symbol", symbol),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogEvaluationError logs a failed call.
func LogEvaluationError(logger *slog.Logger, symbol string, err error, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Error("evaluation failed",
		slog.String("symbol", symbol),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogInvariantViolation logs a broken internal invariant before it is
// re-raised.
func LogInvariantViolation(logger *slog.Logger, component string, err error) {
	if logger == nil {
		return
	}
	logger.Error("invariant violated",
		slog.String("component", component),
		slog.String("error", err.Error()),
	)
}
