package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records pathcore metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordRegistration records an accepted or rejected registration.
	RecordRegistration(ctx context.Context, symbol string, accepted bool)

	// RecordResolution records an overload resolution and whether the
	// dispatch cache answered it.
	RecordResolution(ctx context.Context, symbol string, cached bool, err error)

	// RecordCacheEviction records a dispatch cache entry dropped for
	// capacity.
	RecordCacheEviction(ctx context.Context)

	// RecordEvaluation records a call with its duration and error status.
	RecordEvaluation(ctx context.Context, symbol string, duration time.Duration, err error)
}

type otelMetrics struct {
	registrations metric.Int64Counter
	resolutions   metric.Int64Counter
	resolveErrors metric.Int64Counter
	evictions     metric.Int64Counter
	evaluations   metric.Int64Counter
	evalLatency   metric.Float64Histogram
	evalErrors    metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("pathcore")
	m := &otelMetrics{}
	var err error

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&m.registrations, "pathcore.registry.registrations", "Number of registration attempts"},
		{&m.resolutions, "pathcore.dispatch.resolutions", "Number of overload resolutions"},
		{&m.resolveErrors, "pathcore.dispatch.errors", "Number of failed overload resolutions"},
		{&m.evictions, "pathcore.cache.evictions", "Number of dispatch cache evictions"},
		{&m.evaluations, "pathcore.evaluation.calls", "Number of evaluated calls"},
		{&m.evalErrors, "pathcore.evaluation.errors", "Number of failed calls"},
	}
	for _, c := range counters {
		if *c.dst, err = meter.Int64Counter(c.name, metric.WithDescription(c.desc)); err != nil {
			return nil, err
		}
	}

	m.evalLatency, err = meter.Float64Histogram("pathcore.evaluation.latency_ms",
		metric.WithDescription("Call latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

func (m *otelMetrics) RecordRegistration(ctx context.Context, symbol string, accepted bool) {
	m.registrations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("symbol", symbol),
		attribute.Bool("accepted", accepted),
	))
}

func (m *otelMetrics) RecordResolution(ctx context.Context, symbol string, cached bool, err error) {
	attrs := metric.WithAttributes(attribute.String("symbol", symbol))
	if err != nil {
		m.resolveErrors.Add(ctx, 1, attrs)
		return
	}
	m.resolutions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("symbol", symbol),
		attribute.Bool("cached", cached),
	))
}

func (m *otelMetrics) RecordCacheEviction(ctx context.Context) {
	m.evictions.Add(ctx, 1)
}

func (m *otelMetrics) RecordEvaluation(ctx context.Context, symbol string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("symbol", symbol))
	m.evaluations.Add(ctx, 1, attrs)
	m.evalLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	if err != nil {
		m.evalErrors.Add(ctx, 1, attrs)
	}
}
