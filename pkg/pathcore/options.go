package pathcore

import (
	"log/slog"

	"github.com/randalmurphal/pathcore/pkg/pathcore/builtin"
	"github.com/randalmurphal/pathcore/pkg/pathcore/config"
	"github.com/randalmurphal/pathcore/pkg/pathcore/observability"
	"github.com/randalmurphal/pathcore/pkg/pathcore/types"
)

// engineConfig holds configuration for an Engine.
type engineConfig struct {
	settings config.Settings
	logger   *slog.Logger
	metrics  observability.MetricsRecorder
	spans    observability.SpanManager
	resolver builtin.Resolver
	catalog  *types.Catalog
	standard bool
}

func defaultEngineConfig() engineConfig {
	return engineConfig{
		settings: config.Defaults(),
		logger:   slog.Default(),
		standard: true,
	}
}

// Option configures an Engine.
type Option func(*engineConfig)

// WithSettings applies typed settings, usually from config.LoadFile.
// Settings.Metrics and Settings.Tracing enable the OpenTelemetry recorders
// unless WithMetrics or WithSpanManager supplies one explicitly.
func WithSettings(s config.Settings) Option {
	return func(c *engineConfig) {
		c.settings = s
	}
}

// WithEngineLogger sets the logger for registration and cache events.
// Evaluation logs go to the logger of the Context passed to Evaluate.
func WithEngineLogger(logger *slog.Logger) Option {
	return func(c *engineConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(c *engineConfig) {
		c.metrics = m
	}
}

// WithSpanManager sets the tracing backend.
func WithSpanManager(sm observability.SpanManager) Option {
	return func(c *engineConfig) {
		c.spans = sm
	}
}

// WithResolver sets the backend used by the resolve() function.
func WithResolver(r builtin.Resolver) Option {
	return func(c *engineConfig) {
		c.resolver = r
	}
}

// WithTypeCatalog sets the catalog used to look up type names. Model
// providers register their types in it before creating the engine.
func WithTypeCatalog(cat *types.Catalog) Option {
	return func(c *engineConfig) {
		c.catalog = cat
	}
}

// WithoutStandardLibrary creates an engine with an empty registry.
func WithoutStandardLibrary() Option {
	return func(c *engineConfig) {
		c.standard = false
	}
}

func (c *engineConfig) finish() {
	c.logger = observability.AtLevel(c.logger, c.settings.LogLevel)
	if c.metrics == nil {
		if c.settings.Metrics {
			c.metrics = observability.NewMetricsRecorder()
		} else {
			c.metrics = observability.NoopMetrics{}
		}
	}
	if c.spans == nil {
		if c.settings.Tracing {
			c.spans = observability.NewSpanManager()
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
	if c.catalog == nil {
		c.catalog = types.NewCatalog(c.settings.Namespaces...)
	}
}
