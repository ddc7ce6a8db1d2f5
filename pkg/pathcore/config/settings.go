package config

import (
	"errors"
	"fmt"
	"log/slog"

	perrors "github.com/randalmurphal/pathcore/pkg/pathcore/errors"
)

// Error policies.
const (
	// PolicyReport returns evaluation errors to the caller.
	PolicyReport = "report"

	// PolicyEmpty turns recoverable evaluation errors into the empty
	// result. Fatal and cancellation errors are always reported.
	PolicyEmpty = "empty"
)

// Settings is the typed engine configuration.
type Settings struct {
	CacheCapacity    int
	DecimalPrecision int
	MaxConcurrency   int
	VerifyCache      bool
	ErrorPolicy      string
	LogLevel         slog.Level
	Tracing          bool
	Metrics          bool
	Namespaces       []string
	Retry            perrors.RetryConfig
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Settings {
	return Settings{
		CacheCapacity:    4096,
		DecimalPrecision: 34,
		MaxConcurrency:   8,
		ErrorPolicy:      PolicyReport,
		LogLevel:         slog.LevelInfo,
		Retry:            perrors.DefaultRetry,
	}
}

// Load reads settings from cfg over the defaults and validates them.
// Unknown keys are rejected.
func Load(cfg Config) (Settings, error) {
	if err := checkKeys(cfg); err != nil {
		return Settings{}, err
	}
	s := Defaults()
	s.CacheCapacity = cfg.Int("cache_capacity", s.CacheCapacity)
	s.DecimalPrecision = cfg.Int("decimal_precision", s.DecimalPrecision)
	s.MaxConcurrency = cfg.Int("max_concurrency", s.MaxConcurrency)
	s.VerifyCache = cfg.Bool("verify_cache", s.VerifyCache)
	s.ErrorPolicy = cfg.String("error_policy", s.ErrorPolicy)
	s.Tracing = cfg.Bool("tracing", s.Tracing)
	s.Metrics = cfg.Bool("metrics", s.Metrics)
	s.Namespaces = cfg.StringSlice("namespaces", s.Namespaces)

	if cfg.Has("log_level") {
		if err := s.LogLevel.UnmarshalText([]byte(cfg.String("log_level", ""))); err != nil {
			return Settings{}, &perrors.ConstraintError{Subject: "settings", Message: fmt.Sprintf("log_level: %v", err)}
		}
	}

	retry := cfg.Sub("retry")
	s.Retry.MaxAttempts = retry.Int("attempts", s.Retry.MaxAttempts)
	s.Retry.InitialBackoff = retry.Duration("initial_backoff", s.Retry.InitialBackoff)
	s.Retry.MaxBackoff = retry.Duration("max_backoff", s.Retry.MaxBackoff)

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate reports every out-of-range setting.
func (s Settings) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, &perrors.ConstraintError{Subject: "settings", Message: fmt.Sprintf(format, args...)})
	}

	if s.CacheCapacity < 0 {
		bad("cache_capacity must not be negative, got %d", s.CacheCapacity)
	}
	if s.DecimalPrecision < 1 || s.DecimalPrecision > 1000 {
		bad("decimal_precision must be between 1 and 1000, got %d", s.DecimalPrecision)
	}
	if s.MaxConcurrency < 1 {
		bad("max_concurrency must be positive, got %d", s.MaxConcurrency)
	}
	if s.ErrorPolicy != PolicyReport && s.ErrorPolicy != PolicyEmpty {
		bad("error_policy must be %q or %q, got %q", PolicyReport, PolicyEmpty, s.ErrorPolicy)
	}
	if s.Retry.MaxAttempts < 1 {
		bad("retry.attempts must be positive, got %d", s.Retry.MaxAttempts)
	}
	if s.Retry.InitialBackoff < 0 || s.Retry.MaxBackoff < 0 {
		bad("retry backoff must not be negative")
	}
	if s.Retry.MaxBackoff > 0 && s.Retry.MaxBackoff < s.Retry.InitialBackoff {
		bad("retry.max_backoff %s is below initial_backoff %s", s.Retry.MaxBackoff, s.Retry.InitialBackoff)
	}
	return errors.Join(errs...)
}

// CacheDisabled reports whether dispatch caching is turned off.
func (s Settings) CacheDisabled() bool {
	return s.CacheCapacity == 0
}
