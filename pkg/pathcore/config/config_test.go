package config_test

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/pathcore/pkg/pathcore/config"
	perrors "github.com/randalmurphal/pathcore/pkg/pathcore/errors"
)

func TestAccessors(t *testing.T) {
	cfg := config.New(map[string]any{
		"name":     "alice",
		"count":    42,
		"ratio":    2.0,
		"fraction": 2.5,
		"big":      int64(7),
		"on":       true,
		"timeout":  "1h30m",
		"seconds":  3,
		"bad":      "soon",
		"tags":     []any{"a", "b"},
		"mixed":    []any{"a", 1},
		"nested":   map[string]any{"x": 1},
	})

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"string", cfg.String("name", "d"), "alice"},
		{"string wrong type", cfg.String("count", "d"), "d"},
		{"string missing", cfg.String("nope", "d"), "d"},
		{"bool", cfg.Bool("on", false), true},
		{"bool wrong type", cfg.Bool("name", false), false},
		{"int", cfg.Int("count", 0), 42},
		{"int from integral float", cfg.Int("ratio", 0), 2},
		{"int from fraction", cfg.Int("fraction", -1), -1},
		{"int from int64", cfg.Int("big", 0), 7},
		{"duration string", cfg.Duration("timeout", 0), 90 * time.Minute},
		{"duration seconds", cfg.Duration("seconds", 0), 3 * time.Second},
		{"duration invalid", cfg.Duration("bad", time.Second), time.Second},
		{"slice", cfg.StringSlice("tags", nil), []string{"a", "b"}},
		{"slice mixed", cfg.StringSlice("mixed", []string{"d"}), []string{"d"}},
		{"sub", cfg.Sub("nested").Int("x", 0), 1},
		{"sub missing", cfg.Sub("nope").Has("x"), false},
		{"has", cfg.Has("name"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}

	assert.Len(t, cfg.Keys(), 12)
	assert.NotNil(t, config.New(nil).Raw())
}

func TestFromYAMLAndJSON(t *testing.T) {
	y, err := config.FromYAML([]byte("cache_capacity: 10\nnamespaces: [FHIR]\nretry:\n  initial_backoff: 5ms\n"))
	require.NoError(t, err)
	assert.Equal(t, 10, y.Int("cache_capacity", 0))
	assert.Equal(t, []string{"FHIR"}, y.StringSlice("namespaces", nil))
	assert.Equal(t, 5*time.Millisecond, y.Sub("retry").Duration("initial_backoff", 0))

	j, err := config.FromJSON([]byte(`{"cache_capacity": 10, "retry": {"attempts": 2}}`))
	require.NoError(t, err)
	assert.Equal(t, 10, j.Int("cache_capacity", 0))
	assert.Equal(t, 2, j.Sub("retry").Int("attempts", 0))

	_, err = config.FromYAML([]byte("a: [unclosed"))
	assert.Error(t, err)
	_, err = config.FromJSON([]byte("{"))
	assert.Error(t, err)
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		return p
	}

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"yaml", write("a.yaml", "max_concurrency: 3"), ""},
		{"yml upper case", write("b.YML", "max_concurrency: 3"), ""},
		{"json", write("c.json", `{"max_concurrency": 3}`), ""},
		{"unsupported", write("d.toml", "max_concurrency = 3"), "unsupported config file extension"},
		{"missing", filepath.Join(dir, "none.yaml"), "read config file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.FromFile(tt.path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 3, cfg.Int("max_concurrency", 0))
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		s, err := config.Load(config.New(nil))
		require.NoError(t, err)
		assert.Equal(t, config.Defaults(), s)
		assert.False(t, s.CacheDisabled())
	})

	t.Run("full file", func(t *testing.T) {
		cfg, err := config.FromYAML([]byte(`
cache_capacity: 0
decimal_precision: 20
max_concurrency: 2
verify_cache: true
error_policy: empty
log_level: debug
tracing: true
metrics: true
namespaces: [FHIR, Test]
retry:
  attempts: 5
  initial_backoff: 10ms
  max_backoff: 1s
`))
		require.NoError(t, err)
		s, err := config.Load(cfg)
		require.NoError(t, err)

		assert.True(t, s.CacheDisabled())
		assert.Equal(t, 20, s.DecimalPrecision)
		assert.Equal(t, 2, s.MaxConcurrency)
		assert.True(t, s.VerifyCache)
		assert.Equal(t, config.PolicyEmpty, s.ErrorPolicy)
		assert.Equal(t, slog.LevelDebug, s.LogLevel)
		assert.True(t, s.Tracing)
		assert.True(t, s.Metrics)
		assert.Equal(t, []string{"FHIR", "Test"}, s.Namespaces)
		assert.Equal(t, 5, s.Retry.MaxAttempts)
		assert.Equal(t, 10*time.Millisecond, s.Retry.InitialBackoff)
		assert.Equal(t, time.Second, s.Retry.MaxBackoff)
	})

	t.Run("load file", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "pathcore.json")
		require.NoError(t, os.WriteFile(p, []byte(`{"error_policy": "empty"}`), 0o644))
		s, err := config.LoadFile(p)
		require.NoError(t, err)
		assert.Equal(t, config.PolicyEmpty, s.ErrorPolicy)
	})

	t.Run("unknown keys", func(t *testing.T) {
		cfg, err := config.FromYAML([]byte("cache_capacty: 10\nretry:\n  attempt: 2\n"))
		require.NoError(t, err)
		_, err = config.Load(cfg)
		var ce *perrors.ConstraintError
		require.True(t, errors.As(err, &ce))
		assert.Contains(t, ce.Message, "unknown keys: cache_capacty, retry.attempt")
	})

	t.Run("retry must be a mapping", func(t *testing.T) {
		_, err := config.Load(config.New(map[string]any{"retry": 3}))
		var ce *perrors.ConstraintError
		require.True(t, errors.As(err, &ce))
		assert.Contains(t, ce.Message, "retry")
	})

	t.Run("bad log level", func(t *testing.T) {
		_, err := config.Load(config.New(map[string]any{"log_level": "loud"}))
		var ce *perrors.ConstraintError
		assert.True(t, errors.As(err, &ce))
	})
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.Settings)
		want   string
	}{
		{"negative capacity", func(s *config.Settings) { s.CacheCapacity = -1 }, "cache_capacity"},
		{"zero precision", func(s *config.Settings) { s.DecimalPrecision = 0 }, "decimal_precision"},
		{"zero concurrency", func(s *config.Settings) { s.MaxConcurrency = 0 }, "max_concurrency"},
		{"unknown policy", func(s *config.Settings) { s.ErrorPolicy = "ignore" }, "error_policy"},
		{"no attempts", func(s *config.Settings) { s.Retry.MaxAttempts = 0 }, "retry.attempts"},
		{"inverted backoff", func(s *config.Settings) {
			s.Retry.InitialBackoff = time.Second
			s.Retry.MaxBackoff = time.Millisecond
		}, "max_backoff"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := config.Defaults()
			tt.modify(&s)
			err := s.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			var ce *perrors.ConstraintError
			assert.True(t, errors.As(err, &ce))
		})
	}

	t.Run("reports every problem", func(t *testing.T) {
		s := config.Defaults()
		s.CacheCapacity = -1
		s.MaxConcurrency = 0
		err := s.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cache_capacity")
		assert.Contains(t, err.Error(), "max_concurrency")
	})

	assert.NoError(t, config.Defaults().Validate())
}
