package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hashicorp/go-set/v3"
	"gopkg.in/yaml.v3"

	perrors "github.com/randalmurphal/pathcore/pkg/pathcore/errors"
)

var decoders = map[string]func([]byte) (Config, error){
	".yaml": FromYAML,
	".yml":  FromYAML,
	".json": FromJSON,
}

// Keys understood by Load. Anything else in a settings document is
// reported, so a misspelled key never silently falls back to a default.
var (
	settingsKeys = set.From([]string{
		"cache_capacity", "decimal_precision", "max_concurrency", "verify_cache",
		"error_policy", "log_level", "tracing", "metrics", "namespaces", "retry",
	})
	retryKeys = set.From([]string{"attempts", "initial_backoff", "max_backoff"})
)

// FromFile loads configuration from a file, choosing the format by
// extension: .yaml, .yml or .json.
func FromFile(path string) (Config, error) {
	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := decoders[ext]
	if !ok {
		return Config{}, fmt.Errorf("unsupported config file extension: %s", ext)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	return decode(data)
}

// LoadFile reads and validates settings from a YAML or JSON file.
func LoadFile(path string) (Settings, error) {
	cfg, err := FromFile(path)
	if err != nil {
		return Settings{}, err
	}
	return Load(cfg)
}

// FromYAML parses YAML data into a Config.
func FromYAML(data []byte) (Config, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	return New(m), nil
}

// FromJSON parses JSON data into a Config.
func FromJSON(data []byte) (Config, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse json: %w", err)
	}
	return New(m), nil
}

// checkKeys reports unknown top-level and retry keys, sorted.
func checkKeys(cfg Config) error {
	var unknown []string
	for _, k := range cfg.Keys() {
		if !settingsKeys.Contains(k) {
			unknown = append(unknown, k)
		}
	}
	if cfg.Has("retry") {
		switch cfg.Raw()["retry"].(type) {
		case map[string]any, Config:
		default:
			return &perrors.ConstraintError{Subject: "settings", Message: "retry must be a mapping"}
		}
		for _, k := range cfg.Sub("retry").Keys() {
			if !retryKeys.Contains(k) {
				unknown = append(unknown, "retry."+k)
			}
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	slices.Sort(unknown)
	return &perrors.ConstraintError{Subject: "settings", Message: "unknown keys: " + strings.Join(unknown, ", ")}
}
