/*
Package config loads engine settings from YAML or JSON.

# Overview

Config wraps a map[string]any and provides typed accessors that return a
default when a key is missing or holds the wrong type. Settings is the
typed view the engine consumes:

	cfg, err := config.FromFile("pathcore.yaml")
	if err != nil {
	    return err
	}
	settings, err := config.Load(cfg)
	if err != nil {
	    return err
	}
	engine, err := pathcore.NewEngine(pathcore.WithSettings(settings))

A complete file:

	cache_capacity: 4096
	decimal_precision: 34
	max_concurrency: 8
	verify_cache: false
	error_policy: report   # or "empty"
	log_level: info
	tracing: true
	metrics: true
	namespaces: [FHIR]
	retry:
	  attempts: 3
	  initial_backoff: 50ms
	  max_backoff: 2s

# Type Coercion

Duration accepts a time.ParseDuration string or a number of seconds. Int
accepts integral floats, which is how JSON numbers arrive. StringSlice
accepts a YAML or JSON list of strings.

# Thread Safety

Config is safe for concurrent reads. The underlying map is never modified.
*/
package config
