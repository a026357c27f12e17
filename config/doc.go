// Package config loads and validates resilience configuration.
//
// Configuration comes from a YAML file with environment variable overrides
// (SHIELD_ prefix, underscore-separated paths, e.g. SHIELD_RETRY_MAX_ATTEMPTS)
// and an optional .env file. Validation uses struct tags; bounds follow the
// documented contract of each resilience primitive.
//
//	var cfg config.Config
//	if err := config.Load("shield.yml", &cfg); err != nil { ... }
//	orch := cfg.Build()
package config
