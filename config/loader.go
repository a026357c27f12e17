package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envPrefix namespaces environment variable overrides, e.g.
// SHIELD_RETRY_MAX_ATTEMPTS overrides retry.max_attempts.
const envPrefix = "SHIELD"

// LoaderConfig holds optional file overrides for Load.
type LoaderConfig struct {
	// EnvFile is an explicit .env file path. When empty, ./.env is loaded
	// if it exists.
	EnvFile string
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// Load reads configuration from a YAML file into cfg, applies .env and
// environment variable overrides, then fills defaults and validates.
// An empty path skips the file and configures from environment only.
func Load(path string, cfg *Config, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}

	loadEnvFile(lc.EnvFile)

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	// AutomaticEnv only resolves keys viper already knows about, so every
	// key reachable from the struct is bound explicitly.
	for _, key := range configKeys() {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unmarshalling config: %w", err)
	}

	// An empty section ("circuit_breaker: {}") unmarshals to a nil pointer,
	// but writing the key at all opts the component in.
	if v.IsSet("circuit_breaker") && cfg.CircuitBreaker == nil {
		cfg.CircuitBreaker = &CircuitBreakerConfig{}
	}
	if v.IsSet("rate_limit") && cfg.RateLimit == nil {
		cfg.RateLimit = &RateLimitConfig{}
	}

	cfg.ApplyDefaults()
	return cfg.Validate()
}

// loadEnvFile loads the explicit .env file, or ./.env when present.
func loadEnvFile(path string) {
	if path == "" {
		if _, err := os.Stat(".env"); err != nil {
			return
		}
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		fmt.Fprintf(os.Stderr, "[config] warning: failed to load env file %s: %v\n", path, err)
	}
}

// configKeys lists every config key that can be overridden from the
// environment.
func configKeys() []string {
	return []string{
		"name",
		"logging.level",
		"logging.format",
		"logging.output",
		"logging.no_color",
		"logging.timestamp",
		"logging.caller",
		"retry.max_attempts",
		"retry.initial_backoff",
		"retry.max_backoff",
		"retry.backoff_factor",
		"retry.jitter",
		"circuit_breaker.failure_threshold",
		"circuit_breaker.success_threshold",
		"circuit_breaker.open_duration",
		"circuit_breaker.half_open_max_requests",
		"rate_limit.requests_per_minute",
		"rate_limit.tokens_per_minute",
	}
}
