package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/shield/logger"
)

// Config is the root configuration for one guarded dependency.
type Config struct {
	// Name identifies the logical dependency (e.g. "openai", "qdrant").
	Name    string        `yaml:"name" mapstructure:"name" validate:"required"`
	Logging logger.Config `yaml:"logging" mapstructure:"logging"`
	Retry   RetryConfig   `yaml:"retry" mapstructure:"retry"`
	// CircuitBreaker enables breaker gating when present.
	CircuitBreaker *CircuitBreakerConfig `yaml:"circuit_breaker" mapstructure:"circuit_breaker"`
	// RateLimit enables admission gating when present.
	RateLimit *RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// RetryConfig configures the retry executor.
type RetryConfig struct {
	MaxAttempts    int           `yaml:"max_attempts" mapstructure:"max_attempts" validate:"gte=1"`
	InitialBackoff time.Duration `yaml:"initial_backoff" mapstructure:"initial_backoff" validate:"gt=0"`
	MaxBackoff     time.Duration `yaml:"max_backoff" mapstructure:"max_backoff" validate:"gtefield=InitialBackoff"`
	BackoffFactor  float64       `yaml:"backoff_factor" mapstructure:"backoff_factor" validate:"gt=1"`
	// Jitter distinguishes unset (nil, defaulted to 0.25) from a
	// deliberate zero, which disables jitter.
	Jitter *float64 `yaml:"jitter" mapstructure:"jitter" validate:"omitempty,gte=0,lte=1"`
}

// CircuitBreakerConfig configures the circuit breaker.
type CircuitBreakerConfig struct {
	FailureThreshold    int           `yaml:"failure_threshold" mapstructure:"failure_threshold" validate:"gte=1"`
	SuccessThreshold    int           `yaml:"success_threshold" mapstructure:"success_threshold" validate:"gte=1"`
	OpenDuration        time.Duration `yaml:"open_duration" mapstructure:"open_duration" validate:"gt=0"`
	HalfOpenMaxRequests int           `yaml:"half_open_max_requests" mapstructure:"half_open_max_requests" validate:"gte=1"`
}

// RateLimitConfig configures the rate limiter.
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" mapstructure:"requests_per_minute" validate:"gt=0"`
	// TokensPerMinute enables the cost bucket when positive.
	TokensPerMinute int `yaml:"tokens_per_minute" mapstructure:"tokens_per_minute" validate:"gte=0"`
}

// ApplyDefaults fills in zero values with the documented defaults.
func (c *Config) ApplyDefaults() {
	c.Logging.ApplyDefaults()

	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = 3
	}
	if c.Retry.InitialBackoff == 0 {
		c.Retry.InitialBackoff = 1 * time.Second
	}
	if c.Retry.MaxBackoff == 0 {
		c.Retry.MaxBackoff = 60 * time.Second
	}
	if c.Retry.BackoffFactor == 0 {
		c.Retry.BackoffFactor = 2.0
	}
	if c.Retry.Jitter == nil {
		jitter := 0.25
		c.Retry.Jitter = &jitter
	}

	if cb := c.CircuitBreaker; cb != nil {
		if cb.FailureThreshold == 0 {
			cb.FailureThreshold = 5
		}
		if cb.SuccessThreshold == 0 {
			cb.SuccessThreshold = 3
		}
		if cb.OpenDuration == 0 {
			cb.OpenDuration = 30 * time.Second
		}
		if cb.HalfOpenMaxRequests == 0 {
			cb.HalfOpenMaxRequests = 1
		}
	}

	if rl := c.RateLimit; rl != nil {
		if rl.RequestsPerMinute == 0 {
			rl.RequestsPerMinute = 60
		}
	}
}

// Validate validates the configuration against the documented bounds.
func (c *Config) Validate() error {
	if err := getValidator().Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			return fmt.Errorf("config validation failed: %s", verrs.Error())
		}
		return fmt.Errorf("config validation failed: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}
