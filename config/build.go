package config

import (
	"time"

	"github.com/kbukum/shield/errors"
	"github.com/kbukum/shield/resilience"
)

// BuildOption customizes the orchestrator built from config.
type BuildOption func(*resilience.RetryConfig)

// WithRetryIf overrides the retryability predicate. The default treats the
// errors package's Retryable flag as authoritative.
func WithRetryIf(fn func(error) bool) BuildOption {
	return func(cfg *resilience.RetryConfig) { cfg.RetryIf = fn }
}

// WithRetryAfter overrides the retry-after extractor.
func WithRetryAfter(fn func(error) (time.Duration, bool)) BuildOption {
	return func(cfg *resilience.RetryConfig) { cfg.RetryAfter = fn }
}

// Build constructs a resilience orchestrator from the configuration.
func (c *Config) Build(opts ...BuildOption) *resilience.Orchestrator {
	retry := resilience.RetryConfig{
		MaxAttempts:    c.Retry.MaxAttempts,
		InitialBackoff: c.Retry.InitialBackoff,
		MaxBackoff:     c.Retry.MaxBackoff,
		BackoffFactor:  c.Retry.BackoffFactor,
		RetryIf:        errors.IsRetryable,
		RetryAfter:     errors.RetryAfterHint,
	}
	if c.Retry.Jitter != nil {
		retry.Jitter = *c.Retry.Jitter
	}
	for _, opt := range opts {
		opt(&retry)
	}

	orch := resilience.OrchestratorConfig{
		Name:  c.Name,
		Retry: &retry,
	}
	if cb := c.CircuitBreaker; cb != nil {
		orch.CircuitBreaker = &resilience.CircuitBreakerConfig{
			Name:                c.Name,
			FailureThreshold:    cb.FailureThreshold,
			SuccessThreshold:    cb.SuccessThreshold,
			OpenDuration:        cb.OpenDuration,
			HalfOpenMaxRequests: cb.HalfOpenMaxRequests,
		}
	}
	if rl := c.RateLimit; rl != nil {
		orch.RateLimit = &resilience.RateLimitConfig{
			Name:              c.Name,
			RequestsPerMinute: rl.RequestsPerMinute,
			TokensPerMinute:   rl.TokensPerMinute,
		}
	}

	return resilience.NewOrchestrator(orch)
}
