package observability

import (
	"context"
	"time"

	"github.com/kbukum/shield/logger"
	"github.com/kbukum/shield/resilience"
)

// Hooks bundles ready-made callbacks for the resilience config slots.
// Metrics and logging are both optional; nil pieces are skipped.
type Hooks struct {
	dependency string
	metrics    *Metrics
	log        *logger.Logger
}

// NewHooks creates hooks for one dependency, recording to the given metrics
// and logger.
func NewHooks(dependency string, metrics *Metrics, log *logger.Logger) *Hooks {
	if log == nil {
		log = logger.Nop()
	}
	return &Hooks{dependency: dependency, metrics: metrics, log: log}
}

// OnRetry fits resilience.RetryConfig.OnRetry.
func (h *Hooks) OnRetry(attempt int, err error, wait time.Duration) {
	if h.metrics != nil {
		h.metrics.RecordRetry(context.Background(), h.dependency, attempt, wait)
	}
	h.log.Warn("retrying after failure", logger.Fields(
		logger.FieldAttempt, attempt,
		logger.FieldWait, wait.Milliseconds(),
		logger.FieldError, err.Error(),
	))
}

// OnStateChange fits resilience.CircuitBreakerConfig.OnStateChange.
func (h *Hooks) OnStateChange(name string, from, to resilience.State) {
	if h.metrics != nil {
		h.metrics.RecordBreakerTransition(context.Background(), name, from.String(), to.String())
	}
	h.log.Warn("circuit breaker state changed", logger.Fields(
		logger.FieldDependency, name,
		logger.FieldState, to.String(),
		"previous", from.String(),
	))
}

// OnWait fits resilience.RateLimitConfig.OnWait.
func (h *Hooks) OnWait(name, bucket string, wait time.Duration) {
	if h.metrics != nil {
		h.metrics.RecordRateLimitWait(context.Background(), name, bucket, wait)
	}
	h.log.Debug("rate limit wait", logger.Fields(
		logger.FieldDependency, name,
		logger.FieldBucket, bucket,
		logger.FieldWait, wait.Milliseconds(),
	))
}

// Instrument wires the hooks into an orchestrator config in place.
func (h *Hooks) Instrument(cfg *resilience.OrchestratorConfig) {
	if cfg.Retry != nil {
		cfg.Retry.OnRetry = h.OnRetry
	}
	if cfg.CircuitBreaker != nil {
		cfg.CircuitBreaker.OnStateChange = h.OnStateChange
	}
	if cfg.RateLimit != nil {
		cfg.RateLimit.OnWait = h.OnWait
	}
}
