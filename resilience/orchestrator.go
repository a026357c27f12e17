package resilience

import (
	"context"
)

// OrchestratorConfig configures a resilience orchestrator.
// Retry is always applied; the circuit breaker and rate limiter are skipped
// when their sections are nil.
type OrchestratorConfig struct {
	// Name identifies the logical dependency this orchestrator guards.
	Name string
	// Retry configures the retry executor. Nil uses DefaultRetryConfig.
	// Its RetryIf and RetryAfter predicates are the caller's failure
	// classification hooks.
	Retry *RetryConfig
	// CircuitBreaker enables breaker gating when non-nil.
	CircuitBreaker *CircuitBreakerConfig
	// RateLimit enables admission gating when non-nil.
	RateLimit *RateLimitConfig
}

// Orchestrator composes rate limiting, circuit breaking and retry around a
// caller-supplied operation in a fixed order: rate limit admission first,
// then the retry-wrapped operation executed through the breaker.
//
// Retries run inside the breaker's single logical call, so a full retry
// sequence counts as exactly one success or failure toward the breaker's
// thresholds. The breaker reacts to the dependency's sustained health, not
// to retry churn. Rate limiting happens unconditionally, even for calls the
// breaker would reject.
type Orchestrator struct {
	name     string
	retryCfg RetryConfig
	breaker  *CircuitBreaker
	limiter  *RateLimiter
}

// NewOrchestrator creates an orchestrator from config.
func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	retryCfg := DefaultRetryConfig()
	if cfg.Retry != nil {
		retryCfg = *cfg.Retry
	}
	retryCfg.applyDefaults()

	o := &Orchestrator{
		name:     cfg.Name,
		retryCfg: retryCfg,
	}
	if cfg.CircuitBreaker != nil {
		o.breaker = NewCircuitBreaker(*cfg.CircuitBreaker)
	}
	if cfg.RateLimit != nil {
		o.limiter = NewRateLimiter(*cfg.RateLimit)
	}
	return o
}

// Name returns the configured dependency name.
func (o *Orchestrator) Name() string { return o.name }

// Breaker returns the underlying circuit breaker, or nil if not configured.
func (o *Orchestrator) Breaker() *CircuitBreaker { return o.breaker }

// Limiter returns the underlying rate limiter, or nil if not configured.
func (o *Orchestrator) Limiter() *RateLimiter { return o.limiter }

// Reset returns the breaker and limiter to their initial state. The retry
// executor holds no mutable state and needs no reset.
func (o *Orchestrator) Reset() {
	if o.breaker != nil {
		o.breaker.Reset()
	}
	if o.limiter != nil {
		o.limiter.Reset()
	}
}

// CallOption customizes a single orchestrated call.
type CallOption func(*callOptions)

type callOptions struct {
	estimatedCost int
}

// WithEstimatedCost sets the cost charged against the limiter's cost bucket
// for this call (e.g. an LLM prompt's estimated token count).
func WithEstimatedCost(cost int) CallOption {
	return func(c *callOptions) {
		c.estimatedCost = cost
	}
}

// Do runs an operation through the orchestrator's resilience chain.
// Possible outcomes are the operation's own result or error, a breaker-open
// rejection, or a context error raised while waiting.
func Do[T any](ctx context.Context, o *Orchestrator, fn func() (T, error), opts ...CallOption) (T, error) {
	var zero T
	var call callOptions
	for _, opt := range opts {
		opt(&call)
	}

	if o.limiter != nil {
		if err := o.limiter.Acquire(ctx, call.estimatedCost); err != nil {
			return zero, err
		}
	}

	var result T
	attempt := func() error {
		r, err := Retry(ctx, o.retryCfg, fn)
		if err != nil {
			return err
		}
		result = r
		return nil
	}

	if o.breaker != nil {
		if err := o.breaker.Execute(attempt); err != nil {
			return zero, err
		}
		return result, nil
	}

	if err := attempt(); err != nil {
		return zero, err
	}
	return result, nil
}

// DoFunc runs an operation that returns only an error.
func DoFunc(ctx context.Context, o *Orchestrator, fn func() error, opts ...CallOption) error {
	_, err := Do(ctx, o, func() (struct{}, error) {
		return struct{}{}, fn()
	}, opts...)
	return err
}
