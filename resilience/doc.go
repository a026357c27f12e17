// Package resilience provides patterns for calling unreliable dependencies.
//
// This package includes:
//   - Retry: retries transient failures with exponential backoff and jitter
//   - CircuitBreaker: sheds load from a failing dependency, then probes recovery
//   - RateLimiter: dual fixed-window admission (request count and cost budget)
//   - Orchestrator: composes the three in a fixed order around an operation
//
// The orchestrator is the usual entry point:
//
//	orch := resilience.NewOrchestrator(resilience.OrchestratorConfig{
//	    Name:           "openai",
//	    CircuitBreaker: &resilience.CircuitBreakerConfig{FailureThreshold: 5},
//	    RateLimit:      &resilience.RateLimitConfig{RequestsPerMinute: 60, TokensPerMinute: 90_000},
//	})
//
//	resp, err := resilience.Do(ctx, orch, func() (*Response, error) {
//	    return client.Chat(ctx, req)
//	}, resilience.WithEstimatedCost(promptTokens))
//
// Failure classification is supplied by the caller through RetryConfig's
// RetryIf and RetryAfter hooks; the package never inspects error types on
// its own. All state is process-local and in-memory.
package resilience
