// Package errors provides structured error types for outbound API calls.
//
// AppError carries a machine-readable code, a retryable flag and an optional
// server-provided retry-after hint. The IsRetryable and RetryAfterHint
// helpers plug directly into resilience.RetryConfig:
//
//	cfg := resilience.DefaultRetryConfig()
//	cfg.RetryIf = errors.IsRetryable
//	cfg.RetryAfter = errors.RetryAfterHint
//
// The classification lives with the error taxonomy, not with the resilience
// primitives, so each service client can ship its own predicates.
package errors
