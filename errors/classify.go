package errors

import (
	stderrors "errors"
	"time"
)

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsRetryable reports whether an error is transient. AppErrors carry an
// explicit flag; anything else is treated as non-retryable so unknown
// failure modes are never hammered.
//
// Suitable as a resilience.RetryConfig.RetryIf predicate.
func IsRetryable(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Retryable
	}
	return false
}

// RetryAfterHint extracts a server-suggested retry delay from an error.
//
// Suitable as a resilience.RetryConfig.RetryAfter extractor.
func RetryAfterHint(err error) (time.Duration, bool) {
	if appErr, ok := AsAppError(err); ok && appErr.RetryAfter > 0 {
		return appErr.RetryAfter, true
	}
	return 0, false
}
