package resilience

import (
	"errors"
	"fmt"
)

// Common resilience errors.
var (
	// ErrCircuitOpen is returned when the circuit breaker rejects a call
	// because the dependency is presumed unhealthy. The wrapped operation
	// is never invoked.
	ErrCircuitOpen = errors.New("circuit breaker is open")

	// ErrHalfOpenLimitReached is returned when the breaker is half-open but
	// all probe slots are taken. It wraps ErrCircuitOpen so callers can
	// match both rejections with a single errors.Is check.
	ErrHalfOpenLimitReached = fmt.Errorf("%w: half-open probe limit reached", ErrCircuitOpen)
)
