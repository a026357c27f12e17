package resilience

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// RetryConfig configures retry behavior.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including the first).
	MaxAttempts int
	// InitialBackoff is the delay before the first retry.
	InitialBackoff time.Duration
	// MaxBackoff caps the exponential delay.
	MaxBackoff time.Duration
	// BackoffFactor is the multiplier for exponential backoff.
	BackoffFactor float64
	// Jitter randomizes each wait by up to this fraction (0.0 to 1.0).
	Jitter float64
	// RetryIf determines if an error should be retried.
	RetryIf func(error) bool
	// RetryAfter extracts a server-suggested wait from an error. When it
	// returns true, the hint replaces the computed backoff for that wait
	// only; the exponential curve still advances.
	RetryAfter func(error) (time.Duration, bool)
	// OnRetry is called before each retry wait.
	OnRetry func(attempt int, err error, wait time.Duration)
	// Clock overrides time handling, mainly for tests.
	Clock Clock
}

// DefaultRetryConfig returns sensible defaults.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     60 * time.Second,
		BackoffFactor:  2.0,
		Jitter:         0.25,
		RetryIf:        DefaultRetryIf,
	}
}

// DefaultRetryIf retries all errors except context cancellation.
func DefaultRetryIf(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (cfg *RetryConfig) applyDefaults() {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 1 * time.Second
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 60 * time.Second
	}
	if cfg.BackoffFactor <= 1 {
		cfg.BackoffFactor = 2.0
	}
	if cfg.RetryIf == nil {
		cfg.RetryIf = DefaultRetryIf
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock
	}
}

// Retry executes a function with retry logic.
// Returns the result of the function, or the last observed error once the
// attempt budget is exhausted or the error is classified non-retryable.
// A non-retryable error propagates immediately with no further waiting.
func Retry[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	var zero T
	cfg.applyDefaults()

	delay := cfg.InitialBackoff

	for attempt := 1; ; attempt++ {
		// Check context before each attempt
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}

		if !cfg.RetryIf(err) || attempt >= cfg.MaxAttempts {
			return zero, err
		}

		// A server hint replaces the computed backoff for this wait only.
		wait := delay
		if cfg.RetryAfter != nil {
			if hint, ok := cfg.RetryAfter(err); ok {
				wait = hint
			}
		}
		wait = applyJitter(wait, cfg.Jitter)

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, wait)
		}

		if serr := cfg.Clock.Sleep(ctx, wait); serr != nil {
			return zero, serr
		}

		// The curve advances whether or not a hint was used, so server
		// hints never reset the backoff progression.
		delay = nextBackoff(delay, cfg.BackoffFactor, cfg.MaxBackoff)
	}
}

// RetryFunc executes a function that returns only an error.
func RetryFunc(ctx context.Context, cfg RetryConfig, fn func() error) error {
	_, err := Retry(ctx, cfg, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// applyJitter perturbs a wait by up to ±wait*jitter, clamped at zero.
// Waits are kept in whole milliseconds.
func applyJitter(wait time.Duration, jitter float64) time.Duration {
	if jitter <= 0 {
		return wait.Round(time.Millisecond)
	}
	spread := (rand.Float64()*2 - 1) * float64(wait) * jitter
	jittered := time.Duration(float64(wait) + spread)
	if jittered < 0 {
		jittered = 0
	}
	return jittered.Round(time.Millisecond)
}

// nextBackoff advances the exponential delay, capped at max.
func nextBackoff(delay time.Duration, factor float64, maxBackoff time.Duration) time.Duration {
	next := time.Duration(float64(delay) * factor).Round(time.Millisecond)
	if next > maxBackoff {
		next = maxBackoff
	}
	return next
}
