package resilience

import (
	"context"
	"sync"
	"time"
)

// rateLimitWindow is the fixed replenishment window for both buckets.
const rateLimitWindow = time.Minute

// RateLimitConfig configures a rate limiter.
type RateLimitConfig struct {
	// Name identifies this rate limiter for metrics/logging.
	Name string
	// RequestsPerMinute is the number of requests admitted per window.
	RequestsPerMinute int
	// TokensPerMinute is the cost budget per window for cost-weighted
	// admission (e.g. LLM token budgets). 0 disables the cost bucket.
	TokensPerMinute int
	// OnWait is called before a caller suspends on an exhausted bucket.
	// The bucket argument is "requests" or "tokens".
	OnWait func(name, bucket string, wait time.Duration)
	// Clock overrides time handling, mainly for tests.
	Clock Clock
}

// DefaultRateLimitConfig returns sensible defaults.
func DefaultRateLimitConfig(name string) RateLimitConfig {
	return RateLimitConfig{
		Name:              name,
		RequestsPerMinute: 60,
		TokensPerMinute:   1_000_000,
	}
}

// RateLimiter gates admission using two independent fixed-window token
// buckets: one counting requests, one spending an optional cost budget.
// Exhaustion never produces an error, only latency — Acquire suspends the
// caller until the window resets.
//
// The two gates are checked sequentially, not jointly: a caller may wait for
// the request gate and then separately for the cost gate. A request waiting
// on the cost bucket does not refund or recheck the request bucket.
type RateLimiter struct {
	config RateLimitConfig

	mu                sync.Mutex
	requestTokens     int
	tokenBudget       int
	lastRequestRefill time.Time
	lastTokenRefill   time.Time
}

// NewRateLimiter creates a new rate limiter with full buckets.
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = 60
	}
	if config.Clock == nil {
		config.Clock = SystemClock
	}

	now := config.Clock.Now()
	return &RateLimiter{
		config:            config,
		requestTokens:     config.RequestsPerMinute,
		tokenBudget:       config.TokensPerMinute,
		lastRequestRefill: now,
		lastTokenRefill:   now,
	}
}

// Acquire blocks until the request is admitted or the context is cancelled.
// estimatedCost is only consulted when the cost bucket is configured; pass 0
// for uncosted requests.
func (rl *RateLimiter) Acquire(ctx context.Context, estimatedCost int) error {
	if err := rl.acquireRequest(ctx); err != nil {
		return err
	}
	if estimatedCost > 0 && rl.config.TokensPerMinute > 0 {
		return rl.acquireTokens(ctx, estimatedCost)
	}
	return nil
}

// Reset restores both buckets to full and restarts the windows.
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.config.Clock.Now()
	rl.requestTokens = rl.config.RequestsPerMinute
	rl.tokenBudget = rl.config.TokensPerMinute
	rl.lastRequestRefill = now
	rl.lastTokenRefill = now
}

// RemainingRequests returns the request tokens left in the current window.
func (rl *RateLimiter) RemainingRequests() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refillRequests(rl.config.Clock.Now())
	return rl.requestTokens
}

// RemainingTokens returns the cost budget left in the current window.
// Always 0 when the cost bucket is not configured.
func (rl *RateLimiter) RemainingTokens() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refillTokens(rl.config.Clock.Now())
	return rl.tokenBudget
}

func (rl *RateLimiter) acquireRequest(ctx context.Context) error {
	rl.mu.Lock()
	for {
		now := rl.config.Clock.Now()
		rl.refillRequests(now)
		if rl.requestTokens > 0 {
			break
		}

		wait := rateLimitWindow - now.Sub(rl.lastRequestRefill)
		if wait <= 0 {
			// Window boundary crossed while computing; refill on re-check.
			continue
		}

		rl.mu.Unlock()
		if rl.config.OnWait != nil {
			rl.config.OnWait(rl.config.Name, "requests", wait)
		}
		if err := rl.config.Clock.Sleep(ctx, wait); err != nil {
			return err
		}
		// The wait may have crossed the window boundary, so the refill
		// is re-checked before consuming.
		rl.mu.Lock()
	}

	rl.requestTokens--
	rl.mu.Unlock()
	return nil
}

func (rl *RateLimiter) acquireTokens(ctx context.Context, cost int) error {
	rl.mu.Lock()
	for {
		now := rl.config.Clock.Now()
		rl.refillTokens(now)
		// A cost exceeding the full budget is admitted against a fresh
		// window rather than waiting forever.
		if rl.tokenBudget >= cost || rl.tokenBudget >= rl.config.TokensPerMinute {
			break
		}

		// A partial-cost shortfall waits for the full window reset, not
		// for the shortfall to accumulate.
		wait := rateLimitWindow - now.Sub(rl.lastTokenRefill)
		if wait <= 0 {
			continue
		}

		rl.mu.Unlock()
		if rl.config.OnWait != nil {
			rl.config.OnWait(rl.config.Name, "tokens", wait)
		}
		if err := rl.config.Clock.Sleep(ctx, wait); err != nil {
			return err
		}
		rl.mu.Lock()
	}

	rl.tokenBudget -= cost
	if rl.tokenBudget < 0 {
		rl.tokenBudget = 0
	}
	rl.mu.Unlock()
	return nil
}

// refillRequests resets the request bucket if the window has elapsed.
// Callers must hold the lock.
func (rl *RateLimiter) refillRequests(now time.Time) {
	if now.Sub(rl.lastRequestRefill) >= rateLimitWindow {
		rl.requestTokens = rl.config.RequestsPerMinute
		rl.lastRequestRefill = now
	}
}

// refillTokens resets the cost bucket if the window has elapsed.
// Callers must hold the lock.
func (rl *RateLimiter) refillTokens(now time.Time) {
	if now.Sub(rl.lastTokenRefill) >= rateLimitWindow {
		rl.tokenBudget = rl.config.TokensPerMinute
		rl.lastTokenRefill = now
	}
}
