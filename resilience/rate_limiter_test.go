package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRateLimiter_AdmitsFullWindowWithoutDelay(t *testing.T) {
	clock := newFakeClock()
	rl := NewRateLimiter(RateLimitConfig{
		RequestsPerMinute: 3,
		Clock:             clock,
	})

	for i := 0; i < 3; i++ {
		if err := rl.Acquire(context.Background(), 0); err != nil {
			t.Fatalf("acquire %d: %v", i, err)
		}
	}

	if len(clock.Sleeps()) != 0 {
		t.Errorf("expected no waits, got %v", clock.Sleeps())
	}
	if got := rl.RemainingRequests(); got != 0 {
		t.Errorf("expected 0 remaining requests, got %d", got)
	}
}

func TestRateLimiter_BlocksUntilWindowBoundary(t *testing.T) {
	clock := newFakeClock()
	rl := NewRateLimiter(RateLimitConfig{
		RequestsPerMinute: 2,
		Clock:             clock,
	})

	_ = rl.Acquire(context.Background(), 0)
	_ = rl.Acquire(context.Background(), 0)

	// Third acquire must wait out the remainder of the window, refill and
	// then consume from the fresh bucket.
	if err := rl.Acquire(context.Background(), 0); err != nil {
		t.Fatalf("blocked acquire: %v", err)
	}

	sleeps := clock.Sleeps()
	if len(sleeps) != 1 {
		t.Fatalf("expected 1 wait, got %v", sleeps)
	}
	if sleeps[0] != time.Minute {
		t.Errorf("expected wait of %v, got %v", time.Minute, sleeps[0])
	}
	if got := rl.RemainingRequests(); got != 1 {
		t.Errorf("expected 1 remaining request after refill, got %d", got)
	}
}

func TestRateLimiter_PartialWindowWait(t *testing.T) {
	clock := newFakeClock()
	rl := NewRateLimiter(RateLimitConfig{
		RequestsPerMinute: 1,
		Clock:             clock,
	})

	_ = rl.Acquire(context.Background(), 0)
	clock.Advance(45 * time.Second)
	_ = rl.Acquire(context.Background(), 0)

	sleeps := clock.Sleeps()
	if len(sleeps) != 1 {
		t.Fatalf("expected 1 wait, got %v", sleeps)
	}
	if sleeps[0] != 15*time.Second {
		t.Errorf("expected wait of 15s, got %v", sleeps[0])
	}
}

func TestRateLimiter_WindowRefill(t *testing.T) {
	clock := newFakeClock()
	rl := NewRateLimiter(RateLimitConfig{
		RequestsPerMinute: 5,
		Clock:             clock,
	})

	_ = rl.Acquire(context.Background(), 0)
	_ = rl.Acquire(context.Background(), 0)
	clock.Advance(61 * time.Second)

	if got := rl.RemainingRequests(); got != 5 {
		t.Errorf("expected full bucket after window, got %d", got)
	}
}

func TestRateLimiter_CostBucketSpendsBudget(t *testing.T) {
	clock := newFakeClock()
	rl := NewRateLimiter(RateLimitConfig{
		RequestsPerMinute: 100,
		TokensPerMinute:   100,
		Clock:             clock,
	})

	if err := rl.Acquire(context.Background(), 60); err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	if len(clock.Sleeps()) != 0 {
		t.Fatalf("expected no waits yet, got %v", clock.Sleeps())
	}
	if got := rl.RemainingTokens(); got != 40 {
		t.Errorf("expected 40 tokens left, got %d", got)
	}

	// 60 > 40: the shortfall waits for a full window reset, it does not
	// partially wait for the difference.
	if err := rl.Acquire(context.Background(), 60); err != nil {
		t.Fatalf("second acquire: %v", err)
	}

	sleeps := clock.Sleeps()
	if len(sleeps) != 1 {
		t.Fatalf("expected 1 wait, got %v", sleeps)
	}
	if got := rl.RemainingTokens(); got != 40 {
		t.Errorf("expected 40 tokens after refill and spend, got %d", got)
	}
}

func TestRateLimiter_OversizedCostAdmittedAgainstFreshWindow(t *testing.T) {
	clock := newFakeClock()
	rl := NewRateLimiter(RateLimitConfig{
		RequestsPerMinute: 10,
		TokensPerMinute:   100,
		Clock:             clock,
	})

	if err := rl.Acquire(context.Background(), 150); err != nil {
		t.Fatalf("oversized acquire: %v", err)
	}
	if len(clock.Sleeps()) != 0 {
		t.Errorf("expected no waits for a full bucket, got %v", clock.Sleeps())
	}
	if got := rl.RemainingTokens(); got != 0 {
		t.Errorf("expected budget clamped at 0, got %d", got)
	}
}

func TestRateLimiter_CostBucketDisabled(t *testing.T) {
	clock := newFakeClock()
	rl := NewRateLimiter(RateLimitConfig{
		RequestsPerMinute: 10,
		Clock:             clock,
	})

	if err := rl.Acquire(context.Background(), 1_000_000); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if len(clock.Sleeps()) != 0 {
		t.Errorf("expected no waits, got %v", clock.Sleeps())
	}
}

func TestRateLimiter_GatesAreSequential(t *testing.T) {
	clock := newFakeClock()
	rl := NewRateLimiter(RateLimitConfig{
		RequestsPerMinute: 1,
		TokensPerMinute:   100,
		Clock:             clock,
	})

	_ = rl.Acquire(context.Background(), 80)

	// Both the request bucket and the cost bucket are exhausted: the caller
	// waits for the request gate, then separately for the cost gate.
	if err := rl.Acquire(context.Background(), 80); err != nil {
		t.Fatalf("acquire: %v", err)
	}

	sleeps := clock.Sleeps()
	if len(sleeps) != 1 {
		// The request-gate wait crosses the window boundary, which also
		// refills the cost bucket, so a single wait is expected here.
		t.Fatalf("expected 1 wait, got %v", sleeps)
	}
}

func TestRateLimiter_ResetIsIdempotent(t *testing.T) {
	clock := newFakeClock()
	rl := NewRateLimiter(RateLimitConfig{
		RequestsPerMinute: 3,
		TokensPerMinute:   100,
		Clock:             clock,
	})

	_ = rl.Acquire(context.Background(), 50)
	_ = rl.Acquire(context.Background(), 20)

	rl.Reset()
	firstReq, firstTok := rl.RemainingRequests(), rl.RemainingTokens()
	rl.Reset()
	secondReq, secondTok := rl.RemainingRequests(), rl.RemainingTokens()

	if firstReq != secondReq || firstTok != secondTok {
		t.Errorf("reset not idempotent: (%d,%d) vs (%d,%d)", firstReq, firstTok, secondReq, secondTok)
	}
	if secondReq != 3 || secondTok != 100 {
		t.Errorf("expected full buckets, got requests=%d tokens=%d", secondReq, secondTok)
	}
}

func TestRateLimiter_HonorsCancellationWhileWaiting(t *testing.T) {
	clock := newFakeClock()
	rl := NewRateLimiter(RateLimitConfig{
		RequestsPerMinute: 1,
		Clock:             clock,
	})

	_ = rl.Acquire(context.Background(), 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := rl.Acquire(ctx, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
