package resilience

import (
	"context"
	"time"
)

// Clock abstracts time for the resilience primitives so tests can simulate
// elapsed time instead of sleeping for real.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
	// Sleep blocks for the given duration or until the context is cancelled.
	Sleep(ctx context.Context, d time.Duration) error
}

// SystemClock is the Clock used when none is configured.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
