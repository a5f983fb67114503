package client

import (
	"context"
	"math"
	"time"
)

// DefaultInitialDelay is the wait before the first retry. Each later retry waits twice as long
// as the one before.
const DefaultInitialDelay = time.Second

// RetryPolicy bounds how many times a call is retried after a transport failure.
type RetryPolicy struct {
	MaxRetries   int
	InitialDelay time.Duration
}

// DefaultRetryPolicy returns a policy with the standard one-second initial delay. A negative
// maxRetries is treated as 0, so every call makes at least one attempt.
func DefaultRetryPolicy(maxRetries int) RetryPolicy {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return RetryPolicy{MaxRetries: maxRetries, InitialDelay: DefaultInitialDelay}
}

// Backoff returns the wait before retry k, counting from 0.
func (p RetryPolicy) Backoff(k int) time.Duration {
	return time.Duration(float64(p.InitialDelay) * math.Pow(2, float64(k)))
}

// Sleeper waits for the given duration, returning early with an error if ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
