// Package backoff delivers HTTP requests with bounded exponential-backoff retry.
package backoff

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

const (
	// DefaultMaxRetries is the number of retries after the first attempt.
	DefaultMaxRetries = 3
	// DefaultInitialDelay is the wait before the first retry.
	DefaultInitialDelay = time.Second
)

// Policy controls how many times a request is retried and how long to wait
// between attempts. A zero MaxDelay means the delay is never capped.
type Policy struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Jitter       bool
}

// DefaultPolicy returns three retries starting at one second, doubling each
// time with no cap and no jitter.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:   DefaultMaxRetries,
		InitialDelay: DefaultInitialDelay,
	}
}

// RetryState is the mutable budget of a single fetch call.
type RetryState struct {
	AttemptsRemaining int
	CurrentDelay      time.Duration
}

func newRetryState(p Policy) RetryState {
	remaining := p.MaxRetries
	if remaining < 0 {
		remaining = 0
	}
	delay := p.InitialDelay
	if delay < 0 {
		delay = 0
	}
	return RetryState{AttemptsRemaining: remaining, CurrentDelay: delay}
}

// next consumes one retry and doubles the delay.
func (s RetryState) next() RetryState {
	return RetryState{
		AttemptsRemaining: s.AttemptsRemaining - 1,
		CurrentDelay:      double(s.CurrentDelay),
	}
}

// wait returns the delay to sleep for the current state under the policy.
func (p Policy) wait(s RetryState) time.Duration {
	d := s.CurrentDelay
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	if p.Jitter {
		d = fullJitter(d)
	}
	return d
}

// Delay returns the wait between attempt k and k+1 (k starting at 1) for the
// un-jittered policy: InitialDelay * 2^(k-1), clamped by MaxDelay when set.
func (p Policy) Delay(k int) time.Duration {
	if k < 1 {
		k = 1
	}
	s := newRetryState(p)
	for i := 1; i < k; i++ {
		s.CurrentDelay = double(s.CurrentDelay)
	}
	d := s.CurrentDelay
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}

func double(d time.Duration) time.Duration {
	if d > math.MaxInt64/2 {
		return time.Duration(math.MaxInt64)
	}
	return d * 2
}

// fullJitter returns a random duration in [0, d).
func fullJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return time.Duration(rand.Int64N(int64(d)))
}

// SleepWithContext waits for d or until ctx is done, whichever comes first.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("context done: %w", ctx.Err())
	}
}
