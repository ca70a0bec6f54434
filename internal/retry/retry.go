// Package retry provides a bounded retry policy with pluggable backoff.
//
// The token fetch and gateway reconnect paths share this policy instead of
// carrying their own inline loops, so attempt counts and delays are testable
// in isolation.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// ErrExhausted is wrapped around the last attempt error once MaxAttempts is
// reached.
var ErrExhausted = errors.New("retry attempts exhausted")

// Backoff maps a zero-based attempt number to the wait before the next try.
type Backoff func(attempt int) time.Duration

// Fixed waits the same delay between every attempt.
func Fixed(delay time.Duration) Backoff {
	return func(int) time.Duration { return delay }
}

// Exponential doubles the delay each attempt, capped at max, with +-50% jitter.
func Exponential(base, max time.Duration) Backoff {
	return func(attempt int) time.Duration {
		d := base << attempt
		if d > max || d <= 0 {
			d = max
		}
		// jitter: d * (0.5 to 1.5)
		return d/2 + time.Duration(rand.Int63n(int64(d)))
	}
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as non-retryable: Do returns the original error
// immediately without spending further attempts.
func Permanent(err error) error {
	return &permanentError{err: err}
}

// Policy is a bounded retry policy.
type Policy struct {
	MaxAttempts int
	Backoff     Backoff
}

// NewPolicy builds a fixed-delay policy, the gateway default.
func NewPolicy(maxAttempts int, delay time.Duration) Policy {
	return Policy{
		MaxAttempts: maxAttempts,
		Backoff:     Fixed(delay),
	}
}

// Do runs fn until it succeeds, MaxAttempts is reached, or ctx is done.
// The first attempt runs immediately; the backoff wait precedes each retry.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if p.MaxAttempts < 1 {
		return fmt.Errorf("retry: max attempts must be >= 1, got %d", p.MaxAttempts)
	}

	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if attempt > 0 {
			wait := time.Duration(0)
			if p.Backoff != nil {
				wait = p.Backoff(attempt - 1)
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		if err := fn(ctx); err != nil {
			var perm *permanentError
			if errors.As(err, &perm) {
				return perm.err
			}
			lastErr = err
			continue
		}
		return nil
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, p.MaxAttempts, lastErr)
}
