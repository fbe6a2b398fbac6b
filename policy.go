package docchat

import (
	"context"
	"errors"
	"time"
)

// Default call policy settings.
const (
	DefaultCallTimeout = 30 * time.Second
	DefaultRetries     = 3
)

// CallPolicy bounds every call to an external service: each attempt runs
// under Timeout and failed attempts are retried after each of RetryDelays.
type CallPolicy struct {
	// Timeout applies to each attempt. Zero means no per-attempt timeout.
	Timeout time.Duration

	// RetryDelays holds the wait before each retry. Its length is the
	// maximum number of retries.
	RetryDelays []time.Duration

	// OnRetry, if set, is called before waiting for each retry.
	// Attempt numbers start at 2 for the first retry.
	OnRetry func(attempt int, err error)
}

// DefaultCallPolicy returns a 30s timeout with retries after 1s, 2s and 4s.
func DefaultCallPolicy() CallPolicy {
	return NewCallPolicy(DefaultCallTimeout, DefaultRetries)
}

// NewCallPolicy returns a policy with the given per-attempt timeout and
// retry delays doubling from one second.
func NewCallPolicy(timeout time.Duration, retries int) CallPolicy {
	delays := make([]time.Duration, 0, max(retries, 0))
	d := time.Second
	for range retries {
		delays = append(delays, d)
		d *= 2
	}
	return CallPolicy{Timeout: timeout, RetryDelays: delays}
}

// Retryable reports whether a failed call may succeed if attempted again.
// Invalid input, missing resources, rejected credentials and cancellation
// are permanent.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var e *Error
	if errors.As(err, &e) {
		switch e.Code {
		case EINVALID, ENOTFOUND, EUNAUTHORIZED, ECONFLICT:
			return false
		}
	}
	return true
}

// Call runs fn under policy p, retrying transient failures.
// It stops early when ctx is done.
func Call[T any](ctx context.Context, p CallPolicy, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	maxAttempts := len(p.RetryDelays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		v, err := callOnce(ctx, p.Timeout, fn)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		if !Retryable(err) || attempt >= maxAttempts-1 {
			break
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(p.RetryDelays[attempt]):
		}
	}

	return zero, lastErr
}

// Do is Call for functions that return only an error.
func Do(ctx context.Context, p CallPolicy, fn func(ctx context.Context) error) error {
	_, err := Call(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

func callOnce[T any](ctx context.Context, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return fn(ctx)
}
