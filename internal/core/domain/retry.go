package domain

import (
	"errors"
	"time"
)

// Retry defaults for answering questions.
const (
	DefaultMaxAttempts = 3
	DefaultBackoffStep = time.Second
)

// BackoffFunc returns the delay after the failed attempt with the given 0-based index.
type BackoffFunc func(attempt int) time.Duration

// LinearBackoff waits step*(attempt+1): 1s, 2s, 3s... for a one second step.
func LinearBackoff(step time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		if attempt < 0 {
			attempt = 0
		}
		return step * time.Duration(attempt+1)
	}
}

// RetryPolicy describes how many attempts a request gets and which failures earn another one.
type RetryPolicy struct {
	// MaxAttempts is the total attempt budget, including the first try.
	MaxAttempts int

	// Backoff computes the wait before the next attempt.
	Backoff BackoffFunc

	// Retryable lists the error kinds that may be retried, matched with errors.Is.
	Retryable []error
}

// DefaultRetryPolicy allows three attempts, waits 1s then 2s,
// and retries only timeouts and server errors.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: DefaultMaxAttempts,
		Backoff:     LinearBackoff(DefaultBackoffStep),
		Retryable:   []error{ErrTimeout, ErrServer},
	}
}

// Attempts returns the attempt budget, never less than one.
func (p RetryPolicy) Attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// IsRetryable reports whether err belongs to a retryable kind.
func (p RetryPolicy) IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	for _, kind := range p.Retryable {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

// ShouldRetry reports whether another attempt follows the failed attempt with 0-based index attempt.
func (p RetryPolicy) ShouldRetry(err error, attempt int) bool {
	return attempt+1 < p.Attempts() && p.IsRetryable(err)
}

// Delay returns the wait after the failed attempt with 0-based index attempt.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if p.Backoff == nil {
		return 0
	}
	return p.Backoff(attempt)
}
