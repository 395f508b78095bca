package pipeline

import (
	"context"
	"errors"
	"time"
)

// RetryPolicy bounds how often a stage retries a failing provider call
type RetryPolicy struct {
	MaxAttempts int
	// Backoff is the wait before the second attempt; it doubles for each later attempt.
	Backoff time.Duration
}

// DefaultRetryPolicy allows three attempts starting at half a second of backoff
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Backoff: 500 * time.Millisecond}
}

// wait pauses between attempts; tests replace it
var wait = waitFor

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do calls fn until it succeeds, returns a permanent error, the context ends or the
// attempts run out. It returns the number of attempts made and the last error with
// any Permanent marker removed.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) (int, error) {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return attempt - 1, ctxErr
		}
		err = fn(ctx)
		if err == nil {
			return attempt, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return attempt, ctxErr
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return attempt, perm.err
		}
		if attempt < maxAttempts {
			if waitErr := wait(ctx, p.delay(attempt)); waitErr != nil {
				return attempt, waitErr
			}
		}
	}
	return maxAttempts, err
}

func (p RetryPolicy) delay(attempt int) time.Duration {
	if p.Backoff <= 0 {
		return 0
	}
	return p.Backoff << (attempt - 1)
}

// waitFor blocks for d or until ctx ends, whichever comes first
func waitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
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
