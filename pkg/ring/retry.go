package ring

import (
	"context"
	"errors"

	"github.com/cenkalti/backoff/v4"

	"github.com/srediag/frame-ring/internal/shm"
)

// OpenWithRetry calls Open repeatedly on an exponential backoff schedule
// until it succeeds, Open fails with an error that is not retried, or ctx
// is canceled; the schedule itself has no elapsed-time limit.
// It exists for readers that start before the producer has created the
// backing object: spec.md leaves the naming/lifecycle policy of the
// backing object out of scope, but a reader still needs a way to wait for
// it to appear without busy-looping raw Open calls.
//
// Only ErrResourceOpenFailed and ErrHeaderMismatch are retried — a
// mapping failure or a context cancellation is returned immediately, since
// retrying those is not going to change the outcome.
func OpenWithRetry(ctx context.Context, name string, capacity, frameBytes uint64, cfg Config) (*Ring, error) {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 0 // bounded by ctx instead
	return openWithRetry(ctx, name, capacity, frameBytes, cfg, backoff.WithContext(b, ctx))
}

func openWithRetry(ctx context.Context, name string, capacity, frameBytes uint64, cfg Config, b backoff.BackOffContext) (*Ring, error) {
	var r *Ring
	op := func() error {
		var err error
		r, err = Open(ctx, name, capacity, frameBytes, cfg)
		if err == nil {
			return nil
		}
		if errors.Is(err, shm.ErrResourceOpenFailed) || errors.Is(err, ErrHeaderMismatch) {
			return err // retryable
		}
		return backoff.Permanent(err)
	}
	if err := backoff.Retry(op, b); err != nil {
		return nil, err
	}
	return r, nil
}
