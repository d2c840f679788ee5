package rabbit

import (
	"context"
	"errors"
	"time"

	"github.com/Temutjin2k/ride-coordinator/internal/domain/types"
)

// isRecoverableError returns true if the message must be requeued.
// Domain rejections never succeed on redelivery, storage failures may.
func isRecoverableError(err error) bool {
	return !oneOf(err,
		types.ErrValidation,
		types.ErrNotFound,
		types.ErrInvalidState,
		types.ErrInvalidTransition,
	)
}

func oneOf(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

func retry(ctx context.Context, n int, wait time.Duration, fn func() error) error {
	var err error
	for i := range n {
		if err = fn(); err == nil {
			return nil
		}
		if i < n-1 && !sleep(ctx, wait) {
			return errors.Join(ctx.Err(), err)
		}
	}
	return err
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
