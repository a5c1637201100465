// Package wait polls a condition at a fixed interval with an upper bound.
package wait

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is returned when the condition is not met in time.
var ErrTimeout = errors.New("timed out")

// Options bounds a poll loop.
type Options struct {
	Interval time.Duration
	Timeout  time.Duration
}

// DefaultOptions polls every 5 seconds for up to 15 minutes.
var DefaultOptions = Options{Interval: 5 * time.Second, Timeout: 15 * time.Minute}

// ConditionFunc reports whether the wait is over. A non-nil error stops
// polling and is returned as is.
type ConditionFunc func(ctx context.Context) (done bool, err error)

// Poll evaluates cond immediately and then every Interval until it is done,
// fails, the Timeout elapses (ErrTimeout), or ctx is cancelled (ctx.Err()).
func Poll(ctx context.Context, opts Options, what string, cond ConditionFunc) error {
	if opts.Interval <= 0 {
		opts.Interval = DefaultOptions.Interval
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultOptions.Timeout
	}
	deadline := time.NewTimer(opts.Timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	for {
		done, err := cond(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return fmt.Errorf("waiting for %s: %w after %s", what, ErrTimeout, opts.Timeout)
		case <-ticker.C:
		}
	}
}
