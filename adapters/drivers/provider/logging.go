package providerdrv

import (
	"context"
	"time"

	"github.com/yaegashi/jupyterops/internal/logging"
)

// WithStepLogger implements the Span pattern for driver steps.
// It emits a START log line and returns a context with logger attributes attached,
// plus a cleanup function to emit the END:OK or END:FAILED log line.
//
// Usage:
//
//	ctx, cleanup := providerdrv.WithStepLogger(ctx, "AWS", "ClusterUp")
//	defer func() { cleanup(err) }()
//
// Log message format:
// - START:  <driver>:<step>:START (with driver in logger attributes)
// - END:    <driver>:<step>:END:OK or <driver>:<step>:END:FAILED (with err, elapsed)
func WithStepLogger(ctx context.Context, driver, step string) (context.Context, func(err error)) {
	startAt := time.Now()

	logger := logging.FromContext(ctx).With("driver", driver+"."+step)
	ctx = logging.WithLogger(ctx, logger)

	logger.Info(ctx, driver+":"+step+":START")

	cleanup := func(err error) {
		elapsed := time.Since(startAt).Seconds()
		if err == nil {
			logger.Info(ctx, driver+":"+step+":END:OK", "elapsed", elapsed)
			return
		}
		errStr := err.Error()
		if len(errStr) > 32 {
			errStr = errStr[:32] + "..."
		}
		logger.Warn(ctx, driver+":"+step+":END:FAILED", "err", errStr, "elapsed", elapsed)
	}

	return ctx, cleanup
}
