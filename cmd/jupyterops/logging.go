package main

import (
	"context"
	"time"

	"github.com/yaegashi/jupyterops/internal/logging"
)

// withCmdRunLogger logs CMD:<op>/S now and returns a ctx whose logger carries
// the provider, plus a closer that logs CMD:<op>/EOK or CMD:<op>/EFAIL with the
// elapsed seconds. The runId attribute comes from the root command's logger.
//
//	ctx, done := withCmdRunLogger(ctx, "create", "AWS")
//	defer func() { done(err) }()
func withCmdRunLogger(ctx context.Context, operation, provider string) (context.Context, func(err error)) {
	startAt := time.Now()

	logger := logging.FromContext(ctx).With("provider", provider)
	ctx = logging.WithLogger(ctx, logger)

	logger.Info(ctx, "CMD:"+operation+"/S")

	return ctx, func(err error) {
		status, short := "EOK", ""
		if err != nil {
			status, short = "EFAIL", truncate(err.Error(), 32)
		}
		logger.Info(ctx, "CMD:"+operation+"/"+status, "err", short, "elapsed", time.Since(startAt).Seconds())
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
