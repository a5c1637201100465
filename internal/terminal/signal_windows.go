//go:build windows

package terminal

import (
	"context"
	"os"
	"os/signal"
)

// SignalContext returns a context cancelled on Ctrl-C.
func SignalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt)
}
