package main

import (
	"context"
	"os"

	_ "github.com/yaegashi/jupyterops/adapters/drivers/provider/aws"
	_ "github.com/yaegashi/jupyterops/adapters/drivers/provider/digitalocean"
	_ "github.com/yaegashi/jupyterops/adapters/drivers/provider/gcp"
	"github.com/yaegashi/jupyterops/internal/logging"
	"github.com/yaegashi/jupyterops/internal/terminal"
)

func main() {
	ctx, stop := terminal.SignalContext(context.Background())
	root := newRootCmd()
	root.SetArgs(normalizeArgs(os.Args[1:]))
	root.SetContext(ctx)
	executed, err := root.ExecuteC()
	if err != nil {
		ctx := root.Context()
		if executed != nil {
			ctx = executed.Context()
		}
		logging.FromContext(ctx).Errorf(ctx, "Failed: %s", err)
		stop()
		os.Exit(1)
	}
	stop()
}
