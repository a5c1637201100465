package gcp

import (
	"context"
	"fmt"

	providerdrv "github.com/yaegashi/jupyterops/adapters/drivers/provider"
	"github.com/yaegashi/jupyterops/domain/model"
	"github.com/yaegashi/jupyterops/internal/catalog"
	"github.com/yaegashi/jupyterops/internal/logging"
	"github.com/yaegashi/jupyterops/internal/runner"
	"github.com/yaegashi/jupyterops/internal/scrape"
	"github.com/yaegashi/jupyterops/internal/wait"
)

const (
	instanceScopes = "--scopes=https://www.googleapis.com/auth/cloud-platform"
	instanceTags   = "http-server,https-server"
	proxyMetadata  = "proxy-mode=project_editors"
	gpuMetadata    = "install-nvidia-driver=True," + proxyMetadata
	gpuAccelerator = "type=nvidia-tesla-v100,count=1"

	wrongZoneHintFormat = "Error tearing down instance. Check to ensure you selected the correct zone that the '%s' instance resides in."
)

// createArgs returns the `gcloud compute instances create` arguments. Only
// the GPU variant asks for an accelerator and the NVIDIA driver.
func (d *driver) createArgs() []string {
	args := []string{
		"compute", "instances", "create", d.instance,
		"--zone", d.zone,
		"--image-family", d.family,
		"--image-project", catalog.GCPImageProject,
	}
	if d.gpu {
		return append(args,
			"--maintenance-policy", "TERMINATE",
			"--accelerator", gpuAccelerator,
			"--metadata", gpuMetadata,
			instanceScopes,
			"--tags", instanceTags,
		)
	}
	return append(args,
		instanceScopes,
		"--metadata", proxyMetadata,
		"--tags", instanceTags,
	)
}

// Provision creates the instance and waits for its notebook proxy host.
func (d *driver) Provision(ctx context.Context, _ *model.DeploymentRequest) (ep *model.Endpoint, err error) {
	ctx, cleanup := providerdrv.WithStepLogger(ctx, driverLogName, "Provision")
	defer func() { cleanup(err) }()

	if err := d.deps.Display.Spin(ctx, "Deploying Google Cloud instance. This may take a few minutes", func() error {
		_, err := d.deps.Runner.Run(ctx, d.command(ctx, d.createArgs()...))
		return err
	}); err != nil {
		return nil, err
	}

	var host string
	if err := d.deps.Display.Spin(ctx, "Waiting for Jupyter instance proxy to initialize. This may take a few minutes", func() error {
		var perr error
		host, perr = d.waitProxy(ctx)
		return perr
	}); err != nil {
		return nil, err
	}
	return &model.Endpoint{Scheme: "https", Host: host}, nil
}

// waitProxy polls the instance description until the proxy host shows up
// in its metadata. A failing describe counts as not ready yet.
func (d *driver) waitProxy(ctx context.Context) (string, error) {
	var host string
	logger := logging.FromContext(ctx)
	err := wait.Poll(ctx, d.deps.PollOptions(), "notebook proxy", func(ctx context.Context) (bool, error) {
		res, err := d.deps.Runner.Run(ctx, d.command(ctx, "compute", "instances", "describe", d.instance, "--zone", d.zone))
		if err != nil {
			if runner.IsKind(err, runner.KindExit) && ctx.Err() == nil {
				logger.Debug(ctx, "describe failed, retrying", "error", err.Error())
				return false, nil
			}
			return false, err
		}
		var ok bool
		host, ok = scrape.Extract(res.Stdout, scrape.NotebookProxy)
		return ok, nil
	})
	return host, err
}

// Deprovision deletes the instance in the selected zone.
func (d *driver) Deprovision(ctx context.Context, _ *model.DeploymentRequest) (err error) {
	ctx, cleanup := providerdrv.WithStepLogger(ctx, driverLogName, "Deprovision")
	defer func() { cleanup(err) }()

	err = d.deps.Display.Spin(ctx, "Tearing down GCP JupyterLab deployment", func() error {
		_, err := d.deps.Runner.Run(ctx, d.command(ctx, "compute", "instances", "delete", d.instance, "--zone", d.zone, "--quiet"))
		return err
	})
	if err != nil {
		d.deps.Display.Failure(fmt.Sprintf(wrongZoneHintFormat, d.instance))
	}
	return err
}
