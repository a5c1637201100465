package aws

import (
	"context"

	"github.com/yaegashi/jupyterops/domain/model"
	"github.com/yaegashi/jupyterops/internal/compose"
	"github.com/yaegashi/jupyterops/internal/logging"
	"github.com/yaegashi/jupyterops/internal/scrape"
)

// serviceFailureMarkers are ecs-cli log levels that mean the step failed
// even when the exit status is 0.
var serviceFailureMarkers = []string{"level=error", "level=fatal"}

// writeDescriptors renders docker-compose.yml and ecs-params.yml into the
// base directory and copies them into the working directory, where ecs-cli
// compose looks for them.
func (d *driver) writeDescriptors(ctx context.Context, topo model.ClusterTopology) error {
	desc, err := compose.Render(ctx, d.image, d.token, topo)
	if err != nil {
		return err
	}
	if err := desc.Write(d.deps.Env.BaseDir); err != nil {
		return err
	}
	logger := logging.FromContext(ctx)
	logger.Debug(ctx, "using "+compose.ComposeFilename, "image", d.image)
	logger.Debug(ctx, "using "+compose.ECSParamsFilename, "content", string(desc.ECSParams))
	return d.copyDescriptors()
}

func (d *driver) copyDescriptors() error {
	if d.deps.Env.WorkDir == "" || d.deps.Env.WorkDir == d.deps.Env.BaseDir {
		return nil
	}
	return compose.CopyDescriptors(d.deps.Env.BaseDir, d.deps.Env.WorkDir)
}

func (d *driver) composeRun(ctx context.Context, args ...string) (string, error) {
	c := d.command(ctx, "ecs-cli", append([]string{"compose", "--project-name", compose.ProjectName}, args...)...)
	c.Dir = d.deps.Env.WorkDir
	c.FatalMarkers = serviceFailureMarkers
	res, err := d.deps.Runner.Run(ctx, c)
	return res.Combined(), err
}

// serviceUp starts the notebook service and returns the task's public IP.
func (d *driver) serviceUp(ctx context.Context) (ip string, err error) {
	err = d.deps.Display.Spin(ctx, "Booting JupyterLab instance", func() error {
		if _, err := d.composeRun(ctx, "--file", compose.ComposeFilename, "service", "up",
			"--ecs-params", compose.ECSParamsFilename,
			"--cluster-config", clusterConfigName); err != nil {
			return err
		}
		out, err := d.composeRun(ctx, "service", "ps",
			"--ecs-params", compose.ECSParamsFilename,
			"--cluster", clusterName,
			"--cluster-config", clusterConfigName)
		if err != nil {
			return err
		}
		ip, err = scrape.Require(out, scrape.IPv4)
		return err
	})
	return ip, err
}

func (d *driver) serviceRemove(ctx context.Context) error {
	_, err := d.composeRun(ctx, "service", "rm", "--cluster-config", clusterConfigName)
	return err
}
