package digitalocean

import (
	"context"
	"fmt"
	"strings"

	providerdrv "github.com/yaegashi/jupyterops/adapters/drivers/provider"
	"github.com/yaegashi/jupyterops/internal/logging"
	"github.com/yaegashi/jupyterops/internal/runner"
	"github.com/yaegashi/jupyterops/internal/scrape"
	"github.com/yaegashi/jupyterops/internal/wait"
)

const (
	dockerMachine = "docker-machine"
	// notebookPort is where the droplet publishes the container's 8888.
	notebookPort = "80:8888"
)

func (d *driver) machineCommand(ctx context.Context, env []string, args ...string) runner.Command {
	return runner.Command{
		Name:     dockerMachine,
		Args:     args,
		Env:      env,
		Stderr:   runner.StderrDiagnostic,
		OnStdout: providerdrv.DebugLines(ctx),
		Secrets:  []string{d.token, d.password},
	}
}

// removeMachine runs `docker-machine rm` and treats a missing machine as removed.
func (d *driver) removeMachine(ctx context.Context) error {
	_, err := d.deps.Runner.Run(ctx, d.machineCommand(ctx, nil, "rm", d.machine, "-y"))
	if err != nil && runner.ContainsText(err, "does not exist") {
		logging.FromContext(ctx).Info(ctx, "machine does not exist", "machine", d.machine)
		return nil
	}
	return err
}

func (d *driver) createMachine(ctx context.Context) error {
	_, err := d.deps.Runner.Run(ctx, d.machineCommand(ctx, nil,
		"create",
		"--digitalocean-size", d.size,
		"--driver", "digitalocean",
		"--digitalocean-access-token", d.token,
		d.machine,
	))
	return err
}

// machineEnv returns the DOCKER_* variables that point docker at the droplet.
func (d *driver) machineEnv(ctx context.Context) ([]string, error) {
	res, err := d.deps.Runner.Run(ctx, d.machineCommand(ctx, nil, "env", "--shell", "bash", d.machine))
	if err != nil {
		return nil, err
	}
	env := scrape.Exports(res.Stdout)
	if len(env) == 0 {
		return nil, &scrape.NotFoundError{Pattern: "docker-machine environment", Want: 1, Output: res.Stdout}
	}
	return env, nil
}

func (d *driver) runNotebook(ctx context.Context, env []string) error {
	c := d.machineCommand(ctx, env,
		"ssh", d.machine,
		"docker", "run", "-d", "--rm", "-p", notebookPort, d.image,
		"start.sh", "jupyter", "lab", fmt.Sprintf("--LabApp.token='%s'", d.password),
	)
	c.OnStdout = nil
	_, err := d.deps.Runner.Run(ctx, c)
	return err
}

// waitIP polls `docker-machine ip` until it prints an address. A non-zero
// exit means the droplet is not ready yet; other failures stop the poll.
func (d *driver) waitIP(ctx context.Context) (string, error) {
	var ip string
	err := wait.Poll(ctx, d.deps.PollOptions(), "droplet address", func(ctx context.Context) (bool, error) {
		res, err := d.deps.Runner.Run(ctx, d.machineCommand(ctx, nil, "ip", d.machine))
		if err != nil {
			if runner.IsKind(err, runner.KindExit) && ctx.Err() == nil {
				return false, nil
			}
			return false, err
		}
		var ok bool
		ip, ok = scrape.Extract(strings.TrimSpace(res.Stdout), scrape.IPv4)
		return ok, nil
	})
	return ip, err
}

// stopMachine stops the droplet. docker-machine reads the access token from
// the environment for the digitalocean driver.
func (d *driver) stopMachine(ctx context.Context) error {
	_, err := d.deps.Runner.Run(ctx, d.machineCommand(ctx, []string{"DIGITALOCEAN_ACCESS_TOKEN=" + d.token}, "stop", d.machine))
	return err
}
