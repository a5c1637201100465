package digitalocean

import (
	"context"
	"errors"
	"fmt"

	providerdrv "github.com/yaegashi/jupyterops/adapters/drivers/provider"
	"github.com/yaegashi/jupyterops/domain/model"
	"github.com/yaegashi/jupyterops/internal/catalog"
	"github.com/yaegashi/jupyterops/internal/credstore"
	"github.com/yaegashi/jupyterops/internal/terminal"
)

const (
	driverLogName = "DO"
	tokenField    = "token"
)

// driver implements the DigitalOcean provider driver on top of docker-machine.
type driver struct {
	deps    *providerdrv.Deps
	machine string

	token    string // DigitalOcean API access token
	password string // JupyterLab login token
	image    string
	size     string
}

// ID returns the provider identifier.
func (d *driver) ID() string { return "digitalocean" }

// init registers the DigitalOcean driver.
func init() {
	providerdrv.Register(model.ProviderDigitalOcean, func(deps *providerdrv.Deps) (providerdrv.Driver, error) {
		if deps == nil || deps.Runner == nil || deps.Prompter == nil || deps.Display == nil {
			return nil, errors.New("digitalocean driver requires a runner, a prompter and a display")
		}
		return &driver{deps: deps, machine: deps.MachineName()}, nil
	})
}

// Authenticate collects the API token and, for Create, the droplet settings.
// Cached credentials are offered first; a newly entered token is cached.
func (d *driver) Authenticate(ctx context.Context, req *model.DeploymentRequest) (err error) {
	ctx, cleanup := providerdrv.WithStepLogger(ctx, driverLogName, "Authenticate")
	defer func() { cleanup(err) }()

	cached, reuse, err := d.deps.ReuseCached(ctx, credstore.DO)
	if err != nil {
		return err
	}

	if req.Action == model.ActionCreate {
		if d.password, err = providerdrv.LoginToken(ctx, d.deps, req); err != nil {
			return err
		}
		if d.image, err = providerdrv.FlavorImage(ctx, d.deps, req); err != nil {
			return err
		}
		if d.size, err = providerdrv.Choose(ctx, d.deps, req.Params.Size, "What size droplet would you like?", catalog.DropletSizes); err != nil {
			return err
		}
	}

	if reuse && cached[tokenField] != "" {
		d.token = cached[tokenField]
		return nil
	}
	d.token, err = d.deps.Prompter.Secret(ctx, "Please enter your DigitalOcean API Access Token", terminal.Required("You must provide a valid DigitalOcean API access token"))
	if err != nil {
		return err
	}
	d.deps.SaveCredentials(ctx, credstore.DO, credstore.Fields{tokenField: d.token})
	return nil
}

// Prepare removes a leftover machine of the same name.
func (d *driver) Prepare(ctx context.Context, _ *model.DeploymentRequest) (err error) {
	ctx, cleanup := providerdrv.WithStepLogger(ctx, driverLogName, "Prepare")
	defer func() { cleanup(err) }()

	if err := d.removeMachine(ctx); err != nil {
		return fmt.Errorf("removing existing machine %s: %w", d.machine, err)
	}
	return nil
}

// Provision creates the droplet, starts the notebook container on it and
// waits for the droplet address.
func (d *driver) Provision(ctx context.Context, _ *model.DeploymentRequest) (ep *model.Endpoint, err error) {
	ctx, cleanup := providerdrv.WithStepLogger(ctx, driverLogName, "Provision")
	defer func() { cleanup(err) }()

	if err := d.deps.Display.Spin(ctx, "Creating DigitalOcean droplet", func() error {
		return d.createMachine(ctx)
	}); err != nil {
		return nil, err
	}
	env, err := d.machineEnv(ctx)
	if err != nil {
		return nil, err
	}

	d.deps.Display.Info("Running JupyterLab docker image...")
	if err := d.runNotebook(ctx, env); err != nil {
		return nil, err
	}

	var ip string
	if err := d.deps.Display.Spin(ctx, "Waiting for the droplet address", func() error {
		var perr error
		ip, perr = d.waitIP(ctx)
		return perr
	}); err != nil {
		return nil, err
	}
	return &model.Endpoint{Scheme: "http", Host: ip, Token: d.password}, nil
}

// Deprovision stops and removes the droplet.
func (d *driver) Deprovision(ctx context.Context, _ *model.DeploymentRequest) (err error) {
	ctx, cleanup := providerdrv.WithStepLogger(ctx, driverLogName, "Deprovision")
	defer func() { cleanup(err) }()

	return d.deps.Display.Spin(ctx, "Tearing down JupyterLab deployment", func() error {
		if err := d.stopMachine(ctx); err != nil {
			return err
		}
		return d.removeMachine(ctx)
	})
}

var (
	_ providerdrv.Driver   = (*driver)(nil)
	_ providerdrv.Preparer = (*driver)(nil)
)
