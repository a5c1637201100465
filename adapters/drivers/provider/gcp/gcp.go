package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	providerdrv "github.com/yaegashi/jupyterops/adapters/drivers/provider"
	"github.com/yaegashi/jupyterops/domain/model"
	"github.com/yaegashi/jupyterops/internal/catalog"
	"github.com/yaegashi/jupyterops/internal/naming"
	"github.com/yaegashi/jupyterops/internal/runner"
	"github.com/yaegashi/jupyterops/internal/scrape"
	"github.com/yaegashi/jupyterops/internal/terminal"
)

const driverLogName = "GCP"

// driver implements the Google Cloud provider driver: a Deep Learning VM
// created with gcloud and reached through its notebook proxy.
type driver struct {
	deps     *providerdrv.Deps
	instance string

	project string
	gpu     bool
	family  string
	zone    string
}

// ID returns the provider identifier.
func (d *driver) ID() string { return "gcp" }

// init registers the GCP driver.
func init() {
	providerdrv.Register(model.ProviderGoogleCloud, func(deps *providerdrv.Deps) (providerdrv.Driver, error) {
		if deps == nil || deps.Runner == nil || deps.Prompter == nil || deps.Display == nil {
			return nil, errors.New("gcp driver requires a runner, a prompter and a display")
		}
		return &driver{deps: deps, instance: deps.MachineName()}, nil
	})
}

// Authenticate signs gcloud in, selects the project and collects the
// instance settings.
func (d *driver) Authenticate(ctx context.Context, req *model.DeploymentRequest) (err error) {
	ctx, cleanup := providerdrv.WithStepLogger(ctx, driverLogName, "Authenticate")
	defer func() { cleanup(err) }()

	if err := d.login(ctx); err != nil {
		return err
	}
	d.deps.Display.Success("Authentication with Google Cloud successful!")

	if err := d.selectProject(ctx, req.Params.Project); err != nil {
		return err
	}

	if req.Action == model.ActionCreate {
		if req.Params.GPU != nil {
			d.gpu = *req.Params.GPU
		} else if d.gpu, err = d.deps.Prompter.Confirm(ctx, "Would you like to use an instance with a GPU? (this will cost more)"); err != nil {
			return err
		}
		if d.family, err = providerdrv.Choose(ctx, d.deps, req.Params.ImageFamily,
			"Please select the base image to use (https://cloud.google.com/ai-platform/deep-learning-vm/docs/images)",
			catalog.GCPImageFamilies(d.gpu)); err != nil {
			return err
		}
	}
	d.zone, err = providerdrv.Choose(ctx, d.deps, req.Params.Zone, "Please select the zone to use", catalog.GCPZones)
	return err
}

// login runs `gcloud auth login --no-launch-browser`. gcloud talks on
// stderr: the first URL is shown to the operator and the verification code
// is written back on stdin; any line with ERROR fails the login.
func (d *driver) login(ctx context.Context) error {
	prompted := false
	_, err := d.deps.Runner.Run(ctx, runner.Command{
		Name:     "gcloud",
		Args:     []string{"auth", "login", "--no-launch-browser"},
		OnStdout: providerdrv.DebugLines(ctx),
		OnStderr: func(line string, stdin io.Writer) error {
			if strings.Contains(line, "ERROR") {
				return errors.New(strings.TrimSpace(line))
			}
			if prompted {
				return nil
			}
			url, ok := scrape.Extract(line, scrape.URL)
			if !ok {
				return nil
			}
			prompted = true
			d.deps.Display.Link("Please go to the following link in your browser to authenticate:", url)
			code, err := d.deps.Prompter.Input(ctx, "Enter verification code", terminal.Required("You must provide a valid verification code"))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(stdin, strings.TrimSpace(code))
			return err
		},
	})
	if err != nil {
		return fmt.Errorf("gcloud login: %w", err)
	}
	return nil
}

func (d *driver) selectProject(ctx context.Context, given string) (err error) {
	if given != "" {
		if err := naming.ValidateProjectID(given); err != nil {
			return fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
		}
		d.project = given
	} else if d.project, err = d.deps.Prompter.Input(ctx, "Please input the name of your Google Cloud project", naming.ValidateProjectID); err != nil {
		return err
	}
	_, err = d.deps.Runner.Run(ctx, d.command(ctx, "config", "set", "project", d.project))
	return err
}

func (d *driver) command(ctx context.Context, args ...string) runner.Command {
	return runner.Command{
		Name:     "gcloud",
		Args:     args,
		Stderr:   runner.StderrDiagnostic,
		OnStdout: providerdrv.DebugLines(ctx),
	}
}

var _ providerdrv.Driver = (*driver)(nil)
