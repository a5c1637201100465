package providerdrv

import (
	"context"
	"fmt"

	"github.com/yaegashi/jupyterops/domain/model"
	"github.com/yaegashi/jupyterops/internal/catalog"
	"github.com/yaegashi/jupyterops/internal/credstore"
	"github.com/yaegashi/jupyterops/internal/logging"
	"github.com/yaegashi/jupyterops/internal/naming"
	"github.com/yaegashi/jupyterops/internal/runner"
	"github.com/yaegashi/jupyterops/internal/wait"
)

// Choose returns given when it is one of options, asks when given is empty,
// and fails otherwise.
func Choose(ctx context.Context, d *Deps, given, title string, options []string) (string, error) {
	if given == "" {
		return d.Prompter.Select(ctx, title, options)
	}
	if !catalog.Contains(options, given) {
		return "", fmt.Errorf("%w: %q is not a valid choice for %q", model.ErrInvalidInput, given, title)
	}
	return given, nil
}

// LoginToken returns the JupyterLab login token from the request, the
// configuration, or the operator, in that order.
func LoginToken(ctx context.Context, d *Deps, req *model.DeploymentRequest) (string, error) {
	token := req.Params.LoginToken
	if token == "" && d.Env != nil {
		token = d.Env.LoginToken
	}
	if token != "" {
		if err := naming.ValidateLoginToken(token); err != nil {
			return "", fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
		}
		return token, nil
	}
	return d.Prompter.Secret(ctx, "Please enter a password/token to use for logging into Jupyter", naming.ValidateLoginToken)
}

// FlavorImage resolves the notebook image from the requested flavor (key or
// label), asking the operator when none was given.
func FlavorImage(ctx context.Context, d *Deps, req *model.DeploymentRequest) (string, error) {
	if given := req.Params.Flavor; given != "" {
		f, ok := catalog.LookupFlavor(given)
		if !ok {
			return "", fmt.Errorf("%w: unknown flavor %q", model.ErrInvalidInput, given)
		}
		return f.Image, nil
	}
	label, err := d.Prompter.Select(ctx, "Please select the base image to use (https://jupyter-docker-stacks.readthedocs.io/en/latest/using/selecting.html)", catalog.FlavorLabels())
	if err != nil {
		return "", err
	}
	return catalog.ResolveImage(label), nil
}

// MachineName returns the configured machine or instance name.
func (d *Deps) MachineName() string {
	if d.Env != nil && d.Env.MachineName != "" {
		return d.Env.MachineName
	}
	return "jupyter"
}

// ReuseCached asks whether the cached credentials for key should be reused
// and returns them when the answer is yes.
func (d *Deps) ReuseCached(ctx context.Context, key credstore.ProviderKey) (credstore.Fields, bool, error) {
	cached := d.Cached.For(key)
	reuse, err := credstore.ShouldReuse(ctx, d.Prompter, cached)
	if err != nil || !reuse {
		return nil, false, err
	}
	return cached, true, nil
}

// SaveCredentials stores freshly entered credentials, if a store is configured.
func (d *Deps) SaveCredentials(ctx context.Context, key credstore.ProviderKey, fields credstore.Fields) {
	if d.Store == nil {
		return
	}
	d.Store.Save(ctx, key, fields)
}

// PollOptions returns the configured poll bounds.
func (d *Deps) PollOptions() wait.Options {
	opts := wait.DefaultOptions
	if d.Env != nil {
		if d.Env.PollInterval > 0 {
			opts.Interval = d.Env.PollInterval
		}
		if d.Env.PollTimeout > 0 {
			opts.Timeout = d.Env.PollTimeout
		}
	}
	return opts
}

// DebugLines sends command output to the context logger at debug level.
// Used for commands whose output is scraped rather than shown.
func DebugLines(ctx context.Context) runner.LineFunc {
	logger := logging.FromContext(ctx)
	return func(line string) {
		logger.Debug(ctx, line, "stream", "stdout")
	}
}
