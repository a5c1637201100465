package providerdrv

import (
	"context"
	"fmt"

	"github.com/yaegashi/jupyterops/domain/model"
	"github.com/yaegashi/jupyterops/internal/logging"
)

// deploymentPortAdapter implements model.DeploymentPort backed by provider drivers.
type deploymentPortAdapter struct {
	deps *Deps
}

func (a *deploymentPortAdapter) Create(ctx context.Context, req *model.DeploymentRequest) (*model.WorkflowResult, error) {
	return a.run(ctx, req, model.ActionCreate)
}

func (a *deploymentPortAdapter) Destroy(ctx context.Context, req *model.DeploymentRequest) (*model.WorkflowResult, error) {
	return a.run(ctx, req, model.ActionDestroy)
}

// run drives Start -> (Prepare) -> Authenticating -> Provisioning|Deprovisioning
// -> Succeeded|Failed. Nothing is rolled back on failure.
func (a *deploymentPortAdapter) run(ctx context.Context, req *model.DeploymentRequest, action model.Action) (*model.WorkflowResult, error) {
	factory, exists := GetDriverFactory(req.Provider)
	if !exists {
		return nil, fmt.Errorf("%w: %s", model.ErrUnknownProvider, req.Provider)
	}
	driver, err := factory(a.deps)
	if err != nil {
		return nil, fmt.Errorf("failed to create driver %s: %w", req.Provider, err)
	}

	logger := logging.FromContext(ctx).With("provider", driver.ID(), "action", string(action))
	ctx = logging.WithLogger(ctx, logger)

	res := &model.WorkflowResult{State: model.StateStart}
	enter := func(s model.WorkflowState) {
		logger.Debug(ctx, "workflow state", "from", string(res.State), "to", string(s))
		res.State = s
	}
	fail := func(err error) (*model.WorkflowResult, error) {
		res.LastState = res.State
		enter(model.StateFailed)
		return res, err
	}

	if p, ok := driver.(Preparer); ok && action == model.ActionCreate {
		if err := p.Prepare(ctx, req); err != nil {
			return fail(err)
		}
	}

	enter(model.StateAuthenticating)
	if err := driver.Authenticate(ctx, req); err != nil {
		return fail(err)
	}

	switch action {
	case model.ActionCreate:
		enter(model.StateProvisioning)
		ep, err := driver.Provision(ctx, req)
		if err != nil {
			return fail(err)
		}
		res.Endpoint = ep
	case model.ActionDestroy:
		enter(model.StateDeprovisioning)
		if err := driver.Deprovision(ctx, req); err != nil {
			return fail(err)
		}
	default:
		return fail(fmt.Errorf("%w: action %q", model.ErrInvalidInput, action))
	}

	res.LastState = res.State
	enter(model.StateSucceeded)
	return res, nil
}

// GetDeploymentPort returns a model.DeploymentPort implemented via provider drivers.
func GetDeploymentPort(deps *Deps) model.DeploymentPort {
	return &deploymentPortAdapter{deps: deps}
}
