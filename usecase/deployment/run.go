package deployment

import (
	"context"
	"fmt"
	"time"

	"github.com/yaegashi/jupyterops/domain/model"
	"github.com/yaegashi/jupyterops/internal/logging"
	"github.com/yaegashi/jupyterops/internal/telemetry"
)

// RunInput selects the action and provider of one invocation.
type RunInput struct {
	Action   model.Action   `json:"action"`
	Provider model.Provider `json:"provider"`
	Params   model.Params   `json:"params"`
}

// RunOutput is the outcome of Run. Endpoint is set for a successful Create.
type RunOutput struct {
	Endpoint *model.Endpoint       `json:"endpoint,omitempty"`
	Result   *model.WorkflowResult `json:"result"`
}

// Run dispatches to Create or Destroy.
func (u *UseCase) Run(ctx context.Context, in RunInput) (*RunOutput, error) {
	switch in.Action {
	case model.ActionCreate:
		out, err := u.Create(ctx, CreateInput{Provider: in.Provider, Params: in.Params})
		return &RunOutput{Endpoint: out.Endpoint, Result: out.Result}, err
	case model.ActionDestroy:
		out, err := u.Destroy(ctx, DestroyInput{Provider: in.Provider, Params: in.Params})
		return &RunOutput{Result: out.Result}, err
	}
	return nil, fmt.Errorf("%w: unknown action %q", model.ErrInvalidInput, in.Action)
}

type workflowFunc func(ctx context.Context, req *model.DeploymentRequest) (*model.WorkflowResult, error)

// execute validates req, runs the workflow and reports the outcome.
func (u *UseCase) execute(ctx context.Context, req *model.DeploymentRequest, fn workflowFunc) (*model.WorkflowResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	logger := logging.FromContext(ctx).With("provider", req.Provider.Short(), "action", string(req.Action))
	ctx = logging.WithLogger(ctx, logger)

	startAt := time.Now()
	logger.Info(ctx, "workflow started")
	res, err := fn(ctx, req)
	elapsed := time.Since(startAt).Seconds()

	ev := telemetry.Event{Event: EventName(req, res)}
	if err != nil {
		ev.Error = err.Error()
		logger.Warn(ctx, "workflow failed", "state", lastState(res), "elapsed", elapsed)
	} else {
		ev.Success = true
		logger.Info(ctx, "workflow succeeded", "elapsed", elapsed)
	}
	if u.Tracker != nil {
		u.Tracker.Track(ctx, ev)
	}
	return res, err
}

// EventName names the telemetry event, e.g. "AWS Destroy". A failure while
// authenticating is reported as "GCP Authentication - Create".
func EventName(req *model.DeploymentRequest, res *model.WorkflowResult) string {
	if res != nil && res.State == model.StateFailed && res.LastState == model.StateAuthenticating {
		return fmt.Sprintf("%s Authentication - %s", req.Provider.Short(), req.Action)
	}
	return fmt.Sprintf("%s %s", req.Provider.Short(), req.Action)
}

func lastState(res *model.WorkflowResult) string {
	if res == nil {
		return ""
	}
	return string(res.LastState)
}
