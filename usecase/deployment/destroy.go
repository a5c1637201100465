package deployment

import (
	"context"

	"github.com/yaegashi/jupyterops/domain/model"
)

// DestroyInput represents a command to tear a notebook server down.
type DestroyInput struct {
	Provider model.Provider `json:"provider"`
	Params   model.Params   `json:"params"`
}

// DestroyOutput reports how the teardown ended.
type DestroyOutput struct {
	Result *model.WorkflowResult `json:"result"`
}

// Destroy tears the notebook server down on the selected provider.
func (u *UseCase) Destroy(ctx context.Context, in DestroyInput) (*DestroyOutput, error) {
	req := &model.DeploymentRequest{Action: model.ActionDestroy, Provider: in.Provider, Params: in.Params}
	res, err := u.execute(ctx, req, u.Port.Destroy)
	return &DestroyOutput{Result: res}, err
}
