package deployment

import (
	"context"

	"github.com/yaegashi/jupyterops/domain/model"
)

// CreateInput represents a command to create a notebook server.
type CreateInput struct {
	Provider model.Provider `json:"provider"`
	Params   model.Params   `json:"params"`
}

// CreateOutput reports where the new server can be reached.
type CreateOutput struct {
	Endpoint *model.Endpoint       `json:"endpoint"`
	Result   *model.WorkflowResult `json:"result"`
}

// Create provisions a notebook server on the selected provider.
func (u *UseCase) Create(ctx context.Context, in CreateInput) (*CreateOutput, error) {
	req := &model.DeploymentRequest{Action: model.ActionCreate, Provider: in.Provider, Params: in.Params}
	res, err := u.execute(ctx, req, u.Port.Create)
	out := &CreateOutput{Result: res}
	if res != nil {
		out.Endpoint = res.Endpoint
	}
	return out, err
}
