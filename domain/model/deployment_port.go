package model

import "context"

// WorkflowState is a step of the shared provider workflow.
type WorkflowState string

const (
	StateStart          WorkflowState = "Start"
	StateAuthenticating WorkflowState = "Authenticating"
	StateProvisioning   WorkflowState = "Provisioning"
	StateDeprovisioning WorkflowState = "Deprovisioning"
	StateSucceeded      WorkflowState = "Succeeded"
	StateFailed         WorkflowState = "Failed"
)

// WorkflowResult reports how a workflow ended.
type WorkflowResult struct {
	State     WorkflowState
	LastState WorkflowState // state that was active when the workflow ended
	Endpoint  *Endpoint     // set for successful Create
}

// DeploymentPort is an interface (domain port) for provider workflows.
type DeploymentPort interface {
	Create(ctx context.Context, req *DeploymentRequest) (*WorkflowResult, error)
	Destroy(ctx context.Context, req *DeploymentRequest) (*WorkflowResult, error)
}
