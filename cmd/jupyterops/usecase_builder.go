package main

import (
	"context"
	"errors"

	providerdrv "github.com/yaegashi/jupyterops/adapters/drivers/provider"
	"github.com/yaegashi/jupyterops/internal/credstore"
	"github.com/yaegashi/jupyterops/internal/runner"
	"github.com/yaegashi/jupyterops/internal/telemetry"
	"github.com/yaegashi/jupyterops/internal/terminal"
	"github.com/yaegashi/jupyterops/usecase/deployment"
)

// buildDeploymentUseCase creates the deployment use case with the process
// runner, the credential cache and the telemetry tracker.
func buildDeploymentUseCase(ctx context.Context, st *cliState, display terminal.Display, prompter terminal.Prompter) (*deployment.UseCase, error) {
	if st.env == nil {
		return nil, errors.New("configuration not loaded")
	}
	store := credstore.New(st.env.BaseDir)
	deps := &providerdrv.Deps{
		Runner:   runner.NewExecRunner(),
		Prompter: prompter,
		Display:  display,
		Store:    store,
		Cached:   store.Load(ctx),
		Env:      st.env,
	}
	return &deployment.UseCase{
		Port:    providerdrv.GetDeploymentPort(deps),
		Tracker: telemetry.New(st.env.TelemetryEndpoint),
	}, nil
}
