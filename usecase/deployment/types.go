package deployment

import (
	"github.com/yaegashi/jupyterops/domain/model"
	"github.com/yaegashi/jupyterops/internal/telemetry"
)

// UseCase wires the deployment port and the telemetry tracker.
type UseCase struct {
	Port    model.DeploymentPort
	Tracker telemetry.Tracker
}
