package providerdrv

import (
	"context"

	"github.com/yaegashi/jupyterops/config/opsenv"
	"github.com/yaegashi/jupyterops/domain/model"
	"github.com/yaegashi/jupyterops/internal/credstore"
	"github.com/yaegashi/jupyterops/internal/runner"
	"github.com/yaegashi/jupyterops/internal/terminal"
)

// Driver abstracts one provider's workflow. Implementations live under
// adapters/drivers/provider/<name>. A driver instance serves a single
// request: Authenticate collects what the later steps need.
type Driver interface {
	// ID returns the provider identifier (e.g., "aws").
	ID() string

	// Authenticate gathers credentials and parameters for the request and
	// signs in where the provider CLI requires it.
	Authenticate(ctx context.Context, req *model.DeploymentRequest) error

	// Provision brings the notebook server up and returns where to reach it.
	Provision(ctx context.Context, req *model.DeploymentRequest) (*model.Endpoint, error)

	// Deprovision tears the notebook server down.
	Deprovision(ctx context.Context, req *model.DeploymentRequest) error
}

// Preparer is implemented by drivers that must clean up leftovers before a
// Create asks the operator anything.
type Preparer interface {
	Prepare(ctx context.Context, req *model.DeploymentRequest) error
}

// CredentialSaver persists credentials entered by the operator.
type CredentialSaver interface {
	Save(ctx context.Context, key credstore.ProviderKey, fields credstore.Fields)
}

// Deps are the collaborators handed to every driver.
type Deps struct {
	Runner   runner.Runner
	Prompter terminal.Prompter
	Display  terminal.Display
	Store    CredentialSaver
	Cached   credstore.Snapshot // loaded once at start-up
	Env      *opsenv.Env
}

// driverFactory is a constructor function for a provider driver.
type driverFactory func(deps *Deps) (Driver, error)

// registry holds registered drivers by provider.
var registry = map[model.Provider]driverFactory{}

// Register makes a driver available for the given provider. Drivers should
// call this from their init() function.
func Register(provider model.Provider, factory driverFactory) {
	registry[provider] = factory
}

// GetDriverFactory returns the driver factory function for the given provider.
func GetDriverFactory(provider model.Provider) (driverFactory, bool) {
	factory, exists := registry[provider]
	return factory, exists
}
