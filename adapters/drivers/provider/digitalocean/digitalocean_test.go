package digitalocean

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	providerdrv "github.com/yaegashi/jupyterops/adapters/drivers/provider"
	"github.com/yaegashi/jupyterops/config/opsenv"
	"github.com/yaegashi/jupyterops/domain/model"
	"github.com/yaegashi/jupyterops/internal/catalog"
	"github.com/yaegashi/jupyterops/internal/credstore"
	"github.com/yaegashi/jupyterops/internal/logging"
	"github.com/yaegashi/jupyterops/internal/runner"
	"github.com/yaegashi/jupyterops/internal/runner/runnermock"
	"github.com/yaegashi/jupyterops/internal/runner/runnertest"
	"github.com/yaegashi/jupyterops/internal/terminal"
	"github.com/yaegashi/jupyterops/internal/terminal/terminalmock"
)

type fixture struct {
	runner   *runnertest.Fake
	prompter *terminalmock.MockPrompter
	store    *credstore.Store
	out      *bytes.Buffer
	deps     *providerdrv.Deps
}

func newFixture(t *testing.T, cached credstore.Snapshot) *fixture {
	t.Helper()
	f := &fixture{
		runner:   &runnertest.Fake{},
		prompter: terminalmock.NewMockPrompter(gomock.NewController(t)),
		store:    credstore.New(filepath.Join(t.TempDir(), "base")),
		out:      &bytes.Buffer{},
	}
	f.deps = &providerdrv.Deps{
		Runner:   f.runner,
		Prompter: f.prompter,
		Display:  &terminal.Console{Out: f.out},
		Store:    f.store,
		Cached:   cached,
		Env:      &opsenv.Env{MachineName: "jupyter", PollInterval: time.Millisecond, PollTimeout: time.Second},
	}
	return f
}

func testContext() context.Context {
	return logging.WithLogger(context.Background(), logging.Discard())
}

func TestCreate_HappyPath(t *testing.T) {
	f := newFixture(t, credstore.Snapshot{})
	f.runner.On("docker-machine", "rm").Stderr(`Error removing host "jupyter": Host does not exist: "jupyter"`).Exits(1)
	f.runner.On("docker-machine", "env").Returns(
		`export DOCKER_TLS_VERIFY="1"`,
		`export DOCKER_HOST="tcp://203.0.113.7:2376"`,
		`# Run this command to configure your shell:`,
	)
	f.runner.On("docker-machine", "ip").Returns("203.0.113.7")
	f.runner.On("docker-machine", "ip").Stderr("Error: host is not running").Exits(1).Once()

	gomock.InOrder(
		f.prompter.EXPECT().Secret(gomock.Any(), gomock.Any(), gomock.Any()).Return("abc123", nil),
		f.prompter.EXPECT().Select(gomock.Any(), gomock.Any(), catalog.FlavorLabels()).Return("SciPy", nil),
		f.prompter.EXPECT().Select(gomock.Any(), gomock.Any(), catalog.DropletSizes).Return("s-1vcpu-2gb", nil),
		f.prompter.EXPECT().Secret(gomock.Any(), "Please enter your DigitalOcean API Access Token", gomock.Any()).Return("dop_v1_token", nil),
	)

	req := &model.DeploymentRequest{Action: model.ActionCreate, Provider: model.ProviderDigitalOcean}
	res, err := providerdrv.GetDeploymentPort(f.deps).Create(testContext(), req)
	require.NoError(t, err)
	assert.Equal(t, model.StateSucceeded, res.State)
	assert.Equal(t, model.StateProvisioning, res.LastState)
	require.NotNil(t, res.Endpoint)
	assert.Equal(t, "http://203.0.113.7/?token=abc123", res.Endpoint.URL())

	assert.Equal(t, []string{
		"docker-machine rm jupyter -y",
		"docker-machine create --digitalocean-size s-1vcpu-2gb --driver digitalocean --digitalocean-access-token dop_v1_token jupyter",
		"docker-machine env --shell bash jupyter",
		"docker-machine ssh jupyter docker run -d --rm -p 80:8888 jupyter/scipy-notebook start.sh jupyter lab --LabApp.token='abc123'",
		"docker-machine ip jupyter",
		"docker-machine ip jupyter",
	}, f.runner.CommandLines())

	calls := f.runner.Calls()
	assert.Contains(t, calls[3].Env, "DOCKER_HOST=tcp://203.0.113.7:2376")
	assert.Contains(t, calls[1].String(), "****")

	assert.Equal(t, credstore.Fields{"token": "dop_v1_token"}, f.store.Load(testContext()).DO)
}

func TestCreate_ReusesCachedToken(t *testing.T) {
	f := newFixture(t, credstore.Snapshot{DO: credstore.Fields{"token": "cached"}})
	f.runner.On("docker-machine", "ip").Returns("198.51.100.20")
	f.runner.On("docker-machine", "env").Returns(`export DOCKER_HOST="tcp://198.51.100.20:2376"`)

	gomock.InOrder(
		f.prompter.EXPECT().Confirm(gomock.Any(), credstore.ReusePrompt).Return(true, nil),
		f.prompter.EXPECT().Secret(gomock.Any(), gomock.Any(), gomock.Any()).Return("pw", nil),
	)

	req := &model.DeploymentRequest{
		Action:   model.ActionCreate,
		Provider: model.ProviderDigitalOcean,
		Params:   model.Params{Flavor: "r", Size: "s-2vcpu-4gb"},
	}
	res, err := providerdrv.GetDeploymentPort(f.deps).Create(testContext(), req)
	require.NoError(t, err)
	assert.Equal(t, "http://198.51.100.20/?token=pw", res.Endpoint.URL())

	lines := f.runner.CommandLines()
	assert.Equal(t, "docker-machine create --digitalocean-size s-2vcpu-4gb --driver digitalocean --digitalocean-access-token cached jupyter", lines[1])
	assert.Contains(t, lines[3], "jupyter/r-notebook")
	assert.True(t, f.store.Load(testContext()).DO.Empty(), "reused credentials are not rewritten")
}

func TestCreate_RemoveFailureStopsBeforePrompts(t *testing.T) {
	f := newFixture(t, credstore.Snapshot{})
	f.runner.On("docker-machine", "rm").Stderr("Error: permission denied").Exits(1)

	req := &model.DeploymentRequest{Action: model.ActionCreate, Provider: model.ProviderDigitalOcean}
	res, err := providerdrv.GetDeploymentPort(f.deps).Create(testContext(), req)
	require.Error(t, err)
	assert.True(t, runner.IsKind(err, runner.KindExit))
	assert.Equal(t, model.StateFailed, res.State)
	assert.Equal(t, model.StateStart, res.LastState)
	assert.Len(t, f.runner.Calls(), 1)
}

func TestCreate_InvalidSize(t *testing.T) {
	f := newFixture(t, credstore.Snapshot{})
	f.prompter.EXPECT().Secret(gomock.Any(), gomock.Any(), gomock.Any()).Return("pw", nil)

	req := &model.DeploymentRequest{
		Action:   model.ActionCreate,
		Provider: model.ProviderDigitalOcean,
		Params:   model.Params{Flavor: "base", Size: "huge"},
	}
	res, err := providerdrv.GetDeploymentPort(f.deps).Create(testContext(), req)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	assert.Equal(t, model.StateAuthenticating, res.LastState)
}

func TestDestroy_ReusedCredentials(t *testing.T) {
	f := newFixture(t, credstore.Snapshot{DO: credstore.Fields{"token": "cached"}})
	f.prompter.EXPECT().Confirm(gomock.Any(), credstore.ReusePrompt).Return(true, nil)

	req := &model.DeploymentRequest{Action: model.ActionDestroy, Provider: model.ProviderDigitalOcean}
	res, err := providerdrv.GetDeploymentPort(f.deps).Destroy(testContext(), req)
	require.NoError(t, err)
	assert.Equal(t, model.StateSucceeded, res.State)
	assert.Equal(t, model.StateDeprovisioning, res.LastState)

	assert.Equal(t, []string{
		"docker-machine stop jupyter",
		"docker-machine rm jupyter -y",
	}, f.runner.CommandLines())
	assert.Contains(t, f.runner.Calls()[0].Env, "DIGITALOCEAN_ACCESS_TOKEN=cached")
	assert.Contains(t, f.out.String(), "Tearing down JupyterLab deployment")
}

func TestDestroy_StopFailure(t *testing.T) {
	f := newFixture(t, credstore.Snapshot{})
	f.prompter.EXPECT().Secret(gomock.Any(), gomock.Any(), gomock.Any()).Return("fresh", nil)
	f.runner.On("docker-machine", "stop").Stderr("Error: unauthorized").Exits(1)

	req := &model.DeploymentRequest{Action: model.ActionDestroy, Provider: model.ProviderDigitalOcean}
	res, err := providerdrv.GetDeploymentPort(f.deps).Destroy(testContext(), req)
	require.Error(t, err)
	assert.Equal(t, model.StateDeprovisioning, res.LastState)
	assert.Equal(t, []string{"docker-machine stop jupyter"}, f.runner.CommandLines())
	assert.Equal(t, credstore.Fields{"token": "fresh"}, f.store.Load(testContext()).DO)
}

func TestCreate_DockerMachineNotInstalled(t *testing.T) {
	f := newFixture(t, credstore.Snapshot{})
	ctrl := gomock.NewController(t)
	r := runnermock.NewMockRunner(ctrl)
	r.EXPECT().Run(gomock.Any(), gomock.Cond(func(x any) bool {
		c, ok := x.(runner.Command)
		return ok && c.Name == "docker-machine" && len(c.Args) > 0 && c.Args[0] == "rm"
	})).Return(&runner.Result{}, &runner.ProcessError{Command: "docker-machine rm jupyter -y", Kind: runner.KindNotInstalled}).Times(1)
	f.deps.Runner = r

	req := &model.DeploymentRequest{Action: model.ActionCreate, Provider: model.ProviderDigitalOcean}
	res, err := providerdrv.GetDeploymentPort(f.deps).Create(testContext(), req)
	require.Error(t, err)
	assert.True(t, runner.IsKind(err, runner.KindNotInstalled))
	assert.Equal(t, model.StateFailed, res.State)
}
