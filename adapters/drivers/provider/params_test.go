package providerdrv

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/yaegashi/jupyterops/config/opsenv"
	"github.com/yaegashi/jupyterops/domain/model"
	"github.com/yaegashi/jupyterops/internal/catalog"
	"github.com/yaegashi/jupyterops/internal/credstore"
	"github.com/yaegashi/jupyterops/internal/terminal/terminalmock"
	"github.com/yaegashi/jupyterops/internal/wait"
)

func TestChoose(t *testing.T) {
	ctx := portContext()
	p := terminalmock.NewMockPrompter(gomock.NewController(t))
	d := &Deps{Prompter: p}
	options := []string{"a", "b"}

	got, err := Choose(ctx, d, "b", "pick", options)
	require.NoError(t, err)
	assert.Equal(t, "b", got)

	_, err = Choose(ctx, d, "c", "pick", options)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	p.EXPECT().Select(gomock.Any(), "pick", options).Return("a", nil)
	got, err = Choose(ctx, d, "", "pick", options)
	require.NoError(t, err)
	assert.Equal(t, "a", got)
}

func TestLoginToken(t *testing.T) {
	ctx := portContext()
	p := terminalmock.NewMockPrompter(gomock.NewController(t))
	d := &Deps{Prompter: p, Env: &opsenv.Env{LoginToken: "from-config"}}

	got, err := LoginToken(ctx, d, &model.DeploymentRequest{Params: model.Params{LoginToken: "from-flag"}})
	require.NoError(t, err)
	assert.Equal(t, "from-flag", got)

	got, err = LoginToken(ctx, d, &model.DeploymentRequest{})
	require.NoError(t, err)
	assert.Equal(t, "from-config", got)

	_, err = LoginToken(ctx, d, &model.DeploymentRequest{Params: model.Params{LoginToken: "has space"}})
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	d.Env.LoginToken = ""
	p.EXPECT().Secret(gomock.Any(), gomock.Any(), gomock.Any()).Return("typed", nil)
	got, err = LoginToken(ctx, d, &model.DeploymentRequest{})
	require.NoError(t, err)
	assert.Equal(t, "typed", got)
}

func TestFlavorImage(t *testing.T) {
	ctx := portContext()
	p := terminalmock.NewMockPrompter(gomock.NewController(t))
	d := &Deps{Prompter: p}

	got, err := FlavorImage(ctx, d, &model.DeploymentRequest{Params: model.Params{Flavor: "datascience"}})
	require.NoError(t, err)
	assert.Equal(t, "jupyter/datascience-notebook", got)

	_, err = FlavorImage(ctx, d, &model.DeploymentRequest{Params: model.Params{Flavor: "cobol"}})
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	p.EXPECT().Select(gomock.Any(), gomock.Any(), catalog.FlavorLabels()).Return("All Spark (Most comprehensive; Python, R, Scala, Julia, SciPy)", nil)
	got, err = FlavorImage(ctx, d, &model.DeploymentRequest{})
	require.NoError(t, err)
	assert.Equal(t, "jupyter/all-spark-notebook", got)
}

type recordingSaver struct {
	saved map[credstore.ProviderKey]credstore.Fields
}

func (r *recordingSaver) Save(_ context.Context, key credstore.ProviderKey, f credstore.Fields) {
	if r.saved == nil {
		r.saved = map[credstore.ProviderKey]credstore.Fields{}
	}
	r.saved[key] = f
}

func TestReuseCached(t *testing.T) {
	ctx := portContext()
	p := terminalmock.NewMockPrompter(gomock.NewController(t))

	d := &Deps{Prompter: p}
	f, reuse, err := d.ReuseCached(ctx, credstore.DO)
	require.NoError(t, err)
	assert.False(t, reuse)
	assert.Nil(t, f)

	d.Cached = credstore.Snapshot{AWS: credstore.Fields{"keyId": "id", "key": "k"}}
	p.EXPECT().Confirm(gomock.Any(), credstore.ReusePrompt).Return(true, nil)
	f, reuse, err = d.ReuseCached(ctx, credstore.AWS)
	require.NoError(t, err)
	assert.True(t, reuse)
	assert.Equal(t, "id", f["keyId"])

	p.EXPECT().Confirm(gomock.Any(), credstore.ReusePrompt).Return(false, nil)
	_, reuse, err = d.ReuseCached(ctx, credstore.AWS)
	require.NoError(t, err)
	assert.False(t, reuse)
}

func TestSaveCredentials(t *testing.T) {
	ctx := portContext()
	(&Deps{}).SaveCredentials(ctx, credstore.DO, credstore.Fields{"token": "x"})

	s := &recordingSaver{}
	(&Deps{Store: s}).SaveCredentials(ctx, credstore.DO, credstore.Fields{"token": "x"})
	assert.Equal(t, credstore.Fields{"token": "x"}, s.saved[credstore.DO])
}

func TestPollOptions(t *testing.T) {
	assert.Equal(t, wait.DefaultOptions, (&Deps{}).PollOptions())
	got := (&Deps{Env: &opsenv.Env{PollInterval: time.Second, PollTimeout: time.Minute}}).PollOptions()
	assert.Equal(t, wait.Options{Interval: time.Second, Timeout: time.Minute}, got)
}

func TestMachineName(t *testing.T) {
	assert.Equal(t, "jupyter", (&Deps{}).MachineName())
	assert.Equal(t, "lab", (&Deps{Env: &opsenv.Env{MachineName: "lab"}}).MachineName())
}
