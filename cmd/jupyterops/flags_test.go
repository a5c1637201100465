package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaegashi/jupyterops/domain/model"
)

func TestNormalizeArgs(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{[]string{"-c", "-do"}, []string{"-c", "--digitalocean"}},
		{[]string{"-d", "-gcp", "--zone", "us-west1-b"}, []string{"-d", "--google", "--zone", "us-west1-b"}},
		{[]string{"--destroy", "-aws"}, []string{"--destroy", "--amazon"}},
		{[]string{"-c", "--", "-do"}, []string{"-c", "--", "-do"}},
		{nil, []string{}},
	}
	for _, tt := range tests {
		got := normalizeArgs(tt.in)
		if strings.Join(got, " ") != strings.Join(tt.want, " ") || len(got) != len(tt.want) {
			t.Fatalf("normalizeArgs(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSelectionFromFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		action   model.Action
		provider model.Provider
		wantErr  bool
	}{
		{"none", nil, "", "", false},
		{"create do", []string{"-c", "-do"}, model.ActionCreate, model.ProviderDigitalOcean, false},
		{"destroy aws long", []string{"--destroy", "--aws"}, model.ActionDestroy, model.ProviderAWS, false},
		{"create gcp alias", []string{"--create", "--gcp"}, model.ActionCreate, model.ProviderGoogleCloud, false},
		{"destroy amazon", []string{"-d", "--amazon"}, model.ActionDestroy, model.ProviderAWS, false},
		{"build ignored", []string{"-c", "--google", "--build"}, model.ActionCreate, model.ProviderGoogleCloud, false},
		{"action only", []string{"-c"}, "", "", true},
		{"provider only", []string{"-aws"}, "", "", true},
		{"both actions", []string{"-c", "-d", "-do"}, "", "", true},
		{"two providers", []string{"-c", "-do", "-gcp"}, "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newRootCmd()
			require.NoError(t, cmd.Flags().Parse(normalizeArgs(tt.args)))
			action, provider, err := selectionFromFlags(cmd.Flags())
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrInvalidFlags)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.action, action)
			assert.Equal(t, tt.provider, provider)
		})
	}
}

func TestParamsFromFlags(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"--size", "s-1vcpu-2gb", "--flavor", " scipy ", "--project", "my-project-123"}))
	p := paramsFromFlags(cmd.Flags())
	assert.Equal(t, "s-1vcpu-2gb", p.Size)
	assert.Equal(t, "scipy", p.Flavor)
	assert.Equal(t, "my-project-123", p.Project)
	assert.Nil(t, p.GPU)

	cmd = newRootCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"--gpu=false"}))
	p = paramsFromFlags(cmd.Flags())
	require.NotNil(t, p.GPU)
	assert.False(t, *p.GPU)
}

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("JUPYTEROPS_BASE_DIR", t.TempDir())
	t.Setenv("JUPYTEROPS_WORK_DIR", t.TempDir())
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(normalizeArgs(args))
	err := cmd.Execute()
	return out.String(), err
}

func TestRoot_InvalidFlagsFailBeforeWork(t *testing.T) {
	out, err := executeRoot(t, "-c", "-do", "-aws")
	assert.ErrorIs(t, err, model.ErrInvalidFlags)
	assert.NotContains(t, out, "Welcome")
}

func TestRoot_UnknownFlag(t *testing.T) {
	_, err := executeRoot(t, "--kubernetes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--kubernetes")
}

func TestRoot_Version(t *testing.T) {
	out, err := executeRoot(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "jupyterops version latest")
}

func TestRoot_Images(t *testing.T) {
	out, err := executeRoot(t, "images")
	require.NoError(t, err)
	assert.Contains(t, out, "docker.io/jupyter/scipy-notebook:latest")
	assert.Contains(t, out, "all-spark")
}

func TestRoot_Config(t *testing.T) {
	t.Setenv("JUPYTEROPS_MACHINE_NAME", "lab")
	t.Setenv("JUPYTEROPS_LOGIN_TOKEN", "hunter2")
	out, err := executeRoot(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "machine_name: lab")
	assert.Contains(t, out, "****")
	assert.NotContains(t, out, "hunter2")
}
