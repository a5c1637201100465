package opsenv

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	base := t.TempDir()
	t.Setenv("JUPYTEROPS_BASE_DIR", base)

	env, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, base, env.BaseDir)
	assert.Equal(t, filepath.Join(base, "aws"), env.AWSDir)
	wd, _ := os.Getwd()
	assert.Equal(t, wd, env.WorkDir)
	assert.Equal(t, "jupyter", env.MachineName)
	assert.Equal(t, 5*time.Second, env.PollInterval)
	assert.Equal(t, 15*time.Minute, env.PollTimeout)
	assert.Equal(t, "human", env.Logging.Format)
	assert.Equal(t, 7, env.Logging.RetentionDays)
	assert.Empty(t, env.ConfigFile)
	assert.Equal(t, filepath.Join(base, "logs"), env.LogDir())
}

func TestLoad_ConfigFileInBaseDir(t *testing.T) {
	base := t.TempDir()
	t.Setenv("JUPYTEROPS_BASE_DIR", base)
	require.NoError(t, os.WriteFile(filepath.Join(base, ConfigFileName), []byte(`
machine_name: lab
poll_interval: 2s
poll_timeout: 1m
telemetry_endpoint: https://telemetry.example.com/events
log_format: json
`), 0o644))

	env, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, "lab", env.MachineName)
	assert.Equal(t, 2*time.Second, env.PollInterval)
	assert.Equal(t, time.Minute, env.PollTimeout)
	assert.Equal(t, "https://telemetry.example.com/events", env.TelemetryEndpoint)
	assert.Equal(t, "json", env.Logging.Format)
	assert.Equal(t, filepath.Join(base, ConfigFileName), env.ConfigFile)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	base := t.TempDir()
	t.Setenv("JUPYTEROPS_BASE_DIR", base)
	t.Setenv("JUPYTEROPS_MACHINE_NAME", "from-env")
	t.Setenv("JUPYTEROPS_LOGIN_TOKEN", "s3cret")
	require.NoError(t, os.WriteFile(filepath.Join(base, ConfigFileName), []byte("machine_name: from-file\n"), 0o644))

	env, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, "from-env", env.MachineName)
	assert.Equal(t, "s3cret", env.LoginToken)

	out, err := env.YAML()
	require.NoError(t, err)
	assert.Contains(t, string(out), "****")
	assert.NotContains(t, string(out), "s3cret")
}

func TestLoad_ExplicitConfigMissing(t *testing.T) {
	t.Setenv("JUPYTEROPS_BASE_DIR", t.TempDir())
	_, err := Load(nil, filepath.Join(t.TempDir(), "nope.yml"))
	assert.ErrorContains(t, err, "error reading config file")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"machine name", map[string]string{"JUPYTEROPS_MACHINE_NAME": "Bad_Name"}, "machine_name"},
		{"log format", map[string]string{"JUPYTEROPS_LOG_FORMAT": "xml"}, "log_format"},
		{"poll timeout", map[string]string{"JUPYTEROPS_POLL_INTERVAL": "10s", "JUPYTEROPS_POLL_TIMEOUT": "1s"}, "poll_timeout"},
		{"login token", map[string]string{"JUPYTEROPS_LOGIN_TOKEN": "has space"}, "login_token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JUPYTEROPS_BASE_DIR", t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(nil, "")
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
