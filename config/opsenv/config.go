// Package opsenv resolves jupyterops settings from defaults, JUPYTEROPS_*
// environment variables, an optional config.yml and bound command-line flags.
package opsenv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/yaegashi/jupyterops/internal/naming"
)

// Environment variable prefix and file names
const (
	EnvPrefix      = "JUPYTEROPS"
	ConfigName     = "config"
	ConfigFileName = "config.yml"
	DirName        = "jupyterops"
)

// Setting keys. Each one is also read from JUPYTEROPS_<KEY>.
const (
	KeyBaseDir           = "base_dir"
	KeyAWSDir            = "aws_dir"
	KeyWorkDir           = "work_dir"
	KeyMachineName       = "machine_name"
	KeyTelemetryEndpoint = "telemetry_endpoint"
	KeyPollInterval      = "poll_interval"
	KeyPollTimeout       = "poll_timeout"
	KeyLogFormat         = "log_format"
	KeyLogLevel          = "log_level"
	KeyLogFile           = "log_file"
	KeyLogRetentionDays  = "log_retention_days"
	KeyLoginToken        = "login_token"
)

// Env is the resolved configuration for one run.
type Env struct {
	BaseDir           string        `yaml:"base_dir"`           // credential cache and generated descriptors
	AWSDir            string        `yaml:"aws_dir"`            // AWS CLI credentials/config written for the run
	WorkDir           string        `yaml:"work_dir"`           // where ecs-cli compose runs
	MachineName       string        `yaml:"machine_name"`       // droplet / instance name
	TelemetryEndpoint string        `yaml:"telemetry_endpoint"` // empty disables telemetry
	PollInterval      time.Duration `yaml:"poll_interval"`
	PollTimeout       time.Duration `yaml:"poll_timeout"`
	LoginToken        string        `yaml:"login_token,omitempty"`
	Logging           Logging       `yaml:"logging"`
	ConfigFile        string        `yaml:"config_file,omitempty"` // file actually read, if any
}

// Logging holds log output settings.
type Logging struct {
	Format        string `yaml:"format"` // human (default), text, json
	Level         string `yaml:"level"`  // DEBUG, INFO (default), WARN, ERROR
	File          string `yaml:"file,omitempty"`
	RetentionDays int    `yaml:"retention_days"`
}

// DefaultBaseDir returns the per-user config directory for jupyterops.
func DefaultBaseDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, DirName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", DirName)
	}
	return filepath.Join(os.TempDir(), DirName)
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyBaseDir, DefaultBaseDir())
	v.SetDefault(KeyAWSDir, "")
	v.SetDefault(KeyWorkDir, "")
	v.SetDefault(KeyMachineName, "jupyter")
	v.SetDefault(KeyTelemetryEndpoint, "")
	v.SetDefault(KeyPollInterval, 5*time.Second)
	v.SetDefault(KeyPollTimeout, 15*time.Minute)
	v.SetDefault(KeyLogFormat, "human")
	v.SetDefault(KeyLogLevel, "INFO")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyLogRetentionDays, 7)
	v.SetDefault(KeyLoginToken, "")
}

// NewViper returns a viper instance with defaults and environment binding.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file (configFile, or config.yml in the base
// directory when empty) into v and resolves the Env. A missing default
// config file is fine; a missing explicit one is an error.
func Load(v *viper.Viper, configFile string) (*Env, error) {
	if v == nil {
		v = NewViper()
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(v.GetString(KeyBaseDir))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	env := &Env{
		BaseDir:           v.GetString(KeyBaseDir),
		AWSDir:            v.GetString(KeyAWSDir),
		WorkDir:           v.GetString(KeyWorkDir),
		MachineName:       v.GetString(KeyMachineName),
		TelemetryEndpoint: v.GetString(KeyTelemetryEndpoint),
		PollInterval:      v.GetDuration(KeyPollInterval),
		PollTimeout:       v.GetDuration(KeyPollTimeout),
		LoginToken:        v.GetString(KeyLoginToken),
		Logging: Logging{
			Format:        v.GetString(KeyLogFormat),
			Level:         v.GetString(KeyLogLevel),
			File:          v.GetString(KeyLogFile),
			RetentionDays: v.GetInt(KeyLogRetentionDays),
		},
		ConfigFile: v.ConfigFileUsed(),
	}
	if err := env.resolve(); err != nil {
		return nil, err
	}
	if err := env.Validate(); err != nil {
		return nil, err
	}
	return env, nil
}

func (e *Env) resolve() error {
	var err error
	if e.BaseDir == "" {
		e.BaseDir = DefaultBaseDir()
	}
	if e.BaseDir, err = filepath.Abs(e.BaseDir); err != nil {
		return fmt.Errorf("resolving base_dir: %w", err)
	}
	if e.AWSDir == "" {
		e.AWSDir = filepath.Join(e.BaseDir, "aws")
	}
	if e.AWSDir, err = filepath.Abs(e.AWSDir); err != nil {
		return fmt.Errorf("resolving aws_dir: %w", err)
	}
	if e.WorkDir == "" {
		if e.WorkDir, err = os.Getwd(); err != nil {
			return fmt.Errorf("resolving work_dir: %w", err)
		}
	}
	if e.WorkDir, err = filepath.Abs(e.WorkDir); err != nil {
		return fmt.Errorf("resolving work_dir: %w", err)
	}
	return nil
}

// Validate checks value ranges.
func (e *Env) Validate() error {
	if err := naming.ValidateMachineName(e.MachineName); err != nil {
		return fmt.Errorf("%s: %w", KeyMachineName, err)
	}
	if e.PollInterval <= 0 {
		return fmt.Errorf("%s must be positive", KeyPollInterval)
	}
	if e.PollTimeout < e.PollInterval {
		return fmt.Errorf("%s must not be shorter than %s", KeyPollTimeout, KeyPollInterval)
	}
	switch e.Logging.Format {
	case "human", "text", "json":
	default:
		return fmt.Errorf("%s: unsupported value %q", KeyLogFormat, e.Logging.Format)
	}
	if e.Logging.RetentionDays < 0 {
		return fmt.Errorf("%s must not be negative", KeyLogRetentionDays)
	}
	if e.LoginToken != "" {
		if err := naming.ValidateLoginToken(e.LoginToken); err != nil {
			return fmt.Errorf("%s: %w", KeyLoginToken, err)
		}
	}
	return nil
}

// YAML renders the effective settings with secrets masked.
func (e *Env) YAML() ([]byte, error) {
	c := *e
	if c.LoginToken != "" {
		c.LoginToken = "****"
	}
	return yaml.Marshal(&c)
}

// LogDir is where generated log files go.
func (e *Env) LogDir() string {
	return filepath.Join(e.BaseDir, "logs")
}
