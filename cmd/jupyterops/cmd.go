package main

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yaegashi/jupyterops/config/opsenv"
	"github.com/yaegashi/jupyterops/domain/model"
	"github.com/yaegashi/jupyterops/internal/logging"
	"github.com/yaegashi/jupyterops/internal/terminal"
	"github.com/yaegashi/jupyterops/usecase/deployment"
)

const telemetryFlushTimeout = 3 * time.Second

// cliState carries what PersistentPreRunE resolved to the commands.
type cliState struct {
	viper *viper.Viper
	env   *opsenv.Env
	sink  *logging.Sink
}

func newRootCmd() *cobra.Command {
	st := &cliState{}
	cmd := &cobra.Command{
		Use:   "jupyterops",
		Short: "Create or destroy a JupyterLab server in the cloud",
		Long: `Create or destroy a single-node JupyterLab server on DigitalOcean (docker-machine),
Google Cloud (gcloud Deep Learning VM) or Amazon Web Services (ECS Fargate via ecs-cli).

Without flags the action and provider are asked for interactively.`,
		Example: `  jupyterops
  jupyterops --create --digitalocean --flavor scipy --size s-2vcpu-4gb
  jupyterops -d -aws --region us-west-2`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeployment(cmd, st)
		},
	}

	pf := cmd.PersistentFlags()
	pf.String("config", "", "Path to config.yml (default <base_dir>/config.yml)")
	pf.String("log-format", "", "Log format (human|text|json) (env JUPYTEROPS_LOG_FORMAT)")
	pf.String("log-level", "", "Log level (DEBUG|INFO|WARN|ERROR) (env JUPYTEROPS_LOG_LEVEL)")
	pf.String("log-file", "", "Also write logs to this file; \"auto\" picks a name under <base_dir>/logs (env JUPYTEROPS_LOG_FILE)")

	addDeploymentFlags(cmd)

	cmd.PersistentPreRunE = func(c *cobra.Command, _ []string) error {
		return st.setup(c)
	}
	cmd.PersistentPostRun = func(*cobra.Command, []string) {
		st.close()
	}

	cmd.AddCommand(newCmdVersion())
	cmd.AddCommand(newCmdConfig(st))
	cmd.AddCommand(newCmdImages())
	return cmd
}

// setup resolves the configuration and installs the run logger.
func (st *cliState) setup(c *cobra.Command) error {
	v := opsenv.NewViper()
	flags := c.Flags()
	for key, name := range map[string]string{
		opsenv.KeyLogFormat: "log-format",
		opsenv.KeyLogLevel:  "log-level",
		opsenv.KeyLogFile:   "log-file",
	} {
		if f := flags.Lookup(name); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	configFile, _ := flags.GetString("config")
	env, err := opsenv.Load(v, configFile)
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(env.Logging.Level)
	if err != nil {
		return err
	}
	sink, err := logging.OpenSink(logging.SinkConfig{
		Path:          env.Logging.File,
		Dir:           env.LogDir(),
		RetentionDays: env.Logging.RetentionDays,
	})
	if err != nil {
		return err
	}
	l, err := logging.NewWithWriter(env.Logging.Format, level, sink.Writer())
	if err != nil {
		_ = sink.Close()
		return err
	}
	l = l.With("runId", uuid.NewString())
	if sink.Path != "" {
		l.Debug(c.Context(), "logging to file", "path", sink.Path)
	}
	c.SetContext(logging.WithLogger(c.Context(), l))

	st.viper, st.env, st.sink = v, env, sink
	return nil
}

func (st *cliState) close() {
	if st.sink != nil {
		_ = st.sink.Close()
	}
}

// runDeployment resolves the action, provider and parameters, then runs the
// provider workflow and reports the result.
func runDeployment(cmd *cobra.Command, st *cliState) (err error) {
	action, provider, err := selectionFromFlags(cmd.Flags())
	if err != nil {
		return err
	}
	params := paramsFromFlags(cmd.Flags())

	ctx := cmd.Context()
	console := &terminal.Console{Out: cmd.OutOrStdout(), Interactive: terminal.IsInteractive()}
	prompter := terminal.NewFormPrompter()
	console.Logo()
	console.Greet()

	if action == "" {
		if action, provider, err = promptSelection(ctx, prompter); err != nil {
			return err
		}
	}

	uc, err := buildDeploymentUseCase(ctx, st, console, prompter)
	if err != nil {
		return err
	}

	ctx, cleanup := withCmdRunLogger(ctx, strings.ToLower(string(action)), provider.Short())
	defer func() { cleanup(err) }()

	out, err := uc.Run(ctx, deployment.RunInput{Action: action, Provider: provider, Params: params})

	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), telemetryFlushTimeout)
	uc.Tracker.Flush(flushCtx)
	cancel()

	if err != nil {
		return err
	}
	reportResult(console, action, provider, out)
	return nil
}

func reportResult(d terminal.Display, action model.Action, provider model.Provider, out *deployment.RunOutput) {
	if action == model.ActionCreate && out.Endpoint != nil {
		d.Success("Successfully set up JupyterLab on " + string(provider) + "!")
		d.Link("You can access your JupyterLab instance here:", out.Endpoint.URL())
		return
	}
	d.Success("JupyterLab deployment on " + string(provider) + " torn down.")
}
