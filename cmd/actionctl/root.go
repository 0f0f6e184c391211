package main

import (
	"fmt"

	"github.com/GriffinCanCode/actionkit/internal/action"
	"github.com/GriffinCanCode/actionkit/internal/config"
	"github.com/GriffinCanCode/actionkit/internal/logging"
	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags; they override ACTIONKIT_* variables
type globalOptions struct {
	baseURL  string
	token    string
	logLevel string
	dev      bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "actionctl",
		Short: "Run API actions from the command line",
		Long: `actionctl runs a single action through the actionkit engine: path
placeholders, auth injection, error classification and timing included.

Configuration comes from ACTIONKIT_* environment variables; flags win.

Examples:
  actionctl call GET /users/{id} --where id=42
  actionctl call POST /posts --auth --where title=hello
  actionctl env`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.baseURL, "base-url", "", "API base URL")
	flags.StringVar(&opts.token, "token", "", "Auth token for actions that require it")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.BoolVar(&opts.dev, "dev", false, "Human readable debug logging")

	cmd.AddCommand(newCallCmd(opts), newEnvCmd(opts))
	return cmd
}

// environment loads the environment and applies flag overrides
func (o *globalOptions) environment() (*config.Env, error) {
	env, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.baseURL != "" {
		env.BaseURL = o.baseURL
	}
	if o.token != "" {
		env.Token = o.token
	}
	if o.logLevel != "" {
		env.LogLevel = o.logLevel
	}
	if o.dev {
		env.LogDev = true
	}
	return env, nil
}

func (o *globalOptions) engine() (*action.Engine, error) {
	env, err := o.environment()
	if err != nil {
		return nil, err
	}
	settings, err := env.Settings()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger, err := logging.New(env.LogConfig())
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return action.NewEngine(action.Options{Settings: settings, Logger: logger}), nil
}
