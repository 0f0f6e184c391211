package main

import (
	"fmt"
	"io"

	"github.com/GriffinCanCode/actionkit/internal/config"
	"github.com/spf13/cobra"
)

func newEnvCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Print the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := g.environment()
			if err != nil {
				return err
			}
			printEnv(cmd.OutOrStdout(), env)
			if _, err := env.Settings(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return nil
		},
	}
}

func printEnv(w io.Writer, env *config.Env) {
	rows := []struct {
		name  string
		value any
	}{
		{"BASE_URL", env.BaseURL},
		{"TOKEN", redact(env.Token)},
		{"TOKEN_TYPE", env.TokenType},
		{"CONNECT_TIMEOUT", env.ConnectTimeout},
		{"REQUEST_TIMEOUT", env.RequestTimeout},
		{"LIST_FORMAT", env.ListFormat},
		{"RATE_LIMIT_RPS", env.RateLimitRPS},
		{"RATE_LIMIT_BURST", env.RateLimitBurst},
		{"USER_AGENT", env.UserAgent},
		{"COOKIES", env.Cookies},
		{"LOG_LEVEL", env.LogLevel},
		{"LOG_DEV", env.LogDev},
	}
	for _, r := range rows {
		headerKeyColor.Fprintf(w, "%s_%-16s", config.EnvPrefix, r.name)
		fmt.Fprintf(w, " %v\n", r.value)
	}
}

// redact hides all but the last four characters of a secret
func redact(secret string) string {
	switch {
	case secret == "":
		return ""
	case len(secret) <= 4:
		return "****"
	default:
		return "****" + secret[len(secret)-4:]
	}
}
