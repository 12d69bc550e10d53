package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/biztositok/biztositok-go/api"
)

var version = "0.1.0"

// globalOptions are the persistent flags that are not configuration keys.
type globalOptions struct {
	configFile string
	envFile    string
	noColor    bool
	verbose    bool
}

// NewRootCmd builds the command tree. Every call returns an independent tree.
func NewRootCmd() *cobra.Command {
	g := &globalOptions{}

	root := &cobra.Command{
		Use:     "biztositok",
		Short:   "Command line client for the run API",
		Version: version,
		Long: `biztositok calls functions exposed under the api/run/ route of an API
endpoint, sending form encoded parameters with the configured credentials,
and prints the decoded JSON response.

Settings come from flags, BIZTOSITOK_* environment variables, a .env file
and an optional YAML or JSON config file, in that order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&g.configFile, "config", "", "Config file (YAML or JSON)")
	flags.StringVar(&g.envFile, "env-file", ".env", "Dotenv file loaded into the environment if present")
	flags.String("endpoint", "", "API endpoint, e.g. https://api.example.com")
	flags.String("username", "", "API username")
	flags.String("password", "", "API password")
	flags.Duration("connect-timeout", api.DefaultConnectTimeout, "Connection timeout")
	flags.DurationP("timeout", "t", api.DefaultTimeout, "Overall call timeout")
	flags.String("user-agent", api.DefaultUserAgent, "User-Agent header")
	flags.Bool("follow-redirects", true, "Follow redirects")
	flags.Int("max-redirects", api.DefaultMaxRedirects, "Maximum number of redirects to follow")
	flags.String("transport", "http", "Transport engine: http or resty")
	flags.StringP("output", "o", "text", "Output format: text, json or yaml")
	flags.String("log-level", "warn", "Log level: debug, info, warn or error")
	flags.String("log-format", "console", "Log format: console or json")
	flags.BoolVar(&g.noColor, "no-color", false, "Disable colored output")
	flags.BoolVarP(&g.verbose, "verbose", "v", false, "Enable verbose output")

	root.AddCommand(newRunCmd(g))
	root.AddCommand(newBenchCmd(g))
	root.AddCommand(newConfigCmd(g))

	return root
}

// Execute runs the command line with args. Cancelling ctx aborts in-flight
// calls.
func Execute(ctx context.Context, args []string) error {
	root := NewRootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// callContext returns the command context, or Background when the command
// was executed without one.
func callContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

