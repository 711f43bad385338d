// Package cli implements the laborguard admin command line: database
// migrations and legal officer registry management.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/laborguard/complaint-service/internal/config"
	"github.com/laborguard/complaint-service/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// rootOptions holds persistent flags shared by all subcommands.
type rootOptions struct {
	configPath string
}

// NewRootCommand builds the laborguard root command with all subcommands
// attached.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "laborguard",
		Short:         "Admin tooling for the worker complaint service",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"path to config file (default: LABORGUARD_* environment variables)")

	root.AddCommand(newMigrateCommand(opts))
	root.AddCommand(newOfficersCommand(opts))
	return root
}

// loadConfig resolves configuration from the --config file when given,
// otherwise from environment variables.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	if o.configPath != "" {
		return config.Load(o.configPath)
	}
	return config.LoadFromEnv()
}

// newLogger builds a logger from the loaded configuration.
func newLogger(cfg *config.Config) (logging.Logger, error) {
	return logging.NewLogger(logging.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
	})
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
