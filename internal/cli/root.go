// Package cli provides the command-line interface for modelproxy.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/modelproxy/internal/cli/commands"
	"github.com/leapstack-labs/modelproxy/internal/cli/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "modelproxy",
		Short: "modelproxy - delegate model operations across type boundaries",
		Long: `modelproxy exposes constrained public data models that forward selected
operations to internal models. Models and their proxy configuration are
declared in YAML; at boot, internal model names are resolved and forwarding
operations are installed on the public models.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			var err error
			cfg, err = config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			logger := config.NewLogger(cfg.LogLevel)
			cmd.SetContext(config.WithLogger(cmd.Context(), logger))
			commands.SetConfig(cfg)

			if cfg.Verbose {
				if configFile := config.GetConfigFileUsed(); configFile != "" {
					fmt.Fprintf(os.Stderr, "Using config file: %s\n", configFile)
				}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "Path to config file (default modelproxy.yaml)")
	flags.String("models-dir", "", "Directory holding model definition files")
	flags.String("datasource-type", "", "Datasource connector type (memory, sqlite, postgres)")
	flags.String("datasource-path", "", "Database file path for file-based datasources")
	flags.String("datasource-dsn", "", "Connection string for network datasources")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.Bool("verbose", false, "Verbose output")

	rootCmd.AddCommand(
		commands.NewBootCommand(),
		commands.NewModelsCommand(),
		commands.NewCallCommand(),
		commands.NewDoctorCommand(),
		commands.NewValidateCommand(),
	)

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
