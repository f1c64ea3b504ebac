// Package commands implements the modelproxy CLI subcommands.
package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	cliconfig "github.com/leapstack-labs/modelproxy/internal/cli/config"
	intconfig "github.com/leapstack-labs/modelproxy/internal/config"
	"github.com/leapstack-labs/modelproxy/internal/engine"
)

var currentConfig *intconfig.Config

// SetConfig stores the loaded configuration for commands to use.
// Called by the root command after config loading.
func SetConfig(cfg *intconfig.Config) {
	currentConfig = cfg
}

func getConfig() *intconfig.Config {
	if currentConfig == nil {
		cfg := &intconfig.Config{}
		cfg.ApplyDefaults()
		return cfg
	}
	return currentConfig
}

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *intconfig.Config
	Logger *slog.Logger
	Engine *engine.Engine
}

// NewCommandContext creates a CommandContext with a constructed (not yet
// booted) engine. Returns the context and a cleanup function that must be
// called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := getConfig()
	logger := cliconfig.GetLogger(cmd.Context())

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	eng, err := engine.New(engine.Config{
		ModelsDir:  cfg.ModelsDir,
		Datasource: cfg.Datasource.ToConnectorConfig(),
		Logger:     logger,
	})
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		_ = eng.Close()
	}

	return &CommandContext{Cfg: cfg, Logger: logger, Engine: eng}, cleanup, nil
}
