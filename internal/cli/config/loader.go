// Package config loads CLI configuration by layering koanf providers:
// defaults, modelproxy.yaml, MODELPROXY_* environment variables, and
// command-line flags, in increasing priority.
package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	koanfyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	intconfig "github.com/leapstack-labs/modelproxy/internal/config"
)

// ConfigFileName is the default config file name.
const ConfigFileName = "modelproxy.yaml"

// ConfigFileNameAlt is the alternate config file name.
const ConfigFileNameAlt = "modelproxy.yml"

// envPrefix namespaces environment overrides, e.g. MODELPROXY_MODELS_DIR or
// MODELPROXY_DATASOURCE__TYPE (double underscore nests).
const envPrefix = "MODELPROXY_"

// Config is the CLI-level configuration.
type Config = intconfig.Config

var configFileUsed string

// findConfigFile finds the config file to use.
// Priority: explicit path > modelproxy.yaml > modelproxy.yml.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(ConfigFileName); err == nil {
		return ConfigFileName
	}
	if _, err := os.Stat(ConfigFileNameAlt); err == nil {
		return ConfigFileNameAlt
	}
	return ""
}

// Load builds the configuration from all layers. flags may be nil.
func Load(explicitFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults.
	if err := k.Load(confmap.Provider(intconfig.DefaultMap(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file, if present.
	configFileUsed = ""
	if path := findConfigFile(explicitFile); path != "" {
		if err := k.Load(file.Provider(path), koanfyaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		configFileUsed = path
	} else if explicitFile != "" {
		return nil, fmt.Errorf("config file not found: %s", explicitFile)
	}

	// Layer 3: environment. MODELPROXY_DATASOURCE__TYPE -> datasource.type.
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	// Layer 4: command-line flags. Only flags the user actually set
	// override lower layers.
	if flags != nil {
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return flagKey(f.Name), posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// flagKey maps a flag name to its config key.
func flagKey(name string) string {
	switch name {
	case "datasource-type":
		return "datasource.type"
	case "datasource-path":
		return "datasource.path"
	case "datasource-dsn":
		return "datasource.dsn"
	default:
		return strings.ReplaceAll(name, "-", "_")
	}
}

// GetConfigFileUsed returns the config file path the last Load consumed,
// or "" when no file was found.
func GetConfigFileUsed() string {
	return configFileUsed
}

// loggerKey stores the logger in the command context.
type loggerKey struct{}

// WithLogger returns a context carrying the logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger returns the logger from the context, or a discard logger.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.New(slog.DiscardHandler)
}

// NewLogger builds a stderr text logger at the configured level.
func NewLogger(level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}
