package config

// Default configuration values applied before file, env, and flag layers.
const (
	DefaultModelsDir      = "models"
	DefaultDatasourceType = "memory"
	DefaultLogLevel       = "info"
)

// ApplyDefaults fills unset fields with defaults.
func (c *Config) ApplyDefaults() {
	if c.ModelsDir == "" {
		c.ModelsDir = DefaultModelsDir
	}
	if c.Datasource.Type == "" {
		c.Datasource.Type = DefaultDatasourceType
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// DefaultMap returns the defaults as a koanf confmap layer.
func DefaultMap() map[string]any {
	return map[string]any{
		"models_dir":      DefaultModelsDir,
		"datasource.type": DefaultDatasourceType,
		"log_level":       DefaultLogLevel,
	}
}
