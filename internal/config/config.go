package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Logger     LoggerConfig     `mapstructure:"logger"`
	Processing ProcessingConfig `mapstructure:"processing"`
	Extraction ExtractionConfig `mapstructure:"extraction"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Notify     NotifyConfig     `mapstructure:"notify"`
	Watch      WatchConfig      `mapstructure:"watch"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// ProcessingConfig holds batch processing configuration
type ProcessingConfig struct {
	// PacingDelay is the pause between items during a batch. Zero
	// disables pacing.
	PacingDelay time.Duration `mapstructure:"pacing_delay"`
}

// ExtractionConfig selects and configures the metadata extractor
type ExtractionConfig struct {
	// Provider is "stub" or "openai".
	Provider string `mapstructure:"provider"`
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
}

// DatabaseConfig holds the audit journal database configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// NotifyConfig holds notification configuration
type NotifyConfig struct {
	// TTL is how long a notification stays visible before it dismisses
	// itself.
	TTL time.Duration `mapstructure:"ttl"`
}

// WatchConfig holds folder watch configuration
type WatchConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load loads configuration from file and environment variables. A
// missing config file is not an error; defaults and environment
// variables still apply.
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("server.host", "127.0.0.1")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "console")

	viper.SetDefault("processing.pacing_delay", 100*time.Millisecond)

	viper.SetDefault("extraction.provider", "stub")
	viper.SetDefault("extraction.model", "gpt-4o-mini")

	viper.SetDefault("database.path", "data/scrubber.db")

	viper.SetDefault("notify.ttl", 5*time.Second)

	viper.SetDefault("watch.enabled", true)
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	viper.BindEnv("extraction.api_key", "OPENAI_API_KEY")
	viper.BindEnv("extraction.provider", "EXTRACTION_PROVIDER")
	viper.BindEnv("database.path", "SCRUBBER_DB_PATH")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535")
	}

	switch c.Extraction.Provider {
	case "stub":
	case "openai":
		if c.Extraction.APIKey == "" {
			return fmt.Errorf("extraction.api_key is required for the openai provider")
		}
		if c.Extraction.Model == "" {
			return fmt.Errorf("extraction.model is required for the openai provider")
		}
	default:
		return fmt.Errorf("unknown extraction.provider: %s", c.Extraction.Provider)
	}

	if c.Processing.PacingDelay < 0 {
		return fmt.Errorf("processing.pacing_delay must not be negative")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	return nil
}
