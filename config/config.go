// Package config loads tether adapter settings from file, environment and
// defaults.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Settings holds the adapter connection settings consumed by the
// bootstrapper.
type Settings struct {
	// Backend is the backend identifier a gateway dialect is registered
	// under, e.g. "sqlite" or "clickhouse".
	Backend string `mapstructure:"backend" validate:"required"`

	// URL is the connection URL for the backend. Blank URLs are rejected
	// by the bootstrapper on every access, so no validation happens here.
	URL string `mapstructure:"url"`

	// Root is the application root directory; relative default paths
	// derive from it.
	Root string `mapstructure:"root"`

	// Migrations is the directory holding versioned migration scripts
	// (TETHER_MIGRATIONS, default: ${Root}).
	Migrations string `mapstructure:"migrations"`

	// Schema is the schema dump path (TETHER_SCHEMA, default: ${Root}).
	Schema string `mapstructure:"schema"`

	// AutoRegister is an optional directory of YAML relation definitions
	// registered automatically during bootstrap.
	AutoRegister string `mapstructure:"auto_register"`

	Logging struct {
		// Level is the zap log level for the configuration logger.
		Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	} `mapstructure:"logging"`
}

// setDefaults sets default configuration values.
func setDefaults() {
	viper.SetDefault("backend", "sqlite")
	viper.SetDefault("url", "")
	viper.SetDefault("root", ".")
	viper.SetDefault("migrations", "") // Empty = derive from root
	viper.SetDefault("schema", "")     // Empty = derive from root
	viper.SetDefault("auto_register", "")
	viper.SetDefault("logging.level", "info")
}

// loadFromEnv sets up environment variable loading.
func loadFromEnv() {
	viper.SetEnvPrefix("TETHER")
	viper.AutomaticEnv()

	_ = viper.BindEnv("backend", "TETHER_BACKEND")
	_ = viper.BindEnv("url", "TETHER_URL")
	_ = viper.BindEnv("root", "TETHER_ROOT")
	_ = viper.BindEnv("migrations", "TETHER_MIGRATIONS")
	_ = viper.BindEnv("schema", "TETHER_SCHEMA")
	_ = viper.BindEnv("auto_register", "TETHER_AUTO_REGISTER")
	_ = viper.BindEnv("logging.level", "TETHER_LOG_LEVEL")
}

func validateSettings(s *Settings) error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("settings validation failed: %w", err)
	}
	return nil
}

// Load reads settings from tether.yaml (working directory or ./config),
// environment variables and defaults, in the usual precedence order.
func Load() (*Settings, error) {
	viper.SetConfigName("tether")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()
	loadFromEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found, will use defaults and env vars
	}

	var settings Settings
	if err := viper.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("unable to decode settings: %w", err)
	}

	if err := validateSettings(&settings); err != nil {
		return nil, err
	}

	settings.ResolvePaths()
	return &settings, nil
}

// ResolvePaths resolves the migrations and schema paths, deriving from
// Root when not explicitly set.
func (s *Settings) ResolvePaths() {
	if s.Root == "" {
		s.Root = "."
	}
	if s.Migrations == "" {
		s.Migrations = s.Root
	} else if !filepath.IsAbs(s.Migrations) {
		s.Migrations = filepath.Clean(s.Migrations)
	}
	if s.Schema == "" {
		s.Schema = s.Root
	} else if !filepath.IsAbs(s.Schema) {
		s.Schema = filepath.Clean(s.Schema)
	}
}
