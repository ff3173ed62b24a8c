// Package config provides configuration management for setvar using Viper.
package config

import (
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/TuMee-Dev/setvar/internal/backup"
	"github.com/TuMee-Dev/setvar/internal/shell"
)

// AppName is the application name used for config file naming.
const AppName = "setvar"

// Config represents the top-level configuration structure.
type Config struct {
	Version int `mapstructure:"version" yaml:"version"`

	// DefaultShells are the dialects operated on when --shell is not given.
	// Empty means "the detected login shell".
	DefaultShells []string `mapstructure:"default_shells" yaml:"default_shells"`

	Backup BackupConfig `mapstructure:"backup" yaml:"backup"`
}

// BackupConfig controls automatic pre-change backups.
type BackupConfig struct {
	// Enabled turns automatic backups before modifying operations on or off.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Dir is the root backup directory.
	Dir string `mapstructure:"dir" yaml:"dir"`

	// Retention is how many backup archives prune keeps.
	Retention int `mapstructure:"retention" yaml:"retention"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(filepath.Join(xdg.ConfigHome, AppName))

	// Environment variable support: SETVAR_BACKUP_RETENTION, etc.
	viper.SetEnvPrefix("SETVAR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("version", 1)
	viper.SetDefault("default_shells", []string{})
	viper.SetDefault("backup.enabled", true)
	viper.SetDefault("backup.dir", backup.DefaultDir())
	viper.SetDefault("backup.retention", backup.DefaultRetention)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations and falls back to
// defaults when no file exists.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if path != "" {
				return nil, errors.Wrapf(err, "config file not found at %s", path)
			}
		} else {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	return &cfg, nil
}

// Shells resolves the configured default dialects. An empty configuration
// falls back to the login shell from $SHELL.
func (c *Config) Shells() ([]shell.Dialect, error) {
	if len(c.DefaultShells) == 0 {
		d, err := shell.Detect()
		if err != nil {
			return nil, err
		}
		return []shell.Dialect{d}, nil
	}

	dialects := make([]shell.Dialect, 0, len(c.DefaultShells))
	for _, name := range c.DefaultShells {
		d, err := shell.ParseDialect(name)
		if err != nil {
			return nil, err
		}
		dialects = append(dialects, d)
	}
	return dialects, nil
}
