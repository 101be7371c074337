// Package config defines all configuration for the task manager daemon.
// Config is loaded from a YAML file (default: configs/config.yaml) with
// every key overridable via TASKDESK_* environment variables. The config
// file is optional — defaults plus env are enough to run.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the top-level configuration. Maps directly to the YAML file
// structure.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Watcher WatcherConfig `mapstructure:"watcher"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig controls the HTTP listener.
//
//   - Port: TCP port to listen on.
//   - AllowedOrigins: extra CORS origins beyond localhost/same-host.
type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// StorageConfig sets where JSON documents and backups live.
type StorageConfig struct {
	DataDir   string `mapstructure:"data_dir"`
	BackupDir string `mapstructure:"backup_dir"`
}

// WatcherConfig controls the data-directory change watcher that notifies
// connected UIs about external file edits.
type WatcherConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Debounce time.Duration `mapstructure:"debounce"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads config from a YAML file with env var overrides. A missing file
// is not an error; defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("TASKDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("storage.data_dir", "./data")
	v.SetDefault("storage.backup_dir", "./data/backups")
	v.SetDefault("watcher.enabled", true)
	v.SetDefault("watcher.debounce", 250*time.Millisecond)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Common deployment knobs get dedicated env vars on top of the
	// automatic TASKDESK_<section>_<key> mapping.
	if dir := os.Getenv("TASKDESK_DATA_DIR"); dir != "" {
		cfg.Storage.DataDir = dir
	}
	if dir := os.Getenv("TASKDESK_BACKUP_DIR"); dir != "" {
		cfg.Storage.BackupDir = dir
	}
	if port := os.Getenv("TASKDESK_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid TASKDESK_PORT %q", port)
		}
		cfg.Server.Port = p
	}

	return &cfg, nil
}

// Validate checks all required fields and value ranges.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Storage.DataDir == "" {
		return fmt.Errorf("storage.data_dir is required")
	}
	if c.Storage.BackupDir == "" {
		return fmt.Errorf("storage.backup_dir is required")
	}
	if c.Watcher.Debounce < 0 {
		return fmt.Errorf("watcher.debounce must be >= 0")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be one of: text, json")
	}
	return nil
}
