package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Pool sizing defaults for the MySQL backend.
const (
	// defaultPoolSize is the connection pool size when none is configured.
	defaultPoolSize = 10

	// maxPort is the highest valid TCP port number.
	maxPort = 65535
)

// Config is the root configuration structure for pydb.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	MySQL    MySQLConfig    `yaml:"mysql"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig contains SQLite store settings.
type DatabaseConfig struct {
	// Path is the filesystem path to the SQLite store file.
	// A ".db" extension is appended if missing.
	Path string `yaml:"path"`

	// SchemaDir is an optional directory of DDL scripts applied when the
	// store file is first created. Empty means deferred schema.
	SchemaDir string `yaml:"schema_dir"`

	// ForceRebuild deletes an existing store file and rebuilds it from the
	// schema directory.
	ForceRebuild bool `yaml:"force_rebuild"`

	// WALMode enables Write-Ahead Logging for better concurrent access.
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is the maximum time to wait for a database lock (seconds).
	BusyTimeout int `yaml:"busy_timeout"`
}

// MySQLConfig contains MySQL server and pool settings.
// Every field can be overridden by the matching MYSQL_* environment variable.
type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`

	// PoolSize is the number of pooled connections kept ready. The driver
	// may open overflow connections beyond this during bursts.
	PoolSize int `yaml:"pool_size"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is one of: silent, debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is "json" or "text".
	Format string `yaml:"format"`

	// Output is "stdout" or "stderr".
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// General settings use the PYDB_ prefix (PYDB_DATABASE_PATH, PYDB_LOG_LEVEL);
// MySQL credentials use the conventional MYSQL_* variables (MYSQL_HOST,
// MYSQL_PORT, MYSQL_USER, MYSQL_PASSWORD, MYSQL_DATABASE, MYSQL_POOL_SIZE).
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// FromEnv builds a configuration from defaults and environment variables
// alone, for callers that have no config file. The MySQL pool in particular
// is conventionally configured purely from the environment.
func FromEnv() (*Config, error) {
	cfg := defaultConfig()
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:        "./data/pydb.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MySQL: MySQLConfig{
			Host:     "localhost",
			Port:     3306,
			PoolSize: defaultPoolSize,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	// Database
	if v := os.Getenv("PYDB_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("PYDB_SCHEMA_DIR"); v != "" {
		cfg.Database.SchemaDir = v
	}

	// MySQL
	if v := os.Getenv("MYSQL_HOST"); v != "" {
		cfg.MySQL.Host = v
	}
	if v := os.Getenv("MYSQL_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.MySQL.Port = port
		}
	}
	if v := os.Getenv("MYSQL_USER"); v != "" {
		cfg.MySQL.User = v
	}
	if v := os.Getenv("MYSQL_PASSWORD"); v != "" {
		cfg.MySQL.Password = v
	}
	if v := os.Getenv("MYSQL_DATABASE"); v != "" {
		cfg.MySQL.Database = v
	}
	if v := os.Getenv("MYSQL_POOL_SIZE"); v != "" {
		if size, err := strconv.Atoi(v); err == nil {
			cfg.MySQL.PoolSize = size
		}
	}

	// Logging
	if v := os.Getenv("PYDB_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}
	if c.Database.BusyTimeout < 0 {
		errs = append(errs, "database.busy_timeout must not be negative")
	}

	if c.MySQL.Port < 1 || c.MySQL.Port > maxPort {
		errs = append(errs, fmt.Sprintf("mysql.port must be between 1 and %d", maxPort))
	}
	if c.MySQL.PoolSize < 1 {
		errs = append(errs, "mysql.pool_size must be at least 1")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "silent", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Sprintf("logging.level %q is not recognised", c.Logging.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
