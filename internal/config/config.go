// Package config resolves runtime settings from defaults, TOML files,
// environment variables and command-line overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	todoerrors "github.com/abatilo/todos/internal/errors"
	"github.com/abatilo/todos/internal/logging"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Defaults.
const (
	DefaultBackend   = BackendFile
	DefaultDataDir   = "~/.todos"
	DefaultKey       = "todos"
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// Config holds the resolved settings.
type Config struct {
	Backend   string `toml:"backend"`
	DataDir   string `toml:"data_dir"`
	Key       string `toml:"key"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// Overrides carries values set explicitly on the command line. Empty
// fields leave the loaded value alone.
type Overrides struct {
	Backend  string
	DataDir  string
	LogLevel string
}

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file ($XDG_CONFIG_HOME/todos/config.toml or ~/.config/todos/config.toml)
// 3. The file named by TODOS_CONFIG
// 4. Environment variables
// 5. Command-line overrides
func Load(overrides Overrides) (*Config, error) {
	cfg := Defaults()

	if path := userConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", path, err)
		}
	}

	if path := os.Getenv("TODOS_CONFIG"); path != "" {
		if err := loadConfigFile(cfg, expandPath(path)); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	loadFromEnv(cfg)
	cfg.apply(overrides)

	cfg.DataDir = expandPath(cfg.DataDir)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Defaults returns a Config populated with default values.
func Defaults() *Config {
	return &Config{
		Backend:   DefaultBackend,
		DataDir:   DefaultDataDir,
		Key:       DefaultKey,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
	}
}

// Validate checks that every field holds a recognized value.
func (c *Config) Validate() error {
	var errs []error
	switch c.Backend {
	case BackendFile, BackendSQLite:
	default:
		errs = append(errs, todoerrors.UnknownBackendError{Backend: c.Backend})
	}
	if strings.TrimSpace(c.DataDir) == "" {
		errs = append(errs, errors.New("data_dir must not be empty"))
	}
	if strings.TrimSpace(c.Key) == "" {
		errs = append(errs, errors.New("key must not be empty"))
	}
	if !logging.IsValidLevel(c.LogLevel) {
		errs = append(errs, fmt.Errorf("invalid log_level: %s (valid: debug, info, warn, error)", c.LogLevel))
	}
	if !logging.IsValidFormat(c.LogFormat) {
		errs = append(errs, fmt.Errorf("invalid log_format: %s (valid: text, json, logfmt)", c.LogFormat))
	}
	return errors.Join(errs...)
}

// SQLitePath returns the database file used by the sqlite backend.
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "todos.db")
}

func (c *Config) apply(o Overrides) {
	if o.Backend != "" {
		c.Backend = o.Backend
	}
	if o.DataDir != "" {
		c.DataDir = o.DataDir
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
}

// loadConfigFile decodes TOML from path over cfg. A missing file is not an
// error; unknown keys are.
func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TODOS_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("TODOS_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("TODOS_KEY"); v != "" {
		cfg.Key = v
	}
	if v := os.Getenv("TODOS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TODOS_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}

// userConfigFile returns the per-user config path, or "" when no home
// directory can be determined.
func userConfigFile() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "todos", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "todos", "config.toml")
}

// expandPath expands environment variables and a leading ~ in p.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	expanded := os.ExpandEnv(p)
	if expanded != "~" && !strings.HasPrefix(expanded, "~/") {
		return expanded
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return expanded
	}
	if expanded == "~" {
		return home
	}
	return filepath.Join(home, expanded[2:])
}
