// Package config loads the wayfarer configuration: a base config.toml, an
// optional config.<WAYFARER_ENV>.toml overlay, WAYFARER_ environment
// variables for anything the files leave unset, and built-in defaults.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/JaimeStill/wayfarer/pkg/database"
	"github.com/JaimeStill/wayfarer/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvWayfarerEnv     = Prefix + "ENV"
	EnvShutdownTimeout = Prefix + "SHUTDOWN_TIMEOUT"
	EnvVersion         = Prefix + "VERSION"
	EnvLogLevel        = Prefix + "LOG_LEVEL"
)

var databaseEnv = &database.Env{
	Host:            Prefix + "DB_HOST",
	Port:            Prefix + "DB_PORT",
	Name:            Prefix + "DB_NAME",
	User:            Prefix + "DB_USER",
	Password:        Prefix + "DB_PASSWORD",
	SSLMode:         Prefix + "DB_SSL_MODE",
	MaxOpenConns:    Prefix + "DB_MAX_OPEN_CONNS",
	MaxIdleConns:    Prefix + "DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: Prefix + "DB_CONN_MAX_LIFETIME",
	ConnTimeout:     Prefix + "DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	Provider:         Prefix + "STORAGE_PROVIDER",
	Path:             Prefix + "STORAGE_PATH",
	ContainerName:    Prefix + "STORAGE_CONTAINER_NAME",
	ConnectionString: Prefix + "STORAGE_CONNECTION_STRING",
}

// Config is the root configuration shared by the server and the CLI.
// The [agent] table is decoded into Agent using go-agents' key names.
type Config struct {
	Server          ServerConfig         `toml:"server"`
	Database        database.Config      `toml:"database"`
	Storage         storage.Config       `toml:"storage"`
	API             APIConfig            `toml:"api"`
	Pipeline        PipelineConfig       `toml:"pipeline"`
	Search          SearchConfig         `toml:"search"`
	AgentTable      map[string]any       `toml:"agent"`
	Agent           gaconfig.AgentConfig `toml:"-"`
	LogLevel        string               `toml:"log_level"`
	ShutdownTimeout string               `toml:"shutdown_timeout"`
	Version         string               `toml:"version"`
}

// Env returns the WAYFARER_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvWayfarerEnv); env != "" {
		return env
	}
	return "local"
}

func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Level returns the configured slog level. Finalize guarantees it parses.
func (c *Config) Level() slog.Level {
	var l slog.Level
	_ = l.UnmarshalText([]byte(strings.ToUpper(c.LogLevel)))
	return l
}

// Load reads config.toml from the working directory. A missing file is not
// an error: defaults and environment variables then provide everything.
func Load() (*Config, error) {
	return LoadFile(BaseConfigFile)
}

// LoadFile reads the base config at path and the environment overlay next
// to it, then finalizes all values.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(path); err == nil {
		loaded, err := load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if overlay := overlayPath(filepath.Dir(path)); overlay != "" {
		o, err := load(overlay)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", overlay, err)
		}
		cfg.Merge(o)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	if overlay.LogLevel != "" {
		c.LogLevel = overlay.LogLevel
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Pipeline.Merge(&overlay.Pipeline)
	c.Search.Merge(&overlay.Search)
	c.Agent.Merge(&overlay.Agent)
}

func (c *Config) finalize() error {
	envString(EnvShutdownTimeout, &c.ShutdownTimeout)
	envString(EnvVersion, &c.Version)
	envString(EnvLogLevel, &c.LogLevel)

	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}

	for _, step := range []struct {
		name string
		fn   func() error
	}{
		{"server", c.Server.Finalize},
		{"database", func() error { return c.Database.Finalize(databaseEnv) }},
		{"storage", func() error { return c.Storage.Finalize(storageEnv) }},
		{"api", c.API.Finalize},
		{"pipeline", c.Pipeline.Finalize},
		{"search", c.Search.Finalize},
		{"agent", func() error { return FinalizeAgent(&c.Agent) }},
	} {
		if err := step.fn(); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	agent, err := decodeAgent(cfg.AgentTable)
	if err != nil {
		return nil, err
	}
	cfg.Agent = agent

	return &cfg, nil
}

func overlayPath(dir string) string {
	if env := os.Getenv(EnvWayfarerEnv); env != "" {
		path := filepath.Join(dir, fmt.Sprintf(OverlayConfigPattern, env))
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
