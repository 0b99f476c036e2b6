// Package config loads produce configuration from TOML and the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all produce configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Battery BatteryConfig `toml:"battery"`
	Network NetworkConfig `toml:"network"`
	Shell   ShellConfig   `toml:"shell"`
	Logging LoggingConfig `toml:"logging"`
}

// ServerConfig controls the HTTP API server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + strconv.Itoa(s.Port)
}

// BatteryConfig names the battery service.
type BatteryConfig struct {
	Service string `toml:"service"`
}

// NetworkConfig names the interface whose addresses are reported.
type NetworkConfig struct {
	Interface string `toml:"interface"`
}

// ShellConfig bounds external commands.
type ShellConfig struct {
	Timeout string `toml:"timeout"`
}

// TimeoutDuration parses Timeout.
func (s ShellConfig) TimeoutDuration() (time.Duration, error) {
	return time.ParseDuration(s.Timeout)
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Battery: BatteryConfig{
			Service: "AppleSmartBattery",
		},
		Network: NetworkConfig{
			Interface: "en0",
		},
		Shell: ShellConfig{
			Timeout: "5s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Path returns $PRODUCE_CONFIG, or ~/.produce/config.toml.
func Path() string {
	if env := os.Getenv("PRODUCE_CONFIG"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".produce", "config.toml")
}

// Load reads the config at path, falling back to defaults when the default
// location has no file. An explicitly named file must exist. Environment
// overrides are applied last and the result is validated.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = Path()
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			err = nil
		} else {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PRODUCE_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("PRODUCE_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PRODUCE_PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("PRODUCE_INTERFACE"); v != "" {
		c.Network.Interface = v
	}
	if v := os.Getenv("PRODUCE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return nil
}

// Validate checks the configuration for values no component can use.
func (c Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Battery.Service == "" {
		return errors.New("battery.service must not be empty")
	}
	if c.Network.Interface == "" {
		return errors.New("network.interface must not be empty")
	}
	timeout, err := c.Shell.TimeoutDuration()
	if err != nil {
		return fmt.Errorf("shell.timeout: %w", err)
	}
	if timeout <= 0 {
		return fmt.Errorf("shell.timeout %s must be positive", timeout)
	}
	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format %q must be text or json", c.Logging.Format)
	}
	return nil
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// NewLogger builds the logger described by cfg, writing to w.
func NewLogger(cfg LoggingConfig, w io.Writer) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "text", "":
		handler = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
	return slog.New(handler), nil
}
