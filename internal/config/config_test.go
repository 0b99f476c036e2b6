package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr())
	assert.Equal(t, "AppleSmartBattery", cfg.Battery.Service)
	assert.Equal(t, "en0", cfg.Network.Interface)
	timeout, err := cfg.Shell.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, timeout)
	assert.NoError(t, cfg.Validate())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 9100

[network]
interface = "en1"

[shell]
timeout = "2s"

[logging]
level = "debug"
format = "json"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "en1", cfg.Network.Interface)
	assert.Equal(t, "AppleSmartBattery", cfg.Battery.Service)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Setenv("PRODUCE_CONFIG", filepath.Join(t.TempDir(), "absent.toml"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PRODUCE_CONFIG", filepath.Join(t.TempDir(), "absent.toml"))
	t.Setenv("PRODUCE_HOST", "0.0.0.0")
	t.Setenv("PRODUCE_PORT", "9200")
	t.Setenv("PRODUCE_INTERFACE", "en5")
	t.Setenv("PRODUCE_LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9200", cfg.Server.Addr())
	assert.Equal(t, "en5", cfg.Network.Interface)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"port", "[server]\nport = 70000\n"},
		{"timeout", "[shell]\ntimeout = \"soon\"\n"},
		{"negative timeout", "[shell]\ntimeout = \"-1s\"\n"},
		{"level", "[logging]\nlevel = \"loud\"\n"},
		{"format", "[logging]\nformat = \"xml\"\n"},
		{"interface", "[network]\ninterface = \"\"\n"},
		{"syntax", "[server\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadInvalidPortEnv(t *testing.T) {
	t.Setenv("PRODUCE_CONFIG", filepath.Join(t.TempDir(), "absent.toml"))
	t.Setenv("PRODUCE_PORT", "eighty")

	_, err := Load("")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(LoggingConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", slog.String("key", "value"))

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"key":"value"`)

	_, err = NewLogger(LoggingConfig{Level: "info", Format: "xml"}, &buf)
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}
