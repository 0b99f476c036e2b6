// Package cli implements the produce command-line interface using Cobra.
// Each subcommand reads one hardware component; serve exposes them all over HTTP.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/CristiGvl/produce/internal/config"
	"github.com/CristiGvl/produce/internal/device"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $PRODUCE_CONFIG or ~/.produce/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
}

var rootCmd = &cobra.Command{
	Use:   "produce",
	Short: "produce reads battery, CPU, GPU and network state on macOS",
	Long: `produce reads hardware state from the operating system and reports it
as JSON, as a styled summary, or over an HTTP API with Prometheus metrics.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the config and applies the root flags.
func loadConfig() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	logger, err := config.NewLogger(cfg.Logging, os.Stderr)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logger, nil
}

// loadDevice wires a Device from the config.
func loadDevice() (*device.Device, config.Config, *slog.Logger, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, cfg, nil, err
	}
	d, err := device.New(cfg, logger)
	if err != nil {
		return nil, cfg, nil, err
	}
	return d, cfg, logger, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
