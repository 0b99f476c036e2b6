package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/CristiGvl/produce/api"
	"github.com/CristiGvl/produce/internal/cpu"
	"github.com/CristiGvl/produce/internal/metrics"
	"github.com/CristiGvl/produce/internal/platform"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to listen on (overrides config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  `Serve every component as JSON under /api and Prometheus metrics on /metrics.`,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := platform.ValidateSupport(); err != nil {
		return err
	}

	d, cfg, logger, err := loadDevice()
	if err != nil {
		return err
	}

	// Override config from flags
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if servePort > 0 {
		cfg.Server.Port = servePort
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := d.Battery()
	if err := b.Open(ctx); err != nil {
		logger.Warn("battery unavailable, serving defaults until opened", "error", err)
	}
	defer func() {
		if b.IsOpen() {
			_ = b.Close()
		}
	}()

	// Metrics sample CPU usage on their own so scrapes do not move the
	// window seen by /api/cpu/usage.
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		metrics.NewCollector(b, cpu.NewSampler(cpu.HostSource{}, logger), logger.With("component", "metrics")),
	)

	server := api.NewServer(api.ReadersFor(d), api.WithMetrics(registry))

	// Handle graceful shutdown
	go func() {
		<-ctx.Done()
		if err := server.Shutdown(); err != nil {
			logger.Error("error during shutdown", "error", err)
		}
	}()

	addr := cfg.Server.Addr()
	logger.Info("starting produce server", "addr", addr, "interface", cfg.Network.Interface)
	return server.Start(addr)
}
