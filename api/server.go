package api

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/CristiGvl/produce/internal/battery"
	"github.com/CristiGvl/produce/internal/cpu"
	"github.com/CristiGvl/produce/internal/device"
	"github.com/CristiGvl/produce/internal/gpu"
	"github.com/CristiGvl/produce/internal/network"
	"github.com/CristiGvl/produce/internal/platform"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// requestTimeout bounds the hardware reads made for one request.
const requestTimeout = 10 * time.Second

// Processor is the CPU accessor served by the API.
type Processor interface {
	cpu.Reader
	Arch(pid int) cpu.Arch
}

// DeviceReader reads machine-wide information.
type DeviceReader interface {
	GetInfo(ctx context.Context) (*device.Info, error)
}

// Readers are the accessors the API serves.
type Readers struct {
	Battery battery.Reader
	CPU     Processor
	GPU     gpu.Reader
	Network network.Reader
	Device  DeviceReader
}

// ReadersFor returns the accessors of d.
func ReadersFor(d *device.Device) Readers {
	return Readers{
		Battery: d.Battery(),
		CPU:     d.CPU(),
		GPU:     d.GPU(),
		Network: d.Network(),
		Device:  d,
	}
}

// Server represents the API server
type Server struct {
	app     *fiber.App
	readers Readers
}

// Option configures a Server.
type Option func(*serverOptions)

type serverOptions struct {
	gatherer  prometheus.Gatherer
	accessLog io.Writer
}

// WithMetrics serves g on /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(o *serverOptions) { o.gatherer = g }
}

// WithAccessLog sets where request logs go. Nil disables them.
func WithAccessLog(w io.Writer) Option {
	return func(o *serverOptions) { o.accessLog = w }
}

// NewServer creates a new API server
func NewServer(readers Readers, opts ...Option) *Server {
	o := serverOptions{accessLog: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           120 * time.Second,
		ServerHeader:          "produce",
		AppName:               "produce",
		DisableStartupMessage: true,
	})

	// Middleware
	if o.accessLog != nil {
		app.Use(logger.New(logger.Config{Output: o.accessLog}))
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		MaxAge:       86400, // 24 hours
	}))

	server := &Server{
		app:     app,
		readers: readers,
	}

	server.setupRoutes()
	if o.gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(o.gatherer, promhttp.HandlerOpts{})))
	}
	return server
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.app.Group("/api")

	// Battery endpoints
	api.Get("/battery", s.getBattery)
	api.Post("/battery/open", s.openBattery)
	api.Post("/battery/close", s.closeBattery)

	// System information endpoints
	api.Get("/cpu", s.getCPU)
	api.Get("/cpu/usage", s.getCPUUsage)
	api.Get("/cpu/arch/:pid", s.getProcessArch)
	api.Get("/gpu", s.getGPU)
	api.Get("/network", s.getNetwork)
	api.Get("/device", s.getDevice)

	// Health check
	api.Get("/health", s.healthCheck)
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start starts the API server
func (s *Server) Start(address string) error {
	return s.app.Listen(address)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// Health check endpoint
func (s *Server) healthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"platform":  platform.GetOS(),
		"supported": platform.IsSupported(),
		"timestamp": time.Now().Unix(),
	})
}
