// Package device ties the hardware accessors together and answers
// machine-wide questions: the host name and the serial number.
package device

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/CristiGvl/produce/internal/battery"
	"github.com/CristiGvl/produce/internal/config"
	"github.com/CristiGvl/produce/internal/cpu"
	"github.com/CristiGvl/produce/internal/gpu"
	"github.com/CristiGvl/produce/internal/iokit"
	"github.com/CristiGvl/produce/internal/network"
	"github.com/CristiGvl/produce/internal/shell"
	"github.com/shirou/gopsutil/v3/host"
)

const (
	platformExpertClass = "IOPlatformExpertDevice"
	serialNumberKey     = "IOPlatformSerialNumber"
)

// HostSource describes the running host.
type HostSource interface {
	Info(ctx context.Context) (*host.InfoStat, error)
}

// GopsutilHost reads host information through gopsutil.
type GopsutilHost struct{}

// Info implements HostSource.
func (GopsutilHost) Info(ctx context.Context) (*host.InfoStat, error) {
	return host.InfoWithContext(ctx)
}

// Info represents machine-wide information
type Info struct {
	Name            string `json:"name"`
	SerialNumber    string `json:"serial_number,omitempty"`
	Platform        string `json:"platform,omitempty"`
	PlatformVersion string `json:"platform_version,omitempty"`
	KernelArch      string `json:"kernel_arch,omitempty"`
}

// Components are the accessors a Device hands out.
type Components struct {
	Registry iokit.Registry
	Host     HostSource
	CPU      *cpu.Processor
	GPU      *gpu.GraphicProcessor
	Battery  *battery.Battery
	Network  *network.Network
}

// Device is the machine. It owns one accessor per component.
type Device struct {
	registry iokit.Registry
	host     HostSource
	cpu      *cpu.Processor
	gpu      *gpu.GraphicProcessor
	battery  *battery.Battery
	network  *network.Network
	logger   *slog.Logger
}

// NewWith creates a Device from explicit components. A nil Host falls back
// to gopsutil and a nil logger discards.
func NewWith(c Components, logger *slog.Logger) *Device {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.Host == nil {
		c.Host = GopsutilHost{}
	}
	return &Device{
		registry: c.Registry,
		host:     c.Host,
		cpu:      c.CPU,
		gpu:      c.GPU,
		battery:  c.Battery,
		network:  c.Network,
		logger:   logger,
	}
}

// New wires every accessor for the current platform from cfg.
func New(cfg config.Config, logger *slog.Logger) (*Device, error) {
	timeout, err := cfg.Shell.TimeoutDuration()
	if err != nil {
		return nil, fmt.Errorf("invalid shell timeout: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	runner := shell.NewRunner(timeout)
	registry := iokit.NewRegistry(runner)

	return NewWith(Components{
		Registry: registry,
		Host:     GopsutilHost{},
		CPU:      cpu.New(cpu.WithLogger(logger.With("component", "cpu"))),
		GPU:      gpu.New(gpu.NewPlatformSource(runner)),
		Battery: battery.New(registry,
			battery.WithServiceName(cfg.Battery.Service),
			battery.WithLogger(logger.With("component", "battery"))),
		Network: network.New(cfg.Network.Interface),
	}, logger), nil
}

// CPU returns the processor accessor.
func (d *Device) CPU() *cpu.Processor { return d.cpu }

// GPU returns the graphics processor accessor.
func (d *Device) GPU() *gpu.GraphicProcessor { return d.gpu }

// Battery returns the battery accessor.
func (d *Device) Battery() *battery.Battery { return d.battery }

// Network returns the network accessor.
func (d *Device) Network() *network.Network { return d.network }

// Name returns the host name.
func (d *Device) Name(ctx context.Context) (string, error) {
	info, err := d.host.Info(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get host info: %w", err)
	}
	return info.Hostname, nil
}

// SerialNumber returns the platform serial number with surrounding
// whitespace removed. The bool is false when the platform expert or its
// serial number property does not exist. The service is always released.
func (d *Device) SerialNumber(ctx context.Context) (string, bool, error) {
	svc, err := d.registry.MatchService(ctx, iokit.ClassMatching(platformExpertClass))
	if err != nil {
		if errors.Is(err, iokit.ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to find platform expert: %w", err)
	}
	defer func() {
		if err := d.registry.Release(svc); err != nil {
			d.logger.Warn("failed to release platform expert", "id", svc.ID, "error", err)
		}
	}()

	serial, ok, err := iokit.ReadString(ctx, d.registry, svc, serialNumberKey)
	if err != nil || !ok {
		return "", false, err
	}
	return strings.TrimSpace(serial), true, nil
}

// GetInfo returns machine-wide information
func (d *Device) GetInfo(ctx context.Context) (*Info, error) {
	hostInfo, err := d.host.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get host info: %w", err)
	}

	serial, _, err := d.SerialNumber(ctx)
	if err != nil {
		return nil, err
	}

	return &Info{
		Name:            hostInfo.Hostname,
		SerialNumber:    serial,
		Platform:        hostInfo.Platform,
		PlatformVersion: hostInfo.PlatformVersion,
		KernelArch:      hostInfo.KernelArch,
	}, nil
}
