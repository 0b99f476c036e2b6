package cpu

import (
	"context"
	"io"
	"log/slog"
	"math"
)

// Info represents CPU information
type Info struct {
	Model         string `json:"model"`
	PhysicalCores int    `json:"cores"`
	LogicalCores  int    `json:"threads"`
	Arch          Arch   `json:"kernel_arch"`
	Usage         Usage  `json:"usage"`
}

// Reader interface for CPU monitoring
type Reader interface {
	GetInfo(ctx context.Context) (*Info, error)
	GetUsage(ctx context.Context) (Usage, error)
}

// HostInfo answers static questions about the processor.
type HostInfo interface {
	PhysicalCores(ctx context.Context) (int, error)
	LogicalCores(ctx context.Context) (int, error)
	Model(ctx context.Context) (string, error)
}

// ArchQuery returns the mach cpu_type_t a process was compiled for. Pid 0 is
// the kernel.
type ArchQuery func(pid int) (int32, error)

// Processor accesses the central processor's properties. The only state it
// keeps is the previous tick sample used by GetUsage.
type Processor struct {
	host      HostInfo
	sampler   *Sampler
	archQuery ArchQuery
	logger    *slog.Logger
}

// Option configures a Processor.
type Option func(*processorOptions)

type processorOptions struct {
	host      HostInfo
	ticks     TickSource
	archQuery ArchQuery
	logger    *slog.Logger
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *processorOptions) { o.logger = logger }
}

// WithHostInfo replaces the source of core counts and model name.
func WithHostInfo(host HostInfo) Option {
	return func(o *processorOptions) { o.host = host }
}

// WithTickSource replaces the source of cumulative tick counters.
func WithTickSource(ticks TickSource) Option {
	return func(o *processorOptions) { o.ticks = ticks }
}

// WithArchQuery replaces the process architecture lookup.
func WithArchQuery(query ArchQuery) Option {
	return func(o *processorOptions) { o.archQuery = query }
}

// NewReader creates a new CPU reader for the current platform
func NewReader(opts ...Option) Reader {
	return New(opts...)
}

// New creates a Processor. Without options it reads the host through gopsutil
// and queries process architectures through sysctl.
func New(opts ...Option) *Processor {
	o := processorOptions{
		host:      HostSource{},
		ticks:     HostSource{},
		archQuery: queryProcessArch,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Processor{
		host:      o.host,
		sampler:   NewSampler(o.ticks, o.logger),
		archQuery: o.archQuery,
		logger:    o.logger,
	}
}

// PhysicalCores returns the number of physical cores.
func (p *Processor) PhysicalCores(ctx context.Context) (int, error) {
	return p.host.PhysicalCores(ctx)
}

// LogicalCores returns the number of logical cores.
func (p *Processor) LogicalCores(ctx context.Context) (int, error) {
	return p.host.LogicalCores(ctx)
}

// GetUsage returns the usage since the previous call. See Sampler.Usage.
func (p *Processor) GetUsage(ctx context.Context) (Usage, error) {
	return p.sampler.Usage(ctx)
}

// Sampler returns the sampler holding the previous tick sample.
func (p *Processor) Sampler() *Sampler {
	return p.sampler
}

// Arch returns the architecture pid was compiled for. Lookup failures and
// pids outside the pid_t range are reported as ArchUnknown.
func (p *Processor) Arch(pid int) Arch {
	if pid < 0 || pid > math.MaxInt32 {
		p.logger.Debug("pid out of range", "pid", pid)
		return ArchUnknown
	}
	code, err := p.archQuery(pid)
	if err != nil {
		p.logger.Debug("process architecture lookup failed", "pid", pid, "error", err)
		return ArchUnknown
	}
	return ArchFor(code)
}

// GetInfo returns CPU information
func (p *Processor) GetInfo(ctx context.Context) (*Info, error) {
	physical, err := p.host.PhysicalCores(ctx)
	if err != nil {
		return nil, err
	}
	logical, err := p.host.LogicalCores(ctx)
	if err != nil {
		return nil, err
	}

	model, err := p.host.Model(ctx)
	if err != nil {
		p.logger.Debug("cpu model unavailable", "error", err)
		model = ""
	}

	usage, err := p.GetUsage(ctx)
	if err != nil {
		return nil, err
	}

	return &Info{
		Model:         model,
		PhysicalCores: physical,
		LogicalCores:  logical,
		Arch:          p.Arch(0),
		Usage:         usage,
	}, nil
}
