package gpu

import (
	"context"
	"strings"

	"github.com/CristiGvl/produce/internal/shell"
)

// Vendor represents GPU vendor
type Vendor string

const (
	Apple   Vendor = "apple"
	NVIDIA  Vendor = "nvidia"
	AMD     Vendor = "amd"
	Intel   Vendor = "intel"
	Unknown Vendor = "unknown"
)

// Location is where the GPU is attached.
type Location string

const (
	BuiltIn     Location = "builtin"
	Slot        Location = "slot"
	External    Location = "external"
	Unspecified Location = "unspecified"
)

// Device is a GPU as reported by the system graphics stack.
type Device struct {
	Name     string
	Vendor   Vendor
	Location Location
	// PeerCount is the size of the device's peer group, 0 when it is in none.
	PeerCount uint32
	// ShaderCores is the number of GPU cores, 0 when not reported.
	ShaderCores int
	// RecommendedWorkingSetBytes is 0 when not reported.
	RecommendedWorkingSetBytes uint64
}

// Source finds the system default GPU. It returns a nil Device when the
// system has none.
type Source interface {
	SystemDefaultDevice(ctx context.Context) (*Device, error)
}

// Info represents GPU information
type Info struct {
	Available                  bool     `json:"available"`
	Name                       string   `json:"name,omitempty"`
	Vendor                     Vendor   `json:"vendor,omitempty"`
	Location                   Location `json:"location,omitempty"`
	CoreCount                  uint32   `json:"core_count,omitempty"`
	ShaderCores                int      `json:"shader_cores,omitempty"`
	RecommendedWorkingSetBytes uint64   `json:"recommended_working_set_bytes,omitempty"`
}

// Reader interface for GPU monitoring
type Reader interface {
	GetInfo(ctx context.Context) (*Info, error)
}

// GraphicProcessor accesses the system default GPU. Every call asks the
// source again; nothing is cached.
type GraphicProcessor struct {
	source Source
}

// New creates a GraphicProcessor backed by source.
func New(source Source) *GraphicProcessor {
	return &GraphicProcessor{source: source}
}

// Available reports whether the system has a default GPU.
func (g *GraphicProcessor) Available(ctx context.Context) (bool, error) {
	dev, err := g.source.SystemDefaultDevice(ctx)
	if err != nil {
		return false, err
	}
	return dev != nil, nil
}

// Device returns the system default GPU, or nil.
func (g *GraphicProcessor) Device(ctx context.Context) (*Device, error) {
	return g.source.SystemDefaultDevice(ctx)
}

// Name returns the GPU name. The bool is false when there is no GPU.
func (g *GraphicProcessor) Name(ctx context.Context) (string, bool, error) {
	dev, err := g.source.SystemDefaultDevice(ctx)
	if err != nil || dev == nil {
		return "", false, err
	}
	return dev.Name, true, nil
}

// Location returns where the GPU is attached.
func (g *GraphicProcessor) Location(ctx context.Context) (Location, bool, error) {
	dev, err := g.source.SystemDefaultDevice(ctx)
	if err != nil || dev == nil {
		return "", false, err
	}
	return dev.Location, true, nil
}

// CoreCount returns the number of GPUs in the device's peer group. A device
// outside any peer group counts as one.
func (g *GraphicProcessor) CoreCount(ctx context.Context) (uint32, bool, error) {
	dev, err := g.source.SystemDefaultDevice(ctx)
	if err != nil || dev == nil {
		return 0, false, err
	}
	return coreCount(dev), true, nil
}

// RecommendedWorkingSetBytes returns roughly how much memory the GPU can use
// without hurting performance.
func (g *GraphicProcessor) RecommendedWorkingSetBytes(ctx context.Context) (uint64, bool, error) {
	dev, err := g.source.SystemDefaultDevice(ctx)
	if err != nil || dev == nil || dev.RecommendedWorkingSetBytes == 0 {
		return 0, false, err
	}
	return dev.RecommendedWorkingSetBytes, true, nil
}

// GetInfo returns GPU information
func (g *GraphicProcessor) GetInfo(ctx context.Context) (*Info, error) {
	dev, err := g.source.SystemDefaultDevice(ctx)
	if err != nil {
		return nil, err
	}
	if dev == nil {
		return &Info{Available: false}, nil
	}

	return &Info{
		Available:                  true,
		Name:                       dev.Name,
		Vendor:                     dev.Vendor,
		Location:                   dev.Location,
		CoreCount:                  coreCount(dev),
		ShaderCores:                dev.ShaderCores,
		RecommendedWorkingSetBytes: dev.RecommendedWorkingSetBytes,
	}, nil
}

func coreCount(dev *Device) uint32 {
	if dev.PeerCount == 0 {
		return 1
	}
	return dev.PeerCount
}

func parseVendor(raw string) Vendor {
	v := strings.ToLower(raw)
	switch {
	case strings.Contains(v, "apple"):
		return Apple
	case strings.Contains(v, "nvidia"):
		return NVIDIA
	case strings.Contains(v, "amd"), v == "ati", strings.HasSuffix(v, "_ati"):
		return AMD
	case strings.Contains(v, "intel"):
		return Intel
	default:
		return Unknown
	}
}

func parseLocation(bus string) Location {
	b := strings.ToLower(bus)
	switch {
	case b == "spdisplays_builtin":
		return BuiltIn
	case strings.Contains(b, "thunderbolt"), strings.Contains(b, "external"), strings.Contains(b, "egpu"):
		return External
	case strings.HasPrefix(b, "spdisplays_pci"):
		return Slot
	default:
		return Unspecified
	}
}

// NewPlatformSource creates the GPU source for the current platform.
func NewPlatformSource(runner shell.Runner) Source {
	return newPlatformSource(runner)
}

// NewReader creates a new GPU reader for the current platform
func NewReader(runner shell.Runner) Reader {
	return New(NewPlatformSource(runner))
}
