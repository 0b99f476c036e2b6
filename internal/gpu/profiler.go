package gpu

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/CristiGvl/produce/internal/shell"
	"github.com/dustin/go-humanize"
)

// SystemProfilerSource reads the display adapters from system_profiler.
// The first adapter listed is the system default device.
type SystemProfilerSource struct {
	runner shell.Runner
}

// NewSystemProfilerSource creates a Source that runs system_profiler through runner.
func NewSystemProfilerSource(runner shell.Runner) *SystemProfilerSource {
	return &SystemProfilerSource{runner: runner}
}

// SystemProfilerOutput represents `system_profiler SPDisplaysDataType -json` output
type SystemProfilerOutput struct {
	Displays []struct {
		Name       string `json:"_name"`
		Model      string `json:"sppci_model"`
		Cores      string `json:"sppci_cores"`
		Bus        string `json:"sppci_bus"`
		Vendor     string `json:"spdisplays_vendor"`
		VRAM       string `json:"spdisplays_vram"`
		VRAMShared string `json:"spdisplays_vram_shared"`
	} `json:"SPDisplaysDataType"`
}

// SystemDefaultDevice implements Source.
func (s *SystemProfilerSource) SystemDefaultDevice(ctx context.Context) (*Device, error) {
	output, err := s.runner.Output(ctx, "system_profiler", "SPDisplaysDataType", "-json")
	if err != nil {
		return nil, fmt.Errorf("system_profiler not available: %w", err)
	}

	var profile SystemProfilerOutput
	if err := json.Unmarshal(output, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse system_profiler output: %w", err)
	}
	if len(profile.Displays) == 0 {
		return nil, nil
	}

	display := profile.Displays[0]
	dev := &Device{
		Name:     display.Model,
		Vendor:   parseVendor(display.Vendor),
		Location: parseLocation(display.Bus),
	}
	if dev.Name == "" {
		dev.Name = display.Name
	}

	// system_profiler has no peer group field. Linked GPUs on one card (the
	// Duo Mac Pro modules) are listed as separate adapters of the same model.
	if peers := countModel(profile, display.Model); display.Model != "" && peers > 1 {
		dev.PeerCount = uint32(peers)
	}

	// Parse core count
	if cores, err := strconv.Atoi(strings.TrimSpace(display.Cores)); err == nil {
		dev.ShaderCores = cores
	}

	// Parse VRAM, dedicated first
	for _, vram := range []string{display.VRAM, display.VRAMShared} {
		if bytes, ok := parseVRAM(vram); ok {
			dev.RecommendedWorkingSetBytes = bytes
			break
		}
	}

	return dev, nil
}

func countModel(profile SystemProfilerOutput, model string) int {
	n := 0
	for _, d := range profile.Displays {
		if d.Model == model {
			n++
		}
	}
	return n
}

// parseVRAM parses sizes like "1536 MB". macOS means binary units here.
func parseVRAM(s string) (uint64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.NewReplacer(" KB", " KiB", " MB", " MiB", " GB", " GiB", " TB", " TiB").Replace(s)

	n, err := humanize.ParseBytes(s)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}
