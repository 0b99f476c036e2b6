package cpu

import (
	"context"
	"fmt"
	"math"

	"github.com/shirou/gopsutil/v3/cpu"
)

// ticksPerSecond converts gopsutil's seconds back to scheduler ticks (CLK_TCK).
const ticksPerSecond = 100

// HostSource reads processor information through gopsutil.
type HostSource struct{}

// Ticks returns the aggregate counters for all CPUs.
func (HostSource) Ticks(ctx context.Context) (Ticks, error) {
	times, err := cpu.TimesWithContext(ctx, false)
	if err != nil {
		return Ticks{}, err
	}
	if len(times) == 0 {
		return Ticks{}, fmt.Errorf("no CPU times reported")
	}

	t := times[0]
	return Ticks{
		User:   toTicks(t.User),
		System: toTicks(t.System),
		Idle:   toTicks(t.Idle),
		Nice:   toTicks(t.Nice),
	}, nil
}

// PhysicalCores returns the number of physical cores.
func (HostSource) PhysicalCores(ctx context.Context) (int, error) {
	return cpu.CountsWithContext(ctx, false)
}

// LogicalCores returns the number of logical cores.
func (HostSource) LogicalCores(ctx context.Context) (int, error) {
	return cpu.CountsWithContext(ctx, true)
}

// Model returns the brand string of the first CPU.
func (HostSource) Model(ctx context.Context) (string, error) {
	cpuInfo, err := cpu.InfoWithContext(ctx)
	if err != nil {
		return "", err
	}
	if len(cpuInfo) == 0 {
		return "", fmt.Errorf("no CPU info reported")
	}
	return cpuInfo[0].ModelName, nil
}

func toTicks(secs float64) uint64 {
	if secs <= 0 || math.IsNaN(secs) {
		return 0
	}
	return uint64(math.Round(secs * ticksPerSecond))
}
