//go:build darwin

package gpu

import "github.com/CristiGvl/produce/internal/shell"

// newPlatformSource creates the GPU source for macOS
func newPlatformSource(runner shell.Runner) Source {
	return NewSystemProfilerSource(runner)
}
