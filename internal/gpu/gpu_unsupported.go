//go:build !darwin

package gpu

import (
	"context"

	"github.com/CristiGvl/produce/internal/platform"
	"github.com/CristiGvl/produce/internal/shell"
)

// UnsupportedSource is a fallback for unsupported platforms
type UnsupportedSource struct{}

// newPlatformSource creates a fallback GPU source for unsupported platforms
func newPlatformSource(runner shell.Runner) Source {
	return &UnsupportedSource{}
}

// SystemDefaultDevice returns an error for unsupported platforms
func (s *UnsupportedSource) SystemDefaultDevice(ctx context.Context) (*Device, error) {
	return nil, platform.Unsupported("GPU monitoring")
}
