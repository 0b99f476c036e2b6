//go:build !darwin

package iokit

import (
	"context"

	"github.com/CristiGvl/produce/internal/platform"
	"github.com/CristiGvl/produce/internal/shell"
)

// UnsupportedRegistry is a fallback for unsupported platforms
type UnsupportedRegistry struct{}

// NewRegistry creates a fallback registry for unsupported platforms
func NewRegistry(runner shell.Runner) Registry {
	return &UnsupportedRegistry{}
}

// MatchService returns an error for unsupported platforms
func (r *UnsupportedRegistry) MatchService(ctx context.Context, m Matching) (Service, error) {
	return Service{}, platform.Unsupported("IORegistry access")
}

// Property returns an error for unsupported platforms
func (r *UnsupportedRegistry) Property(ctx context.Context, svc Service, key string) (any, bool, error) {
	return nil, false, platform.Unsupported("IORegistry access")
}

// Release returns an error for unsupported platforms
func (r *UnsupportedRegistry) Release(svc Service) error {
	return platform.Unsupported("IORegistry access")
}
