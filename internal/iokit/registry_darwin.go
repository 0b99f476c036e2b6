//go:build darwin

package iokit

import "github.com/CristiGvl/produce/internal/shell"

// NewRegistry creates the registry for the current platform
func NewRegistry(runner shell.Runner) Registry {
	return NewIORegRegistry(runner)
}
