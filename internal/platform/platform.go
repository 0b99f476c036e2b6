package platform

import (
	"errors"
	"fmt"
	"runtime"
)

// SupportedOS represents supported operating systems
type SupportedOS string

const (
	Darwin SupportedOS = "darwin"
)

// ErrUnsupported is returned by OS backends that have no implementation for
// the running operating system.
var ErrUnsupported = errors.New("not supported on this platform")

// GetOS returns the current operating system
func GetOS() SupportedOS {
	return SupportedOS(runtime.GOOS)
}

// IsSupported returns true if the current OS is supported
func IsSupported() bool {
	return GetOS() == Darwin
}

// ValidateSupport returns an error if the current OS is not supported
func ValidateSupport() error {
	if !IsSupported() {
		return fmt.Errorf("unsupported operating system: %s. Supported: darwin: %w", runtime.GOOS, ErrUnsupported)
	}
	return nil
}

// Unsupported wraps ErrUnsupported with the name of the feature that was requested.
func Unsupported(feature string) error {
	return fmt.Errorf("%s %w", feature, ErrUnsupported)
}
