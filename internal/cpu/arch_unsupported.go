//go:build !darwin

package cpu

import "github.com/CristiGvl/produce/internal/platform"

// queryProcessArch returns an error for unsupported platforms
func queryProcessArch(pid int) (int32, error) {
	return CPUTypeAny, platform.Unsupported("process architecture query")
}
