//go:build darwin

package cpu

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/sys/unix"
)

// queryProcessArch reads sysctl.proc_cputype for pid. The name is not listed
// by `sysctl -A`, so it has to be resolved to a MIB first; SysctlRaw does
// that lookup and appends pid to the resolved MIB.
func queryProcessArch(pid int) (int32, error) {
	raw, err := unix.SysctlRaw("sysctl.proc_cputype", pid)
	if err != nil {
		return CPUTypeAny, fmt.Errorf("sysctl.proc_cputype for pid %d: %w", pid, err)
	}
	if len(raw) < 4 {
		return CPUTypeAny, fmt.Errorf("sysctl.proc_cputype for pid %d: short read of %d bytes", pid, len(raw))
	}
	return int32(binary.NativeEndian.Uint32(raw)), nil
}
