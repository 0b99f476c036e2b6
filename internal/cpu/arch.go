package cpu

// Arch is a processor architecture label.
type Arch string

const (
	ArchUnknown   Arch = "Unknown Architecture"
	ArchARM       Arch = "ARM"
	ArchARM64     Arch = "ARM64"
	ArchARM64_32  Arch = "ARM64_32"
	ArchX86       Arch = "x86"
	ArchX86_64    Arch = "x86_64"
	ArchVAX       Arch = "VAX"
	ArchMC680x0   Arch = "MC680x0"
	ArchI386      Arch = "I386"
	ArchMC98000   Arch = "MC98000"
	ArchHPPA      Arch = "HPPA"
	ArchMC88000   Arch = "MC88000"
	ArchSPARC     Arch = "SPARC"
	ArchI860      Arch = "I860"
	ArchPowerPC   Arch = "PowerPC"
	ArchPowerPC64 Arch = "PowerPC64"
)

// mach/machine.h cpu_type_t values.
const (
	cpuArchABI64    = 0x01000000
	cpuArchABI64_32 = 0x02000000
)

const (
	CPUTypeAny       int32 = -1
	CPUTypeVAX       int32 = 1
	CPUTypeMC680x0   int32 = 6
	CPUTypeX86       int32 = 7
	CPUTypeX86_64    int32 = CPUTypeX86 | cpuArchABI64
	CPUTypeMC98000   int32 = 10
	CPUTypeHPPA      int32 = 11
	CPUTypeARM       int32 = 12
	CPUTypeARM64     int32 = CPUTypeARM | cpuArchABI64
	CPUTypeARM64_32  int32 = CPUTypeARM | cpuArchABI64_32
	CPUTypeMC88000   int32 = 13
	CPUTypeSPARC     int32 = 14
	CPUTypeI860      int32 = 15
	CPUTypePowerPC   int32 = 18
	CPUTypePowerPC64 int32 = CPUTypePowerPC | cpuArchABI64
)

// CPUTypeI386 shares its code with CPUTypeX86, so codes never map to ArchI386.
const CPUTypeI386 = CPUTypeX86

var archByCode = map[int32]Arch{
	CPUTypeAny:       ArchUnknown,
	CPUTypeVAX:       ArchVAX,
	CPUTypeMC680x0:   ArchMC680x0,
	CPUTypeX86:       ArchX86,
	CPUTypeX86_64:    ArchX86_64,
	CPUTypeMC98000:   ArchMC98000,
	CPUTypeHPPA:      ArchHPPA,
	CPUTypeARM:       ArchARM,
	CPUTypeARM64:     ArchARM64,
	CPUTypeARM64_32:  ArchARM64_32,
	CPUTypeMC88000:   ArchMC88000,
	CPUTypeSPARC:     ArchSPARC,
	CPUTypeI860:      ArchI860,
	CPUTypePowerPC:   ArchPowerPC,
	CPUTypePowerPC64: ArchPowerPC64,
}

// ArchFor maps a cpu_type_t code to its label. Unlisted codes are ArchUnknown.
func ArchFor(code int32) Arch {
	if arch, ok := archByCode[code]; ok {
		return arch
	}
	return ArchUnknown
}

// Code returns the cpu_type_t code for a. ArchI386 returns the x86 code and
// labels outside the enumeration return CPUTypeAny.
func (a Arch) Code() int32 {
	if a == ArchI386 {
		return CPUTypeI386
	}
	for code, arch := range archByCode {
		if arch == a {
			return code
		}
	}
	return CPUTypeAny
}
