package cpu

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHost struct {
	physical, logical int
	model             string
	modelErr          error
	countErr          error
}

func (f fakeHost) PhysicalCores(ctx context.Context) (int, error) { return f.physical, f.countErr }
func (f fakeHost) LogicalCores(ctx context.Context) (int, error)  { return f.logical, f.countErr }
func (f fakeHost) Model(ctx context.Context) (string, error)       { return f.model, f.modelErr }

func TestArchForListedCodes(t *testing.T) {
	tests := []struct {
		code int32
		arch Arch
	}{
		{CPUTypeAny, ArchUnknown},
		{CPUTypeVAX, ArchVAX},
		{CPUTypeMC680x0, ArchMC680x0},
		{CPUTypeX86, ArchX86},
		{CPUTypeX86_64, ArchX86_64},
		{CPUTypeMC98000, ArchMC98000},
		{CPUTypeHPPA, ArchHPPA},
		{CPUTypeARM, ArchARM},
		{CPUTypeARM64, ArchARM64},
		{CPUTypeARM64_32, ArchARM64_32},
		{CPUTypeMC88000, ArchMC88000},
		{CPUTypeSPARC, ArchSPARC},
		{CPUTypeI860, ArchI860},
		{CPUTypePowerPC, ArchPowerPC},
		{CPUTypePowerPC64, ArchPowerPC64},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.arch, ArchFor(tt.code), "code %#x", tt.code)
		assert.Equal(t, tt.code, tt.arch.Code(), "arch %s", tt.arch)
	}
}

func TestArchForKnownValues(t *testing.T) {
	assert.Equal(t, int32(0x0100000c), CPUTypeARM64)
	assert.Equal(t, int32(0x01000007), CPUTypeX86_64)
	assert.Equal(t, ArchX86, ArchFor(CPUTypeI386))
	assert.Equal(t, CPUTypeX86, ArchI386.Code())
	assert.Equal(t, CPUTypeAny, Arch("RISC-V").Code())
}

func TestArchForIsTotal(t *testing.T) {
	codes := []int32{math.MinInt32, -2, 0, 2, 3, 4, 5, 8, 9, 16, 17, 19, 0x0100000d, 0x7fffffff}
	for _, code := range codes {
		assert.Equal(t, ArchUnknown, ArchFor(code), "code %#x", code)
	}
	for code := int32(-1000); code < 1000; code++ {
		arch := ArchFor(code)
		assert.NotEmpty(t, arch)
		if arch != ArchUnknown {
			assert.Equal(t, code, arch.Code())
		}
	}
}

func TestProcessorArch(t *testing.T) {
	var queried []int
	p := New(WithArchQuery(func(pid int) (int32, error) {
		queried = append(queried, pid)
		return CPUTypeARM64, nil
	}))

	assert.Equal(t, ArchARM64, p.Arch(0))
	assert.Equal(t, ArchARM64, p.Arch(4242))
	assert.Equal(t, []int{0, 4242}, queried)
}

func TestProcessorArchFailureIsUnknown(t *testing.T) {
	p := New(WithArchQuery(func(pid int) (int32, error) {
		return 0, errors.New("sysctlnametomib: no such file or directory")
	}))

	assert.Equal(t, ArchUnknown, p.Arch(1))
}

func TestProcessorArchOutOfRangePid(t *testing.T) {
	var queried []int
	p := New(WithLogger(nil), WithArchQuery(func(pid int) (int32, error) {
		queried = append(queried, pid)
		return CPUTypeARM64, nil
	}))

	assert.Equal(t, ArchUnknown, p.Arch(1<<32 + 1))
	assert.Equal(t, ArchUnknown, p.Arch(-1))
	assert.Empty(t, queried)
	assert.Equal(t, ArchARM64, p.Arch(1))
}

func TestProcessorGetInfo(t *testing.T) {
	p := New(
		WithHostInfo(fakeHost{physical: 8, logical: 8, model: "Apple M1 Pro"}),
		WithTickSource(&fakeTicks{samples: []Ticks{{User: 10, System: 5, Idle: 3, Nice: 2}}}),
		WithArchQuery(func(pid int) (int32, error) { return CPUTypeARM64, nil }),
		WithLogger(discardLogger()),
	)

	info, err := p.GetInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Apple M1 Pro", info.Model)
	assert.Equal(t, 8, info.PhysicalCores)
	assert.Equal(t, 8, info.LogicalCores)
	assert.Equal(t, ArchARM64, info.Arch)
	assert.InDelta(t, 50.0, info.Usage.User, 1e-9)
}

func TestProcessorGetInfoModelOptional(t *testing.T) {
	p := New(
		WithHostInfo(fakeHost{physical: 4, logical: 8, modelErr: errors.New("no brand string")}),
		WithTickSource(&fakeTicks{samples: []Ticks{{Idle: 1}}}),
		WithArchQuery(func(pid int) (int32, error) { return CPUTypeX86_64, nil }),
	)

	info, err := p.GetInfo(context.Background())
	require.NoError(t, err)
	assert.Empty(t, info.Model)
	assert.Equal(t, ArchX86_64, info.Arch)
}

func TestProcessorGetInfoCountError(t *testing.T) {
	p := New(
		WithHostInfo(fakeHost{countErr: errors.New("host_info failed")}),
		WithTickSource(&fakeTicks{samples: []Ticks{{Idle: 1}}}),
	)

	_, err := p.GetInfo(context.Background())
	assert.Error(t, err)
}

func TestProcessorCores(t *testing.T) {
	p := New(WithHostInfo(fakeHost{physical: 10, logical: 10}))
	ctx := context.Background()

	physical, err := p.PhysicalCores(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, physical)

	logical, err := p.LogicalCores(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, logical)
}
