package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/CristiGvl/produce/internal/battery"
	"github.com/CristiGvl/produce/internal/cpu"
	"github.com/CristiGvl/produce/internal/device"
	"github.com/CristiGvl/produce/internal/gpu"
	"github.com/CristiGvl/produce/internal/iokit"
	"github.com/CristiGvl/produce/internal/iokit/iokittest"
	"github.com/CristiGvl/produce/internal/metrics"
	"github.com/CristiGvl/produce/internal/network"
	"github.com/CristiGvl/produce/internal/platform"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProcessor struct {
	usage cpu.Usage
	err   error
}

func (f *fakeProcessor) GetInfo(ctx context.Context) (*cpu.Info, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &cpu.Info{Model: "Apple M2", PhysicalCores: 8, LogicalCores: 8, Arch: cpu.ArchARM64, Usage: f.usage}, nil
}

func (f *fakeProcessor) GetUsage(ctx context.Context) (cpu.Usage, error) {
	return f.usage, f.err
}

func (f *fakeProcessor) Arch(pid int) cpu.Arch {
	if pid == 1 {
		return cpu.ArchARM64
	}
	return cpu.ArchUnknown
}

type fakeGPU struct{ err error }

func (f fakeGPU) GetInfo(ctx context.Context) (*gpu.Info, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &gpu.Info{Available: true, Name: "Apple M2", Vendor: gpu.Apple, Location: gpu.BuiltIn, CoreCount: 1}, nil
}

type fakeNetwork struct{}

func (fakeNetwork) GetInfo(ctx context.Context) (*network.Info, error) {
	return &network.Info{Interface: "en0", Present: true, IP: "192.168.1.23", MACAddress: "a4:83:e7:12:34:56"}, nil
}

type fakeDevice struct{}

func (fakeDevice) GetInfo(ctx context.Context) (*device.Info, error) {
	return &device.Info{Name: "studio.local", SerialNumber: "C02XL0GYJGH5"}, nil
}

func newTestServer(t *testing.T, reg *iokittest.Registry, opts ...Option) *Server {
	t.Helper()
	opts = append([]Option{WithAccessLog(nil)}, opts...)
	return NewServer(Readers{
		Battery: battery.New(reg),
		CPU:     &fakeProcessor{usage: cpu.ComputeUsage(cpu.Ticks{}, cpu.Ticks{User: 1, Idle: 3})},
		GPU:     fakeGPU{},
		Network: fakeNetwork{},
		Device:  fakeDevice{},
	}, opts...)
}

func batteryRegistry() *iokittest.Registry {
	return iokittest.New().Add(iokit.NameMatching(battery.ServiceName), map[string]any{
		"CurrentCapacity": int64(4500),
		"MaxCapacity":     int64(5000),
		"CycleCount":      int64(120),
		"Temperature":     int64(3012),
		"TimeRemaining":   int64(5400),
	})
}

func do(t *testing.T, s *Server, method, target string) (int, map[string]any) {
	t.Helper()
	resp, err := s.App().Test(httptest.NewRequest(method, target, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return resp.StatusCode, out
}

func TestBatteryLifecycle(t *testing.T) {
	reg := batteryRegistry()
	s := newTestServer(t, reg)

	status, body := do(t, s, http.MethodGet, "/api/battery")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["open"])
	assert.Equal(t, "unavailable", body["charge"].(map[string]any)["state"])

	status, body = do(t, s, http.MethodPost, "/api/battery/open")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "open", body["status"])

	status, _ = do(t, s, http.MethodPost, "/api/battery/open")
	assert.Equal(t, http.StatusConflict, status)

	status, body = do(t, s, http.MethodGet, "/api/battery")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["open"])
	charge := body["charge"].(map[string]any)
	assert.Equal(t, "known", charge["state"])
	assert.InDelta(t, 0.9, charge["fraction"], 1e-9)
	assert.InDelta(t, 30.12, body["temperature_celsius"], 1e-9)
	prediction := body["time_remaining"].(map[string]any)
	assert.Equal(t, "remaining", prediction["kind"])
	assert.EqualValues(t, 90, prediction["minutes"])

	status, body = do(t, s, http.MethodPost, "/api/battery/close")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "closed", body["status"])
	assert.Equal(t, 0, reg.Live())

	status, _ = do(t, s, http.MethodPost, "/api/battery/close")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestBatteryOpenWithoutService(t *testing.T) {
	s := newTestServer(t, iokittest.New())

	status, body := do(t, s, http.MethodPost, "/api/battery/open")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body["error"], "not found")
}

func TestCPUEndpoints(t *testing.T) {
	s := newTestServer(t, iokittest.New())

	status, body := do(t, s, http.MethodGet, "/api/cpu")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Apple M2", body["model"])
	assert.Equal(t, "ARM64", body["kernel_arch"])

	status, body = do(t, s, http.MethodGet, "/api/cpu/usage")
	assert.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 25.0, body["user_percent"], 1e-9)
	assert.InDelta(t, 75.0, body["idle_percent"], 1e-9)

	status, body = do(t, s, http.MethodGet, "/api/cpu/arch/1")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ARM64", body["arch"])
	assert.EqualValues(t, cpu.CPUTypeARM64, body["code"])

	status, body = do(t, s, http.MethodGet, "/api/cpu/arch/99999")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Unknown Architecture", body["arch"])

	status, _ = do(t, s, http.MethodGet, "/api/cpu/arch/-4")
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = do(t, s, http.MethodGet, "/api/cpu/arch/kernel")
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = do(t, s, http.MethodGet, "/api/cpu/arch/4294967297")
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = do(t, s, http.MethodGet, "/api/cpu/arch/2147483648")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestComponentEndpoints(t *testing.T) {
	s := newTestServer(t, iokittest.New())

	status, body := do(t, s, http.MethodGet, "/api/gpu")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "builtin", body["location"])

	status, body = do(t, s, http.MethodGet, "/api/network")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "192.168.1.23", body["ip"])

	status, body = do(t, s, http.MethodGet, "/api/device")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "C02XL0GYJGH5", body["serial_number"])

	status, body = do(t, s, http.MethodGet, "/api/health")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestErrorStatus(t *testing.T) {
	s := NewServer(Readers{
		Battery: battery.New(iokittest.New()),
		CPU:     &fakeProcessor{err: errors.New("host_statistics failed")},
		GPU:     fakeGPU{err: platform.Unsupported("GPU monitoring")},
		Network: fakeNetwork{},
		Device:  fakeDevice{},
	}, WithAccessLog(nil))

	status, body := do(t, s, http.MethodGet, "/api/cpu")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "host_statistics failed", body["error"])

	status, _ = do(t, s, http.MethodGet, "/api/gpu")
	assert.Equal(t, http.StatusNotImplemented, status)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := batteryRegistry()
	b := battery.New(reg)
	require.NoError(t, b.Open(context.Background()))

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(metrics.NewCollector(b, nil, nil))

	s := NewServer(Readers{
		Battery: b,
		CPU:     &fakeProcessor{},
		GPU:     fakeGPU{},
		Network: fakeNetwork{},
		Device:  fakeDevice{},
	}, WithAccessLog(nil), WithMetrics(promReg))

	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "produce_battery_charge_ratio 0.9"), string(body))
}

func TestMetricsDisabledByDefault(t *testing.T) {
	s := newTestServer(t, iokittest.New())

	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
