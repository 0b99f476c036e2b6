// Package metrics exposes battery and CPU readings as Prometheus metrics.
// Readings are taken when the registry is scraped.
package metrics

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/CristiGvl/produce/internal/battery"
	"github.com/CristiGvl/produce/internal/cpu"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "produce"

// scrapeTimeout bounds the readings taken for one scrape.
const scrapeTimeout = 10 * time.Second

// BatterySource provides battery snapshots.
type BatterySource interface {
	GetInfo(ctx context.Context) (*battery.Info, error)
}

// UsageSource provides CPU usage since its previous call.
type UsageSource interface {
	Usage(ctx context.Context) (cpu.Usage, error)
}

var (
	chargeDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "battery", "charge_ratio"),
		"Battery charge as a fraction of the full charge capacity.",
		nil, nil,
	)
	healthDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "battery", "health_ratio"),
		"Full charge capacity as a fraction of the design capacity.",
		nil, nil,
	)
	capacityDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "battery", "capacity_mah"),
		"Battery capacity in mAh.",
		[]string{"kind"}, nil,
	)
	cyclesDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "battery", "cycle_count"),
		"Battery charge cycles.",
		nil, nil,
	)
	temperatureDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "battery", "temperature_celsius"),
		"Battery temperature in degrees Celsius.",
		nil, nil,
	)
	acPoweredDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "battery", "ac_powered"),
		"Whether external power is connected.",
		nil, nil,
	)
	cpuUsageDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "cpu", "usage_percent"),
		"CPU usage since the previous scrape, by mode.",
		[]string{"mode"}, nil,
	)
)

// Collector implements prometheus.Collector.
type Collector struct {
	battery BatterySource
	usage   UsageSource
	logger  *slog.Logger

	scrapeErrors *prometheus.CounterVec
}

// NewCollector creates a Collector. Either source may be nil.
func NewCollector(b BatterySource, u UsageSource, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Collector{
		battery: b,
		usage:   u,
		logger:  logger,
		scrapeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scrape_errors_total",
			Help:      "Readings that failed during a scrape.",
		}, []string{"source"}),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- chargeDesc
	ch <- healthDesc
	ch <- capacityDesc
	ch <- cyclesDesc
	ch <- temperatureDesc
	ch <- acPoweredDesc
	ch <- cpuUsageDesc
	c.scrapeErrors.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), scrapeTimeout)
	defer cancel()

	if c.battery != nil {
		c.collectBattery(ctx, ch)
	}
	if c.usage != nil {
		c.collectCPU(ctx, ch)
	}
	c.scrapeErrors.Collect(ch)
}

func (c *Collector) collectBattery(ctx context.Context, ch chan<- prometheus.Metric) {
	info, err := c.battery.GetInfo(ctx)
	if err != nil {
		c.logger.Warn("battery scrape failed", "error", err)
		c.scrapeErrors.WithLabelValues("battery").Inc()
		return
	}
	if !info.Open {
		return
	}

	if info.Charge.Known() {
		ch <- prometheus.MustNewConstMetric(chargeDesc, prometheus.GaugeValue, info.Charge.Fraction)
	}
	if info.Health.Known() {
		ch <- prometheus.MustNewConstMetric(healthDesc, prometheus.GaugeValue, info.Health.Fraction)
	}
	for kind, v := range map[string]*int{
		"current": info.CurrentCapacity,
		"max":     info.MaxCapacity,
		"design":  info.DesignCapacity,
	} {
		if v != nil {
			ch <- prometheus.MustNewConstMetric(capacityDesc, prometheus.GaugeValue, float64(*v), kind)
		}
	}
	if info.CycleCount != nil {
		ch <- prometheus.MustNewConstMetric(cyclesDesc, prometheus.GaugeValue, float64(*info.CycleCount))
	}
	if info.Temperature != nil {
		ch <- prometheus.MustNewConstMetric(temperatureDesc, prometheus.GaugeValue, *info.Temperature)
	}
	if info.ACPowered != nil {
		ch <- prometheus.MustNewConstMetric(acPoweredDesc, prometheus.GaugeValue, boolToFloat(*info.ACPowered))
	}
}

func (c *Collector) collectCPU(ctx context.Context, ch chan<- prometheus.Metric) {
	usage, err := c.usage.Usage(ctx)
	if err != nil {
		c.logger.Warn("cpu scrape failed", "error", err)
		c.scrapeErrors.WithLabelValues("cpu").Inc()
		return
	}
	if usage.TotalTicks == 0 {
		return
	}

	for mode, v := range map[string]float64{
		"user":   usage.User,
		"system": usage.System,
		"idle":   usage.Idle,
		"nice":   usage.Nice,
	} {
		ch <- prometheus.MustNewConstMetric(cpuUsageDesc, prometheus.GaugeValue, v, mode)
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
