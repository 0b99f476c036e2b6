package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/CristiGvl/produce/internal/battery"
	"github.com/CristiGvl/produce/internal/cpu"
	"github.com/CristiGvl/produce/internal/device"
	"github.com/CristiGvl/produce/internal/gpu"
	"github.com/CristiGvl/produce/internal/network"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func init() {
	reportCmd.Flags().DurationVar(&reportInterval, "interval", time.Second, "Time between the two CPU usage samples")
	rootCmd.AddCommand(reportCmd)
}

var reportInterval time.Duration

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a summary of every component",
	RunE:  runReport,
}

// report holds one reading of every component. Nil fields were unavailable.
type report struct {
	Device  *device.Info
	Battery *battery.Info
	CPU     *cpu.Info
	GPU     *gpu.Info
	Network *network.Info
}

func runReport(cmd *cobra.Command, args []string) error {
	d, _, logger, err := loadDevice()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	r, err := collectReport(ctx, d, reportInterval)
	if err != nil {
		return err
	}
	for _, e := range r.errs {
		logger.Debug("component unavailable", "error", e)
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderReport(r.report))
	return nil
}

type collected struct {
	report
	errs []error
}

func collectReport(ctx context.Context, d *device.Device, interval time.Duration) (collected, error) {
	var c collected
	var err error

	if c.Device, err = d.GetInfo(ctx); err != nil {
		c.errs = append(c.errs, err)
	}

	b := d.Battery()
	if err := b.Open(ctx); err != nil {
		c.errs = append(c.errs, err)
	} else {
		defer func() {
			if b.IsOpen() {
				_ = b.Close()
			}
		}()
		if c.Battery, err = b.GetInfo(ctx); err != nil {
			c.errs = append(c.errs, err)
		}
	}

	p := d.CPU()
	if _, err := p.GetUsage(ctx); err != nil {
		c.errs = append(c.errs, err)
	}
	if err := sleep(ctx, interval); err != nil {
		return c, err
	}
	if c.CPU, err = p.GetInfo(ctx); err != nil {
		c.errs = append(c.errs, err)
	}

	if c.GPU, err = d.GPU().GetInfo(ctx); err != nil {
		c.errs = append(c.errs, err)
	}
	if c.Network, err = d.Network().GetInfo(ctx); err != nil {
		c.errs = append(c.errs, err)
	}
	return c, nil
}

// Styles
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
	gaugeFill   = "█"
	gaugeEmpty  = "░"
	cardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("60")).
			Padding(0, 1).
			MarginRight(1)
)

const unavailable = "unavailable"

func renderReport(r report) string {
	header := titleStyle.Render("produce")
	if r.Device != nil {
		header += "  " + subtleStyle.Render(strings.TrimSpace(r.Device.Name+" "+r.Device.SerialNumber))
	}

	cards := []string{
		card("CPU", cpuBody(r.CPU)),
		card("Battery", batteryBody(r.Battery)),
		card("GPU", gpuBody(r.GPU)),
		card("Network", networkBody(r.Network)),
	}
	top := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1])
	bottom := lipgloss.JoinHorizontal(lipgloss.Top, cards[2], cards[3])
	return lipgloss.JoinVertical(lipgloss.Left, header, top, bottom)
}

func cpuBody(info *cpu.Info) string {
	if info == nil {
		return unavailable
	}
	lines := []string{
		fmt.Sprintf("%s (%s)", orDash(info.Model), info.Arch),
		fmt.Sprintf("%d cores, %d threads", info.PhysicalCores, info.LogicalCores),
	}
	if info.Usage.TotalTicks > 0 {
		lines = append(lines, gaugeBar(info.Usage.Busy(), 20))
	}
	return strings.Join(lines, "\n")
}

func batteryBody(info *battery.Info) string {
	if info == nil || !info.Open {
		return "no battery"
	}
	lines := []string{chargeLine(info.Charge)}
	if info.Health.Known() {
		lines = append(lines, fmt.Sprintf("health %.0f%%", info.Health.Percent()))
	}
	if info.CycleCount != nil {
		lines = append(lines, fmt.Sprintf("%d cycles", *info.CycleCount))
	}
	if info.Temperature != nil {
		lines = append(lines, fmt.Sprintf("%.1f°C", *info.Temperature))
	}
	if info.TimeRemaining != nil {
		lines = append(lines, info.TimeRemaining.String())
	}
	return strings.Join(lines, "\n")
}

func chargeLine(c battery.Charge) string {
	if !c.Known() {
		return "charge " + string(c.State)
	}
	return gaugeBar(c.Percent(), 20)
}

func gpuBody(info *gpu.Info) string {
	if info == nil {
		return unavailable
	}
	if !info.Available {
		return "no GPU"
	}
	lines := []string{
		info.Name,
		fmt.Sprintf("%s, %d in peer group", info.Location, info.CoreCount),
	}
	if info.ShaderCores > 0 {
		lines = append(lines, fmt.Sprintf("%d GPU cores", info.ShaderCores))
	}
	if info.RecommendedWorkingSetBytes > 0 {
		lines = append(lines, humanize.IBytes(info.RecommendedWorkingSetBytes)+" working set")
	}
	return strings.Join(lines, "\n")
}

func networkBody(info *network.Info) string {
	if info == nil {
		return unavailable
	}
	if !info.Present {
		return info.Interface + " not present"
	}
	return fmt.Sprintf("%s\nip  %s\nmac %s", info.Interface, orDash(info.IP), orDash(info.MACAddress))
}

// Helpers
func gaugeBar(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int((pct / 100) * float64(width))
	if filled > width {
		filled = width
	}
	return fmt.Sprintf("[%s%s] %5.1f%%",
		strings.Repeat(gaugeFill, filled),
		strings.Repeat(gaugeEmpty, width-filled),
		pct)
}

func card(title, body string) string {
	titleStr := labelStyle.Render(title)
	content := titleStr + "\n" + body
	return cardStyle.Render(content)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
