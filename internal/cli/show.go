package cli

import (
	"context"
	"errors"
	"time"

	"github.com/CristiGvl/produce/internal/battery"
	"github.com/spf13/cobra"
)

func init() {
	cpuCmd.Flags().DurationVar(&cpuInterval, "interval", time.Second, "Time between the two usage samples")
	rootCmd.AddCommand(batteryCmd, cpuCmd, gpuCmd, networkCmd, deviceCmd)
}

var cpuInterval time.Duration

var batteryCmd = &cobra.Command{
	Use:   "battery",
	Short: "Show battery capacity, charge, health and time remaining",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, _, logger, err := loadDevice()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		b := d.Battery()
		if err := b.Open(ctx); err != nil {
			if !errors.Is(err, battery.ErrNotFound) {
				return err
			}
			logger.Info("no battery found")
		}
		defer func() {
			if b.IsOpen() {
				_ = b.Close()
			}
		}()

		info, err := b.GetInfo(ctx)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), info)
	},
}

var cpuCmd = &cobra.Command{
	Use:   "cpu",
	Short: "Show CPU cores, architecture and usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, _, _, err := loadDevice()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		p := d.CPU()
		if _, err := p.GetUsage(ctx); err != nil {
			return err
		}
		if err := sleep(ctx, cpuInterval); err != nil {
			return err
		}

		info, err := p.GetInfo(ctx)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), info)
	},
}

var gpuCmd = &cobra.Command{
	Use:   "gpu",
	Short: "Show the system default GPU",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, _, _, err := loadDevice()
		if err != nil {
			return err
		}
		info, err := d.GPU().GetInfo(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), info)
	},
}

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Show the IP and MAC address of the configured interface",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, _, _, err := loadDevice()
		if err != nil {
			return err
		}
		info, err := d.Network().GetInfo(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), info)
	},
}

var deviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Show the host name and serial number",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, _, _, err := loadDevice()
		if err != nil {
			return err
		}
		info, err := d.GetInfo(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), info)
	},
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
