package cmd

import (
	"fmt"

	"github.com/jweekley-ucsc/skillscope/internal/capture"
	"github.com/spf13/cobra"
)

func newDevicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List available audio capture devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			devices, err := capture.ListDevices()
			if err != nil {
				return fmt.Errorf("failed to list capture devices: %w", err)
			}
			if len(devices) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No capture devices found.")
				return nil
			}
			for _, d := range devices {
				fmt.Fprintf(cmd.OutOrStdout(), "%d: %s\n", d.Index, d.Name)
			}
			return nil
		},
	}
}
