package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/srg/hilt/pkg/dut"
)

// portsCmd represents the ports command
var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial ports visible on this host",
	Long: `List the serial port names visible on this host, one per line.

Handy for finding the DUT console to pass to --port.`,
	RunE: runPorts,
}

func runPorts(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	ports, err := dut.ListSerialPorts()
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No serial ports found")
		return nil
	}

	for _, port := range ports {
		fmt.Fprintln(cmd.OutOrStdout(), port)
	}
	return nil
}
