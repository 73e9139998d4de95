package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/srg/hilt/pkg/dut"
)

// waitIPCmd represents the wait-ip command
var waitIPCmd = &cobra.Command{
	Use:   "wait-ip",
	Short: "Wait for the device to report its IP address",
	Long: `Watch the device serial console until the firmware announces an
acquired IP address ("Got IP: ...") and print that address.

Useful in scripts that need the device address before poking its web server.`,
	RunE: runWaitIP,
}

var (
	waitIPPort    string
	waitIPBaud    int
	waitIPTimeout = dut.DefaultIPTimeout
)

func init() {
	waitIPCmd.Flags().StringVarP(&waitIPPort, "port", "p", "", "Serial port of the DUT console (e.g. /dev/ttyUSB0)")
	waitIPCmd.Flags().IntVarP(&waitIPBaud, "baud", "b", 0, "Serial baud rate (default 115200)")
	waitIPCmd.Flags().DurationVar(&waitIPTimeout, "timeout", dut.DefaultIPTimeout, "How long to wait for the announcement")
	waitIPCmd.MarkFlagRequired("port")
}

func runWaitIP(cmd *cobra.Command, args []string) error {
	logger, err := configureLogger(cmd)
	if err != nil {
		return err
	}

	cmd.SilenceUsage = true

	d, err := dut.Open(&dut.Options{
		Serial: &dut.SerialOptions{Port: waitIPPort, Baud: waitIPBaud},
		Logger: logger,
	})
	if err != nil {
		return err
	}
	defer d.Close()

	ip, err := d.WaitForIP(cmd.Context(), waitIPTimeout)
	if err != nil {
		return err
	}

	fmt.Println(ip)
	return nil
}
