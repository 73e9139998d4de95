package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/srg/hilt/pkg/dut"
	"golang.org/x/term"
)

// exitKey is Ctrl-], same as the ESP-IDF monitor.
const exitKey = 0x1d

// consoleCmd represents the console command
var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Open an interactive serial console to the device",
	Long: `Attach the terminal to the device serial console in raw mode.

Everything typed goes to the device, everything the device prints comes
back. Exit with Ctrl-].`,
	RunE: runConsole,
}

var (
	consolePort string
	consoleBaud int
)

func init() {
	consoleCmd.Flags().StringVarP(&consolePort, "port", "p", "", "Serial port of the DUT console (e.g. /dev/ttyUSB0)")
	consoleCmd.Flags().IntVarP(&consoleBaud, "baud", "b", 0, "Serial baud rate (default 115200)")
	consoleCmd.MarkFlagRequired("port")
}

func runConsole(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	port, err := dut.OpenSerial(&dut.SerialOptions{Port: consolePort, Baud: consoleBaud})
	if err != nil {
		return err
	}
	defer port.Close()

	stdinFd := int(os.Stdin.Fd())
	if !term.IsTerminal(stdinFd) {
		return fmt.Errorf("console requires an interactive terminal")
	}

	oldState, err := term.MakeRaw(stdinFd)
	if err != nil {
		return fmt.Errorf("failed to switch terminal to raw mode: %w", err)
	}
	defer term.Restore(stdinFd, oldState)

	fmt.Printf("Connected to %s. Exit with Ctrl-].\r\n", consolePort)

	// Device -> terminal. Ends when the port is closed below.
	go io.Copy(os.Stdout, port)

	// Terminal -> device, byte at a time so the exit key is seen promptly.
	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			return nil
		}
		if n == 0 {
			continue
		}
		if buf[0] == exitKey {
			fmt.Printf("\r\nDisconnected.\r\n")
			return nil
		}
		if _, err := port.Write(buf[:n]); err != nil {
			return fmt.Errorf("serial write failed: %w", err)
		}
	}
}
