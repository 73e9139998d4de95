package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"unicode"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// formatVersion adds 'v' prefix if version starts with a digit
func formatVersion(ver string) string {
	if len(ver) > 0 && unicode.IsDigit(rune(ver[0])) {
		return "v" + ver
	}
	return ver
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hilt",
	Short: "Hardware-in-the-loop tester for the ESP32 demo firmware",
	Long: `Hardware-in-the-loop test harness that drives an ESP32 device over
serial and Wi-Fi:

- Wait for the firmware to report its IP address on the serial console
- Run LED, string-storage and root-page checks against the device web server
- Verify the SoftAP binary-size regression between two firmware builds
- Open an interactive serial console
- Emulate the firmware locally for harness development

Built for exercising the "ESP32 LED and String Control" demo firmware from a
host machine.`,
	Version: formatVersion(version),
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Ctrl+C is a normal exit, not an error - exit silently
		if errors.Is(err, context.Canceled) {
			return
		}
		// Print user-friendly error message
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", FormatUserError(err))
		os.Exit(1)
	}
}

func init() {
	// Silence Cobra's "Error:" prefix - main() prints clean errors
	rootCmd.SilenceErrors = true

	// Add subcommands
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(waitIPCmd)
	rootCmd.AddCommand(sizeDiffCmd)
	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(emuCmd)
	rootCmd.AddCommand(portsCmd)

	// Global flags
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")

	// Add -v as a short flag for --version
	rootCmd.Flags().BoolP("version", "v", false, "Show version information")
}
