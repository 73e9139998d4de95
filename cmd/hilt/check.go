package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/srg/hilt/checks"
	"github.com/srg/hilt/pkg/config"
	"github.com/srg/hilt/pkg/dut"
	"github.com/srg/hilt/pkg/probe"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the endpoint checks against a connected device",
	Long: `Run the firmware verification checks against a connected device.

Discovers the device IP address from its serial console (or uses --ip),
waits for the web server to come up, then exercises the LED, string-storage
and root-page endpoints with substring assertions on every response.`,
	RunE: runCheck,
}

var (
	checkPort       string
	checkBaud       int
	checkTarget     string
	checkIP         string
	checkNames      []string
	checkConfigPath string
	checkIPTimeout  time.Duration
	checkBaseURL    string
)

func init() {
	checkCmd.Flags().StringVarP(&checkPort, "port", "p", "", "Serial port of the DUT console (e.g. /dev/ttyUSB0)")
	checkCmd.Flags().IntVarP(&checkBaud, "baud", "b", 0, "Serial baud rate (default 115200)")
	checkCmd.Flags().StringVarP(&checkTarget, "target", "t", "", "Target chip identifier (e.g. esp32c3)")
	checkCmd.Flags().StringVar(&checkIP, "ip", "", "Device IP address (skips serial discovery)")
	checkCmd.Flags().StringSliceVar(&checkNames, "checks", nil, "Subset of checks to run (root-page, led-control, string-storage)")
	checkCmd.Flags().StringVarP(&checkConfigPath, "config", "c", "", "Path to a YAML config file")
	checkCmd.Flags().DurationVar(&checkIPTimeout, "ip-timeout", 0, "How long to wait for the IP announcement (default 90s)")
	checkCmd.Flags().StringVar(&checkBaseURL, "base-url", "", "Base URL of the device web server (overrides IP discovery, e.g. against an emulator)")
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(path)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger, err := configureLogger(cmd)
	if err != nil {
		return err
	}

	selected, err := checks.ByNames(checkNames)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(checkConfigPath)
	if err != nil {
		return err
	}
	if checkPort != "" {
		cfg.Serial.Port = checkPort
	}
	if checkBaud != 0 {
		cfg.Serial.Baud = checkBaud
	}
	if checkTarget != "" {
		cfg.Target = checkTarget
	}
	if checkIPTimeout != 0 {
		cfg.Timeouts.IPWait = checkIPTimeout
	}

	if checkBaseURL == "" && checkIP == "" && cfg.Serial.Port == "" {
		return fmt.Errorf("one of --base-url, --ip or a serial port (--port) is required")
	}

	// All arguments validated - don't show usage on runtime errors
	cmd.SilenceUsage = true

	ctx := cmd.Context()

	baseURL := checkBaseURL
	if baseURL == "" {
		ip := checkIP
		if ip == "" {
			d, err := dut.Open(&dut.Options{
				Target: cfg.Target,
				Serial: &dut.SerialOptions{Port: cfg.Serial.Port, Baud: cfg.Serial.Baud},
				Logger: logger,
			})
			if err != nil {
				return err
			}
			defer d.Close()

			ip, err = d.WaitForIP(ctx, cfg.Timeouts.IPWait)
			if err != nil {
				return err
			}
		}

		if err := checks.ValidateIP(ip); err != nil {
			return err
		}
		baseURL = "http://" + ip
	}

	client := probe.NewClient(cfg.Timeouts.HTTP, logger)
	if err := client.WaitReady(ctx, baseURL, cfg.Timeouts.Ready, cfg.Timeouts.ReadyInterval); err != nil {
		return err
	}

	runner := checks.NewRunner(client, logger, os.Stdout)
	if err := runner.Run(ctx, baseURL, selected); err != nil {
		return fmt.Errorf("device checks failed:\n%w", err)
	}

	fmt.Printf("All %d checks passed against %s\n", len(selected), baseURL)
	return nil
}
