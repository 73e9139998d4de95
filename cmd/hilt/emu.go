package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/srg/hilt/dutemu"
)

// emuCmd represents the emu command
var emuCmd = &cobra.Command{
	Use:   "emu",
	Short: "Run a local emulation of the demo firmware",
	Long: `Serve the demo firmware's HTTP endpoints ("/", "/led", "/string")
from this machine, optionally replaying the firmware boot log on a PTY so
serial-consuming tools can attach.

Meant for developing the harness itself without a device on the bench.`,
	RunE: runEmu,
}

var (
	emuAddr     string
	emuPty      bool
	emuIP       string
	emuBootWait time.Duration
)

func init() {
	emuCmd.Flags().StringVarP(&emuAddr, "addr", "a", "127.0.0.1:0", "Listen address for the emulated web server")
	emuCmd.Flags().BoolVar(&emuPty, "pty", false, "Replay the boot log on a PTY serial console")
	emuCmd.Flags().StringVar(&emuIP, "ip", "", "IP address to announce in the boot log (default: the listen address)")
	emuCmd.Flags().DurationVar(&emuBootWait, "boot-delay", 200*time.Millisecond, "Delay between boot log lines")
}

func runEmu(cmd *cobra.Command, args []string) error {
	logger, err := configureLogger(cmd)
	if err != nil {
		return err
	}

	cmd.SilenceUsage = true

	listener, err := net.Listen("tcp", emuAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", emuAddr, err)
	}

	emu := dutemu.New()
	server := &http.Server{Handler: emu}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(listener)
	}()

	addr := listener.Addr().String()
	fmt.Printf("Emulated firmware listening on http://%s\n", addr)

	announcedIP := emuIP
	if announcedIP == "" {
		host, _, _ := net.SplitHostPort(addr)
		announcedIP = host
	}

	if emuPty {
		console, err := dutemu.OpenSerialConsole(logger)
		if err != nil {
			server.Close()
			return err
		}
		defer console.Close()
		fmt.Printf("Serial console on %s\n", console.TTYName())

		go func() {
			if err := console.PlayBootLog(announcedIP, emuBootWait); err != nil {
				logger.WithError(err).Warn("Boot log playback stopped")
			}
		}()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sig:
		fmt.Println("Shutting down")
	case err := <-serveErr:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-cmd.Context().Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
