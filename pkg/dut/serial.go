package dut

import (
	"fmt"

	"go.bug.st/serial"
)

// DefaultBaudRate matches the ESP-IDF console default.
const DefaultBaudRate = 115200

// SerialOptions configures the serial connection to the device.
type SerialOptions struct {
	Port string // e.g. /dev/ttyUSB0
	Baud int    // 0 means DefaultBaudRate
}

// OpenSerial opens the device console port in 8N1 mode.
func OpenSerial(opts *SerialOptions) (serial.Port, error) {
	if opts == nil || opts.Port == "" {
		return nil, fmt.Errorf("serial port name is required")
	}

	baud := opts.Baud
	if baud == 0 {
		baud = DefaultBaudRate
	}

	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(opts.Port, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", opts.Port, err)
	}
	return port, nil
}

// ListSerialPorts returns the serial port names visible on the host.
func ListSerialPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate serial ports: %w", err)
	}
	return ports, nil
}
