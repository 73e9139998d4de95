// Package dut models the device under test: a serial console attached to an
// embedded target running the demo firmware. It exposes the device log as a
// line stream with blocking pattern waits, plus the IP-address discovery the
// Wi-Fi checks depend on.
package dut

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultIPTimeout bounds how long the firmware may take to associate and
// obtain a DHCP lease before discovery gives up.
const DefaultIPTimeout = 90 * time.Second

// ipPattern is the log line the firmware prints once the station interface
// has an address: "Got IP: 192.168.4.1".
var ipPattern = regexp.MustCompile(`Got IP: (\d+\.\d+\.\d+\.\d+)`)

// DUT is a handle to one connected device under test.
type DUT struct {
	target string
	log    *LogReader
	logger *logrus.Logger

	mu     sync.Mutex
	closer io.Closer // nil when the log stream is externally owned
	closed bool
}

// Options configures a DUT handle.
type Options struct {
	Target string         // target chip identifier, e.g. "esp32c3"
	Serial *SerialOptions // console port; required by Open
	Logger *logrus.Logger
}

// Open connects to a device over its serial console.
func Open(opts *Options) (*DUT, error) {
	if opts == nil || opts.Serial == nil {
		return nil, fmt.Errorf("serial options are required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
	}

	port, err := OpenSerial(opts.Serial)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"port":   opts.Serial.Port,
		"target": opts.Target,
	}).Info("Connected to DUT serial console")

	return &DUT{
		target: opts.Target,
		log:    NewLogReader(port, logger),
		logger: logger,
		closer: port,
	}, nil
}

// NewFromStream wraps an already-open log stream (an emulator PTY, a pipe,
// a recorded log) as a DUT. The caller keeps ownership of the stream.
func NewFromStream(target string, r io.Reader, logger *logrus.Logger) *DUT {
	if logger == nil {
		logger = logrus.New()
	}
	return &DUT{
		target: target,
		log:    NewLogReader(r, logger),
		logger: logger,
	}
}

// Target returns the target chip identifier, may be empty.
func (d *DUT) Target() string {
	return d.target
}

// Log returns the device log reader.
func (d *DUT) Log() *LogReader {
	return d.log
}

// WaitForIP blocks until the firmware reports an acquired IPv4 address on
// its console and returns the dotted-quad string.
func (d *DUT) WaitForIP(ctx context.Context, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = DefaultIPTimeout
	}

	m, err := d.log.Expect(ctx, ipPattern, timeout)
	if err != nil {
		return "", fmt.Errorf("device did not report an IP address: %w", err)
	}

	ip := m[1]
	d.logger.WithField("ip", ip).Info("DUT acquired IP address")
	return ip, nil
}

// Close releases the serial port, if this handle owns one.
func (d *DUT) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed || d.closer == nil {
		d.closed = true
		return nil
	}
	d.closed = true
	return d.closer.Close()
}
