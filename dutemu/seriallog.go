package dutemu

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
	"github.com/sirupsen/logrus"
	"github.com/smallnest/ringbuffer"
)

// bootLogLines is the console output the station firmware produces between
// reset and the web server coming up. The %s is the acquired IPv4 address.
var bootLogLines = []string{
	"I (512) wifi: WiFi STA started, trying to connect...",
	"I (1824) wifi: Connected to AP. SSID:testnet PASSWORD:testpass",
	"I (1930) wifi: Got IP: %s",
	"I (1942) web: HTTP server started",
}

// WriteBootLog writes the firmware boot sequence to w, announcing ip.
func WriteBootLog(w io.Writer, ip string) error {
	for _, line := range bootLogLines {
		if _, err := fmt.Fprintln(w, strings.ReplaceAll(line, "%s", ip)); err != nil {
			return fmt.Errorf("failed to write boot log: %w", err)
		}
	}
	return nil
}

// consoleInputBufferSize bounds how much host input the console retains.
const consoleInputBufferSize = 4096

// SerialConsole exposes the emulator's console over a PTY, so tools that
// expect a serial device (including the harness itself) can attach to the
// slave side.
type SerialConsole struct {
	master *os.File
	slave  *os.File // kept open so master I/O stays valid with no consumer attached
	tty    string
	logger *logrus.Logger

	mu    sync.Mutex
	input *ringbuffer.RingBuffer // bytes written by whoever attached to the tty

	closeOnce sync.Once
}

// OpenSerialConsole allocates a PTY pair and starts draining input from the
// attached side, so a chatty consumer can never block the console.
func OpenSerialConsole(logger *logrus.Logger) (*SerialConsole, error) {
	if logger == nil {
		logger = logrus.New()
	}

	master, slave, err := pty.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open pty: %w", err)
	}

	sc := &SerialConsole{
		master: master,
		slave:  slave,
		tty:    slave.Name(),
		logger: logger,
		input:  ringbuffer.New(consoleInputBufferSize),
	}

	go sc.drainInput()

	logger.WithField("tty", sc.tty).Info("Emulator serial console ready")
	return sc, nil
}

// TTYName returns the slave device path, e.g. /dev/pts/3.
func (sc *SerialConsole) TTYName() string {
	return sc.tty
}

// drainInput consumes whatever the attached tool writes. The firmware
// ignores console input; retaining the tail is enough for diagnostics.
func (sc *SerialConsole) drainInput() {
	buf := make([]byte, 256)
	for {
		n, err := sc.master.Read(buf)
		if n > 0 {
			sc.mu.Lock()
			if _, werr := sc.input.Write(buf[:n]); werr != nil {
				sc.input.Reset()
				sc.input.Write(buf[:n])
			}
			sc.mu.Unlock()
		}
		if err != nil {
			sc.logger.WithError(err).Debug("Serial console input drained")
			return
		}
	}
}

// WriteLine emits one log line to the console.
func (sc *SerialConsole) WriteLine(format string, args ...interface{}) error {
	if _, err := fmt.Fprintf(sc.master, format+"\n", args...); err != nil {
		return fmt.Errorf("failed to write console line: %w", err)
	}
	return nil
}

// PlayBootLog replays the firmware boot sequence on the console, pausing
// between lines like a real boot.
func (sc *SerialConsole) PlayBootLog(ip string, lineDelay time.Duration) error {
	for _, line := range bootLogLines {
		if lineDelay > 0 {
			time.Sleep(lineDelay)
		}
		if err := sc.WriteLine("%s", strings.ReplaceAll(line, "%s", ip)); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the PTY pair; attached readers see EOF.
func (sc *SerialConsole) Close() error {
	var err error
	sc.closeOnce.Do(func() {
		err = sc.master.Close()
		sc.slave.Close()
	})
	return err
}
