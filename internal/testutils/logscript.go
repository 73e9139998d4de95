package testutils

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// logEvent is one scripted step: emit a line, or pause.
type logEvent struct {
	line  string
	delay time.Duration
}

// LogScriptBuilder assembles a fake device console stream for tests:
// a sequence of log lines with optional inter-line delays, played back
// through a pipe so readers experience it like a live serial port.
type LogScriptBuilder struct {
	events []logEvent
}

func NewLogScriptBuilder() *LogScriptBuilder {
	return &LogScriptBuilder{}
}

// WithLine appends one log line (no trailing newline needed).
func (b *LogScriptBuilder) WithLine(format string, args ...interface{}) *LogScriptBuilder {
	b.events = append(b.events, logEvent{line: fmt.Sprintf(format, args...)})
	return b
}

// WithDelay inserts a pause before the next line is emitted.
func (b *LogScriptBuilder) WithDelay(d time.Duration) *LogScriptBuilder {
	b.events = append(b.events, logEvent{delay: d})
	return b
}

// WithBootSequence appends the firmware boot lines up to and including the
// address announcement, matching what the station firmware prints.
func (b *LogScriptBuilder) WithBootSequence(ip string) *LogScriptBuilder {
	return b.
		WithLine("I (512) wifi: WiFi STA started, trying to connect...").
		WithLine("I (1824) wifi: Connected to AP. SSID:testnet PASSWORD:testpass").
		WithLine("I (1930) wifi: Got IP: %s", ip).
		WithLine("I (1942) web: HTTP server started")
}

// String renders the script as a plain newline-joined log, delays ignored.
func (b *LogScriptBuilder) String() string {
	var sb strings.Builder
	for _, ev := range b.events {
		if ev.delay > 0 {
			continue
		}
		sb.WriteString(ev.line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Reader plays the script through an io.Pipe, honoring delays. The returned
// reader yields EOF once the script is exhausted.
func (b *LogScriptBuilder) Reader() io.Reader {
	pr, pw := io.Pipe()
	events := make([]logEvent, len(b.events))
	copy(events, b.events)

	go func() {
		defer pw.Close()
		for _, ev := range events {
			if ev.delay > 0 {
				time.Sleep(ev.delay)
				continue
			}
			if _, err := io.WriteString(pw, ev.line+"\n"); err != nil {
				return // reader went away
			}
		}
	}()

	return pr
}
