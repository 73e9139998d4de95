package dut

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/srg/hilt/internal/ringchan"
)

// DefaultLogBufferLines is the capacity of the serial log line buffer.
// ESP-IDF boot output is a few hundred lines; anything older than that is
// never interesting to an expect call.
const DefaultLogBufferLines = 1024

// ErrExpectTimeout indicates the expected pattern did not appear in the
// device log within the allotted time.
var ErrExpectTimeout = errors.New("expect timeout")

// LogReader consumes a line-oriented device log stream and lets callers
// block until a line matching a pattern appears.
//
// A single goroutine drains the underlying reader into a bounded ring
// buffer, so serial reads are never stalled by a slow consumer.
type LogReader struct {
	lines  *ringchan.RingChannel[string]
	logger *logrus.Logger
	done   chan struct{}
}

// NewLogReader starts draining r line by line. The reader goroutine exits
// when r reaches EOF or returns an error.
func NewLogReader(r io.Reader, logger *logrus.Logger) *LogReader {
	if logger == nil {
		logger = logrus.New()
	}

	lr := &LogReader{
		lines:  ringchan.New[string](DefaultLogBufferLines),
		logger: logger,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(lr.done)
		defer lr.lines.Close()

		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			line := scanner.Text()
			lr.logger.WithField("line", line).Debug("DUT log")
			lr.lines.Send(line)
		}
		if err := scanner.Err(); err != nil {
			lr.logger.WithError(err).Debug("DUT log stream closed")
		}
	}()

	return lr
}

// Expect blocks until a log line matches re or the timeout elapses.
// On success it returns the regexp submatches (match[0] is the whole match).
// On timeout it returns an error wrapping ErrExpectTimeout that names the
// pattern, so test failures are self-describing.
func (lr *LogReader) Expect(ctx context.Context, re *regexp.Regexp, timeout time.Duration) ([]string, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		select {
		case line, ok := <-lr.lines.C():
			if !ok {
				return nil, fmt.Errorf("log stream ended before pattern %q matched", re.String())
			}
			if m := re.FindStringSubmatch(line); m != nil {
				lr.logger.WithFields(logrus.Fields{
					"pattern": re.String(),
					"line":    line,
				}).Debug("Expect matched")
				return m, nil
			}
		case <-deadline.C:
			return nil, fmt.Errorf("pattern %q not seen within %v: %w", re.String(), timeout, ErrExpectTimeout)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Done is closed once the underlying stream has been fully drained.
func (lr *LogReader) Done() <-chan struct{} {
	return lr.done
}
