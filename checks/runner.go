package checks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/srg/hilt/pkg/probe"
)

var (
	stepFmt = color.New(color.FgBlue, color.Bold).SprintFunc()
	okFmt   = color.New(color.FgGreen).SprintFunc()
	errFmt  = color.New(color.FgRed, color.Bold).SprintFunc()
)

// Runner executes checks sequentially against one device, printing a step
// line per check.
type Runner struct {
	client *probe.Client
	logger *logrus.Logger
	out    io.Writer // nil silences step output
}

// NewRunner creates a Runner. out may be nil to suppress step printing.
func NewRunner(client *probe.Client, logger *logrus.Logger, out io.Writer) *Runner {
	if logger == nil {
		logger = logrus.New()
	}
	return &Runner{client: client, logger: logger, out: out}
}

// Run executes the given checks in order. Every check runs even when an
// earlier one fails; the joined failures come back as one error.
func (r *Runner) Run(ctx context.Context, baseURL string, cs []Check) error {
	var failures []error

	for i, c := range cs {
		r.printf("%s %s\n", stepFmt(fmt.Sprintf("[%d/%d]", i+1, len(cs))), c.Name)

		start := time.Now()
		err := c.Run(ctx, r.client, baseURL)
		elapsed := time.Since(start).Round(time.Millisecond)

		if err != nil {
			r.logger.WithError(err).WithField("check", c.Name).Error("Check failed")
			r.printf("  %s %s: %v\n", errFmt("FAIL"), c.Name, err)
			failures = append(failures, fmt.Errorf("%s: %w", c.Name, err))
			continue
		}

		r.logger.WithFields(logrus.Fields{
			"check":   c.Name,
			"elapsed": elapsed,
		}).Info("Check passed")
		r.printf("  %s %s (%s)\n", okFmt("OK"), c.Name, elapsed)
	}

	return errors.Join(failures...)
}

func (r *Runner) printf(format string, args ...interface{}) {
	if r.out != nil {
		fmt.Fprintf(r.out, format, args...)
	}
}
