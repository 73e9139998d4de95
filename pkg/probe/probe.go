// Package probe issues one-shot HTTP requests against the device's web
// server and provides the readiness poll used right after Wi-Fi comes up.
package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultRequestTimeout bounds each individual HTTP request.
	DefaultRequestTimeout = 10 * time.Second

	// DefaultReadyDeadline is how long the web server gets to start
	// answering after the device reports an IP address.
	DefaultReadyDeadline = 15 * time.Second

	// DefaultReadyInterval is the fixed pause between readiness attempts.
	DefaultReadyInterval = 1 * time.Second
)

// ErrNotReady indicates the web server never answered successfully within
// the readiness deadline.
var ErrNotReady = errors.New("Web server did not respond in time")

// StatusError is returned by Do for non-2xx responses. The body is retained
// so assertion failures can quote what the device actually said.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %s: %s", e.Status, strings.TrimSpace(e.Body))
}

// Client performs HTTP probes against the device under test.
type Client struct {
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a probe client. A zero timeout means
// DefaultRequestTimeout.
func NewClient(timeout time.Duration, logger *logrus.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Do issues a single request and returns the decoded response body.
// Transport failures and non-2xx statuses are errors; there are no retries.
func (c *Client) Do(ctx context.Context, method, url string, body string) (string, error) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return "", fmt.Errorf("failed to build %s %s: %w", method, url, err)
	}
	if method == http.MethodPost && body != "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	c.logger.WithFields(logrus.Fields{
		"method": method,
		"url":    url,
	}).Debug("HTTP probe")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s %s failed: %w", method, url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response of %s %s: %w", method, url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(data),
		}
	}

	return string(data), nil
}

// Get is shorthand for Do with GET and no body.
func (c *Client) Get(ctx context.Context, url string) (string, error) {
	return c.Do(ctx, http.MethodGet, url, "")
}

// WaitReady polls GET baseURL once per interval until the server answers
// successfully or the deadline elapses. Connection failures and error
// statuses both keep the poll going; a device whose server is up but still
// answering 5xx is not ready. The first attempt happens immediately, so a
// ready server costs no sleep.
func (c *Client) WaitReady(ctx context.Context, baseURL string, deadline, interval time.Duration) error {
	if deadline <= 0 {
		deadline = DefaultReadyDeadline
	}
	if interval <= 0 {
		interval = DefaultReadyInterval
	}

	waitCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	attempt := 0
	for {
		attempt++
		_, err := c.Get(waitCtx, baseURL+"/")
		if err == nil {
			c.logger.WithField("attempts", attempt).Debug("Web server is up")
			return nil
		}

		c.logger.WithError(err).WithField("attempt", attempt).Debug("Web server not ready yet")

		select {
		case <-waitCtx.Done():
			return fmt.Errorf("%w (after %d attempts)", ErrNotReady, attempt)
		case <-time.After(interval):
		}
	}
}
