// Package checks contains the firmware verification sequences the harness
// runs against a connected device's web server. Each check is a linear run
// of HTTP probes with substring assertions on the response bodies, matching
// what the demo firmware serves.
package checks

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/srg/hilt/pkg/probe"
)

// Response fragments the demo firmware is known to produce.
const (
	RootPageTitle   = "ESP32 LED and String Control"
	LEDOnConfirm    = "LED turned ON"
	LEDOffConfirm   = "LED turned OFF"
	StorageEmptyTag = "(empty)"

	// storageTestValue is the value round-tripped through /string.
	storageTestValue = "hello-from-test"
)

// Check is one named verification against a device base URL.
type Check struct {
	Name string
	Run  func(ctx context.Context, c *probe.Client, baseURL string) error
}

// All returns the full endpoint check sequence in execution order.
func All() []Check {
	return []Check{
		{Name: "root-page", Run: RootPage},
		{Name: "led-control", Run: LED},
		{Name: "string-storage", Run: Storage},
	}
}

// ByNames selects checks from All by name, preserving All's order.
func ByNames(names []string) ([]Check, error) {
	if len(names) == 0 {
		return All(), nil
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	var out []Check
	for _, c := range All() {
		if wanted[c.Name] {
			out = append(out, c)
			delete(wanted, c.Name)
		}
	}
	if len(wanted) > 0 {
		var unknown []string
		for n := range wanted {
			unknown = append(unknown, n)
		}
		return nil, fmt.Errorf("unknown checks: %s", strings.Join(unknown, ", "))
	}
	return out, nil
}

// ValidateIP verifies the discovered address is a well-formed IPv4
// dotted quad.
func ValidateIP(ip string) error {
	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.To4() == nil {
		return fmt.Errorf("malformed IPv4 address %q", ip)
	}
	return nil
}

// expectContains fails with the observed body inlined, so a mismatch is
// diagnosable from the failure message alone.
func expectContains(body, substr, what string) error {
	if strings.Contains(body, substr) {
		return nil
	}
	return fmt.Errorf("%s: expected %q in response, got: %s", what, substr, strings.TrimSpace(body))
}

// RootPage verifies the device serves its control page.
func RootPage(ctx context.Context, c *probe.Client, baseURL string) error {
	body, err := c.Get(ctx, baseURL+"/")
	if err != nil {
		return err
	}
	return expectContains(body, RootPageTitle, "root page")
}

// LED drives the LED endpoint through both states.
func LED(ctx context.Context, c *probe.Client, baseURL string) error {
	body, err := c.Get(ctx, baseURL+"/led?state=on")
	if err != nil {
		return err
	}
	if err := expectContains(body, LEDOnConfirm, "led on"); err != nil {
		return err
	}

	body, err = c.Get(ctx, baseURL+"/led?state=off")
	if err != nil {
		return err
	}
	return expectContains(body, LEDOffConfirm, "led off")
}

// Storage exercises the stored-string endpoint: reset, read back empty,
// save a value, read it back, clean up.
func Storage(ctx context.Context, c *probe.Client, baseURL string) error {
	stringURL := baseURL + "/string"

	if _, err := c.Do(ctx, http.MethodDelete, stringURL, ""); err != nil {
		return fmt.Errorf("storage reset: %w", err)
	}

	body, err := c.Get(ctx, stringURL)
	if err != nil {
		return err
	}
	if err := expectContains(body, StorageEmptyTag, "storage after reset"); err != nil {
		return err
	}

	form := url.Values{"value": {storageTestValue}}.Encode()
	if _, err := c.Do(ctx, http.MethodPost, stringURL, form); err != nil {
		return fmt.Errorf("storage save: %w", err)
	}

	body, err = c.Get(ctx, stringURL)
	if err != nil {
		return err
	}
	if err := expectContains(body, storageTestValue, "storage read-back"); err != nil {
		return err
	}

	if _, err := c.Do(ctx, http.MethodDelete, stringURL, ""); err != nil {
		return fmt.Errorf("storage cleanup: %w", err)
	}
	return nil
}
