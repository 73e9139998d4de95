package main

import (
	"errors"

	"github.com/srg/hilt/pkg/dut"
	"github.com/srg/hilt/pkg/probe"
)

// FormatUserError rewrites harness errors into actionable one-liners for the
// terminal; anything unrecognized is printed as-is.
func FormatUserError(err error) string {
	switch {
	case errors.Is(err, dut.ErrExpectTimeout):
		return "device never reported an IP address - check Wi-Fi credentials and serial wiring (" + err.Error() + ")"
	case errors.Is(err, probe.ErrNotReady):
		return "Web server did not respond in time"
	default:
		return err.Error()
	}
}
