package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/srg/hilt/pkg/dut"
	"github.com/srg/hilt/pkg/probe"
	"github.com/stretchr/testify/assert"
)

func TestFormatVersion(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"numeric version gets v prefix", "1.2.3", "v1.2.3"},
		{"dev version unchanged", "dev", "dev"},
		{"already prefixed unchanged", "v2.0.0", "v2.0.0"},
		{"empty unchanged", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatVersion(tt.input))
		})
	}
}

func TestFormatUserError(t *testing.T) {
	t.Run("expect timeout gets wiring hint", func(t *testing.T) {
		err := fmt.Errorf("device did not report an IP address: %w", dut.ErrExpectTimeout)
		msg := FormatUserError(err)
		assert.Contains(t, msg, "Wi-Fi credentials")
	})

	t.Run("readiness failure uses the canonical message", func(t *testing.T) {
		err := fmt.Errorf("%w (after 15 attempts)", probe.ErrNotReady)
		assert.Equal(t, "Web server did not respond in time", FormatUserError(err))
	})

	t.Run("other errors pass through", func(t *testing.T) {
		err := errors.New("serial port busy")
		assert.Equal(t, "serial port busy", FormatUserError(err))
	})
}
