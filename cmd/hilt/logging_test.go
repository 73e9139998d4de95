package main

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommandWithLogLevel(level string) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("log-level", "", "")
	if level != "" {
		cmd.Flags().Set("log-level", level)
	}
	return cmd
}

func TestConfigureLogger(t *testing.T) {
	t.Run("silent by default", func(t *testing.T) {
		logger, err := configureLogger(newCommandWithLogLevel(""))
		require.NoError(t, err)
		assert.Equal(t, logrus.PanicLevel, logger.GetLevel())
	})

	t.Run("honors the log-level flag", func(t *testing.T) {
		logger, err := configureLogger(newCommandWithLogLevel("debug"))
		require.NoError(t, err)
		assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	})

	t.Run("rejects unknown levels", func(t *testing.T) {
		_, err := configureLogger(newCommandWithLogLevel("chatty"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}
