package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/srg/hilt/pkg/config"
)

// configureLogger builds the command's logger from the --log-level flag.
// Without the flag the logger is essentially silent, so command output stays
// clean for scripting; the level names are whatever logrus.ParseLevel takes.
func configureLogger(cmd *cobra.Command) (*logrus.Logger, error) {
	cfg := config.DefaultConfig()
	cfg.LogLevel = logrus.PanicLevel.String()

	if flagLevel, _ := cmd.Flags().GetString("log-level"); flagLevel != "" {
		cfg.LogLevel = flagLevel
	}

	return cfg.NewLogger()
}
