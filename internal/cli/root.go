// Package cli implements the ecoquest command line tool.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"example.com/ecoquest/internal/config"
)

// NewRootCmd creates the root Cobra command for the ecoquest CLI.
func NewRootCmd(ver string) *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:           "ecoquest",
		Short:         "Estimate and report the environmental impact of everyday activities",
		Version:       ver,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	newLogger := func(c *cobra.Command) zerolog.Logger {
		return config.NewLogger("ecoquest-cli", logLevel, c.ErrOrStderr())
	}

	cmd.AddCommand(NewEstimateCmd())
	cmd.AddCommand(NewReportCmd(newLogger))
	return cmd
}
