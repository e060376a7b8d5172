// Package cmd implements the jobshop-sim CLI, grounded on the teacher's
// cmd/root.go: a cobra root command with logrus-backed log-level
// control and one subcommand per mode of operation (here: run a single
// scenario, or sweep a configuration set).
package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "jobshop-sim",
	Short: "Discrete-event simulator for manufacturing job shops",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// Execute runs the root command, matching the teacher's main.go ->
// cmd.Execute() -> os.Exit(1) on failure convention.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (debug, info, warn, error)")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sweepCmd)
}
